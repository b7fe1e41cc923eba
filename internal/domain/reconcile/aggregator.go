// Package reconcile implementa el motor de reconciliación de sesiones de
// inventario: agregación de escaneos concurrentes, fusión de sesiones,
// comparación estructural y snapshot de stock al finalizar una recepción.
//
// Todo el paquete es computación pura: no hay I/O, ni locks, ni estado
// compartido. Las sesiones de entrada se tratan como inmutables y cada
// operación deriva valores nuevos; la capa de aplicación es quien serializa
// (bloqueo de fila por sesión) y persiste dentro de una transacción.
package reconcile

import (
	"time"

	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// ScanDelta una contribución de escaneo: un usuario, una ItemKey, cantidades
// no negativas a sumar. DisplayName y SKU enriquecen la línea la primera vez
// que la clave aparece en la sesión.
type ScanDelta struct {
	Key         entity.ItemKey
	UserID      string
	UserName    string
	DisplayName string
	SKU         string
	Accepted    int64
	Rejected    int64
}

// ApplyScan suma un delta de escaneo a la sesión y devuelve la sesión
// derivada. La sesión de entrada no se modifica.
//
// La operación es conmutativa y asociativa entre pares (clave, usuario)
// distintos: aplicar dos deltas independientes en cualquier orden produce los
// mismos totales, lo que hace segura la aplicación concurrente. Dos deltas
// concurrentes para el MISMO par son un read-modify-write que el caller debe
// serializar (bloqueo de fila de la sesión).
//
// Escanear dos veces el mismo artículo registra dos unidades: cada escaneo es
// una unidad física. Las correcciones van por SetScan, no por deltas
// negativos.
func ApplyScan(s *entity.Session, d ScanDelta, now time.Time) (*entity.Session, error) {
	if !s.IsOpen() {
		return nil, &ClosedError{SessionID: s.ID}
	}
	if d.Key.IsZero() || d.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if d.Accepted < 0 || d.Rejected < 0 {
		return nil, &QuantityError{SessionID: s.ID, Key: d.Key, Accepted: d.Accepted, Rejected: d.Rejected}
	}

	out := s.Clone()
	line := lineFor(out, d)

	contrib, ok := line.Contributions[d.UserID]
	if !ok {
		contrib = entity.ScanContribution{UserID: d.UserID, UserName: d.UserName}
	}
	if d.UserName != "" {
		contrib.UserName = d.UserName
	}
	contrib.Accepted += d.Accepted
	contrib.Rejected += d.Rejected
	contrib.UpdatedAt = now
	line.Contributions[d.UserID] = contrib
	out.Lines[d.Key] = line

	joinMember(out, d.UserID, now)
	return out, nil
}

// SetScan fija en valores absolutos la contribución de un usuario para una
// clave (operación explícita de corrección). Fijar ambas cantidades en cero
// elimina la contribución; una línea que queda sin contribuyentes desaparece
// de la sesión.
func SetScan(s *entity.Session, d ScanDelta, now time.Time) (*entity.Session, error) {
	if !s.IsOpen() {
		return nil, &ClosedError{SessionID: s.ID}
	}
	if d.Key.IsZero() || d.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if d.Accepted < 0 || d.Rejected < 0 {
		return nil, &QuantityError{SessionID: s.ID, Key: d.Key, Accepted: d.Accepted, Rejected: d.Rejected}
	}

	out := s.Clone()
	line := lineFor(out, d)

	if d.Accepted == 0 && d.Rejected == 0 {
		delete(line.Contributions, d.UserID)
	} else {
		contrib, ok := line.Contributions[d.UserID]
		if !ok {
			contrib = entity.ScanContribution{UserID: d.UserID, UserName: d.UserName}
		}
		if d.UserName != "" {
			contrib.UserName = d.UserName
		}
		contrib.Accepted = d.Accepted
		contrib.Rejected = d.Rejected
		contrib.UpdatedAt = now
		line.Contributions[d.UserID] = contrib
	}

	if len(line.Contributions) == 0 {
		delete(out.Lines, d.Key)
	} else {
		out.Lines[d.Key] = line
	}

	joinMember(out, d.UserID, now)
	return out, nil
}

// lineFor devuelve la línea existente o crea una nueva con totales en cero.
// El display info lo fija el primer escaneo; los siguientes no lo pisan con
// vacío.
func lineFor(s *entity.Session, d ScanDelta) entity.SessionLine {
	line, ok := s.Lines[d.Key]
	if !ok {
		line = entity.SessionLine{
			Key:           d.Key,
			DisplayName:   d.DisplayName,
			SKU:           d.SKU,
			Contributions: make(map[string]entity.ScanContribution),
		}
	}
	if line.DisplayName == "" {
		line.DisplayName = d.DisplayName
	}
	if line.SKU == "" {
		line.SKU = d.SKU
	}
	return line
}

func joinMember(s *entity.Session, userID string, now time.Time) {
	if _, ok := s.Members[userID]; !ok {
		s.Members[userID] = entity.Member{UserID: userID, JoinedAt: now}
	}
}
