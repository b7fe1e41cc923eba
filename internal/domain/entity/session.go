package entity

import (
	"sort"
	"time"
)

// Tipos de sesión.
const (
	SessionTypeCounting  = "counting"  // conteo físico de inventario
	SessionTypeReceiving = "receiving" // recepción de mercancía
)

// ScanContribution acumulado de escaneos de un usuario para una línea de la
// sesión. Escaneos repetidos del mismo usuario se SUMAN, nunca se
// sobrescriben: cada escaneo representa una unidad física.
type ScanContribution struct {
	UserID    string
	UserName  string
	Accepted  int64
	Rejected  int64
	UpdatedAt time.Time
}

// SessionLine línea agregada de una sesión: una ItemKey con el desglose por
// usuario. Los totales se derivan siempre de las contribuciones; no existe un
// campo de total independiente que pueda desincronizarse.
type SessionLine struct {
	Key           ItemKey
	DisplayName   string
	SKU           string
	Contributions map[string]ScanContribution // por UserID
}

// TotalAccepted suma de cantidades aceptadas de todos los contribuyentes.
func (l SessionLine) TotalAccepted() int64 {
	var total int64
	for _, c := range l.Contributions {
		total += c.Accepted
	}
	return total
}

// TotalRejected suma de cantidades rechazadas de todos los contribuyentes.
func (l SessionLine) TotalRejected() int64 {
	var total int64
	for _, c := range l.Contributions {
		total += c.Rejected
	}
	return total
}

// SortedContributions contribuciones ordenadas por UserID (salida estable).
func (l SessionLine) SortedContributions() []ScanContribution {
	out := make([]ScanContribution, 0, len(l.Contributions))
	for _, c := range l.Contributions {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// clone copia profunda de la línea.
func (l SessionLine) clone() SessionLine {
	contribs := make(map[string]ScanContribution, len(l.Contributions))
	for id, c := range l.Contributions {
		contribs[id] = c
	}
	l.Contributions = contribs
	return l
}

// Member miembro de una sesión (usuario que se unió o escaneó).
type Member struct {
	UserID   string
	JoinedAt time.Time
}

// Session actividad colaborativa de conteo o recepción, delimitada a una
// tienda, con el agregado de escaneos de uno o más usuarios.
//
// Ciclo de vida: se crea activa y no-final; deja de estar activa al fusionarse
// en otra sesión o al cerrarse; pasa a final solo al confirmar stock
// (finalize), estado terminal que no admite más escaneos ni fusiones.
type Session struct {
	ID          string
	Name        string
	Type        string // counting | receiving
	CompanyID   string
	StoreID     string
	ShipmentID  string // opcional: recepción ligada a un despacho
	IsActive    bool
	IsFinal     bool
	MergedInto  string // ID de la sesión destino si fue absorbida por un merge
	CreatedBy   string
	CreatedAt   time.Time
	CompletedAt *time.Time
	Members     map[string]Member   // por UserID
	Lines       map[ItemKey]SessionLine
}

// Clone copia profunda. El motor de reconciliación nunca muta una sesión
// recibida: deriva valores nuevos y el caller decide persistirlos.
func (s *Session) Clone() *Session {
	out := *s
	out.Members = make(map[string]Member, len(s.Members))
	for id, m := range s.Members {
		out.Members[id] = m
	}
	out.Lines = make(map[ItemKey]SessionLine, len(s.Lines))
	for k, l := range s.Lines {
		out.Lines[k] = l.clone()
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

// TotalAccepted cantidad aceptada total de la sesión.
func (s *Session) TotalAccepted() int64 {
	var total int64
	for _, l := range s.Lines {
		total += l.TotalAccepted()
	}
	return total
}

// TotalRejected cantidad rechazada total de la sesión.
func (s *Session) TotalRejected() int64 {
	var total int64
	for _, l := range s.Lines {
		total += l.TotalRejected()
	}
	return total
}

// SortedLines líneas ordenadas por ItemKey (producto, luego variante).
func (s *Session) SortedLines() []SessionLine {
	out := make([]SessionLine, 0, len(s.Lines))
	for _, l := range s.Lines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out
}

// SortedMembers miembros ordenados por UserID.
func (s *Session) SortedMembers() []Member {
	out := make([]Member, 0, len(s.Members))
	for _, m := range s.Members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// IsOpen indica si la sesión acepta mutaciones (activa y no final).
func (s *Session) IsOpen() bool { return s.IsActive && !s.IsFinal }
