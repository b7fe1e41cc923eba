package reconcile

import (
	"sort"
	"time"

	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// LineDelta una línea del target cuya cantidad creció durante la fusión.
type LineDelta struct {
	Key            entity.ItemKey
	QuantityBefore int64
	QuantityAfter  int64
}

// MergeResult registro de auditoría de una fusión: estado antes/después del
// target, lo copiado desde el source y el detalle por línea (nueva vs
// incrementada). Ninguna línea se descarta en silencio.
type MergeResult struct {
	TargetID       string
	SourceID       string
	ItemsBefore    int
	ItemsAfter     int
	QuantityBefore int64
	QuantityAfter  int64
	MembersBefore  int
	MembersAfter   int
	ItemsCopied    int
	QuantityCopied int64
	MembersAdded   int
	NewLines       []entity.ItemKey
	IncreasedLines []LineDelta
}

// Merge fusiona el agregado del source dentro del target y retira el source.
// Devuelve (target', source', resultado). Las sesiones de entrada no se
// modifican; el caller debe persistir ambas derivadas como una sola unidad
// atómica — nunca un estado con las dos activas sosteniendo los mismos conteos
// (doble conteo) ni con el source retirado sin haber copiado (pérdida).
//
// Precondiciones: ambas abiertas, misma tienda, IDs distintos. Fusionar un
// source ya inactivo falla en vez de no-op, para hacer visible el error del
// operador.
func Merge(target, source *entity.Session, now time.Time) (*entity.Session, *entity.Session, *MergeResult, error) {
	if err := checkMergeable(target, source); err != nil {
		return nil, nil, nil, err
	}

	result := &MergeResult{
		TargetID:       target.ID,
		SourceID:       source.ID,
		ItemsBefore:    len(target.Lines),
		QuantityBefore: target.TotalAccepted(),
		MembersBefore:  len(target.Members),
	}

	merged := target.Clone()
	for _, srcLine := range source.SortedLines() {
		dstLine, ok := merged.Lines[srcLine.Key]
		if !ok {
			// Clave nueva en el target: se copia la línea completa, desglose
			// de contribuyentes incluido.
			merged.Lines[srcLine.Key] = copyLine(srcLine)
			result.NewLines = append(result.NewLines, srcLine.Key)
			continue
		}
		before := dstLine.TotalAccepted()
		for userID, srcContrib := range srcLine.Contributions {
			dstContrib, ok := dstLine.Contributions[userID]
			if !ok {
				dstContrib = entity.ScanContribution{UserID: userID, UserName: srcContrib.UserName}
			}
			dstContrib.Accepted += srcContrib.Accepted
			dstContrib.Rejected += srcContrib.Rejected
			dstContrib.UpdatedAt = now
			dstLine.Contributions[userID] = dstContrib
		}
		merged.Lines[srcLine.Key] = dstLine
		result.IncreasedLines = append(result.IncreasedLines, LineDelta{
			Key:            srcLine.Key,
			QuantityBefore: before,
			QuantityAfter:  dstLine.TotalAccepted(),
		})
	}

	// Miembros: unión de ambas sesiones.
	for userID, m := range source.Members {
		if _, ok := merged.Members[userID]; !ok {
			merged.Members[userID] = m
			result.MembersAdded++
		}
	}

	// El source se retira, nunca se borra: sus líneas quedan intactas para la
	// vista histórica y MergedInto apunta a dónde viven sus conteos ahora.
	retired := source.Clone()
	retired.IsActive = false
	retired.MergedInto = target.ID
	retired.CompletedAt = &now

	sort.Slice(result.IncreasedLines, func(i, j int) bool {
		return result.IncreasedLines[i].Key.Less(result.IncreasedLines[j].Key)
	})

	result.ItemsAfter = len(merged.Lines)
	result.QuantityAfter = merged.TotalAccepted()
	result.MembersAfter = len(merged.Members)
	result.ItemsCopied = len(source.Lines)
	result.QuantityCopied = source.TotalAccepted()
	return merged, retired, result, nil
}

func checkMergeable(target, source *entity.Session) error {
	fail := func(reason MergeReason) error {
		return &MergeError{Reason: reason, TargetID: target.ID, SourceID: source.ID}
	}
	switch {
	case target.ID == source.ID:
		return fail(MergeReasonSelfMerge)
	case target.StoreID != source.StoreID:
		return fail(MergeReasonCrossStore)
	case target.IsFinal:
		return fail(MergeReasonTargetFinal)
	case !target.IsActive:
		return fail(MergeReasonTargetInactive)
	case source.IsFinal:
		return fail(MergeReasonSourceFinal)
	case !source.IsActive:
		return fail(MergeReasonSourceInactive)
	}
	return nil
}

func copyLine(l entity.SessionLine) entity.SessionLine {
	contribs := make(map[string]entity.ScanContribution, len(l.Contributions))
	for id, c := range l.Contributions {
		contribs[id] = c
	}
	l.Contributions = contribs
	return l
}
