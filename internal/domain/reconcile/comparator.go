package reconcile

import (
	"sort"

	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// MatchedLine clave presente en ambas sesiones, con la diferencia de
// cantidades aceptadas. Las rechazadas no participan en la detección de
// discrepancias.
type MatchedLine struct {
	Key         entity.ItemKey
	DisplayName string
	SKU         string
	QuantityA   int64
	QuantityB   int64
	Diff        int64 // QuantityB - QuantityA
	IsMatch     bool  // Diff == 0
}

// OnlyLine clave presente en una sola de las dos sesiones.
type OnlyLine struct {
	Key         entity.ItemKey
	DisplayName string
	SKU         string
	Quantity    int64
}

// CompareSummary conteos agregados de la comparación.
type CompareSummary struct {
	TotalMatched      int
	QuantitySameCount int
	QuantityDiffCount int
	OnlyInACount      int
	OnlyInBCount      int
}

// CompareResult diff estructural de tres vías entre dos sesiones.
type CompareResult struct {
	Matched []MatchedLine
	OnlyInA []OnlyLine
	OnlyInB []OnlyLine
	Summary CompareSummary
}

// Compare produce el diff entre los agregados de dos sesiones. Función pura:
// no muta ninguna entrada y es determinista para los mismos snapshots — las
// salidas van ordenadas por ItemKey, sin depender del orden de iteración de
// los maps.
func Compare(a, b *entity.Session) *CompareResult {
	res := &CompareResult{
		Matched: []MatchedLine{},
		OnlyInA: []OnlyLine{},
		OnlyInB: []OnlyLine{},
	}

	keys := make(map[entity.ItemKey]struct{}, len(a.Lines)+len(b.Lines))
	for k := range a.Lines {
		keys[k] = struct{}{}
	}
	for k := range b.Lines {
		keys[k] = struct{}{}
	}
	ordered := make([]entity.ItemKey, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Less(ordered[j]) })

	for _, k := range ordered {
		lineA, inA := a.Lines[k]
		lineB, inB := b.Lines[k]
		switch {
		case inA && inB:
			qa, qb := lineA.TotalAccepted(), lineB.TotalAccepted()
			m := MatchedLine{
				Key:         k,
				DisplayName: firstNonEmpty(lineA.DisplayName, lineB.DisplayName),
				SKU:         firstNonEmpty(lineA.SKU, lineB.SKU),
				QuantityA:   qa,
				QuantityB:   qb,
				Diff:        qb - qa,
			}
			m.IsMatch = m.Diff == 0
			res.Matched = append(res.Matched, m)
			if m.IsMatch {
				res.Summary.QuantitySameCount++
			} else {
				res.Summary.QuantityDiffCount++
			}
		case inA:
			res.OnlyInA = append(res.OnlyInA, OnlyLine{
				Key:         k,
				DisplayName: lineA.DisplayName,
				SKU:         lineA.SKU,
				Quantity:    lineA.TotalAccepted(),
			})
		default:
			res.OnlyInB = append(res.OnlyInB, OnlyLine{
				Key:         k,
				DisplayName: lineB.DisplayName,
				SKU:         lineB.SKU,
				Quantity:    lineB.TotalAccepted(),
			})
		}
	}

	res.Summary.TotalMatched = len(res.Matched)
	res.Summary.OnlyInACount = len(res.OnlyInA)
	res.Summary.OnlyInBCount = len(res.OnlyInB)
	return res
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
