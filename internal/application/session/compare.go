package session

import (
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/reconcile"
)

// Compare produce el diff de tres vías entre dos sesiones de la empresa.
// Lectura pura: no bloquea ni muta nada.
func (uc *SessionUseCase) Compare(sessionAID, sessionBID, companyID string) (*dto.CompareResponse, error) {
	if sessionAID == "" || sessionBID == "" || sessionAID == sessionBID {
		return nil, domain.ErrInvalidInput
	}
	a, err := uc.owned(sessionAID, companyID)
	if err != nil {
		return nil, err
	}
	b, err := uc.owned(sessionBID, companyID)
	if err != nil {
		return nil, err
	}

	res := reconcile.Compare(a, b)
	out := &dto.CompareResponse{
		SessionAID: a.ID,
		SessionBID: b.ID,
		Matched:    make([]dto.CompareLineResponse, 0, len(res.Matched)),
		OnlyInA:    make([]dto.CompareOnlyLineResponse, 0, len(res.OnlyInA)),
		OnlyInB:    make([]dto.CompareOnlyLineResponse, 0, len(res.OnlyInB)),
		Summary: dto.CompareSummaryResponse{
			TotalMatched:      res.Summary.TotalMatched,
			QuantitySameCount: res.Summary.QuantitySameCount,
			QuantityDiffCount: res.Summary.QuantityDiffCount,
			OnlyInACount:      res.Summary.OnlyInACount,
			OnlyInBCount:      res.Summary.OnlyInBCount,
		},
	}
	for _, m := range res.Matched {
		line := dto.CompareLineResponse{
			ProductID:   m.Key.ProductID(),
			DisplayName: m.DisplayName,
			SKU:         m.SKU,
			QuantityA:   m.QuantityA,
			QuantityB:   m.QuantityB,
			Diff:        m.Diff,
			IsMatch:     m.IsMatch,
		}
		if v, ok := m.Key.VariantID(); ok {
			line.VariantID = v
		}
		out.Matched = append(out.Matched, line)
	}
	out.OnlyInA = appendOnlyLines(out.OnlyInA, res.OnlyInA)
	out.OnlyInB = appendOnlyLines(out.OnlyInB, res.OnlyInB)
	return out, nil
}

func appendOnlyLines(dst []dto.CompareOnlyLineResponse, src []reconcile.OnlyLine) []dto.CompareOnlyLineResponse {
	for _, o := range src {
		line := dto.CompareOnlyLineResponse{
			ProductID:   o.Key.ProductID(),
			DisplayName: o.DisplayName,
			SKU:         o.SKU,
			Quantity:    o.Quantity,
		}
		if v, ok := o.Key.VariantID(); ok {
			line.VariantID = v
		}
		dst = append(dst, line)
	}
	return dst
}
