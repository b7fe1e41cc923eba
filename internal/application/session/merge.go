package session

import (
	"context"
	"time"

	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/reconcile"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

// Merge absorbe la sesión fuente dentro de la destino en una sola
// transacción: o ambas quedan escritas o ninguna. Las dos filas se bloquean
// en orden lexicográfico de ID para que dos merges concurrentes sobre el
// mismo par no se abracen en deadlock.
func (uc *SessionUseCase) Merge(ctx context.Context, targetID, companyID string, in dto.MergeRequest) (*dto.MergeResponse, error) {
	sourceID := in.SourceSessionID
	if sourceID == "" {
		return nil, domain.ErrInvalidInput
	}
	if sourceID == targetID {
		return nil, &reconcile.MergeError{
			Reason:   reconcile.MergeReasonSelfMerge,
			TargetID: targetID,
			SourceID: sourceID,
		}
	}

	var result *reconcile.MergeResult
	err := uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		_ repository.StockRepository,
		_ repository.ReceivingRepository,
	) error {
		firstID, secondID := targetID, sourceID
		if sourceID < targetID {
			firstID, secondID = sourceID, targetID
		}
		first, err := uc.ownedForUpdate(sessionRepo, firstID, companyID)
		if err != nil {
			return err
		}
		second, err := uc.ownedForUpdate(sessionRepo, secondID, companyID)
		if err != nil {
			return err
		}
		target, source := first, second
		if first.ID != targetID {
			target, source = second, first
		}

		mergedTarget, retiredSource, res, err := reconcile.Merge(target, source, time.Now())
		if err != nil {
			return err
		}
		if err := sessionRepo.Save(mergedTarget); err != nil {
			return err
		}
		if err := sessionRepo.Save(retiredSource); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMergeResponse(result), nil
}

func toMergeResponse(r *reconcile.MergeResult) *dto.MergeResponse {
	out := &dto.MergeResponse{
		TargetSessionID: r.TargetID,
		SourceSessionID: r.SourceID,
		ItemsBefore:     r.ItemsBefore,
		ItemsAfter:      r.ItemsAfter,
		QuantityBefore:  r.QuantityBefore,
		QuantityAfter:   r.QuantityAfter,
		MembersBefore:   r.MembersBefore,
		MembersAfter:    r.MembersAfter,
		ItemsCopied:     r.ItemsCopied,
		QuantityCopied:  r.QuantityCopied,
		MembersAdded:    r.MembersAdded,
		NewItems:        make([]string, 0, len(r.NewLines)),
		IncreasedItems:  make([]dto.LineDeltaResponse, 0, len(r.IncreasedLines)),
	}
	for _, k := range r.NewLines {
		out.NewItems = append(out.NewItems, k.String())
	}
	for _, d := range r.IncreasedLines {
		line := dto.LineDeltaResponse{
			ProductID:      d.Key.ProductID(),
			QuantityBefore: d.QuantityBefore,
			QuantityAfter:  d.QuantityAfter,
		}
		if v, ok := d.Key.VariantID(); ok {
			line.VariantID = v
		}
		out.IncreasedItems = append(out.IncreasedItems, line)
	}
	return out
}
