package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/reconcile"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

// Finalize cierra definitivamente una sesión de recepción: congela el
// snapshot antes/después, aplica las cantidades aceptadas al stock de la
// tienda, crea el registro de recepción y marca la sesión final. Todo en una
// transacción con la fila de sesión bloqueada: o queda completo o no queda
// nada. Solo sesiones receiving; las de conteo se cierran con Close.
func (uc *SessionUseCase) Finalize(ctx context.Context, sessionID, companyID, userID string, in dto.FinalizeRequest) (*dto.FinalizeResponse, error) {
	var (
		recv    *entity.Receiving
		session *entity.Session
	)
	err := uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		stockRepo repository.StockRepository,
		recvRepo repository.ReceivingRepository,
	) error {
		s, err := uc.ownedForUpdate(sessionRepo, sessionID, companyID)
		if err != nil {
			return err
		}
		if s.Type != entity.SessionTypeReceiving {
			return domain.ErrInvalidInput
		}
		if !s.IsOpen() {
			return &reconcile.ClosedError{SessionID: s.ID}
		}

		keys := make([]entity.ItemKey, 0, len(s.Lines))
		for k := range s.Lines {
			keys = append(keys, k)
		}
		baseline, err := stockRepo.GetBaseline(s.StoreID, keys)
		if err != nil {
			return err
		}
		before := make(map[entity.ItemKey]int64, len(baseline))
		for k, qty := range baseline {
			if !qty.IsInteger() {
				return fmt.Errorf("stock fraccionario para %s (%s): %w", k, qty, domain.ErrInvalidQuantity)
			}
			before[k] = qty.IntPart()
		}

		snapshot, err := reconcile.ComputeSnapshots(s, before)
		if err != nil {
			return err
		}

		now := time.Now()
		recv = &entity.Receiving{
			ID:              uuid.New().String(),
			SessionID:       s.ID,
			ReceivingNumber: newReceivingNumber(now),
			ReceivedAt:      now,
			CreatedBy:       userID,
			Notes:           in.Notes,
			Snapshot:        snapshot,
		}
		if err := recvRepo.Create(recv); err != nil {
			return err
		}
		for _, l := range snapshot {
			err := stockRepo.Upsert(&entity.Stock{
				StoreID:   s.StoreID,
				Key:       l.Key,
				Quantity:  decimal.NewFromInt(l.QuantityAfter),
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}
		}

		next := s.Clone()
		next.IsActive = false
		next.IsFinal = true
		next.CompletedAt = &now
		if err := sessionRepo.Save(next); err != nil {
			return err
		}
		session = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.FinalizeResponse{
		ReceivingID:      recv.ID,
		ReceivingNumber:  recv.ReceivingNumber,
		SessionID:        session.ID,
		ReceivedAt:       recv.ReceivedAt,
		TotalReceived:    session.TotalAccepted(),
		TotalRejected:    session.TotalRejected(),
		ItemCount:        len(recv.Snapshot),
		NeedDisplayCount: recv.NewDisplayCount(),
		Lines:            toSnapshotLines(recv.Snapshot),
	}, nil
}

// newReceivingNumber número legible de recepción: fecha + sufijo aleatorio.
func newReceivingNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("REC-%s-%s", now.Format("20060102"), suffix)
}
