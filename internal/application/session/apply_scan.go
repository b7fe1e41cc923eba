package session

import (
	"context"
	"time"

	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/reconcile"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

// AddItems aplica un lote de deltas de escaneo a la sesión, bajo bloqueo de
// fila. Los deltas son aditivos y conmutativos: dos contadores sincronizando
// a la vez terminan en el mismo agregado sin importar quién llegó primero.
func (uc *SessionUseCase) AddItems(ctx context.Context, sessionID, companyID, userID string, in dto.AddItemsRequest) (*dto.SessionResponse, error) {
	deltas, err := uc.buildDeltas(companyID, userID, in.Items)
	if err != nil {
		return nil, err
	}

	var out *entity.Session
	err = uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		_ repository.StockRepository,
		_ repository.ReceivingRepository,
	) error {
		s, err := uc.ownedForUpdate(sessionRepo, sessionID, companyID)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, d := range deltas {
			s, err = reconcile.ApplyScan(s, d, now)
			if err != nil {
				return err
			}
		}
		if err := sessionRepo.Save(s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(out, true), nil
}

// SetItem corrección absoluta: reemplaza el aporte del usuario sobre una
// clave por los valores dados. Accepted y Rejected en cero borran el aporte.
func (uc *SessionUseCase) SetItem(ctx context.Context, sessionID, companyID, userID string, in dto.SetItemRequest) (*dto.SessionResponse, error) {
	deltas, err := uc.buildDeltas(companyID, userID, []dto.ScanItemRequest{{
		ProductID:   in.ProductID,
		VariantID:   in.VariantID,
		DisplayName: in.DisplayName,
		SKU:         in.SKU,
		Accepted:    in.Accepted,
		Rejected:    in.Rejected,
	}})
	if err != nil {
		return nil, err
	}

	var out *entity.Session
	err = uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		_ repository.StockRepository,
		_ repository.ReceivingRepository,
	) error {
		s, err := uc.ownedForUpdate(sessionRepo, sessionID, companyID)
		if err != nil {
			return err
		}
		s, err = reconcile.SetScan(s, deltas[0], time.Now())
		if err != nil {
			return err
		}
		if err := sessionRepo.Save(s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(out, true), nil
}

// buildDeltas valida el lote, congela el nombre del contador y completa
// nombre/SKU por línea desde el catálogo cuando el cliente no los mandó.
// Todo fuera de la transacción: dentro solo queda leer-agregar-escribir.
func (uc *SessionUseCase) buildDeltas(companyID, userID string, items []dto.ScanItemRequest) ([]reconcile.ScanDelta, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	var missing []entity.ItemKey
	for _, it := range items {
		if it.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		if it.DisplayName == "" {
			missing = append(missing, keyFrom(it.ProductID, it.VariantID))
		}
	}
	catalog := map[entity.ItemKey]entity.ProductInfo{}
	if len(missing) > 0 {
		catalog, err = uc.productRepo.GetInfo(companyID, missing)
		if err != nil {
			return nil, err
		}
	}

	deltas := make([]reconcile.ScanDelta, 0, len(items))
	for _, it := range items {
		key := keyFrom(it.ProductID, it.VariantID)
		name, sku := it.DisplayName, it.SKU
		if info, ok := catalog[key]; ok {
			if name == "" {
				name = info.DisplayName
			}
			if sku == "" {
				sku = info.SKU
			}
		}
		deltas = append(deltas, reconcile.ScanDelta{
			Key:         key,
			UserID:      user.ID,
			UserName:    user.DisplayName(),
			DisplayName: name,
			SKU:         sku,
			Accepted:    it.Accepted,
			Rejected:    it.Rejected,
		})
	}
	return deltas, nil
}
