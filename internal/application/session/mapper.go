package session

import (
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// toResponse arma la respuesta completa de una sesión. Con includeItems
// incluye las líneas con desglose por contribuyente; el directorio de
// usuarios se consulta una sola vez para nombres y avatares.
func (uc *SessionUseCase) toResponse(s *entity.Session, includeItems bool) *dto.SessionResponse {
	userIDs := make([]string, 0, len(s.Members))
	for id := range s.Members {
		userIDs = append(userIDs, id)
	}
	users, err := uc.userRepo.GetInfo(userIDs)
	if err != nil {
		// El directorio es enriquecimiento; sin él la respuesta sale con los
		// nombres ya congelados en las contribuciones.
		users = map[string]entity.UserInfo{}
	}

	out := &dto.SessionResponse{
		ID:            s.ID,
		Name:          s.Name,
		SessionType:   s.Type,
		StoreID:       s.StoreID,
		ShipmentID:    s.ShipmentID,
		IsActive:      s.IsActive,
		IsFinal:       s.IsFinal,
		MergedInto:    s.MergedInto,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		CompletedAt:   s.CompletedAt,
		TotalAccepted: s.TotalAccepted(),
		TotalRejected: s.TotalRejected(),
		ItemCount:     len(s.Lines),
		Members:       make([]dto.MemberResponse, 0, len(s.Members)),
	}
	for _, m := range s.SortedMembers() {
		info := users[m.UserID]
		name := info.Name
		if name == "" {
			name = m.UserID
		}
		out.Members = append(out.Members, dto.MemberResponse{
			UserID:       m.UserID,
			Name:         name,
			ProfileImage: info.ProfileImage,
			JoinedAt:     m.JoinedAt,
		})
	}
	if includeItems {
		out.Items = make([]dto.SessionItemResponse, 0, len(s.Lines))
		for _, l := range s.SortedLines() {
			out.Items = append(out.Items, toItemResponse(l, users))
		}
	}
	return out
}

func toItemResponse(l entity.SessionLine, users map[string]entity.UserInfo) dto.SessionItemResponse {
	item := dto.SessionItemResponse{
		ProductID:     l.Key.ProductID(),
		DisplayName:   l.DisplayName,
		SKU:           l.SKU,
		TotalAccepted: l.TotalAccepted(),
		TotalRejected: l.TotalRejected(),
		Contributions: make([]dto.ContributionResponse, 0, len(l.Contributions)),
	}
	if v, ok := l.Key.VariantID(); ok {
		item.VariantID = v
	}
	for _, c := range l.SortedContributions() {
		info := users[c.UserID]
		name := c.UserName
		if name == "" {
			name = info.Name
		}
		item.Contributions = append(item.Contributions, dto.ContributionResponse{
			UserID:       c.UserID,
			UserName:     name,
			ProfileImage: info.ProfileImage,
			Accepted:     c.Accepted,
			Rejected:     c.Rejected,
			UpdatedAt:    c.UpdatedAt,
		})
	}
	return item
}

func toSummary(s *entity.Session) dto.SessionSummaryResponse {
	return dto.SessionSummaryResponse{
		ID:            s.ID,
		Name:          s.Name,
		SessionType:   s.Type,
		StoreID:       s.StoreID,
		IsActive:      s.IsActive,
		IsFinal:       s.IsFinal,
		MergedInto:    s.MergedInto,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		CompletedAt:   s.CompletedAt,
		TotalAccepted: s.TotalAccepted(),
		ItemCount:     len(s.Lines),
		MemberCount:   len(s.Members),
	}
}

func keyFrom(productID, variantID string) entity.ItemKey {
	if variantID != "" {
		return entity.NewVariantKey(productID, variantID)
	}
	return entity.NewItemKey(productID)
}

func toSnapshotLines(snapshot []entity.StockSnapshotLine) []dto.SnapshotLineResponse {
	out := make([]dto.SnapshotLineResponse, 0, len(snapshot))
	for _, l := range snapshot {
		line := dto.SnapshotLineResponse{
			ProductID:        l.Key.ProductID(),
			DisplayName:      l.DisplayName,
			SKU:              l.SKU,
			QuantityBefore:   l.QuantityBefore,
			QuantityReceived: l.QuantityReceived,
			QuantityRejected: l.QuantityRejected,
			QuantityAfter:    l.QuantityAfter,
			NeedsDisplay:     l.NeedsDisplay,
		}
		if v, ok := l.Key.VariantID(); ok {
			line.VariantID = v
		}
		out = append(out, line)
	}
	return out
}
