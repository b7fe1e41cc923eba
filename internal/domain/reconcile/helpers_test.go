package reconcile_test

import (
	"time"

	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/reconcile"
)

// ──────────────────────────────────────────────────────────────────────────────
// Builders de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func newOpenSession(id, storeID string) *entity.Session {
	return &entity.Session{
		ID:        id,
		Name:      "Sesión " + id,
		Type:      entity.SessionTypeCounting,
		CompanyID: "C1",
		StoreID:   storeID,
		IsActive:  true,
		CreatedBy: "U1",
		CreatedAt: testNow,
		Members:   map[string]entity.Member{},
		Lines:     map[entity.ItemKey]entity.SessionLine{},
	}
}

func scan(key entity.ItemKey, userID string, accepted, rejected int64) reconcile.ScanDelta {
	return reconcile.ScanDelta{
		Key:         key,
		UserID:      userID,
		UserName:    "Usuario " + userID,
		DisplayName: "Producto " + key.ProductID(),
		SKU:         "SKU-" + key.ProductID(),
		Accepted:    accepted,
		Rejected:    rejected,
	}
}

// mustApply aplica una secuencia de deltas sobre la sesión; panic ante error
// (solo para armar fixtures).
func mustApply(s *entity.Session, deltas ...reconcile.ScanDelta) *entity.Session {
	for _, d := range deltas {
		next, err := reconcile.ApplyScan(s, d, testNow)
		if err != nil {
			panic(err)
		}
		s = next
	}
	return s
}
