package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

var _ repository.ReceivingRepository = (*ReceivingRepo)(nil)

// ReceivingRepo persistencia de registros de recepción (usable con pool o
// tx). El snapshot congelado vive en receiving_lines; el registro es
// inmutable, solo hay Create y lectura.
type ReceivingRepo struct {
	q Querier
}

// NewReceivingRepository construye el adaptador de recepciones. Pasar pool o tx (Querier).
func NewReceivingRepository(q Querier) *ReceivingRepo {
	return &ReceivingRepo{q: q}
}

// Create persiste el registro de recepción con su snapshot. Una sesión solo
// admite una recepción: la segunda choca con el unique de session_id.
func (r *ReceivingRepo) Create(recv *entity.Receiving) error {
	ctx := context.Background()
	query := `
		INSERT INTO receivings (id, session_id, receiving_number, received_at, created_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		recv.ID, recv.SessionID, recv.ReceivingNumber, recv.ReceivedAt, recv.CreatedBy, recv.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert receiving: %w", err)
	}
	for i, l := range recv.Snapshot {
		variantID, _ := l.Key.VariantID()
		_, err := r.q.Exec(ctx, `
			INSERT INTO receiving_lines
				(receiving_id, position, product_id, variant_id, display_name, sku,
				 quantity_before, quantity_received, quantity_rejected, quantity_after, needs_display)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			recv.ID, i, l.Key.ProductID(), variantID, l.DisplayName, l.SKU,
			l.QuantityBefore, l.QuantityReceived, l.QuantityRejected, l.QuantityAfter, l.NeedsDisplay)
		if err != nil {
			return fmt.Errorf("insert receiving line: %w", err)
		}
	}
	return nil
}

// GetBySessionID carga la recepción de una sesión finalizada; nil si no hay.
func (r *ReceivingRepo) GetBySessionID(sessionID string) (*entity.Receiving, error) {
	ctx := context.Background()
	var recv entity.Receiving
	err := r.q.QueryRow(ctx, `
		SELECT id, session_id, receiving_number, received_at, created_by, notes
		FROM receivings WHERE session_id = $1`, sessionID).Scan(
		&recv.ID, &recv.SessionID, &recv.ReceivingNumber, &recv.ReceivedAt, &recv.CreatedBy, &recv.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receiving: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT product_id, variant_id, display_name, sku,
			quantity_before, quantity_received, quantity_rejected, quantity_after, needs_display
		FROM receiving_lines WHERE receiving_id = $1 ORDER BY position`, recv.ID)
	if err != nil {
		return nil, fmt.Errorf("query receiving lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.StockSnapshotLine
		var productID, variantID string
		err := rows.Scan(&productID, &variantID, &l.DisplayName, &l.SKU,
			&l.QuantityBefore, &l.QuantityReceived, &l.QuantityRejected, &l.QuantityAfter, &l.NeedsDisplay)
		if err != nil {
			return nil, fmt.Errorf("scan receiving line: %w", err)
		}
		l.Key = keyOf(productID, variantID)
		recv.Snapshot = append(recv.Snapshot, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receiving lines: %w", err)
	}
	return &recv, nil
}
