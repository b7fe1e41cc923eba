package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación de SessionRepository sobre PostgreSQL (usable
// con pool o tx). El estado de una sesión vive en cuatro tablas: la fila de
// sesión más líneas, aportes por usuario y miembros.
//
// En las tablas hijas variant_id usa cadena vacía para "sin variante": así la
// clave primaria compuesta y el ON CONFLICT no pelean con NULL.
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador de sesiones. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

const sessionColumns = `id, name, session_type, company_id, store_id, shipment_id,
	is_active, is_final, merged_into, created_by, created_at, completed_at`

// Create persiste una sesión nueva con sus miembros iniciales.
func (r *SessionRepo) Create(s *entity.Session) error {
	ctx := context.Background()
	query := `
		INSERT INTO count_sessions
			(id, name, name_norm, session_type, company_id, store_id, shipment_id,
			 is_active, is_final, merged_into, created_by, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, normalizeSearch(s.Name), s.Type, s.CompanyID, s.StoreID, s.ShipmentID,
		s.IsActive, s.IsFinal, s.MergedInto, s.CreatedBy, s.CreatedAt, s.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return r.insertChildren(ctx, s)
}

// GetByID carga la sesión completa (líneas, aportes y miembros).
func (r *SessionRepo) GetByID(sessionID string) (*entity.Session, error) {
	return r.get(sessionID, false)
}

// GetForUpdate carga la sesión completa bloqueando su fila (SELECT FOR
// UPDATE). Serializa el ciclo leer-agregar-escribir: solo dentro de una tx.
func (r *SessionRepo) GetForUpdate(sessionID string) (*entity.Session, error) {
	return r.get(sessionID, true)
}

func (r *SessionRepo) get(sessionID string, forUpdate bool) (*entity.Session, error) {
	ctx := context.Background()
	query := `SELECT ` + sessionColumns + ` FROM count_sessions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	s, err := scanSession(r.q.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if err := r.loadChildren(ctx, map[string]*entity.Session{s.ID: s}); err != nil {
		return nil, err
	}
	return s, nil
}

// Save reemplaza el estado completo de la sesión por el valor derivado que
// devolvió el motor: actualiza la fila y reescribe las tablas hijas.
func (r *SessionRepo) Save(s *entity.Session) error {
	ctx := context.Background()
	query := `
		UPDATE count_sessions SET
			name = $2, name_norm = $3, is_active = $4, is_final = $5,
			merged_into = $6, completed_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.Name, normalizeSearch(s.Name), s.IsActive, s.IsFinal, s.MergedInto, s.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for _, table := range []string{"count_session_scans", "count_session_lines", "count_session_members"} {
		if _, err := r.q.Exec(ctx, `DELETE FROM `+table+` WHERE session_id = $1`, s.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return r.insertChildren(ctx, s)
}

func (r *SessionRepo) insertChildren(ctx context.Context, s *entity.Session) error {
	for _, m := range s.SortedMembers() {
		_, err := r.q.Exec(ctx, `
			INSERT INTO count_session_members (session_id, user_id, joined_at)
			VALUES ($1, $2, $3)`, s.ID, m.UserID, m.JoinedAt)
		if err != nil {
			return fmt.Errorf("insert session member: %w", err)
		}
	}
	for _, l := range s.SortedLines() {
		variantID, _ := l.Key.VariantID()
		_, err := r.q.Exec(ctx, `
			INSERT INTO count_session_lines (session_id, product_id, variant_id, display_name, sku)
			VALUES ($1, $2, $3, $4, $5)`,
			s.ID, l.Key.ProductID(), variantID, l.DisplayName, l.SKU)
		if err != nil {
			return fmt.Errorf("insert session line: %w", err)
		}
		for _, c := range l.SortedContributions() {
			_, err := r.q.Exec(ctx, `
				INSERT INTO count_session_scans
					(session_id, product_id, variant_id, user_id, user_name, accepted, rejected, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				s.ID, l.Key.ProductID(), variantID, c.UserID, c.UserName, c.Accepted, c.Rejected, c.UpdatedAt)
			if err != nil {
				return fmt.Errorf("insert session scan: %w", err)
			}
		}
	}
	return nil
}

// List pagina sesiones según el filtro, con sus tablas hijas cargadas en
// lote. Devuelve además el total sin paginar.
func (r *SessionRepo) List(filter repository.SessionFilter) ([]*entity.Session, int, error) {
	ctx := context.Background()
	conds := []string{"company_id = $1"}
	args := []any{filter.CompanyID}

	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.StoreID != "" {
		add("store_id = $%d", filter.StoreID)
	}
	if filter.SessionType != "" {
		add("session_type = $%d", filter.SessionType)
	}
	if filter.IsActive != nil {
		add("is_active = $%d", *filter.IsActive)
	}
	if filter.StartDate != nil {
		add("created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("created_at < $%d", *filter.EndDate)
	}
	if filter.Search != "" {
		term := "%" + normalizeSearch(filter.Search) + "%"
		args = append(args, term)
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(name_norm LIKE $%d OR EXISTS (
			SELECT 1 FROM count_session_lines l
			WHERE l.session_id = count_sessions.id AND l.display_name ILIKE $%d))`, n, n))
	}

	where := strings.Join(conds, " AND ")
	countQuery := `SELECT COUNT(*) FROM count_sessions WHERE ` + where
	var total int
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM count_sessions WHERE %s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d`, sessionColumns, where, len(args)-1, len(args))
	sessions, err := r.querySessions(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// ListMergedInto sesiones retiradas cuyos conteos viven en la sesión dada.
func (r *SessionRepo) ListMergedInto(sessionID string) ([]*entity.Session, error) {
	ctx := context.Background()
	query := `SELECT ` + sessionColumns + ` FROM count_sessions
		WHERE merged_into = $1 ORDER BY completed_at, id`
	return r.querySessions(ctx, query, sessionID)
}

func (r *SessionRepo) querySessions(ctx context.Context, query string, args ...any) ([]*entity.Session, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	byID := map[string]*entity.Session{}
	var out []*entity.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		byID[s.ID] = s
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	if err := r.loadChildren(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

// loadChildren carga miembros, líneas y aportes de todas las sesiones dadas
// en tres queries, no una por sesión.
func (r *SessionRepo) loadChildren(ctx context.Context, sessions map[string]*entity.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}

	rows, err := r.q.Query(ctx, `
		SELECT session_id, user_id, joined_at
		FROM count_session_members WHERE session_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("query session members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sessionID string
		var m entity.Member
		if err := rows.Scan(&sessionID, &m.UserID, &m.JoinedAt); err != nil {
			return fmt.Errorf("scan session member: %w", err)
		}
		sessions[sessionID].Members[m.UserID] = m
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate session members: %w", err)
	}

	lineRows, err := r.q.Query(ctx, `
		SELECT session_id, product_id, variant_id, display_name, sku
		FROM count_session_lines WHERE session_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("query session lines: %w", err)
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var sessionID, productID, variantID string
		var l entity.SessionLine
		if err := lineRows.Scan(&sessionID, &productID, &variantID, &l.DisplayName, &l.SKU); err != nil {
			return fmt.Errorf("scan session line: %w", err)
		}
		l.Key = keyOf(productID, variantID)
		l.Contributions = map[string]entity.ScanContribution{}
		sessions[sessionID].Lines[l.Key] = l
	}
	if err := lineRows.Err(); err != nil {
		return fmt.Errorf("iterate session lines: %w", err)
	}

	scanRows, err := r.q.Query(ctx, `
		SELECT session_id, product_id, variant_id, user_id, user_name, accepted, rejected, updated_at
		FROM count_session_scans WHERE session_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("query session scans: %w", err)
	}
	defer scanRows.Close()
	for scanRows.Next() {
		var sessionID, productID, variantID string
		var c entity.ScanContribution
		err := scanRows.Scan(&sessionID, &productID, &variantID,
			&c.UserID, &c.UserName, &c.Accepted, &c.Rejected, &c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("scan session scan: %w", err)
		}
		key := keyOf(productID, variantID)
		if line, ok := sessions[sessionID].Lines[key]; ok {
			line.Contributions[c.UserID] = c
		}
	}
	if err := scanRows.Err(); err != nil {
		return fmt.Errorf("iterate session scans: %w", err)
	}
	return nil
}

func scanSession(row pgx.Row) (*entity.Session, error) {
	s := &entity.Session{
		Members: map[string]entity.Member{},
		Lines:   map[entity.ItemKey]entity.SessionLine{},
	}
	var completedAt *time.Time
	err := row.Scan(
		&s.ID, &s.Name, &s.Type, &s.CompanyID, &s.StoreID, &s.ShipmentID,
		&s.IsActive, &s.IsFinal, &s.MergedInto, &s.CreatedBy, &s.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CompletedAt = completedAt
	return s, nil
}

// keyOf reconstruye la ItemKey desde columnas; variant_id vacío = sin variante.
func keyOf(productID, variantID string) entity.ItemKey {
	if variantID != "" {
		return entity.NewVariantKey(productID, variantID)
	}
	return entity.NewItemKey(productID)
}
