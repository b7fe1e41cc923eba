package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, company_id, email, password_hash, first_name, last_name,
	profile_image, status, created_at, updated_at`

// FindByEmail obtiene un usuario por email; nil si no existe.
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(query, email)
}

// GetByID obtiene un usuario por ID; nil si no existe.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(query, id)
}

func (r *UserRepo) scanOne(query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.pool.QueryRow(context.Background(), query, arg).Scan(
		&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.ProfileImage, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetInfo proyección mínima para atribución de escaneos; IDs desconocidos
// quedan ausentes del map.
func (r *UserRepo) GetInfo(userIDs []string) (map[string]entity.UserInfo, error) {
	if len(userIDs) == 0 {
		return map[string]entity.UserInfo{}, nil
	}
	query := `
		SELECT id, first_name, last_name, email, profile_image
		FROM users WHERE id = ANY($1)`
	rows, err := r.pool.Query(context.Background(), query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("query user info: %w", err)
	}
	defer rows.Close()

	out := make(map[string]entity.UserInfo, len(userIDs))
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.ProfileImage); err != nil {
			return nil, fmt.Errorf("scan user info: %w", err)
		}
		out[u.ID] = entity.UserInfo{UserID: u.ID, Name: u.DisplayName(), ProfileImage: u.ProfileImage}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user info: %w", err)
	}
	return out, nil
}
