package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/conteo-api/internal/application/auth"
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) GetByID(string) (*entity.User, error) { return nil, nil }

func (r *fakeUserRepo) GetInfo([]string) (map[string]entity.UserInfo, error) {
	return map[string]entity.UserInfo{}, nil
}

func newAuthFixture(t *testing.T, status string) *auth.AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakeUserRepo{byEmail: map[string]*entity.User{
		"ana@acme.co": {
			ID: "user-1", CompanyID: "company-1", Email: "ana@acme.co",
			PasswordHash: string(hash), FirstName: "Ana", LastName: "García", Status: status,
		},
	}}
	return auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret: "test-secret", ExpMinutes: 60, Issuer: "conteo-api-test",
	})
}

func TestLogin(t *testing.T) {
	uc := newAuthFixture(t, "active")

	out, err := uc.Login(dto.LoginRequest{Email: "ana@acme.co", Password: "secreta123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "user-1", out.User.ID)
	assert.Equal(t, "Ana García", out.User.Name)
	assert.Equal(t, "company-1", out.User.CompanyID)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc := newAuthFixture(t, "active")

	_, err := uc.Login(dto.LoginRequest{Email: "ana@acme.co", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := newAuthFixture(t, "active")

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@acme.co", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_CuentaSuspendida(t *testing.T) {
	uc := newAuthFixture(t, "suspended")

	_, err := uc.Login(dto.LoginRequest{Email: "ana@acme.co", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_CamposVacios(t *testing.T) {
	uc := newAuthFixture(t, "active")

	_, err := uc.Login(dto.LoginRequest{Email: "", Password: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
