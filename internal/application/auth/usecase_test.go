package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/carpet-shop-api/internal/application/auth"
	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/internal/testutil/memstore"
	"github.com/jhoicas/carpet-shop-api/pkg/jwt"
)

const testSecret = "test-secret"

func newUseCase(store *memstore.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "carpet-shop"}).
		WithBcryptCost(bcrypt.MinCost)
}

func adminRequest() dto.RegisterRequest {
	return dto.RegisterRequest{Username: "admin", Email: "Admin@Shop.ir", Password: "supersecret"}
}

// ─── InitAdmin ────────────────────────────────────────────────────────────────

func TestInitAdmin_SoloSinUsuarios(t *testing.T) {
	uc := newUseCase(memstore.New())

	out, err := uc.InitAdmin(context.Background(), adminRequest())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Role)
	assert.Equal(t, "admin@shop.ir", out.Email)
	assert.True(t, out.IsActive)

	_, err = uc.InitAdmin(context.Background(), dto.RegisterRequest{Username: "otro", Email: "o@x.ir", Password: "supersecret"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ─── Register ─────────────────────────────────────────────────────────────────

func TestRegister_RolPorDefectoYDuplicados(t *testing.T) {
	uc := newUseCase(memstore.New())

	out, err := uc.Register(context.Background(), dto.RegisterRequest{Username: "sara", Email: "sara@shop.ir", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, out.Role)
	assert.Equal(t, "sara", out.FullName)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Username: "sara", Email: "x@shop.ir", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Username: "reza", Email: "SARA@shop.ir", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_PasswordCorta(t *testing.T) {
	uc := newUseCase(memstore.New())
	_, err := uc.Register(context.Background(), dto.RegisterRequest{Username: "ali", Email: "ali@shop.ir", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Login / Me ───────────────────────────────────────────────────────────────

func TestLogin_GeneraTokenConRol(t *testing.T) {
	store := memstore.New()
	uc := newUseCase(store)
	_, err := uc.InitAdmin(context.Background(), adminRequest())
	require.NoError(t, err)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", out.TokenType)
	require.NotNil(t, out.User.LastLogin)

	userID, username, role, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, "admin", username)
	assert.Equal(t, entity.RoleAdmin, role)

	me, err := uc.Me(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, me.LastLogin)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newUseCase(memstore.New())
	_, err := uc.InitAdmin(context.Background(), adminRequest())
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "supersecret"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMe_UsuarioInexistente(t *testing.T) {
	uc := newUseCase(memstore.New())
	_, err := uc.Me(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
