package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-stock/internal/application/auth"
	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/infrastructure/memory"
	"github.com/jhoicas/retail-stock/pkg/jwt"
)

const secret = "test-secret"

func seedUser(t *testing.T, store *memory.Store, code, username string, role entity.Role, status entity.AccountStatus) {
	t.Helper()
	u := &entity.User{
		ID: "u-" + username, Code: code, Username: username, PasswordHash: "x",
		Role: role, Status: status, CreatedAt: time.Now(),
	}
	require.NoError(t, store.Repos().Users.Create(context.Background(), u))
}

func TestIssueToken_CarriesIdentityAndRole(t *testing.T) {
	store := memory.New()
	seedUser(t, store, "USR001", "mary", entity.RoleStaff, entity.AccountActive)
	uc := auth.NewAuthUseCase(store.Repos().Users, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "retail-stock"})

	token, err := uc.IssueToken(context.Background(), " MARY ")
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u-mary", claims.UserID)
	assert.Equal(t, "mary", claims.Username)
	assert.Equal(t, "Staff", claims.Role)
	assert.Equal(t, "retail-stock", claims.Issuer)
}

func TestIssueToken_Rejections(t *testing.T) {
	store := memory.New()
	seedUser(t, store, "USR001", "idle", entity.RoleAdmin, entity.AccountInactive)
	uc := auth.NewAuthUseCase(store.Repos().Users, auth.JWTConfig{Secret: secret, ExpMinutes: 5})
	ctx := context.Background()

	_, err := uc.IssueToken(ctx, "ghost")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.IssueToken(ctx, "idle")
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = uc.IssueToken(ctx, "  ")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)
}
