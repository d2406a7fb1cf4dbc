package auth

import (
	"context"
	"strings"

	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
	"github.com/jhoicas/retail-stock/pkg/jwt"
)

// JWTConfig settings for token generation.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase signs bearer tokens that carry a user's ID and role to the request layer.
// Credentials are not checked here; tokens are issued out of band by the seed command.
type AuthUseCase struct {
	users  repository.UserRepository
	jwtCfg JWTConfig
}

// NewAuthUseCase builds the use case.
func NewAuthUseCase(users repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{users: users, jwtCfg: jwtCfg}
}

// IssueToken signs a token for the account named username.
// Unknown users yield ErrNotFound, inactive accounts ErrForbidden.
func (uc *AuthUseCase) IssueToken(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", domain.NewValidationError("username", "is required")
	}
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.NotFound("user", username)
	}
	if user.Status != entity.AccountActive {
		return "", domain.ErrForbidden
	}
	return uc.Token(user)
}

// Token signs a bearer token for user.
func (uc *AuthUseCase) Token(user *entity.User) (string, error) {
	return jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}
