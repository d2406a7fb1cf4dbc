package repository

import (
	"context"

	"github.com/jhoicas/retail-stock/internal/domain/entity"
)

// UserRepository is the persistence port for User.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByCode(ctx context.Context, code string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateStatus(ctx context.Context, id string, status entity.AccountStatus) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	// Delete clears the user from sales and activity rows before removing it.
	Delete(ctx context.Context, id string) error
}
