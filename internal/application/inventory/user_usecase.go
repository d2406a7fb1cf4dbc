package inventory

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

// UserUseCase manages store accounts. Passwords are hashed here and never checked by this service.
type UserUseCase struct {
	uow        *UnitOfWork
	read       repository.Repos
	bcryptCost int
}

// NewUserUseCase builds the use case.
func NewUserUseCase(uow *UnitOfWork, read repository.Repos) *UserUseCase {
	return &UserUseCase{uow: uow, read: read, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func (uc *UserUseCase) WithBcryptCost(cost int) *UserUseCase {
	uc.bcryptCost = cost
	return uc
}

// Create inserts a user with its USR code. Usernames are unique regardless of case.
func (uc *UserUseCase) Create(ctx context.Context, actor Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	role, ok := entity.ParseRole(in.Role)
	if !ok {
		return nil, domain.NewValidationError("role", "must be Admin or Staff")
	}
	username := strings.TrimSpace(in.Username)
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, err
	}

	var created *entity.User
	err = uc.uow.Do(ctx, OpCreateUser, func(repos repository.Repos) error {
		existing, err := repos.Users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewValidationError("username", username+" is already taken")
		}
		now := uc.uow.Now()
		code, err := resolveCode(ctx, repos, codes.KindUser, now, in.Code, func(ctx context.Context, code string) (bool, error) {
			u, err := repos.Users.GetByCode(ctx, code)
			return u != nil, err
		})
		if err != nil {
			return err
		}
		u := &entity.User{
			ID:           newID(),
			Code:         code,
			Username:     username,
			Email:        in.Email,
			PasswordHash: string(hash),
			Role:         role,
			Status:       entity.AccountActive,
			Notes:        in.Notes,
			CreatedAt:    now,
		}
		if err := repos.Users.Create(ctx, u); err != nil {
			return err
		}
		created = u
		return logActivity(ctx, repos, actor, entity.ActionAddUser, "added user "+u.Code+" "+u.Username+" as "+string(u.Role), now)
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(created), nil
}

// GetByCode returns one user.
func (uc *UserUseCase) GetByCode(ctx context.Context, code string) (*dto.UserResponse, error) {
	u, err := uc.read.Users.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user", code)
	}
	return toUserResponse(u), nil
}

// Get returns the user with internal id, used to resolve token subjects.
func (uc *UserUseCase) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := uc.read.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user", id)
	}
	return u, nil
}

// List returns users ordered by code.
func (uc *UserUseCase) List(ctx context.Context, p dto.PageRequest) (*dto.UserListResponse, error) {
	p = page(p)
	list, err := uc.read.Users.List(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Users: make([]dto.UserResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: len(list)},
	}
	for _, u := range list {
		out.Users = append(out.Users, *toUserResponse(u))
	}
	return out, nil
}

// SetStatus activates or deactivates an account.
func (uc *UserUseCase) SetStatus(ctx context.Context, actor Actor, code string, in dto.SetUserStatusRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	status, ok := entity.ParseAccountStatus(in.Status)
	if !ok {
		return nil, domain.NewValidationError("status", "must be Active or Inactive")
	}
	var updated *entity.User
	err := uc.uow.Do(ctx, OpUpdateUser, func(repos repository.Repos) error {
		u, err := repos.Users.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.NotFound("user", code)
		}
		if u.ID == actor.UserID && status == entity.AccountInactive {
			return domain.NewInvariantViolation("status", "users cannot deactivate themselves")
		}
		if err := repos.Users.UpdateStatus(ctx, u.ID, status); err != nil {
			return err
		}
		u.Status = status
		updated = u
		return logActivity(ctx, repos, actor, entity.ActionUpdateUser, "set "+u.Code+" to "+string(status), uc.uow.Now())
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(updated), nil
}

// Delete removes a user. Sales and activity rows keep existing without the reference.
func (uc *UserUseCase) Delete(ctx context.Context, actor Actor, code string) error {
	return uc.uow.Do(ctx, OpDeleteUser, func(repos repository.Repos) error {
		u, err := repos.Users.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.NotFound("user", code)
		}
		if u.ID == actor.UserID {
			return domain.NewInvariantViolation("user", "users cannot delete themselves")
		}
		if err := repos.Users.Delete(ctx, u.ID); err != nil {
			return err
		}
		return logActivity(ctx, repos, actor, entity.ActionDeleteUser, "deleted user "+u.Code+" "+u.Username, uc.uow.Now())
	})
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Code:      u.Code,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		Notes:     u.Notes,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}
