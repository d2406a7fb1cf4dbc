package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implements UserRepository on PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository builds the adapter.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, code, username, email, password_hash, role, status, notes, created_at, last_login`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var role, status string
	err := row.Scan(&u.ID, &u.Code, &u.Username, &u.Email, &u.PasswordHash, &role, &status,
		&u.Notes, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	u.Status = entity.AccountStatus(status)
	return &u, nil
}

// Create inserts a user.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Code, u.Username, u.Email, u.PasswordHash, string(u.Role), string(u.Status),
		u.Notes, u.CreatedAt, u.LastLogin,
	)
	return classify("insert user", err)
}

func (r *UserRepo) getOne(ctx context.Context, op, where string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetByID returns the user with id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "get user", "id = $1", id)
}

// GetByCode returns the user with code.
func (r *UserRepo) GetByCode(ctx context.Context, code string) (*entity.User, error) {
	return r.getOne(ctx, "get user by code", "code = $1", codes.Normalize(code))
}

// GetByUsername matches case-insensitively.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, "get user by username", "lower(username) = lower($1)", username)
}

// UpdateStatus sets the account status.
func (r *UserRepo) UpdateStatus(ctx context.Context, id string, status entity.AccountStatus) error {
	_, err := r.q.Exec(ctx, `UPDATE users SET status = $2 WHERE id = $1`, id, string(status))
	return classify("update user status", err)
}

// List returns users ordered by code.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	var f filter
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY code`+f.page(limit, offset), f.args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Delete removes the user; sales, orders and activity keep their rows with a NULL reference.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return classify("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("user", id)
	}
	return nil
}
