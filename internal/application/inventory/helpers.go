package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

// Actor is the authenticated user performing an operation. An empty UserID means system.
type Actor struct {
	UserID string
}

func (a Actor) ref() *string {
	if a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}

// actorRef resolves the actor to a stored user. Unknown or inactive users cannot act.
func actorRef(ctx context.Context, repos repository.Repos, a Actor) (*string, *entity.User, error) {
	if a.UserID == "" {
		return nil, nil, nil
	}
	u, err := repos.Users.GetByID(ctx, a.UserID)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, domain.NewInvariantViolation("sold_by", "acting user does not exist")
	}
	if u.Status != entity.AccountActive {
		return nil, nil, domain.NewInvariantViolation("sold_by", "acting user is inactive")
	}
	return a.ref(), u, nil
}

func logActivity(ctx context.Context, repos repository.Repos, a Actor, action, details string, at time.Time) error {
	return repos.Activity.Create(ctx, &entity.ActivityLog{
		ID:        uuid.New().String(),
		UserID:    a.ref(),
		Action:    action,
		Details:   details,
		CreatedAt: at,
	})
}

func newID() string { return uuid.New().String() }

// parseDate reads a DateLayout string in loc.
func parseDate(field, s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dto.DateLayout, s, loc)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a date formatted as YYYY-MM-DD")
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dto.DateLayout)
}

func nonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.NewValidationError(field, "must not be negative")
	}
	return nil
}

func page(p dto.PageRequest) dto.PageRequest {
	p.DefaultPage()
	return p
}
