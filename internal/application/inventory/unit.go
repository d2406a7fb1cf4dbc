package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
	"github.com/jhoicas/retail-stock/pkg/logger"
)

// Operation names reported to observers and logs.
const (
	OpCreateItem     = "create_item"
	OpUpdateItem     = "update_item"
	OpDeleteItem     = "delete_item"
	OpCreateSupplier = "create_supplier"
	OpUpdateSupplier = "update_supplier"
	OpDeleteSupplier = "delete_supplier"
	OpCreateUser     = "create_user"
	OpUpdateUser     = "update_user"
	OpDeleteUser     = "delete_user"
	OpRecordSale     = "record_sale"
	OpCreateRestock  = "create_restock"
	OpUpdateRestock  = "update_restock"
	OpRestockNow     = "restock_now"
)

// UnitConfig tunes a UnitOfWork. Zero values pick sensible defaults.
type UnitConfig struct {
	MaxAttempts int
	Location    *time.Location
	Now         func() time.Time
	Backoff     time.Duration
	Logger      *logger.Logger
	Observers   []Observer
}

// UnitOfWork wraps a TxRunner with the retry policy for concurrency conflicts and
// the store clock used for dates and day-scoped codes.
type UnitOfWork struct {
	tx          TxRunner
	maxAttempts int
	loc         *time.Location
	now         func() time.Time
	backoff     time.Duration
	log         *logger.Logger
	observers   []Observer
}

// NewUnitOfWork builds the unit runner.
func NewUnitOfWork(tx TxRunner, cfg UnitConfig) *UnitOfWork {
	u := &UnitOfWork{
		tx:          tx,
		maxAttempts: cfg.MaxAttempts,
		loc:         cfg.Location,
		now:         cfg.Now,
		backoff:     cfg.Backoff,
		log:         cfg.Logger,
		observers:   cfg.Observers,
	}
	if u.maxAttempts < 1 {
		u.maxAttempts = 3
	}
	if u.loc == nil {
		u.loc = time.UTC
	}
	if u.now == nil {
		u.now = time.Now
	}
	if u.backoff <= 0 {
		u.backoff = 10 * time.Millisecond
	}
	if u.log == nil {
		u.log = logger.Nop()
	}
	return u
}

// AddObserver registers o for subsequent units.
func (u *UnitOfWork) AddObserver(o Observer) {
	u.observers = append(u.observers, o)
}

// Now returns the current instant in the store timezone.
func (u *UnitOfWork) Now() time.Time {
	return u.now().In(u.loc)
}

// Today returns midnight of the current calendar day in the store timezone.
func (u *UnitOfWork) Today() time.Time {
	y, m, d := u.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, u.loc)
}

// Location is the store timezone.
func (u *UnitOfWork) Location() *time.Location {
	return u.loc
}

// Do runs fn as one atomic unit. A ConcurrencyConflict rolls back and retries the
// whole unit up to MaxAttempts times; every other error is returned as is.
// fn must derive all of its writes from reads made through repos, since it may run more than once.
func (u *UnitOfWork) Do(ctx context.Context, op string, fn func(repos repository.Repos) error) error {
	for attempt := 1; ; attempt++ {
		err := u.tx.Run(ctx, fn)
		if err == nil {
			for _, o := range u.observers {
				o.Committed(ctx, op)
			}
			return nil
		}
		if !domain.IsRetryable(err) || attempt >= u.maxAttempts || ctx.Err() != nil {
			u.reject(op, err)
			return err
		}
		u.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("concurrency conflict, retrying unit")
		for _, o := range u.observers {
			o.Retried(op, attempt)
		}
		select {
		case <-ctx.Done():
			u.reject(op, ctx.Err())
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * u.backoff):
		}
	}
}

func (u *UnitOfWork) reject(op string, err error) {
	for _, o := range u.observers {
		o.Rejected(op, err)
	}
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		u.log.Warn().Err(err).Str("op", op).Msg("sale rejected by stock guard")
	case errors.Is(err, domain.ErrConcurrencyConflict):
		u.log.Error().Err(err).Str("op", op).Int("attempts", u.maxAttempts).Msg("concurrency conflict persisted")
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvariantViolation), errors.Is(err, domain.ErrNotFound):
		u.log.Debug().Err(err).Str("op", op).Msg("unit rejected")
	default:
		u.log.Error().Err(err).Str("op", op).Msg("unit failed")
	}
}
