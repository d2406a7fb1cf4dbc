package inventory

import (
	"context"

	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

// TxRunner runs fn inside one database transaction with repositories bound to it.
// A nil return commits; any error rolls the whole unit back.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}

// Observer is notified about the outcome of atomic units. Committed runs after the
// transaction is durable, so it is the place to invalidate caches.
type Observer interface {
	Committed(ctx context.Context, op string)
	Retried(op string, attempt int)
	Rejected(op string, err error)
}
