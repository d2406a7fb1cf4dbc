package repository

import (
	"context"

	"github.com/jhoicas/retail-stock/internal/domain/codes"
)

// CodeRepository backs code assignment. Both methods must run inside the
// transaction that inserts the new row.
type CodeRepository interface {
	// LockScope serializes code assignment under prefix until the transaction ends.
	LockScope(ctx context.Context, prefix string) error
	// Existing returns every code of kind starting with prefix.
	Existing(ctx context.Context, kind codes.Kind, prefix string) ([]string, error)
}
