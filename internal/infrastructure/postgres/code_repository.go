package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

var _ repository.CodeRepository = (*CodeRepo)(nil)

// CodeRepo backs code assignment with transaction-scoped advisory locks.
type CodeRepo struct {
	q Querier
}

// NewCodeRepository builds the adapter. q must be a transaction.
func NewCodeRepository(q Querier) *CodeRepo {
	return &CodeRepo{q: q}
}

var codeTables = map[codes.Kind]string{
	codes.KindItem:     "inventory",
	codes.KindSupplier: "suppliers",
	codes.KindUser:     "users",
	codes.KindSale:     "sales_log",
	codes.KindRestock:  "restock_orders",
}

// LockScope takes pg_advisory_xact_lock on a hash of prefix. The lock is released at
// commit or rollback, after the new row is visible to the next holder.
func (r *CodeRepo) LockScope(ctx context.Context, prefix string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('code:' || $1))`, prefix); err != nil {
		return classify("lock code scope", err)
	}
	return nil
}

// Existing lists every code of kind under prefix.
func (r *CodeRepo) Existing(ctx context.Context, kind codes.Kind, prefix string) ([]string, error) {
	table, ok := codeTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown code kind %q", kind)
	}
	rows, err := r.q.Query(ctx, `SELECT code FROM `+table+` WHERE code LIKE $1 || '%' ESCAPE '\'`, escapeLike(prefix))
	if err != nil {
		return nil, fmt.Errorf("scan %s codes: %w", table, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
