package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx, so every repository works on either.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepos binds every repository to q.
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Suppliers: NewSupplierRepository(q),
		Items:     NewInventoryItemRepository(q),
		Users:     NewUserRepository(q),
		Sales:     NewSaleRepository(q),
		Restocks:  NewRestockOrderRepository(q),
		Activity:  NewActivityLogRepository(q),
		Codes:     NewCodeRepository(q),
	}
}

// filter accumulates WHERE conditions. Each "?" in a condition becomes the next positional parameter.
type filter struct {
	conds []string
	args  []any
}

func (f *filter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(f.args))))
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes the LIKE metacharacters in s so it matches literally under ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// page renders LIMIT/OFFSET; a zero limit means no limit.
func (f *filter) page(limit, offset int) string {
	clause := ""
	if limit > 0 {
		f.args = append(f.args, limit)
		clause += " LIMIT $" + strconv.Itoa(len(f.args))
	}
	if offset > 0 {
		f.args = append(f.args, offset)
		clause += " OFFSET $" + strconv.Itoa(len(f.args))
	}
	return clause
}
