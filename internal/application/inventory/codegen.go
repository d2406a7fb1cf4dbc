package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

// assignCode takes the scope lock for kind on day and returns the next free code.
// It must be called inside the unit that inserts the row carrying the code, so a
// rolled back unit never consumes a number.
func assignCode(ctx context.Context, repos repository.Repos, kind codes.Kind, day time.Time) (string, error) {
	prefix := codes.Prefix(kind, day)
	if err := repos.Codes.LockScope(ctx, prefix); err != nil {
		return "", fmt.Errorf("lock code scope %s: %w", prefix, err)
	}
	existing, err := repos.Codes.Existing(ctx, kind, prefix)
	if err != nil {
		return "", fmt.Errorf("scan codes %s: %w", prefix, err)
	}
	return codes.Next(prefix, existing), nil
}

// resolveCode returns the requested code when one was supplied, or a generated one.
// Supplied codes must carry the kind's prefix and a numeric suffix; taken is called
// to reject a code already in use.
func resolveCode(ctx context.Context, repos repository.Repos, kind codes.Kind, day time.Time, requested string,
	taken func(ctx context.Context, code string) (bool, error),
) (string, error) {
	requested = codes.Normalize(requested)
	if requested == "" {
		return assignCode(ctx, repos, kind, day)
	}
	prefix := codes.Prefix(kind, day)
	if _, ok := codes.Suffix(requested, prefix); !ok {
		return "", domain.NewValidationError("code", fmt.Sprintf("must look like %s", codes.Format(prefix, 1)))
	}
	if err := repos.Codes.LockScope(ctx, prefix); err != nil {
		return "", fmt.Errorf("lock code scope %s: %w", prefix, err)
	}
	exists, err := taken(ctx, requested)
	if err != nil {
		return "", err
	}
	if exists {
		return "", domain.NewValidationError("code", requested+" is already in use")
	}
	return requested, nil
}
