package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	var f filter
	assert.Empty(t, f.where())

	f.add("status = ?", "Pending")
	f.add("(lower(name) LIKE ? OR lower(code) LIKE ?)", "%tote%")
	assert.Equal(t, " WHERE status = $1 AND (lower(name) LIKE $2 OR lower(code) LIKE $2)", f.where())
	assert.Equal(t, " LIMIT $3 OFFSET $4", f.page(50, 10))
	assert.Equal(t, []any{"Pending", "%tote%", 50, 10}, f.args)

	var g filter
	assert.Empty(t, g.page(0, 0))
}

func TestEscapeLike(t *testing.T) {
	tests := []struct{ in, want string }{
		{"tote", "tote"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`c:\bags`, `c:\\bags`},
		{`%_\`, `\%\_\\`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in), tt.in)
	}
}
