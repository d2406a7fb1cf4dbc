// Package codes builds the human-readable business codes carried by every entity.
//
// A code is a prefix followed by a zero-padded counter: ITM001, SUP014, USR002, and
// the day-scoped TXN20260118-001 and PO20260118-003. The next counter is one more than
// the largest counter already issued under the same prefix. Existing codes whose suffix
// does not parse as a number are ignored.
//
// Next scans every existing code under the prefix, so it costs O(n) in the number of
// codes in scope. Callers must run it while holding the scope lock of the transaction
// that inserts the new row.
package codes

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the entity a code belongs to.
type Kind string

const (
	KindItem     Kind = "item"
	KindSupplier Kind = "supplier"
	KindUser     Kind = "user"
	KindSale     Kind = "sale"
	KindRestock  Kind = "restock"
)

// Width is the minimum number of digits in the counter.
const Width = 3

const dayLayout = "20060102"

// Prefix returns the code prefix for kind. Day-scoped kinds embed day's calendar date.
func Prefix(kind Kind, day time.Time) string {
	switch kind {
	case KindItem:
		return "ITM"
	case KindSupplier:
		return "SUP"
	case KindUser:
		return "USR"
	case KindSale:
		return "TXN" + day.Format(dayLayout) + "-"
	case KindRestock:
		return "PO" + day.Format(dayLayout) + "-"
	}
	panic(fmt.Sprintf("codes: unknown kind %q", kind))
}

// DayScoped reports whether kind restarts its counter every calendar day.
func DayScoped(kind Kind) bool {
	return kind == KindSale || kind == KindRestock
}

// Normalize returns code in its stored form. Codes are always issued upper-case, so
// every lookup by code goes through Normalize to make matching case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Suffix parses the counter of code under prefix. ok is false for codes outside the
// prefix or with a non-numeric suffix.
func Suffix(code, prefix string) (n int, ok bool) {
	if !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	rest := code[len(prefix):]
	if rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Format renders prefix plus n padded to Width digits. Counters past 999 simply grow wider.
func Format(prefix string, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, Width, n)
}

// Next returns the code that follows the highest parseable counter in existing.
func Next(prefix string, existing []string) string {
	max := 0
	for _, c := range existing {
		if n, ok := Suffix(c, prefix); ok && n > max {
			max = n
		}
	}
	return Format(prefix, max+1)
}
