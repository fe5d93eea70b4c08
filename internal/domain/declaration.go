package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// BalanceDesc names the single declaration whose start date anchors the
	// forecast window and whose amounts are the opening balances.
	BalanceDesc = "balance"

	// OverrideSuffix marks a declaration that replaces another declaration's
	// occurrence on the same date.
	OverrideSuffix = "_override"
)

// Declaration is one user-entered cash-flow rule, recurring or one-time.
type Declaration struct {
	// Desc identifies the declaration. It is the override-matching key and
	// must be unique per non-override declaration.
	Desc string `json:"desc"`

	// Accounts maps account names to signed quantities: currency amounts for
	// plain accounts, share counts for "$"-prefixed equity accounts.
	Accounts map[string]decimal.Decimal `json:"accounts"`

	// DTStart is the first possible occurrence date.
	DTStart Date `json:"dtstart"`

	// RRule is an RFC 5545 recurrence rule, or empty for a one-time entry.
	RRule string `json:"rrule"`
}

// IsBalance reports whether the declaration is the balance anchor.
func (d Declaration) IsBalance() bool { return d.Desc == BalanceDesc }

// IsOverride reports whether the declaration is an override entry.
func (d Declaration) IsOverride() bool { return IsOverrideDesc(d.Desc) }

// IsOverrideDesc reports whether desc names an override entry.
func IsOverrideDesc(desc string) bool { return strings.HasSuffix(desc, OverrideSuffix) }

// BaseDesc returns the description an override targets: desc with the
// override suffix stripped. Non-override descriptions pass through.
func BaseDesc(desc string) string { return strings.TrimSuffix(desc, OverrideSuffix) }

// Occurrence is one materialized firing of a declaration.
type Occurrence struct {
	Desc     string
	Date     Date
	Accounts map[string]decimal.Decimal
}

// LedgerRow is one row of the forecast: the cumulative per-account balances
// after all activity on Date, plus a human-readable summary of that activity.
type LedgerRow struct {
	Date     Date                       `json:"date"`
	Balances map[string]decimal.Decimal `json:"balances"`
	Activity string                     `json:"activity"`
}

// Sheet is a named, persisted declaration table.
type Sheet struct {
	ID           string
	Name         string
	Declarations []Declaration
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SortDeclarations orders a declaration table by description with the
// balance entry first, preserving relative order of equal descriptions.
func SortDeclarations(decls []Declaration) {
	sort.SliceStable(decls, func(i, j int) bool {
		return sortKey(decls[i].Desc) < sortKey(decls[j].Desc)
	})
}

func sortKey(desc string) string {
	if desc == BalanceDesc {
		return "\x00" + desc
	}
	return desc
}
