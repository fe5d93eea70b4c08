package usecase

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/cashforecast/internal/domain"
)

// BuildLedger pools resolved occurrences into the cumulative balance
// trajectory: one row per distinct date with activity, ascending by date,
// each row carrying the running total for every account in the table.
// Deltas sharing a date all count toward that date's row. Occurrences dated
// before start must have been windowed out upstream; any that slip through
// are dropped here.
func BuildLedger(occs []domain.Occurrence, start domain.Date) []domain.LedgerRow {
	pooled := make([]domain.Occurrence, 0, len(occs))
	for _, o := range occs {
		if !o.Date.Before(start) {
			pooled = append(pooled, o)
		}
	}
	sort.SliceStable(pooled, func(i, j int) bool { return pooled[i].Date.Before(pooled[j].Date) })

	running := make(map[string]decimal.Decimal)
	for _, o := range pooled {
		for name := range o.Accounts {
			running[name] = decimal.Zero
		}
	}

	var rows []domain.LedgerRow
	for i := 0; i < len(pooled); {
		d := pooled[i].Date

		var activity []string
		for ; i < len(pooled) && pooled[i].Date == d; i++ {
			o := pooled[i]
			for name, delta := range o.Accounts {
				running[name] = running[name].Add(delta)
			}
			activity = append(activity, o.Desc+": "+domain.FormatAccounts(o.Accounts))
		}

		balances := make(map[string]decimal.Decimal, len(running))
		for name, total := range running {
			balances[name] = total
		}
		rows = append(rows, domain.LedgerRow{
			Date:     d,
			Balances: balances,
			Activity: strings.Join(activity, "; "),
		})
	}
	return rows
}

// AccountColumns returns the sorted account names appearing in a ledger.
func AccountColumns(rows []domain.LedgerRow) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for name := range row.Balances {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
