package usecase

import (
	"fmt"

	"github.com/iho/cashforecast/internal/domain"
)

// Expand materializes a declaration's occurrences within [start, end].
// Occurrence dates before start are generated, to keep the rule's phase and
// COUNT honest, but not emitted; generation stops at end even for unbounded
// rules. A declaration without a recurrence rule yields its single start
// date when that falls inside the window, and nothing otherwise.
func Expand(decl domain.Declaration, start, end domain.Date) ([]domain.Occurrence, error) {
	if decl.RRule == "" {
		if decl.DTStart.Before(start) || decl.DTStart.After(end) {
			return nil, nil
		}
		return []domain.Occurrence{{Desc: decl.Desc, Date: decl.DTStart, Accounts: decl.Accounts}}, nil
	}

	rule, err := domain.ParseRule(decl.RRule)
	if err != nil {
		return nil, fmt.Errorf("declaration %q: %w", decl.Desc, err)
	}

	dates := rule.Between(decl.DTStart, start, end)
	occs := make([]domain.Occurrence, 0, len(dates))
	for _, d := range dates {
		occs = append(occs, domain.Occurrence{Desc: decl.Desc, Date: d, Accounts: decl.Accounts})
	}
	return occs, nil
}
