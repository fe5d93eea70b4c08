package usecase

import (
	"fmt"

	"github.com/iho/cashforecast/internal/domain"
)

// ResolveOverrides applies override occurrences to their targets. An
// occurrence whose description carries the override suffix replaces every
// occurrence of the suffix-stripped description on the same date; the
// replacement is re-emitted under the base description so downstream
// grouping is unaffected. When several overrides hit the same base and
// date, the last one in input order wins. An override that matches nothing
// is dropped and reported as a warning, never as an error.
func ResolveOverrides(occs []domain.Occurrence) ([]domain.Occurrence, []string) {
	resolved := make([]domain.Occurrence, 0, len(occs))
	var overrides []domain.Occurrence
	for _, o := range occs {
		if domain.IsOverrideDesc(o.Desc) {
			overrides = append(overrides, o)
		} else {
			resolved = append(resolved, o)
		}
	}

	var warnings []string
	for _, ov := range overrides {
		base := domain.BaseDesc(ov.Desc)

		matched := false
		n := 0
		for _, o := range resolved {
			if o.Desc == base && o.Date == ov.Date {
				matched = true
				continue
			}
			resolved[n] = o
			n++
		}
		resolved = resolved[:n]

		if !matched {
			warnings = append(warnings, fmt.Sprintf(
				"override %q matches no %q occurrence on %s; dropped", ov.Desc, base, ov.Date))
			continue
		}
		resolved = append(resolved, domain.Occurrence{Desc: base, Date: ov.Date, Accounts: ov.Accounts})
	}

	return resolved, warnings
}
