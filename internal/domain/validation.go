package domain

import (
	"fmt"
	"strings"
)

// ValidateTable checks a declaration table for structural problems: empty
// descriptions, missing accounts, missing start dates, unparseable
// recurrence rules, and a missing or duplicated balance anchor. The first
// problem found is returned with the offending row identified.
func ValidateTable(decls []Declaration) error {
	balances := 0
	for i, d := range decls {
		row := i + 1
		if strings.TrimSpace(d.Desc) == "" {
			return fmt.Errorf("%w: row %d", ErrEmptyDescription, row)
		}
		if len(d.Accounts) == 0 {
			return fmt.Errorf("%w: row %d (%s): no accounts", ErrInvalidAccounts, row, d.Desc)
		}
		if d.DTStart.IsZero() {
			return fmt.Errorf("%w: row %d (%s): missing dtstart", ErrInvalidDate, row, d.Desc)
		}
		if d.RRule != "" {
			if _, err := ParseRule(d.RRule); err != nil {
				return fmt.Errorf("row %d (%s): %w", row, d.Desc, err)
			}
		}
		if d.IsBalance() {
			balances++
		}
	}

	if balances == 0 {
		return ErrMissingBalance
	}
	if balances > 1 {
		return ErrDuplicateBalance
	}
	return nil
}

// ForecastStart returns the forecast start date: the balance declaration's
// start date.
func ForecastStart(decls []Declaration) (Date, error) {
	for _, d := range decls {
		if d.IsBalance() {
			return d.DTStart, nil
		}
	}
	return Date{}, ErrMissingBalance
}
