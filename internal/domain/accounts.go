package domain

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// EquityPrefix marks an account whose quantity is a share count in the named
// ticker rather than a currency amount.
const EquityPrefix = "$"

// Column names of the declaration table and forecast output cannot be used
// as account names.
var reservedAccountNames = map[string]bool{
	"desc":     true,
	"accounts": true,
	"activity": true,
	"date":     true,
	"sum":      true,
}

// ParseAccounts parses a whitespace-separated list of account tokens of the
// form <name><sign><quantity>, such as "checking+2000 savings-500 $GOOG+5",
// into signed per-account quantities.
func ParseAccounts(s string) (map[string]decimal.Decimal, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no account tokens", ErrInvalidAccounts)
	}

	accounts := make(map[string]decimal.Decimal, len(tokens))
	for _, token := range tokens {
		i := strings.IndexAny(token, "+-")
		if i <= 0 || i == len(token)-1 {
			return nil, fmt.Errorf("%w: malformed token %q", ErrInvalidAccounts, token)
		}

		name := token[:i]
		if reservedAccountNames[name] {
			return nil, fmt.Errorf("%w: %q is a reserved name", ErrInvalidAccounts, name)
		}
		if IsEquityAccount(name) && !validTicker(Ticker(name)) {
			return nil, fmt.Errorf("%w: malformed ticker in %q", ErrInvalidAccounts, token)
		}
		if _, dup := accounts[name]; dup {
			return nil, fmt.Errorf("%w: duplicate account %q", ErrInvalidAccounts, name)
		}

		amount, err := decimal.NewFromString(token[i:])
		if err != nil {
			return nil, fmt.Errorf("%w: malformed quantity in %q", ErrInvalidAccounts, token)
		}
		accounts[name] = amount
	}

	return accounts, nil
}

// FormatAccounts renders per-account quantities back into the canonical
// token form, with account names in sorted order.
func FormatAccounts(accounts map[string]decimal.Decimal) string {
	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		amount := accounts[name]
		if amount.Sign() >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(amount.String())
	}
	return b.String()
}

// IsEquityAccount reports whether an account holds shares of an equity
// ticker instead of currency.
func IsEquityAccount(name string) bool { return strings.HasPrefix(name, EquityPrefix) }

// Ticker returns the ticker symbol of an equity account name.
func Ticker(name string) string { return strings.TrimPrefix(name, EquityPrefix) }

func validTicker(symbol string) bool {
	if symbol == "" {
		return false
	}
	for _, r := range symbol {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
