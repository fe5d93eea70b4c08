package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/cashforecast/internal/domain"
)

// ConvertPrices values each equity account's share count at its last close
// price and rounds every balance to two decimal places for presentation.
// Currency accounts pass through unchanged, so converting a currency-only
// ledger twice is a no-op. A ticker missing from prices fails the whole
// conversion; substituting a default price would silently corrupt the
// forecast.
func ConvertPrices(rows []domain.LedgerRow, prices map[string]decimal.Decimal) ([]domain.LedgerRow, error) {
	converted := make([]domain.LedgerRow, len(rows))
	for i, row := range rows {
		balances := make(map[string]decimal.Decimal, len(row.Balances))
		for name, amount := range row.Balances {
			if domain.IsEquityAccount(name) {
				ticker := domain.Ticker(name)
				price, ok := prices[ticker]
				if !ok {
					return nil, fmt.Errorf("%w: %s", domain.ErrPriceUnavailable, ticker)
				}
				amount = amount.Mul(price)
			}
			balances[name] = amount.Round(2)
		}
		converted[i] = domain.LedgerRow{Date: row.Date, Balances: balances, Activity: row.Activity}
	}
	return converted, nil
}

// EquityTickers returns the sorted tickers of all equity accounts in a
// ledger, the set of prices a conversion needs.
func EquityTickers(rows []domain.LedgerRow) []string {
	var tickers []string
	for _, name := range AccountColumns(rows) {
		if domain.IsEquityAccount(name) {
			tickers = append(tickers, domain.Ticker(name))
		}
	}
	return tickers
}
