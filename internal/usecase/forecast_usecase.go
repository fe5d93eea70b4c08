package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashforecast/internal/domain"
	"github.com/iho/cashforecast/internal/infrastructure/metrics"
)

// DefaultHorizonYears is the forecast horizon when no end date is given.
const DefaultHorizonYears = 2

// ForecastUseCase runs the forecast pipeline: expand recurrences, resolve
// overrides, build the cumulative ledger, convert equity holdings to
// currency. A failure at any stage aborts the whole run; no partial ledger
// is ever returned.
type ForecastUseCase struct {
	prices PriceSource
	logger zerolog.Logger
}

// NewForecastUseCase creates a new ForecastUseCase.
func NewForecastUseCase(prices PriceSource, logger zerolog.Logger) *ForecastUseCase {
	return &ForecastUseCase{
		prices: prices,
		logger: logger,
	}
}

// ForecastInput represents input for one forecast run.
type ForecastInput struct {
	Declarations []domain.Declaration

	// End bounds the forecast window; the zero date means the default
	// horizon after the balance declaration's start date.
	End domain.Date

	// Prices pins per-ticker prices, bypassing the price source.
	Prices map[string]decimal.Decimal
}

// ForecastResult is the terminal artifact of a run: the ledger table plus
// the window it covers and any non-fatal warnings raised along the way.
type ForecastResult struct {
	Start    domain.Date
	End      domain.Date
	Accounts []string
	Rows     []domain.LedgerRow
	Warnings []string
}

// Forecast computes the balance trajectory for a declaration table.
func (uc *ForecastUseCase) Forecast(ctx context.Context, input ForecastInput) (*ForecastResult, error) {
	began := time.Now()
	result, err := uc.forecast(ctx, input)
	metrics.ForecastDuration.Observe(time.Since(began).Seconds())
	if err != nil {
		metrics.ForecastRuns.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ForecastRuns.WithLabelValues("ok").Inc()
	return result, nil
}

func (uc *ForecastUseCase) forecast(ctx context.Context, input ForecastInput) (*ForecastResult, error) {
	decls := input.Declarations
	if err := domain.ValidateTable(decls); err != nil {
		return nil, err
	}

	start, err := domain.ForecastStart(decls)
	if err != nil {
		return nil, err
	}
	end := input.End
	if end.IsZero() {
		end = start.AddYears(DefaultHorizonYears)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: start %s, end %s", domain.ErrInvalidWindow, start, end)
	}

	var occs []domain.Occurrence
	for _, d := range decls {
		expanded, err := Expand(d, start, end)
		if err != nil {
			return nil, err
		}
		occs = append(occs, expanded...)
	}
	metrics.OccurrencesExpanded.Observe(float64(len(occs)))

	resolved, warnings := ResolveOverrides(occs)
	for _, w := range warnings {
		uc.logger.Warn().Str("stage", "override").Msg(w)
	}

	rows := BuildLedger(resolved, start)

	prices, err := uc.resolvePrices(ctx, rows, input.Prices)
	if err != nil {
		return nil, err
	}
	converted, err := ConvertPrices(rows, prices)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug().
		Int("declarations", len(decls)).
		Int("occurrences", len(occs)).
		Int("rows", len(converted)).
		Str("start", start.String()).
		Str("end", end.String()).
		Msg("forecast computed")

	return &ForecastResult{
		Start:    start,
		End:      end,
		Accounts: AccountColumns(converted),
		Rows:     converted,
		Warnings: warnings,
	}, nil
}

// resolvePrices collects the last close price for every equity ticker the
// ledger mentions. Pinned prices win over the price source; tickers are
// looked up at most once per run.
func (uc *ForecastUseCase) resolvePrices(ctx context.Context, rows []domain.LedgerRow, pinned map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	tickers := EquityTickers(rows)
	if len(tickers) == 0 {
		return nil, nil
	}

	prices := make(map[string]decimal.Decimal, len(tickers))
	for _, ticker := range tickers {
		if price, ok := pinned[ticker]; ok {
			if price.Sign() <= 0 {
				return nil, fmt.Errorf("%w: %s: pinned price must be positive", domain.ErrPriceUnavailable, ticker)
			}
			metrics.PriceLookups.WithLabelValues(metrics.LookupPinned).Inc()
			prices[ticker] = price
			continue
		}

		price, err := uc.prices.LastClose(ctx, ticker)
		if err != nil {
			metrics.PriceLookups.WithLabelValues(metrics.LookupError).Inc()
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrPriceUnavailable, ticker, err)
		}
		metrics.PriceLookups.WithLabelValues(metrics.LookupFetch).Inc()
		prices[ticker] = price
	}
	return prices, nil
}
