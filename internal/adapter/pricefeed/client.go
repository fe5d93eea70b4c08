// Package pricefeed fetches last closing prices for equity tickers from a
// Yahoo-style chart API.
package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashforecast/internal/domain"
)

// Client implements usecase.PriceSource against an HTTP quote service.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          zerolog.Logger
}

// NewClient creates a new quote client. baseURL is the service root without
// a trailing slash.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: timeout},
		baseURL:         baseURL,
		maxRetries:      3,
		initialInterval: 100 * time.Millisecond,
		maxInterval:     2 * time.Second,
		logger:          logger,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// LastClose returns the latest close for the ticker. Server and network
// failures are retried with exponential backoff; client errors are not.
func (c *Client) LastClose(ctx context.Context, ticker string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d",
		c.baseURL, url.PathEscape(ticker))

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = c.maxInterval

	retryCount := 0
	var price decimal.Decimal

	err := backoff.Retry(func() error {
		var err error
		price, err = c.fetch(ctx, endpoint, ticker)
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > c.maxRetries {
			return backoff.Permanent(err)
		}

		c.logger.Warn().
			Err(err).
			Str("ticker", ticker).
			Int("retry", retryCount).
			Msg("quote fetch failed, retrying")

		return err
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", domain.ErrPriceUnavailable, ticker, err)
	}
	return price, nil
}

func (c *Client) fetch(ctx context.Context, endpoint, ticker string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, &transientError{err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return decimal.Zero, &transientError{fmt.Errorf("quote service returned %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("quote service returned %d", resp.StatusCode)
	}

	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decode quote response: %w", err)
	}
	if body.Chart.Error != nil {
		return decimal.Zero, fmt.Errorf("quote service error: %s (%s)",
			body.Chart.Error.Description, body.Chart.Error.Code)
	}
	if len(body.Chart.Result) == 0 {
		return decimal.Zero, fmt.Errorf("no quote for %s", ticker)
	}

	price := decimal.NewFromFloat(body.Chart.Result[0].Meta.RegularMarketPrice)
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive quote %s for %s", price, ticker)
	}
	return price, nil
}

// transientError marks failures worth retrying.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
