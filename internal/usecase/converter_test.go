package usecase_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/cashforecast/internal/domain"
	"github.com/iho/cashforecast/internal/usecase"
)

func TestConvertPricesValuesShares(t *testing.T) {
	rows := usecase.BuildLedger([]domain.Occurrence{
		occ("balance", date(2025, 1, 1), "checking", 1000),
		occ("vest", date(2025, 1, 2), "$GOOG", 5),
	}, date(2025, 1, 1))

	converted, err := usecase.ConvertPrices(rows, map[string]decimal.Decimal{
		"GOOG": decimal.RequireFromString("150.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := converted[1].Balances["$GOOG"]; !got.Equal(decimal.RequireFromString("750.00")) {
		t.Errorf("$GOOG: got %s, want 750.00", got)
	}
	if got := converted[1].Balances["checking"]; !got.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("checking must pass through, got %s", got)
	}
}

func TestConvertPricesMissingTicker(t *testing.T) {
	rows := usecase.BuildLedger([]domain.Occurrence{
		occ("vest", date(2025, 1, 2), "$GOOG", 5),
	}, date(2025, 1, 1))

	_, err := usecase.ConvertPrices(rows, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrPriceUnavailable) {
		t.Errorf("error %v is not ErrPriceUnavailable", err)
	}
	if !strings.Contains(err.Error(), "GOOG") {
		t.Errorf("error %q does not identify the ticker", err)
	}
}

func TestConvertPricesRounds(t *testing.T) {
	rows := usecase.BuildLedger([]domain.Occurrence{
		occ("vest", date(2025, 1, 2), "$GOOG", 3),
	}, date(2025, 1, 1))

	converted, err := usecase.ConvertPrices(rows, map[string]decimal.Decimal{
		"GOOG": decimal.RequireFromString("150.333"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := converted[0].Balances["$GOOG"]; !got.Equal(decimal.RequireFromString("451.00")) {
		t.Errorf("got %s, want 451.00", got)
	}
}

func TestConvertPricesIdempotentOnCurrency(t *testing.T) {
	rows := usecase.BuildLedger([]domain.Occurrence{
		occ("balance", date(2025, 1, 1), "checking", 1000),
		occ("rent", date(2025, 2, 1), "checking", -600),
	}, date(2025, 1, 1))

	once, err := usecase.ConvertPrices(rows, nil)
	if err != nil {
		t.Fatalf("first conversion: %v", err)
	}
	twice, err := usecase.ConvertPrices(once, nil)
	if err != nil {
		t.Fatalf("second conversion: %v", err)
	}

	for i := range once {
		for name, amount := range once[i].Balances {
			if !twice[i].Balances[name].Equal(amount) {
				t.Errorf("row %d account %q: %s != %s", i, name, twice[i].Balances[name], amount)
			}
		}
	}
}

func TestEquityTickers(t *testing.T) {
	rows := usecase.BuildLedger([]domain.Occurrence{
		occ("balance", date(2025, 1, 1), "checking", 1000),
		occ("vest", date(2025, 1, 2), "$GOOG", 5),
		occ("espp", date(2025, 1, 3), "$AAPL", 2),
	}, date(2025, 1, 1))

	got := usecase.EquityTickers(rows)
	want := []string{"AAPL", "GOOG"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
