package usecase_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/cashforecast/internal/domain"
	"github.com/iho/cashforecast/internal/usecase"
)

func TestBuildLedgerCumulative(t *testing.T) {
	start := date(2025, 1, 1)

	rows := usecase.BuildLedger([]domain.Occurrence{
		occ("balance", date(2025, 1, 1), "checking", 1000),
		occ("paycheck", date(2025, 1, 15), "checking", 2000),
		occ("rent", date(2025, 2, 1), "checking", -600),
	}, start)

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	wantTotals := []int64{1000, 3000, 2400}
	for i, want := range wantTotals {
		if got := rows[i].Balances["checking"]; !got.Equal(decimal.NewFromInt(want)) {
			t.Errorf("row %d: checking = %s, want %d", i, got, want)
		}
	}
}

func TestBuildLedgerCollapsesDuplicateDates(t *testing.T) {
	start := date(2025, 1, 1)

	rows := usecase.BuildLedger([]domain.Occurrence{
		occ("balance", start, "checking", 1000),
		occ("paycheck", start, "checking", 2000),
	}, start)

	if len(rows) != 1 {
		t.Fatalf("got %d rows, want exactly one row for the shared date", len(rows))
	}
	if got := rows[0].Balances["checking"]; !got.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("collapsed row: got %s, want the sum 3000", got)
	}
	if !strings.Contains(rows[0].Activity, "balance") || !strings.Contains(rows[0].Activity, "paycheck") {
		t.Errorf("activity %q should mention both contributions", rows[0].Activity)
	}
}

func TestBuildLedgerDropsPreStartOccurrences(t *testing.T) {
	start := date(2025, 1, 1)

	rows := usecase.BuildLedger([]domain.Occurrence{
		occ("stale", date(2024, 12, 15), "checking", -100),
		occ("balance", start, "checking", 1000),
	}, start)

	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Date != start {
		t.Errorf("first row at %v, want %v", rows[0].Date, start)
	}
	if got := rows[0].Balances["checking"]; !got.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("pre-start delta leaked into the ledger: got %s", got)
	}
}

func TestBuildLedgerZeroFillsUnseenAccounts(t *testing.T) {
	start := date(2025, 1, 1)

	rows := usecase.BuildLedger([]domain.Occurrence{
		occ("balance", start, "checking", 1000),
		occ("espp", date(2025, 2, 1), "$GOOG", 5),
	}, start)

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Every row carries every account column; untouched accounts are zero.
	if got, ok := rows[0].Balances["$GOOG"]; !ok || !got.IsZero() {
		t.Errorf("row 0 $GOOG: got %s (present=%v), want 0", got, ok)
	}
	if got := rows[1].Balances["checking"]; !got.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("row 1 checking: got %s, want carried-forward 1000", got)
	}
}

// The prefix-sum law: every balance equals the sum of all deltas for that
// account at dates up to and including the row's date.
func TestBuildLedgerPrefixSumProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	accounts := []string{"checking", "savings", "$GOOG"}
	start := date(2025, 1, 1)

	for trial := 0; trial < 50; trial++ {
		var occs []domain.Occurrence
		n := 1 + rng.Intn(40)
		for i := 0; i < n; i++ {
			occs = append(occs, occ(
				fmt.Sprintf("decl%d", i),
				start.AddDays(rng.Intn(90)),
				accounts[rng.Intn(len(accounts))],
				int64(rng.Intn(2001)-1000),
			))
		}

		rows := usecase.BuildLedger(occs, start)

		for i := 1; i < len(rows); i++ {
			if !rows[i-1].Date.Before(rows[i].Date) {
				t.Fatalf("trial %d: rows not strictly ascending", trial)
			}
		}
		for _, row := range rows {
			for _, account := range accounts {
				want := decimal.Zero
				for _, o := range occs {
					if !o.Date.After(row.Date) {
						want = want.Add(o.Accounts[account])
					}
				}
				if got := row.Balances[account]; !got.Equal(want) {
					t.Fatalf("trial %d: %s at %v: got %s, want %s",
						trial, account, row.Date, got, want)
				}
			}
		}
	}
}

func TestAccountColumns(t *testing.T) {
	rows := usecase.BuildLedger([]domain.Occurrence{
		occ("balance", date(2025, 1, 1), "checking", 1000),
		occ("espp", date(2025, 2, 1), "$GOOG", 5),
	}, date(2025, 1, 1))

	got := usecase.AccountColumns(rows)
	want := []string{"$GOOG", "checking"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
