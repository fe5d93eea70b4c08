package codec_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/cashforecast/internal/adapter/codec"
	"github.com/iho/cashforecast/internal/domain"
)

const sampleCSV = `desc,accounts,dtstart,rrule
balance,checking+1000 $GOOG+5,2025-01-01,
paycheck,checking+2000,2025-01-03,FREQ=WEEKLY;INTERVAL=2
rent,checking-600,2025-01-01,FREQ=MONTHLY;BYMONTHDAY=1
`

func TestDecodeCSV(t *testing.T) {
	decls, err := codec.DecodeCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decls) != 3 {
		t.Fatalf("got %d declarations, want 3", len(decls))
	}

	balance := decls[0]
	if balance.Desc != "balance" {
		t.Errorf("desc: got %q", balance.Desc)
	}
	if !balance.Accounts["checking"].Equal(decimal.NewFromInt(1000)) {
		t.Errorf("checking: got %s", balance.Accounts["checking"])
	}
	if !balance.Accounts["$GOOG"].Equal(decimal.NewFromInt(5)) {
		t.Errorf("$GOOG: got %s", balance.Accounts["$GOOG"])
	}
	if balance.DTStart != domain.NewDate(2025, 1, 1) {
		t.Errorf("dtstart: got %v", balance.DTStart)
	}
	if decls[1].RRule != "FREQ=WEEKLY;INTERVAL=2" {
		t.Errorf("rrule: got %q", decls[1].RRule)
	}
	if !decls[2].Accounts["checking"].Equal(decimal.NewFromInt(-600)) {
		t.Errorf("rent checking: got %s", decls[2].Accounts["checking"])
	}
}

func TestDecodeCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantSub string
	}{
		{"empty input", "", "read header"},
		{"wrong header", "name,amount\nfoo,1\n", "header"},
		{"header only", "desc,accounts,dtstart,rrule\n", domain.ErrEmptySheet.Error()},
		{"bad accounts", "desc,accounts,dtstart,rrule\nrent,checking,2025-01-01,\n", "row 1 (rent)"},
		{"bad date", "desc,accounts,dtstart,rrule\nrent,checking-600,01/01/2025,\n", "row 1 (rent)"},
		{"ragged row", "desc,accounts,dtstart,rrule\nrent,checking-600\n", "row 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.DecodeCSV(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestEncodeCSVRoundTrip(t *testing.T) {
	decls, err := codec.DecodeCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	out, err := codec.EncodeCSV(decls)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	again, err := codec.DecodeCSV(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if len(again) != len(decls) {
		t.Fatalf("got %d declarations, want %d", len(again), len(decls))
	}
	for i := range decls {
		if again[i].Desc != decls[i].Desc || again[i].DTStart != decls[i].DTStart || again[i].RRule != decls[i].RRule {
			t.Errorf("row %d changed: %+v vs %+v", i, again[i], decls[i])
		}
		for name, qty := range decls[i].Accounts {
			if !again[i].Accounts[name].Equal(qty) {
				t.Errorf("row %d account %s: got %s, want %s", i, name, again[i].Accounts[name], qty)
			}
		}
	}
}

func TestDecodeCSVEmptySheetSentinel(t *testing.T) {
	_, err := codec.DecodeCSV(strings.NewReader("desc,accounts,dtstart,rrule\n"))
	if !errors.Is(err, domain.ErrEmptySheet) {
		t.Fatalf("got %v, want ErrEmptySheet", err)
	}
}
