package domain

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) Date { return NewDate(y, m, d) }

func TestParseRule(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "daily", input: "FREQ=DAILY"},
		{name: "one time", input: "FREQ=DAILY;COUNT=1"},
		{name: "weekly with days", input: "FREQ=WEEKLY;BYDAY=MO,WE,FR"},
		{name: "biweekly", input: "FREQ=WEEKLY;INTERVAL=2"},
		{name: "monthly first", input: "FREQ=MONTHLY;BYMONTHDAY=1"},
		{name: "monthly last day", input: "FREQ=MONTHLY;BYMONTHDAY=-1"},
		{name: "second tuesday", input: "FREQ=MONTHLY;BYDAY=2TU"},
		{name: "last friday", input: "FREQ=MONTHLY;BYDAY=-1FR"},
		{name: "yearly", input: "FREQ=YEARLY;BYMONTH=4;BYMONTHDAY=15"},
		{name: "until datetime form", input: "FREQ=WEEKLY;UNTIL=20250301T000000Z"},
		{name: "until compact form", input: "FREQ=WEEKLY;UNTIL=20250301T0000Z"},
		{name: "rrule prefix tolerated", input: "RRULE:FREQ=DAILY"},

		{name: "empty", input: "", expectError: true},
		{name: "missing freq", input: "INTERVAL=2", expectError: true},
		{name: "hourly rejected", input: "FREQ=HOURLY", expectError: true},
		{name: "secondly rejected", input: "FREQ=SECONDLY", expectError: true},
		{name: "byhour rejected", input: "FREQ=DAILY;BYHOUR=9", expectError: true},
		{name: "bysetpos rejected", input: "FREQ=MONTHLY;BYDAY=TU;BYSETPOS=2", expectError: true},
		{name: "zero interval", input: "FREQ=DAILY;INTERVAL=0", expectError: true},
		{name: "monthday zero", input: "FREQ=MONTHLY;BYMONTHDAY=0", expectError: true},
		{name: "monthday out of range", input: "FREQ=MONTHLY;BYMONTHDAY=32", expectError: true},
		{name: "weekly ordinal byday", input: "FREQ=WEEKLY;BYDAY=2TU", expectError: true},
		{name: "monthly plain byday", input: "FREQ=MONTHLY;BYDAY=TU", expectError: true},
		{name: "monthly two byday entries", input: "FREQ=MONTHLY;BYDAY=1TU,2WE", expectError: true},
		{name: "daily with byday", input: "FREQ=DAILY;BYDAY=MO", expectError: true},
		{name: "count and until", input: "FREQ=DAILY;COUNT=3;UNTIL=20250301", expectError: true},
		{name: "garbage part", input: "FREQ=DAILY;NOPE", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRule(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidRule) {
					t.Errorf("error %v is not ErrInvalidRule", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func mustRule(t *testing.T, s string) Rule {
	t.Helper()
	rule, err := ParseRule(s)
	if err != nil {
		t.Fatalf("ParseRule(%q): %v", s, err)
	}
	return rule
}

func TestRuleBetween(t *testing.T) {
	tests := []struct {
		name    string
		rule    string
		dtstart Date
		after   Date
		before  Date
		want    []Date
	}{
		{
			name:    "biweekly inside window",
			rule:    "FREQ=WEEKLY;INTERVAL=2",
			dtstart: date(2025, 1, 1),
			after:   date(2025, 1, 1),
			before:  date(2025, 1, 15),
			want:    []Date{date(2025, 1, 1), date(2025, 1, 15)},
		},
		{
			name: "weekly phase preserved across window start",
			// Started long before the window; only in-window dates emitted,
			// on the right weekday.
			rule:    "FREQ=WEEKLY",
			dtstart: date(2024, 11, 7), // a Thursday
			after:   date(2025, 1, 1),
			before:  date(2025, 1, 16),
			want:    []Date{date(2025, 1, 2), date(2025, 1, 9), date(2025, 1, 16)},
		},
		{
			name:    "weekly byday list",
			rule:    "FREQ=WEEKLY;BYDAY=MO,FR",
			dtstart: date(2025, 1, 1), // Wednesday: the Monday of its own week is skipped
			after:   date(2025, 1, 1),
			before:  date(2025, 1, 10),
			want:    []Date{date(2025, 1, 3), date(2025, 1, 6), date(2025, 1, 10)},
		},
		{
			name:    "count consumed before window",
			rule:    "FREQ=WEEKLY;COUNT=3",
			dtstart: date(2025, 1, 1),
			after:   date(2025, 1, 10),
			before:  date(2025, 3, 1),
			want:    []Date{date(2025, 1, 15)}, // occurrences 1 and 2 predate the window
		},
		{
			name:    "until bounds the rule",
			rule:    "FREQ=WEEKLY;UNTIL=20250115T000000Z",
			dtstart: date(2025, 1, 1),
			after:   date(2025, 1, 1),
			before:  date(2025, 12, 31),
			want:    []Date{date(2025, 1, 1), date(2025, 1, 8), date(2025, 1, 15)},
		},
		{
			name:    "monthly first of month",
			rule:    "FREQ=MONTHLY;BYMONTHDAY=1",
			dtstart: date(2025, 1, 15),
			after:   date(2025, 1, 15),
			before:  date(2025, 4, 30),
			want:    []Date{date(2025, 2, 1), date(2025, 3, 1), date(2025, 4, 1)},
		},
		{
			name:    "monthly 31st skips short months",
			rule:    "FREQ=MONTHLY;BYMONTHDAY=31",
			dtstart: date(2025, 1, 31),
			after:   date(2025, 1, 1),
			before:  date(2025, 5, 31),
			want:    []Date{date(2025, 1, 31), date(2025, 3, 31), date(2025, 5, 31)},
		},
		{
			name:    "monthly last day",
			rule:    "FREQ=MONTHLY;BYMONTHDAY=-1",
			dtstart: date(2025, 1, 1),
			after:   date(2025, 1, 1),
			before:  date(2025, 3, 31),
			want:    []Date{date(2025, 1, 31), date(2025, 2, 28), date(2025, 3, 31)},
		},
		{
			name:    "second tuesday of each month",
			rule:    "FREQ=MONTHLY;BYDAY=2TU",
			dtstart: date(2025, 1, 1),
			after:   date(2025, 1, 1),
			before:  date(2025, 3, 31),
			want:    []Date{date(2025, 1, 14), date(2025, 2, 11), date(2025, 3, 11)},
		},
		{
			name:    "last friday of each month",
			rule:    "FREQ=MONTHLY;BYDAY=-1FR",
			dtstart: date(2025, 1, 1),
			after:   date(2025, 1, 1),
			before:  date(2025, 2, 28),
			want:    []Date{date(2025, 1, 31), date(2025, 2, 28)},
		},
		{
			name:    "monthly anchored to dtstart day",
			rule:    "FREQ=MONTHLY",
			dtstart: date(2025, 1, 31),
			after:   date(2025, 1, 1),
			before:  date(2025, 4, 30),
			want:    []Date{date(2025, 1, 31), date(2025, 3, 31)}, // no Feb 31 or Apr 31
		},
		{
			name:    "yearly tax day",
			rule:    "FREQ=YEARLY;BYMONTH=4;BYMONTHDAY=15",
			dtstart: date(2025, 1, 1),
			after:   date(2025, 1, 1),
			before:  date(2027, 12, 31),
			want:    []Date{date(2025, 4, 15), date(2026, 4, 15), date(2027, 4, 15)},
		},
		{
			name:    "start after window end",
			rule:    "FREQ=DAILY",
			dtstart: date(2026, 1, 1),
			after:   date(2025, 1, 1),
			before:  date(2025, 12, 31),
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRule(t, tt.rule).Between(tt.dtstart, tt.after, tt.before)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestRuleBetweenTerminates(t *testing.T) {
	// An unbounded daily rule must stop at the window's end.
	rule := mustRule(t, "FREQ=DAILY")
	got := rule.Between(date(2020, 1, 1), date(2025, 1, 1), date(2025, 1, 31))
	if len(got) != 31 {
		t.Fatalf("got %d occurrences, want 31", len(got))
	}
	for _, d := range got {
		if d.Before(date(2025, 1, 1)) || d.After(date(2025, 1, 31)) {
			t.Fatalf("occurrence %v escapes the window", d)
		}
	}
}

func TestRuleWeeklyOccurrenceBound(t *testing.T) {
	// A weekly rule emits at most ceil(window/7)+1 occurrences in a window.
	rule := mustRule(t, "FREQ=WEEKLY")
	after, before := date(2025, 1, 1), date(2025, 3, 1)
	got := rule.Between(date(2024, 6, 5), after, before)

	days := 0
	for d := after; !d.After(before); d = d.AddDays(1) {
		days++
	}
	bound := (days+6)/7 + 1
	if len(got) == 0 || len(got) > bound {
		t.Fatalf("got %d occurrences, want between 1 and %d", len(got), bound)
	}
}

func TestRuleNeverFiringTerminates(t *testing.T) {
	// Every February, on the 30th: no such day ever exists. The generator
	// must give up rather than spin.
	rule := mustRule(t, "FREQ=MONTHLY;INTERVAL=12;BYMONTHDAY=30")
	got := rule.Between(date(2025, 2, 1), date(2025, 1, 1), date(2100, 1, 1))
	if len(got) != 0 {
		t.Fatalf("got %v, want no occurrences", got)
	}
}

func TestRuleAllIsRestartable(t *testing.T) {
	rule := mustRule(t, "FREQ=DAILY;COUNT=3")
	seq := rule.All(date(2025, 1, 1))

	for pass := 0; pass < 2; pass++ {
		var got []Date
		for d := range seq {
			got = append(got, d)
		}
		want := []Date{date(2025, 1, 1), date(2025, 1, 2), date(2025, 1, 3)}
		if len(got) != len(want) {
			t.Fatalf("pass %d: got %v, want %v", pass, got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("pass %d: got %v, want %v", pass, got, want)
			}
		}
	}
}
