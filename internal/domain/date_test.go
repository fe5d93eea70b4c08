package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        Date
		expectError bool
	}{
		{name: "valid date", input: "2025-01-15", want: NewDate(2025, time.January, 15)},
		{name: "padded components required", input: "2025-1-5", expectError: true},
		{name: "not a date", input: "yesterday", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateNormalization(t *testing.T) {
	// Day arithmetic rolls over month and year boundaries.
	d := NewDate(2024, time.December, 31).AddDays(1)
	if d != NewDate(2025, time.January, 1) {
		t.Errorf("AddDays across year: got %v", d)
	}

	// Leap day exists in 2024, not in 2025.
	if got := daysIn(2024, time.February); got != 29 {
		t.Errorf("daysIn(2024, Feb) = %d, want 29", got)
	}
	if got := daysIn(2025, time.February); got != 28 {
		t.Errorf("daysIn(2025, Feb) = %d, want 28", got)
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2025, time.March, 1)
	b := NewDate(2025, time.March, 2)

	if !a.Before(b) || b.Before(a) {
		t.Error("Before is inconsistent")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After is inconsistent")
	}
	if a.Before(a) || a.After(a) {
		t.Error("a date is neither before nor after itself")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.July, 4)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2025-07-04"` {
		t.Errorf("marshal: got %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip: got %v, want %v", back, d)
	}
}
