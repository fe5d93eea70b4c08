package domain

import (
	"fmt"
	"iter"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Frequency is the base period of a recurrence rule. Sub-daily frequencies
// are rejected: the ledger has day granularity.
type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Monthly
	Yearly
)

func (f Frequency) String() string {
	switch f {
	case Daily:
		return "DAILY"
	case Weekly:
		return "WEEKLY"
	case Monthly:
		return "MONTHLY"
	case Yearly:
		return "YEARLY"
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

// WeekdayNum is an RFC 5545 BYDAY entry: a weekday with an optional ordinal
// within the month ("2TU" is the second Tuesday, "-1FR" the last Friday).
// Ord is zero for plain weekday entries.
type WeekdayNum struct {
	Ord int
	Day time.Weekday
}

// Rule is the supported subset of an RFC 5545 recurrence rule: one of the
// four calendar frequencies with INTERVAL, COUNT, UNTIL, BYDAY, BYMONTHDAY
// and BYMONTH. All other rule parts are rejected at parse time.
type Rule struct {
	Freq     Frequency
	Interval int  // 1 when unset
	Count    int  // 0 means unbounded
	Until    Date // zero means unbounded

	// ByDay holds plain weekdays for WEEKLY rules, or exactly one ordinal
	// entry for MONTHLY and YEARLY rules.
	ByDay []WeekdayNum

	// ByMonthDay is a day of the month; negative values count from the end
	// of the month (-1 is the last day). Zero means unset.
	ByMonthDay int

	// ByMonth restricts YEARLY rules to one month. Zero means unset.
	ByMonth time.Month
}

var weekdayAbbrevs = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// ParseRule parses the supported RFC 5545 RRULE subset, e.g.
// "FREQ=MONTHLY;BYMONTHDAY=1" or "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,FR".
func ParseRule(s string) (Rule, error) {
	rule := Rule{Interval: 1}

	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "RRULE:"))
	if s == "" {
		return Rule{}, fmt.Errorf("%w: empty rule", ErrInvalidRule)
	}

	freqSeen := false
	for _, part := range strings.Split(s, ";") {
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok || value == "" {
			return Rule{}, fmt.Errorf("%w: malformed part %q", ErrInvalidRule, part)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.ToUpper(strings.TrimSpace(value))

		var err error
		switch key {
		case "FREQ":
			rule.Freq, err = parseFrequency(value)
			freqSeen = true
		case "INTERVAL":
			rule.Interval, err = parsePositiveInt(key, value)
		case "COUNT":
			rule.Count, err = parsePositiveInt(key, value)
		case "UNTIL":
			rule.Until, err = parseUntil(value)
		case "BYDAY":
			rule.ByDay, err = parseByDay(value)
		case "BYMONTHDAY":
			rule.ByMonthDay, err = parseMonthDay(value)
		case "BYMONTH":
			var m int
			m, err = strconv.Atoi(value)
			if err != nil || m < 1 || m > 12 {
				err = fmt.Errorf("%w: BYMONTH=%s", ErrInvalidRule, value)
			}
			rule.ByMonth = time.Month(m)
		case "WKST":
			// Weeks start on Monday; an explicit Monday WKST is a no-op.
			if value != "MO" {
				err = fmt.Errorf("%w: unsupported WKST=%s", ErrInvalidRule, value)
			}
		default:
			err = fmt.Errorf("%w: unsupported part %s", ErrInvalidRule, key)
		}
		if err != nil {
			return Rule{}, err
		}
	}

	if !freqSeen {
		return Rule{}, fmt.Errorf("%w: missing FREQ", ErrInvalidRule)
	}
	if err := rule.validate(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

func parseFrequency(value string) (Frequency, error) {
	switch value {
	case "DAILY":
		return Daily, nil
	case "WEEKLY":
		return Weekly, nil
	case "MONTHLY":
		return Monthly, nil
	case "YEARLY":
		return Yearly, nil
	}
	return 0, fmt.Errorf("%w: unsupported FREQ=%s", ErrInvalidRule, value)
}

func parsePositiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s=%s", ErrInvalidRule, key, value)
	}
	return n, nil
}

// parseUntil accepts both the DATE form ("20250201") and the DATE-TIME form
// ("20250201T000000Z"); any time-of-day component is discarded.
func parseUntil(value string) (Date, error) {
	datePart, _, _ := strings.Cut(value, "T")
	t, err := time.Parse("20060102", datePart)
	if err != nil {
		return Date{}, fmt.Errorf("%w: UNTIL=%s", ErrInvalidRule, value)
	}
	return NewDate(t.Date()), nil
}

func parseByDay(value string) ([]WeekdayNum, error) {
	entries := strings.Split(value, ",")
	byDay := make([]WeekdayNum, 0, len(entries))
	for _, entry := range entries {
		if len(entry) < 2 {
			return nil, fmt.Errorf("%w: BYDAY entry %q", ErrInvalidRule, entry)
		}
		day, ok := weekdayAbbrevs[entry[len(entry)-2:]]
		if !ok {
			return nil, fmt.Errorf("%w: BYDAY entry %q", ErrInvalidRule, entry)
		}
		ord := 0
		if prefix := entry[:len(entry)-2]; prefix != "" {
			n, err := strconv.Atoi(prefix)
			if err != nil || n == 0 || n > 53 || n < -53 {
				return nil, fmt.Errorf("%w: BYDAY ordinal %q", ErrInvalidRule, entry)
			}
			ord = n
		}
		byDay = append(byDay, WeekdayNum{Ord: ord, Day: day})
	}
	return byDay, nil
}

func parseMonthDay(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n == 0 || n > 31 || n < -31 {
		return 0, fmt.Errorf("%w: BYMONTHDAY=%s", ErrInvalidRule, value)
	}
	return n, nil
}

func (r Rule) validate() error {
	switch r.Freq {
	case Daily:
		if len(r.ByDay) > 0 || r.ByMonthDay != 0 || r.ByMonth != 0 {
			return fmt.Errorf("%w: DAILY rules take no BY* parts", ErrInvalidRule)
		}
	case Weekly:
		if r.ByMonthDay != 0 || r.ByMonth != 0 {
			return fmt.Errorf("%w: WEEKLY rules take only BYDAY", ErrInvalidRule)
		}
		for _, wd := range r.ByDay {
			if wd.Ord != 0 {
				return fmt.Errorf("%w: WEEKLY BYDAY cannot carry an ordinal", ErrInvalidRule)
			}
		}
	case Monthly:
		if r.ByMonth != 0 {
			return fmt.Errorf("%w: MONTHLY rules cannot set BYMONTH", ErrInvalidRule)
		}
		if err := r.validateOrdinalByDay(); err != nil {
			return err
		}
	case Yearly:
		if err := r.validateOrdinalByDay(); err != nil {
			return err
		}
	}
	if len(r.ByDay) > 0 && r.ByMonthDay != 0 && r.Freq != Weekly {
		return fmt.Errorf("%w: BYDAY and BYMONTHDAY are mutually exclusive", ErrInvalidRule)
	}
	if r.Count > 0 && !r.Until.IsZero() {
		return fmt.Errorf("%w: COUNT and UNTIL are mutually exclusive", ErrInvalidRule)
	}
	return nil
}

// MONTHLY and YEARLY rules support one ordinal BYDAY entry ("second
// Tuesday"), never a plain weekday list.
func (r Rule) validateOrdinalByDay() error {
	if len(r.ByDay) == 0 {
		return nil
	}
	if len(r.ByDay) > 1 {
		return fmt.Errorf("%w: %s rules take at most one BYDAY entry", ErrInvalidRule, r.Freq)
	}
	if r.ByDay[0].Ord == 0 {
		return fmt.Errorf("%w: %s BYDAY requires an ordinal", ErrInvalidRule, r.Freq)
	}
	return nil
}

// A rule whose by-parts stay invalid for this many consecutive periods can
// never fire again (the calendar repeats its leap pattern every 4 years).
const maxBarrenPeriods = 48

// All returns the rule's occurrence dates starting at dtstart, in strictly
// ascending order. The sequence honors COUNT and UNTIL but is otherwise
// unbounded; callers must stop pulling once past their horizon.
func (r Rule) All(dtstart Date) iter.Seq[Date] {
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	return func(yield func(Date) bool) {
		emitted := 0
		emit := func(d Date) bool {
			if !r.Until.IsZero() && d.After(r.Until) {
				return false
			}
			emitted++
			if r.Count > 0 && emitted > r.Count {
				return false
			}
			return yield(d)
		}

		switch r.Freq {
		case Daily:
			for d := dtstart; ; d = d.AddDays(interval) {
				if !emit(d) {
					return
				}
			}

		case Weekly:
			if len(r.ByDay) == 0 {
				for d := dtstart; ; d = d.AddDays(7 * interval) {
					if !emit(d) {
						return
					}
				}
			}
			offsets := weekOffsets(r.ByDay)
			// Weeks start on Monday, anchored at dtstart's week.
			week := dtstart.AddDays(-mondayOffset(dtstart.Weekday()))
			for ; ; week = week.AddDays(7 * interval) {
				for _, off := range offsets {
					d := week.AddDays(off)
					if d.Before(dtstart) {
						continue
					}
					if !emit(d) {
						return
					}
				}
			}

		case Monthly:
			barren := 0
			for months := 0; ; months += interval {
				anchor := NewDate(dtstart.Year(), dtstart.Month()+time.Month(months), 1)
				d, ok := r.dayInMonth(anchor.Year(), anchor.Month(), dtstart.Day())
				if !ok || d.Before(dtstart) {
					if barren++; barren > maxBarrenPeriods {
						return
					}
					continue
				}
				barren = 0
				if !emit(d) {
					return
				}
			}

		case Yearly:
			month := r.ByMonth
			if month == 0 {
				month = dtstart.Month()
			}
			barren := 0
			for year := dtstart.Year(); ; year += interval {
				d, ok := r.dayInMonth(year, month, dtstart.Day())
				if !ok || d.Before(dtstart) {
					if barren++; barren > maxBarrenPeriods {
						return
					}
					continue
				}
				barren = 0
				if !emit(d) {
					return
				}
			}
		}
	}
}

// Between returns the dates on which the rule fires within [after, before],
// with the rule anchored at dtstart. Dates before the window are generated
// to keep COUNT and phase honest but not returned; generation stops at the
// window's end even for unbounded rules.
func (r Rule) Between(dtstart, after, before Date) []Date {
	var dates []Date
	for d := range r.All(dtstart) {
		if d.After(before) {
			break
		}
		if !d.Before(after) {
			dates = append(dates, d)
		}
	}
	return dates
}

// dayInMonth resolves the rule's by-parts to a concrete day in the given
// month, falling back to the anchor day of the month when no by-part is set.
// ok is false when the month has no such day (a 31st in April, a fifth
// Friday in most months).
func (r Rule) dayInMonth(year int, month time.Month, fallbackDay int) (Date, bool) {
	last := daysIn(year, month)

	day := fallbackDay
	switch {
	case r.ByMonthDay > 0:
		day = r.ByMonthDay
	case r.ByMonthDay < 0:
		day = last + 1 + r.ByMonthDay
	case len(r.ByDay) == 1:
		return nthWeekday(year, month, r.ByDay[0])
	}

	if day < 1 || day > last {
		return Date{}, false
	}
	return NewDate(year, month, day), true
}

// nthWeekday returns the wd.Ord-th wd.Day of the month; negative ordinals
// count from the end of the month.
func nthWeekday(year int, month time.Month, wd WeekdayNum) (Date, bool) {
	last := daysIn(year, month)
	if wd.Ord > 0 {
		first := NewDate(year, month, 1)
		day := 1 + (int(wd.Day)-int(first.Weekday())+7)%7 + (wd.Ord-1)*7
		if day > last {
			return Date{}, false
		}
		return NewDate(year, month, day), true
	}
	lastDate := NewDate(year, month, last)
	day := last - (int(lastDate.Weekday())-int(wd.Day)+7)%7 + (wd.Ord+1)*7
	if day < 1 {
		return Date{}, false
	}
	return NewDate(year, month, day), true
}

// weekOffsets converts BYDAY weekdays to sorted day offsets from Monday.
func weekOffsets(byDay []WeekdayNum) []int {
	offsets := make([]int, 0, len(byDay))
	for _, wd := range byDay {
		offsets = append(offsets, mondayOffset(wd.Day))
	}
	sort.Ints(offsets)
	return offsets
}

func mondayOffset(wd time.Weekday) int { return (int(wd) + 6) % 7 }
