package recurrence

import (
	"time"

	"github.com/dukerupert/nosso/internal/model"
)

type Freq int

const (
	Daily Freq = iota
	Weekly
	Monthly
)

type Rule struct {
	Freq     Freq
	Interval int // 2 = biweekly when Freq=Weekly
}

var rules = map[model.Recurrence]Rule{
	model.RecurrenceDaily:    {Freq: Daily, Interval: 1},
	model.RecurrenceWeekly:   {Freq: Weekly, Interval: 1},
	model.RecurrenceBiweekly: {Freq: Weekly, Interval: 2},
	model.RecurrenceMonthly:  {Freq: Monthly, Interval: 1},
}

// For returns the rule for a task recurrence. ok is false for "none" and
// unknown values.
func For(r model.Recurrence) (Rule, bool) {
	rule, ok := rules[r]
	return rule, ok
}

// Next returns the due date that follows from for recurrence r.
func Next(r model.Recurrence, from time.Time) (time.Time, bool) {
	rule, ok := For(r)
	if !ok {
		return time.Time{}, false
	}
	return rule.Next(from), true
}

// Next advances from by one interval of the rule. Monthly steps keep the day
// of month, clamped to the last day of a shorter target month.
func (r Rule) Next(from time.Time) time.Time {
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	switch r.Freq {
	case Daily:
		return from.AddDate(0, 0, interval)
	case Weekly:
		return from.AddDate(0, 0, 7*interval)
	case Monthly:
		return addMonths(from, interval)
	}
	return from
}

func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, n, 0)
	day := t.Day()
	if maxDay := daysInMonth(target.Year(), target.Month()); day > maxDay {
		day = maxDay
	}
	return target.AddDate(0, 0, day-1)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
