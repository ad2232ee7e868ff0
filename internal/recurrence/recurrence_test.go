package recurrence

import (
	"testing"
	"time"

	"github.com/dukerupert/nosso/internal/model"
)

func TestNext(t *testing.T) {
	base := time.Date(2026, 2, 5, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		r    model.Recurrence
		from time.Time
		want time.Time
	}{
		{"daily", model.RecurrenceDaily, base, time.Date(2026, 2, 6, 9, 30, 0, 0, time.UTC)},
		{"weekly", model.RecurrenceWeekly, base, time.Date(2026, 2, 12, 9, 30, 0, 0, time.UTC)},
		{"biweekly", model.RecurrenceBiweekly, base, time.Date(2026, 2, 19, 9, 30, 0, 0, time.UTC)},
		{"monthly", model.RecurrenceMonthly, base, time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC)},
		{"daily across month end", model.RecurrenceDaily, time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC), time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)},
		{"monthly clamps to february", model.RecurrenceMonthly, time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC), time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC)},
		{"monthly clamps to leap day", model.RecurrenceMonthly, time.Date(2028, 1, 30, 8, 0, 0, 0, time.UTC), time.Date(2028, 2, 29, 8, 0, 0, 0, time.UTC)},
		{"monthly across year", model.RecurrenceMonthly, time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC), time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Next(tt.r, tt.from)
			if !ok {
				t.Fatalf("Next(%q) not ok", tt.r)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Next(%q, %v) = %v, want %v", tt.r, tt.from, got, tt.want)
			}
		})
	}
}

func TestNextNonRecurring(t *testing.T) {
	for _, r := range []model.Recurrence{model.RecurrenceNone, "", "yearly"} {
		if _, ok := Next(r, time.Now()); ok {
			t.Errorf("Next(%q) should not be ok", r)
		}
	}
}

func TestForBiweekly(t *testing.T) {
	r, ok := For(model.RecurrenceBiweekly)
	if !ok {
		t.Fatal("biweekly should have a rule")
	}
	if r.Freq != Weekly || r.Interval != 2 {
		t.Errorf("got Freq=%d Interval=%d, want Weekly Interval=2", r.Freq, r.Interval)
	}
}

func TestRuleZeroIntervalAdvancesOnce(t *testing.T) {
	from := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)
	got := Rule{Freq: Daily}.Next(from)
	if want := from.AddDate(0, 0, 1); !got.Equal(want) {
		t.Errorf("Next = %v, want %v", got, want)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2026, time.January, 31},
		{2026, time.February, 28},
		{2028, time.February, 29},
		{2026, time.April, 30},
		{2026, time.December, 31},
	}
	for _, tt := range tests {
		if got := daysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("daysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
