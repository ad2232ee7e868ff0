package state

import (
	"time"

	"github.com/dukerupert/nosso/internal/model"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusNotDue    Status = "not_due"
)

// ComputeStatus classifies a task relative to the calendar day of today.
// Tasks without a due date stay pending until completed.
func ComputeStatus(t model.Task, today time.Time) Status {
	if t.Completed {
		return StatusCompleted
	}
	if t.DueDate == nil {
		return StatusPending
	}

	today = startOfDay(today)
	due := startOfDay(t.DueDate.In(today.Location()))
	switch {
	case due.Before(today):
		return StatusOverdue
	case due.After(today):
		return StatusNotDue
	}
	return StatusPending
}

// IsDueOnDate reports whether an open task falls due on the given day.
func IsDueOnDate(t model.Task, date time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return startOfDay(t.DueDate.In(date.Location())).Equal(startOfDay(date))
}

// OverdueTasks returns the couple's open tasks whose due day has passed.
func (s Snapshot) OverdueTasks(today time.Time) []model.Task {
	var out []model.Task
	for _, t := range s.Tasks {
		if ComputeStatus(t, today) == StatusOverdue {
			out = append(out, t)
		}
	}
	return out
}

// TasksDueOn returns the couple's open tasks due on date.
func (s Snapshot) TasksDueOn(date time.Time) []model.Task {
	var out []model.Task
	for _, t := range s.Tasks {
		if IsDueOnDate(t, date) {
			out = append(out, t)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
