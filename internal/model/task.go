package model

import "time"

type Recurrence string

const (
	RecurrenceNone     Recurrence = "none"
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekly   Recurrence = "weekly"
	RecurrenceBiweekly Recurrence = "biweekly"
	RecurrenceMonthly  Recurrence = "monthly"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceBiweekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Recurring reports whether completing a task with this recurrence spawns
// the next instance.
func (r Recurrence) Recurring() bool {
	return r != RecurrenceNone && r != ""
}

type Task struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description,omitempty"`
	Points              int        `json:"points"`
	AssignedTo          string     `json:"assignedTo"`
	CreatedBy           string     `json:"createdBy"`
	CoupleID            string     `json:"coupleId"`
	Recurrence          Recurrence `json:"recurrence"`
	DueDate             *time.Time `json:"dueDate,omitempty"`
	Completed           bool       `json:"completed"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
	ProofPhoto          string     `json:"proofPhoto,omitempty"`
	IsRecurringInstance bool       `json:"isRecurringInstance,omitempty"`
	ParentTaskID        string     `json:"parentTaskId,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}
