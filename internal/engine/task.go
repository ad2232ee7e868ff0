package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dukerupert/nosso/internal/code"
	"github.com/dukerupert/nosso/internal/model"
	"github.com/dukerupert/nosso/internal/notify"
	"github.com/dukerupert/nosso/internal/recurrence"
)

type TaskInput struct {
	Title       string
	Description string
	Points      int
	AssignedTo  string
	Recurrence  model.Recurrence
	DueDate     *time.Time
}

// CreateTask adds an open task to the user's couple. The assignee must be
// one of the partners.
func (e *Engine) CreateTask(ctx context.Context, in TaskInput) (*model.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	title := strings.TrimSpace(in.Title)
	rec := in.Recurrence
	if rec == "" {
		rec = model.RecurrenceNone
	}
	switch {
	case title == "":
		return nil, e.reject("create task", fmt.Errorf("%w: title is required", ErrInvalidInput))
	case in.Points <= 0:
		return nil, e.reject("create task", fmt.Errorf("%w: points must be positive", ErrInvalidInput))
	case !rec.Valid():
		return nil, e.reject("create task", fmt.Errorf("%w: unknown recurrence %q", ErrInvalidInput, rec))
	}

	ds, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	u, c, err := e.currentCouple(ds)
	if err != nil {
		return nil, e.reject("create task", err)
	}
	if !c.HasMember(in.AssignedTo) {
		return nil, e.reject("create task", ErrInvalidAssignee)
	}

	t := model.Task{
		ID:          code.NewID(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Points:      in.Points,
		AssignedTo:  in.AssignedTo,
		CreatedBy:   u.ID,
		CoupleID:    c.ID,
		Recurrence:  rec,
		DueDate:     in.DueDate,
		CreatedAt:   e.now(),
	}
	ds.Tasks = append(ds.Tasks, t)

	if err := e.commit(ctx, ds, notify.NewMessage("task", "created", t.ID)); err != nil {
		return nil, err
	}
	return &t, nil
}

// CompleteTask marks a task done and credits its points to the assignee
// and the couple. Completing a recurring task spawns its next instance.
func (e *Engine) CompleteTask(ctx context.Context, taskID, proofPhoto string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ds, err := e.load(ctx)
	if err != nil {
		return err
	}
	u, c, err := e.currentCouple(ds)
	if err != nil {
		return e.reject("complete task", err)
	}
	t := ds.TaskByID(taskID)
	if t == nil || t.CoupleID != c.ID {
		return nil
	}
	if t.AssignedTo != u.ID {
		return e.reject("complete task", ErrNotAssignee)
	}
	if t.Completed {
		return e.reject("complete task", ErrTaskCompleted)
	}

	now := e.now()
	next, spawn := nextInstance(*t, now)

	t.Completed = true
	t.CompletedAt = &now
	t.ProofPhoto = proofPhoto
	u.Points += t.Points
	c.TotalPoints += t.Points
	e.logActivity(ds, model.ActivityTaskCompleted, u, c.ID, t.ID, describe(model.ActivityTaskCompleted, u.Name, t.Title), intPtr(t.Points))

	// t points into ds.Tasks; append only once it is no longer used.
	if spawn {
		ds.Tasks = append(ds.Tasks, next)
	}
	return e.commit(ctx, ds, notify.NewMessage("task", "completed", taskID))
}

// nextInstance returns the open copy of t that follows its completion at
// now. The next due date counts from the current due date, or from now
// when the task has none.
func nextInstance(t model.Task, now time.Time) (model.Task, bool) {
	if !t.Recurrence.Recurring() {
		return model.Task{}, false
	}
	from := now
	if t.DueDate != nil {
		from = *t.DueDate
	}
	due, ok := recurrence.Next(t.Recurrence, from)
	if !ok {
		return model.Task{}, false
	}

	parent := t.ParentTaskID
	if parent == "" {
		parent = t.ID
	}
	next := t
	next.ID = code.NewID()
	next.CreatedAt = now
	next.Completed = false
	next.CompletedAt = nil
	next.ProofPhoto = ""
	next.DueDate = &due
	next.IsRecurringInstance = true
	next.ParentTaskID = parent
	return next, true
}

// DeleteTask removes a task. Unknown ids are ignored.
func (e *Engine) DeleteTask(ctx context.Context, taskID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ds, err := e.load(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(ds.Tasks, func(t model.Task) bool { return t.ID == taskID })
	if i < 0 {
		return nil
	}
	ds.Tasks = slices.Delete(ds.Tasks, i, i+1)

	return e.commit(ctx, ds, notify.NewMessage("task", "deleted", taskID))
}
