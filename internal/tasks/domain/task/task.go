// Package task contains the task aggregate and its lifecycle rules.
package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/domain/geo"
)

// Task represents a request for help posted by a community member.
//
// The assignment invariant holds at all times: assignedVolunteer is
// non-nil exactly when status is assigned, in_progress or completed.
type Task struct {
	sharedDomain.BaseAggregateRoot
	title             string
	description       string
	category          Category
	priority          Priority
	urgent            bool
	deadline          *time.Time
	location          *geo.Coordinate
	address           string
	status            Status
	postedBy          uuid.UUID
	assignedVolunteer *uuid.UUID
}

// NewTask creates a new open task.
func NewTask(postedBy uuid.UUID, title, description string, category Category, priority Priority) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, sharedDomain.NewError(sharedDomain.KindInvalidOperation, "task title cannot be empty")
	}
	if postedBy == uuid.Nil {
		return nil, sharedDomain.NewError(sharedDomain.KindInvalidOperation, "task owner is required")
	}

	t := &Task{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		title:             title,
		description:       strings.TrimSpace(description),
		category:          category,
		priority:          priority,
		status:            StatusOpen,
		postedBy:          postedBy,
	}

	t.AddDomainEvent(NewTaskCreated(t.ID(), t.postedBy, t.title, t.category.String(), t.priority.String()))

	return t, nil
}

// RehydrateTask recreates a task from persisted state.
func RehydrateTask(
	base sharedDomain.BaseAggregateRoot,
	title, description string,
	category Category,
	priority Priority,
	urgent bool,
	deadline *time.Time,
	location *geo.Coordinate,
	address string,
	status Status,
	postedBy uuid.UUID,
	assignedVolunteer *uuid.UUID,
) *Task {
	return &Task{
		BaseAggregateRoot: base,
		title:             title,
		description:       description,
		category:          category,
		priority:          priority,
		urgent:            urgent,
		deadline:          deadline,
		location:          location,
		address:           address,
		status:            status,
		postedBy:          postedBy,
		assignedVolunteer: assignedVolunteer,
	}
}

func (t *Task) Title() string       { return t.title }
func (t *Task) Description() string { return t.description }
func (t *Task) Category() Category  { return t.category }
func (t *Task) Priority() Priority  { return t.priority }
func (t *Task) Urgent() bool        { return t.urgent }
func (t *Task) Address() string     { return t.address }
func (t *Task) Status() Status      { return t.status }
func (t *Task) PostedBy() uuid.UUID { return t.postedBy }

// Deadline returns the task deadline, or nil if none is set.
func (t *Task) Deadline() *time.Time {
	if t.deadline == nil {
		return nil
	}
	d := *t.deadline
	return &d
}

// Location returns the task coordinate, or nil if not set.
func (t *Task) Location() *geo.Coordinate {
	if t.location == nil {
		return nil
	}
	loc := *t.location
	return &loc
}

// AssignedVolunteer returns the current assignee, or nil when unassigned.
func (t *Task) AssignedVolunteer() *uuid.UUID {
	if t.assignedVolunteer == nil {
		return nil
	}
	v := *t.assignedVolunteer
	return &v
}

// IsOpen returns true if the task accepts invites.
func (t *Task) IsOpen() bool { return t.status == StatusOpen }

// SetUrgent flags the task as urgent.
func (t *Task) SetUrgent(urgent bool) {
	t.urgent = urgent
	t.Touch()
}

// SetDeadline sets or clears the task deadline.
func (t *Task) SetDeadline(deadline *time.Time) {
	t.deadline = deadline
	t.Touch()
}

// SetLocation sets the task coordinate and optional address.
func (t *Task) SetLocation(location geo.Coordinate, address string) {
	loc := location
	t.location = &loc
	t.address = strings.TrimSpace(address)
	t.Touch()
}

// Assign hands the task to a volunteer. Only open tasks can be assigned
// and a task can never be assigned to its own owner.
func (t *Task) Assign(volunteerID uuid.UUID) error {
	if volunteerID == t.postedBy {
		return sharedDomain.NewError(sharedDomain.KindInvalidOperation, "task cannot be assigned to its owner")
	}
	if t.status != StatusOpen {
		return sharedDomain.NewError(sharedDomain.KindInvalidOperation, "task is not open for assignment")
	}

	v := volunteerID
	t.assignedVolunteer = &v
	t.status = StatusAssigned
	t.Touch()

	t.AddDomainEvent(NewTaskAssigned(t.ID(), volunteerID))

	return nil
}

// Start marks an assigned task as in progress.
func (t *Task) Start() error {
	if t.status != StatusAssigned {
		return sharedDomain.NewError(sharedDomain.KindInvalidOperation, "only assigned tasks can be started")
	}

	t.status = StatusInProgress
	t.Touch()

	t.AddDomainEvent(NewTaskStarted(t.ID(), *t.assignedVolunteer))

	return nil
}

// Complete marks the task as done. Allowed from assigned and in_progress.
func (t *Task) Complete() error {
	if t.status != StatusAssigned && t.status != StatusInProgress {
		return sharedDomain.NewError(sharedDomain.KindInvalidOperation, "only assigned or in-progress tasks can be completed")
	}

	t.status = StatusCompleted
	t.Touch()

	t.AddDomainEvent(NewTaskCompleted(t.ID(), *t.assignedVolunteer))

	return nil
}

// Unassign clears the assignee and reopens the task. Allowed from
// assigned and in_progress.
func (t *Task) Unassign() error {
	if t.status != StatusAssigned && t.status != StatusInProgress {
		return sharedDomain.NewError(sharedDomain.KindInvalidOperation, "task has no assignment to remove")
	}

	volunteerID := *t.assignedVolunteer
	t.assignedVolunteer = nil
	t.status = StatusOpen
	t.Touch()

	t.AddDomainEvent(NewTaskUnassigned(t.ID(), volunteerID))

	return nil
}

// Cancel withdraws the task. Allowed from any non-terminal state and
// clears the assignee to preserve the assignment invariant.
func (t *Task) Cancel() error {
	if t.status.IsTerminal() {
		return sharedDomain.NewError(sharedDomain.KindInvalidOperation, "task is already "+t.status.String())
	}

	t.assignedVolunteer = nil
	t.status = StatusCancelled
	t.Touch()

	t.AddDomainEvent(NewTaskCancelled(t.ID()))

	return nil
}
