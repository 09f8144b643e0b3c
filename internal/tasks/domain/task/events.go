package task

import (
	"github.com/google/uuid"

	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
)

// AggregateType identifies the task aggregate in events and the outbox.
const AggregateType = "task"

// Routing keys for task events.
const (
	RoutingKeyTaskCreated    = "community.task.created"
	RoutingKeyTaskAssigned   = "community.task.assigned"
	RoutingKeyTaskStarted    = "community.task.started"
	RoutingKeyTaskCompleted  = "community.task.completed"
	RoutingKeyTaskUnassigned = "community.task.unassigned"
	RoutingKeyTaskCancelled  = "community.task.cancelled"
)

// TaskCreated is emitted when a new task is posted.
type TaskCreated struct {
	sharedDomain.BaseEvent
	TaskID   uuid.UUID `json:"task_id"`
	PostedBy uuid.UUID `json:"posted_by"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Priority string    `json:"priority"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(taskID, postedBy uuid.UUID, title, category, priority string) *TaskCreated {
	return &TaskCreated{
		BaseEvent: sharedDomain.NewBaseEvent(taskID, AggregateType, RoutingKeyTaskCreated),
		TaskID:    taskID,
		PostedBy:  postedBy,
		Title:     title,
		Category:  category,
		Priority:  priority,
	}
}

// TaskAssigned is emitted when a volunteer is assigned to a task.
type TaskAssigned struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID `json:"task_id"`
	VolunteerID uuid.UUID `json:"volunteer_id"`
}

// NewTaskAssigned creates a TaskAssigned event.
func NewTaskAssigned(taskID, volunteerID uuid.UUID) *TaskAssigned {
	return &TaskAssigned{
		BaseEvent:   sharedDomain.NewBaseEvent(taskID, AggregateType, RoutingKeyTaskAssigned),
		TaskID:      taskID,
		VolunteerID: volunteerID,
	}
}

// TaskStarted is emitted when work on a task begins.
type TaskStarted struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID `json:"task_id"`
	VolunteerID uuid.UUID `json:"volunteer_id"`
}

// NewTaskStarted creates a TaskStarted event.
func NewTaskStarted(taskID, volunteerID uuid.UUID) *TaskStarted {
	return &TaskStarted{
		BaseEvent:   sharedDomain.NewBaseEvent(taskID, AggregateType, RoutingKeyTaskStarted),
		TaskID:      taskID,
		VolunteerID: volunteerID,
	}
}

// TaskCompleted is emitted when a task is finished.
type TaskCompleted struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID `json:"task_id"`
	VolunteerID uuid.UUID `json:"volunteer_id"`
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(taskID, volunteerID uuid.UUID) *TaskCompleted {
	return &TaskCompleted{
		BaseEvent:   sharedDomain.NewBaseEvent(taskID, AggregateType, RoutingKeyTaskCompleted),
		TaskID:      taskID,
		VolunteerID: volunteerID,
	}
}

// TaskUnassigned is emitted when a task loses its assignee and reopens.
type TaskUnassigned struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID `json:"task_id"`
	VolunteerID uuid.UUID `json:"volunteer_id"`
}

// NewTaskUnassigned creates a TaskUnassigned event.
func NewTaskUnassigned(taskID, volunteerID uuid.UUID) *TaskUnassigned {
	return &TaskUnassigned{
		BaseEvent:   sharedDomain.NewBaseEvent(taskID, AggregateType, RoutingKeyTaskUnassigned),
		TaskID:      taskID,
		VolunteerID: volunteerID,
	}
}

// TaskCancelled is emitted when a task is withdrawn by its owner.
type TaskCancelled struct {
	sharedDomain.BaseEvent
	TaskID uuid.UUID `json:"task_id"`
}

// NewTaskCancelled creates a TaskCancelled event.
func NewTaskCancelled(taskID uuid.UUID) *TaskCancelled {
	return &TaskCancelled{
		BaseEvent: sharedDomain.NewBaseEvent(taskID, AggregateType, RoutingKeyTaskCancelled),
		TaskID:    taskID,
	}
}
