package task

import (
	"strings"

	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
)

// Status represents the task lifecycle state.
type Status int

const (
	StatusOpen Status = iota
	StatusAssigned
	StatusInProgress
	StatusCompleted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusAssigned:
		return "assigned"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal returns true for states with no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseStatus converts a string to a Status.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "open":
		return StatusOpen, nil
	case "assigned":
		return StatusAssigned, nil
	case "in_progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled":
		return StatusCancelled, nil
	default:
		return StatusOpen, sharedDomain.NewError(sharedDomain.KindInvalidOperation, "invalid task status: "+value)
	}
}

// Priority represents the urgency tier assigned by the task owner.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// ParsePriority converts a string to a Priority.
func ParsePriority(value string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return PriorityLow, sharedDomain.NewError(sharedDomain.KindInvalidOperation, "invalid task priority: "+value)
	}
}

// Category classifies the kind of help requested.
type Category int

const (
	CategoryErrands Category = iota
	CategoryHousehold
	CategoryTransport
	CategoryTutoring
	CategoryTechnology
	CategoryGardening
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategoryErrands:
		return "errands"
	case CategoryHousehold:
		return "household"
	case CategoryTransport:
		return "transport"
	case CategoryTutoring:
		return "tutoring"
	case CategoryTechnology:
		return "technology"
	case CategoryGardening:
		return "gardening"
	case CategoryOther:
		return "other"
	default:
		return "unknown"
	}
}

// ParseCategory converts a string to a Category.
func ParseCategory(value string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "errands":
		return CategoryErrands, nil
	case "household":
		return CategoryHousehold, nil
	case "transport":
		return CategoryTransport, nil
	case "tutoring":
		return CategoryTutoring, nil
	case "technology":
		return CategoryTechnology, nil
	case "gardening":
		return CategoryGardening, nil
	case "other":
		return CategoryOther, nil
	default:
		return CategoryOther, sharedDomain.NewError(sharedDomain.KindInvalidOperation, "invalid task category: "+value)
	}
}
