// Package scoring contains the pure signal-weight functions used to
// rank candidate tasks for a volunteer.
package scoring

import (
	"math"
	"time"

	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// UnknownDistance marks a candidate where either party has no
// coordinate. It is reported as-is rather than coerced to a finite
// number that could be misread as "very close".
var UnknownDistance = math.Inf(1)

// Signal weights are coarse step functions rather than continuous
// decay curves. The bands keep any single structural signal from
// dominating a well-matched semantic score.
const (
	priorityHighWeight   = 0.20
	priorityMediumWeight = 0.10
	priorityLowWeight    = 0.05

	urgencyWeight = 0.25

	deadlineImminentWeight = 0.25 // within 24h
	deadlineSoonWeight     = 0.15 // within 72h
	deadlineFarWeight      = 0.05

	locationNearWeight   = 0.25 // within 5km
	locationMediumWeight = 0.15 // within 15km
	locationFarWeight    = 0.05 // within 30km
)

// PriorityWeight converts the owner-assigned priority tier into a
// score contribution.
func PriorityWeight(p task.Priority) float64 {
	switch p {
	case task.PriorityHigh:
		return priorityHighWeight
	case task.PriorityMedium:
		return priorityMediumWeight
	default:
		return priorityLowWeight
	}
}

// UrgencyWeight converts the urgency flag into a score contribution.
func UrgencyWeight(urgent bool) float64 {
	if urgent {
		return urgencyWeight
	}
	return 0
}

// DeadlineWeight converts deadline proximity, measured as deadline
// minus now, into a score contribution. Tasks without a deadline fall
// into the far band.
func DeadlineWeight(deadline *time.Time, now time.Time) float64 {
	if deadline == nil {
		return deadlineFarWeight
	}
	remaining := deadline.Sub(now)
	switch {
	case remaining <= 24*time.Hour:
		return deadlineImminentWeight
	case remaining <= 72*time.Hour:
		return deadlineSoonWeight
	default:
		return deadlineFarWeight
	}
}

// LocationWeight converts the distance between volunteer and task into
// a score contribution. An unknown (non-finite) distance contributes
// nothing.
func LocationWeight(distanceKm float64) float64 {
	if math.IsInf(distanceKm, 0) || math.IsNaN(distanceKm) {
		return 0
	}
	switch {
	case distanceKm <= 5:
		return locationNearWeight
	case distanceKm <= 15:
		return locationMediumWeight
	case distanceKm <= 30:
		return locationFarWeight
	default:
		return 0
	}
}
