package task_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/domain/geo"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

func newOpenTask(t *testing.T, ownerID uuid.UUID) *task.Task {
	t.Helper()
	tsk, err := task.NewTask(ownerID, "Pick up groceries", "Weekly shopping run", task.CategoryErrands, task.PriorityMedium)
	require.NoError(t, err)
	return tsk
}

func TestNewTask(t *testing.T) {
	ownerID := uuid.New()

	tsk, err := task.NewTask(ownerID, "  Fix the fence  ", " Back garden ", task.CategoryHousehold, task.PriorityHigh)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tsk.ID())
	assert.Equal(t, "Fix the fence", tsk.Title())
	assert.Equal(t, "Back garden", tsk.Description())
	assert.Equal(t, task.CategoryHousehold, tsk.Category())
	assert.Equal(t, task.PriorityHigh, tsk.Priority())
	assert.Equal(t, task.StatusOpen, tsk.Status())
	assert.Equal(t, ownerID, tsk.PostedBy())
	assert.Nil(t, tsk.AssignedVolunteer())
}

func TestNewTask_EmitsCreatedEvent(t *testing.T) {
	tsk := newOpenTask(t, uuid.New())

	events := tsk.DomainEvents()
	require.Len(t, events, 1)

	created, ok := events[0].(*task.TaskCreated)
	require.True(t, ok)
	assert.Equal(t, tsk.ID(), created.AggregateID())
	assert.Equal(t, task.RoutingKeyTaskCreated, created.RoutingKey())
}

func TestNewTask_Invalid(t *testing.T) {
	t.Run("empty title", func(t *testing.T) {
		_, err := task.NewTask(uuid.New(), "   ", "", task.CategoryOther, task.PriorityLow)
		require.Error(t, err)
		assert.Equal(t, sharedDomain.KindInvalidOperation, sharedDomain.KindOf(err))
	})

	t.Run("missing owner", func(t *testing.T) {
		_, err := task.NewTask(uuid.Nil, "Title", "", task.CategoryOther, task.PriorityLow)
		require.Error(t, err)
		assert.Equal(t, sharedDomain.KindInvalidOperation, sharedDomain.KindOf(err))
	})
}

func TestTask_Assign(t *testing.T) {
	ownerID := uuid.New()
	volunteerID := uuid.New()
	tsk := newOpenTask(t, ownerID)

	err := tsk.Assign(volunteerID)

	require.NoError(t, err)
	assert.Equal(t, task.StatusAssigned, tsk.Status())
	require.NotNil(t, tsk.AssignedVolunteer())
	assert.Equal(t, volunteerID, *tsk.AssignedVolunteer())
}

func TestTask_Assign_ToOwner(t *testing.T) {
	ownerID := uuid.New()
	tsk := newOpenTask(t, ownerID)

	err := tsk.Assign(ownerID)

	require.Error(t, err)
	assert.Equal(t, sharedDomain.KindInvalidOperation, sharedDomain.KindOf(err))
	assert.Equal(t, task.StatusOpen, tsk.Status())
}

func TestTask_Assign_NotOpen(t *testing.T) {
	tsk := newOpenTask(t, uuid.New())
	require.NoError(t, tsk.Assign(uuid.New()))

	err := tsk.Assign(uuid.New())

	require.Error(t, err)
	assert.Equal(t, sharedDomain.KindInvalidOperation, sharedDomain.KindOf(err))
}

func TestTask_Start(t *testing.T) {
	tsk := newOpenTask(t, uuid.New())
	require.NoError(t, tsk.Assign(uuid.New()))

	err := tsk.Start()

	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, tsk.Status())
}

func TestTask_Start_FromOpen(t *testing.T) {
	tsk := newOpenTask(t, uuid.New())

	err := tsk.Start()

	require.Error(t, err)
	assert.Equal(t, sharedDomain.KindInvalidOperation, sharedDomain.KindOf(err))
}

func TestTask_Complete(t *testing.T) {
	t.Run("from assigned", func(t *testing.T) {
		tsk := newOpenTask(t, uuid.New())
		require.NoError(t, tsk.Assign(uuid.New()))

		require.NoError(t, tsk.Complete())
		assert.Equal(t, task.StatusCompleted, tsk.Status())
		assert.NotNil(t, tsk.AssignedVolunteer())
	})

	t.Run("from in progress", func(t *testing.T) {
		tsk := newOpenTask(t, uuid.New())
		require.NoError(t, tsk.Assign(uuid.New()))
		require.NoError(t, tsk.Start())

		require.NoError(t, tsk.Complete())
		assert.Equal(t, task.StatusCompleted, tsk.Status())
	})

	t.Run("from open", func(t *testing.T) {
		tsk := newOpenTask(t, uuid.New())

		err := tsk.Complete()
		require.Error(t, err)
		assert.Equal(t, sharedDomain.KindInvalidOperation, sharedDomain.KindOf(err))
	})
}

func TestTask_Unassign(t *testing.T) {
	tsk := newOpenTask(t, uuid.New())
	require.NoError(t, tsk.Assign(uuid.New()))

	err := tsk.Unassign()

	require.NoError(t, err)
	assert.Equal(t, task.StatusOpen, tsk.Status())
	assert.Nil(t, tsk.AssignedVolunteer())
}

func TestTask_Unassign_WithoutAssignment(t *testing.T) {
	tsk := newOpenTask(t, uuid.New())

	err := tsk.Unassign()

	require.Error(t, err)
	assert.Equal(t, sharedDomain.KindInvalidOperation, sharedDomain.KindOf(err))
}

func TestTask_Cancel(t *testing.T) {
	t.Run("clears assignee", func(t *testing.T) {
		tsk := newOpenTask(t, uuid.New())
		require.NoError(t, tsk.Assign(uuid.New()))

		require.NoError(t, tsk.Cancel())
		assert.Equal(t, task.StatusCancelled, tsk.Status())
		assert.Nil(t, tsk.AssignedVolunteer())
	})

	t.Run("from terminal state", func(t *testing.T) {
		tsk := newOpenTask(t, uuid.New())
		require.NoError(t, tsk.Assign(uuid.New()))
		require.NoError(t, tsk.Complete())

		err := tsk.Cancel()
		require.Error(t, err)
		assert.Equal(t, sharedDomain.KindInvalidOperation, sharedDomain.KindOf(err))
	})
}

func TestTask_LifecycleEvents(t *testing.T) {
	volunteerID := uuid.New()
	tsk := newOpenTask(t, uuid.New())

	require.NoError(t, tsk.Assign(volunteerID))
	require.NoError(t, tsk.Start())
	require.NoError(t, tsk.Complete())

	events := tsk.DomainEvents()
	require.Len(t, events, 4)
	assert.Equal(t, task.RoutingKeyTaskCreated, events[0].RoutingKey())
	assert.Equal(t, task.RoutingKeyTaskAssigned, events[1].RoutingKey())
	assert.Equal(t, task.RoutingKeyTaskStarted, events[2].RoutingKey())
	assert.Equal(t, task.RoutingKeyTaskCompleted, events[3].RoutingKey())
}

func TestTask_SetDetails(t *testing.T) {
	tsk := newOpenTask(t, uuid.New())
	deadline := time.Now().UTC().Add(48 * time.Hour)
	coord, err := geo.NewCoordinate(52.52, 13.405)
	require.NoError(t, err)

	tsk.SetUrgent(true)
	tsk.SetDeadline(&deadline)
	tsk.SetLocation(coord, " Prenzlauer Berg ")

	assert.True(t, tsk.Urgent())
	require.NotNil(t, tsk.Deadline())
	assert.True(t, tsk.Deadline().Equal(deadline))
	require.NotNil(t, tsk.Location())
	assert.Equal(t, 52.52, tsk.Location().Lat())
	assert.Equal(t, "Prenzlauer Berg", tsk.Address())
}

func TestParseStatus(t *testing.T) {
	status, err := task.ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, status)

	_, err = task.ParseStatus("bogus")
	require.Error(t, err)
}

func TestParsePriority(t *testing.T) {
	priority, err := task.ParsePriority("HIGH")
	require.NoError(t, err)
	assert.Equal(t, task.PriorityHigh, priority)

	_, err = task.ParsePriority("extreme")
	require.Error(t, err)
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, task.StatusOpen.IsTerminal())
	assert.False(t, task.StatusAssigned.IsTerminal())
	assert.False(t, task.StatusInProgress.IsTerminal())
	assert.True(t, task.StatusCompleted.IsTerminal())
	assert.True(t, task.StatusCancelled.IsTerminal())
}
