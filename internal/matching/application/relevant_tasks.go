package application

import (
	"context"

	"github.com/google/uuid"

	identityDomain "github.com/helpmatch/helpmatch/internal/identity/domain"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// RelevantTask is a ranked candidate enriched with owner display fields.
type RelevantTask struct {
	RankedTask
	Owner *identityDomain.User
}

// ListRelevantTasksHandler produces the ranked task recommendations
// for a volunteer.
type ListRelevantTasksHandler struct {
	userRepo identityDomain.UserRepository
	taskRepo task.Repository
	engine   *RankingEngine
}

// NewListRelevantTasksHandler creates a new ListRelevantTasksHandler.
func NewListRelevantTasksHandler(userRepo identityDomain.UserRepository, taskRepo task.Repository, engine *RankingEngine) *ListRelevantTasksHandler {
	return &ListRelevantTasksHandler{
		userRepo: userRepo,
		taskRepo: taskRepo,
		engine:   engine,
	}
}

// Handle ranks all open tasks not posted by the volunteer and joins
// each with its owner's profile for display.
func (h *ListRelevantTasksHandler) Handle(ctx context.Context, volunteerID uuid.UUID) ([]RelevantTask, error) {
	volunteer, err := h.userRepo.FindByID(ctx, volunteerID)
	if err != nil {
		return nil, err
	}

	candidates, err := h.taskRepo.FindOpenForVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, err
	}

	ranked, err := h.engine.Rank(ctx, volunteer, candidates)
	if err != nil {
		return nil, err
	}

	owners, err := h.loadOwners(ctx, ranked)
	if err != nil {
		return nil, err
	}

	result := make([]RelevantTask, 0, len(ranked))
	for _, entry := range ranked {
		result = append(result, RelevantTask{
			RankedTask: entry,
			Owner:      owners[entry.Task.PostedBy()],
		})
	}
	return result, nil
}

func (h *ListRelevantTasksHandler) loadOwners(ctx context.Context, ranked []RankedTask) (map[uuid.UUID]*identityDomain.User, error) {
	seen := make(map[uuid.UUID]struct{}, len(ranked))
	ids := make([]uuid.UUID, 0, len(ranked))
	for _, entry := range ranked {
		ownerID := entry.Task.PostedBy()
		if _, ok := seen[ownerID]; ok {
			continue
		}
		seen[ownerID] = struct{}{}
		ids = append(ids, ownerID)
	}

	users, err := h.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	owners := make(map[uuid.UUID]*identityDomain.User, len(users))
	for _, u := range users {
		owners[u.ID()] = u
	}
	return owners, nil
}
