package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityApplication "github.com/helpmatch/helpmatch/internal/identity/application"
	identityDomain "github.com/helpmatch/helpmatch/internal/identity/domain"
	inviteCommands "github.com/helpmatch/helpmatch/internal/invites/application/commands"
	inviteQueries "github.com/helpmatch/helpmatch/internal/invites/application/queries"
	"github.com/helpmatch/helpmatch/internal/invites/domain/invite"
	matchingApplication "github.com/helpmatch/helpmatch/internal/matching/application"
	"github.com/helpmatch/helpmatch/internal/matching/domain/scoring"
	sharedDomain "github.com/helpmatch/helpmatch/internal/shared/domain"
	"github.com/helpmatch/helpmatch/internal/shared/infrastructure/outbox"
	taskCommands "github.com/helpmatch/helpmatch/internal/tasks/application/commands"
	taskQueries "github.com/helpmatch/helpmatch/internal/tasks/application/queries"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// memUserRepo is an in-memory implementation of identityDomain.UserRepository.
type memUserRepo struct {
	users map[uuid.UUID]*identityDomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*identityDomain.User)}
}

func (m *memUserRepo) Save(ctx context.Context, u *identityDomain.User) error {
	m.users[u.ID()] = u
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*identityDomain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sharedDomain.NewError(sharedDomain.KindNotFound, "user not found")
	}
	return u, nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email identityDomain.Email) (*identityDomain.User, error) {
	for _, u := range m.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, sharedDomain.NewError(sharedDomain.KindNotFound, "user not found")
}

func (m *memUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identityDomain.User, error) {
	var out []*identityDomain.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUserRepo) ExistsByEmail(ctx context.Context, email identityDomain.Email) (bool, error) {
	for _, u := range m.users {
		if u.Email() == email {
			return true, nil
		}
	}
	return false, nil
}

// memTaskRepo is an in-memory implementation of task.Repository.
type memTaskRepo struct {
	tasks map[uuid.UUID]*task.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[uuid.UUID]*task.Task)}
}

func (m *memTaskRepo) Save(ctx context.Context, t *task.Task) error {
	m.tasks[t.ID()] = t
	return nil
}

func (m *memTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, sharedDomain.NewError(sharedDomain.KindNotFound, "task not found")
	}
	return t, nil
}

func (m *memTaskRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*task.Task, error) {
	var out []*task.Task
	for _, id := range ids {
		if t, ok := m.tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTaskRepo) FindOpenForVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*task.Task, error) {
	var out []*task.Task
	for _, t := range m.tasks {
		if t.Status() == task.StatusOpen && t.PostedBy() != volunteerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTaskRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*task.Task, error) {
	var out []*task.Task
	for _, t := range m.tasks {
		if t.PostedBy() == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTaskRepo) FindByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*task.Task, error) {
	var out []*task.Task
	for _, t := range m.tasks {
		if v := t.AssignedVolunteer(); v != nil && *v == volunteerID {
			out = append(out, t)
		}
	}
	return out, nil
}

// memInviteRepo is an in-memory implementation of invite.Repository.
// Resolution is tracked separately from the aggregate so the
// single-shot guarantee holds even though pointers are shared.
type memInviteRepo struct {
	invites  map[uuid.UUID]*invite.Invite
	resolved map[uuid.UUID]bool
}

func newMemInviteRepo() *memInviteRepo {
	return &memInviteRepo{
		invites:  make(map[uuid.UUID]*invite.Invite),
		resolved: make(map[uuid.UUID]bool),
	}
}

func (m *memInviteRepo) Create(ctx context.Context, inv *invite.Invite) error {
	for id, existing := range m.invites {
		if existing.TaskID() == inv.TaskID() && existing.SenderID() == inv.SenderID() {
			if !m.resolved[id] || existing.Status() == invite.StatusAccepted {
				return sharedDomain.NewError(sharedDomain.KindConflict, "an active invite already exists for this task")
			}
		}
	}
	m.invites[inv.ID()] = inv
	return nil
}

func (m *memInviteRepo) FindByID(ctx context.Context, id uuid.UUID) (*invite.Invite, error) {
	inv, ok := m.invites[id]
	if !ok {
		return nil, sharedDomain.NewError(sharedDomain.KindNotFound, "invite not found")
	}
	return inv, nil
}

func (m *memInviteRepo) FindIncoming(ctx context.Context, receiverID uuid.UUID) ([]*invite.Invite, error) {
	var out []*invite.Invite
	for id, inv := range m.invites {
		if inv.ReceiverID() == receiverID && !m.resolved[id] {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memInviteRepo) FindBySender(ctx context.Context, senderID uuid.UUID) ([]*invite.Invite, error) {
	var out []*invite.Invite
	for _, inv := range m.invites {
		if inv.SenderID() == senderID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memInviteRepo) HasActiveInvite(ctx context.Context, taskID, senderID uuid.UUID) (bool, error) {
	for id, inv := range m.invites {
		if inv.TaskID() == taskID && inv.SenderID() == senderID {
			if !m.resolved[id] || inv.Status() == invite.StatusAccepted {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *memInviteRepo) Resolve(ctx context.Context, inv *invite.Invite) error {
	if m.resolved[inv.ID()] {
		return sharedDomain.NewError(sharedDomain.KindInvalidOperation, "invite is already resolved")
	}
	m.resolved[inv.ID()] = true
	return nil
}

// memOutboxRepo collects outbox messages.
type memOutboxRepo struct {
	messages []*outbox.Message
}

func (m *memOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	m.messages = append(m.messages, msg)
	return nil
}

func (m *memOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *memOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	return nil, nil
}

func (m *memOutboxRepo) MarkPublished(ctx context.Context, id int64) error { return nil }

func (m *memOutboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	return nil
}

func (m *memOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error { return nil }

func (m *memOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	return 0, nil
}

// nopUnitOfWork runs everything on the original context.
type nopUnitOfWork struct{}

func (nopUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (nopUnitOfWork) Commit(ctx context.Context) error                   { return nil }
func (nopUnitOfWork) Rollback(ctx context.Context) error                 { return nil }

func setupTestServer(t *testing.T) (*Server, *memUserRepo, *memTaskRepo, *memInviteRepo) {
	t.Helper()

	userRepo := newMemUserRepo()
	taskRepo := newMemTaskRepo()
	inviteRepo := newMemInviteRepo()
	outboxRepo := &memOutboxRepo{}
	uow := nopUnitOfWork{}

	userService := identityApplication.NewUserService(userRepo, outboxRepo, uow)

	scorer := scoring.SimilarityScorerFunc(func(context.Context, []string, string, string) (float64, error) {
		return 0.5, nil
	})
	engine := matchingApplication.NewRankingEngine(scorer, 4, nil)

	userHandler := NewUserHandler(userService, nil)
	taskHandler := NewTaskHandler(TaskHandlerConfig{
		CreateTask:    taskCommands.NewCreateTaskHandler(taskRepo, outboxRepo, uow),
		StartTask:     taskCommands.NewStartTaskHandler(taskRepo, outboxRepo, uow),
		CompleteTask:  taskCommands.NewCompleteTaskHandler(taskRepo, outboxRepo, uow),
		CancelTask:    taskCommands.NewCancelTaskHandler(taskRepo, outboxRepo, uow),
		UnassignTask:  taskCommands.NewUnassignTaskHandler(taskRepo, outboxRepo, uow),
		GetTask:       taskQueries.NewGetTaskHandler(taskRepo),
		ListMyTasks:   taskQueries.NewListMyTasksHandler(taskRepo),
		RelevantTasks: matchingApplication.NewListRelevantTasksHandler(userRepo, taskRepo, engine),
	})
	inviteHandler := NewInviteHandler(
		inviteCommands.NewSendInviteHandler(inviteRepo, taskRepo, outboxRepo, uow),
		inviteCommands.NewRespondInviteHandler(inviteRepo, taskRepo, outboxRepo, uow),
		inviteQueries.NewListIncomingInvitesHandler(inviteRepo, userRepo, taskRepo),
		nil,
	)

	server := NewServer(DefaultServerConfig(), userHandler, taskHandler, inviteHandler, nil)
	return server, userRepo, taskRepo, inviteRepo
}

func doRequest(t *testing.T, server *Server, method, path string, userID *uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if userID != nil {
		req.Header.Set("X-User-ID", userID.String())
	}
	rec := httptest.NewRecorder()

	server.mux.ServeHTTP(rec, req)
	return rec
}

func registerTestUser(t *testing.T, server *Server, email, name string) uuid.UUID {
	t.Helper()

	rec := doRequest(t, server, http.MethodPost, "/api/v1/users", nil, map[string]string{
		"email": email,
		"name":  name,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return uuid.MustParse(resp.ID)
}

func createTestTask(t *testing.T, server *Server, ownerID uuid.UUID, title string) uuid.UUID {
	t.Helper()

	rec := doRequest(t, server, http.MethodPost, "/api/v1/tasks", &ownerID, map[string]any{
		"title":    title,
		"category": "household",
		"priority": "medium",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return uuid.MustParse(resp["id"])
}

func TestServer_Health(t *testing.T) {
	server, _, _, _ := setupTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "healthy", result["status"])
}

func TestServer_Unauthorized(t *testing.T) {
	server, _, _, _ := setupTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodPost, "/api/v1/tasks"},
		{http.MethodGet, "/api/v1/tasks/relevant"},
		{http.MethodGet, "/api/v1/tasks/mine"},
		{http.MethodPost, "/api/v1/invites"},
		{http.MethodGet, "/api/v1/invites/incoming"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := doRequest(t, server, route.method, route.path, nil, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestServer_TaskLifecycle(t *testing.T) {
	server, _, _, _ := setupTestServer(t)

	ownerID := registerTestUser(t, server, "owner@example.com", "Owner")
	strangerID := registerTestUser(t, server, "stranger@example.com", "Stranger")
	taskID := createTestTask(t, server, ownerID, "Help moving boxes")

	t.Run("get existing task", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/v1/tasks/"+taskID.String(), &ownerID, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp taskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Help moving boxes", resp.Title)
		assert.Equal(t, "open", resp.Status)
	})

	t.Run("get unknown task returns 404", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/v1/tasks/"+uuid.NewString(), &ownerID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("start while still open returns 400", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/tasks/"+taskID.String()+"/start", &ownerID, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cancel by stranger returns 403", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/tasks/"+taskID.String()+"/cancel", &strangerID, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestServer_InviteFlow(t *testing.T) {
	server, _, taskRepo, _ := setupTestServer(t)

	ownerID := registerTestUser(t, server, "owner@example.com", "Owner")
	volunteerID := registerTestUser(t, server, "volunteer@example.com", "Volunteer")
	taskID := createTestTask(t, server, ownerID, "Weeding help")

	var inviteID uuid.UUID

	t.Run("volunteer sends invite", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/invites", &volunteerID, map[string]string{
			"task_id": taskID.String(),
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp inviteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, ownerID.String(), resp.ReceiverID)
		inviteID = uuid.MustParse(resp.ID)
	})

	t.Run("duplicate invite returns 409", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/invites", &volunteerID, map[string]string{
			"task_id": taskID.String(),
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("owner cannot invite on own task", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/invites", &ownerID, map[string]string{
			"task_id": taskID.String(),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("owner sees incoming invite with sender and task title", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/v1/invites/incoming", &ownerID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Invites []incomingInviteResponse `json:"invites"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Invites, 1)
		require.NotNil(t, resp.Invites[0].Sender)
		assert.Equal(t, "Volunteer", resp.Invites[0].Sender.Name)
		assert.Equal(t, "Weeding help", resp.Invites[0].TaskTitle)
	})

	t.Run("volunteer cannot respond", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/invites/"+inviteID.String()+"/respond", &volunteerID, map[string]string{
			"decision": "accepted",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner accepts and task is assigned", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/invites/"+inviteID.String()+"/respond", &ownerID, map[string]string{
			"decision": "accepted",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp respondInviteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "accepted", resp.Invite.Status)
		require.NotNil(t, resp.Task)
		assert.Equal(t, "assigned", resp.Task.Status)

		stored, err := taskRepo.FindByID(context.Background(), taskID)
		require.NoError(t, err)
		assert.Equal(t, task.StatusAssigned, stored.Status())
	})

	t.Run("second response returns 400", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/invites/"+inviteID.String()+"/respond", &ownerID, map[string]string{
			"decision": "rejected",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_RelevantTasks(t *testing.T) {
	server, _, _, _ := setupTestServer(t)

	ownerID := registerTestUser(t, server, "owner@example.com", "Owner")
	volunteerID := registerTestUser(t, server, "volunteer@example.com", "Volunteer")
	createTestTask(t, server, ownerID, "Weeding help")
	createTestTask(t, server, ownerID, "Grocery run")

	rec := doRequest(t, server, http.MethodGet, "/api/v1/tasks/relevant", &volunteerID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tasks []relevantTaskResponse `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Tasks, 2)

	for _, entry := range resp.Tasks {
		assert.Greater(t, entry.Score, 0.0)
		assert.Equal(t, 0.5, entry.Similarity)
		require.NotNil(t, entry.Owner)
		assert.Equal(t, "Owner", entry.Owner.Name)
		assert.Nil(t, entry.DistanceKm)
	}

	// Owner's own postings never show up in their recommendations.
	recOwner := doRequest(t, server, http.MethodGet, "/api/v1/tasks/relevant", &ownerID, nil)
	require.Equal(t, http.StatusOK, recOwner.Code)

	var ownerResp struct {
		Tasks []relevantTaskResponse `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(recOwner.Body.Bytes(), &ownerResp))
	assert.Empty(t, ownerResp.Tasks)
}
