package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	matchingApplication "github.com/helpmatch/helpmatch/internal/matching/application"
	"github.com/helpmatch/helpmatch/internal/tasks/application/commands"
	"github.com/helpmatch/helpmatch/internal/tasks/application/queries"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

// TaskHandlerConfig wires the task endpoints to their use cases.
type TaskHandlerConfig struct {
	CreateTask    *commands.CreateTaskHandler
	StartTask     *commands.StartTaskHandler
	CompleteTask  *commands.CompleteTaskHandler
	CancelTask    *commands.CancelTaskHandler
	UnassignTask  *commands.UnassignTaskHandler
	GetTask       *queries.GetTaskHandler
	ListMyTasks   *queries.ListMyTasksHandler
	RelevantTasks *matchingApplication.ListRelevantTasksHandler
	Logger        *slog.Logger
}

// TaskHandler handles task endpoints.
type TaskHandler struct {
	createTask    *commands.CreateTaskHandler
	startTask     *commands.StartTaskHandler
	completeTask  *commands.CompleteTaskHandler
	cancelTask    *commands.CancelTaskHandler
	unassignTask  *commands.UnassignTaskHandler
	getTask       *queries.GetTaskHandler
	listMyTasks   *queries.ListMyTasksHandler
	relevantTasks *matchingApplication.ListRelevantTasksHandler
	logger        *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(cfg TaskHandlerConfig) *TaskHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		createTask:    cfg.CreateTask,
		startTask:     cfg.StartTask,
		completeTask:  cfg.CompleteTask,
		cancelTask:    cfg.CancelTask,
		unassignTask:  cfg.UnassignTask,
		getTask:       cfg.GetTask,
		listMyTasks:   cfg.ListMyTasks,
		relevantTasks: cfg.RelevantTasks,
		logger:        logger,
	}
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Urgent      bool       `json:"urgent"`
	Deadline    *time.Time `json:"deadline"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	Address     string     `json:"address"`
}

// Create handles POST /api/v1/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.createTask.Handle(r.Context(), commands.CreateTaskCommand{
		PostedBy:    userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Urgent:      req.Urgent,
		Deadline:    req.Deadline,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": result.TaskID.String()})
}

// Get handles GET /api/v1/tasks/{taskID}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	t, err := h.getTask.Handle(r.Context(), taskID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

// ListRelevant handles GET /api/v1/tasks/relevant.
func (h *TaskHandler) ListRelevant(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	ranked, err := h.relevantTasks.Handle(r.Context(), userID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	out := make([]relevantTaskResponse, 0, len(ranked))
	for _, entry := range ranked {
		out = append(out, toRelevantTaskResponse(entry))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

// ListMine handles GET /api/v1/tasks/mine.
func (h *TaskHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	mine, err := h.listMyTasks.Handle(r.Context(), userID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, myTasksResponse{
		Posted:       toTaskResponses(mine.Posted),
		Volunteering: toTaskResponses(mine.Volunteering),
	})
}

// Start handles POST /api/v1/tasks/{taskID}/start.
func (h *TaskHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(taskID, userID uuid.UUID) (*task.Task, error) {
		return h.startTask.Handle(r.Context(), commands.StartTaskCommand{TaskID: taskID, UserID: userID})
	})
}

// Complete handles POST /api/v1/tasks/{taskID}/complete.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(taskID, userID uuid.UUID) (*task.Task, error) {
		return h.completeTask.Handle(r.Context(), commands.CompleteTaskCommand{TaskID: taskID, UserID: userID})
	})
}

// Cancel handles POST /api/v1/tasks/{taskID}/cancel.
func (h *TaskHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(taskID, userID uuid.UUID) (*task.Task, error) {
		return h.cancelTask.Handle(r.Context(), commands.CancelTaskCommand{TaskID: taskID, UserID: userID})
	})
}

// Unassign handles POST /api/v1/tasks/{taskID}/unassign.
func (h *TaskHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(taskID, userID uuid.UUID) (*task.Task, error) {
		return h.unassignTask.Handle(r.Context(), commands.UnassignTaskCommand{TaskID: taskID, UserID: userID})
	})
}

func (h *TaskHandler) lifecycle(w http.ResponseWriter, r *http.Request, run func(taskID, userID uuid.UUID) (*task.Task, error)) {
	userID, err := callerID(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	t, err := run(taskID, userID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(t))
}
