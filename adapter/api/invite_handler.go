package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/helpmatch/helpmatch/internal/invites/application/commands"
	"github.com/helpmatch/helpmatch/internal/invites/application/queries"
	"github.com/helpmatch/helpmatch/internal/invites/domain/invite"
)

// InviteHandler handles invite endpoints.
type InviteHandler struct {
	sendInvite    *commands.SendInviteHandler
	respondInvite *commands.RespondInviteHandler
	listIncoming  *queries.ListIncomingInvitesHandler
	logger        *slog.Logger
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(send *commands.SendInviteHandler, respond *commands.RespondInviteHandler, incoming *queries.ListIncomingInvitesHandler, logger *slog.Logger) *InviteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InviteHandler{
		sendInvite:    send,
		respondInvite: respond,
		listIncoming:  incoming,
		logger:        logger,
	}
}

type sendInviteRequest struct {
	TaskID string `json:"task_id"`
}

// Send handles POST /api/v1/invites.
func (h *InviteHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	var req sendInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	result, err := h.sendInvite.Handle(r.Context(), commands.SendInviteCommand{
		TaskID:   taskID,
		SenderID: userID,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toInviteResponse(result.Invite))
}

// ListIncoming handles GET /api/v1/invites/incoming.
func (h *InviteHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	invites, err := h.listIncoming.Handle(r.Context(), userID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	out := make([]incomingInviteResponse, 0, len(invites))
	for _, entry := range invites {
		out = append(out, toIncomingInviteResponse(entry))
	}
	writeJSON(w, http.StatusOK, map[string]any{"invites": out})
}

type respondInviteRequest struct {
	Decision string `json:"decision"`
}

type respondInviteResponse struct {
	Invite inviteResponse `json:"invite"`
	Task   *taskResponse  `json:"task,omitempty"`
}

// Respond handles POST /api/v1/invites/{inviteID}/respond.
func (h *InviteHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	inviteID, err := uuid.Parse(r.PathValue("inviteID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invite ID")
		return
	}

	var req respondInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	decision, err := invite.ParseDecision(req.Decision)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	result, err := h.respondInvite.Handle(r.Context(), commands.RespondInviteCommand{
		InviteID: inviteID,
		UserID:   userID,
		Decision: decision,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	resp := respondInviteResponse{Invite: toInviteResponse(result.Invite)}
	if result.Task != nil {
		t := toTaskResponse(result.Task)
		resp.Task = &t
	}
	writeJSON(w, http.StatusOK, resp)
}
