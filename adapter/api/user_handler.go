package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	identityApplication "github.com/helpmatch/helpmatch/internal/identity/application"
)

// UserHandler handles user registration and profile endpoints.
type UserHandler struct {
	users  *identityApplication.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *identityApplication.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{users: users, logger: logger}
}

type registerUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Register handles POST /api/v1/users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.users.Register(r.Context(), identityApplication.RegisterUserInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// GetMe handles GET /api/v1/users/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

type updateProfileRequest struct {
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	Skills    []string `json:"skills"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdateProfile handles PUT /api/v1/users/me.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), userID, identityApplication.UpdateProfileInput{
		Name:      req.Name,
		Image:     req.Image,
		Skills:    req.Skills,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}
