package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taskledger/taskledger/internal/handler/dto"
	"github.com/taskledger/taskledger/internal/metrics"
	"github.com/taskledger/taskledger/internal/model"
)

// UserStore is the persistence the user routes need.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	store   UserStore
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store UserStore, recorder metrics.Recorder, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		store:   store,
		metrics: recorder,
		logger:  logger,
	}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		storeError(w, r, h.logger, h.metrics, "list_users", err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := req.ToModel()
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		storeError(w, r, h.logger, h.metrics, "create_user", err)
		return
	}

	h.metrics.IncUserCreated()
	h.logger.Info("user_created", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, user)
}
