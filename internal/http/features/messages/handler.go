package messages

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/tendant/org-messages/internal/httputil"
	"github.com/tendant/org-messages/pkg/domain"
	"github.com/tendant/org-messages/pkg/message"
)

// Service is the message logic consumed by the handler.
type Service interface {
	GetMessage(ctx context.Context, organizationID, id uuid.UUID) (*domain.Message, error)
	GetAllMessages(ctx context.Context, organizationID uuid.UUID) ([]*domain.Message, error)
	CreateMessage(ctx context.Context, organizationID uuid.UUID, req message.CreateMessageRequest) (message.Result, error)
	UpdateMessage(ctx context.Context, organizationID, id uuid.UUID, req message.UpdateMessageRequest) (message.Result, error)
	DeleteMessage(ctx context.Context, organizationID, id uuid.UUID) (message.Result, error)
}

// DefaultBasePath is where the organization routes are mounted by the server.
const DefaultBasePath = "/api/v1/organizations"

// Handler handles organization message endpoints.
type Handler struct {
	logger   *slog.Logger
	service  Service
	basePath string
}

// NewHandler creates a new messages handler. basePath is the path the
// /{organizationId}/messages routes are mounted under and is used to build
// Location headers; empty means DefaultBasePath.
func NewHandler(logger *slog.Logger, service Service, basePath string) *Handler {
	if basePath == "" {
		basePath = DefaultBasePath
	}
	return &Handler{
		logger:   logger,
		service:  service,
		basePath: strings.TrimSuffix(basePath, "/"),
	}
}

// GetAll lists the organization's messages.
// GET /api/v1/organizations/{organizationId}/messages
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	orgID, ok := parseID(w, r, "organizationId")
	if !ok {
		return
	}

	msgs, err := h.service.GetAllMessages(r.Context(), orgID)
	if err != nil {
		h.internalError(w, r, "failed to list messages", err, "organization_id", orgID)
		return
	}

	httputil.JSON(w, http.StatusOK, msgs)
}

// GetByID returns a single message.
// GET /api/v1/organizations/{organizationId}/messages/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	orgID, ok := parseID(w, r, "organizationId")
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	msg, err := h.service.GetMessage(r.Context(), orgID, id)
	if err != nil {
		h.internalError(w, r, "failed to get message", err, "organization_id", orgID, "message_id", id)
		return
	}
	if msg == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	httputil.JSON(w, http.StatusOK, msg)
}

// Create creates a message.
// POST /api/v1/organizations/{organizationId}/messages
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := parseID(w, r, "organizationId")
	if !ok {
		return
	}

	var req message.CreateMessageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}

	result, err := h.service.CreateMessage(r.Context(), orgID, req)
	if err != nil {
		h.internalError(w, r, "failed to create message", err, "organization_id", orgID)
		return
	}

	if created, ok := result.(message.Created); ok {
		h.logger.Info("message created", "organization_id", orgID, "message_id", created.Value.ID)
	}
	h.writeResult(w, r, orgID, result)
}

// Update replaces a message's title, content and active state.
// PUT /api/v1/organizations/{organizationId}/messages/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := parseID(w, r, "organizationId")
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req message.UpdateMessageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}

	result, err := h.service.UpdateMessage(r.Context(), orgID, id, req)
	if err != nil {
		h.internalError(w, r, "failed to update message", err, "organization_id", orgID, "message_id", id)
		return
	}

	h.writeResult(w, r, orgID, result)
}

// Delete removes a message.
// DELETE /api/v1/organizations/{organizationId}/messages/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, ok := parseID(w, r, "organizationId")
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.service.DeleteMessage(r.Context(), orgID, id)
	if err != nil {
		h.internalError(w, r, "failed to delete message", err, "organization_id", orgID, "message_id", id)
		return
	}

	h.writeResult(w, r, orgID, result)
}

// writeResult maps a logic result onto the HTTP response.
func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, orgID uuid.UUID, result message.Result) {
	switch res := result.(type) {
	case message.Created:
		w.Header().Set("Location", MessagePath(h.basePath, orgID, res.Value.ID))
		httputil.JSON(w, http.StatusCreated, res.Value)
	case message.Updated, message.Deleted:
		httputil.NoContent(w)
	case message.NotFound:
		httputil.Error(w, http.StatusNotFound, res.Message)
	case message.Conflict:
		httputil.Error(w, http.StatusConflict, res.Message)
	case message.ValidationError:
		httputil.JSON(w, http.StatusBadRequest, res.Errors)
	default:
		h.internalError(w, r, "unhandled message result", fmt.Errorf("unexpected result %T", result))
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err, "request_id", chimiddleware.GetReqID(r.Context()))
	h.logger.Error(msg, attrs...)
	httputil.Error(w, http.StatusInternalServerError, "internal server error")
}

// MessagePath returns the URL path of a message under basePath.
func MessagePath(basePath string, orgID, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s/messages/%s", basePath, orgID, id)
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.JSON(w, http.StatusBadRequest, map[string][]string{
			param: {fmt.Sprintf("'%s' is not a valid identifier.", raw)},
		})
		return uuid.Nil, false
	}
	return id, true
}
