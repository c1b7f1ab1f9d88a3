package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/service"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/httputil"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/validator"
)

// MessageHandler handles the public contact form.
type MessageHandler struct {
	service *service.MessageService
	logger  *slog.Logger
}

// NewMessageHandler creates a new message HTTP handler.
func NewMessageHandler(svc *service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		service: svc,
		logger:  logger,
	}
}

// ContactRequest is the JSON request body for the contact form.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,in_phone"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

// Submit handles POST /api/v1/contact
func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	msg, err := h.service.Submit(r.Context(), service.SubmitInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Body:  req.Message,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: msg})
}
