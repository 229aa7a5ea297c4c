package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rjcompany/nfmailer/pkg/logger"
	"github.com/rjcompany/nfmailer/pkg/mailer"
)

// Handler serves the send-email endpoint.
type Handler struct {
	sender mailer.Sender
	logger *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the handler logger.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler returns a handler delivering through sender.
// Pass a *mailer.Mailer to get recipient validation and body defaults.
func NewHandler(sender mailer.Sender, opts ...HandlerOption) *Handler {
	h := &Handler{sender: sender, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, Response{Error: "method not allowed"})
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	id, err := h.sender.Send(r.Context(), &mailer.Email{
		To:          []string{req.To},
		Subject:     req.Subject,
		Text:        req.Text,
		HTML:        req.HTML,
		Attachments: req.Attachments,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "send-email failed",
			slog.String("to", req.To),
			slog.Int("attachments", len(req.Attachments)),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, Response{Error: Reason(err)})
		return
	}

	h.logger.InfoContext(r.Context(), "send-email delivered",
		slog.String("to", req.To),
		slog.String("message_id", id),
	)
	writeJSON(w, http.StatusOK, Response{Success: true, MessageID: id})
}

// Reason strips the generic send wrapper so the provider message is shown.
func Reason(err error) string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		errs := joined.Unwrap()
		if len(errs) > 1 && errors.Is(errs[0], mailer.ErrSendFailed) {
			return errs[len(errs)-1].Error()
		}
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
