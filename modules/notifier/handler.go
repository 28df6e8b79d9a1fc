package notifier

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventreport/backend/pkg/httpx"
	"github.com/eventreport/backend/pkg/logger"
	"github.com/eventreport/backend/pkg/sms"
)

const defaultTestMessage = "Test SMS from EventReport"

// Handler exposes the SMS delivery smoke test. Sending a real message
// is the only way to verify gateway credentials end to end.
type Handler struct {
	sender        sms.SMSSender
	countryPrefix string
	log           *slog.Logger
}

// NewHandler returns a handler over the given SMS sender.
func NewHandler(cfg Config, sender sms.SMSSender, log *slog.Logger) *Handler {
	return &Handler{
		sender:        sender,
		countryPrefix: cfg.CountryPrefix,
		log:           log.With(logger.Component("notifier")),
	}
}

// Routes mounts the SMS endpoints, all behind authentication.
func (h *Handler) Routes(requireUser func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(requireUser)
	r.Post("/test", h.testSMS)
	return r
}

func (h *Handler) testSMS(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		httpx.Error(w, httpx.BadRequest("phone is required"))
		return
	}
	message := r.URL.Query().Get("message")
	if message == "" {
		message = defaultTestMessage
	}

	if err := h.sender.Send(r.Context(), NormalizePhone(phone, h.countryPrefix), message); err != nil {
		h.log.ErrorContext(r.Context(), "test SMS delivery failed", logger.Error(err))
		httpx.Error(w, httpx.NewHTTPError(http.StatusInternalServerError, "internal_server_error", "Failed to send SMS"))
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "SMS sent to " + phone,
	})
}
