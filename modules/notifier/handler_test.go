package notifier_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventreport/backend/modules/notifier"
)

type smokeSender struct {
	to   string
	body string
	err  error
}

func (s *smokeSender) Send(ctx context.Context, to, body string) error {
	s.to = to
	s.body = body
	return s.err
}

func passthrough(next http.Handler) http.Handler { return next }

func newTestSMSRouter(sender *smokeSender) http.Handler {
	h := notifier.NewHandler(notifier.Config{CountryPrefix: "+4"}, sender, slog.New(slog.DiscardHandler))
	return h.Routes(passthrough)
}

func TestTestSMS(t *testing.T) {
	t.Parallel()

	t.Run("sends default message to normalized phone", func(t *testing.T) {
		t.Parallel()
		sender := &smokeSender{}
		router := newTestSMSRouter(sender)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/test?phone=0712345678", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "+40712345678", sender.to)
		assert.Equal(t, "Test SMS from EventReport", sender.body)
		assert.Contains(t, rec.Body.String(), "SMS sent to 0712345678")
	})

	t.Run("custom message", func(t *testing.T) {
		t.Parallel()
		sender := &smokeSender{}
		router := newTestSMSRouter(sender)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/test?phone=%2B17349771053&message=hello", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "+17349771053", sender.to)
		assert.Equal(t, "hello", sender.body)
	})

	t.Run("missing phone", func(t *testing.T) {
		t.Parallel()
		sender := &smokeSender{}
		router := newTestSMSRouter(sender)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/test", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, sender.to)
	})

	t.Run("delivery failure", func(t *testing.T) {
		t.Parallel()
		sender := &smokeSender{err: errors.New("gateway down")}
		router := newTestSMSRouter(sender)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/test?phone=0712345678", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to send SMS")
	})
}
