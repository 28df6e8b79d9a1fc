package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventreport/backend/pkg/httpx"
)

type testBody struct {
	Name string `json:"name"`
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestBindJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes a valid body", func(t *testing.T) {
		t.Parallel()
		var v testBody
		require.NoError(t, httpx.BindJSON(jsonRequest(`{"name":"ana"}`), &v))
		assert.Equal(t, "ana", v.Name)
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{}`))
		var v testBody
		assert.ErrorIs(t, httpx.BindJSON(r, &v), httpx.ErrMissingContentType)
	})

	t.Run("wrong content type", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "text/plain")
		var v testBody
		assert.ErrorIs(t, httpx.BindJSON(r, &v), httpx.ErrUnsupportedMediaType)
	})

	t.Run("content type with charset accepted", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ana"}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")
		var v testBody
		assert.NoError(t, httpx.BindJSON(r, &v))
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		t.Parallel()
		var v testBody
		assert.ErrorIs(t, httpx.BindJSON(jsonRequest(`{"name":"ana","extra":1}`), &v), httpx.ErrInvalidJSON)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		var v testBody
		assert.ErrorIs(t, httpx.BindJSON(jsonRequest(``), &v), httpx.ErrInvalidJSON)
	})

	t.Run("trailing data rejected", func(t *testing.T) {
		t.Parallel()
		var v testBody
		assert.ErrorIs(t, httpx.BindJSON(jsonRequest(`{"name":"ana"}{"name":"bob"}`), &v), httpx.ErrInvalidJSON)
	})
}

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("maps HTTPError to its status", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		httpx.Error(rec, httpx.NotFound("event not found"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body struct {
			Error httpx.ErrorDetail `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not_found", body.Error.Code)
		assert.Equal(t, "event not found", body.Error.Message)
	})

	t.Run("wrapped HTTPError still maps", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		wrapped := errors.Join(httpx.ErrUnauthorized, errors.New("token expired"))
		httpx.Error(rec, wrapped)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("plain error becomes 500", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		httpx.Error(rec, errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpx.JSON(rec, http.StatusCreated, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"1"}`, rec.Body.String())
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpx.NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
