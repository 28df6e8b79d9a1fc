package admin_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eventreport/backend/modules/admin"
)

type stubStore struct {
	deleteErr error
	deletedID string
}

func (s *stubStore) Create(ctx context.Context, in admin.CreateInput) (admin.Admin, error) {
	return admin.Admin{}, nil
}

func (s *stubStore) List(ctx context.Context) ([]admin.Admin, error) {
	return nil, nil
}

func (s *stubStore) Delete(ctx context.Context, id string) error {
	s.deletedID = id
	return s.deleteErr
}

func passthrough(next http.Handler) http.Handler { return next }

func TestHandlerDelete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		deleteErr  error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			wantStatus: http.StatusOK,
			wantBody:   "Admin deleted successfully",
		},
		{
			name:       "malformed id",
			deleteErr:  admin.ErrInvalidID,
			wantStatus: http.StatusBadRequest,
			wantBody:   admin.ErrInvalidID.Error(),
		},
		{
			name:       "unknown admin",
			deleteErr:  admin.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   admin.ErrNotFound.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := &stubStore{deleteErr: tt.deleteErr}
			h := admin.NewHandler(store, slog.New(slog.DiscardHandler))
			router := h.Routes(passthrough)

			req := httptest.NewRequest(http.MethodDelete, "/some-id", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.Equal(t, "some-id", store.deletedID)
		})
	}
}

func TestRepositoryDeleteMalformedID(t *testing.T) {
	t.Parallel()

	// A malformed hex id is rejected before any database call, so an
	// empty repository is enough.
	err := (&admin.Repository{}).Delete(context.Background(), "definitely-not-hex")
	assert.ErrorIs(t, err, admin.ErrInvalidID)
}
