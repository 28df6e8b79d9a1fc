package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventreport/backend/pkg/httpx"
	"github.com/eventreport/backend/pkg/logger"
)

// Store is the persistence surface the handler needs. *Repository is
// the production implementation.
type Store interface {
	Create(ctx context.Context, in CreateInput) (Admin, error)
	List(ctx context.Context) ([]Admin, error)
	Delete(ctx context.Context, id string) error
}

// Handler exposes the admin management endpoints.
type Handler struct {
	repo Store
	log  *slog.Logger
}

// NewHandler returns a handler over the given store.
func NewHandler(repo Store, log *slog.Logger) *Handler {
	return &Handler{repo: repo, log: log.With(logger.Component("admin"))}
}

// Routes mounts the admin endpoints. All of them require an
// authenticated user, enforced by the supplied middleware.
func (h *Handler) Routes(requireUser func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(requireUser)
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Delete("/{adminID}", h.delete)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.BindJSON(r, &in); err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}
	if err := in.Validate(); err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}

	a, err := h.repo.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			httpx.Error(w, httpx.BadRequest(ErrDuplicateEmail.Error()))
			return
		}
		h.log.ErrorContext(r.Context(), "failed to create admin", logger.Error(err))
		httpx.Error(w, httpx.ErrInternal)
		return
	}

	h.log.InfoContext(r.Context(), "admin created", logger.AdminID(a.ID.Hex()))
	httpx.JSON(w, http.StatusCreated, ToResponse(a))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	admins, err := h.repo.List(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list admins", logger.Error(err))
		httpx.Error(w, httpx.ErrInternal)
		return
	}

	out := make([]Response, 0, len(admins))
	for _, a := range admins {
		out = append(out, ToResponse(a))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "adminID")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrInvalidID) {
			httpx.Error(w, httpx.BadRequest(ErrInvalidID.Error()))
			return
		}
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, httpx.NotFound(ErrNotFound.Error()))
			return
		}
		h.log.ErrorContext(r.Context(), "failed to delete admin", logger.Error(err), logger.AdminID(id))
		httpx.Error(w, httpx.ErrInternal)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Admin deleted successfully"})
}
