package event

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/eventreport/backend/modules/auth"
	"github.com/eventreport/backend/pkg/file"
	"github.com/eventreport/backend/pkg/httpx"
	"github.com/eventreport/backend/pkg/logger"
)

// maxImageUploadBytes caps multipart image uploads.
const maxImageUploadBytes = 10 << 20

// Handler exposes the event endpoints.
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler returns a handler over the given service.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log.With(logger.Component("event"))}
}

// Routes mounts the event endpoints. Reads are public; mutations
// require an authenticated user.
func (h *Handler) Routes(requireUser func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/geojson", h.geojson)
	r.Get("/nearby", h.nearby)
	r.Get("/{eventID}", h.get)
	r.Get("/{eventID}/image", h.downloadImage)

	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Post("/", h.create)
		r.Put("/{eventID}", h.update)
		r.Delete("/{eventID}", h.delete)
		r.Post("/{eventID}/image", h.uploadImage)
	})
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	reporter, ok := auth.CurrentUser(r.Context())
	if !ok {
		httpx.Error(w, httpx.ErrUnauthorized)
		return
	}

	var in CreateInput
	if err := httpx.BindJSON(r, &in); err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}

	resp, err := h.svc.Create(r.Context(), in, reporter)
	if err != nil {
		if isValidationError(err) {
			httpx.Error(w, httpx.BadRequest(err.Error()))
			return
		}
		h.log.ErrorContext(r.Context(), "failed to create event", logger.Error(err))
		httpx.Error(w, httpx.ErrInternal)
		return
	}
	httpx.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f, err := parseListFilter(r, 50, 100)
	if err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}
	skip, err := queryInt(r, "skip", 0, 0, -1)
	if err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}
	f.Skip = skip

	events, err := h.svc.List(r.Context(), f)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list events", logger.Error(err))
		httpx.Error(w, httpx.ErrInternal)
		return
	}
	httpx.JSON(w, http.StatusOK, events)
}

func (h *Handler) geojson(w http.ResponseWriter, r *http.Request) {
	f, err := parseListFilter(r, 100, 500)
	if err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}

	fc, err := h.svc.GeoJSON(r.Context(), f)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to build geojson", logger.Error(err))
		httpx.Error(w, httpx.ErrInternal)
		return
	}
	httpx.JSON(w, http.StatusOK, fc)
}

func (h *Handler) nearby(w http.ResponseWriter, r *http.Request) {
	lon, err := queryFloat(r, "longitude", -180, 180)
	if err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}
	lat, err := queryFloat(r, "latitude", -90, 90)
	if err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}
	maxDistance, err := queryInt(r, "max_distance", 5000, 100, 50000)
	if err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}
	limit, err := queryInt(r, "limit", 20, 1, 100)
	if err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}

	events, err := h.svc.Nearby(r.Context(), lon, lat, maxDistance, limit)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to query nearby events", logger.Error(err))
		httpx.Error(w, httpx.ErrInternal)
		return
	}
	httpx.JSON(w, http.StatusOK, events)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := httpx.BindJSON(r, &in); err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}

	resp, err := h.svc.Update(r.Context(), chi.URLParam(r, "eventID"), in)
	if err != nil {
		if isValidationError(err) {
			httpx.Error(w, httpx.BadRequest(err.Error()))
			return
		}
		h.writeLookupError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		h.writeLookupError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	uploadedBy := ""
	if u, ok := auth.CurrentUser(r.Context()); ok {
		uploadedBy = u.ID.Hex()
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		httpx.Error(w, httpx.BadRequest("invalid multipart form"))
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, httpx.BadRequest("file is required"))
		return
	}
	defer f.Close()

	if err := file.ValidateSize(header, maxImageUploadBytes); err != nil {
		httpx.Error(w, httpx.BadRequest("file too large"))
		return
	}
	// The declared Content-Type is checked again by the service; the
	// sniff catches non-image bytes smuggled under an image header.
	if err := file.ValidateMIMEType(header, allowedImageTypes...); err != nil {
		httpx.Error(w, httpx.BadRequest(ErrInvalidImageType.Error()))
		return
	}

	imageID, err := h.svc.AttachImage(r.Context(),
		chi.URLParam(r, "eventID"),
		file.SanitizeFilename(header.Filename),
		header.Header.Get("Content-Type"),
		f,
		uploadedBy,
	)
	if err != nil {
		if errors.Is(err, ErrInvalidImageType) {
			httpx.Error(w, httpx.BadRequest(ErrInvalidImageType.Error()))
			return
		}
		h.writeLookupError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]string{
		"message":  "Image uploaded successfully",
		"image_id": imageID,
	})
}

func (h *Handler) downloadImage(w http.ResponseWriter, r *http.Request) {
	rc, meta, err := h.svc.OpenImage(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNoImage), errors.Is(err, ErrImageNotFound):
			httpx.Error(w, httpx.NotFound(err.Error()))
		default:
			h.writeLookupError(w, r, err)
		}
		return
	}
	defer rc.Close()
	streamImage(w, rc, meta.ContentType)
}

// ImageHandler serves stored images directly by blob id, for clients
// holding an image_id from an event payload.
func (h *Handler) ImageHandler(w http.ResponseWriter, r *http.Request) {
	rc, meta, err := h.svc.OpenImageByID(r.Context(), chi.URLParam(r, "imageID"))
	if err != nil {
		httpx.Error(w, httpx.NotFound(ErrImageNotFound.Error()))
		return
	}
	defer rc.Close()
	streamImage(w, rc, meta.ContentType)
}

func streamImage(w http.ResponseWriter, rc io.Reader, contentType string) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		httpx.Error(w, httpx.BadRequest(ErrInvalidID.Error()))
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, httpx.NotFound(ErrNotFound.Error()))
	default:
		h.log.ErrorContext(r.Context(), "event request failed", logger.Error(err))
		httpx.Error(w, httpx.ErrInternal)
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAlertCode) ||
		errors.Is(err, ErrInvalidLocation)
}

// parseListFilter reads the shared alert_code/tags/limit query params.
func parseListFilter(r *http.Request, defaultLimit, maxLimit int64) (ListFilter, error) {
	var f ListFilter
	if raw := r.URL.Query().Get("alert_code"); raw != "" {
		code, err := ParseAlertCode(raw)
		if err != nil {
			return ListFilter{}, err
		}
		f.AlertCode = code
	}
	if raw := r.URL.Query().Get("tags"); raw != "" {
		f.Tags = strings.Split(raw, ",")
	}
	limit, err := queryInt(r, "limit", defaultLimit, 1, maxLimit)
	if err != nil {
		return ListFilter{}, err
	}
	f.Limit = limit
	return f, nil
}

// queryInt parses an integer query parameter with bounds. A max of -1
// means unbounded above.
func queryInt(r *http.Request, name string, def, min, max int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	if v < min || (max >= 0 && v > max) {
		return 0, fmt.Errorf("%s out of range", name)
	}
	return v, nil
}

// queryFloat parses a required float query parameter with bounds.
func queryFloat(r *http.Request, name string, min, max float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s out of range", name)
	}
	return v, nil
}
