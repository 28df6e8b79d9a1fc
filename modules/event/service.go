package event

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/eventreport/backend/modules/auth"
	"github.com/eventreport/backend/modules/notifier"
	"github.com/eventreport/backend/pkg/blob"
	"github.com/eventreport/backend/pkg/logger"
	"github.com/eventreport/backend/pkg/metrics"
	"github.com/eventreport/backend/pkg/worker"
)

// Store is the persistence surface the service needs. *Repository is
// the production implementation.
type Store interface {
	Insert(ctx context.Context, e Event) (Event, error)
	FindByID(ctx context.Context, id string) (Event, error)
	Find(ctx context.Context, f ListFilter) ([]Event, error)
	FindNearby(ctx context.Context, lon, lat float64, maxDistance, limit int64) ([]Event, error)
	Update(ctx context.Context, id string, in UpdateInput) (Event, error)
	SetImageID(ctx context.Context, id string, imageID *string) error
	Delete(ctx context.Context, id string) error
}

// Notifier fans a persisted event out to the admin roster.
type Notifier interface {
	Notify(ctx context.Context, eventID string, p notifier.Payload)
}

// Broadcaster pushes messages to the live feed.
type Broadcaster interface {
	Publish(ctx context.Context, msg BroadcastMessage)
}

// Dispatcher schedules background jobs.
type Dispatcher interface {
	Enqueue(job worker.Job) error
}

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Service coordinates event ingestion: persist first, then hand the
// stored event to the notification pipeline and the live feed. The
// mutation path and the delivery paths are deliberately decoupled so
// notification trouble can never fail a report.
type Service struct {
	repo       Store
	notifier   Notifier
	dispatcher Dispatcher
	hub        Broadcaster
	blobs      blob.Storage
	metrics    *metrics.Metrics
	log        *slog.Logger
}

// NewService builds the event service.
func NewService(repo Store, n Notifier, d Dispatcher, hub Broadcaster, blobs blob.Storage, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		notifier:   n,
		dispatcher: d,
		hub:        hub,
		blobs:      blobs,
		metrics:    m,
		log:        log.With(logger.Component("event")),
	}
}

// Create persists a new event reported by the given user, then
// schedules the admin fan-out and publishes the event to the live
// feed. The timestamp is stamped exactly once and shared by
// reported_at and created_at.
func (s *Service) Create(ctx context.Context, in CreateInput, reporter auth.User) (Response, error) {
	if err := in.Validate(); err != nil {
		return Response{}, err
	}

	now := time.Now().UTC()
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	e, err := s.repo.Insert(ctx, Event{
		Location:    in.Location,
		AlertCode:   in.AlertCode,
		Description: in.Description,
		Tags:        tags,
		ReporterID:  reporter.ID.Hex(),
		ImageID:     nil,
		ReportedAt:  now,
		CreatedAt:   now,
	})
	if err != nil {
		return Response{}, err
	}

	eventID := e.ID.Hex()
	payload := notifier.Payload{
		AlertCode:   string(in.AlertCode),
		Description: in.Description,
		Location: notifier.Location{
			Type:        in.Location.Type,
			Coordinates: in.Location.Coordinates,
			Address:     in.Location.Address,
		},
		Tags:       tags,
		ReportedAt: now.Format(time.RFC3339),
		Reporter: notifier.Reporter{
			FirstName: reporter.FirstName,
			LastName:  reporter.LastName,
			Email:     reporter.Email,
			Phone:     reporter.Phone,
		},
	}
	if err := s.dispatcher.Enqueue(func(jobCtx context.Context) {
		s.notifier.Notify(jobCtx, eventID, payload)
	}); err != nil {
		// The event is already persisted; a full queue only costs
		// this round of notifications.
		s.log.ErrorContext(ctx, "failed to enqueue notification fan-out",
			logger.Error(err), logger.EventID(eventID))
	}

	resp := ToResponse(e)
	s.hub.Publish(ctx, BroadcastMessage{Type: "new_event", Event: resp})

	if s.metrics != nil {
		s.metrics.EventsCreated.Inc()
		s.metrics.BroadcastsSent.Inc()
	}
	s.log.InfoContext(ctx, "event created",
		logger.EventID(eventID), slog.String("alert_code", string(in.AlertCode)))
	return resp, nil
}

// Get returns a single event.
func (s *Service) Get(ctx context.Context, id string) (Response, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Response{}, err
	}
	return ToResponse(e), nil
}

// List returns events matching the filter, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Response, error) {
	events, err := s.repo.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	return toResponses(events), nil
}

// Nearby returns events within maxDistance meters of the point,
// nearest first.
func (s *Service) Nearby(ctx context.Context, lon, lat float64, maxDistance, limit int64) ([]Response, error) {
	events, err := s.repo.FindNearby(ctx, lon, lat, maxDistance, limit)
	if err != nil {
		return nil, err
	}
	return toResponses(events), nil
}

// Update applies a partial update and returns the updated event.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Response, error) {
	if err := in.Validate(); err != nil {
		return Response{}, err
	}
	e, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return Response{}, err
	}
	return ToResponse(e), nil
}

// Delete removes an event and its attached image, if any. A missing
// image blob is not an error: the event is the source of truth.
func (s *Service) Delete(ctx context.Context, id string) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e.ImageID != nil {
		if err := s.blobs.Delete(ctx, *e.ImageID); err != nil && !errors.Is(err, blob.ErrNotFound) {
			s.log.WarnContext(ctx, "failed to delete event image",
				logger.Error(err), logger.EventID(id))
		}
	}
	return s.repo.Delete(ctx, id)
}

// AttachImage stores the uploaded image and links it to the event,
// replacing and removing any previous image.
func (s *Service) AttachImage(ctx context.Context, id, filename, contentType string, r io.Reader, uploadedBy string) (string, error) {
	if !slices.Contains(allowedImageTypes, contentType) {
		return "", ErrInvalidImageType
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if e.ImageID != nil {
		if err := s.blobs.Delete(ctx, *e.ImageID); err != nil && !errors.Is(err, blob.ErrNotFound) {
			s.log.WarnContext(ctx, "failed to delete replaced event image",
				logger.Error(err), logger.EventID(id))
		}
	}

	imageID, err := s.blobs.Store(ctx, filename, r, map[string]string{
		"content_type": contentType,
		"event_id":     id,
		"uploaded_by":  uploadedBy,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store event image: %w", err)
	}

	if err := s.repo.SetImageID(ctx, id, &imageID); err != nil {
		return "", err
	}
	return imageID, nil
}

// OpenImage streams the image attached to an event.
func (s *Service) OpenImage(ctx context.Context, id string) (io.ReadCloser, blob.Metadata, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, blob.Metadata{}, err
	}
	if e.ImageID == nil {
		return nil, blob.Metadata{}, ErrNoImage
	}
	rc, meta, err := s.blobs.Open(ctx, *e.ImageID)
	if err != nil {
		return nil, blob.Metadata{}, ErrImageNotFound
	}
	return rc, meta, nil
}

// OpenImageByID streams a stored image directly by its blob id.
func (s *Service) OpenImageByID(ctx context.Context, imageID string) (io.ReadCloser, blob.Metadata, error) {
	rc, meta, err := s.blobs.Open(ctx, imageID)
	if err != nil {
		return nil, blob.Metadata{}, ErrImageNotFound
	}
	return rc, meta, nil
}

func toResponses(events []Event) []Response {
	out := make([]Response, 0, len(events))
	for _, e := range events {
		out = append(out, ToResponse(e))
	}
	return out
}
