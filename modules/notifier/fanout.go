package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/eventreport/backend/modules/admin"
	"github.com/eventreport/backend/pkg/email"
	"github.com/eventreport/backend/pkg/logger"
	"github.com/eventreport/backend/pkg/metrics"
	"github.com/eventreport/backend/pkg/sms"
)

// Roster supplies the current set of notification recipients. It is
// read fresh on every fan-out so roster changes take effect on the
// next event without a restart.
type Roster interface {
	List(ctx context.Context) ([]admin.Admin, error)
}

// Fanout delivers event alerts to every admin over email and SMS and
// records each attempt in the ledger. A delivery failure on one
// channel or admin never stops the remaining attempts: one event with
// N admins always yields 2N ledger records.
type Fanout struct {
	roster        Roster
	ledger        Ledger
	email         email.EmailSender
	sms           sms.SMSSender
	metrics       *metrics.Metrics
	log           *slog.Logger
	countryPrefix string
}

// Config holds the notifier settings.
type Config struct {
	// CountryPrefix replaces a leading "0" when normalizing phone
	// numbers for the SMS gateway.
	CountryPrefix string `env:"SMS_COUNTRY_PREFIX" envDefault:"+4"`
}

// NewFanout builds the fan-out orchestrator.
func NewFanout(cfg Config, roster Roster, ledger Ledger, emailSender email.EmailSender, smsSender sms.SMSSender, m *metrics.Metrics, log *slog.Logger) *Fanout {
	return &Fanout{
		roster:        roster,
		ledger:        ledger,
		email:         emailSender,
		sms:           smsSender,
		metrics:       m,
		log:           log.With(logger.Component("notifier")),
		countryPrefix: cfg.CountryPrefix,
	}
}

// Notify fans the event out to every admin on file. It never returns
// an error: delivery problems are recorded in the ledger and logged,
// and must not affect the already-persisted event.
func (f *Fanout) Notify(ctx context.Context, eventID string, p Payload) {
	admins, err := f.roster.List(ctx)
	if err != nil {
		f.log.ErrorContext(ctx, "failed to load admin roster, skipping notifications",
			logger.Error(err), logger.EventID(eventID))
		return
	}
	if len(admins) == 0 {
		f.log.InfoContext(ctx, "no admins configured, skipping notifications",
			logger.EventID(eventID))
		return
	}

	smsBody := RenderSMS(p)

	for _, a := range admins {
		f.notifyByEmail(ctx, eventID, a, p)
		f.notifyBySMS(ctx, eventID, a, smsBody)
	}

	f.log.InfoContext(ctx, "notification fan-out completed",
		logger.EventID(eventID), slog.Int("admins", len(admins)))
}

func (f *Fanout) notifyByEmail(ctx context.Context, eventID string, a admin.Admin, p Payload) {
	var sendErr error
	body, err := RenderEventEmail(a.FullName(), p)
	if err != nil {
		sendErr = err
	} else {
		sendErr = f.email.SendEmail(ctx, email.SendEmailParams{
			SendTo:   a.Email,
			Subject:  EventEmailSubject(p.AlertCode),
			BodyHTML: body,
			Tag:      "event-alert",
		})
	}
	f.record(ctx, eventID, a, ChannelEmail, sendErr)
}

func (f *Fanout) notifyBySMS(ctx context.Context, eventID string, a admin.Admin, body string) {
	to := NormalizePhone(a.Phone, f.countryPrefix)
	err := f.sms.Send(ctx, to, body)
	f.record(ctx, eventID, a, ChannelSMS, err)
}

// record appends the attempt outcome to the ledger. SentAt is stamped
// only on success.
func (f *Fanout) record(ctx context.Context, eventID string, a admin.Admin, ch Channel, sendErr error) {
	now := time.Now().UTC()
	rec := Record{
		EventID:   eventID,
		AdminID:   a.ID.Hex(),
		Channel:   ch,
		Status:    StatusSent,
		SentAt:    &now,
		CreatedAt: now,
	}
	outcome := "sent"
	if sendErr != nil {
		rec.Status = StatusFailed
		rec.SentAt = nil
		outcome = "failed"
		f.log.WarnContext(ctx, "notification delivery failed",
			logger.Error(sendErr), logger.EventID(eventID),
			logger.AdminID(rec.AdminID), logger.Channel(string(ch)))
	}
	if f.metrics != nil {
		f.metrics.NotificationAttempts.WithLabelValues(string(ch), outcome).Inc()
	}

	if err := f.ledger.Append(ctx, rec); err != nil {
		f.log.ErrorContext(ctx, "failed to record notification attempt",
			logger.Error(err), logger.EventID(eventID),
			logger.AdminID(rec.AdminID), logger.Channel(string(ch)))
	}
}
