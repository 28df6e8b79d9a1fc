package notifier_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/eventreport/backend/modules/admin"
	"github.com/eventreport/backend/modules/notifier"
	"github.com/eventreport/backend/pkg/email"
)

type stubRoster struct {
	admins []admin.Admin
	err    error
}

func (s *stubRoster) List(ctx context.Context) ([]admin.Admin, error) {
	return s.admins, s.err
}

type memLedger struct {
	mu      sync.Mutex
	records []notifier.Record
	err     error
}

func (m *memLedger) Append(ctx context.Context, rec notifier.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memLedger) ListByEvent(ctx context.Context, eventID string) ([]notifier.Record, error) {
	return nil, nil
}

func (m *memLedger) ListByAdmin(ctx context.Context, adminID string) ([]notifier.Record, error) {
	return nil, nil
}

type stubEmailSender struct {
	sent   []email.SendEmailParams
	failTo map[string]error
}

func (s *stubEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	if err, ok := s.failTo[params.SendTo]; ok {
		return err
	}
	s.sent = append(s.sent, params)
	return nil
}

type stubSMSSender struct {
	sent []string
	err  error
}

func (s *stubSMSSender) Send(ctx context.Context, to, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, to)
	return nil
}

func testAdmin(first, last, emailAddr, phone string) admin.Admin {
	return admin.Admin{
		ID:        bson.NewObjectID(),
		FirstName: first,
		LastName:  last,
		Email:     emailAddr,
		Phone:     phone,
	}
}

func newTestFanout(roster notifier.Roster, ledger notifier.Ledger, mailer email.EmailSender, smsSender *stubSMSSender) *notifier.Fanout {
	return notifier.NewFanout(
		notifier.Config{CountryPrefix: "+4"},
		roster, ledger, mailer, smsSender, nil,
		slog.New(slog.DiscardHandler),
	)
}

func TestFanoutNotify(t *testing.T) {
	t.Parallel()

	t.Run("two ledger rows per admin", func(t *testing.T) {
		t.Parallel()
		roster := &stubRoster{admins: []admin.Admin{
			testAdmin("John", "Admin", "john@example.com", "0712345678"),
			testAdmin("Jane", "Admin", "jane@example.com", "+40798765432"),
		}}
		ledger := &memLedger{}
		mailer := &stubEmailSender{}
		smsSender := &stubSMSSender{}

		newTestFanout(roster, ledger, mailer, smsSender).
			Notify(context.Background(), "event-1", samplePayload())

		require.Len(t, ledger.records, 4)
		for _, rec := range ledger.records {
			assert.Equal(t, "event-1", rec.EventID)
			assert.Equal(t, notifier.StatusSent, rec.Status)
			require.NotNil(t, rec.SentAt)
			assert.False(t, rec.CreatedAt.IsZero())
		}
		// Email precedes SMS for each admin.
		assert.Equal(t, notifier.ChannelEmail, ledger.records[0].Channel)
		assert.Equal(t, notifier.ChannelSMS, ledger.records[1].Channel)
		assert.Equal(t, notifier.ChannelEmail, ledger.records[2].Channel)
		assert.Equal(t, notifier.ChannelSMS, ledger.records[3].Channel)

		assert.Equal(t, []string{"+40712345678", "+40798765432"}, smsSender.sent)
		require.Len(t, mailer.sent, 2)
		assert.Equal(t, "[RED] New Event Reported - EventReport", mailer.sent[0].Subject)
	})

	t.Run("empty roster writes nothing", func(t *testing.T) {
		t.Parallel()
		ledger := &memLedger{}
		mailer := &stubEmailSender{}
		smsSender := &stubSMSSender{}

		newTestFanout(&stubRoster{}, ledger, mailer, smsSender).
			Notify(context.Background(), "event-1", samplePayload())

		assert.Empty(t, ledger.records)
		assert.Empty(t, mailer.sent)
		assert.Empty(t, smsSender.sent)
	})

	t.Run("roster load error writes nothing", func(t *testing.T) {
		t.Parallel()
		ledger := &memLedger{}

		newTestFanout(&stubRoster{err: errors.New("mongo down")}, ledger, &stubEmailSender{}, &stubSMSSender{}).
			Notify(context.Background(), "event-1", samplePayload())

		assert.Empty(t, ledger.records)
	})

	t.Run("email failure still attempts SMS and later admins", func(t *testing.T) {
		t.Parallel()
		first := testAdmin("John", "Admin", "john@example.com", "0712345678")
		second := testAdmin("Jane", "Admin", "jane@example.com", "0798765432")
		roster := &stubRoster{admins: []admin.Admin{first, second}}
		ledger := &memLedger{}
		mailer := &stubEmailSender{failTo: map[string]error{"john@example.com": errors.New("smtp refused")}}
		smsSender := &stubSMSSender{}

		newTestFanout(roster, ledger, mailer, smsSender).
			Notify(context.Background(), "event-1", samplePayload())

		require.Len(t, ledger.records, 4)
		assert.Equal(t, notifier.StatusFailed, ledger.records[0].Status)
		assert.Nil(t, ledger.records[0].SentAt)
		assert.Equal(t, notifier.StatusSent, ledger.records[1].Status)
		assert.Equal(t, notifier.StatusSent, ledger.records[2].Status)
		assert.Equal(t, notifier.StatusSent, ledger.records[3].Status)
		assert.Len(t, smsSender.sent, 2)
	})

	t.Run("SMS failure recorded per admin", func(t *testing.T) {
		t.Parallel()
		roster := &stubRoster{admins: []admin.Admin{
			testAdmin("John", "Admin", "john@example.com", "0712345678"),
		}}
		ledger := &memLedger{}
		smsSender := &stubSMSSender{err: errors.New("twilio not configured")}

		newTestFanout(roster, ledger, &stubEmailSender{}, smsSender).
			Notify(context.Background(), "event-1", samplePayload())

		require.Len(t, ledger.records, 2)
		assert.Equal(t, notifier.StatusSent, ledger.records[0].Status)
		assert.Equal(t, notifier.StatusFailed, ledger.records[1].Status)
		assert.Nil(t, ledger.records[1].SentAt)
	})

	t.Run("ledger append errors do not stop the fan-out", func(t *testing.T) {
		t.Parallel()
		roster := &stubRoster{admins: []admin.Admin{
			testAdmin("John", "Admin", "john@example.com", "0712345678"),
		}}
		ledger := &memLedger{err: errors.New("insert failed")}
		mailer := &stubEmailSender{}
		smsSender := &stubSMSSender{}

		newTestFanout(roster, ledger, mailer, smsSender).
			Notify(context.Background(), "event-1", samplePayload())

		assert.Len(t, mailer.sent, 1)
		assert.Len(t, smsSender.sent, 1)
	})
}
