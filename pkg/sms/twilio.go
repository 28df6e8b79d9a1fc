package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type twilioSender struct {
	client *twilio.RestClient
	from   string
}

// New creates a Twilio-backed SMS sender. When credentials are missing it
// returns a disabled sender that fails every attempt without a network call,
// so the notification pipeline records the failure instead of crashing.
func New(cfg Config) SMSSender {
	if !cfg.Configured() {
		return &disabledSender{}
	}

	return &twilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		from: cfg.FromNumber,
	}
}

func (s *twilioSender) Send(ctx context.Context, to, body string) error {
	if to == "" {
		return fmt.Errorf("%w: empty destination number", ErrFailedToSendSMS)
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return errors.Join(ErrFailedToSendSMS, err)
	}
	return nil
}

// disabledSender short-circuits to failure when the provider is unconfigured.
type disabledSender struct{}

func (d *disabledSender) Send(ctx context.Context, to, body string) error {
	return ErrNotConfigured
}
