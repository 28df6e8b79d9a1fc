package sms

import "context"

// SMSSender represents an interface for sending text messages.
type SMSSender interface {
	// Send delivers body to the destination phone number. The number must
	// already be normalized to international format (leading "+").
	Send(ctx context.Context, to, body string) error
}
