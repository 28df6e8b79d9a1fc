package sms

import "errors"

var (
	ErrFailedToSendSMS = errors.New("sms: failed to send message")
	ErrNotConfigured   = errors.New("sms: provider credentials not configured")
)
