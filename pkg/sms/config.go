package sms

// Config holds Twilio configuration. All fields are optional: a deployment
// without SMS credentials still starts, and every send attempt reports
// failure instead.
type Config struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	FromNumber string `env:"TWILIO_PHONE_NUMBER"`
}

// Configured reports whether the provider credentials are present.
func (c Config) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}
