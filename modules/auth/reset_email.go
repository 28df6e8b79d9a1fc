package auth

import (
	"fmt"
	"html/template"
	"strings"
)

const resetCodeEmailSubject = "EventReport - Password Reset Code"

var resetCodeEmailTmpl = template.Must(template.New("reset_email").Parse(`<!DOCTYPE html>
<html>
    <body>
        <p>Hello,</p>
        <p>You have requested a password reset for the EventReport application.</p>
        <p>Your verification code is: <strong>{{.Code}}</strong></p>
        <p>This code expires in 10 minutes.</p>
        <p>If you did not request this, please ignore this email.</p>
    </body>
</html>`))

func renderResetCodeEmail(code string) (string, error) {
	var b strings.Builder
	if err := resetCodeEmailTmpl.Execute(&b, struct{ Code string }{Code: code}); err != nil {
		return "", fmt.Errorf("failed to render reset code email: %w", err)
	}
	return b.String(), nil
}
