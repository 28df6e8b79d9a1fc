package notifier

import (
	"fmt"
	"html/template"
	"strings"
)

const smsDescriptionLimit = 100

var alertColors = map[string]string{
	"GREEN":  "#28a745",
	"YELLOW": "#ffc107",
	"ORANGE": "#fd7e14",
	"RED":    "#dc3545",
}

const fallbackAlertColor = "#6c757d"

var eventEmailTmpl = template.Must(template.New("event_email").Parse(`<!DOCTYPE html>
<html>
    <head>
        <style>
            .alert-badge {
                background-color: {{.Color}};
                color: white;
                padding: 5px 15px;
                border-radius: 4px;
                font-weight: bold;
            }
            .event-box {
                border: 1px solid #ddd;
                border-radius: 8px;
                padding: 20px;
                margin: 10px 0;
                background-color: #f9f9f9;
            }
            .reporter-box {
                border: 1px solid #007bff;
                border-radius: 8px;
                padding: 20px;
                margin: 10px 0;
                background-color: #e7f3ff;
            }
        </style>
    </head>
    <body>
        <h2>New Event Reported - EventReport</h2>
        <p>Hello {{.AdminName}},</p>
        <p>A new event has been reported in the system that requires your attention.</p>

        <div class="event-box">
            <p><strong>Alert Level:</strong> <span class="alert-badge">{{.AlertCode}}</span></p>
            <p><strong>Description:</strong> {{.Description}}</p>
            <p><strong>Location:</strong> {{.Address}}</p>
            <p><strong>Coordinates:</strong> {{.Longitude}}, {{.Latitude}}</p>
            <p><strong>Tags:</strong> {{.Tags}}</p>
            <p><strong>Reported at:</strong> {{.ReportedAt}}</p>
        </div>

        <div class="reporter-box">
            <h3>Reporter Information</h3>
            <p><strong>Name:</strong> {{.ReporterName}}</p>
            <p><strong>Email:</strong> {{.ReporterEmail}}</p>
            <p><strong>Phone:</strong> {{.ReporterPhone}}</p>
        </div>

        <p>Please review this event and take appropriate action.</p>
        <p>Best regards,<br>EventReport System</p>
    </body>
</html>`))

// EventEmailSubject builds the subject line for an event alert email.
func EventEmailSubject(alertCode string) string {
	return fmt.Sprintf("[%s] New Event Reported - EventReport", alertCode)
}

// RenderEventEmail renders the HTML body of an event alert email
// addressed to the given admin. Coordinates appear in GeoJSON order,
// longitude first.
func RenderEventEmail(adminName string, p Payload) (string, error) {
	color, ok := alertColors[p.AlertCode]
	if !ok {
		color = fallbackAlertColor
	}
	address := p.Location.Address
	if address == "" {
		address = "Unknown location"
	}

	var b strings.Builder
	err := eventEmailTmpl.Execute(&b, struct {
		Color         template.CSS
		AdminName     string
		AlertCode     string
		Description   string
		Address       string
		Longitude     float64
		Latitude      float64
		Tags          string
		ReportedAt    string
		ReporterName  string
		ReporterEmail string
		ReporterPhone string
	}{
		Color:         template.CSS(color),
		AdminName:     adminName,
		AlertCode:     p.AlertCode,
		Description:   p.Description,
		Address:       address,
		Longitude:     p.Location.Longitude(),
		Latitude:      p.Location.Latitude(),
		Tags:          strings.Join(p.Tags, ", "),
		ReportedAt:    p.ReportedAt,
		ReporterName:  p.Reporter.FirstName + " " + p.Reporter.LastName,
		ReporterEmail: p.Reporter.Email,
		ReporterPhone: p.Reporter.Phone,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render event email: %w", err)
	}
	return b.String(), nil
}

// RenderSMS builds the short-form SMS alert. The description is capped
// at 100 characters and coordinates are printed latitude first, unlike
// the stored GeoJSON order.
func RenderSMS(p Payload) string {
	desc := p.Description
	// Truncate on rune boundaries; splitting a multi-byte character
	// would hand the gateway an invalid UTF-8 body.
	if r := []rune(desc); len(r) > smsDescriptionLimit {
		desc = string(r[:smsDescriptionLimit])
	}
	return fmt.Sprintf("[EventReport - %s]\n%s\nLocation: %.4f, %.4f",
		p.AlertCode, desc, p.Location.Latitude(), p.Location.Longitude())
}
