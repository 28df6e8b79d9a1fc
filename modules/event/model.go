package event

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// AlertCode is the severity of a reported event, lowest to highest.
type AlertCode string

const (
	AlertGreen  AlertCode = "GREEN"
	AlertYellow AlertCode = "YELLOW"
	AlertOrange AlertCode = "ORANGE"
	AlertRed    AlertCode = "RED"
)

// Valid reports whether the code is one of the four known levels.
func (c AlertCode) Valid() bool {
	switch c {
	case AlertGreen, AlertYellow, AlertOrange, AlertRed:
		return true
	}
	return false
}

// ParseAlertCode parses a code, accepting any letter case.
func ParseAlertCode(s string) (AlertCode, error) {
	c := AlertCode(strings.ToUpper(s))
	if !c.Valid() {
		return "", ErrInvalidAlertCode
	}
	return c, nil
}

// Location is a GeoJSON point. Coordinates are [longitude, latitude].
type Location struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
}

// Validate checks the GeoJSON shape and coordinate ranges.
func (l Location) Validate() error {
	if l.Type != "Point" {
		return ErrInvalidLocation
	}
	if len(l.Coordinates) != 2 {
		return ErrInvalidLocation
	}
	lon, lat := l.Coordinates[0], l.Coordinates[1]
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return ErrInvalidLocation
	}
	return nil
}

// Event is a reported incident. ReportedAt and CreatedAt carry the
// same timestamp, stamped once at ingestion.
type Event struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Location    Location      `bson:"location"`
	AlertCode   AlertCode     `bson:"alert_code"`
	Description string        `bson:"description"`
	Tags        []string      `bson:"tags"`
	ReporterID  string        `bson:"reporter_id"`
	ImageID     *string       `bson:"image_id"`
	ReportedAt  time.Time     `bson:"reported_at"`
	CreatedAt   time.Time     `bson:"created_at"`
}

// CreateInput carries the fields accepted when reporting an event.
type CreateInput struct {
	Location    Location  `json:"location"`
	AlertCode   AlertCode `json:"alert_code"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
}

// Validate checks the alert code and location. An empty description
// is accepted; reports are often filed from the field with nothing
// but a pin and a severity.
func (in CreateInput) Validate() error {
	if !in.AlertCode.Valid() {
		return ErrInvalidAlertCode
	}
	return in.Location.Validate()
}

// UpdateInput carries the optional fields of a partial update. Nil
// fields are left untouched.
type UpdateInput struct {
	Location    *Location  `json:"location"`
	AlertCode   *AlertCode `json:"alert_code"`
	Description *string    `json:"description"`
	Tags        *[]string  `json:"tags"`
}

// Validate checks whichever fields are present.
func (in UpdateInput) Validate() error {
	if in.AlertCode != nil && !in.AlertCode.Valid() {
		return ErrInvalidAlertCode
	}
	if in.Location != nil {
		return in.Location.Validate()
	}
	return nil
}

// Empty reports whether the update carries no changes.
func (in UpdateInput) Empty() bool {
	return in.Location == nil && in.AlertCode == nil && in.Description == nil && in.Tags == nil
}

// Response is the JSON representation returned by the event endpoints.
type Response struct {
	ID          string    `json:"id"`
	ReportedAt  time.Time `json:"reported_at"`
	Location    Location  `json:"location"`
	AlertCode   AlertCode `json:"alert_code"`
	Description string    `json:"description"`
	ImageID     *string   `json:"image_id"`
	Tags        []string  `json:"tags"`
	ReporterID  string    `json:"reporter_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse converts a stored event into its API representation.
func ToResponse(e Event) Response {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return Response{
		ID:          e.ID.Hex(),
		ReportedAt:  e.ReportedAt,
		Location:    e.Location,
		AlertCode:   e.AlertCode,
		Description: e.Description,
		ImageID:     e.ImageID,
		Tags:        tags,
		ReporterID:  e.ReporterID,
		CreatedAt:   e.CreatedAt,
	}
}

// BroadcastMessage is the envelope pushed to live feed subscribers.
type BroadcastMessage struct {
	Type  string   `json:"type"`
	Event Response `json:"event"`
}
