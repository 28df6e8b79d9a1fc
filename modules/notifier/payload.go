package notifier

// Payload is the self-contained snapshot of a reported event handed to
// the fan-out worker. It carries everything the notification templates
// need so rendering never reads the database.
type Payload struct {
	AlertCode   string   `json:"alert_code"`
	Description string   `json:"description"`
	Location    Location `json:"location"`
	Tags        []string `json:"tags"`
	ReportedAt  string   `json:"reported_at"`
	Reporter    Reporter `json:"reporter"`
}

// Location is the GeoJSON point where the event was reported.
// Coordinates follow GeoJSON order: longitude first, then latitude.
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address,omitempty"`
}

// Longitude returns the first coordinate, or 0 when absent.
func (l Location) Longitude() float64 {
	if len(l.Coordinates) > 0 {
		return l.Coordinates[0]
	}
	return 0
}

// Latitude returns the second coordinate, or 0 when absent.
func (l Location) Latitude() float64 {
	if len(l.Coordinates) > 1 {
		return l.Coordinates[1]
	}
	return 0
}

// Reporter identifies the user who submitted the event.
type Reporter struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}
