package event

import "context"

// FeatureCollection is the GeoJSON document served to map clients.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single event rendered as a GeoJSON feature.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// Geometry is the point geometry of a feature.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// FeatureProperties carries the event attributes a map popup needs.
type FeatureProperties struct {
	ID          string    `json:"id"`
	AlertCode   AlertCode `json:"alert_code"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	ReportedAt  string    `json:"reported_at"`
	Address     string    `json:"address"`
	ImageID     *string   `json:"image_id"`
}

// ToFeatureCollection renders events as a GeoJSON FeatureCollection.
// The features array is always present, even when empty.
func ToFeatureCollection(events []Event) FeatureCollection {
	features := make([]Feature, 0, len(events))
	for _, e := range events {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: e.Location.Coordinates,
			},
			Properties: FeatureProperties{
				ID:          e.ID.Hex(),
				AlertCode:   e.AlertCode,
				Description: e.Description,
				Tags:        tags,
				ReportedAt:  e.ReportedAt.Format("2006-01-02 15:04:05"),
				Address:     e.Location.Address,
				ImageID:     e.ImageID,
			},
		})
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// GeoJSON returns events matching the filter as a FeatureCollection.
func (s *Service) GeoJSON(ctx context.Context, f ListFilter) (FeatureCollection, error) {
	events, err := s.repo.Find(ctx, f)
	if err != nil {
		return FeatureCollection{}, err
	}
	return ToFeatureCollection(events), nil
}
