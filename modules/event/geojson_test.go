package event_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/eventreport/backend/modules/event"
)

func TestToFeatureCollection(t *testing.T) {
	t.Parallel()

	t.Run("empty input keeps the features array", func(t *testing.T) {
		t.Parallel()
		fc := event.ToFeatureCollection(nil)
		assert.Equal(t, "FeatureCollection", fc.Type)
		require.NotNil(t, fc.Features)
		assert.Empty(t, fc.Features)

		data, err := json.Marshal(fc)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(data))
	})

	t.Run("event rendered as point feature", func(t *testing.T) {
		t.Parallel()
		imageID := "abc123"
		reportedAt := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
		e := event.Event{
			ID: bson.NewObjectID(),
			Location: event.Location{
				Type:        "Point",
				Coordinates: []float64{26.1, 44.43},
				Address:     "Central Square",
			},
			AlertCode:   event.AlertOrange,
			Description: "Gas leak",
			Tags:        []string{"hazard"},
			ImageID:     &imageID,
			ReportedAt:  reportedAt,
		}

		fc := event.ToFeatureCollection([]event.Event{e})
		require.Len(t, fc.Features, 1)

		f := fc.Features[0]
		assert.Equal(t, "Feature", f.Type)
		assert.Equal(t, "Point", f.Geometry.Type)
		assert.Equal(t, []float64{26.1, 44.43}, f.Geometry.Coordinates)
		assert.Equal(t, e.ID.Hex(), f.Properties.ID)
		assert.Equal(t, event.AlertOrange, f.Properties.AlertCode)
		assert.Equal(t, "Gas leak", f.Properties.Description)
		assert.Equal(t, "Central Square", f.Properties.Address)
		assert.Equal(t, "2026-08-29 10:30:00", f.Properties.ReportedAt)
		require.NotNil(t, f.Properties.ImageID)
		assert.Equal(t, imageID, *f.Properties.ImageID)
	})

	t.Run("nil tags become empty slice", func(t *testing.T) {
		t.Parallel()
		fc := event.ToFeatureCollection([]event.Event{{Tags: nil}})
		require.Len(t, fc.Features, 1)
		assert.NotNil(t, fc.Features[0].Properties.Tags)
	})
}
