package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventreport/backend/modules/event"
)

func validCreateInput() event.CreateInput {
	return event.CreateInput{
		Location: event.Location{
			Type:        "Point",
			Coordinates: []float64{26.1, 44.43},
			Address:     "Central Square",
		},
		AlertCode:   event.AlertYellow,
		Description: "Broken traffic light",
		Tags:        []string{"traffic"},
	}
}

func TestParseAlertCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    event.AlertCode
		wantErr bool
	}{
		{in: "GREEN", want: event.AlertGreen},
		{in: "yellow", want: event.AlertYellow},
		{in: "Orange", want: event.AlertOrange},
		{in: "RED", want: event.AlertRed},
		{in: "PURPLE", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := event.ParseAlertCode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, event.ErrInvalidAlertCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocationValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		loc     event.Location
		wantErr bool
	}{
		{
			name: "valid point",
			loc:  event.Location{Type: "Point", Coordinates: []float64{26.1, 44.43}},
		},
		{
			name:    "wrong type",
			loc:     event.Location{Type: "Polygon", Coordinates: []float64{26.1, 44.43}},
			wantErr: true,
		},
		{
			name:    "too few coordinates",
			loc:     event.Location{Type: "Point", Coordinates: []float64{26.1}},
			wantErr: true,
		},
		{
			name:    "longitude out of range",
			loc:     event.Location{Type: "Point", Coordinates: []float64{181, 44.43}},
			wantErr: true,
		},
		{
			name:    "latitude out of range",
			loc:     event.Location{Type: "Point", Coordinates: []float64{26.1, -91}},
			wantErr: true,
		},
		{
			name: "boundary values accepted",
			loc:  event.Location{Type: "Point", Coordinates: []float64{-180, 90}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.loc.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, event.ErrInvalidLocation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateInputValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validCreateInput().Validate())
	})

	t.Run("invalid alert code", func(t *testing.T) {
		t.Parallel()
		in := validCreateInput()
		in.AlertCode = "BLUE"
		assert.ErrorIs(t, in.Validate(), event.ErrInvalidAlertCode)
	})

	t.Run("empty description accepted", func(t *testing.T) {
		t.Parallel()
		in := validCreateInput()
		in.Description = ""
		assert.NoError(t, in.Validate())
	})
}

func TestUpdateInputValidate(t *testing.T) {
	t.Parallel()

	t.Run("empty update is valid", func(t *testing.T) {
		t.Parallel()
		in := event.UpdateInput{}
		assert.NoError(t, in.Validate())
		assert.True(t, in.Empty())
	})

	t.Run("bad alert code rejected", func(t *testing.T) {
		t.Parallel()
		code := event.AlertCode("BLUE")
		in := event.UpdateInput{AlertCode: &code}
		assert.ErrorIs(t, in.Validate(), event.ErrInvalidAlertCode)
	})

	t.Run("bad location rejected", func(t *testing.T) {
		t.Parallel()
		loc := event.Location{Type: "Point", Coordinates: []float64{200, 0}}
		in := event.UpdateInput{Location: &loc}
		assert.ErrorIs(t, in.Validate(), event.ErrInvalidLocation)
	})
}

func TestToResponse(t *testing.T) {
	t.Parallel()

	t.Run("nil tags become empty slice", func(t *testing.T) {
		t.Parallel()
		resp := event.ToResponse(event.Event{Tags: nil})
		assert.NotNil(t, resp.Tags)
		assert.Empty(t, resp.Tags)
	})
}
