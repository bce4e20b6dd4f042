package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition_Near(t *testing.T) {
	base := Position{X: 0.5, Y: 0.5}

	tests := []struct {
		name  string
		other Position
		want  bool
	}{
		{name: "identical", other: Position{X: 0.5, Y: 0.5}, want: true},
		{name: "within tolerance both axes", other: Position{X: 0.5000005, Y: 0.4999995}, want: true},
		{name: "x off by 1e-5", other: Position{X: 0.50001, Y: 0.5}, want: false},
		{name: "y off by 1e-5", other: Position{X: 0.5, Y: 0.50001}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Near(tc.other))
		})
	}
}

func TestDate_RoundTrip(t *testing.T) {
	d := NewDate(2025, time.September, 1)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-09-01"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, d.Equal(back.Time))
}

func TestFinding_NullDates(t *testing.T) {
	f := Finding{ID: 1, Title: "Crack in wall"}

	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"start_date":null`)
	assert.Contains(t, string(b), `"end_date":null`)

	var back Finding
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Nil(t, back.StartDate)
	assert.Nil(t, back.EndDate)
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "Verified", NormalizeStatus("Verified"))
	assert.Equal(t, "Unsafe", NormalizeStatus(""))
	assert.Equal(t, "Unsafe", NormalizeStatus("Totally Fine"))
}

func TestStatusOptions_MatchColors(t *testing.T) {
	require.Len(t, StatusOptions, 7)
	for _, s := range StatusOptions {
		_, ok := StatusColors[s]
		assert.True(t, ok, "status %q has no color", s)
	}
	assert.Equal(t, DefaultColor, StatusColor("nonsense"))
}

func TestPin_MergeFrom(t *testing.T) {
	existing := Pin{
		ID:       101,
		Name:     "Crack A",
		Status:   "Unsafe",
		Material: "Stone",
		Defect:   "Crack",
	}

	existing.MergeFrom(Pin{Status: "Verified", Defect: ""})

	assert.Equal(t, "Crack A", existing.Name)
	assert.Equal(t, "Verified", existing.Status)
	assert.Equal(t, "Stone", existing.Material)
	assert.Equal(t, "Crack", existing.Defect)
}

func TestFindingFromPin_Defaults(t *testing.T) {
	f := FindingFromPin(Pin{ID: 101, Material: "Stone", Defect: "Crack", Status: "bogus"})

	assert.Equal(t, DefaultPinTitle, f.Title)
	assert.Equal(t, StatusOptions[0], f.Status)
	assert.Equal(t, DefaultFindingColor, f.Color)
	assert.Equal(t, DefaultFindingCategory, f.Category)
	assert.Equal(t, 101, f.PinID)
	assert.Empty(t, f.Assignee)
	assert.NotNil(t, f.Photos)
}

func TestDecodeLegacyMessage(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	m, ok := DecodeLegacyMessage(json.RawMessage(`"hello"`), now)
	require.True(t, ok)
	assert.Equal(t, MessageTypeText, m.Type)
	assert.Equal(t, "hello", m.Text)
	assert.Equal(t, "2025-09-01 12:00:00", m.Date)

	m, ok = DecodeLegacyMessage(json.RawMessage(`{"type":"photo","path":"p.jpg","author":"A"}`), now)
	require.True(t, ok)
	assert.Equal(t, MessageTypePhoto, m.Type)
	assert.Equal(t, "p.jpg", m.Path)

	_, ok = DecodeLegacyMessage(json.RawMessage(`42`), now)
	assert.False(t, ok)
}
