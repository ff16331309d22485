package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#1976d2")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 25, G: 118, B: 210, A: 1}, c)

	c, err = ParseColor("1976D2")
	require.NoError(t, err)
	assert.Equal(t, "#1976d2", c.Hex())

	c, err = ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 255, G: 255, B: 255, A: 1}, c)

	_, err = ParseColor("#zzzzzz")
	require.Error(t, err)

	_, err = ParseColor("")
	require.Error(t, err)
}

func TestMustParseColor_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseColor("not a color") })
}

func TestColor_WithOpacity(t *testing.T) {
	base := Color{R: 1, G: 2, B: 3, A: 1}

	assert.Equal(t, 0.5, base.WithOpacity(0.5).A)
	assert.Equal(t, 1.0, base.WithOpacity(3).A)
	assert.Equal(t, 0.0, base.WithOpacity(-1).A)
	assert.Equal(t, 1.0, base.A, "base is not modified")
}

func TestColor_String(t *testing.T) {
	c := Color{R: 25, G: 118, B: 210, A: 1}

	assert.Equal(t, "rgb(25, 118, 210)", c.String())
	assert.Equal(t, "rgba(25, 118, 210, 0.3)", c.WithOpacity(0.3).String())
	assert.Equal(t, "rgba(25, 118, 210, 0.6667)", c.WithOpacity(2.0/3.0).String())
}

func TestColor_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(RegionVisual{Name: "Goa", Color: Color{R: 25, G: 118, B: 210, A: 0.5}})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"color":"rgba(25, 118, 210, 0.5)"`)
}

func TestNewNavigationEvent(t *testing.T) {
	at := time.Date(2026, time.March, 3, 9, 30, 0, 0, time.UTC)
	t.Cleanup(SetClock(clockwork.NewFakeClockAt(at)))

	event := NewNavigationEvent(countryScope, "MH", "Maharashtra")

	_, err := uuid.Parse(event.ID)
	require.NoError(t, err)
	assert.Equal(t, countryScope, event.From)
	assert.Equal(t, "MH", event.Target)
	assert.Equal(t, "Maharashtra", event.StateName)
	assert.Equal(t, "/warehouse?stateCode=MH", event.Path)
	assert.Equal(t, at, event.EmittedAt)
}

func TestSetClock_Restore(t *testing.T) {
	first := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	restoreFirst := SetClock(clockwork.NewFakeClockAt(first))
	defer restoreFirst()

	restoreSecond := SetClock(clockwork.NewFakeClockAt(second))
	assert.Equal(t, second, NewNavigationEvent(countryScope, "KA", "Karnataka").EmittedAt)

	restoreSecond()
	assert.Equal(t, first, NewNavigationEvent(countryScope, "KA", "Karnataka").EmittedAt)
}

func TestScope(t *testing.T) {
	s := NewScope(IndiaCode, "")
	assert.True(t, s.IsCountry())
	assert.Equal(t, IndiaCode, s.Code())
	assert.Equal(t, "IN", s.String())

	s = NewScope(IndiaCode, "in")
	assert.True(t, s.IsCountry())

	s = NewScope(IndiaCode, " mh ")
	assert.False(t, s.IsCountry())
	assert.Equal(t, "MH", s.Code())
	assert.Equal(t, "IN/MH", s.String())
}
