package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/flightplanner/internal/geo"
)

func TestNearestAirportFirstMatchWins(t *testing.T) {
	west := Airport{Code: "WEST", Lon: 0, Lat: 0}
	east := Airport{Code: "EAST", Lon: 0.05, Lat: 0}
	p := geo.Point{Lon: 0.045, Lat: 0} // ~0.6 km from EAST, ~5 km from WEST

	a, ok := NearestAirport(p, []Airport{west, east}, 10)
	require.True(t, ok)
	assert.Equal(t, "WEST", a.Code, "registration order beats proximity")

	a, ok = NearestAirport(p, []Airport{east, west}, 10)
	require.True(t, ok)
	assert.Equal(t, "EAST", a.Code)

	a, ok = NearestAirport(p, []Airport{west, east}, 2)
	require.True(t, ok)
	assert.Equal(t, "EAST", a.Code, "only EAST within the tighter radius")

	_, ok = NearestAirport(geo.Point{Lon: 5, Lat: 5}, []Airport{west, east}, 10)
	assert.False(t, ok)

	_, ok = NearestAirport(p, nil, 10)
	assert.False(t, ok)
}

func TestNearestOtherWaypoint(t *testing.T) {
	candidates := []WayPoint{
		{Name: "A", Lon: 10, Lat: 50},
		{Name: "B", Lon: 10.01, Lat: 50},
		{Name: "C", Lon: 10.02, Lat: 50},
	}

	i, ok := NearestOtherWaypoint(geo.Point{Lon: 10.02, Lat: 50}, candidates, 5)
	require.True(t, ok)
	assert.Equal(t, 0, i, "first candidate inside the radius")

	i, ok = NearestOtherWaypoint(geo.Point{Lon: 10.02, Lat: 50}, candidates, 0.1)
	require.True(t, ok)
	assert.Equal(t, 2, i)

	i, ok = NearestOtherWaypoint(geo.Point{Lon: 12, Lat: 50}, candidates, 5)
	assert.False(t, ok)
	assert.Equal(t, -1, i)
}

func TestLockSnapsToAirport(t *testing.T) {
	clicked := WayPoint{Lon: -0.6, Lat: 52.1, Alt: 4000, Name: "B0612a", Desc: "near base", LegType: "science"}

	locked := Lock(clicked, testAirports, 10)
	assert.Equal(t, WayPoint{
		Lon:     -0.616667,
		Lat:     52.0722,
		Alt:     358,
		Name:    "CRAN",
		Desc:    "",
		LegType: "science",
	}, locked)

	assert.Equal(t, locked, Lock(locked, testAirports, 10), "locking is idempotent")
}

func TestLockLeavesDistantWaypoint(t *testing.T) {
	wp := WayPoint{Lon: 5, Lat: 50, Alt: 2000, Name: "A0612a", Desc: "turn", LegType: "transit"}
	assert.Equal(t, wp, Lock(wp, testAirports, 10))
	assert.Equal(t, wp, Lock(wp, nil, 10))
}
