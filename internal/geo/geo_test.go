package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cranfield = Point{Lon: -0.616667, Lat: 52.0722}
	innsbruck = Point{Lon: 11.343889, Lat: 47.260278}
)

func TestDistanceCranfieldInnsbruck(t *testing.T) {
	d := Distance(cranfield, innsbruck)
	assert.InDelta(t, 1014.0, d, 2.0)
}

func TestDistanceSymmetryAndIdentity(t *testing.T) {
	points := []Point{
		cranfield,
		innsbruck,
		{Lon: 0, Lat: 0},
		{Lon: 179.5, Lat: -45},
		{Lon: -179.5, Lat: -45},
		{Lon: 15, Lat: 78},
	}
	for _, a := range points {
		assert.Equal(t, 0.0, Distance(a, a), "identity %v", a)
		for _, b := range points {
			assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9, "%v %v", a, b)
		}
	}
}

func TestDistanceAcrossAntimeridian(t *testing.T) {
	d := Distance(Point{Lon: 179.5, Lat: 0}, Point{Lon: -179.5, Lat: 0})
	assert.InDelta(t, 111.3, d, 0.5)
}

func TestDestinationInvertsDistance(t *testing.T) {
	p := Destination(Point{}, 90, 111.319)
	assert.InDelta(t, 1.0, p.Lon, 1e-3)
	assert.InDelta(t, 0.0, p.Lat, 1e-9)

	for _, bearing := range []float64{10, 45, 135, 270} {
		q := Destination(cranfield, bearing, 250)
		assert.InDelta(t, 250.0, Distance(cranfield, q), 1e-6, "bearing %v", bearing)
		assert.InDelta(t, bearing, Bearing(cranfield, q), 1e-6, "bearing %v", bearing)
	}
}

func TestBearing(t *testing.T) {
	assert.InDelta(t, 90.0, Bearing(Point{0, 0}, Point{1, 0}), 1e-9)
	assert.InDelta(t, 270.0, Bearing(Point{1, 0}, Point{0, 0}), 1e-9)
	assert.InDelta(t, 180.0, Bearing(Point{0, 0}, Point{0, -1}), 1e-9)
	assert.Equal(t, 0.0, Bearing(cranfield, cranfield))
}

func TestUnitConversions(t *testing.T) {
	assert.InDelta(t, 1.0, KmToNM(1.852), 1e-12)
	assert.InDelta(t, 1.852, NMToKm(1), 1e-12)
	assert.InDelta(t, 304.8, FeetToMeters(1000), 1e-9)
	assert.InDelta(t, 1000.0, MetersToFeet(304.8), 1e-9)
}

func TestFormatHours(t *testing.T) {
	for _, tc := range []struct {
		hours float64
		want  string
	}{
		{0, "0hr0min"},
		{1.5, "1hr30min"},
		{2.25, "2hr15min"},
		{0.999, "1hr0min"},
		{3.0 + 59.6/60, "4hr0min"},
		{0.0083, "0hr0min"},
	} {
		assert.Equal(t, tc.want, FormatHours(tc.hours), "%v", tc.hours)
	}
}

func TestFormatDDM(t *testing.T) {
	assert.Equal(t, "000°37.00W 52°04.33N", FormatDDM(cranfield))
	assert.Equal(t, "011°20.63E 47°15.62N", FormatDDM(innsbruck))
	assert.Equal(t, "010°00.00W 33°30.00S", FormatDDM(Point{Lon: -10, Lat: -33.5}))
}

func TestParseDDM(t *testing.T) {
	p, err := ParseDDM("820000N0000000E")
	require.NoError(t, err)
	assert.InDelta(t, 82.0, p.Lat, 1e-12)
	assert.InDelta(t, 0.0, p.Lon, 1e-12)

	p, err = ParseDDM("543400N0100000W")
	require.NoError(t, err)
	assert.InDelta(t, 54.566666, p.Lat, 1e-5)
	assert.InDelta(t, -10.0, p.Lon, 1e-12)

	p, err = ParseDDM("452030S0151530E")
	require.NoError(t, err)
	assert.InDelta(t, -(45 + 20.30/60), p.Lat, 1e-9)
	assert.InDelta(t, 15+15.30/60, p.Lon, 1e-9)

	for _, bad := range []string{"", "820000N0000000", "820000X0000000E", "820000N0000000Q", "8A0000N0000000E"} {
		_, err := ParseDDM(bad)
		assert.Error(t, err, bad)
	}
}
