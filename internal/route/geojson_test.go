package route

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/flightplanner/internal/geo"
)

func TestFeatureCollection(t *testing.T) {
	a := WayPoint{Lon: 4, Lat: 50, Alt: 2000, Name: "A0612a", LegType: "science"}
	r := NewRoute("0612a", testAircraft, cran(), a, inn())

	fc, err := r.FeatureCollection()
	require.NoError(t, err)
	require.Len(t, fc.Features, 3+2+1)

	kinds := map[string]int{}
	for _, f := range fc.Features {
		kinds[f.Properties["kind"].(string)]++
	}
	assert.Equal(t, map[string]int{"waypoint": 3, "leg": 2, "track": 1}, kinds)

	wp := fc.Features[1]
	assert.Equal(t, orb.Point{4, 50}, wp.Geometry)
	assert.Equal(t, "A0612a", wp.Properties["name"])
	assert.Equal(t, 2000.0, wp.Properties["alt_ft"])

	leg := fc.Features[4]
	assert.Equal(t, "science", leg.Properties["leg_type"])
	legs := r.Legs()
	assert.InDelta(t, geo.KmToNM(r.LegDistance(legs[1]))/194, leg.Properties["time_hr"].(float64), 1e-12)

	track := fc.Features[5]
	ls, ok := track.Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Len(t, ls, 3)
}

func TestFeatureCollectionShortRoutes(t *testing.T) {
	fc, err := NewRoute("0612a", testAircraft).FeatureCollection()
	require.NoError(t, err)
	assert.Empty(t, fc.Features)

	fc, err = NewRoute("0612a", testAircraft, cran()).FeatureCollection()
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1)
}

func TestFeatureCollectionUnknownLegType(t *testing.T) {
	odd := cran()
	odd.LegType = "ferry"
	_, err := NewRoute("0612a", testAircraft, odd, inn()).FeatureCollection()
	assert.ErrorIs(t, err, ErrUnknownLegType)
}

func TestIsochrones(t *testing.T) {
	hours := []float64{0.25, 0.5, 1, 2}
	fc := Isochrones(testAirports, []string{"INN", "NOPE"}, 270, hours, 36)
	require.Len(t, fc.Features, len(hours))

	for i, f := range fc.Features {
		assert.Equal(t, "INN", f.Properties["airport"])
		poly, ok := f.Geometry.(orb.Polygon)
		require.True(t, ok)
		require.Len(t, poly, 1)
		ring := poly[0]
		require.Len(t, ring, 37)
		assert.Equal(t, ring[0], ring[len(ring)-1])

		want := geo.NMToKm(270 * hours[i])
		for _, p := range ring {
			assert.InDelta(t, want, geo.Distance(testAirports[1].Point(), geo.Point{Lon: p[0], Lat: p[1]}), 1e-6)
		}
	}

	assert.Equal(t, "15m", fc.Features[0].Properties["label"])
	assert.Equal(t, "1h", fc.Features[2].Properties["label"])
}

func TestIsochroneLabel(t *testing.T) {
	assert.Equal(t, "45m", IsochroneLabel(0.75))
	assert.Equal(t, "3h", IsochroneLabel(3))
	assert.Equal(t, "1.5h", IsochroneLabel(1.5))
}
