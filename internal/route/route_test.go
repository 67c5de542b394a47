package route

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/flightplanner/internal/geo"
)

var (
	testAirports = []Airport{
		{Code: "CRAN", Lon: -0.616667, Lat: 52.0722, Alt: 358},
		{Code: "INN", Lon: 11.343889, Lat: 47.260278, Alt: 1906},
	}
	testAircraft = Aircraft{
		Name:   "FAAM",
		Speeds: map[string]float64{"transit": 270, "science": 194, "special": 170},
	}
)

func cran() WayPoint { return testAirports[0].WayPoint() }
func inn() WayPoint  { return testAirports[1].WayPoint() }

func TestLegCountInvariant(t *testing.T) {
	wps := []WayPoint{cran(), inn(), cran(), inn()}
	for n := 0; n <= len(wps); n++ {
		r := NewRoute("0612a", testAircraft, wps[:n]...)
		want := n - 1
		if want < 0 {
			want = 0
		}
		assert.Len(t, r.Legs(), want, "n=%d", n)
		assert.Len(t, r.CumulativeDistance(), want, "n=%d", n)
	}
}

func TestCranfieldToInnsbruck(t *testing.T) {
	r := NewRoute("0612a", testAircraft, cran(), inn())

	legs := r.Legs()
	require.Len(t, legs, 1)
	assert.Equal(t, "CRAN", legs[0].From.Name)
	assert.Equal(t, "INN", legs[0].To.Name)

	dist := r.LegDistance(legs[0])
	assert.InDelta(t, 1014.0, dist, 2.0)

	hours, err := r.LegTime(legs[0])
	require.NoError(t, err)
	assert.InDelta(t, dist/1.852/270, hours, 1e-12)

	assert.InDelta(t, dist, r.TotalDistance(), 1e-12)
	total, err := r.TotalTime()
	require.NoError(t, err)
	assert.InDelta(t, hours, total, 1e-12)
}

func TestCumulativeMetrics(t *testing.T) {
	science := inn()
	science.LegType = "science"
	r := NewRoute("0612a", testAircraft, cran(), science, cran())

	legs := r.Legs()
	require.Len(t, legs, 2)
	d0, d1 := r.LegDistance(legs[0]), r.LegDistance(legs[1])
	assert.InDelta(t, d0, d1, 1e-6)

	cum := r.CumulativeDistance()
	assert.InDelta(t, d0, cum[0], 1e-9)
	assert.InDelta(t, d0+d1, cum[1], 1e-9)
	assert.InDelta(t, d0+d1, r.TotalDistance(), 1e-9)

	times, err := r.CumulativeTime()
	require.NoError(t, err)
	t0 := geo.KmToNM(d0) / 270
	t1 := geo.KmToNM(d1) / 194
	assert.InDelta(t, t0, times[0], 1e-12)
	assert.InDelta(t, t0+t1, times[1], 1e-12)
}

func TestUnknownLegTypeFailsAtMetricTime(t *testing.T) {
	odd := cran()
	odd.LegType = "ferry"
	r := NewRoute("0612a", testAircraft, odd, inn())

	// distances never need a speed
	assert.Greater(t, r.TotalDistance(), 0.0)

	_, err := r.TotalTime()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLegType))

	var lte *LegTypeError
	require.True(t, errors.As(err, &lte))
	assert.Equal(t, "ferry", lte.LegType)
	assert.Equal(t, "FAAM", lte.Aircraft)

	_, err = r.CumulativeTime()
	assert.ErrorIs(t, err, ErrUnknownLegType)
	_, err = r.Summary()
	assert.ErrorIs(t, err, ErrUnknownLegType)
}

func TestReadersReturnCopies(t *testing.T) {
	wps := []WayPoint{cran(), inn()}
	r := NewRoute("0612a", testAircraft, wps...)

	wps[0].Name = "XXXX"
	got := r.WayPoints()
	got[1].Name = "YYYY"

	first, err := r.At(0)
	require.NoError(t, err)
	assert.Equal(t, "CRAN", first.Name)
	second, err := r.At(1)
	require.NoError(t, err)
	assert.Equal(t, "INN", second.Name)

	_, err = r.At(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	assert.Equal(t, []float64{-0.616667, 11.343889}, r.Lons())
	assert.Equal(t, []float64{52.0722, 47.260278}, r.Lats())
	assert.Equal(t, []float64{358, 1906}, r.Alts())
}

func TestSummaries(t *testing.T) {
	r := NewRoute("0612a", testAircraft, cran(), inn())

	assert.Equal(t, "transit: 270kts, science: 194kts, special: 170kts", r.SpeedsSummary())

	summary, err := r.Summary()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(summary, "547."), summary)
	assert.True(t, strings.HasSuffix(summary, "(transit: 270kts, science: 194kts, special: 170kts)"), summary)

	leg, err := r.LegSummary(0)
	require.NoError(t, err)
	assert.Contains(t, leg, "Leg 1: 547.")
	assert.Contains(t, leg, "[transit]")

	_, err = r.LegSummary(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	report, err := r.Format()
	require.NoError(t, err)
	lines := strings.Split(report, "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Name: 0612a", lines[0])
	assert.Equal(t, "Aircraft: FAAM", lines[1])
	assert.Equal(t, "Waypoints:", lines[3])
	assert.Equal(t, "  CRAN:\t000°37.00W 52°04.33N, 358ft [transit] ()", lines[4])
	assert.Equal(t, "Legs:", lines[6])
	assert.Contains(t, lines[7], "@ 270kts")
}

func TestDefaultFilename(t *testing.T) {
	assert.Equal(t, "0612a.dat", NewRoute("0612a", testAircraft).DefaultFilename())
}

func TestAircraftValidate(t *testing.T) {
	assert.NoError(t, testAircraft.Validate())
	assert.Error(t, Aircraft{Name: "X", Speeds: map[string]float64{"science": 100}}.Validate())
	assert.Error(t, Aircraft{Name: "X", Speeds: map[string]float64{"transit": 0}}.Validate())
	assert.Error(t, Aircraft{Speeds: map[string]float64{"transit": 100}}.Validate())
	assert.Error(t, Aircraft{Name: "X", Speeds: map[string]float64{"transit": 100, "a,b": 90}}.Validate())
}
