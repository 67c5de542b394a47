package briefing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/flightplanner/internal/geo"
	"github.com/yegors/flightplanner/internal/route"
	"github.com/yegors/flightplanner/pkg/logger"
)

var faam = route.Aircraft{Name: "FAAM", Speeds: map[string]float64{"transit": 270, "science": 194}}

func sortie() *route.Route {
	return route.NewRoute("0612a", faam,
		route.WayPoint{Name: "CRAN", Lon: -0.616667, Lat: 52.0722, Alt: 358, LegType: "transit"},
		route.WayPoint{Name: "A0612a", Lon: 4, Lat: 50, Alt: 2000, LegType: "science", Desc: "profile"},
		route.WayPoint{Name: "INN", Lon: 11.343889, Lat: 47.260278, Alt: 1906, LegType: "transit"},
	)
}

type fakeDrafter struct {
	text        string
	err         error
	calls       int
	hadDeadline bool
}

func (f *fakeDrafter) Draft(ctx context.Context, brief string) (string, error) {
	f.calls++
	_, f.hadDeadline = ctx.Deadline()
	return f.text, f.err
}

func TestBuildContext(t *testing.T) {
	generated := time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC)
	sc, err := BuildContext(sortie(), generated)
	require.NoError(t, err)

	assert.Equal(t, "CRAN", sc.Base)
	assert.Equal(t, "INN", sc.End)
	assert.Equal(t, "FAAM", sc.Aircraft)
	require.Len(t, sc.Waypoints, 3)

	first := sc.Waypoints[0]
	assert.Equal(t, "000°37.00W", first.Lon)
	assert.Equal(t, "52°04.33N", first.Lat)
	assert.Zero(t, first.ElapsedHr)
	assert.Equal(t, "0hr0min", first.Elapsed)

	r := sortie()
	cum, err := r.CumulativeTime()
	require.NoError(t, err)
	assert.Equal(t, cum[0], sc.Waypoints[1].ElapsedHr)
	assert.Equal(t, cum[1], sc.Waypoints[2].ElapsedHr)
	assert.Equal(t, sc.TimeHr, sc.Waypoints[2].ElapsedHr, "last arrival is the total time")
	assert.InDelta(t, geo.KmToNM(r.TotalDistance()), sc.DistanceNM, 1e-9)
}

func TestBuildContextEmptyRoute(t *testing.T) {
	sc, err := BuildContext(route.NewRoute("0612a", faam), time.Now())
	require.NoError(t, err)
	assert.Empty(t, sc.Base)
	assert.Empty(t, sc.Waypoints)

	_, err = Render(sc)
	assert.NoError(t, err)
}

func TestBuildContextUnknownLegType(t *testing.T) {
	r := route.NewRoute("0612a", faam,
		route.WayPoint{Name: "A", Lon: 0, Lat: 50, LegType: "ferry"},
		route.WayPoint{Name: "B", Lon: 1, Lat: 50, LegType: "transit"},
	)
	_, err := BuildContext(r, time.Now())
	assert.ErrorIs(t, err, route.ErrUnknownLegType)
}

func TestRender(t *testing.T) {
	sc, err := BuildContext(sortie(), time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	text, err := Render(sc)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	assert.Equal(t, "Sortie brief: 0612a", lines[0])
	assert.Equal(t, "Aircraft: FAAM (transit: 270kts, science: 194kts)", lines[1])
	assert.Equal(t, "Route: CRAN -> INN", lines[2])
	assert.Equal(t, "Estimated flight time: "+sc.Time, lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "Total distance: "))
	assert.Equal(t, "Generated: 2024-06-12 09:30Z", lines[5])
	assert.Empty(t, lines[6])
	assert.True(t, strings.HasPrefix(lines[7], "Code    Lon"))
	require.Len(t, lines, 11)

	assert.True(t, strings.HasPrefix(lines[8], "CRAN    000°37.00W  52°04.33N"))
	assert.True(t, strings.HasSuffix(lines[8], "0hr0min"), "empty description is trimmed")
	assert.True(t, strings.HasSuffix(lines[9], "profile"))
	assert.Contains(t, lines[9], "science")
	assert.NotContains(t, text, "Narrative:")
}

func TestGenerateWithoutDraft(t *testing.T) {
	d := &fakeDrafter{text: "unused"}
	g := NewGenerator(d, time.Second, logger.NewNop())

	brief, err := g.Generate(context.Background(), sortie(), false)
	require.NoError(t, err)
	assert.False(t, brief.Drafted)
	assert.Zero(t, d.calls)

	g = NewGenerator(nil, time.Second, logger.NewNop())
	assert.False(t, g.CanDraft())
	brief, err = g.Generate(context.Background(), sortie(), true)
	require.NoError(t, err)
	assert.False(t, brief.Drafted)
}

func TestGenerateWithDraft(t *testing.T) {
	d := &fakeDrafter{text: "Transit south-east to the science area."}
	g := NewGenerator(d, 5*time.Second, logger.NewNop())
	require.True(t, g.CanDraft())

	brief, err := g.Generate(context.Background(), sortie(), true)
	require.NoError(t, err)
	assert.True(t, brief.Drafted)
	assert.Equal(t, 1, d.calls)
	assert.True(t, d.hadDeadline)
	assert.True(t, strings.HasSuffix(brief.Text, "\n\nNarrative:\nTransit south-east to the science area.\n"))
	assert.Equal(t, d.text, brief.Context.Narrative)
}

func TestGenerateDraftFailureFallsBack(t *testing.T) {
	d := &fakeDrafter{err: errors.New("rate limited")}
	g := NewGenerator(d, time.Second, logger.NewNop())

	brief, err := g.Generate(context.Background(), sortie(), true)
	require.NoError(t, err)
	assert.False(t, brief.Drafted)
	assert.NotContains(t, brief.Text, "Narrative:")
	assert.Empty(t, brief.Context.Narrative)
}
