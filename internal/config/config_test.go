package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `
[[aircraft]]
name = "FAAM"
[aircraft.speeds]
transit = 270.0
science = 194.0
`

func TestLoadSampleConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("FLIGHTPLANNER_DB", "")

	cfg, err := Load(filepath.Join("..", "..", "configs", "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	require.Len(t, cfg.Aircraft, 2)
	assert.Equal(t, "FAAM", cfg.DefaultAircraft().Name)
	assert.Equal(t, 194.0, cfg.Aircraft[0].Speeds["science"])

	require.Len(t, cfg.Airports, 3)
	assert.Equal(t, "INN", cfg.Airports[1].Code)
	assert.Equal(t, 1906.0, cfg.Airports[1].Alt)
	assert.InDelta(t, 55.50567, cfg.Airports[2].Lat, 1e-5)
	assert.InDelta(t, -4.58533, cfg.Airports[2].Lon, 1e-5)

	policy := cfg.Planner.Policy()
	assert.Equal(t, 10.0, policy.LockToleranceKm)
	assert.Equal(t, 0.1, policy.RelabelToleranceKm)
	assert.Equal(t, "transit", policy.FirstPointLegType)

	masin, ok := cfg.FindAircraft("MASIN")
	require.True(t, ok)
	assert.Equal(t, 120.0, masin.Speeds["science"])
	_, ok = cfg.FindAircraft("BAe146")
	assert.False(t, ok)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("FLIGHTPLANNER_DB", "/tmp/routes.db")

	cfg, err := Load(filepath.Join("..", "..", "configs", "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.Briefing.OpenAIAPIKey)
	assert.Equal(t, "/tmp/routes.db", cfg.Storage.SQLitePath)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(minimal+"\n[planner]\nlock_radius = 4.0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planner.lock_radius")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse(minimal)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "MMDDa", cfg.Planner.DefaultRouteName)
	assert.Equal(t, 1000.0, cfg.Planner.FirstPointAltFt)
	assert.Equal(t, 72, cfg.Isochrones.Segments)
	assert.Empty(t, cfg.Airports)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		toml string
	}{
		{"no aircraft", `[server]
port = 8080`},
		{"no transit speed", `
[[aircraft]]
name = "FAAM"
[aircraft.speeds]
science = 194.0`},
		{"duplicate aircraft", minimal + minimal},
		{"duplicate airport", minimal + `
[[airports]]
code = "CRAN"
[[airports]]
code = "CRAN"`},
		{"airport code with comma", minimal + `
[[airports]]
code = "CR,AN"`},
		{"airport out of range", minimal + `
[[airports]]
code = "NOPE"
lat = 91.0`},
		{"isochrone airport missing", minimal + `
[isochrones]
airports = ["CRAN"]`},
		{"zero tolerance", minimal + `
[planner]
snap_tolerance_km = 0.0`},
		{"bad airport position", minimal + `
[[airports]]
code = "EGPK"
position = "5530N00435W"`},
		{"position and lon/lat", minimal + `
[[airports]]
code = "EGPK"
position = "553034N0043512W"
lat = 55.5`},
		{"snap wider than lock", minimal + `
[planner]
lock_tolerance_km = 5.0
snap_tolerance_km = 8.0`},
		{"bad port", minimal + `
[server]
port = 70000`},
	} {
		_, err := Parse(tc.toml)
		assert.Error(t, err, tc.name)
	}
}

func TestParseAirportPosition(t *testing.T) {
	cfg, err := Parse(minimal + `
[[airports]]
code = "HOBART"
position = "425010S1472950E"
alt = 13.0`)
	require.NoError(t, err)
	require.Len(t, cfg.Airports, 1)
	assert.InDelta(t, -(42 + 50.10/60), cfg.Airports[0].Lat, 1e-9)
	assert.InDelta(t, 147+29.50/60, cfg.Airports[0].Lon, 1e-9)
}
