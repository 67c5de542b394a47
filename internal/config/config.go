package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/yegors/flightplanner/internal/geo"
	"github.com/yegors/flightplanner/internal/route"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Logging    LoggingConfig    `toml:"logging"`
	Storage    StorageConfig    `toml:"storage"`
	Planner    PlannerConfig    `toml:"planner"`
	Briefing   BriefingConfig   `toml:"briefing"`
	Isochrones IsochroneConfig  `toml:"isochrones"`
	Aircraft   []route.Aircraft `toml:"aircraft"`
	Airports   []route.Airport  `toml:"airports"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host                string   `toml:"host"`
	Port                int      `toml:"port"`
	ReadTimeoutSeconds  int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `toml:"write_timeout_seconds"`
	CORSAllowedOrigins  []string `toml:"cors_allowed_origins"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// StorageConfig represents the route storage configuration
type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path"`
}

// PlannerConfig holds route editing tolerances and defaults
type PlannerConfig struct {
	DefaultRouteName   string  `toml:"default_route_name"`
	LockToleranceKm    float64 `toml:"lock_tolerance_km"`
	SnapToleranceKm    float64 `toml:"snap_tolerance_km"`
	RelabelToleranceKm float64 `toml:"relabel_tolerance_km"`
	FirstPointAltFt    float64 `toml:"first_point_alt_ft"`
	AltitudeStepFt     float64 `toml:"altitude_step_ft"`
}

// Policy converts the planner settings into an editor policy
func (p PlannerConfig) Policy() route.Policy {
	return route.Policy{
		LockToleranceKm:    p.LockToleranceKm,
		SnapToleranceKm:    p.SnapToleranceKm,
		RelabelToleranceKm: p.RelabelToleranceKm,
		FirstPointAltFt:    p.FirstPointAltFt,
		FirstPointLegType:  route.DefaultLegType,
		AltitudeStepFt:     p.AltitudeStepFt,
	}
}

// BriefingConfig configures sortie brief generation
type BriefingConfig struct {
	Enabled        bool   `toml:"enabled"`
	OpenAIAPIKey   string `toml:"openai_api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxTokens      int    `toml:"max_tokens"`
}

// IsochroneConfig selects the airports and hour radii drawn as isochrones
type IsochroneConfig struct {
	Airports []string  `toml:"airports"`
	Hours    []float64 `toml:"hours"`
	Segments int       `toml:"segments"`
}

// Default returns a configuration with every optional setting filled in
func Default() *Config {
	policy := route.DefaultPolicy()
	return &Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8080,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
		Storage: StorageConfig{
			SQLitePath: "data/flightplanner.db",
		},
		Planner: PlannerConfig{
			DefaultRouteName:   "MMDDa",
			LockToleranceKm:    policy.LockToleranceKm,
			SnapToleranceKm:    policy.SnapToleranceKm,
			RelabelToleranceKm: policy.RelabelToleranceKm,
			FirstPointAltFt:    policy.FirstPointAltFt,
			AltitudeStepFt:     policy.AltitudeStepFt,
		},
		Briefing: BriefingConfig{
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 30,
			MaxTokens:      600,
		},
		Isochrones: IsochroneConfig{
			Hours:    []float64{0.25, 0.5, 0.75, 1, 2, 3},
			Segments: 72,
		},
	}
}

// Load reads a TOML file over the defaults and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.applyEnv()

	if err := cfg.resolveAirports(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults, for tests and embedded configs
func Parse(text string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.resolveAirports(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Briefing.OpenAIAPIKey = key
	}
	if path := os.Getenv("FLIGHTPLANNER_DB"); path != "" {
		c.Storage.SQLitePath = path
	}
}

// resolveAirports fills lon/lat of airports given by position string
func (c *Config) resolveAirports() error {
	for i := range c.Airports {
		a := &c.Airports[i]
		if a.Position == "" {
			continue
		}
		if a.Lon != 0 || a.Lat != 0 {
			return fmt.Errorf("airport %s sets both position and lon/lat", a.Code)
		}
		p, err := geo.ParseDDM(a.Position)
		if err != nil {
			return fmt.Errorf("airport %s: %w", a.Code, err)
		}
		a.Lon, a.Lat = p.Lon, p.Lat
	}
	return nil
}

// Validate checks the configuration is complete and consistent
func (c *Config) Validate() error {
	if len(c.Aircraft) == 0 {
		return fmt.Errorf("at least one [[aircraft]] entry is required")
	}
	seenAircraft := make(map[string]bool)
	for _, a := range c.Aircraft {
		if err := a.Validate(); err != nil {
			return err
		}
		if seenAircraft[a.Name] {
			return fmt.Errorf("duplicate aircraft %s", a.Name)
		}
		seenAircraft[a.Name] = true
	}

	seenAirports := make(map[string]bool)
	for _, a := range c.Airports {
		if a.Code == "" || strings.ContainsAny(a.Code, ",\n ") {
			return fmt.Errorf("invalid airport code %q", a.Code)
		}
		if seenAirports[a.Code] {
			return fmt.Errorf("duplicate airport %s", a.Code)
		}
		if a.Lat < -90 || a.Lat > 90 || a.Lon < -180 || a.Lon > 180 {
			return fmt.Errorf("airport %s position out of range", a.Code)
		}
		seenAirports[a.Code] = true
	}

	for _, code := range c.Isochrones.Airports {
		if !seenAirports[code] {
			return fmt.Errorf("isochrone airport %s is not configured", code)
		}
	}

	p := c.Planner
	if p.LockToleranceKm <= 0 || p.SnapToleranceKm <= 0 || p.RelabelToleranceKm <= 0 {
		return fmt.Errorf("planner tolerances must be positive")
	}
	if p.SnapToleranceKm > p.LockToleranceKm {
		return fmt.Errorf("planner snap_tolerance_km must not exceed lock_tolerance_km")
	}
	if p.AltitudeStepFt < 0 {
		return fmt.Errorf("planner altitude_step_ft must not be negative")
	}
	if strings.ContainsAny(p.DefaultRouteName, ",\n") {
		return fmt.Errorf("default_route_name %q contains a separator", p.DefaultRouteName)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// DefaultAircraft returns the first configured aircraft
func (c *Config) DefaultAircraft() route.Aircraft {
	return c.Aircraft[0]
}

// FindAircraft looks up an aircraft by name
func (c *Config) FindAircraft(name string) (route.Aircraft, bool) {
	for _, a := range c.Aircraft {
		if a.Name == name {
			return a, true
		}
	}
	return route.Aircraft{}, false
}
