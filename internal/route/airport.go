package route

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yegors/flightplanner/internal/geo"
)

// Airport is a registered field that waypoints lock to
type Airport struct {
	Code string  `json:"code" toml:"code"`
	Lon  float64 `json:"lon" toml:"lon"`
	Lat  float64 `json:"lat" toml:"lat"`
	Alt  float64 `json:"alt" toml:"alt"` // field elevation, feet

	// Position is an alternative to lon/lat in DDMMmmHDDDMMmmH notation,
	// resolved when the config is loaded
	Position string `json:"-" toml:"position"`
}

// Point returns the airport reference position
func (a Airport) Point() geo.Point {
	return geo.Point{Lon: a.Lon, Lat: a.Lat}
}

// WayPoint returns the canonical waypoint for the airport
func (a Airport) WayPoint() WayPoint {
	return NewWayPoint(a.Point(), a.Alt, a.Code)
}

// FindAirport looks up an airport by code
func FindAirport(airports []Airport, code string) (Airport, bool) {
	for _, a := range airports {
		if a.Code == code {
			return a, true
		}
	}
	return Airport{}, false
}

// Aircraft carries the cruise speed per leg type, in knots
type Aircraft struct {
	Name   string             `json:"name" toml:"name"`
	Speeds map[string]float64 `json:"speeds" toml:"speeds"`
}

// Speed returns the speed for a leg type
func (a Aircraft) Speed(legType string) (float64, error) {
	spd, ok := a.Speeds[legType]
	if !ok {
		return 0, &LegTypeError{LegType: legType, Aircraft: a.Name}
	}
	return spd, nil
}

// LegTypes lists the configured leg types, transit first then alphabetical
func (a Aircraft) LegTypes() []string {
	types := make([]string, 0, len(a.Speeds))
	for t := range a.Speeds {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i] == DefaultLegType || types[j] == DefaultLegType {
			return types[i] == DefaultLegType
		}
		return types[i] < types[j]
	})
	return types
}

// Validate checks the speed table is usable for leg metrics
func (a Aircraft) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("aircraft name is empty")
	}
	if _, ok := a.Speeds[DefaultLegType]; !ok {
		return fmt.Errorf("aircraft %s has no %q speed", a.Name, DefaultLegType)
	}
	for t, spd := range a.Speeds {
		if spd <= 0 {
			return fmt.Errorf("aircraft %s: %s speed must be positive, got %v", a.Name, t, spd)
		}
		if strings.ContainsAny(t, ",\n") {
			return fmt.Errorf("aircraft %s: leg type %q contains a separator", a.Name, t)
		}
	}
	return nil
}
