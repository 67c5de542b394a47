// Package route holds the flight route model: waypoints, leg metrics,
// airport locking, the canonical text format and the editor that applies
// user edit intents to a route.
package route

import (
	"fmt"

	"github.com/yegors/flightplanner/internal/geo"
)

// DefaultLegType is the leg type every speed table must define
const DefaultLegType = "transit"

// WayPoint is a single position on a route. The leg type selects the speed
// used for the leg that starts at this waypoint.
type WayPoint struct {
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	Alt     float64 `json:"alt"` // feet
	Name    string  `json:"name"`
	Desc    string  `json:"desc"`
	LegType string  `json:"leg_type"`
}

// NewWayPoint creates a waypoint at p with the default leg type
func NewWayPoint(p geo.Point, alt float64, name string) WayPoint {
	return WayPoint{
		Lon:     p.Lon,
		Lat:     p.Lat,
		Alt:     alt,
		Name:    name,
		LegType: DefaultLegType,
	}
}

// Point returns the waypoint position
func (w WayPoint) Point() geo.Point {
	return geo.Point{Lon: w.Lon, Lat: w.Lat}
}

// At returns a copy of w moved to p
func (w WayPoint) At(p geo.Point) WayPoint {
	w.Lon = p.Lon
	w.Lat = p.Lat
	return w
}

// String is the human-readable form used in route reports
func (w WayPoint) String() string {
	return fmt.Sprintf("%s:\t%s, %.0fft [%s] (%s)",
		w.Name, geo.FormatDDM(w.Point()), w.Alt, w.LegType, w.Desc)
}
