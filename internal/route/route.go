package route

import (
	"github.com/yegors/flightplanner/internal/geo"
)

// Leg is a pair of consecutive waypoints
type Leg struct {
	From WayPoint `json:"from"`
	To   WayPoint `json:"to"`
}

// Route is an ordered sequence of waypoints flown by one aircraft.
// Waypoints are only changed through an Editor; readers get copies.
type Route struct {
	name      string
	aircraft  Aircraft
	waypoints []WayPoint
}

// NewRoute creates a route owning a copy of waypoints
func NewRoute(name string, aircraft Aircraft, waypoints ...WayPoint) *Route {
	return &Route{
		name:      name,
		aircraft:  aircraft,
		waypoints: append([]WayPoint(nil), waypoints...),
	}
}

// Name returns the route name
func (r *Route) Name() string { return r.name }

// Aircraft returns the aircraft whose speeds time the legs
func (r *Route) Aircraft() Aircraft { return r.aircraft }

// Len returns the number of waypoints
func (r *Route) Len() int { return len(r.waypoints) }

// At returns waypoint i
func (r *Route) At(i int) (WayPoint, error) {
	if err := r.checkIndex(i); err != nil {
		return WayPoint{}, err
	}
	return r.waypoints[i], nil
}

// WayPoints returns a copy of the waypoint sequence
func (r *Route) WayPoints() []WayPoint {
	return append([]WayPoint(nil), r.waypoints...)
}

// Lons returns the waypoint longitudes
func (r *Route) Lons() []float64 {
	out := make([]float64, len(r.waypoints))
	for i, wp := range r.waypoints {
		out[i] = wp.Lon
	}
	return out
}

// Lats returns the waypoint latitudes
func (r *Route) Lats() []float64 {
	out := make([]float64, len(r.waypoints))
	for i, wp := range r.waypoints {
		out[i] = wp.Lat
	}
	return out
}

// Alts returns the waypoint altitudes in feet
func (r *Route) Alts() []float64 {
	out := make([]float64, len(r.waypoints))
	for i, wp := range r.waypoints {
		out[i] = wp.Alt
	}
	return out
}

// Legs returns the consecutive waypoint pairs; empty for fewer than two waypoints
func (r *Route) Legs() []Leg {
	if len(r.waypoints) < 2 {
		return nil
	}
	legs := make([]Leg, len(r.waypoints)-1)
	for i := range legs {
		legs[i] = Leg{From: r.waypoints[i], To: r.waypoints[i+1]}
	}
	return legs
}

// LegDistance returns the geodesic length of l in km
func (r *Route) LegDistance(l Leg) float64 {
	return geo.Distance(l.From.Point(), l.To.Point())
}

// LegTime returns the time to fly l in hours at the speed of its starting leg type
func (r *Route) LegTime(l Leg) (float64, error) {
	spd, err := r.aircraft.Speed(l.From.LegType)
	if err != nil {
		return 0, err
	}
	return geo.KmToNM(r.LegDistance(l)) / spd, nil
}

// LegSpeed returns the speed in knots used for l
func (r *Route) LegSpeed(l Leg) (float64, error) {
	return r.aircraft.Speed(l.From.LegType)
}

// LegTrack returns the initial true course of l in degrees
func (r *Route) LegTrack(l Leg) float64 {
	return geo.Bearing(l.From.Point(), l.To.Point())
}

// TotalDistance returns the summed leg distances in km
func (r *Route) TotalDistance() float64 {
	var total float64
	for _, l := range r.Legs() {
		total += r.LegDistance(l)
	}
	return total
}

// CumulativeDistance returns the running leg distance total, one entry per leg
func (r *Route) CumulativeDistance() []float64 {
	legs := r.Legs()
	out := make([]float64, len(legs))
	var total float64
	for i, l := range legs {
		total += r.LegDistance(l)
		out[i] = total
	}
	return out
}

// TotalTime returns the summed leg times in hours
func (r *Route) TotalTime() (float64, error) {
	var total float64
	for _, l := range r.Legs() {
		t, err := r.LegTime(l)
		if err != nil {
			return 0, err
		}
		total += t
	}
	return total, nil
}

// CumulativeTime returns the running leg time total, one entry per leg
func (r *Route) CumulativeTime() ([]float64, error) {
	legs := r.Legs()
	out := make([]float64, len(legs))
	var total float64
	for i, l := range legs {
		t, err := r.LegTime(l)
		if err != nil {
			return nil, err
		}
		total += t
		out[i] = total
	}
	return out, nil
}

// DefaultFilename is the save name used when none is given
func (r *Route) DefaultFilename() string {
	return r.name + ".dat"
}

func (r *Route) checkIndex(i int) error {
	if i < 0 || i >= len(r.waypoints) {
		return &IndexError{Index: i, Len: len(r.waypoints)}
	}
	return nil
}
