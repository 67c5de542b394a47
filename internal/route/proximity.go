package route

import "github.com/yegors/flightplanner/internal/geo"

// NearestAirport returns the first airport, in registration order, closer
// than tolKm to p. It is not necessarily the closest one when radii overlap.
func NearestAirport(p geo.Point, airports []Airport, tolKm float64) (Airport, bool) {
	for _, a := range airports {
		if geo.Distance(p, a.Point()) < tolKm {
			return a, true
		}
	}
	return Airport{}, false
}

// NearestOtherWaypoint returns the index of the first candidate closer than
// tolKm to p, with the same first-match rule as NearestAirport.
func NearestOtherWaypoint(p geo.Point, candidates []WayPoint, tolKm float64) (int, bool) {
	for i, c := range candidates {
		if geo.Distance(p, c.Point()) < tolKm {
			return i, true
		}
	}
	return -1, false
}

// Lock snaps wp to an airport within tolKm. The result takes the airport's
// position, elevation and code, has an empty description and keeps the leg
// type of wp. Without a match wp is returned unchanged.
func Lock(wp WayPoint, airports []Airport, tolKm float64) WayPoint {
	a, ok := NearestAirport(wp.Point(), airports, tolKm)
	if !ok {
		return wp
	}
	locked := a.WayPoint()
	locked.LegType = wp.LegType
	return locked
}

// IsAirportLocked reports whether wp sits within tolKm of any airport
func IsAirportLocked(wp WayPoint, airports []Airport, tolKm float64) bool {
	_, ok := NearestAirport(wp.Point(), airports, tolKm)
	return ok
}
