// Package geo holds the geodesic and unit helpers shared by the planner.
// Positions are (lon, lat) pairs in decimal degrees on the WGS84 ellipsoid.
package geo

import (
	"math"

	"github.com/tidwall/geodesic"
)

// Point is a geographic position in decimal degrees
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Distance returns the ellipsoidal geodesic distance between a and b in km.
func Distance(a, b Point) float64 {
	var meters float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &meters, nil, nil)
	return meters / 1000.0
}

// Bearing returns the initial true course from a to b in degrees [0, 360).
func Bearing(a, b Point) float64 {
	if a == b {
		return 0
	}
	var azi1 float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, nil, &azi1, nil)
	return math.Mod(azi1+360.0, 360.0)
}

// Destination solves the direct problem: the point reached from p after
// distKm along the geodesic with initial bearing bearingDeg.
func Destination(p Point, bearingDeg, distKm float64) Point {
	var lat2, lon2 float64
	geodesic.WGS84.Direct(p.Lat, p.Lon, bearingDeg, distKm*1000.0, &lat2, &lon2, nil)
	return Point{Lon: lon2, Lat: lat2}
}
