package geo

import (
	"fmt"
	"math"
)

// Conversion factors
const (
	KM_PER_NM       = 1.852  // Kilometres per nautical mile
	METERS_PER_FOOT = 0.3048 // Metres per foot
)

// KmToNM converts kilometres to nautical miles
func KmToNM(km float64) float64 {
	return km / KM_PER_NM
}

// NMToKm converts nautical miles to kilometres
func NMToKm(nm float64) float64 {
	return nm * KM_PER_NM
}

// FeetToMeters converts feet to metres
func FeetToMeters(feet float64) float64 {
	return feet * METERS_PER_FOOT
}

// MetersToFeet converts metres to feet
func MetersToFeet(meters float64) float64 {
	return meters / METERS_PER_FOOT
}

// FormatHours renders decimal hours as "<H>hr<M>min". Minutes are rounded;
// a rounded 60 carries into the hour.
func FormatHours(hours float64) string {
	h := math.Floor(hours)
	m := math.Round((hours - h) * 60)
	if m >= 60 {
		h++
		m -= 60
	}
	return fmt.Sprintf("%dhr%dmin", int(h), int(m))
}
