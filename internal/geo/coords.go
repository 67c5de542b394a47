package geo

import (
	"fmt"
	"math"
	"strconv"
)

// DDM is a position split into integer degrees and decimal minutes
type DDM struct {
	LonDeg  int
	LonMin  float64
	LonHemi byte // 'E' or 'W'
	LatDeg  int
	LatMin  float64
	LatHemi byte // 'N' or 'S'
}

// ToDDM splits p into integer degrees, decimal minutes and hemisphere.
func ToDDM(p Point) DDM {
	d := DDM{LonHemi: 'E', LatHemi: 'N'}
	if p.Lon < 0 {
		d.LonHemi = 'W'
	}
	if p.Lat < 0 {
		d.LatHemi = 'S'
	}

	absLon := math.Abs(p.Lon)
	absLat := math.Abs(p.Lat)
	d.LonDeg = int(math.Floor(absLon))
	d.LatDeg = int(math.Floor(absLat))
	d.LonMin = (absLon - float64(d.LonDeg)) * 60
	d.LatMin = (absLat - float64(d.LatDeg)) * 60
	return d
}

// FormatDDM renders p as "000°37.00W 52°04.33N".
func FormatDDM(p Point) string {
	d := ToDDM(p)
	return fmt.Sprintf("%03d°%05.2f%c %02d°%05.2f%c",
		d.LonDeg, d.LonMin, d.LonHemi, d.LatDeg, d.LatMin, d.LatHemi)
}

// ParseDDM parses the compact boundary notation DDMMmmHDDDMMmmH, e.g.
// "820000N0000000E", where mm are hundredths of a minute.
func ParseDDM(s string) (Point, error) {
	if len(s) != 15 {
		return Point{}, fmt.Errorf("invalid DDM string %q: want 15 characters, got %d", s, len(s))
	}

	lat, err := parseDDMPart(s[0:2], s[2:4], s[4:6])
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	switch s[6] {
	case 'N':
	case 'S':
		lat = -lat
	default:
		return Point{}, fmt.Errorf("invalid latitude hemisphere %q in %q", s[6], s)
	}

	lon, err := parseDDMPart(s[7:10], s[10:12], s[12:14])
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	switch s[14] {
	case 'E':
	case 'W':
		lon = -lon
	default:
		return Point{}, fmt.Errorf("invalid longitude hemisphere %q in %q", s[14], s)
	}

	return Point{Lon: lon, Lat: lat}, nil
}

func parseDDMPart(deg, min, hundredths string) (float64, error) {
	d, err := strconv.Atoi(deg)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(min)
	if err != nil {
		return 0, err
	}
	h, err := strconv.Atoi(hundredths)
	if err != nil {
		return 0, err
	}
	return float64(d) + (float64(m)+float64(h)/100.0)/60.0, nil
}
