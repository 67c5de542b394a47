package route

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Canonical text format: the route name on the first line, then one line per
// waypoint with fields name, lon, lat, alt, legtype, desc.
const (
	fieldSeparator  = ","
	waypointFields  = 6
	displayNameSize = 6

	// MaxLineBytes bounds a single line of the canonical format
	MaxLineBytes = 2 << 20
)

// FormatWayPoint renders one waypoint line of the canonical format
func FormatWayPoint(wp WayPoint) string {
	return fmt.Sprintf("%-6s, % 7.3f, % 6.3f, %5.0f, %s, %s",
		displayName(wp.Name), wp.Lon, wp.Lat, wp.Alt, wp.LegType, wp.Desc)
}

func displayName(name string) string {
	r := []rune(name)
	if len(r) > displayNameSize {
		r = r[:displayNameSize]
	}
	return string(r)
}

// ParseWayPoint parses one waypoint line of the canonical format
func ParseWayPoint(line string) (WayPoint, error) {
	fields := strings.Split(line, fieldSeparator)
	if len(fields) != waypointFields {
		return WayPoint{}, fmt.Errorf("expected %d fields, got %d", waypointFields, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	var nums [3]float64
	for i, label := range []string{"lon", "lat", "alt"} {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return WayPoint{}, fmt.Errorf("invalid %s %q: %w", label, fields[i+1], err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return WayPoint{}, fmt.Errorf("invalid %s %q: not finite", label, fields[i+1])
		}
		nums[i] = v
	}

	return WayPoint{
		Name:    fields[0],
		Lon:     nums[0],
		Lat:     nums[1],
		Alt:     nums[2],
		LegType: fields[4],
		Desc:    fields[5],
	}, nil
}

// Encode writes name and waypoints in the canonical format. Fields that
// would not survive a round trip are rejected before anything is written.
// Waypoint names are written in their six-character display form.
func Encode(w io.Writer, name string, waypoints []WayPoint) error {
	if strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("route name %q: %w", name, ErrInvalidField)
	}
	for i, wp := range waypoints {
		for _, f := range []string{wp.Name, wp.Desc, wp.LegType} {
			if strings.ContainsAny(f, ",\r\n") {
				return fmt.Errorf("waypoint %d field %q: %w", i, f, ErrInvalidField)
			}
		}
		// decoding trims fields
		for _, f := range []string{wp.Desc, wp.LegType} {
			if f != strings.TrimSpace(f) {
				return fmt.Errorf("waypoint %d field %q has surrounding whitespace: %w", i, f, ErrInvalidField)
			}
		}
	}

	var b strings.Builder
	b.WriteString(name)
	for _, wp := range waypoints {
		b.WriteString("\n")
		b.WriteString(FormatWayPoint(wp))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Decode reads a route name and waypoints in the canonical format. Blank
// lines are skipped; any malformed line abandons the whole load.
func Decode(r io.Reader) (string, []WayPoint, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", nil, &ParseError{Line: 1, Err: err}
		}
		return "", nil, &ParseError{Line: 1, Err: errors.New("missing route name")}
	}
	name := strings.TrimRight(scanner.Text(), "\r")

	var waypoints []WayPoint
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		wp, err := ParseWayPoint(line)
		if err != nil {
			return "", nil, &ParseError{Line: lineNo, Err: err}
		}
		waypoints = append(waypoints, wp)
	}
	if err := scanner.Err(); err != nil {
		return "", nil, &ParseError{Line: lineNo + 1, Err: err}
	}

	return name, waypoints, nil
}

// MarshalText implements encoding.TextMarshaler with the canonical format
func (r *Route) MarshalText() ([]byte, error) {
	var b strings.Builder
	if err := Encode(&b, r.name, r.waypoints); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
