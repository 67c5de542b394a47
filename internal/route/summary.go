package route

import (
	"fmt"
	"strings"

	"github.com/yegors/flightplanner/internal/geo"
)

// SpeedsSummary lists the aircraft speeds, e.g. "transit: 270kts, science: 194kts"
func (r *Route) SpeedsSummary() string {
	parts := make([]string, 0, len(r.aircraft.Speeds))
	for _, t := range r.aircraft.LegTypes() {
		parts = append(parts, fmt.Sprintf("%s: %gkts", t, r.aircraft.Speeds[t]))
	}
	return strings.Join(parts, ", ")
}

// Summary is the one-line total, e.g. "561.2nm, 2hr5min (transit: 270kts)"
func (r *Route) Summary() (string, error) {
	hours, err := r.TotalTime()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.1fnm, %s (%s)",
		geo.KmToNM(r.TotalDistance()), geo.FormatHours(hours), r.SpeedsSummary()), nil
}

// LegSummary describes leg i (zero based), e.g. "Leg 1: 547.5nm, 2hr2min [transit]"
func (r *Route) LegSummary(i int) (string, error) {
	legs := r.Legs()
	if i < 0 || i >= len(legs) {
		return "", &IndexError{Index: i, Len: len(legs)}
	}
	l := legs[i]
	hours, err := r.LegTime(l)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Leg %d: %.1fnm, %s [%s]",
		i+1, geo.KmToNM(r.LegDistance(l)), geo.FormatHours(hours), l.From.LegType), nil
}

// Format renders the multi-line route report
func (r *Route) Format() (string, error) {
	summary, err := r.Summary()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", r.name)
	fmt.Fprintf(&b, "Aircraft: %s\n", r.aircraft.Name)
	fmt.Fprintf(&b, "Summary: %s\n", summary)
	b.WriteString("Waypoints:")
	for _, wp := range r.waypoints {
		fmt.Fprintf(&b, "\n  %s", wp)
	}
	b.WriteString("\nLegs:")
	for i, l := range r.Legs() {
		hours, err := r.LegTime(l)
		if err != nil {
			return "", err
		}
		spd, _ := r.LegSpeed(l)
		fmt.Fprintf(&b, "\n  %d: %.2fnm, %s @ %.0fkts",
			i, geo.KmToNM(r.LegDistance(l)), geo.FormatHours(hours), spd)
	}
	return b.String(), nil
}
