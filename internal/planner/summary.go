package planner

import (
	"fmt"

	"github.com/yegors/flightplanner/internal/geo"
	"github.com/yegors/flightplanner/internal/route"
)

// LegStats are the derived metrics of one leg
type LegStats struct {
	Index      int     `json:"index"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	LegType    string  `json:"leg_type"`
	DistanceNM float64 `json:"distance_nm"`
	SpeedKts   float64 `json:"speed_kts"`
	TimeHr     float64 `json:"time_hr"`
	Time       string  `json:"time"`
	TrackDeg   float64 `json:"track_deg"`
	Text       string  `json:"text"`
}

// Summary is everything a renderer needs to annotate a route
type Summary struct {
	Name                 string     `json:"name"`
	Aircraft             string     `json:"aircraft"`
	Waypoints            int        `json:"waypoints"`
	DistanceNM           float64    `json:"distance_nm"`
	TimeHr               float64    `json:"time_hr"`
	Time                 string     `json:"time"`
	Speeds               string     `json:"speeds"`
	Text                 string     `json:"text"`
	Legs                 []LegStats `json:"legs"`
	CumulativeDistanceNM []float64  `json:"cumulative_distance_nm"`
	CumulativeTimeHr     []float64  `json:"cumulative_time_hr"`
	Lons                 []float64  `json:"lons"`
	Lats                 []float64  `json:"lats"`
	Alts                 []float64  `json:"alts"`
}

// Summary computes leg and total metrics for a route
func (s *Service) Summary(id string) (*Summary, error) {
	r, err := s.Snapshot(id)
	if err != nil {
		return nil, err
	}
	return Summarize(r)
}

// Summarize computes leg and total metrics for r. A waypoint whose leg type
// the aircraft has no speed for fails with a route.LegTypeError.
func Summarize(r *route.Route) (*Summary, error) {
	hours, err := r.TotalTime()
	if err != nil {
		return nil, err
	}
	text, err := r.Summary()
	if err != nil {
		return nil, err
	}
	cumTime, err := r.CumulativeTime()
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Name:             r.Name(),
		Aircraft:         r.Aircraft().Name,
		Waypoints:        r.Len(),
		DistanceNM:       geo.KmToNM(r.TotalDistance()),
		TimeHr:           hours,
		Time:             geo.FormatHours(hours),
		Speeds:           r.SpeedsSummary(),
		Text:             text,
		Legs:             []LegStats{},
		CumulativeTimeHr: cumTime,
		Lons:             r.Lons(),
		Lats:             r.Lats(),
		Alts:             r.Alts(),
	}

	cumDist := r.CumulativeDistance()
	sum.CumulativeDistanceNM = make([]float64, len(cumDist))
	for i, d := range cumDist {
		sum.CumulativeDistanceNM[i] = geo.KmToNM(d)
	}

	for i, l := range r.Legs() {
		legHours, err := r.LegTime(l)
		if err != nil {
			return nil, fmt.Errorf("failed to time leg %d: %w", i, err)
		}
		spd, _ := r.LegSpeed(l)
		legText, _ := r.LegSummary(i)
		sum.Legs = append(sum.Legs, LegStats{
			Index:      i,
			From:       l.From.Name,
			To:         l.To.Name,
			LegType:    l.From.LegType,
			DistanceNM: geo.KmToNM(r.LegDistance(l)),
			SpeedKts:   spd,
			TimeHr:     legHours,
			Time:       geo.FormatHours(legHours),
			TrackDeg:   r.LegTrack(l),
			Text:       legText,
		})
	}

	return sum, nil
}
