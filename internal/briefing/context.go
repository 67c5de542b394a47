package briefing

import (
	"strings"
	"time"

	"github.com/yegors/flightplanner/internal/geo"
	"github.com/yegors/flightplanner/internal/route"
)

// WaypointRow is one line of the sortie waypoint table
type WaypointRow struct {
	Code      string  `json:"code"`
	Lon       string  `json:"lon"`
	Lat       string  `json:"lat"`
	AltFt     float64 `json:"alt_ft"`
	LegType   string  `json:"leg_type"`
	Desc      string  `json:"desc"`
	ElapsedHr float64 `json:"elapsed_hr"`
	Elapsed   string  `json:"elapsed"`
}

// SortieContext holds everything the brief template and the drafter see
type SortieContext struct {
	Name       string        `json:"name"`
	Aircraft   string        `json:"aircraft"`
	Speeds     string        `json:"speeds"`
	Base       string        `json:"base"`
	End        string        `json:"end"`
	DistanceNM float64       `json:"distance_nm"`
	TimeHr     float64       `json:"time_hr"`
	Time       string        `json:"time"`
	Waypoints  []WaypointRow `json:"waypoints"`
	Generated  time.Time     `json:"generated"`
	Narrative  string        `json:"narrative,omitempty"`
}

// BuildContext collects the sortie details of r. Elapsed times are at
// arrival, so the first waypoint is always zero.
func BuildContext(r *route.Route, generated time.Time) (*SortieContext, error) {
	hours, err := r.TotalTime()
	if err != nil {
		return nil, err
	}
	cumTime, err := r.CumulativeTime()
	if err != nil {
		return nil, err
	}

	sc := &SortieContext{
		Name:       r.Name(),
		Aircraft:   r.Aircraft().Name,
		Speeds:     r.SpeedsSummary(),
		DistanceNM: geo.KmToNM(r.TotalDistance()),
		TimeHr:     hours,
		Time:       geo.FormatHours(hours),
		Waypoints:  []WaypointRow{},
		Generated:  generated,
	}

	wps := r.WayPoints()
	if len(wps) > 0 {
		sc.Base = wps[0].Name
		sc.End = wps[len(wps)-1].Name
	}

	for i, wp := range wps {
		var elapsed float64
		if i > 0 {
			elapsed = cumTime[i-1]
		}
		lon, lat := splitDDM(wp.Point())
		sc.Waypoints = append(sc.Waypoints, WaypointRow{
			Code:      wp.Name,
			Lon:       lon,
			Lat:       lat,
			AltFt:     wp.Alt,
			LegType:   wp.LegType,
			Desc:      wp.Desc,
			ElapsedHr: elapsed,
			Elapsed:   geo.FormatHours(elapsed),
		})
	}

	return sc, nil
}

func splitDDM(p geo.Point) (string, string) {
	parts := strings.Fields(geo.FormatDDM(p))
	return parts[0], parts[1]
}
