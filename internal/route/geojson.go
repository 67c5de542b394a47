package route

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/yegors/flightplanner/internal/geo"
)

// LineString returns the route track
func (r *Route) LineString() orb.LineString {
	ls := make(orb.LineString, len(r.waypoints))
	for i, wp := range r.waypoints {
		ls[i] = orb.Point{wp.Lon, wp.Lat}
	}
	return ls
}

// FeatureCollection renders the route for map clients: one feature per
// waypoint, one per leg and the full track.
func (r *Route) FeatureCollection() (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	for i, wp := range r.waypoints {
		f := geojson.NewFeature(orb.Point{wp.Lon, wp.Lat})
		f.Properties["kind"] = "waypoint"
		f.Properties["index"] = i
		f.Properties["name"] = wp.Name
		f.Properties["desc"] = wp.Desc
		f.Properties["alt_ft"] = wp.Alt
		f.Properties["leg_type"] = wp.LegType
		fc.Append(f)
	}

	for i, l := range r.Legs() {
		hours, err := r.LegTime(l)
		if err != nil {
			return nil, fmt.Errorf("failed to time leg %d: %w", i, err)
		}
		f := geojson.NewFeature(orb.LineString{
			{l.From.Lon, l.From.Lat},
			{l.To.Lon, l.To.Lat},
		})
		f.Properties["kind"] = "leg"
		f.Properties["index"] = i
		f.Properties["leg_type"] = l.From.LegType
		f.Properties["distance_nm"] = geo.KmToNM(r.LegDistance(l))
		f.Properties["time_hr"] = hours
		f.Properties["track_deg"] = r.LegTrack(l)
		fc.Append(f)
	}

	if len(r.waypoints) >= 2 {
		total, err := r.TotalTime()
		if err != nil {
			return nil, err
		}
		f := geojson.NewFeature(r.LineString())
		f.Properties["kind"] = "track"
		f.Properties["name"] = r.name
		f.Properties["aircraft"] = r.aircraft.Name
		f.Properties["distance_nm"] = geo.KmToNM(r.TotalDistance())
		f.Properties["time"] = geo.FormatHours(total)
		fc.Append(f)
	}

	return fc, nil
}

// Isochrones draws rings around the given airports at the distance flown at
// speedKts in each of hours. Unknown codes are skipped.
func Isochrones(airports []Airport, codes []string, speedKts float64, hours []float64, segments int) *geojson.FeatureCollection {
	if segments < 8 {
		segments = 8
	}
	fc := geojson.NewFeatureCollection()

	for _, code := range codes {
		a, ok := FindAirport(airports, code)
		if !ok {
			continue
		}
		for _, h := range hours {
			radiusKm := geo.NMToKm(speedKts * h)
			ring := make(orb.Ring, 0, segments+1)
			for s := 0; s < segments; s++ {
				p := geo.Destination(a.Point(), 360.0*float64(s)/float64(segments), radiusKm)
				ring = append(ring, orb.Point{p.Lon, p.Lat})
			}
			ring = append(ring, ring[0])

			f := geojson.NewFeature(orb.Polygon{ring})
			f.Properties["airport"] = a.Code
			f.Properties["hours"] = h
			f.Properties["radius_nm"] = speedKts * h
			f.Properties["label"] = IsochroneLabel(h)
			fc.Append(f)
		}
	}
	return fc
}

// IsochroneLabel names a ring: minutes below one hour, hours above
func IsochroneLabel(hours float64) string {
	if hours < 1 {
		return fmt.Sprintf("%.0fm", hours*60)
	}
	return fmt.Sprintf("%gh", hours)
}
