package route

// labelAlphabet supplies the waypoint symbols, in assignment order
const labelAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Label returns the name for the i-th free waypoint of a route called
// routeName, e.g. Label(1, "0612a") == "B0612a".
func Label(i int, routeName string) (string, error) {
	if i < 0 || i >= len(labelAlphabet) {
		return "", ErrAlphabetExhausted
	}
	return labelAlphabet[i:i+1] + routeName, nil
}

// freeCount counts waypoints not locked to an airport; it is the index of
// the next unused label symbol.
func freeCount(waypoints []WayPoint, airports []Airport, tolKm float64) int {
	n := 0
	for _, wp := range waypoints {
		if !IsAirportLocked(wp, airports, tolKm) {
			n++
		}
	}
	return n
}

// relabel computes fresh names for waypoints: airport codes for waypoints
// near an airport, the earlier name for waypoints co-located with an earlier
// waypoint, otherwise consecutive labels in index order.
func relabel(routeName string, waypoints []WayPoint, airports []Airport, lockKm, colocateKm float64) ([]string, error) {
	names := make([]string, len(waypoints))
	next := 0
	for i, wp := range waypoints {
		if a, ok := NearestAirport(wp.Point(), airports, lockKm); ok {
			names[i] = a.Code
			continue
		}
		if j, ok := NearestOtherWaypoint(wp.Point(), waypoints[:i], colocateKm); ok {
			names[i] = names[j]
			continue
		}
		label, err := Label(next, routeName)
		if err != nil {
			return nil, err
		}
		names[i] = label
		next++
	}
	return names, nil
}
