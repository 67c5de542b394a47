package planner

import (
	"github.com/yegors/flightplanner/internal/route"
)

// Change types reported after an edit
const (
	ChangeAdded   = "added"
	ChangeUpdated = "updated"
	ChangeRemoved = "removed"
)

// WaypointChange is a difference between two versions of a route, keyed by
// waypoint index
type WaypointChange struct {
	Type     string          `json:"type"`
	Index    int             `json:"index"`
	WayPoint *route.WayPoint `json:"waypoint,omitempty"`
}

// DetectChanges compares the waypoints before and after an edit. Waypoints
// have no identity beyond their position in the route, so an insert shows up
// as updates for every shifted index plus one addition at the end.
func DetectChanges(previous, current []route.WayPoint) []WaypointChange {
	changes := []WaypointChange{}

	for i := range current {
		wp := current[i]
		if i >= len(previous) {
			changes = append(changes, WaypointChange{Type: ChangeAdded, Index: i, WayPoint: &wp})
			continue
		}
		if previous[i] != wp {
			changes = append(changes, WaypointChange{Type: ChangeUpdated, Index: i, WayPoint: &wp})
		}
	}

	for i := len(current); i < len(previous); i++ {
		changes = append(changes, WaypointChange{Type: ChangeRemoved, Index: i})
	}

	return changes
}
