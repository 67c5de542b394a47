package sqlite

import "time"

// RouteRecord is a saved route in its canonical text form
type RouteRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Aircraft      string    `json:"aircraft"`
	Content       string    `json:"content,omitempty"`
	WaypointCount int       `json:"waypoint_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
