package route

import (
	"math"

	"github.com/yegors/flightplanner/internal/geo"
)

// Policy holds the tolerances and defaults the editor applies
type Policy struct {
	LockToleranceKm    float64 // snap to airports
	SnapToleranceKm    float64 // snap a dragged waypoint onto another waypoint
	RelabelToleranceKm float64 // co-located waypoints share a name when relabelling
	FirstPointAltFt    float64
	FirstPointLegType  string
	AltitudeStepFt     float64 // altitude drags are rounded to this step
}

// DefaultPolicy returns the planner's stock tolerances
func DefaultPolicy() Policy {
	return Policy{
		LockToleranceKm:    10,
		SnapToleranceKm:    5,
		RelabelToleranceKm: 0.1,
		FirstPointAltFt:    1000,
		FirstPointLegType:  DefaultLegType,
		AltitudeStepFt:     10,
	}
}

// Mode is the editor interaction mode
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Hint carries caller preferences for a new waypoint. Unset fields inherit
// from the last waypoint of the route.
type Hint struct {
	Alt     *float64
	LegType string
}

// Editor applies edit intents to a route while keeping the airport locking
// and naming rules. Each call either leaves the route in a new valid state
// or returns an error and leaves it untouched. An Editor is not safe for
// concurrent use.
type Editor struct {
	route     *Route
	airports  []Airport
	policy    Policy
	mode      Mode
	dragIndex int
}

// NewEditor creates an editor for r. Airports are matched in slice order.
func NewEditor(r *Route, airports []Airport, policy Policy) *Editor {
	return &Editor{
		route:     r,
		airports:  airports,
		policy:    policy,
		dragIndex: -1,
	}
}

// Route returns the edited route
func (e *Editor) Route() *Route { return e.route }

// Airports returns the airports waypoints lock to
func (e *Editor) Airports() []Airport { return e.airports }

// Policy returns the active editing policy
func (e *Editor) Policy() Policy { return e.policy }

// Mode returns the interaction mode
func (e *Editor) Mode() Mode { return e.mode }

// DragIndex returns the dragged waypoint index while dragging
func (e *Editor) DragIndex() (int, bool) {
	return e.dragIndex, e.mode == ModeDragging
}

// Append adds a waypoint at p to the end of the route. The first waypoint
// of a route always gets the policy's first-point altitude and leg type.
func (e *Editor) Append(p geo.Point, hint Hint) (WayPoint, error) {
	if e.mode == ModeDragging {
		return WayPoint{}, ErrDragInProgress
	}

	alt, legType := e.policy.FirstPointAltFt, e.policy.FirstPointLegType
	if n := len(e.route.waypoints); n > 0 {
		last := e.route.waypoints[n-1]
		alt, legType = last.Alt, last.LegType
		if hint.Alt != nil {
			alt = *hint.Alt
		}
		if hint.LegType != "" {
			legType = hint.LegType
		}
	}

	wp, err := e.newWayPoint(p, alt, legType)
	if err != nil {
		return WayPoint{}, err
	}
	e.route.waypoints = append(e.route.waypoints, wp)
	return wp, nil
}

// Insert adds a waypoint at p directly after waypoint after, inheriting its
// altitude and leg type.
func (e *Editor) Insert(after int, p geo.Point) (WayPoint, error) {
	if e.mode == ModeDragging {
		return WayPoint{}, ErrDragInProgress
	}
	if err := e.route.checkIndex(after); err != nil {
		return WayPoint{}, err
	}

	prev := e.route.waypoints[after]
	wp, err := e.newWayPoint(p, prev.Alt, prev.LegType)
	if err != nil {
		return WayPoint{}, err
	}

	wps := make([]WayPoint, 0, len(e.route.waypoints)+1)
	wps = append(wps, e.route.waypoints[:after+1]...)
	wps = append(wps, wp)
	wps = append(wps, e.route.waypoints[after+1:]...)
	e.route.waypoints = wps
	return wp, nil
}

// Delete removes waypoint i. Remaining waypoints keep their names.
func (e *Editor) Delete(i int) (WayPoint, error) {
	if e.mode == ModeDragging {
		return WayPoint{}, ErrDragInProgress
	}
	if err := e.route.checkIndex(i); err != nil {
		return WayPoint{}, err
	}

	removed := e.route.waypoints[i]
	wps := make([]WayPoint, 0, len(e.route.waypoints)-1)
	wps = append(wps, e.route.waypoints[:i]...)
	wps = append(wps, e.route.waypoints[i+1:]...)
	e.route.waypoints = wps
	return removed, nil
}

// StartDrag enters the dragging mode for waypoint i
func (e *Editor) StartDrag(i int) error {
	if e.mode == ModeDragging {
		return ErrDragInProgress
	}
	if err := e.route.checkIndex(i); err != nil {
		return err
	}
	e.mode = ModeDragging
	e.dragIndex = i
	return nil
}

// UpdateDrag moves the dragged waypoint to p. The position snaps onto any
// other waypoint within the snap tolerance, then locks to airports.
func (e *Editor) UpdateDrag(p geo.Point) (WayPoint, error) {
	if e.mode != ModeDragging {
		return WayPoint{}, ErrNotDragging
	}

	others := make([]WayPoint, 0, len(e.route.waypoints)-1)
	others = append(others, e.route.waypoints[:e.dragIndex]...)
	others = append(others, e.route.waypoints[e.dragIndex+1:]...)
	if j, ok := NearestOtherWaypoint(p, others, e.policy.SnapToleranceKm); ok {
		p = others[j].Point()
	}

	wp := Lock(e.route.waypoints[e.dragIndex].At(p), e.airports, e.policy.LockToleranceKm)
	e.route.waypoints[e.dragIndex] = wp
	return wp, nil
}

// UpdateDragAltitude sets the dragged waypoint's altitude, rounded to the
// policy step. Waypoints at an airport keep the field elevation.
func (e *Editor) UpdateDragAltitude(altFt float64) (WayPoint, error) {
	if e.mode != ModeDragging {
		return WayPoint{}, ErrNotDragging
	}

	wp := e.route.waypoints[e.dragIndex]
	wp.Alt = roundToStep(altFt, e.policy.AltitudeStepFt)
	wp = Lock(wp, e.airports, e.policy.LockToleranceKm)
	e.route.waypoints[e.dragIndex] = wp
	return wp, nil
}

// EndDrag returns to idle without touching the route
func (e *Editor) EndDrag() error {
	if e.mode != ModeDragging {
		return ErrNotDragging
	}
	e.mode = ModeIdle
	e.dragIndex = -1
	return nil
}

// RelabelAll renames every waypoint: airport codes near airports, the
// earlier name for co-located waypoints, otherwise consecutive labels.
func (e *Editor) RelabelAll() error {
	if e.mode == ModeDragging {
		return ErrDragInProgress
	}

	names, err := relabel(e.route.name, e.route.waypoints, e.airports,
		e.policy.LockToleranceKm, e.policy.RelabelToleranceKm)
	if err != nil {
		return err
	}
	for i := range e.route.waypoints {
		e.route.waypoints[i].Name = names[i]
	}
	return nil
}

// Load replaces the route name and waypoints wholesale
func (e *Editor) Load(name string, waypoints []WayPoint) {
	e.mode = ModeIdle
	e.dragIndex = -1
	e.route.name = name
	e.route.waypoints = append([]WayPoint(nil), waypoints...)
}

// Clear removes all waypoints
func (e *Editor) Clear() {
	e.Load(e.route.name, nil)
}

// Rename changes the route name. Existing labels are kept until RelabelAll.
func (e *Editor) Rename(name string) {
	e.route.name = name
}

// SetAircraft swaps the speed table used for leg times
func (e *Editor) SetAircraft(a Aircraft) {
	e.route.aircraft = a
}

// newWayPoint builds a locked waypoint at p, labelled with the next free
// symbol unless it locks to an airport.
func (e *Editor) newWayPoint(p geo.Point, alt float64, legType string) (WayPoint, error) {
	wp := WayPoint{Lon: p.Lon, Lat: p.Lat, Alt: alt, LegType: legType}
	if IsAirportLocked(wp, e.airports, e.policy.LockToleranceKm) {
		return Lock(wp, e.airports, e.policy.LockToleranceKm), nil
	}

	label, err := Label(freeCount(e.route.waypoints, e.airports, e.policy.LockToleranceKm), e.route.name)
	if err != nil {
		return WayPoint{}, err
	}
	wp.Name = label
	return wp, nil
}

func roundToStep(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return step * math.RoundToEven(v/step)
}
