package planner

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/paulmach/orb/geojson"

	"github.com/yegors/flightplanner/internal/config"
	"github.com/yegors/flightplanner/internal/geo"
	"github.com/yegors/flightplanner/internal/metrics"
	"github.com/yegors/flightplanner/internal/route"
	"github.com/yegors/flightplanner/internal/storage/sqlite"
	"github.com/yegors/flightplanner/pkg/logger"
)

var (
	ErrRouteNotFound   = errors.New("route not found")
	ErrUnknownAircraft = errors.New("unknown aircraft")
	ErrStorageDisabled = errors.New("route storage is not configured")
)

// RouteStore persists routes in their canonical text form
type RouteStore interface {
	SaveRoute(record *sqlite.RouteRecord) (*sqlite.RouteRecord, error)
	GetRoute(id string) (*sqlite.RouteRecord, error)
	ListRoutes(limit int) ([]*sqlite.RouteRecord, error)
	DeleteRoute(id string) error
}

// session is one editable route. The mutex serialises every edit and read
// so a route only ever has a single writer.
type session struct {
	mu        sync.Mutex
	id        string
	savedID   string
	editor    *route.Editor
	createdAt time.Time
	updatedAt time.Time
}

// RouteView is a snapshot of a session for clients
type RouteView struct {
	ID              string           `json:"id"`
	SavedID         string           `json:"saved_id,omitempty"`
	Name            string           `json:"name"`
	Aircraft        string           `json:"aircraft"`
	Mode            string           `json:"mode"`
	DragIndex       *int             `json:"drag_index,omitempty"`
	WayPoints       []route.WayPoint `json:"waypoints"`
	DefaultFilename string           `json:"default_filename"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// EditResult is returned by every route mutation
type EditResult struct {
	Route    RouteView        `json:"route"`
	WayPoint *route.WayPoint  `json:"waypoint,omitempty"`
	Changes  []WaypointChange `json:"changes"`
}

// Service holds the editable route sessions
type Service struct {
	cfg      *config.Config
	policy   route.Policy
	store    RouteStore
	metrics  *metrics.Registry
	isoCache *cache.Cache
	logger   *logger.Logger
	now      func() time.Time
	mu       sync.RWMutex
	sessions map[string]*session
}

// NewService creates a planner service. store may be nil, which disables
// the saved-route operations.
func NewService(cfg *config.Config, store RouteStore, log *logger.Logger) *Service {
	return &Service{
		cfg:      cfg,
		policy:   cfg.Planner.Policy(),
		store:    store,
		isoCache: cache.New(cache.NoExpiration, 0),
		logger:   log.Named("planner-service"),
		now:      func() time.Time { return time.Now().UTC() },
		sessions: make(map[string]*session),
	}
}

// SetMetrics attaches a metrics registry for edit and cache counters
func (s *Service) SetMetrics(m *metrics.Registry) {
	s.metrics = m
}

// Airports returns the configured airports in match order
func (s *Service) Airports() []route.Airport {
	return s.cfg.Airports
}

// Aircraft returns the configured aircraft, default first
func (s *Service) Aircraft() []route.Aircraft {
	return s.cfg.Aircraft
}

// Policy returns the editing policy applied to every route
func (s *Service) Policy() route.Policy {
	return s.policy
}

// DefaultRouteName expands the configured default, replacing MMDD with the
// current month and day
func (s *Service) DefaultRouteName() string {
	return strings.Replace(s.cfg.Planner.DefaultRouteName, "MMDD", s.now().Format("0102"), 1)
}

// Create starts a new empty route. Empty name and aircraft take the defaults.
func (s *Service) Create(name, aircraftName string) (RouteView, error) {
	if name == "" {
		name = s.DefaultRouteName()
	}
	if err := checkName(name); err != nil {
		return RouteView{}, err
	}
	aircraft, err := s.aircraft(aircraftName)
	if err != nil {
		return RouteView{}, err
	}

	view := s.register(route.NewRoute(name, aircraft), "")
	s.logger.Info("Created route",
		logger.String("route_id", view.ID),
		logger.String("name", name),
		logger.String("aircraft", aircraft.Name))
	return view, nil
}

// Import creates a route from its canonical text form
func (s *Service) Import(content []byte, aircraftName string) (RouteView, error) {
	aircraft, err := s.aircraft(aircraftName)
	if err != nil {
		return RouteView{}, err
	}
	name, wps, err := decodeRoute(content)
	if err != nil {
		return RouteView{}, fmt.Errorf("failed to import route: %w", err)
	}

	view := s.register(route.NewRoute(name, aircraft, wps...), "")
	s.logger.Info("Imported route",
		logger.String("route_id", view.ID),
		logger.String("name", name),
		logger.Int("waypoints", len(wps)))
	return view, nil
}

// Get returns a snapshot of a route
func (s *Service) Get(id string) (RouteView, error) {
	sess, err := s.session(id)
	if err != nil {
		return RouteView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// List returns every open route, oldest first
func (s *Service) List() []RouteView {
	s.mu.RLock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	views := make([]RouteView, 0, len(sessions))
	for _, sess := range sessions {
		sess.mu.Lock()
		views = append(views, sess.view())
		sess.mu.Unlock()
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].CreatedAt.Before(views[j].CreatedAt)
		}
		return views[i].ID < views[j].ID
	})
	return views
}

// Close discards an open route
func (s *Service) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrRouteNotFound, id)
	}
	delete(s.sessions, id)
	s.metrics.SetOpenRoutes(len(s.sessions))
	s.logger.WithRoute(id).Info("Closed route")
	return nil
}

// Snapshot returns an independent copy of the route for read-only use
func (s *Service) Snapshot(id string) (*route.Route, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	r := sess.editor.Route()
	return route.NewRoute(r.Name(), r.Aircraft(), r.WayPoints()...), nil
}

// Append adds a waypoint to the end of the route
func (s *Service) Append(id string, p geo.Point, hint route.Hint) (EditResult, error) {
	return s.edit(id, "append", func(e *route.Editor) (*route.WayPoint, error) {
		wp, err := e.Append(p, hint)
		return &wp, err
	})
}

// Insert adds a waypoint after index after
func (s *Service) Insert(id string, after int, p geo.Point) (EditResult, error) {
	return s.edit(id, "insert", func(e *route.Editor) (*route.WayPoint, error) {
		wp, err := e.Insert(after, p)
		return &wp, err
	})
}

// DeleteWaypoint removes waypoint i
func (s *Service) DeleteWaypoint(id string, i int) (EditResult, error) {
	return s.edit(id, "delete", func(e *route.Editor) (*route.WayPoint, error) {
		wp, err := e.Delete(i)
		return &wp, err
	})
}

// StartDrag begins dragging waypoint i
func (s *Service) StartDrag(id string, i int) (EditResult, error) {
	return s.edit(id, "drag-start", func(e *route.Editor) (*route.WayPoint, error) {
		return nil, e.StartDrag(i)
	})
}

// MoveDrag moves the dragged waypoint
func (s *Service) MoveDrag(id string, p geo.Point) (EditResult, error) {
	return s.edit(id, "drag-move", func(e *route.Editor) (*route.WayPoint, error) {
		wp, err := e.UpdateDrag(p)
		return &wp, err
	})
}

// DragAltitude sets the altitude of the dragged waypoint
func (s *Service) DragAltitude(id string, altFt float64) (EditResult, error) {
	return s.edit(id, "drag-altitude", func(e *route.Editor) (*route.WayPoint, error) {
		wp, err := e.UpdateDragAltitude(altFt)
		return &wp, err
	})
}

// EndDrag finishes a drag
func (s *Service) EndDrag(id string) (EditResult, error) {
	return s.edit(id, "drag-end", func(e *route.Editor) (*route.WayPoint, error) {
		return nil, e.EndDrag()
	})
}

// Relabel renames every waypoint in route order
func (s *Service) Relabel(id string) (EditResult, error) {
	return s.edit(id, "relabel", func(e *route.Editor) (*route.WayPoint, error) {
		return nil, e.RelabelAll()
	})
}

// Replace loads new canonical text into an open route in place, keeping its
// ID and aircraft. A drag in progress is abandoned.
func (s *Service) Replace(id string, content []byte) (EditResult, error) {
	name, wps, err := decodeRoute(content)
	if err != nil {
		return EditResult{}, fmt.Errorf("failed to load route content: %w", err)
	}
	return s.edit(id, "load", func(e *route.Editor) (*route.WayPoint, error) {
		e.Load(name, wps)
		return nil, nil
	})
}

// Clear removes every waypoint
func (s *Service) Clear(id string) (EditResult, error) {
	return s.edit(id, "clear", func(e *route.Editor) (*route.WayPoint, error) {
		if e.Mode() == route.ModeDragging {
			return nil, route.ErrDragInProgress
		}
		e.Clear()
		return nil, nil
	})
}

// Rename changes the route name
func (s *Service) Rename(id, name string) (EditResult, error) {
	if err := checkName(name); err != nil {
		return EditResult{}, err
	}
	return s.edit(id, "rename", func(e *route.Editor) (*route.WayPoint, error) {
		e.Rename(name)
		return nil, nil
	})
}

// SetAircraft switches the speed table used for leg times
func (s *Service) SetAircraft(id, aircraftName string) (EditResult, error) {
	aircraft, err := s.aircraft(aircraftName)
	if err != nil {
		return EditResult{}, err
	}
	return s.edit(id, "set-aircraft", func(e *route.Editor) (*route.WayPoint, error) {
		e.SetAircraft(aircraft)
		return nil, nil
	})
}

// Export returns the canonical text of a route and its default file name
func (s *Service) Export(id string) (string, []byte, error) {
	r, err := s.Snapshot(id)
	if err != nil {
		return "", nil, err
	}
	text, err := r.MarshalText()
	if err != nil {
		return "", nil, fmt.Errorf("failed to export route: %w", err)
	}
	return r.DefaultFilename(), text, nil
}

// Save writes the route to storage. A route saved before keeps its record.
func (s *Service) Save(id string) (*sqlite.RouteRecord, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	r := sess.editor.Route()
	text, err := r.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to encode route: %w", err)
	}

	record, err := s.store.SaveRoute(&sqlite.RouteRecord{
		ID:            sess.savedID,
		Name:          r.Name(),
		Aircraft:      r.Aircraft().Name,
		Content:       string(text),
		WaypointCount: r.Len(),
	})
	if err != nil {
		return nil, err
	}
	sess.savedID = record.ID

	s.logger.Info("Saved route",
		logger.String("route_id", sess.id),
		logger.String("saved_id", record.ID),
		logger.String("name", record.Name))
	return record, nil
}

// ListSaved lists stored routes, most recent first
func (s *Service) ListSaved(limit int) ([]*sqlite.RouteRecord, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	return s.store.ListRoutes(limit)
}

// OpenSaved loads a stored route into a new session. An aircraft that is no
// longer configured falls back to the default.
func (s *Service) OpenSaved(savedID string) (RouteView, error) {
	if s.store == nil {
		return RouteView{}, ErrStorageDisabled
	}
	record, err := s.store.GetRoute(savedID)
	if err != nil {
		return RouteView{}, err
	}

	name, wps, err := route.Decode(strings.NewReader(record.Content))
	if err != nil {
		return RouteView{}, fmt.Errorf("failed to decode saved route %s: %w", savedID, err)
	}

	aircraft, ok := s.cfg.FindAircraft(record.Aircraft)
	if !ok {
		s.logger.Warn("Saved route aircraft not configured, using default",
			logger.String("saved_id", savedID),
			logger.String("aircraft", record.Aircraft))
		aircraft = s.cfg.DefaultAircraft()
	}

	view := s.register(route.NewRoute(name, aircraft, wps...), record.ID)
	s.logger.Info("Opened saved route",
		logger.String("route_id", view.ID),
		logger.String("saved_id", savedID))
	return view, nil
}

// DeleteSaved removes a stored route
func (s *Service) DeleteSaved(savedID string) error {
	if s.store == nil {
		return ErrStorageDisabled
	}
	return s.store.DeleteRoute(savedID)
}

// GeoJSON renders the route as a feature collection
func (s *Service) GeoJSON(id string) (*geojson.FeatureCollection, error) {
	r, err := s.Snapshot(id)
	if err != nil {
		return nil, err
	}
	return r.FeatureCollection()
}

// Isochrones draws transit-time rings around the configured isochrone
// airports for an aircraft. Rings depend only on configuration, so they are
// built once per aircraft.
func (s *Service) Isochrones(aircraftName string) (*geojson.FeatureCollection, error) {
	aircraft, err := s.aircraft(aircraftName)
	if err != nil {
		return nil, err
	}

	if fc, ok := s.isoCache.Get(aircraft.Name); ok {
		s.metrics.ObserveCache("isochrones", true)
		return fc.(*geojson.FeatureCollection), nil
	}
	s.metrics.ObserveCache("isochrones", false)

	spd, err := aircraft.Speed(route.DefaultLegType)
	if err != nil {
		return nil, err
	}
	iso := s.cfg.Isochrones
	fc := route.Isochrones(s.cfg.Airports, iso.Airports, spd, iso.Hours, iso.Segments)
	s.isoCache.Set(aircraft.Name, fc, cache.NoExpiration)
	return fc, nil
}

// edit runs a mutation under the session lock and reports what changed
func (s *Service) edit(id, op string, fn func(e *route.Editor) (*route.WayPoint, error)) (EditResult, error) {
	sess, err := s.session(id)
	if err != nil {
		return EditResult{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	log := s.logger.WithRoute(id)
	before := sess.editor.Route().WayPoints()
	wp, err := fn(sess.editor)
	s.metrics.ObserveEdit(op, err)
	if err != nil {
		log.Debug("Edit rejected",
			logger.String("op", op),
			logger.Error(err))
		return EditResult{}, err
	}

	changes := DetectChanges(before, sess.editor.Route().WayPoints())
	sess.updatedAt = s.now()

	log.Debug("Edit applied",
		logger.String("op", op),
		logger.Int("changes", len(changes)))

	return EditResult{Route: sess.view(), WayPoint: wp, Changes: changes}, nil
}

// register opens a session for r and returns its first view
func (s *Service) register(r *route.Route, savedID string) RouteView {
	now := s.now()
	sess := &session{
		id:        uuid.New().String(),
		savedID:   savedID,
		editor:    route.NewEditor(r, s.cfg.Airports, s.policy),
		createdAt: now,
		updatedAt: now,
	}
	view := sess.view()

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.metrics.SetOpenRoutes(len(s.sessions))
	s.mu.Unlock()
	return view
}

func (s *Service) session(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, id)
	}
	return sess, nil
}

func (s *Service) aircraft(name string) (route.Aircraft, error) {
	if name == "" {
		return s.cfg.DefaultAircraft(), nil
	}
	a, ok := s.cfg.FindAircraft(name)
	if !ok {
		return route.Aircraft{}, fmt.Errorf("%w: %s", ErrUnknownAircraft, name)
	}
	return a, nil
}

// decodeRoute parses canonical text and checks the route name it carries
func decodeRoute(content []byte) (string, []route.WayPoint, error) {
	name, wps, err := route.Decode(bytes.NewReader(content))
	if err != nil {
		return "", nil, err
	}
	if err := checkName(name); err != nil {
		return "", nil, err
	}
	return name, wps, nil
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, ",\r\n") {
		return fmt.Errorf("%w: route name %q", route.ErrInvalidField, name)
	}
	return nil
}

// view must be called with the session lock held
func (sess *session) view() RouteView {
	r := sess.editor.Route()
	v := RouteView{
		ID:              sess.id,
		SavedID:         sess.savedID,
		Name:            r.Name(),
		Aircraft:        r.Aircraft().Name,
		Mode:            sess.editor.Mode().String(),
		WayPoints:       r.WayPoints(),
		DefaultFilename: r.DefaultFilename(),
		CreatedAt:       sess.createdAt,
		UpdatedAt:       sess.updatedAt,
	}
	if v.WayPoints == nil {
		v.WayPoints = []route.WayPoint{}
	}
	if i, ok := sess.editor.DragIndex(); ok {
		v.DragIndex = &i
	}
	return v
}
