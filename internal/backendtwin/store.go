package backendtwin

import (
	"sort"
	"sync"

	"roadtrip/internal/model"
)

type checklistRecord struct {
	ID           int64
	Name         string
	Description  string
	Category     string
	Priority     string
	Completed    bool
	AssignedUser string
}

type routeRecord struct {
	ID        int64
	Name      string
	Waypoints []model.Waypoint
}

type trip struct {
	checklist map[int64]checklistRecord
	routes    map[int64]routeRecord
}

// memoryStore holds all twin state. Roadtrips spring into existence on first use.
type memoryStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string][]byte
	trips  map[int64]*trip
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users: make(map[string][]byte),
		trips: make(map[int64]*trip),
	}
}

func (s *memoryStore) allocID() int64 {
	s.nextID++
	return s.nextID
}

// tripLocked returns the roadtrip, creating it if needed. Callers hold s.mu.
func (s *memoryStore) tripLocked(id int64) *trip {
	t, ok := s.trips[id]
	if !ok {
		t = &trip{
			checklist: make(map[int64]checklistRecord),
			routes:    make(map[int64]routeRecord),
		}
		s.trips[id] = t
	}
	return t
}

func (s *memoryStore) addUser(username string, hash []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return false
	}
	s.users[username] = hash
	return true
}

func (s *memoryStore) userHash(username string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.users[username]
	return h, ok
}

func (s *memoryStore) listChecklist(tripID int64) []checklistRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tripLocked(tripID)
	out := make([]checklistRecord, 0, len(t.checklist))
	for _, rec := range t.checklist {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memoryStore) addChecklist(tripID int64, rec checklistRecord) checklistRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.allocID()
	s.tripLocked(tripID).checklist[rec.ID] = rec
	return rec
}

func (s *memoryStore) updateChecklist(tripID int64, rec checklistRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tripLocked(tripID)
	if _, ok := t.checklist[rec.ID]; !ok {
		return false
	}
	t.checklist[rec.ID] = rec
	return true
}

func (s *memoryStore) deleteChecklist(tripID, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tripLocked(tripID)
	if _, ok := t.checklist[id]; !ok {
		return false
	}
	delete(t.checklist, id)
	return true
}

func (s *memoryStore) listRoutes(tripID int64) []routeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tripLocked(tripID)
	out := make([]routeRecord, 0, len(t.routes))
	for _, rec := range t.routes {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memoryStore) addRoute(tripID int64, rec routeRecord) routeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.allocID()
	s.tripLocked(tripID).routes[rec.ID] = rec
	return rec
}

func (s *memoryStore) clearRoutes(tripID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tripLocked(tripID).routes = make(map[int64]routeRecord)
}

func (s *memoryStore) deleteRoute(tripID, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tripLocked(tripID)
	if _, ok := t.routes[id]; !ok {
		return false
	}
	delete(t.routes, id)
	return true
}
