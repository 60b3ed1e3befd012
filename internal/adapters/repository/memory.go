package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hackdesk/hackdesk/internal/domain/model"
)

// Memory is a mutex-guarded in-memory Store. It backs the "memory" store
// mode and every test fixture. Values are copied on the way in and out so
// callers never share slices with the store.
type Memory struct {
	mu        sync.RWMutex
	events    map[string]model.Event
	workshops map[string]model.Workshop
	teams     map[string]model.Team
	users     map[string]model.User
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		events:    make(map[string]model.Event),
		workshops: make(map[string]model.Workshop),
		teams:     make(map[string]model.Team),
		users:     make(map[string]model.User),
	}
}

func copyIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func copyEvent(e model.Event) model.Event {
	e.Participants = copyIDs(e.Participants)
	e.CheckedIn = copyIDs(e.CheckedIn)
	e.Teams = copyIDs(e.Teams)
	return e
}

func copyTeam(t model.Team) model.Team {
	t.Members = copyIDs(t.Members)
	return t
}

func copyUser(u model.User) model.User {
	u.Events = copyIDs(u.Events)
	u.Workshops = copyIDs(u.Workshops)
	return u
}

// PutEvent stores or replaces an event.
func (m *Memory) PutEvent(e model.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = copyEvent(e)
}

// PutWorkshop stores or replaces a workshop.
func (m *Memory) PutWorkshop(w model.Workshop) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workshops[w.ID] = w
}

// PutTeam stores or replaces a team.
func (m *Memory) PutTeam(t model.Team) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams[t.ID] = copyTeam(t)
}

// PutUser stores or replaces a user.
func (m *Memory) PutUser(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = copyUser(u)
}

// GetTeam returns a team without going through the Store contract; used by
// tests to assert on cascade results.
func (m *Memory) GetTeam(id string) (model.Team, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.teams[id]
	return copyTeam(t), ok
}

func (m *Memory) ListEvents(_ context.Context) ([]model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, copyEvent(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetEvent(_ context.Context, id string) (model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.events[id]
	if !ok {
		return model.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return copyEvent(e), nil
}

func (m *Memory) UpdateEventStatus(_ context.Context, id string, from, to model.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if e.Status != from {
		return fmt.Errorf("event %s is %s, not %s: %w", id, e.Status, from, ErrConflict)
	}
	e.Status = to
	e.UpdatedAt = time.Now().UTC()
	m.events[id] = e
	return nil
}

func (m *Memory) UpdateEventRosters(_ context.Context, id string, participants, teams []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	e.Participants = copyIDs(participants)
	e.Teams = copyIDs(teams)
	e.UpdatedAt = time.Now().UTC()
	m.events[id] = e
	return nil
}

func (m *Memory) ListWorkshops(_ context.Context) ([]model.Workshop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Workshop, 0, len(m.workshops))
	for _, w := range m.workshops {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpdateWorkshopStatus(_ context.Context, id string, from, to model.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workshops[id]
	if !ok {
		return fmt.Errorf("workshop %s: %w", id, ErrNotFound)
	}
	if w.Status != from {
		return fmt.Errorf("workshop %s is %s, not %s: %w", id, w.Status, from, ErrConflict)
	}
	w.Status = to
	w.UpdatedAt = time.Now().UTC()
	m.workshops[id] = w
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return copyUser(u), nil
}

func (m *Memory) UpdateUserEvents(_ context.Context, id string, events []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	u.Events = copyIDs(events)
	m.users[id] = u
	return nil
}

func (m *Memory) FindTeamByEventAndMember(_ context.Context, eventID, userID string) (model.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Iterate in id order for determinism; at most one team matches by the
	// one-team-per-user-per-event contract.
	ids := make([]string, 0, len(m.teams))
	for id := range m.teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		t := m.teams[id]
		if t.EventID == eventID && model.Contains(t.Members, userID) {
			return copyTeam(t), nil
		}
	}
	return model.Team{}, fmt.Errorf("team for user %s in event %s: %w", userID, eventID, ErrNotFound)
}

func (m *Memory) UpdateTeamMembers(_ context.Context, id string, members []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	t.Members = copyIDs(members)
	m.teams[id] = t
	return nil
}

func (m *Memory) DeleteTeam(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teams[id]; !ok {
		return fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	delete(m.teams, id)
	return nil
}
