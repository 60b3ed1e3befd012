// Package repository defines the persistence contract for the lifecycle
// core and its in-memory implementation.
package repository

import (
	"context"

	"github.com/hackdesk/hackdesk/internal/domain/model"
)

// Store provides access to events, workshops, teams and users.
//
// Status writes are compare-and-set on the caller's observed status so that
// overlapping schedulers or external writers cannot double-fire a
// transition; a failed guard surfaces as ErrConflict. Roster and membership
// writes replace the whole id set, issued sequentially by the caller.
//
// Contract upheld by implementations: a user belongs to at most one team
// per event, so FindTeamByEventAndMember is deterministic.
type Store interface {
	// ListEvents returns every event, unfiltered; lifecycle filtering
	// happens in memory.
	ListEvents(ctx context.Context) ([]model.Event, error)

	// GetEvent returns the event or ErrNotFound.
	GetEvent(ctx context.Context, id string) (model.Event, error)

	// UpdateEventStatus commits from -> to if the stored status still equals
	// from. Returns ErrNotFound for an unknown id and ErrConflict when the
	// guard fails.
	UpdateEventStatus(ctx context.Context, id string, from, to model.Status) error

	// UpdateEventRosters replaces the participant and team id sets.
	UpdateEventRosters(ctx context.Context, id string, participants, teams []string) error

	// ListWorkshops returns every workshop.
	ListWorkshops(ctx context.Context) ([]model.Workshop, error)

	// UpdateWorkshopStatus is the workshop counterpart of UpdateEventStatus.
	UpdateWorkshopStatus(ctx context.Context, id string, from, to model.Status) error

	// GetUser returns the user or ErrNotFound.
	GetUser(ctx context.Context, id string) (model.User, error)

	// UpdateUserEvents replaces the user's joined-event id set.
	UpdateUserEvents(ctx context.Context, id string, events []string) error

	// FindTeamByEventAndMember returns the team in eventID containing
	// userID, or ErrNotFound.
	FindTeamByEventAndMember(ctx context.Context, eventID, userID string) (model.Team, error)

	// UpdateTeamMembers replaces the team's member id set.
	UpdateTeamMembers(ctx context.Context, id string, members []string) error

	// DeleteTeam removes the team; ErrNotFound if already gone.
	DeleteTeam(ctx context.Context, id string) error
}
