// Package roster evicts no-show participants from completed events,
// cascading each removal through the user's joined-event set, their team's
// membership, and the event's own rosters.
package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hackdesk/hackdesk/internal/adapters/repository"
	"github.com/hackdesk/hackdesk/internal/domain/model"
	"github.com/hackdesk/hackdesk/pkg/logger"
	"github.com/hackdesk/hackdesk/pkg/metrics"
)

// Store is the slice of the persistence contract cleanup needs.
type Store interface {
	GetEvent(ctx context.Context, id string) (model.Event, error)
	UpdateEventRosters(ctx context.Context, id string, participants, teams []string) error
	GetUser(ctx context.Context, id string) (model.User, error)
	UpdateUserEvents(ctx context.Context, id string, events []string) error
	FindTeamByEventAndMember(ctx context.Context, eventID, userID string) (model.Team, error)
	UpdateTeamMembers(ctx context.Context, id string, members []string) error
	DeleteTeam(ctx context.Context, id string) error
}

// Report summarizes one cleanup invocation.
type Report struct {
	Evicted      int
	TeamsDeleted int
	TeamsShrunk  int
	UsersMissing int
}

// Cleaner runs the cascade. Participants are processed strictly
// sequentially: two members of the same team evicted concurrently would
// race on the team's member set, so there is no per-participant fan-out.
type Cleaner struct {
	store   Store
	timeout time.Duration
	log     logger.Logger
}

// Option applies a configuration option to the Cleaner.
type Option func(*Cleaner)

// WithTimeout bounds a single event's cascade; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Cleaner) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Cleaner) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCleaner creates a Cleaner over store.
func NewCleaner(store Store, opts ...Option) *Cleaner {
	c := &Cleaner{
		store: store,
		log:   logger.Named("roster"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean evicts every participant of eventID that is not checked in.
//
// Preconditions: the event exists and is completed; otherwise
// ErrEventNotFound / ErrEventNotCompleted and no mutation. Within one
// participant the order is user record, then team, then event rosters.
// An unexpected store failure aborts the remaining loop and is wrapped in
// ErrCleanupFailed; applied steps are not rolled back. Every step is
// idempotent, so a partially cleaned event is safe to Clean again — the
// scheduler retries on a later sweep until the roster converges.
func (c *Cleaner) Clean(ctx context.Context, eventID string) (Report, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	var rep Report

	event, err := c.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return rep, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
		}
		return rep, fmt.Errorf("%w: load event %s: %w", ErrCleanupFailed, eventID, err)
	}
	if event.Status != model.StatusCompleted {
		return rep, fmt.Errorf("%w: event %s is %s", ErrEventNotCompleted, eventID, event.Status)
	}

	for _, userID := range event.NoShows() {
		if err := c.evict(ctx, &event, userID, &rep); err != nil {
			metrics.RecordCleanupFailure()
			return rep, err
		}
		rep.Evicted++
	}

	metrics.RecordCleanupRun(float64(time.Since(start).Milliseconds()))
	metrics.RecordEvictions(rep.Evicted)
	metrics.RecordTeamsDeleted(rep.TeamsDeleted)
	if rep.Evicted > 0 {
		c.log.Info(ctx, "roster cleanup finished",
			logger.String("event_id", eventID),
			logger.Int("evicted", rep.Evicted),
			logger.Int("teams_deleted", rep.TeamsDeleted),
			logger.Int("teams_shrunk", rep.TeamsShrunk),
		)
	}
	return rep, nil
}

// evict removes one participant, mutating event's in-memory rosters as it
// commits them so later iterations see the shrunk sets.
func (c *Cleaner) evict(ctx context.Context, event *model.Event, userID string, rep *Report) error {
	fail := func(step string, err error) error {
		return fmt.Errorf("%w: %s for user %s in event %s: %w", ErrCleanupFailed, step, userID, event.ID, err)
	}

	// User record first: drop the event id from their joined set.
	// A missing user was deleted externally; skip the step, keep cascading.
	user, err := c.store.GetUser(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		rep.UsersMissing++
		c.log.Debug(ctx, "user record missing, skipping user update",
			logger.String("event_id", event.ID),
			logger.String("user_id", userID),
		)
	case err != nil:
		return fail("load user", err)
	case model.Contains(user.Events, event.ID):
		if err := c.store.UpdateUserEvents(ctx, userID, model.Remove(user.Events, event.ID)); err != nil {
			return fail("update user events", err)
		}
	}

	// Team next: the last member takes the team down with them.
	team, err := c.store.FindTeamByEventAndMember(ctx, event.ID, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// no team for this participant
	case err != nil:
		return fail("find team", err)
	case len(team.Members) <= 1:
		if err := c.store.DeleteTeam(ctx, team.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fail("delete team", err)
		}
		event.Teams = model.Remove(event.Teams, team.ID)
		rep.TeamsDeleted++
	default:
		if err := c.store.UpdateTeamMembers(ctx, team.ID, model.Remove(team.Members, userID)); err != nil {
			return fail("update team members", err)
		}
		rep.TeamsShrunk++
	}

	// Event rosters last.
	event.Participants = model.Remove(event.Participants, userID)
	if err := c.store.UpdateEventRosters(ctx, event.ID, event.Participants, event.Teams); err != nil {
		return fail("update event rosters", err)
	}
	return nil
}
