// Package lifecycle contains the pure status-transition rules for events
// and workshops. It performs no I/O and never reads the wall clock; the
// scheduler adapter supplies the entities and the instant to evaluate at.
package lifecycle

import (
	"time"

	"github.com/hackdesk/hackdesk/internal/domain/model"
)

// Kind identifies the entity a transition applies to.
type Kind string

const (
	KindEvent    Kind = "event"
	KindWorkshop Kind = "workshop"
)

// Transition is one status change (or cleanup resumption) due at the
// evaluated instant. From == To with NeedsCleanup set marks a completed
// event whose roster cleanup has not finished.
type Transition struct {
	Kind         Kind
	ID           string
	From         model.Status
	To           model.Status
	NeedsCleanup bool
}

// Advances reports whether the transition changes the persisted status.
func (t Transition) Advances() bool { return t.From != t.To }

// Evaluate returns the transitions due at now, in input order, events before
// workshops. Each entity advances at most one step per evaluation, so a pass
// over stale data converges over repeated runs instead of skipping states.
// Completed events are terminal for status but still yield a cleanup-only
// transition while no-show participants remain on the roster.
func Evaluate(events []model.Event, workshops []model.Workshop, now time.Time) []Transition {
	var out []Transition
	for i := range events {
		if t, ok := evaluateEvent(&events[i], now); ok {
			out = append(out, t)
		}
	}
	for i := range workshops {
		if t, ok := evaluateWorkshop(&workshops[i], now); ok {
			out = append(out, t)
		}
	}
	return out
}

func evaluateEvent(e *model.Event, now time.Time) (Transition, bool) {
	switch e.Status {
	case model.StatusUpcoming:
		if !now.Before(e.StartDate) {
			return Transition{Kind: KindEvent, ID: e.ID, From: model.StatusUpcoming, To: model.StatusOngoing}, true
		}
	case model.StatusOngoing:
		if !now.Before(e.EffectiveEnd()) {
			return Transition{Kind: KindEvent, ID: e.ID, From: model.StatusOngoing, To: model.StatusCompleted, NeedsCleanup: true}, true
		}
	case model.StatusCompleted:
		if len(e.NoShows()) > 0 {
			return Transition{Kind: KindEvent, ID: e.ID, From: model.StatusCompleted, To: model.StatusCompleted, NeedsCleanup: true}, true
		}
	}
	return Transition{}, false
}

func evaluateWorkshop(w *model.Workshop, now time.Time) (Transition, bool) {
	switch w.Status {
	case model.StatusUpcoming:
		if !now.Before(w.StartDate) {
			return Transition{Kind: KindWorkshop, ID: w.ID, From: model.StatusUpcoming, To: model.StatusOngoing}, true
		}
	case model.StatusOngoing:
		if !now.Before(w.EndDate) {
			return Transition{Kind: KindWorkshop, ID: w.ID, From: model.StatusOngoing, To: model.StatusCompleted}, true
		}
	}
	return Transition{}, false
}
