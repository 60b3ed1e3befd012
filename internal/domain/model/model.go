// Package model contains domain entities passed between layers.
package model

import "time"

// Status is the lifecycle state of an event or workshop.
// Transitions only move forward: upcoming -> ongoing -> completed.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// rank orders statuses for monotonicity checks. Unknown statuses rank last.
func (s Status) rank() int {
	switch s {
	case StatusUpcoming:
		return 0
	case StatusOngoing:
		return 1
	case StatusCompleted:
		return 2
	}
	return 3
}

// Valid reports whether s is one of the three lifecycle states.
func (s Status) Valid() bool { return s.rank() < 3 }

// Before reports whether s strictly precedes other in the lifecycle order.
func (s Status) Before(other Status) bool { return s.rank() < other.rank() }

// Next returns the following lifecycle state, or false for completed
// (terminal) and unknown statuses.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusUpcoming:
		return StatusOngoing, true
	case StatusOngoing:
		return StatusCompleted, true
	}
	return s, false
}

// Event is a hackathon event with its participant roster and team references.
// Participants, CheckedIn and Teams hold ids; CheckedIn is a subset of
// Participants. After roster cleanup of a completed event every remaining
// participant is checked in.
type Event struct {
	ID                 string    `bson:"_id" json:"id"`
	Name               string    `bson:"name" json:"name"`
	StartDate          time.Time `bson:"start_date" json:"start_date"`
	EndDate            time.Time `bson:"end_date" json:"end_date"`
	SubmissionDeadline time.Time `bson:"submission_deadline" json:"submission_deadline"`
	Status             Status    `bson:"status" json:"status"`
	Participants       []string  `bson:"participants" json:"participants"`
	CheckedIn          []string  `bson:"checked_in" json:"checked_in"`
	Teams              []string  `bson:"teams" json:"teams"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

// EffectiveEnd is the later of the end date and the submission deadline.
// An event must not complete while submissions are still allowed.
func (e *Event) EffectiveEnd() time.Time {
	if e.SubmissionDeadline.After(e.EndDate) {
		return e.SubmissionDeadline
	}
	return e.EndDate
}

// NoShows returns the participants absent from the checked-in set, in
// roster order.
func (e *Event) NoShows() []string {
	checked := make(map[string]struct{}, len(e.CheckedIn))
	for _, id := range e.CheckedIn {
		checked[id] = struct{}{}
	}
	var out []string
	for _, id := range e.Participants {
		if _, ok := checked[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Workshop is structurally a simpler event: time-driven status, no
// submissions, no check-in and no cleanup cascade.
type Workshop struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	StartDate time.Time `bson:"start_date" json:"start_date"`
	EndDate   time.Time `bson:"end_date" json:"end_date"`
	Status    Status    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Team is an event team. Members is never empty in a persisted team; the
// cleanup cascade deletes a team instead of leaving it memberless. A user
// belongs to at most one team per event; the store upholds that contract.
type Team struct {
	ID               string   `bson:"_id" json:"id"`
	EventID          string   `bson:"event_id" json:"event_id"`
	Name             string   `bson:"name" json:"name"`
	JoinCode         string   `bson:"join_code" json:"join_code"`
	Members          []string `bson:"members" json:"members"`
	SubmittedProject bool     `bson:"submitted_project" json:"submitted_project"`
	Project          string   `bson:"project" json:"project"`
}

// User holds the event and workshop ids a user has joined.
type User struct {
	ID        string   `bson:"_id" json:"id"`
	Name      string   `bson:"name" json:"name"`
	Email     string   `bson:"email" json:"email"`
	Events    []string `bson:"events" json:"events"`
	Workshops []string `bson:"workshops" json:"workshops"`
}

// Remove returns ids with every occurrence of id removed, preserving order.
func Remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Contains reports whether ids holds id.
func Contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
