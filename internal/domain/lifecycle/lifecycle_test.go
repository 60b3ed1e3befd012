package lifecycle_test

import (
	"testing"
	"time"

	"github.com/hackdesk/hackdesk/internal/domain/lifecycle"
	"github.com/hackdesk/hackdesk/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

var base = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func event(id string, status model.Status, start, end, deadline time.Time) model.Event {
	return model.Event{
		ID:                 id,
		Status:             status,
		StartDate:          start,
		EndDate:            end,
		SubmissionDeadline: deadline,
	}
}

func TestEvaluateUpcoming(t *testing.T) {
	convey.Convey("Given an upcoming event", t, func() {
		e := event("ev1", model.StatusUpcoming, base, base.Add(8*time.Hour), base.Add(8*time.Hour))

		convey.Convey("When evaluated before the start date", func() {
			ts := lifecycle.Evaluate([]model.Event{e}, nil, base.Add(-time.Minute))

			convey.Convey("Then nothing is due", func() {
				convey.So(ts, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When evaluated at the start date", func() {
			ts := lifecycle.Evaluate([]model.Event{e}, nil, base)

			convey.Convey("Then it advances to ongoing only", func() {
				convey.So(ts, convey.ShouldHaveLength, 1)
				convey.So(ts[0].To, convey.ShouldEqual, model.StatusOngoing)
				convey.So(ts[0].NeedsCleanup, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When evaluated long after the effective end", func() {
			ts := lifecycle.Evaluate([]model.Event{e}, nil, base.Add(48*time.Hour))

			convey.Convey("Then it still advances a single step, never skipping ongoing", func() {
				convey.So(ts, convey.ShouldHaveLength, 1)
				convey.So(ts[0].From, convey.ShouldEqual, model.StatusUpcoming)
				convey.So(ts[0].To, convey.ShouldEqual, model.StatusOngoing)
			})
		})
	})
}

func TestEvaluateOngoing(t *testing.T) {
	convey.Convey("Given an ongoing event", t, func() {
		end := base.Add(8 * time.Hour)

		convey.Convey("When the submission deadline runs past the end date", func() {
			e := event("ev1", model.StatusOngoing, base, end, end.Add(4*time.Hour))

			convey.Convey("And now is past the end date but inside the deadline", func() {
				ts := lifecycle.Evaluate([]model.Event{e}, nil, end.Add(time.Hour))

				convey.Convey("Then the event stays ongoing", func() {
					convey.So(ts, convey.ShouldBeEmpty)
				})
			})

			convey.Convey("And now is past the deadline", func() {
				ts := lifecycle.Evaluate([]model.Event{e}, nil, end.Add(4*time.Hour))

				convey.Convey("Then it completes and requires cleanup", func() {
					convey.So(ts, convey.ShouldHaveLength, 1)
					convey.So(ts[0].To, convey.ShouldEqual, model.StatusCompleted)
					convey.So(ts[0].NeedsCleanup, convey.ShouldBeTrue)
					convey.So(ts[0].Advances(), convey.ShouldBeTrue)
				})
			})
		})

		convey.Convey("When the deadline precedes the end date", func() {
			e := event("ev1", model.StatusOngoing, base, end, end.Add(-time.Hour))
			ts := lifecycle.Evaluate([]model.Event{e}, nil, end)

			convey.Convey("Then the end date rules the completion", func() {
				convey.So(ts, convey.ShouldHaveLength, 1)
				convey.So(ts[0].To, convey.ShouldEqual, model.StatusCompleted)
			})
		})
	})
}

func TestEvaluateCompleted(t *testing.T) {
	convey.Convey("Given a completed event", t, func() {
		e := event("ev1", model.StatusCompleted, base, base.Add(time.Hour), base.Add(time.Hour))

		convey.Convey("When its roster is fully checked in", func() {
			e.Participants = []string{"a"}
			e.CheckedIn = []string{"a"}
			ts := lifecycle.Evaluate([]model.Event{e}, nil, base.Add(72*time.Hour))

			convey.Convey("Then it is terminal and yields nothing", func() {
				convey.So(ts, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When no-show participants remain", func() {
			e.Participants = []string{"a", "b"}
			e.CheckedIn = []string{"a"}
			ts := lifecycle.Evaluate([]model.Event{e}, nil, base.Add(72*time.Hour))

			convey.Convey("Then a cleanup-only transition is due", func() {
				convey.So(ts, convey.ShouldHaveLength, 1)
				convey.So(ts[0].Advances(), convey.ShouldBeFalse)
				convey.So(ts[0].NeedsCleanup, convey.ShouldBeTrue)
			})
		})
	})
}

func TestEvaluateWorkshops(t *testing.T) {
	convey.Convey("Given workshops in each state", t, func() {
		ws := []model.Workshop{
			{ID: "w1", Status: model.StatusUpcoming, StartDate: base, EndDate: base.Add(2 * time.Hour)},
			{ID: "w2", Status: model.StatusOngoing, StartDate: base.Add(-4 * time.Hour), EndDate: base},
			{ID: "w3", Status: model.StatusCompleted, StartDate: base.Add(-8 * time.Hour), EndDate: base.Add(-6 * time.Hour)},
		}

		convey.Convey("When evaluated at the boundary instant", func() {
			ts := lifecycle.Evaluate(nil, ws, base)

			convey.Convey("Then both non-terminal workshops advance, without cleanup", func() {
				convey.So(ts, convey.ShouldHaveLength, 2)
				convey.So(ts[0].Kind, convey.ShouldEqual, lifecycle.KindWorkshop)
				convey.So(ts[0].To, convey.ShouldEqual, model.StatusOngoing)
				convey.So(ts[1].To, convey.ShouldEqual, model.StatusCompleted)
				convey.So(ts[1].NeedsCleanup, convey.ShouldBeFalse)
			})
		})
	})
}

func TestEvaluateIdempotence(t *testing.T) {
	convey.Convey("Given a mixed set of events", t, func() {
		now := base.Add(10 * time.Hour)
		events := []model.Event{
			event("started", model.StatusUpcoming, base, base.Add(8*time.Hour), base.Add(8*time.Hour)),
			event("done", model.StatusOngoing, base, base.Add(8*time.Hour), base.Add(9*time.Hour)),
		}

		convey.Convey("When evaluating, applying the results, and evaluating again at the same instant", func() {
			first := lifecycle.Evaluate(events, nil, now)
			convey.So(first, convey.ShouldHaveLength, 2)

			for _, tr := range first {
				for i := range events {
					if events[i].ID == tr.ID {
						events[i].Status = tr.To
					}
				}
			}
			// "done" completed with an empty roster, "started" is now ongoing
			// and past its effective end, so exactly one more step is due.
			second := lifecycle.Evaluate(events, nil, now)

			convey.Convey("Then only the catch-up step remains", func() {
				convey.So(second, convey.ShouldHaveLength, 1)
				convey.So(second[0].ID, convey.ShouldEqual, "started")
				convey.So(second[0].To, convey.ShouldEqual, model.StatusCompleted)
			})

			convey.Convey("And applying that too leaves nothing due", func() {
				for i := range events {
					if events[i].ID == second[0].ID {
						events[i].Status = second[0].To
					}
				}
				convey.So(lifecycle.Evaluate(events, nil, now), convey.ShouldBeEmpty)
			})
		})
	})
}
