package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hackdesk/hackdesk/internal/adapters/repository"
	"github.com/hackdesk/hackdesk/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestMemoryEvents(t *testing.T) {
	convey.Convey("Given a memory store with one event", t, func() {
		ctx := context.Background()
		store := repository.NewMemory()
		start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		store.PutEvent(model.Event{
			ID:           "ev1",
			Status:       model.StatusUpcoming,
			StartDate:    start,
			EndDate:      start.Add(8 * time.Hour),
			Participants: []string{"a", "b"},
			CheckedIn:    []string{"a"},
			Teams:        []string{"t1"},
		})

		convey.Convey("When listing events", func() {
			events, err := store.ListEvents(ctx)

			convey.Convey("Then the event comes back", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(events, convey.ShouldHaveLength, 1)
				convey.So(events[0].Participants, convey.ShouldResemble, []string{"a", "b"})
			})

			convey.Convey("And mutating the returned slice must not leak into the store", func() {
				events[0].Participants[0] = "mutated"
				again, err := store.GetEvent(ctx, "ev1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(again.Participants[0], convey.ShouldEqual, "a")
			})
		})

		convey.Convey("When getting an unknown event", func() {
			_, err := store.GetEvent(ctx, "nope")

			convey.Convey("Then it should be ErrNotFound", func() {
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When committing a guarded status transition", func() {
			err := store.UpdateEventStatus(ctx, "ev1", model.StatusUpcoming, model.StatusOngoing)

			convey.Convey("Then it should succeed once", func() {
				convey.So(err, convey.ShouldBeNil)
				e, _ := store.GetEvent(ctx, "ev1")
				convey.So(e.Status, convey.ShouldEqual, model.StatusOngoing)
			})

			convey.Convey("And repeating the same transition should conflict", func() {
				err := store.UpdateEventStatus(ctx, "ev1", model.StatusUpcoming, model.StatusOngoing)
				convey.So(errors.Is(err, repository.ErrConflict), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When replacing rosters", func() {
			err := store.UpdateEventRosters(ctx, "ev1", []string{"a"}, nil)

			convey.Convey("Then the sets are replaced wholesale", func() {
				convey.So(err, convey.ShouldBeNil)
				e, _ := store.GetEvent(ctx, "ev1")
				convey.So(e.Participants, convey.ShouldResemble, []string{"a"})
				convey.So(e.Teams, convey.ShouldBeNil)
			})
		})
	})
}

func TestMemoryWorkshops(t *testing.T) {
	convey.Convey("Given a memory store with a workshop", t, func() {
		ctx := context.Background()
		store := repository.NewMemory()
		store.PutWorkshop(model.Workshop{ID: "w1", Status: model.StatusOngoing})

		convey.Convey("When listing and transitioning", func() {
			ws, err := store.ListWorkshops(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(ws, convey.ShouldHaveLength, 1)

			err = store.UpdateWorkshopStatus(ctx, "w1", model.StatusOngoing, model.StatusCompleted)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then a stale guard conflicts", func() {
				err := store.UpdateWorkshopStatus(ctx, "w1", model.StatusOngoing, model.StatusCompleted)
				convey.So(errors.Is(err, repository.ErrConflict), convey.ShouldBeTrue)
			})
		})
	})
}

func TestMemoryTeamsAndUsers(t *testing.T) {
	convey.Convey("Given a store with teams and users", t, func() {
		ctx := context.Background()
		store := repository.NewMemory()
		store.PutTeam(model.Team{ID: "t1", EventID: "ev1", Members: []string{"a", "b"}})
		store.PutTeam(model.Team{ID: "t2", EventID: "ev2", Members: []string{"a"}})
		store.PutUser(model.User{ID: "a", Events: []string{"ev1", "ev2"}})

		convey.Convey("When finding a team by event and member", func() {
			team, err := store.FindTeamByEventAndMember(ctx, "ev1", "a")

			convey.Convey("Then the event scopes the lookup", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(team.ID, convey.ShouldEqual, "t1")
			})

			convey.Convey("And a non-member yields ErrNotFound", func() {
				_, err := store.FindTeamByEventAndMember(ctx, "ev1", "zz")
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shrinking and deleting teams", func() {
			convey.So(store.UpdateTeamMembers(ctx, "t1", []string{"a"}), convey.ShouldBeNil)
			team, ok := store.GetTeam("t1")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(team.Members, convey.ShouldResemble, []string{"a"})

			convey.So(store.DeleteTeam(ctx, "t2"), convey.ShouldBeNil)

			convey.Convey("Then deleting again is ErrNotFound", func() {
				err := store.DeleteTeam(ctx, "t2")
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When updating user events", func() {
			convey.So(store.UpdateUserEvents(ctx, "a", []string{"ev2"}), convey.ShouldBeNil)
			u, err := store.GetUser(ctx, "a")
			convey.So(err, convey.ShouldBeNil)
			convey.So(u.Events, convey.ShouldResemble, []string{"ev2"})

			convey.Convey("Then an unknown user is ErrNotFound", func() {
				err := store.UpdateUserEvents(ctx, "ghost", nil)
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})
	})
}
