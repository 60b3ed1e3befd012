package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/hackdesk/hackdesk/internal/adapters/repository"
	"github.com/hackdesk/hackdesk/internal/app"
	"github.com/hackdesk/hackdesk/internal/domain/model"
	"github.com/hackdesk/hackdesk/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestServiceNew(t *testing.T) {
	convey.Convey("Given a new service with default options", t, func() {
		svc := app.New()

		convey.Convey("Then it should come up with sensible defaults", func() {
			convey.So(svc, convey.ShouldNotBeNil)
			stats := svc.GetStats()
			convey.So(stats["started"], convey.ShouldEqual, false)
			convey.So(stats["sweep_interval"], convey.ShouldEqual, "1m0s")
		})
	})

	convey.Convey("Given a new service with custom options", t, func() {
		svc := app.New(
			app.WithStore(repository.NewMemory()),
			app.WithSweepInterval(10*time.Second),
			app.WithCleanupTimeout(5*time.Second),
		)

		convey.Convey("Then options should be applied", func() {
			stats := svc.GetStats()
			convey.So(stats["sweep_interval"], convey.ShouldEqual, "10s")
			convey.So(stats["cleanup_timeout"], convey.ShouldEqual, "5s")
		})
	})
}

func TestServiceStartStop(t *testing.T) {
	convey.Convey("Given a service", t, func() {
		svc := app.New(app.WithSweepInterval(time.Hour))
		defer svc.Stop()

		convey.Convey("When starting it", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			convey.Convey("Then it should be marked as started", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.GetStats()["started"], convey.ShouldEqual, true)
			})

			convey.Convey("And starting twice should fail", func() {
				convey.So(svc.Start(ctx), convey.ShouldNotBeNil)
			})

			convey.Convey("And stopping should be clean and idempotent", func() {
				svc.Stop()
				convey.So(svc.GetStats()["started"], convey.ShouldEqual, false)
				svc.Stop()
			})
		})
	})
}

func TestServiceSweepNow(t *testing.T) {
	convey.Convey("Given a started service over a store with a due event", t, func() {
		store := repository.NewMemory()
		start := time.Now().Add(-time.Hour)
		store.PutEvent(model.Event{
			ID:                 "ev1",
			Status:             model.StatusUpcoming,
			StartDate:          start,
			EndDate:            time.Now().Add(8 * time.Hour),
			SubmissionDeadline: time.Now().Add(8 * time.Hour),
		})
		svc := app.New(app.WithStore(store), app.WithSweepInterval(time.Hour))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When sweeping on demand", func() {
			// The initial background sweep may already have advanced it;
			// the on-demand sweep must observe a consistent terminal state.
			svc.SweepNow(ctx)

			convey.Convey("Then the due transition is committed", func() {
				e, err := store.GetEvent(ctx, "ev1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(e.Status, convey.ShouldEqual, model.StatusOngoing)
			})
		})
	})
}
