package metrics_test

import (
	"testing"

	"github.com/hackdesk/hackdesk/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	convey.Convey("Given the metrics registry", t, func() {
		reg := metrics.GetRegistry()

		convey.Convey("Then it should not be nil", func() {
			convey.So(reg, convey.ShouldNotBeNil)
		})

		convey.Convey("When recording every metric kind", func() {
			convey.So(func() {
				metrics.RecordSweep(12.5)
				metrics.RecordTransition("event", "ongoing")
				metrics.RecordTransition("workshop", "completed")
				metrics.RecordTransitionError("event")
				metrics.RecordTransitionConflict()
				metrics.UpdateTrackedEvents(3)
				metrics.UpdateTrackedWorkshops(2)
				metrics.RecordCleanupRun(40)
				metrics.RecordCleanupFailure()
				metrics.RecordEvictions(2)
				metrics.RecordTeamsDeleted(1)
				metrics.RecordHTTPRequest("stats", "GET", "200")
				metrics.RecordHTTPRequestDuration("stats", "GET", 1.2)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When gathering", func() {
			families, err := reg.Gather()

			convey.Convey("Then the domain metrics should be present", func() {
				convey.So(err, convey.ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				convey.So(names["hackdesk_scheduler_sweeps_total"], convey.ShouldBeTrue)
				convey.So(names["hackdesk_transitions_total"], convey.ShouldBeTrue)
				convey.So(names["hackdesk_cleanup_runs_total"], convey.ShouldBeTrue)
			})
		})
	})
}
