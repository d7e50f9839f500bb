package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording control loop metrics", func() {
			Convey("Then it should record ticks and sampler outcomes", func() {
				So(func() {
					RecordTick()
					RecordDegradedSample()
					RecordSamplerError()
					RecordTickDuration(3.5)
				}, ShouldNotPanic)
			})

			Convey("And it should record tier transitions and directives", func() {
				So(func() {
					RecordTierChange("WARNING")
					RecordTierChange("EMERGENCY")
					RecordDirective("NONE")
					RecordDirective("OPTIMIZATION_INITIATED")
				}, ShouldNotPanic)
			})
		})

		Convey("When updating readout gauges", func() {
			So(func() {
				UpdateConsumption(95.0)
				UpdateCeiling(100.0)
				UpdateRatio(0.95)
				UpdatePsi(0.77)
				UpdatePsiPerWatt(0.0081)
				UpdateTierCode(1)
			}, ShouldNotPanic)
		})

		Convey("When recording history metrics", func() {
			So(func() {
				UpdateHistorySize(12)
				UpdateHistoryCapacity(30)
				RecordSnapshotPublished(1700000000, 0.2)
			}, ShouldNotPanic)
		})

		Convey("When recording stream metrics", func() {
			So(func() {
				UpdateSubscriberCount(2)
				RecordStreamDelivered()
				RecordStreamDropped()
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("/snapshot", "GET", "200")
				RecordHTTPRequestDuration("/snapshot", "GET", "200", 5.0)
				RecordErrorByEndpoint("/history", "GET", "client_error")
				RecordErrorByType("client_error", "medium")
				RecordErrorLatency("http", "client_error", 2.0)
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024 * 1024)
				UpdateSystemGoroutineCount(42)
				RecordSystemGCPauseTime(0.7)
			}, ShouldNotPanic)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		Convey("Then it should be exposed for the metrics endpoint", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
