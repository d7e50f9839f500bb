package service_test

import (
	"context"
	"testing"
	"time"

	service "github.com/snowbellsan/psiguard/internal/app"
	"github.com/snowbellsan/psiguard/internal/adapters/sampler"
	"github.com/snowbellsan/psiguard/internal/domain/model"
	"github.com/snowbellsan/psiguard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// steadySource always reports the same consumption, half the default ceiling.
func steadySource(consumption float64) sampler.Source {
	return sampler.SourceFunc(func(_ context.Context) (model.Sample, error) {
		return model.New(time.Now(), consumption, 0.9, 0.8, 0.6), nil
	})
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.HistoryCapacity(), ShouldEqual, 30)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithCeiling(250),
			service.WithInterval(50*time.Millisecond),
			service.WithHistorySize(10),
			service.WithSubscriberBuffer(4),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
			So(svc.HistoryCapacity(), ShouldEqual, 10)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(
			service.WithInterval(20*time.Millisecond),
			service.WithSource(steadySource(50)),
		)
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(
			service.WithInterval(20*time.Millisecond),
			service.WithSource(steadySource(50)),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})

			Convey("And stopping again should be a no-op", func() {
				So(svc.Stop, ShouldNotPanic)
			})
		})
	})
}

func TestService_Readings(t *testing.T) {
	Convey("Given a started service with a steady source", t, func() {
		svc := service.New(
			service.WithInterval(10*time.Millisecond),
			service.WithSource(steadySource(50)),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		// Let a few ticks land.
		time.Sleep(100 * time.Millisecond)

		Convey("When fetching the latest reading", func() {
			reading, err := svc.Latest(ctx)

			Convey("Then it should reflect the steady load", func() {
				So(err, ShouldBeNil)
				So(reading.Consumption, ShouldEqual, 50)
				So(reading.Tier, ShouldEqual, "NOMINAL")
				So(reading.Valid, ShouldBeTrue)
			})
		})

		Convey("When fetching recent readings", func() {
			readings, err := svc.Recent(ctx, 5)

			Convey("Then they should arrive oldest first", func() {
				So(err, ShouldBeNil)
				So(len(readings), ShouldBeGreaterThan, 0)
				So(len(readings), ShouldBeLessThanOrEqualTo, 5)
				for i := 1; i < len(readings); i++ {
					So(readings[i].Timestamp.Before(readings[i-1].Timestamp), ShouldBeFalse)
				}
			})
		})
	})
}

func TestService_DegradedSource(t *testing.T) {
	Convey("Given a started service whose source always fails", t, func() {
		failing := sampler.SourceFunc(func(_ context.Context) (model.Sample, error) {
			return model.Sample{}, sampler.ErrUnavailable
		})
		svc := service.New(
			service.WithInterval(10*time.Millisecond),
			service.WithSource(failing),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		time.Sleep(100 * time.Millisecond)

		Convey("When fetching the latest reading", func() {
			reading, err := svc.Latest(ctx)

			Convey("Then it should be a flagged degraded reading", func() {
				So(err, ShouldBeNil)
				So(reading.Valid, ShouldBeFalse)
				So(reading.Tier, ShouldEqual, "DEGRADED")
				So(reading.Reason, ShouldNotBeEmpty)
			})
		})
	})
}

func TestService_Subscribe(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(
			service.WithInterval(10*time.Millisecond),
			service.WithSource(steadySource(95)),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When subscribing to the stream", func() {
			ch, unsubscribe, err := svc.Subscribe(ctx)
			So(err, ShouldBeNil)
			defer unsubscribe()

			Convey("Then readings should be delivered per tick", func() {
				select {
				case reading := <-ch:
					So(reading.Consumption, ShouldEqual, 95)
					So(reading.Tier, ShouldEqual, "WARNING")
				case <-time.After(2 * time.Second):
					So("timed out waiting for reading", ShouldBeEmpty)
				}
			})
		})
	})
}
