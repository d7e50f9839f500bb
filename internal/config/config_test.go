package config_test

import (
	"errors"
	"testing"

	"github.com/snowbellsan/psiguard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.CeilingWatts, convey.ShouldEqual, 100.0)
			convey.So(cfg.PollIntervalMS, convey.ShouldEqual, 1000)
			convey.So(cfg.SampleTimeoutMS, convey.ShouldEqual, 500)
			convey.So(cfg.HistorySize, convey.ShouldEqual, 30)
			convey.So(cfg.SubscriberBuffer, convey.ShouldEqual, 16)
			convey.So(cfg.DebounceTicks, convey.ShouldEqual, 0)
			convey.So(cfg.WeightBasic, convey.ShouldAlmostEqual, 1.0/3, 1e-12)
		})

		convey.Convey("And the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configurations", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }},
			{"zero ceiling", func(c *config.Config) { c.CeilingWatts = 0 }},
			{"negative ceiling", func(c *config.Config) { c.CeilingWatts = -100 }},
			{"zero interval", func(c *config.Config) { c.PollIntervalMS = 0 }},
			{"negative interval", func(c *config.Config) { c.PollIntervalMS = -1 }},
			{"zero sample timeout", func(c *config.Config) { c.SampleTimeoutMS = 0 }},
			{"zero history", func(c *config.Config) { c.HistorySize = 0 }},
			{"zero subscriber buffer", func(c *config.Config) { c.SubscriberBuffer = 0 }},
			{"negative debounce", func(c *config.Config) { c.DebounceTicks = -1 }},
			{"negative weight", func(c *config.Config) { c.WeightBasic = -1 }},
			{"all-zero weights", func(c *config.Config) {
				c.WeightBasic, c.WeightApplied, c.WeightCreative = 0, 0, 0
			}},
		}

		for _, tc := range cases {
			tc := tc
			convey.Convey("When validating a config with "+tc.name, func() {
				cfg := config.New()
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then validation fails fast with ErrInvalidConfig", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
