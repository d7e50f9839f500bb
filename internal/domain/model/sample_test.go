package model_test

import (
	"testing"
	"time"

	"github.com/snowbellsan/psiguard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSample_New(t *testing.T) {
	Convey("Given fresh readings", t, func() {
		ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

		Convey("When constructing a sample", func() {
			s := model.New(ts, 85.5, 0.9, 0.8, 0.6)

			Convey("Then it should carry the readings and be valid", func() {
				So(s.ID, ShouldNotBeEmpty)
				So(s.Timestamp, ShouldEqual, ts)
				So(s.Consumption, ShouldEqual, 85.5)
				So(s.Basic, ShouldEqual, 0.9)
				So(s.Applied, ShouldEqual, 0.8)
				So(s.Creative, ShouldEqual, 0.6)
				So(s.Valid, ShouldBeTrue)
				So(s.Reason, ShouldBeEmpty)
			})
		})

		Convey("When constructing two samples", func() {
			a := model.New(ts, 50, 0.9, 0.8, 0.6)
			b := model.New(ts, 50, 0.9, 0.8, 0.6)

			Convey("Then their ids should differ", func() {
				So(a.ID, ShouldNotEqual, b.ID)
			})
		})
	})
}

func TestSample_Degraded(t *testing.T) {
	Convey("Given a failed source", t, func() {
		ts := time.Now()

		Convey("When constructing a degraded sample", func() {
			s := model.Degraded(ts, "source unavailable")

			Convey("Then it should be flagged and carry no readings", func() {
				So(s.ID, ShouldNotBeEmpty)
				So(s.Valid, ShouldBeFalse)
				So(s.Reason, ShouldEqual, "source unavailable")
				So(s.Consumption, ShouldEqual, 0)
				So(s.Basic, ShouldEqual, 0)
				So(s.Applied, ShouldEqual, 0)
				So(s.Creative, ShouldEqual, 0)
			})
		})
	})
}
