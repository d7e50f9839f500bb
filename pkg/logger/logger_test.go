package logger

import (
	"context"
	"log/slog"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized", func() {
			err := Init()

			Convey("Then it should be available via Get", func() {
				So(err, ShouldBeNil)
				So(Get(), ShouldNotBeNil)
			})

			Convey("And named loggers should be derivable", func() {
				So(Named("poll"), ShouldNotBeNil)
			})

			Convey("And logging should not panic", func() {
				ctx := context.Background()
				So(func() {
					Get().Info(ctx, "info message", String("k", "v"))
					Get().Warn(ctx, "warn message", Int("n", 1))
					Get().Error(ctx, "error message", Float64("f", 1.5))
					Get().Debug(ctx, "debug message", Bool("b", true))
				}, ShouldNotPanic)
			})
		})
	})
}

func TestLoggerLevels(t *testing.T) {
	Convey("Given level parsing", t, func() {
		So(Init(), ShouldBeNil)

		Convey("When setting known levels", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", ""} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("When setting an unknown level", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})

		Convey("When setting a slog level directly", func() {
			So(func() { SetLevel(slog.LevelDebug) }, ShouldNotPanic)
		})
	})
}

func TestLoggerSync(t *testing.T) {
	Convey("Given the global logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then Sync should be a no-op", func() {
			So(Sync(), ShouldBeNil)
		})
	})
}
