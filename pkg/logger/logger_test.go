package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pendulolabs/pendulo/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGlobalLogger(t *testing.T) {
	Convey("Given the global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then Get returns a usable logger", func() {
			log := logger.Get()
			So(log, ShouldNotBeNil)
			So(func() {
				log.Info(context.Background(), "hello", logger.String("k", "v"))
			}, ShouldNotPanic)
		})

		Convey("Then Named returns a scoped logger", func() {
			named := logger.Named("component")
			So(named, ShouldNotBeNil)
			So(func() {
				named.Warn(context.Background(), "scoped", logger.Int("n", 1))
			}, ShouldNotPanic)
		})

		Convey("Then field constructors carry their values", func() {
			So(logger.String("a", "b").Key, ShouldEqual, "a")
			So(logger.Int("n", 2).Value, ShouldEqual, 2)
			So(logger.Bool("ok", true).Value, ShouldEqual, true)
			So(logger.Float64("f", 1.5).Value, ShouldEqual, 1.5)
			So(logger.Error(errors.New("boom")).Key, ShouldEqual, "error")
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		So(logger.SetLevelString("debug"), ShouldBeNil)
		So(logger.SetLevelString("WARN"), ShouldBeNil)
		So(logger.SetLevelString("warning"), ShouldBeNil)
		So(logger.SetLevelString(""), ShouldBeNil)
		So(logger.SetLevelString("verbose"), ShouldNotBeNil)

		// Restore the default so other tests keep info-level output.
		So(logger.SetLevelString("info"), ShouldBeNil)
	})
}
