package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging at info", func() {
			Get().Info(ctx, "saved item", String("id", "007"), Float64("value1", 2))

			Convey("Then the message, fields and caller are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "saved item")
				So(out, ShouldContainSubstring, "id=007")
				So(out, ShouldContainSubstring, "value1=2")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the level", func() {
			Get().Debug(ctx, "hidden")
			So(buf.String(), ShouldNotContainSubstring, "hidden")

			Convey("Then lowering the level reveals it", func() {
				So(SetLevelString("debug"), ShouldBeNil)
				Get().Debug(ctx, "shown")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})

		Convey("When using a named logger", func() {
			Named("store").Warn(ctx, "slow", Error(errors.New("boom")))

			Convey("Then the name and error are attached", func() {
				So(buf.String(), ShouldContainSubstring, "logger=store")
				So(buf.String(), ShouldContainSubstring, "error=boom")
			})
		})
	})
}

func TestLoggerFile(t *testing.T) {
	Convey("Given a logger with a file sink", t, func() {
		path := filepath.Join(t.TempDir(), "logs", "app.log")
		var buf bytes.Buffer
		So(Init(WithOutput(&buf), WithFile(path), WithJSON(true)), ShouldBeNil)

		Get().Info(context.Background(), "to both")
		So(Sync(), ShouldBeNil)

		Convey("Then the line is written to the output and the file", func() {
			So(buf.String(), ShouldContainSubstring, `"msg":"to both"`)
			raw, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(strings.Count(string(raw), "to both"), ShouldEqual, 1)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, l := range []string{"debug", "INFO", "", "warn", "Warning", "error"} {
			So(SetLevelString(l), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
	})
}
