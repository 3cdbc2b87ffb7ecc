package config_test

import (
	"testing"
	"time"

	"github.com/okian/fixturepick/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.CatalogPath, convey.ShouldBeEmpty)
			convey.So(cfg.SessionSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.SessionTTL(), convey.ShouldEqual, 30*time.Minute)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
