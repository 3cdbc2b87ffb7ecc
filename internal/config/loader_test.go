package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/fixturepick/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FIXTUREPICK_ADDR", ":8080")
			_ = os.Setenv("FIXTUREPICK_LOG_LEVEL", "debug")
			_ = os.Setenv("FIXTUREPICK_LOG_FORMAT", "json")
			_ = os.Setenv("FIXTUREPICK_CATALOG_PATH", "/srv/teams_data.json")
			_ = os.Setenv("FIXTUREPICK_SESSION_SIZE", "50")
			_ = os.Setenv("FIXTUREPICK_SESSION_TTL_SECONDS", "60")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "/srv/teams_data.json")
				convey.So(cfg.SessionSize, convey.ShouldEqual, 50)
				convey.So(cfg.SessionTTLSeconds, convey.ShouldEqual, 60)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
# picker service
addr: ":9090"
catalog_path: "./teams_data.json"  # local override
session_size: 200
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FIXTUREPICK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values merge with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "./teams_data.json")
				convey.So(cfg.SessionSize, convey.ShouldEqual, 200)
				convey.So(cfg.SessionTTLSeconds, convey.ShouldEqual, 1800)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
session_size: 200
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FIXTUREPICK_CONFIG", tmpFile)
			_ = os.Setenv("FIXTUREPICK_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SessionSize, convey.ShouldEqual, 200)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FIXTUREPICK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FIXTUREPICK_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("FIXTUREPICK_SESSION_SIZE", "lots")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		cases := map[string][2]string{
			"empty addr":           {"FIXTUREPICK_ADDR", ""},
			"zero session size":    {"FIXTUREPICK_SESSION_SIZE", "0"},
			"negative ttl":         {"FIXTUREPICK_SESSION_TTL_SECONDS", "-5"},
			"unknown log format":   {"FIXTUREPICK_LOG_FORMAT", "xml"},
			"whitespace only addr": {"FIXTUREPICK_ADDR", "   "},
		}
		for name, kv := range cases {
			convey.Convey("When loading with "+name, func() {
				_ = os.Setenv(kv[0], kv[1])

				cfg, err := config.Load(ctx)

				convey.Convey("Then a validation error is returned", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"FIXTUREPICK_CONFIG",
		"FIXTUREPICK_ADDR",
		"FIXTUREPICK_LOG_LEVEL",
		"FIXTUREPICK_LOG_FORMAT",
		"FIXTUREPICK_CATALOG_PATH",
		"FIXTUREPICK_SESSION_SIZE",
		"FIXTUREPICK_SESSION_TTL_SECONDS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "fixturepick-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
