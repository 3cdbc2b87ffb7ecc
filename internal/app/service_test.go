package service_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	service "github.com/okian/fixturepick/internal/app"
	"github.com/okian/fixturepick/internal/adapters/repository"
	"github.com/okian/fixturepick/internal/domain/selection"
	"github.com/okian/fixturepick/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const testCatalog = `{"teams":[
  {"league":"Premier League","country":"England","teams":["Arsenal","Chelsea","Liverpool"]},
  {"league":"Championship","country":"England","teams":["Leeds United","Burnley"]},
  {"league":"La Liga","country":"Spain","teams":["Barcelona","Real Madrid"]}
]}`

func newTestService(data string, opts ...service.Option) *service.Service {
	fsys := fstest.MapFS{"catalog.json": &fstest.MapFile{Data: []byte(data)}}
	store := repository.NewCatalogStore(repository.WithSource(repository.FromFS(fsys, "catalog.json")))
	opts = append([]service.Option{service.WithCatalogStore(store)}, opts...)
	return service.New(opts...)
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Ready(), ShouldBeFalse)
			So(svc.GetStats()["sessionSize"], ShouldEqual, 10_000)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithSessionSize(50),
			service.WithSessionTTL(time.Minute),
			service.WithLogger(logger.Get()),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["sessionSize"], ShouldEqual, 50)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		// Ensure service is stopped after test
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

			Convey("And the bundled catalog should become available", func() {
				countries, err := svc.Countries(ctx)
				So(err, ShouldBeNil)
				So(countries, ShouldContain, "England")
				So(svc.Ready(), ShouldBeTrue)
				So(svc.GetStats()["catalogSource"], ShouldEqual, "embedded:teams_data.json")
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service with an open session", t, func() {
		svc := newTestService(testCatalog)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		v, err := svc.NewSession(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
				So(stats["sessions"], ShouldEqual, 0)
			})

			Convey("And the session should be gone", func() {
				_, err := svc.Session(ctx, v.ID)
				So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Lookups(t *testing.T) {
	Convey("Given a service over a small catalog", t, func() {
		svc := newTestService(testCatalog)
		ctx := context.Background()

		Convey("Countries are distinct in catalog order", func() {
			countries, err := svc.Countries(ctx)
			So(err, ShouldBeNil)
			So(countries, ShouldResemble, []string{"England", "Spain"})
		})

		Convey("Leagues are filtered by country", func() {
			leagues, err := svc.Leagues(ctx, "England")
			So(err, ShouldBeNil)
			So(leagues, ShouldResemble, []string{"Premier League", "Championship"})

			leagues, err = svc.Leagues(ctx, "Brazil")
			So(err, ShouldBeNil)
			So(leagues, ShouldBeEmpty)
		})

		Convey("Teams are filtered by league", func() {
			teams, err := svc.Teams(ctx, "La Liga")
			So(err, ShouldBeNil)
			So(teams, ShouldResemble, []string{"Barcelona", "Real Madrid"})
		})

		Convey("Dates are the fixed options", func() {
			So(svc.Dates(), ShouldResemble, []string{"Today", "Tomorrow", "Next Week", "Next Month"})
		})
	})

	Convey("Given a service over a malformed catalog", t, func() {
		svc := newTestService(`{"leagues":[]}`)

		Convey("Lookups fail with a data format error", func() {
			_, err := svc.Countries(context.Background())
			So(errors.Is(err, repository.ErrDataFormat), ShouldBeTrue)

			_, err = svc.NewSession(context.Background())
			So(errors.Is(err, repository.ErrDataFormat), ShouldBeTrue)
			So(svc.Ready(), ShouldBeFalse)
		})
	})
}

func TestService_Apply(t *testing.T) {
	Convey("Given a session on a small catalog", t, func() {
		svc := newTestService(testCatalog)
		ctx := context.Background()
		v, err := svc.NewSession(ctx)
		So(err, ShouldBeNil)
		So(v.ID, ShouldNotBeEmpty)
		So(v.Options.Countries, ShouldResemble, []string{"England", "Spain"})
		So(v.Options.Leagues, ShouldBeEmpty)

		Convey("When an unknown field is set", func() {
			_, err := svc.Apply(ctx, v.ID, "stadium", "Anfield")

			Convey("Then it fails with an unknown field error", func() {
				So(errors.Is(err, selection.ErrUnknownField), ShouldBeTrue)
			})
		})

		Convey("When the session does not exist", func() {
			_, err := svc.Apply(ctx, "missing", "country", "England")

			Convey("Then it fails with a not found error", func() {
				So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
			})
		})

		Convey("When team B repeats team A", func() {
			_, err := svc.Apply(ctx, v.ID, "team_a", "Arsenal")
			So(err, ShouldBeNil)
			_, err = svc.Apply(ctx, v.ID, "team_b", "Arsenal")

			Convey("Then it is rejected and the session is unchanged", func() {
				So(errors.Is(err, selection.ErrInvalidSelection), ShouldBeTrue)
				cur, err := svc.Session(ctx, v.ID)
				So(err, ShouldBeNil)
				So(cur.Selection.TeamA, ShouldEqual, "Arsenal")
				So(cur.Selection.TeamB, ShouldBeEmpty)
			})
		})

		Convey("When the session is discarded", func() {
			So(svc.Discard(ctx, v.ID), ShouldBeNil)

			Convey("Then it can no longer be read or discarded", func() {
				_, err := svc.Session(ctx, v.ID)
				So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
				So(errors.Is(svc.Discard(ctx, v.ID), service.ErrSessionNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_DateDay(t *testing.T) {
	Convey("Given a session on a fixed clock", t, func() {
		now := time.Date(2026, time.October, 14, 21, 30, 0, 0, time.UTC)
		svc := newTestService(testCatalog, service.WithClock(func() time.Time { return now }))
		ctx := context.Background()
		v, err := svc.NewSession(ctx)
		So(err, ShouldBeNil)
		So(v.Day, ShouldBeEmpty)

		Convey("When a date option is picked", func() {
			v, err := svc.Apply(ctx, v.ID, "date", "Next Week")
			So(err, ShouldBeNil)

			Convey("Then the view carries its calendar day", func() {
				So(v.Day, ShouldEqual, "2026-10-21")
				So(v.UpdatedAt.Equal(now), ShouldBeTrue)
			})
		})

		Convey("When a free-text date is set", func() {
			v, err := svc.Apply(ctx, v.ID, "date", "after the derby")
			So(err, ShouldBeNil)

			Convey("Then there is no calendar day", func() {
				So(v.Selection.Date, ShouldEqual, "after the derby")
				So(v.Day, ShouldBeEmpty)
			})
		})
	})
}
