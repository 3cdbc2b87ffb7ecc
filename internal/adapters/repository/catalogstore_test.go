package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/okian/fixturepick/internal/adapters/repository"
	"github.com/okian/fixturepick/internal/domain/lookup"
	. "github.com/smartystreets/goconvey/convey"
)

const premierLeague = `{"teams":[{"league":"Premier League","country":"England","teams":["Arsenal","Chelsea","Liverpool"]}]}`

// countingSource wraps a Source and counts reads.
type countingSource struct {
	repository.Source
	reads atomic.Int32
}

func (c *countingSource) Read(ctx context.Context) ([]byte, error) {
	c.reads.Add(1)
	return c.Source.Read(ctx)
}

func TestCatalogStoreEmbedded(t *testing.T) {
	Convey("Given a store over the bundled resource", t, func() {
		store := repository.NewCatalogStore()
		ctx := context.Background()

		Convey("When loading", func() {
			c, err := store.Load(ctx)

			Convey("Then the bundled catalog decodes", func() {
				So(err, ShouldBeNil)
				So(c.Len(), ShouldBeGreaterThan, 0)
				So(lookup.Countries(c), ShouldContain, "England")
				So(lookup.LeaguesFor(c, "England"), ShouldContain, "Premier League")
				So(store.SourceName(), ShouldEqual, "embedded:teams_data.json")
			})

			Convey("And Cached returns the same catalog", func() {
				cached, ok := store.Cached()
				So(ok, ShouldBeTrue)
				So(cached, ShouldResemble, c)
			})
		})

		Convey("When nothing was loaded yet", func() {
			_, ok := store.Cached()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestCatalogStoreMemoizes(t *testing.T) {
	Convey("Given a counting in-memory source", t, func() {
		src := &countingSource{Source: repository.FromFS(fstest.MapFS{
			"teams.json": {Data: []byte(premierLeague)},
		}, "teams.json")}
		store := repository.NewCatalogStore(repository.WithSource(src))
		ctx := context.Background()

		Convey("When loading twice", func() {
			first, err1 := store.Load(ctx)
			second, err2 := store.Load(ctx)

			Convey("Then the source is read once", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
				So(src.reads.Load(), ShouldEqual, 1)
			})
		})

		Convey("When many goroutines load at once", func() {
			var wg sync.WaitGroup
			errs := make(chan error, 32)
			for i := 0; i < 32; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := store.Load(ctx); err != nil {
						errs <- err
					}
				}()
			}
			wg.Wait()
			close(errs)

			Convey("Then all succeed with a single read", func() {
				So(len(errs), ShouldEqual, 0)
				So(src.reads.Load(), ShouldEqual, 1)
			})
		})

		Convey("When Reset is called between loads", func() {
			_, _ = store.Load(ctx)
			store.Reset()
			_, ok := store.Cached()
			So(ok, ShouldBeFalse)
			_, err := store.Load(ctx)
			So(err, ShouldBeNil)
			So(src.reads.Load(), ShouldEqual, 2)
		})
	})
}

func TestCatalogStoreLoadAsync(t *testing.T) {
	Convey("Given a store over the bundled resource", t, func() {
		store := repository.NewCatalogStore()

		Convey("When loading asynchronously", func() {
			ch := store.LoadAsync(context.Background())
			res, ok := <-ch

			Convey("Then one result arrives and the channel closes", func() {
				So(ok, ShouldBeTrue)
				So(res.Err, ShouldBeNil)
				So(res.Catalog.Len(), ShouldBeGreaterThan, 0)
				_, open := <-ch
				So(open, ShouldBeFalse)
			})

			Convey("And the value is readable synchronously afterwards", func() {
				cached, ok := store.Cached()
				So(ok, ShouldBeTrue)
				So(cached.Len(), ShouldEqual, res.Catalog.Len())
			})
		})
	})
}

func TestCatalogStoreFormatErrors(t *testing.T) {
	Convey("Given a catalog file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "teams_data.json")
		store := repository.NewCatalogStore(repository.WithSource(repository.FromFile(path)))
		ctx := context.Background()

		Convey("When the resource lacks the teams field", func() {
			So(os.WriteFile(path, []byte(`{"leagues":[]}`), 0o600), ShouldBeNil)
			_, err := store.Load(ctx)

			Convey("Then load fails with a data format error", func() {
				So(errors.Is(err, repository.ErrDataFormat), ShouldBeTrue)
				var fe *repository.FormatError
				So(errors.As(err, &fe), ShouldBeTrue)
				So(fe.Source, ShouldEqual, "file:"+path)
			})

			Convey("And nothing is memoized", func() {
				_, ok := store.Cached()
				So(ok, ShouldBeFalse)
			})

			Convey("And a load after fixing the resource succeeds and memoizes", func() {
				So(os.WriteFile(path, []byte(premierLeague), 0o600), ShouldBeNil)
				c, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(lookup.TeamsFor(c, "Premier League"), ShouldResemble, []string{"Arsenal", "Chelsea", "Liverpool"})

				So(os.Remove(path), ShouldBeNil)
				again, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, c)
			})
		})

		Convey("When the resource is missing", func() {
			_, err := store.Load(ctx)
			So(errors.Is(err, repository.ErrDataFormat), ShouldBeTrue)
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})

		Convey("When the context is already cancelled", func() {
			So(os.WriteFile(path, []byte(premierLeague), 0o600), ShouldBeNil)
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := store.Load(cctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(errors.Is(err, repository.ErrDataFormat), ShouldBeFalse)
		})
	})
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		location string
	}{
		{"not json", `{"teams": [`, ""},
		{"teams not an array", `{"teams": {}}`, "/teams"},
		{"record missing league", `{"teams":[{"country":"England","teams":["Arsenal"]}]}`, "/teams/0"},
		{"record missing teams", `{"teams":[{"league":"Premier League","country":"England"}]}`, "/teams/0"},
		{"empty country", `{"teams":[{"league":"Premier League","country":"","teams":[]}]}`, "/teams/0/country"},
		{"duplicate teams", `{"teams":[{"league":"Premier League","country":"England","teams":["Arsenal","Arsenal"]}]}`, "/teams/0/teams"},
		{"team not a string", `{"teams":[{"league":"Premier League","country":"England","teams":[7]}]}`, "/teams/0/teams/0"},
	}

	Convey("Given malformed catalog documents", t, func() {
		for _, tc := range cases {
			Convey("When decoding "+tc.name, func() {
				_, err := repository.Decode("test", []byte(tc.raw))

				Convey("Then a located data format error is returned", func() {
					So(errors.Is(err, repository.ErrDataFormat), ShouldBeTrue)
					var fe *repository.FormatError
					So(errors.As(err, &fe), ShouldBeTrue)
					So(fe.Location, ShouldEqual, tc.location)
					So(err.Error(), ShouldContainSubstring, "test")
				})
			})
		}
	})

	Convey("Given a valid document with an empty league list", t, func() {
		c, err := repository.Decode("test", []byte(`{"teams":[]}`))
		So(err, ShouldBeNil)
		So(c.Len(), ShouldEqual, 0)
	})
}

// gatedSource holds its first read until release is closed.
type gatedSource struct {
	repository.Source
	started chan struct{}
	release chan struct{}
	reads   atomic.Int32
}

func (g *gatedSource) Read(ctx context.Context) ([]byte, error) {
	if g.reads.Add(1) == 1 {
		close(g.started)
		<-g.release
	}
	return g.Source.Read(ctx)
}

func TestCatalogStoreResetDuringLoad(t *testing.T) {
	Convey("Given a load that is still reading its source", t, func() {
		src := &gatedSource{
			Source: repository.FromFS(fstest.MapFS{
				"teams.json": {Data: []byte(premierLeague)},
			}, "teams.json"),
			started: make(chan struct{}),
			release: make(chan struct{}),
		}
		store := repository.NewCatalogStore(repository.WithSource(src))
		ctx := context.Background()

		done := make(chan error, 1)
		go func() {
			_, err := store.Load(ctx)
			done <- err
		}()
		<-src.started

		Convey("When the store is reset before the read finishes", func() {
			store.Reset()
			close(src.release)
			So(<-done, ShouldBeNil)

			Convey("Then the earlier parse is not memoized", func() {
				_, ok := store.Cached()
				So(ok, ShouldBeFalse)
			})

			Convey("And the next load reads the source again", func() {
				_, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(src.reads.Load(), ShouldEqual, 2)
				_, ok := store.Cached()
				So(ok, ShouldBeTrue)
			})
		})
	})
}

func TestCatalogStoreLoadReturnsCopy(t *testing.T) {
	Convey("Given a loaded store", t, func() {
		store := repository.NewCatalogStore(repository.WithSource(repository.FromFS(fstest.MapFS{
			"teams.json": {Data: []byte(premierLeague)},
		}, "teams.json")))
		c, err := store.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("When the caller modifies what it got", func() {
			c.Records[0].Teams[0] = "Tottenham Hotspur"
			c.Records[0].League = "Renamed"

			Convey("Then the memoized catalog is unchanged", func() {
				again, err := store.Load(context.Background())
				So(err, ShouldBeNil)
				So(again.Records[0].League, ShouldEqual, "Premier League")
				So(again.Records[0].Teams[0], ShouldEqual, "Arsenal")
			})
		})
	})
}
