// Command catalog-check validates a catalog file without starting the service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/okian/fixturepick/internal/adapters/repository"
	"github.com/okian/fixturepick/internal/domain/lookup"
)

func main() {
	embedded := flag.Bool("embedded", false, "Check the catalog bundled into the binary")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: catalog-check [-embedded] [file ...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	var sources []repository.Source
	if *embedded {
		sources = append(sources, repository.Embedded())
	}
	for _, path := range flag.Args() {
		sources = append(sources, repository.FromFile(path))
	}
	if len(sources) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if failed := check(context.Background(), os.Stdout, sources); failed > 0 {
		os.Exit(1)
	}
}

// check validates every source, prints one line per source and returns the
// number of invalid ones.
func check(ctx context.Context, w io.Writer, sources []repository.Source) int {
	failed := 0
	for _, src := range sources {
		c, err := repository.NewCatalogStore(repository.WithSource(src)).Load(ctx)
		if err != nil {
			failed++
			var fe *repository.FormatError
			if errors.As(err, &fe) && fe.Location != "" {
				fmt.Fprintf(w, "FAIL %s at %s: %v\n", src.Name(), fe.Location, fe.Err)
				continue
			}
			fmt.Fprintf(w, "FAIL %s: %v\n", src.Name(), err)
			continue
		}
		fmt.Fprintf(w, "ok   %s: %d leagues, %d countries\n", src.Name(), c.Len(), len(lookup.Countries(c)))
	}
	return failed
}
