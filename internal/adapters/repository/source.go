package repository

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
)

// DefaultResource is the file name of the bundled catalog.
const DefaultResource = "teams_data.json"

//go:embed data/teams_data.json
var bundled embed.FS

// Source yields the raw bytes of a catalog resource.
type Source interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

type fsSource struct {
	fsys fs.FS
	path string
	name string
}

// Embedded returns the resource compiled into the binary.
func Embedded() Source {
	return &fsSource{fsys: bundled, path: "data/" + DefaultResource, name: "embedded:" + DefaultResource}
}

// FromFS reads path from fsys.
func FromFS(fsys fs.FS, path string) Source {
	return &fsSource{fsys: fsys, path: path, name: "fs:" + path}
}

// FromFile reads a catalog from the local filesystem on every load attempt.
func FromFile(path string) Source {
	return &fileSource{path: path}
}

func (s *fsSource) Name() string { return s.name }

func (s *fsSource) Read(_ context.Context) ([]byte, error) {
	b, err := fs.ReadFile(s.fsys, s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return b, nil
}

type fileSource struct {
	path string
}

func (s *fileSource) Name() string { return "file:" + s.path }

func (s *fileSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return b, nil
}
