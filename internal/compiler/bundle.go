package compiler

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by a bundle that has no file at a path.
var ErrNotFound = fs.ErrNotExist

// InputBundle supplies the sources of a compilation. Paths are slash
// separated and relative to the bundle.
type InputBundle interface {
	Read(path string) (string, error)
}

// FilesystemBundle reads sources below Root.
type FilesystemBundle struct {
	Root string
}

func (b FilesystemBundle) Read(path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(b.Root, filepath.FromSlash(path)))
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(data), nil
}

// MapBundle serves sources from memory, keyed by path.
type MapBundle map[string]string

func (b MapBundle) Read(path string) (string, error) {
	src, ok := b[path]
	if !ok {
		return "", errors.Wrapf(ErrNotFound, "reading %s", path)
	}
	return src, nil
}
