// Package tilemap loads levels from tile-map files.
// Sources are any fs.FS: a directory, a Zip archive or an embedded tree.
// Levels are identified by their path within the source and ordered
// lexically, so level01.tmx plays before level02.tmx.
package tilemap

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/vovakirdan/gridquest/internal/tilemap/formats"
)

// Loader discovers and loads levels from a filesystem.
type Loader struct {
	FS     fs.FS
	closer func() error
}

// NewLoader creates a loader over fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{FS: fsys}
}

// OpenDir creates a loader for a level directory or a Zip archive of levels.
// Call Close when done.
func OpenDir(p string) (*Loader, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("opening levels %s: %w", p, err)
	}
	if info.IsDir() {
		return NewLoader(os.DirFS(p)), nil
	}

	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("opening levels archive %s: %w", p, err)
	}
	return &Loader{FS: zr, closer: zr.Close}, nil
}

// Close releases the archive behind the loader, if any.
func (l *Loader) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer()
}

// Discover returns all level identifiers in lexical order.
func (l *Loader) Discover() ([]string, error) {
	var ids []string
	err := fs.WalkDir(l.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isSupportedExtension(path.Ext(p)) {
			ids = append(ids, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking levels: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrNoLevels
	}

	sort.Strings(ids)
	return ids, nil
}

// Load reads, parses and validates one level.
func (l *Loader) Load(id string) (*Level, error) {
	data, err := fs.ReadFile(l.FS, id)
	if err != nil {
		return nil, fmt.Errorf("reading level %s: %w", id, err)
	}

	parsed, err := l.parseByExtension(id, data)
	if err != nil {
		return nil, &LevelFormatError{Level: id, Reason: "cannot decode", Err: err}
	}
	return validate(l.FS, id, parsed)
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func (l *Loader) parseByExtension(id string, data []byte) (formats.Level, error) {
	switch strings.ToLower(path.Ext(id)) {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	case ".tmx":
		dir := path.Dir(id)
		return formats.ParseTMX(data, func(name string) ([]byte, error) {
			return fs.ReadFile(l.FS, path.Join(dir, name))
		})
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", path.Ext(id))
	}
}
