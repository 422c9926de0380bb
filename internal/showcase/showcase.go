// Package showcase serves the sample backend sources shown in the UI.
// The files are display-only text and are never executed.
package showcase

import (
	"embed"
	"errors"
	"io/fs"
	"path"
	"sort"
)

//go:embed files/*
var files embed.FS

// ErrNotFound is returned for unknown file names.
var ErrNotFound = errors.New("showcase file not found")

// List returns the names of the embedded files in sorted order.
func List() []string {
	entries, err := fs.ReadDir(files, "files")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Get returns the contents of the named file.
func Get(name string) ([]byte, error) {
	if name == "" || path.Base(name) != name {
		return nil, ErrNotFound
	}
	data, err := files.ReadFile("files/" + name)
	if err != nil {
		return nil, ErrNotFound
	}
	return data, nil
}
