package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// folder maps snapshot names to files inside one storage directory.
type folder struct {
	dir string
	ext string
}

// ensure creates the storage directory if it doesn't exist.
func (f folder) ensure() error {
	return os.MkdirAll(f.dir, 0755)
}

// path returns the file path for a validated name.
func (f folder) path(name string) string {
	return filepath.Join(f.dir, name+f.ext)
}

// names lists stems of regular files carrying the folder extension, sorted.
func (f folder) names() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), f.ext) {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), f.ext)
		if stem == "" {
			continue
		}
		names = append(names, stem)
	}
	sort.Strings(names)
	return names, nil
}

// validateName accepts non-empty plain file stems only.
func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidName, name)
	}
	return nil
}
