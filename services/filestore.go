// Package services holds the site's non-HTTP logic: the file store, upload
// inspection, admin authentication, acknowledgement mail and metrics.
// File: services/filestore.go
package services

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"church-site/logger"
	"church-site/models"
)

// Area is a named directory namespace for uploaded assets.
type Area string

const (
	AreaSermons Area = "sermons"
	AreaPosters Area = "posters"
	AreaStaff   Area = "staff"
)

// FileStore keeps uploaded assets on the local filesystem, one directory per area.
type FileStore struct {
	dirs map[Area]string
}

// NewFileStore maps each area to its directory. Directories are created lazily.
func NewFileStore(sermonsDir, postersDir, staffDir string) *FileStore {
	return &FileStore{dirs: map[Area]string{
		AreaSermons: sermonsDir,
		AreaPosters: postersDir,
		AreaStaff:   staffDir,
	}}
}

// Dir returns the directory backing area, or "" if the area is unknown.
func (s *FileStore) Dir(area Area) string {
	return s.dirs[area]
}

func (s *FileStore) dir(area Area) (string, error) {
	d, ok := s.dirs[area]
	if !ok {
		return "", fmt.Errorf("%w: unknown area %q", models.ErrValidation, area)
	}
	return d, nil
}

// tempPrefix marks in-flight writes; List never reports them.
const tempPrefix = ".upload-"

// isPlainName reports whether name is exactly one path element.
func isPlainName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, "/\\\x00") && filepath.Base(name) == name
}

// SanitizeFilename reduces name to a single safe path element: ASCII only,
// separators and spaces become underscores, anything outside [A-Za-z0-9._-]
// is dropped, and leading dots or underscores are trimmed.
func SanitizeFilename(name string) (string, error) {
	ascii := unidecode.Unidecode(name)
	ascii = strings.NewReplacer("/", " ", "\\", " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")

	var b strings.Builder
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	safe := strings.TrimLeft(b.String(), "._")
	if safe == "" {
		return "", fmt.Errorf("%w: unusable filename %q", models.ErrValidation, name)
	}
	return safe, nil
}

// Save writes r under the sanitized filename in area and returns the name
// actually used. An existing file with that name is overwritten.
func (s *FileStore) Save(area Area, filename string, r io.Reader) (string, error) {
	dir, err := s.dir(area)
	if err != nil {
		return "", err
	}
	name, err := SanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("%w: creating %s: %w", models.ErrStorageFailure, dir, err)
	}

	// write beside the target and rename so readers never see a partial file
	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("%w: creating temp file in %s: %w", models.ErrStorageFailure, dir, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: writing %s: %w", models.ErrStorageFailure, name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: closing %s: %w", models.ErrStorageFailure, name, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", fmt.Errorf("%w: chmod %s: %w", models.ErrStorageFailure, name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("%w: renaming into %s: %w", models.ErrStorageFailure, path, err)
	}

	logger.Info.Printf("[FileStore.Save] Stored %s/%s", area, name)
	return name, nil
}

// List returns the regular files currently in area, sorted by name.
// A directory that does not exist yet is an empty area.
func (s *FileStore) List(area Area) ([]string, error) {
	dir, err := s.dir(area)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", models.ErrStorageFailure, dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), tempPrefix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes filename from area. It reports whether a file was removed;
// a missing file is not an error. A plain single-element name is tried as is
// first, so files placed in the area by hand (as List shows them) can be
// removed too; otherwise the sanitized name is used.
func (s *FileStore) Delete(area Area, filename string) (bool, error) {
	dir, err := s.dir(area)
	if err != nil {
		return false, err
	}

	if isPlainName(filename) {
		removed, err := s.remove(dir, area, filename)
		if removed || err != nil {
			return removed, err
		}
	}

	name, err := SanitizeFilename(filename)
	if err != nil {
		return false, err
	}
	return s.remove(dir, area, name)
}

// remove deletes a regular file only; directories and links count as absent.
func (s *FileStore) remove(dir string, area Area, name string) (bool, error) {
	path := filepath.Join(dir, name)
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err == nil && !info.Mode().IsRegular() {
		return false, nil
	}
	if err == nil {
		err = os.Remove(path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: removing %s/%s: %w", models.ErrStorageFailure, area, name, err)
	}

	logger.Info.Printf("[FileStore.Delete] Removed %s/%s", area, name)
	return true, nil
}

// Exists reports whether filename is present in area.
func (s *FileStore) Exists(area Area, filename string) (bool, error) {
	dir, err := s.dir(area)
	if err != nil {
		return false, err
	}
	name, err := SanitizeFilename(filename)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: stat %s/%s: %w", models.ErrStorageFailure, area, name, err)
	}
	return info.Mode().IsRegular(), nil
}
