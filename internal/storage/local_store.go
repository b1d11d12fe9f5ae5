package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidName = errors.New("invalid blob name")

// AllowedExtensions are the image types accepted for upload, lower case and without the dot.
var AllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// Extension returns the lower-cased extension of an uploaded file name and whether it is allowed.
func Extension(filename string) (string, bool) {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return "", false
	}
	ext := strings.ToLower(filename[i+1:])
	return ext, AllowedExtensions[ext]
}

// GenerateFilename returns a collision-free name keeping the extension.
func GenerateFilename(ext string) string {
	return strings.ReplaceAll(uuid.New().String(), "-", "") + "." + ext
}

// LocalStore keeps blobs as flat files in one directory.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

// Path resolves a blob name inside the store. Names with path separators are rejected.
func (s *LocalStore) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// Save writes r to a new blob and returns its path and size. A partially written file is removed.
func (s *LocalStore) Save(name string, r io.Reader) (string, int64, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", 0, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create blob %s: %w", name, err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write blob %s: %w", name, err)
	}

	return path, size, nil
}

// Exists reports whether a regular file with that name is stored.
func (s *LocalStore) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Remove deletes a blob. Removing a missing blob is not an error.
func (s *LocalStore) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ThumbnailName returns the thumbnail file name for a stored image name. Thumbnails are always JPEG.
func ThumbnailName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
}

// ImageFiles removes an image blob together with its thumbnail.
type ImageFiles struct {
	Images     *LocalStore
	Thumbnails *LocalStore
}

// RemoveImageFiles deletes every named blob and thumbnail, continuing past failures.
func (f ImageFiles) RemoveImageFiles(filenames []string) error {
	var errs []error
	for _, name := range filenames {
		if err := f.Images.Remove(name); err != nil {
			errs = append(errs, err)
		}
		if f.Thumbnails != nil {
			if err := f.Thumbnails.Remove(ThumbnailName(name)); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
