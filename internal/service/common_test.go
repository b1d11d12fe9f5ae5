package service_test

import (
	"context"
	"io"
	"strings"

	"go-gin-event-gallery/internal/model"

	"github.com/jackc/pgx/v5"
)

// fakeTransactor runs fn without a database and counts outcomes.
type fakeTransactor struct {
	commits   int
	rollbacks int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if err := fn(nil); err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

type fileCleanerSpy struct {
	removed [][]string
}

func (s *fileCleanerSpy) RemoveImageFiles(filenames []string) error {
	s.removed = append(s.removed, filenames)
	return nil
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func upload(name, content string) model.ImageUpload {
	return model.ImageUpload{
		Filename: name,
		Size:     int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}
