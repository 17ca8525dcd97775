package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// FSStore writes resumes to the root of an afero filesystem
type FSStore struct {
	fs         afero.Fs
	publicPath string
}

// NewFSStore creates a store whose references are publicPath + "/" + name
func NewFSStore(fs afero.Fs, publicPath string) *FSStore {
	return &FSStore{fs: fs, publicPath: publicPath}
}

func (s *FSStore) Backend() string {
	return BackendLocal
}

func (s *FSStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll("/", 0o755); err != nil {
		return "", fmt.Errorf("failed to create resume directory: %w", err)
	}

	f, err := s.fs.OpenFile("/"+name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create resume file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write resume file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close resume file: %w", err)
	}

	return joinURL(s.publicPath, name), nil
}

// Remove deletes a stored resume; a missing file is not an error
func (s *FSStore) Remove(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := s.fs.Remove("/"+name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove resume file: %w", err)
	}
	return nil
}
