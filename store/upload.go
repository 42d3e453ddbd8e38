package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
)

// ErrExists is returned when a file would be overwritten.
var ErrExists = errors.New("file already exists")

type UploadParams struct {
	Name        string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

// Uploader persists one encoded image.
type Uploader interface {
	Upload(context.Context, UploadParams) error
}

// Locator is implemented by uploaders that can say where a name ends up.
type Locator interface {
	Location(name string) string
}

// Checker is implemented by uploaders that refuse to replace an existing
// object, so a name can be vetted before an image is generated.
type Checker interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// FileUploader writes images into Dir, creating it when needed.
type FileUploader struct {
	Dir       string
	Overwrite bool
}

// Location returns the path a name is written to.
func (u *FileUploader) Location(name string) string {
	return filepath.Join(u.Dir, filepath.Base(name))
}

// Exists reports whether Upload would refuse name. It is always false
// when Overwrite is set.
func (u *FileUploader) Exists(_ context.Context, name string) (bool, error) {
	if u.Overwrite {
		return false, nil
	}
	_, err := os.Stat(u.Location(name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (u *FileUploader) Upload(ctx context.Context, params UploadParams) error {
	file := u.Location(params.Name)
	logger := log.FromContextOrDiscard(ctx).With("file", file)

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !u.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(file, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s: %w", file, ErrExists)
	}
	if err != nil {
		return err
	}

	logger.Info("writing image", "bytes", len(params.Data))
	if _, err := f.Write(params.Data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
