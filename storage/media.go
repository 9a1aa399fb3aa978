package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"miniTwitter/domain"
	"miniTwitter/errs"
)

// MediaStore stores uploaded media files on the local filesystem, under a
// directory that the http server also serves statically.
// It implements the domain.MediaStore interface.
type MediaStore struct {
	dir string
}

// Ensure the MediaStore struct properly implements the domain.MediaStore interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.MediaStore = &MediaStore{}

// NewMediaStore returns a MediaStore rooted at dir, creating it if needed.
func NewMediaStore(dir string) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &MediaStore{dir: dir}, nil
}

// Save writes the uploaded file to disk under a random unique name, keeping
// only the original extension. Uploads that exceed domain.MaxUploadSize are
// rejected and their partial file removed. It returns the stored path.
func (ms *MediaStore) Save(file io.Reader, filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", errs.Errorf(errs.EINVALID, "No file selected.")
	}

	// A fresh uuid name per upload, so two files named photo.png never collide.
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(ms.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(file, domain.MaxUploadSize+1))
	if err != nil {
		os.Remove(path)
		return "", err
	}
	if written > domain.MaxUploadSize {
		os.Remove(path)
		return "", errs.Errorf(errs.EINVALID, "File %s exceeds the upload size limit of %dMB.", filename, domain.MaxUploadSize>>20)
	}
	return path, nil
}

// Remove deletes a previously stored file. Paths outside the store's
// directory are refused, so a corrupted file_path can never reach into
// the rest of the filesystem.
func (ms *MediaStore) Remove(filePath string) error {
	cleaned := filepath.Clean(filePath)
	if !strings.HasPrefix(cleaned, ms.dir+string(filepath.Separator)) {
		return errs.Errorf(errs.EINVALID, "Invalid media path.")
	}
	if err := os.Remove(cleaned); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
