package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore saves uploaded PDFs to disk under a base directory. Stored
// names carry a uuid prefix so identical filenames from different uploads
// never collide on disk.
type FileStore struct {
	basePath string
}

func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir failed: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Save writes r to disk and returns the stored path.
func (s *FileStore) Save(filename string, r io.Reader) (string, error) {
	target := filepath.Join(s.basePath, uuid.NewString()+"_"+safeFilename(filename))
	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file failed: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("write file failed: %w", err)
	}
	return target, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *FileStore) Remove(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file failed: %w", err)
	}
	return nil
}

func safeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	name = strings.TrimSpace(name)
	if name == "" {
		return "upload.pdf"
	}
	return name
}
