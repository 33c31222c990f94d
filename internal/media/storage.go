package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store owns the filesystem tree under the data directory: temp/,
// uploads/{chatId}/ and gallery/{userId}/. Concurrent uploads are safe
// because generated names never collide; no locking is needed.
type Store struct {
	dataDir string
}

func NewStore(dataDir string) (*Store, error) {
	s := &Store{dataDir: dataDir}
	for _, dir := range []string{s.TempDir(), s.UploadsDir(), s.GalleryDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return s, nil
}

func (s *Store) TempDir() string    { return filepath.Join(s.dataDir, "temp") }
func (s *Store) UploadsDir() string { return filepath.Join(s.dataDir, "uploads") }
func (s *Store) GalleryDir() string { return filepath.Join(s.dataDir, "gallery") }

// SanitizeKey reduces a caller-supplied routing key to a single safe
// path element.
func SanitizeKey(key string) string {
	key = filepath.Base(strings.TrimSpace(key))
	if key == "" || key == "." || key == ".." || key == string(filepath.Separator) {
		return "unknown"
	}
	return key
}

// GenerateFilename builds a collision-resistant name from the current
// unix-millisecond timestamp, a random suffix and the original
// extension.
func GenerateFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}

// Save writes the upload to the temp directory first, then renames it
// into the routing-key subdirectory. Returns the generated filename and
// the stored size.
func (s *Store) Save(file multipart.File, originalName, baseDir, routingKey string) (string, int64, error) {
	filename := GenerateFilename(originalName)
	tempPath := filepath.Join(s.TempDir(), filename)

	tempFile, err := os.Create(tempPath)
	if err != nil {
		return "", 0, err
	}

	size, err := io.Copy(tempFile, file)
	if closeErr := tempFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return "", 0, err
	}

	destDir := filepath.Join(baseDir, SanitizeKey(routingKey))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		os.Remove(tempPath)
		return "", 0, err
	}

	if err := os.Rename(tempPath, filepath.Join(destDir, filename)); err != nil {
		os.Remove(tempPath)
		return "", 0, err
	}

	return filename, size, nil
}

// ListFiles walks a directory tree and returns the relative paths of
// every regular file, for the debug listings.
func ListFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
