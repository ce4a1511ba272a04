// Package local stores uploaded images on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/pkg/logger"
)

var (
	ErrNotFound    = errors.New("stored file not found")
	ErrInvalidKey  = errors.New("invalid storage key")
	defaultFileExt = ".bin"
)

// Store writes files under a single base directory, keyed by generated file names.
type Store struct {
	basePath string
	logg     *logger.Logger
}

func NewStore(basePath string, logg *logger.Logger) (*Store, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Store{basePath: basePath, logg: logg}, nil
}

// Save copies r into a new file and returns its storage key.
func (s *Store) Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	key := fmt.Sprintf("%s_%d_%s%s", sanitizePrefix(prefix), time.Now().UnixNano(), uuid.NewString()[:8], extensionFor(mimeType))
	filePath := filepath.Join(s.basePath, key)

	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		s.discard(ctx, filePath)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.discard(ctx, filePath)
		return "", fmt.Errorf("close file: %w", err)
	}
	return key, nil
}

// Open returns the stored file and its sniffed content type.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	filePath, err := s.safeJoin(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("open file: %w", err)
	}
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		_ = f.Close()
		return nil, "", fmt.Errorf("detect content type: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, "", fmt.Errorf("rewind file: %w", err)
	}
	return f, mt.String(), nil
}

// Delete removes a stored file. Missing files report ErrNotFound.
func (s *Store) Delete(ctx context.Context, key string) error {
	filePath, err := s.safeJoin(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (s *Store) discard(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && s.logg != nil {
		s.logg.Error(ctx, "storage.discard_failed", err)
	}
}

// safeJoin resolves key under basePath and rejects directory traversal.
func (s *Store) safeJoin(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", ErrInvalidKey
	}
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(s.basePath, key))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return absPath, nil
}

func extensionFor(mimeType string) string {
	if mt := mimetype.Lookup(mimeType); mt != nil && mt.Extension() != "" {
		return mt.Extension()
	}
	return defaultFileExt
}

func sanitizePrefix(prefix string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, prefix)
	if clean == "" {
		return "file"
	}
	return clean
}
