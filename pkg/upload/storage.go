package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Config constrains uploads by size and MIME type and sets the disk root.
type Config struct {
	BaseDir      string
	MaxSizeBytes int64
	AllowedMIMEs []string
}

// Kinds map to per-type subfolders under BaseDir.
const (
	KindAvatar   = "avatars"
	KindDocument = "documents"
	KindMessage  = "messages"
)

var (
	ErrFileTooLarge    = fmt.Errorf("file exceeds maximum allowed size")
	ErrTypeNotAllowed  = fmt.Errorf("file type is not allowed")
	ErrUnknownKind     = fmt.Errorf("unknown upload kind")
)

var validKinds = map[string]struct{}{
	KindAvatar:   {},
	KindDocument: {},
	KindMessage:  {},
}

// Storage stores multipart files on local disk under kind-specific subfolders.
type Storage struct {
	cfg Config
}

func NewStorage(cfg Config) (*Storage, error) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "uploads"
	}
	if cfg.MaxSizeBytes <= 0 {
		cfg.MaxSizeBytes = 10 << 20
	}
	for kind := range validKinds {
		if err := os.MkdirAll(filepath.Join(cfg.BaseDir, kind), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload dir: %w", err)
		}
	}
	return &Storage{cfg: cfg}, nil
}

// Validate checks the kind, size and MIME constraints without writing anything.
func (s *Storage) Validate(kind string, fh *multipart.FileHeader) error {
	if _, ok := validKinds[kind]; !ok {
		return ErrUnknownKind
	}
	if fh.Size > s.cfg.MaxSizeBytes {
		return ErrFileTooLarge
	}
	if !s.mimeAllowed(fh.Header.Get("Content-Type")) {
		return ErrTypeNotAllowed
	}
	return nil
}

// Save validates and writes the file, returning its relative URL path.
func (s *Storage) Save(kind string, fh *multipart.FileHeader) (string, error) {
	if err := s.Validate(kind, fh); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + strings.ToLower(filepath.Ext(fh.Filename))
	dstPath := filepath.Join(s.cfg.BaseDir, kind, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return "/" + filepath.ToSlash(filepath.Join("uploads", kind, name)), nil
}

func (s *Storage) BaseDir() string {
	return s.cfg.BaseDir
}

func (s *Storage) mimeAllowed(contentType string) bool {
	if len(s.cfg.AllowedMIMEs) == 0 {
		return true
	}
	for _, m := range s.cfg.AllowedMIMEs {
		if strings.EqualFold(m, contentType) {
			return true
		}
	}
	return false
}
