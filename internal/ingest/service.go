// Package ingest accepts uploaded binary content, enforces size and name
// limits, and hands out request-scoped handles to the stored bytes.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/toolbench/toolbench/internal/common"
)

// Failure codes for ingestion errors.
const (
	CodeFileTooLarge    = "file_too_large"
	CodeInvalidFileName = "invalid_file_name"
)

// Error is a client-correctable ingestion failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Service streams uploads into a temp root with a hard size limit.
type Service struct {
	root     string
	maxBytes int64
	logger   *common.Logger
}

// NewService creates an ingestion service rooted at dir. The directory is
// created if missing.
func NewService(dir string, maxBytes int64, logger *common.Logger) (*Service, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "toolbench")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload storage: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024 // 10MB default
	}
	return &Service{root: dir, maxBytes: maxBytes, logger: logger}, nil
}

// MaxBytes returns the configured upload size limit.
func (s *Service) MaxBytes() int64 { return s.maxBytes }

// Ingest streams reader content into storage and returns a handle owning it.
// The partial file is removed the moment the size limit is crossed.
func (s *Service) Ingest(r io.Reader, declaredName, mediaType string) (*Handle, error) {
	name, err := SanitizeFilename(declaredName)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	path := filepath.Join(s.root, id+filepath.Ext(name))

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	// Read one byte past the limit so an exactly-at-limit upload passes
	// while an oversized one is detected before the copy completes.
	n, err := io.Copy(out, io.LimitReader(r, s.maxBytes+1))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("store upload: %w", err)
	}
	if n > s.maxBytes {
		os.Remove(path)
		s.logger.Warn().
			Str("name", name).
			Int64("limit_bytes", s.maxBytes).
			Msg("upload rejected: size limit exceeded")
		return nil, &Error{
			Code:    CodeFileTooLarge,
			Message: fmt.Sprintf("file exceeds maximum size of %d bytes", s.maxBytes),
		}
	}

	s.logger.Debug().
		Str("id", id).
		Str("name", name).
		Int64("size", n).
		Msg("upload stored")

	return &Handle{
		ID:        id,
		Name:      name,
		MediaType: mediaType,
		SizeBytes: n,
		path:      path,
	}, nil
}

// SanitizeFilename strips directory components and unsafe characters from an
// upload's declared name. Empty results and traversal sequences are rejected.
func SanitizeFilename(declared string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(declared, "\\", "/"))
	if name == "" || name == "." || name == ".." || strings.Contains(name, "..") {
		return "", &Error{Code: CodeInvalidFileName, Message: fmt.Sprintf("invalid file name %q", declared)}
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	clean := b.String()
	if strings.Trim(clean, "._") == "" {
		return "", &Error{Code: CodeInvalidFileName, Message: fmt.Sprintf("invalid file name %q", declared)}
	}
	return clean, nil
}
