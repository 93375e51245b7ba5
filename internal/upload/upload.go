// Package upload validates incoming multipart video files and manages
// their temporary on-disk lifetime. A saved upload is a per-request
// resource: the caller must remove it on every exit path.
package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ValidationError rejects a request before anything is written to disk
// or probed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validator checks uploads against the configured constraints.
type Validator struct {
	allowedExtensions map[string]struct{}
	maxSizeBytes      int64
}

// NewValidator builds a Validator from the configured extension
// allow-list and size limit. Extensions are matched case-insensitively
// and without the leading dot.
func NewValidator(extensions []string, maxSizeBytes int64) *Validator {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Validator{
		allowedExtensions: allowed,
		maxSizeBytes:      maxSizeBytes,
	}
}

// Validate checks the upload's filename and declared size. It returns a
// *ValidationError describing the first violation found.
func (v *Validator) Validate(header *multipart.FileHeader) error {
	if header == nil {
		return &ValidationError{Reason: "request must include a 'video' file field"}
	}
	if header.Filename == "" {
		return &ValidationError{Reason: "uploaded file has an empty filename"}
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if ext == "" {
		return &ValidationError{Reason: "uploaded file has no extension"}
	}
	if _, ok := v.allowedExtensions[ext]; !ok {
		return &ValidationError{Reason: fmt.Sprintf("file type %q is not supported", ext)}
	}

	if v.maxSizeBytes > 0 && header.Size > v.maxSizeBytes {
		return &ValidationError{
			Reason: fmt.Sprintf("file exceeds the maximum upload size of %d bytes", v.maxSizeBytes),
		}
	}

	return nil
}

// Saver writes validated uploads to a temp directory.
type Saver struct {
	tempDir string
}

// NewSaver creates a Saver rooted at tempDir. An empty tempDir falls
// back to the system temp directory.
func NewSaver(tempDir string) *Saver {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Saver{tempDir: tempDir}
}

// Save writes the upload to a unique path under the temp directory and
// returns that path plus the hex SHA-256 of the content. The caller
// owns the file and must remove it when done.
func (s *Saver) Save(header *multipart.FileHeader) (path string, contentHash string, err error) {
	src, err := header.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	path = filepath.Join(s.tempDir, fmt.Sprintf("%s_%s", uuid.New().String(), SanitizeFilename(header.Filename)))

	dst, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer dst.Close()

	hash := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dst, hash), src); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("failed to write temp file: %w", err)
	}

	return path, hex.EncodeToString(hash.Sum(nil)), nil
}

// SanitizeFilename strips directory components and replaces characters
// that are unsafe in a filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}
