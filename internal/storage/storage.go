package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// MaxUploadSize caps a single resume file at 10 MiB.
const MaxUploadSize = 10 << 20

const keyPrefix = "resumes"

// Store is a blob backend for resume files. Keys come from GenerateKey.
type Store interface {
	// Save persists data under key. It overwrites silently.
	Save(ctx context.Context, key string, data []byte) error
	// Get retrieves a previously saved blob. Backends retry transient
	// failures before giving up.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes a blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns a link a browser can open, presigned where the
	// backend requires it.
	URL(ctx context.Context, key string) (string, error)
}

// GenerateKey derives a collision-free storage key from the uploaded
// filename: resumes/<sanitized-name>_<timestamp>_<short-uuid><ext>.
func GenerateKey(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	base := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))
	base = sanitizeName(base)
	if base == "" {
		base = "resume"
	}
	stamp := time.Now().UTC().Format("20060102150405")
	short := uuid.NewString()[:8]
	return fmt.Sprintf("%s/%s_%s_%s%s", keyPrefix, base, stamp, short, ext)
}

// sanitizeName keeps letters, digits, dashes and underscores, mapping
// everything else to underscores so the key is safe as both an object
// name and a filesystem path segment.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

var fileSignatures = map[string][]byte{
	".pdf":  []byte("%PDF-"),
	".docx": {'P', 'K', 0x03, 0x04},
}

// ValidateUpload rejects oversized or mismatched files before any
// expensive work happens. PDF and DOCX uploads must carry the magic
// bytes their extension promises; plain text has no signature to check.
func ValidateUpload(filename string, data []byte) error {
	if len(data) == 0 {
		return &InvalidUploadError{Reason: "empty file"}
	}
	if len(data) > MaxUploadSize {
		return &InvalidUploadError{Reason: fmt.Sprintf("file exceeds %d bytes", MaxUploadSize)}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	sig, ok := fileSignatures[ext]
	if !ok {
		return nil
	}
	if !bytes.HasPrefix(data, sig) {
		return &InvalidUploadError{Reason: fmt.Sprintf("content does not match %s signature", ext)}
	}
	return nil
}

const (
	getAttempts  = 3
	getBaseDelay = 500 * time.Millisecond
)

// getWithRetry runs fn up to getAttempts times with exponential backoff,
// bailing out early when the context is done.
func getWithRetry(ctx context.Context, key string, fn func() ([]byte, error)) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < getAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &StorageError{Op: "get", Key: key, Cause: ctx.Err()}
			case <-time.After(getBaseDelay << (attempt - 1)):
			}
		}
		data, err := fn()
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, &StorageError{Op: "get", Key: key, Cause: lastErr}
}
