package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrProof wraps failures to store a proof-of-payment file.
var ErrProof = errors.New("proof of payment storage")

// ProofStore saves proof-of-payment images and returns where they went.
type ProofStore interface {
	Store(ctx context.Context, customerID string, at time.Time, data []byte, ext string) (string, error)
}

// DirProofStore writes proofs as files under one directory.
type DirProofStore struct {
	dir string
	loc *time.Location
}

func NewDirProofStore(dir string, loc *time.Location) *DirProofStore {
	if loc == nil {
		loc = time.Local
	}
	return &DirProofStore{dir: dir, loc: loc}
}

func (s *DirProofStore) Store(ctx context.Context, customerID string, at time.Time, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProof, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create dir: %v", ErrProof, err)
	}
	name := ProofFileName(customerID, at.In(s.loc), ext)
	if filepath.Base(name) != name {
		return "", fmt.Errorf("%w: unsafe file name %q", ErrProof, name)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", ErrProof, path, err)
	}
	return path, nil
}

// ProofFileName is {customer digits}_{YYYY-MM-DD_HH-mm}_{random}.{ext}. The
// random suffix keeps two proofs from the same customer in one minute apart.
func ProofFileName(customerID string, at time.Time, ext string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, customerID)
	if digits == "" {
		digits = "cliente"
	}
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		ext = "bin"
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s.%s", digits, at.Format("2006-01-02_15-04"), suffix, ext)
}

var imageExtensions = map[string]bool{
	"jpeg": true, "jpg": true, "png": true, "webp": true, "gif": true,
}

// ExtensionForMIME returns the file extension for an image MIME type
// ("image/jpeg" -> "jpeg"). Subtypes outside the known image formats map to
// "bin", since the type comes from the sender's client.
func ExtensionForMIME(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(strings.SplitN(mime, ";", 2)[0]))
	if i := strings.IndexByte(mime, '/'); i >= 0 && imageExtensions[mime[i+1:]] {
		return mime[i+1:]
	}
	return "bin"
}
