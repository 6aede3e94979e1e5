package storage

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var dataURIPattern = regexp.MustCompile(`^data:image/(\w+);base64,(.+)$`)

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
	"gif":  true,
}

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// SavedPhoto describes a persisted image blob.
type SavedPhoto struct {
	URL      string
	Filename string
	Size     int64
}

// InvalidPhotoError marks a rejected upload (bad encoding, type or size).
type InvalidPhotoError struct {
	Reason string
}

func (e *InvalidPhotoError) Error() string {
	return "invalid photo: " + e.Reason
}

// PhotoStore validates data-URI encoded images and writes them under a
// local upload directory served as a static mount.
type PhotoStore struct {
	uploadDir string
	maxSize   int64
}

func NewPhotoStore(uploadDir string, maxSize int64) *PhotoStore {
	return &PhotoStore{uploadDir: uploadDir, maxSize: maxSize}
}

// Save decodes and persists one photo. The stored name combines the upload
// time with a content hash so concurrent uploads cannot collide.
func (s *PhotoStore) Save(dataURI, mimeType string) (*SavedPhoto, error) {
	matches := dataURIPattern.FindStringSubmatch(dataURI)
	if matches == nil {
		return nil, &InvalidPhotoError{Reason: "not a base64 image data URI"}
	}

	extension := strings.ToLower(matches[1])
	if !allowedExtensions[extension] {
		return nil, &InvalidPhotoError{Reason: "file type not allowed, expected JPG, PNG, WebP or GIF"}
	}
	if !allowedMimeTypes[mimeType] {
		return nil, &InvalidPhotoError{Reason: "MIME type not allowed"}
	}

	data, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return nil, &InvalidPhotoError{Reason: "malformed base64 payload"}
	}
	if int64(len(data)) > s.maxSize {
		return nil, &InvalidPhotoError{Reason: fmt.Sprintf("file too large, maximum is %dMB", s.maxSize/1024/1024)}
	}

	hash := sha256.Sum256(data)
	filename := fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), hex.EncodeToString(hash[:])[:16], extension)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.uploadDir, filename), data, 0o644); err != nil {
		return nil, fmt.Errorf("write photo: %w", err)
	}

	return &SavedPhoto{
		URL:      "/uploads/" + filename,
		Filename: filename,
		Size:     int64(len(data)),
	}, nil
}

// Remove deletes a stored blob by filename. Missing files are not an error;
// removal is best effort and callers may ignore failures.
func (s *PhotoStore) Remove(filename string) error {
	err := os.Remove(filepath.Join(s.uploadDir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
