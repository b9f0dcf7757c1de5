// Package storage 上传图片的对象存储
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	apperrors "carmarket/pkg/errors"

	"github.com/google/uuid"
)

// Upload 一次图片上传
type Upload struct {
	ListingID   string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// objectName listings/<listing_id>/<uuid><ext>
func objectName(u Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", apperrors.Validation(fmt.Sprintf("unsupported image type %q", ext))
	}
	return fmt.Sprintf("listings/%s/%s%s", u.ListingID, uuid.New().String(), ext), nil
}

func contentType(u Upload) string {
	if u.ContentType != "" {
		return u.ContentType
	}
	return allowedExtensions[strings.ToLower(filepath.Ext(u.Filename))]
}

func validateSize(u Upload, maxBytes int64) error {
	if u.Size <= 0 {
		return apperrors.Validation("image file is empty")
	}
	if maxBytes > 0 && u.Size > maxBytes {
		return apperrors.Validation(fmt.Sprintf("image exceeds %d bytes", maxBytes))
	}
	return nil
}

// MemoryStore 开发与测试用
type MemoryStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	maxBytes int64
}

func NewMemoryStore(maxBytes int64) *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte), maxBytes: maxBytes}
}

func (s *MemoryStore) Save(_ context.Context, u Upload) (string, error) {
	if err := validateSize(u, s.maxBytes); err != nil {
		return "", err
	}
	name, err := objectName(u)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(u.Body)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeBadRequest, "failed to read upload")
	}

	s.mu.Lock()
	s.objects[name] = data
	s.mu.Unlock()
	return "/uploads/" + name, nil
}

// Object returns the stored bytes for a path returned by Save
func (s *MemoryStore) Object(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[strings.TrimPrefix(path, "/uploads/")]
	return data, ok
}
