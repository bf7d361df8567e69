package storage

import (
	"context"
	"fmt"
	"sync"
)

// memoryStore keeps objects in a map. Used by tests and as the local-dev
// fallback when no Supabase credentials are configured.
type memoryStore struct {
	baseURL string
	bucket  string

	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore(baseURL, bucket string) ObjectStore {
	return &memoryStore{
		baseURL: baseURL,
		bucket:  bucket,
		objects: make(map[string][]byte),
	}
}

func (s *memoryStore) Upload(ctx context.Context, key string, data []byte, contentType string, overwrite bool) (string, error) {
	if key == "" || len(data) == 0 || contentType == "" {
		return "", ErrInvalidInput
	}
	if len(data) > maxObjectSize {
		return "", ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[key]; exists && !overwrite {
		return "", ErrConflict
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = stored
	return s.PublicURL(key), nil
}

func (s *memoryStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key)
}

// Get returns the stored bytes for key. Test helper.
func (s *memoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}
