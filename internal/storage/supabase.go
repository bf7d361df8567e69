package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/vuhoang/skillmint/config"
)

const maxObjectSize = 1 << 20 // metadata documents are tiny; 1MB is generous

type supabaseStore struct {
	client     *storage_go.Client
	projectURL string
	bucket     string
}

// NewObjectStore builds the Supabase-backed store, or falls back to the
// in-memory store when storage credentials are absent (local development and
// the no-signer simulation setup).
func NewObjectStore(cfg *config.Config) ObjectStore {
	if cfg.Storage.ProjectURL == "" || cfg.Storage.ServiceKey == "" || cfg.Storage.Bucket == "" {
		log.Warn().Msg("Supabase storage is not configured. Using in-memory object store; uploads will not survive restarts.")
		return NewMemoryStore("http://localhost/storage/v1/object/public", "badges")
	}
	client := storage_go.NewClient(cfg.Storage.ProjectURL+"/storage/v1", cfg.Storage.ServiceKey, nil)
	return &supabaseStore{
		client:     client,
		projectURL: cfg.Storage.ProjectURL,
		bucket:     cfg.Storage.Bucket,
	}
}

func (s *supabaseStore) Upload(ctx context.Context, key string, data []byte, contentType string, overwrite bool) (string, error) {
	if key == "" || len(data) == 0 {
		return "", ErrInvalidInput
	}
	if len(data) > maxObjectSize {
		return "", ErrInvalidInput
	}

	upsert := overwrite
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		if isDuplicate(err) {
			return "", ErrConflict
		}
		log.Error().Err(err).Str("bucket", s.bucket).Str("key", key).Msg("Supabase upload failed")
		return "", &TransientError{Cause: err}
	}
	return s.PublicURL(key), nil
}

func (s *supabaseStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.projectURL, s.bucket, key)
}

func isDuplicate(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "already exists")
}
