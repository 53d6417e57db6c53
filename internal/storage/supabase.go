package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	storage_go "github.com/supabase-community/storage-go"

	"github.com/Skotchmaster/storefront/internal/config"
)

var ErrNotConfigured = errors.New("storage not configured")

// Uploader stores a blob and returns its public URL.
type Uploader interface {
	Enabled() bool
	Upload(ctx context.Context, bucket, filename string, data []byte, contentType string) (string, error)
}

type Supabase struct {
	client *storage_go.Client

	// storage-go writes per-upload headers into state shared by the client.
	mu sync.Mutex
}

// New returns nil when the storage URL or key is missing.
func New(cfg config.Storage) *Supabase {
	if cfg.URL == "" || cfg.Key == "" {
		return nil
	}
	endpoint := strings.TrimRight(cfg.URL, "/") + "/storage/v1"
	return &Supabase{
		client: storage_go.NewClient(endpoint, cfg.Key, map[string]string{"apikey": cfg.Key}),
	}
}

func (s *Supabase) Enabled() bool { return s != nil }

func (s *Supabase) Upload(ctx context.Context, bucket, filename string, data []byte, contentType string) (string, error) {
	if s == nil {
		return "", ErrNotConfigured
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// the client has no context support; honor cancellation up to the call
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, filename, err)
	}

	name := escapeObject(filename)
	if _, err := s.client.UploadFile(bucket, name, bytes.NewReader(data), storage_go.FileOptions{ContentType: &contentType}); err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, filename, err)
	}

	return s.PublicURL(bucket, filename), nil
}

func (s *Supabase) PublicURL(bucket, filename string) string {
	return s.client.GetPublicUrl(url.PathEscape(bucket), escapeObject(filename)).SignedURL
}

func escapeObject(name string) string {
	parts := strings.Split(strings.TrimLeft(name, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
