package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobboard/internal/config"
)

var ErrUploadFailed = errors.New("object upload failed")

// Store is the external blob capability: bucket+path addressed uploads,
// removals and canonical public URLs.
type Store interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string, upsert bool) error
	Remove(ctx context.Context, bucket string, paths []string) error
	PublicURL(bucket, path string) string
}

type Client struct {
	baseURL    string
	serviceKey string
	client     *http.Client
	logger     *log.Logger
}

func NewClient(cfg config.SupabaseConfig, logger *log.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		serviceKey: strings.TrimSpace(cfg.ServiceKey),
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (c *Client) Upload(ctx context.Context, bucket, path string, data []byte, contentType string, upsert bool) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, escapePath(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if upsert {
		req.Header.Set("x-upsert", "true")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if c.logger != nil {
			c.logger.Printf("[ObjectStore] upload failed bucket=%s path=%s status=%d body=%q",
				bucket, path, resp.StatusCode, strings.TrimSpace(string(rb)))
		}
		return fmt.Errorf("%w: status=%d", ErrUploadFailed, resp.StatusCode)
	}
	return nil
}

func (c *Client) Remove(ctx context.Context, bucket string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	b, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("object remove failed: status=%d body=%s",
			resp.StatusCode, strings.TrimSpace(string(rb)))
	}
	return nil
}

func (c *Client) PublicURL(bucket, path string) string {
	if c.baseURL == "" || bucket == "" || path == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, escapePath(path))
}

// PathFromPublicURL derives the storage path from a previously stored public
// URL by stripping the public prefix for the given bucket. The second return
// is false when the URL does not match that shape.
func PathFromPublicURL(bucket, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	marker := "/storage/v1/object/public/" + bucket + "/"
	i := strings.Index(u.Path, marker)
	if i < 0 {
		return "", false
	}

	p := u.Path[i+len(marker):]
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	if p == "" {
		return "", false
	}
	return p, true
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

var _ Store = (*Client)(nil)
