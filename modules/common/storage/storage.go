package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"ai-studio-server/modules/common/config"
)

// Client - Supabase Storage over its HTTP object API. The service key gives
// full bucket access; generated objects are publicly readable via PublicURL.
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	http       *http.Client
}

// NewClient - create the storage client for the configured bucket
func NewClient() *Client {
	cfg := config.GetConfig()

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.SupabaseURL, "/"),
		serviceKey: cfg.SupabaseServiceKey,
		bucket:     cfg.StorageBucket,
		http:       &http.Client{Timeout: 60 * time.Second},
	}
}

// PublicURL - public download URL for an object path
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, path)
}

// PathFromURL - recover the object path from one of our public URLs.
// Returns the input unchanged when it is already a bare path.
func (c *Client) PathFromURL(url string) string {
	prefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", c.baseURL, c.bucket)
	return strings.TrimPrefix(url, prefix)
}

// Upload - store an object and return its public URL
func (c *Client) Upload(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)

	log.Printf("📤 Uploading to storage: %s (%d bytes)", path, len(data))

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("✅ Uploaded: %s", path)
	return c.PublicURL(path), nil
}

// Download - fetch an object by path or by one of our public URLs
func (c *Client) Download(ctx context.Context, pathOrURL string) ([]byte, error) {
	url := pathOrURL
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = c.PublicURL(pathOrURL)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("download failed with status %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	log.Printf("📥 Downloaded: %s (%d bytes)", pathOrURL, len(data))
	return data, nil
}

// Delete - remove an object. A missing object is treated as already deleted,
// which keeps the cleanup sweep idempotent.
func (c *Client) Delete(ctx context.Context, path string) error {
	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, "DELETE", deleteURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Printf("⚠️  Object already gone: %s", path)
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete failed with status %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("🗑️  Deleted object: %s", path)
	return nil
}
