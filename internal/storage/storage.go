// Package storage wraps the Supabase Storage bucket that holds proof file
// binaries.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

type Client struct {
	client  *storage_go.Client
	bucket  string
	baseURL string
}

func NewClient(supabaseURL, serviceKey, bucket string) (*Client, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage_go.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &Client{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// Upload stores a proof file binary and returns its public URL.
func (s *Client) Upload(path, contentType string, data []byte) (string, error) {
	upsert := false
	_, err := s.client.UploadFile(s.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return s.PublicURL(path), nil
}

func (s *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}

// Remove deletes stored objects; used by the upload rollback path.
func (s *Client) Remove(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	if _, err := s.client.RemoveFile(s.bucket, paths); err != nil {
		return fmt.Errorf("failed to remove files: %w", err)
	}
	return nil
}

func (s *Client) Download(path string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, path)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return data, nil
}

// Disabled stands in for the storage client when no credentials are
// configured. Uploads fail; removals are a no-op.
type Disabled struct{}

func (Disabled) Upload(path, contentType string, data []byte) (string, error) {
	return "", errors.New("object storage is not configured")
}

func (Disabled) Remove(paths []string) error {
	return nil
}
