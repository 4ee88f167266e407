package mocks

import (
	"context"
	"sync"
)

// MockAvatarURLs stands in for the signed URL client. By default it returns
// deterministic URLs derived from the file key.
type MockAvatarURLs struct {
	UploadURLFn   func(ctx context.Context, fileKey, contentType string) (string, error)
	DownloadURLFn func(ctx context.Context, fileKey string) (string, error)

	mu           sync.Mutex
	UploadKeys   []string
	DownloadKeys []string
}

// UploadURL returns a presigned upload URL for fileKey.
func (m *MockAvatarURLs) UploadURL(ctx context.Context, fileKey, contentType string) (string, error) {
	m.mu.Lock()
	m.UploadKeys = append(m.UploadKeys, fileKey)
	m.mu.Unlock()

	if m.UploadURLFn != nil {
		return m.UploadURLFn(ctx, fileKey, contentType)
	}
	return "https://uploads.example.com/put/" + fileKey, nil
}

// DownloadURL returns a presigned download URL for fileKey.
func (m *MockAvatarURLs) DownloadURL(ctx context.Context, fileKey string) (string, error) {
	m.mu.Lock()
	m.DownloadKeys = append(m.DownloadKeys, fileKey)
	m.mu.Unlock()

	if m.DownloadURLFn != nil {
		return m.DownloadURLFn(ctx, fileKey)
	}
	return "https://uploads.example.com/get/" + fileKey, nil
}
