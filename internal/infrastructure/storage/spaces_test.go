package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-bot/internal/config"
	"onboarding-bot/internal/infrastructure/logger"
)

const objectBody = "stored document"

// fakeBucket answers the handful of S3 calls the store makes.
type fakeBucket struct {
	mu       sync.Mutex
	requests []string
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	b.mu.Unlock()

	w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	w.Header().Set("Last-Modified", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Format(http.TimeFormat))

	switch r.Method {
	case http.MethodPut:
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		w.Header().Set("Content-Length", strconv.Itoa(len(objectBody)))
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		w.Header().Set("Content-Length", strconv.Itoa(len(objectBody)))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, objectBody)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *fakeBucket) seen() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func newTestStore(t *testing.T, folder string) (*SpacesStore, *fakeBucket, string) {
	t.Helper()
	bucket := &fakeBucket{}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	store, err := NewSpacesStore(config.StorageConfig{
		Endpoint: srv.URL,
		Region:   "nyc3",
		Bucket:   "onboarding",
		Folder:   folder,
		Key:      "key",
		Secret:   "secret",
	}, logger.NewNop())
	require.NoError(t, err)
	return store, bucket, srv.URL
}

func TestNewSpacesStore_RequiresConfig(t *testing.T) {
	_, err := NewSpacesStore(config.StorageConfig{Endpoint: "nyc3.digitaloceanspaces.com"}, logger.NewNop())
	assert.Error(t, err)
}

func TestSpacesStore_Upload(t *testing.T) {
	store, bucket, base := newTestStore(t, "/runs/")

	local := filepath.Join(t.TempDir(), "screenshot_simulacao.png")
	require.NoError(t, os.WriteFile(local, []byte("png"), 0o644))

	url, err := store.Upload(context.Background(), local, "run-1/screenshot_simulacao.png")
	require.NoError(t, err)
	assert.Equal(t, base+"/onboarding/runs/run-1/screenshot_simulacao.png", url)

	seen := bucket.seen()
	assert.Contains(t, seen, "PUT /onboarding/runs/run-1/screenshot_simulacao.png")
	assert.Contains(t, seen, "HEAD /onboarding/runs/run-1/screenshot_simulacao.png")
}

func TestSpacesStore_Download(t *testing.T) {
	store, bucket, _ := newTestStore(t, "")

	local := filepath.Join(t.TempDir(), "rg.pdf")
	require.NoError(t, store.Download(context.Background(), "docs/rg.pdf", local))

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, objectBody, string(data))
	assert.Contains(t, bucket.seen(), "GET /onboarding/docs/rg.pdf")
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		useSSL   bool
		host     string
		secure   bool
		wantErr  bool
	}{
		{name: "bare host keeps flag", endpoint: "nyc3.digitaloceanspaces.com", useSSL: true, host: "nyc3.digitaloceanspaces.com", secure: true},
		{name: "trailing slash", endpoint: "localhost:9000/", host: "localhost:9000"},
		{name: "https scheme", endpoint: "https://nyc3.digitaloceanspaces.com", host: "nyc3.digitaloceanspaces.com", secure: true},
		{name: "http scheme overrides flag", endpoint: "http://127.0.0.1:9000", useSSL: true, host: "127.0.0.1:9000"},
		{name: "no host", endpoint: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, secure, err := splitEndpoint(tt.endpoint, tt.useSSL)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.secure, secure)
		})
	}
}
