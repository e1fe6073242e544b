package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"onboarding-bot/internal/application/port/output"
)

const (
	spacesScheme = "do://"

	defaultDownloadTimeout = 60 * time.Second
)

var _ output.DocumentFetcher = (*Fetcher)(nil)

// Fetcher resolves document references: local paths are used as they are,
// http(s) URLs are downloaded and do://<key> objects are pulled from the
// bucket. Downloads land in temporary files.
type Fetcher struct {
	store   output.ArtifactStore
	http    *http.Client
	tempDir string
	logger  output.LoggerPort
}

// NewFetcher accepts a nil store; do:// references then fail.
func NewFetcher(store output.ArtifactStore, tempDir string, logger output.LoggerPort) *Fetcher {
	return &Fetcher{
		store:   store,
		http:    &http.Client{Timeout: defaultDownloadTimeout},
		tempDir: tempDir,
		logger:  logger,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, ref string) (string, bool, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return "", false, fmt.Errorf("%w: empty reference", output.ErrDocumentUnavailable)
	case isURL(ref):
		return f.fetchURL(ctx, ref)
	case strings.HasPrefix(ref, spacesScheme):
		return f.fetchObject(ctx, strings.TrimPrefix(ref, spacesScheme))
	default:
		return f.local(ref)
	}
}

// IsRemote tells whether ref names a URL or a bucket object rather than a
// path on this machine.
func IsRemote(ref string) bool {
	ref = strings.TrimSpace(ref)
	return isURL(ref) || strings.HasPrefix(ref, spacesScheme)
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func (f *Fetcher) local(p string) (string, bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", output.ErrDocumentUnavailable, err)
	}
	if !info.Mode().IsRegular() {
		return "", false, fmt.Errorf("%w: %s is not a regular file", output.ErrDocumentUnavailable, p)
	}
	f.logger.Debug("Using local document")
	return p, false, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, raw string) (string, bool, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", output.ErrDocumentUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", output.ErrDocumentUnavailable, err)
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("%w: download: %w", output.ErrDocumentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false, fmt.Errorf("%w: download returned status %d", output.ErrDocumentUnavailable, resp.StatusCode)
	}

	tmp, err := f.tempFile(path.Ext(u.Path))
	if err != nil {
		return "", false, err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", false, fmt.Errorf("%w: save download: %w", output.ErrDocumentUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", false, fmt.Errorf("save download: %w", err)
	}

	f.logger.Info("Document downloaded", "host", u.Host)
	return tmp.Name(), true, nil
}

func (f *Fetcher) fetchObject(ctx context.Context, key string) (string, bool, error) {
	if f.store == nil {
		return "", false, fmt.Errorf("%w: object storage is not configured", output.ErrDocumentUnavailable)
	}
	if key == "" {
		return "", false, fmt.Errorf("%w: empty object key", output.ErrDocumentUnavailable)
	}

	tmp, err := f.tempFile(path.Ext(key))
	if err != nil {
		return "", false, err
	}
	name := tmp.Name()
	tmp.Close()

	if err := f.store.Download(ctx, key, name); err != nil {
		os.Remove(name)
		return "", false, fmt.Errorf("%w: %w", output.ErrDocumentUnavailable, err)
	}

	f.logger.Info("Document fetched from storage", "key", key)
	return name, true, nil
}

func (f *Fetcher) tempFile(ext string) (*os.File, error) {
	if f.tempDir != "" {
		if err := os.MkdirAll(f.tempDir, 0o755); err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(f.tempDir, "document-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return tmp, nil
}
