package output

import (
	"context"
	"errors"
)

var ErrDocumentUnavailable = errors.New("document unavailable")

type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (url string, err error)
	Download(ctx context.Context, key, localPath string) error
}

// DocumentFetcher turns a document reference into a local file. When
// temporary is true the caller owns the file and must remove it.
type DocumentFetcher interface {
	Fetch(ctx context.Context, ref string) (path string, temporary bool, err error)
}
