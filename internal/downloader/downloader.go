// Package downloader holds the extraction collaborators. Each downloader is
// an opaque, possibly slow remote call; callers bound it with a context.
package downloader

import (
	"context"
	"fmt"
	"strings"

	"nextgen_download_bot/internal/model"
	"nextgen_download_bot/internal/platform"
)

type Downloader interface {
	Name() string
	Fetch(ctx context.Context, rawURL string) (*model.Media, error)
}

// FetchError aggregates the failures of every attempted downloader for one
// request.
type FetchError struct {
	Platform platform.Platform
	Causes   []error
}

func (e *FetchError) Error() string {
	parts := make([]string, len(e.Causes))
	for i, cause := range e.Causes {
		parts[i] = cause.Error()
	}
	return fmt.Sprintf("all downloaders failed for %s: %s", e.Platform.Title(), strings.Join(parts, "; "))
}
