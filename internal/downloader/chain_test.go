package downloader

import (
	"context"
	"testing"

	"nextgen_download_bot/internal/model"
	"nextgen_download_bot/internal/platform"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeDownloader struct {
	name  string
	media *model.Media
	err   error
	calls int
}

func (f *fakeDownloader) Name() string { return f.name }

func (f *fakeDownloader) Fetch(_ context.Context, _ string) (*model.Media, error) {
	f.calls++
	return f.media, f.err
}

func TestChainFetch(t *testing.T) {
	t.Run("first downloader wins", func(t *testing.T) {
		first := &fakeDownloader{name: "first", media: &model.Media{URL: "https://cdn/a.mp4", Source: "first"}}
		second := &fakeDownloader{name: "second", media: &model.Media{URL: "https://cdn/b.mp4", Source: "second"}}
		chain := NewChainFromTable(map[platform.Platform][]Downloader{
			platform.Instagram: {first, second},
		})

		media, err := chain.Fetch(context.Background(), platform.Instagram, "https://www.instagram.com/p/abc/")

		assert.NoError(t, err)
		assert.Equal(t, "first", media.Source)
		assert.Equal(t, 1, first.calls)
		assert.Equal(t, 0, second.calls)
	})

	t.Run("falls back in order", func(t *testing.T) {
		first := &fakeDownloader{name: "first", err: errors.New("login required")}
		second := &fakeDownloader{name: "second", media: &model.Media{URL: "https://cdn/b.mp4", Source: "second"}}
		chain := NewChainFromTable(map[platform.Platform][]Downloader{
			platform.Instagram: {first, second},
		})

		media, err := chain.Fetch(context.Background(), platform.Instagram, "https://www.instagram.com/p/abc/")

		assert.NoError(t, err)
		assert.Equal(t, "second", media.Source)
		assert.Equal(t, 1, first.calls)
		assert.Equal(t, 1, second.calls)
	})

	t.Run("aggregates all failures", func(t *testing.T) {
		first := &fakeDownloader{name: "first", err: errors.New("login required")}
		second := &fakeDownloader{name: "second", err: errors.New("geo blocked")}
		chain := NewChainFromTable(map[platform.Platform][]Downloader{
			platform.Instagram: {first, second},
		})

		media, err := chain.Fetch(context.Background(), platform.Instagram, "https://www.instagram.com/p/abc/")

		assert.Nil(t, media)
		var fetchErr *FetchError
		assert.ErrorAs(t, err, &fetchErr)
		assert.Len(t, fetchErr.Causes, 2)
		assert.Contains(t, fetchErr.Error(), "login required")
		assert.Contains(t, fetchErr.Error(), "geo blocked")
	})

	t.Run("unknown platform", func(t *testing.T) {
		chain := NewChainFromTable(map[platform.Platform][]Downloader{})

		_, err := chain.Fetch(context.Background(), platform.YouTube, "https://youtu.be/abc")

		assert.Error(t, err)
	})
}

func TestExtractShortcode(t *testing.T) {
	tests := []struct {
		url       string
		shortcode string
		ok        bool
	}{
		{"https://www.instagram.com/p/Cxyz_12-ab/", "Cxyz_12-ab", true},
		{"https://instagram.com/reel/abc123/", "abc123", true},
		{"https://www.instagram.com/tv/qwerty/", "qwerty", true},
		{"https://www.instagram.com/someuser/", "", false},
	}

	for _, tt := range tests {
		shortcode, ok := ExtractShortcode(tt.url)
		assert.Equal(t, tt.ok, ok, tt.url)
		assert.Equal(t, tt.shortcode, shortcode, tt.url)
	}
}
