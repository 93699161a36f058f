package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected Platform
	}{
		{"tiktok short link", "https://vt.tiktok.com/xyz", TikTok},
		{"tiktok www", "https://www.tiktok.com/@user/video/123", TikTok},
		{"youtube", "https://www.youtube.com/watch?v=abc", YouTube},
		{"youtube short link", "https://youtu.be/abc", YouTube},
		{"youtube mobile", "https://m.youtube.com/watch?v=abc", YouTube},
		{"instagram post", "https://www.instagram.com/p/abc/", Instagram},
		{"instagram reel", "https://instagram.com/reel/abc/", Instagram},
		{"twitter", "https://twitter.com/user/status/1", Twitter},
		{"x.com", "https://x.com/user/status/1", Twitter},
		{"facebook", "https://www.facebook.com/watch?v=1", Facebook},
		{"fb short", "https://fb.com/watch?v=1", Facebook},
		{"unknown host", "https://example.com/video", Unrecognized},
		{"not a url", "just some text", Unrecognized},
		{"empty", "", Unrecognized},
		{"lookalike domain", "https://nottiktok.com/xyz", Unrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.url))
		})
	}
}

func TestExtractURLs(t *testing.T) {
	urls := ExtractURLs("check this https://vt.tiktok.com/xyz and https://youtu.be/abc out")
	assert.Equal(t, []string{"https://vt.tiktok.com/xyz", "https://youtu.be/abc"}, urls)

	assert.Empty(t, ExtractURLs("no links here"))
}
