package downloader

import (
	"context"
	"io"
	"net"
	"net/http"
	"regexp"
	"time"

	"nextgen_download_bot/internal/model"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
)

const (
	instagramUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	instagramTimeout   = 30 * time.Second
)

var shortcodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`instagram\.com/p/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`instagram\.com/reel/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`instagram\.com/tv/([A-Za-z0-9_-]+)`),
}

// Instagram fetches post metadata straight from instagram's web endpoint,
// optionally through a SOCKS5 proxy. It is tried before yt-dlp because it
// handles image posts yt-dlp rejects.
type Instagram struct {
	client *http.Client
}

// NewInstagram builds the direct client. proxyAddr may be empty; when set
// it is a host:port SOCKS5 endpoint all requests are dialed through.
func NewInstagram(proxyAddr string) (*Instagram, error) {
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if proxyAddr != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, &net.Dialer{Timeout: 10 * time.Second})
		if err != nil {
			return nil, errors.Wrap(err, "failed to build socks5 dialer")
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	}

	return &Instagram{
		client: &http.Client{
			Transport: transport,
			Timeout:   instagramTimeout,
		},
	}, nil
}

func (d *Instagram) Name() string { return "instagram-direct" }

// ExtractShortcode pulls the post shortcode out of /p/, /reel/ and /tv/ URLs.
func ExtractShortcode(rawURL string) (string, bool) {
	for _, pattern := range shortcodePatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

type instagramPost struct {
	GraphQL struct {
		ShortcodeMedia struct {
			IsVideo       bool    `json:"is_video"`
			VideoURL      string  `json:"video_url"`
			VideoDuration float64 `json:"video_duration"`
			DisplayURL    string  `json:"display_url"`
			Owner         struct {
				Username string `json:"username"`
			} `json:"owner"`
			EdgeMediaToCaption struct {
				Edges []struct {
					Node struct {
						Text string `json:"text"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"edge_media_to_caption"`
		} `json:"shortcode_media"`
	} `json:"graphql"`
}

func (d *Instagram) Fetch(ctx context.Context, rawURL string) (*model.Media, error) {
	shortcode, ok := ExtractShortcode(rawURL)
	if !ok {
		return nil, errors.New("no instagram shortcode in url")
	}

	endpoint := "https://www.instagram.com/p/" + shortcode + "/?__a=1&__d=dis"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", instagramUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "instagram request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("instagram responded with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read instagram response")
	}

	var post instagramPost
	if err := json.Unmarshal(body, &post); err != nil {
		return nil, errors.Wrap(err, "failed to decode instagram response")
	}

	media := post.GraphQL.ShortcodeMedia
	title := "Instagram Post"
	if edges := media.EdgeMediaToCaption.Edges; len(edges) > 0 && edges[0].Node.Text != "" {
		title = edges[0].Node.Text
		if len(title) > 100 {
			title = title[:100]
		}
	}

	out := &model.Media{
		Title:     title,
		Thumbnail: media.DisplayURL,
		Uploader:  media.Owner.Username,
		Source:    d.Name(),
	}
	if media.IsVideo {
		if media.VideoURL == "" {
			return nil, errors.New("instagram post has no video url")
		}
		out.URL = media.VideoURL
		out.Duration = int(media.VideoDuration)
		return out, nil
	}
	if media.DisplayURL == "" {
		return nil, errors.New("instagram post has no media")
	}
	out.URL = media.DisplayURL
	return out, nil
}
