package downloader

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"nextgen_download_bot/internal/model"
	"nextgen_download_bot/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultFormat = "best[ext=mp4]/best"

// YTDLP extracts media info through the yt-dlp binary. Only metadata is
// requested; the direct media URL is relayed to the user.
type YTDLP struct {
	binary string
	format string
}

func NewYTDLP(binary, format string) *YTDLP {
	if binary == "" {
		binary = "yt-dlp"
	}
	if format == "" {
		format = defaultFormat
	}
	return &YTDLP{binary: binary, format: format}
}

func (d *YTDLP) Name() string { return "yt-dlp" }

type ytdlpInfo struct {
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	Thumbnail    string  `json:"thumbnail"`
	Duration     float64 `json:"duration"`
	Uploader     string  `json:"uploader"`
	ExtractorKey string  `json:"extractor_key"`
}

func (d *YTDLP) Fetch(ctx context.Context, rawURL string) (*model.Media, error) {
	args := []string{
		"--dump-single-json",
		"--no-playlist",
		"--no-warnings",
		"--format", d.format,
		rawURL,
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "yt-dlp aborted")
		}
		logger.Logger().Debug("yt-dlp failed",
			zap.String("url", rawURL),
			zap.String("stderr", strings.TrimSpace(stderr.String())),
			zap.Error(err))
		return nil, errors.Wrap(err, "yt-dlp exited with error")
	}

	var info ytdlpInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, errors.Wrap(err, "failed to decode yt-dlp output")
	}
	if info.URL == "" {
		return nil, errors.New("yt-dlp returned no media url")
	}

	title := info.Title
	if title == "" {
		title = "Downloaded Video"
	}

	return &model.Media{
		URL:       info.URL,
		Title:     title,
		Thumbnail: info.Thumbnail,
		Uploader:  info.Uploader,
		Duration:  int(info.Duration),
		Source:    d.Name(),
	}, nil
}
