package downloader

import (
	"context"

	"nextgen_download_bot/internal/model"
	"nextgen_download_bot/internal/platform"
	"nextgen_download_bot/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Chain routes a classified URL to its ordered list of downloaders and
// tries them in sequence until one succeeds.
type Chain struct {
	attempts map[platform.Platform][]Downloader
}

// NewChain wires the per-platform dispatch table. Instagram gets the direct
// client first with yt-dlp as fallback; every other platform goes straight
// to yt-dlp.
func NewChain(instagram *Instagram, ytdlp *YTDLP) *Chain {
	return &Chain{
		attempts: map[platform.Platform][]Downloader{
			platform.Instagram: {instagram, ytdlp},
			platform.TikTok:    {ytdlp},
			platform.YouTube:   {ytdlp},
			platform.Twitter:   {ytdlp},
			platform.Facebook:  {ytdlp},
		},
	}
}

// NewChainFromTable builds a chain with an explicit dispatch table.
func NewChainFromTable(attempts map[platform.Platform][]Downloader) *Chain {
	return &Chain{attempts: attempts}
}

func (c *Chain) Fetch(ctx context.Context, p platform.Platform, rawURL string) (*model.Media, error) {
	list := c.attempts[p]
	if len(list) == 0 {
		return nil, errors.Errorf("no downloader registered for platform %q", p)
	}

	var causes []error
	for _, d := range list {
		media, err := d.Fetch(ctx, rawURL)
		if err == nil {
			return media, nil
		}
		logger.Logger().Debug("downloader attempt failed",
			zap.String("downloader", d.Name()),
			zap.String("url", rawURL),
			zap.Error(err))
		causes = append(causes, errors.Wrap(err, d.Name()))
		if ctx.Err() != nil {
			break
		}
	}

	return nil, &FetchError{Platform: p, Causes: causes}
}
