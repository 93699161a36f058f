package service

import (
	"context"
	"errors"

	"nextgen_download_bot/internal/model"
	"nextgen_download_bot/internal/repository"
	"nextgen_download_bot/pkg/logger"

	"go.uber.org/zap"
)

const DefaultFreeLimit = 5

// QuotaService decides whether a download is permitted and applies the
// post-download side effects.
type QuotaService struct {
	users     UserRepository
	downloads DownloadRepository
	verifier  ReferralVerifier
	freeLimit int
}

func NewQuotaService(users UserRepository, downloads DownloadRepository, verifier ReferralVerifier, freeLimit int) *QuotaService {
	if freeLimit <= 0 {
		freeLimit = DefaultFreeLimit
	}
	return &QuotaService{
		users:     users,
		downloads: downloads,
		verifier:  verifier,
		freeLimit: freeLimit,
	}
}

// CheckEligibility returns nil when the user may download, ErrQuotaExhausted
// when a free user has spent the quota. The check happens strictly before
// the downloader call; no lock is held while the download is pending.
func (s *QuotaService) CheckEligibility(ctx context.Context, userID int64) error {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Unlimited || user.DownloadCount < s.freeLimit {
		return nil
	}
	return ErrQuotaExhausted
}

// RemainingDownloads reports how many free downloads are left; -1 means
// unlimited.
func (s *QuotaService) RemainingDownloads(user *model.User) int {
	if user.Unlimited {
		return -1
	}
	remaining := s.freeLimit - user.DownloadCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *QuotaService) FreeLimit() int { return s.freeLimit }

// RecordDownload commits the outcome of one download attempt. Quota is
// consumed only on success; failures are just appended to the history log.
// On the referee's successful download a referral verification attempt runs;
// the returned id is the referrer granted unlimited status, 0 when no grant
// happened. Verification and logging problems never fail a delivered
// download.
func (s *QuotaService) RecordDownload(ctx context.Context, dl *model.Download) (int64, error) {
	log := logger.Logger()

	if dl.Success {
		if err := s.users.IncrementDownloadCount(ctx, dl.UserID, s.freeLimit); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return 0, ErrUserNotFound
			}
			return 0, err
		}
	}

	if err := s.downloads.LogDownload(ctx, dl); err != nil {
		log.Error("failed to log download",
			zap.Int64("user_id", dl.UserID),
			zap.String("download_id", dl.ID),
			zap.Error(err))
	}

	if !dl.Success {
		return 0, nil
	}

	grantedReferrer, err := s.verifier.TryVerify(ctx, dl.UserID)
	if err != nil {
		log.Warn("referral verification attempt failed",
			zap.Int64("user_id", dl.UserID),
			zap.Error(err))
		return 0, nil
	}
	return grantedReferrer, nil
}
