package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"nextgen_download_bot/internal/model"
	"nextgen_download_bot/internal/repository"
	"nextgen_download_bot/pkg/logger"

	"go.uber.org/zap"
)

const referralTokenPrefix = "ref_"

// ReferralService resolves referral deep links and verifies referrals once
// the referee becomes active.
type ReferralService struct {
	users      UserRepository
	referrals  ReferralRepository
	membership MembershipChecker
}

func NewReferralService(users UserRepository, referrals ReferralRepository, membership MembershipChecker) *ReferralService {
	return &ReferralService{
		users:      users,
		referrals:  referrals,
		membership: membership,
	}
}

// ReferralLink builds the deep link a referrer shares.
func ReferralLink(botUsername string, userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%s%d", botUsername, referralTokenPrefix, userID)
}

// ParseToken extracts the referrer id from a "ref_<id>" start parameter.
func ParseToken(token string) (int64, bool) {
	if !strings.HasPrefix(token, referralTokenPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(token, referralTokenPrefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Register resolves a start token and records the referral. Duplicate and
// self referrals are benign repeat invocations: logged, suppressed, not
// surfaced to the user. The returned id is the referrer when a new referral
// row was created, 0 otherwise.
func (s *ReferralService) Register(ctx context.Context, token string, refereeID int64) (int64, error) {
	log := logger.Logger()

	referrerID, ok := ParseToken(token)
	if !ok {
		return 0, nil
	}

	err := s.referrals.CreateReferral(ctx, referrerID, refereeID)
	switch {
	case err == nil:
		log.Info("referral registered",
			zap.Int64("referrer_id", referrerID),
			zap.Int64("referee_id", refereeID))
		return referrerID, nil
	case errors.Is(err, repository.ErrDuplicateReferral), errors.Is(err, repository.ErrSelfReferral):
		log.Debug("referral suppressed",
			zap.Int64("referrer_id", referrerID),
			zap.Int64("referee_id", refereeID),
			zap.Error(err))
		return 0, nil
	case errors.Is(err, repository.ErrNotFound):
		// Token of a referrer who never started the bot.
		log.Warn("referral token references unknown user",
			zap.Int64("referrer_id", referrerID),
			zap.Int64("referee_id", refereeID))
		return 0, nil
	default:
		return 0, err
	}
}

// TryVerify is called after each of the referee's successful downloads. It
// re-checks channel membership live, and once the referee has downloaded at
// least once while joined, marks the referral verified and grants the
// referrer unlimited status. No referral row, failed preconditions or an
// already verified row make it a no-op; the next download retries. Returns
// the referrer id on a fresh grant, 0 otherwise.
func (s *ReferralService) TryVerify(ctx context.Context, refereeID int64) (int64, error) {
	ref, err := s.referrals.GetReferralByReferee(ctx, refereeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if ref.Verified {
		return 0, nil
	}

	joined, err := s.checkMembership(ctx, refereeID)
	if err != nil {
		return 0, err
	}
	if !joined {
		return 0, nil
	}

	referee, err := s.users.GetUser(ctx, refereeID)
	if err != nil {
		return 0, err
	}
	if referee.DownloadCount < 1 {
		return 0, nil
	}

	if err := s.referrals.MarkReferralVerified(ctx, refereeID); err != nil {
		return 0, err
	}
	if err := s.users.GrantUnlimited(ctx, ref.ReferrerID); err != nil {
		return 0, err
	}

	logger.Logger().Info("referral verified, unlimited granted",
		zap.Int64("referrer_id", ref.ReferrerID),
		zap.Int64("referee_id", refereeID))
	return ref.ReferrerID, nil
}

// Progress reports the user's own path to unlimited status: how many of
// their referees verified, plus their current follow state.
func (s *ReferralService) Progress(ctx context.Context, userID int64) (*model.ReferralProgress, error) {
	count, err := s.referrals.CountVerifiedReferrals(ctx, userID)
	if err != nil {
		return nil, err
	}

	joined, err := s.checkMembership(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &model.ReferralProgress{
		VerifiedReferrals: count,
		ChannelJoined:     joined,
		Unlimited:         user.Unlimited,
	}, nil
}

// checkMembership performs the live transport lookup and refreshes the
// stored follow record; membership state is never served stale.
func (s *ReferralService) checkMembership(ctx context.Context, userID int64) (bool, error) {
	joined, err := s.membership.IsMember(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("membership check failed: %w", err)
	}
	if err := s.referrals.UpsertChannelFollow(ctx, userID, joined); err != nil {
		return false, err
	}
	return joined, nil
}
