package service

import (
	"context"
	"errors"

	"nextgen_download_bot/internal/model"
)

var (
	ErrQuotaExhausted = errors.New("download quota exhausted")
	ErrUserNotFound   = errors.New("user not found")
)

// Service aggregates the request-facing services the bot consumes.
type Service struct {
	*UserService
	*QuotaService
	*ReferralService
	*StatsService
}

func NewService(users *UserService, quota *QuotaService, referral *ReferralService, stats *StatsService) *Service {
	return &Service{
		UserService:     users,
		QuotaService:    quota,
		ReferralService: referral,
		StatsService:    stats,
	}
}

type UserRepository interface {
	GetOrCreateUser(ctx context.Context, userID int64, username, firstName string) (*model.User, error)
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	IncrementDownloadCount(ctx context.Context, userID int64, limit int) error
	GrantUnlimited(ctx context.Context, userID int64) error
}

type ReferralRepository interface {
	CreateReferral(ctx context.Context, referrerID, refereeID int64) error
	GetReferralByReferee(ctx context.Context, refereeID int64) (*model.Referral, error)
	MarkReferralVerified(ctx context.Context, refereeID int64) error
	CountVerifiedReferrals(ctx context.Context, referrerID int64) (int, error)
	UpsertChannelFollow(ctx context.Context, userID int64, joined bool) error
}

type DownloadRepository interface {
	LogDownload(ctx context.Context, dl *model.Download) error
	GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error)
	GetAdminStats(ctx context.Context) (*model.AdminStats, error)
}

// MembershipChecker performs a live membership lookup against the required
// channel through the transport.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID int64) (bool, error)
}

// ReferralVerifier is the slice of ReferralService the quota engine needs.
type ReferralVerifier interface {
	TryVerify(ctx context.Context, refereeID int64) (int64, error)
}
