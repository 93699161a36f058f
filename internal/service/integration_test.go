package service

import (
	"context"
	"testing"

	"nextgen_download_bot/internal/model"
	"nextgen_download_bot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMembership struct {
	joined map[int64]bool
}

func (s *stubMembership) IsMember(_ context.Context, userID int64) (bool, error) {
	return s.joined[userID], nil
}

// User B joins via A's deep link, then downloads once while following the
// required channel: A becomes unlimited, B stays on the free quota.
func TestReferralRewardScenario(t *testing.T) {
	ctx := context.Background()
	repo, err := repository.New(repository.Config{Path: ":memory:"})
	require.NoError(t, err)
	defer repo.Close()

	membership := &stubMembership{joined: map[int64]bool{}}
	referralSvc := NewReferralService(repo, repo, membership)
	quotaSvc := NewQuotaService(repo, repo, referralSvc, DefaultFreeLimit)

	_, err = repo.GetOrCreateUser(ctx, 100, "alice", "Alice")
	require.NoError(t, err)
	_, err = repo.GetOrCreateUser(ctx, 200, "bob", "Bob")
	require.NoError(t, err)

	referrerID, err := referralSvc.Register(ctx, "ref_100", 200)
	require.NoError(t, err)
	assert.Equal(t, int64(100), referrerID)

	// B downloads before following the channel: nothing verifies yet.
	granted, err := quotaSvc.RecordDownload(ctx, &model.Download{
		ID: "d1", UserID: 200, Platform: "tiktok", URL: "https://vt.tiktok.com/a", Success: true,
	})
	require.NoError(t, err)
	assert.Zero(t, granted)

	a, err := repo.GetUser(ctx, 100)
	require.NoError(t, err)
	assert.False(t, a.Unlimited)

	// B follows the channel and downloads again.
	membership.joined[200] = true
	granted, err = quotaSvc.RecordDownload(ctx, &model.Download{
		ID: "d2", UserID: 200, Platform: "tiktok", URL: "https://vt.tiktok.com/b", Success: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), granted)

	a, err = repo.GetUser(ctx, 100)
	require.NoError(t, err)
	assert.True(t, a.Unlimited)

	// B keeps the ordinary free quota.
	b, err := repo.GetUser(ctx, 200)
	require.NoError(t, err)
	assert.False(t, b.Unlimited)
	assert.Equal(t, 2, b.DownloadCount)

	// A is never denied again, regardless of count.
	for i := 0; i < DefaultFreeLimit+2; i++ {
		require.NoError(t, repo.IncrementDownloadCount(ctx, 100, DefaultFreeLimit))
	}
	assert.NoError(t, quotaSvc.CheckEligibility(ctx, 100))

	// Re-sending the deep link stays benign and grants nothing new.
	referrerID, err = referralSvc.Register(ctx, "ref_100", 200)
	require.NoError(t, err)
	assert.Zero(t, referrerID)

	granted, err = quotaSvc.RecordDownload(ctx, &model.Download{
		ID: "d3", UserID: 200, Platform: "youtube", URL: "https://youtu.be/c", Success: true,
	})
	require.NoError(t, err)
	assert.Zero(t, granted)
}
