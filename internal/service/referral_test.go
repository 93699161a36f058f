package service

import (
	"context"
	"testing"

	"nextgen_download_bot/internal/model"
	"nextgen_download_bot/internal/repository"
	"nextgen_download_bot/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		token    string
		expected int64
		ok       bool
	}{
		{"ref_100", 100, true},
		{"ref_0", 0, false},
		{"ref_-5", 0, false},
		{"ref_abc", 0, false},
		{"100", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		id, ok := ParseToken(tt.token)
		assert.Equal(t, tt.ok, ok, tt.token)
		assert.Equal(t, tt.expected, id, tt.token)
	}
}

func TestReferralLink(t *testing.T) {
	assert.Equal(t, "https://t.me/nextgen_dl_bot?start=ref_100", ReferralLink("nextgen_dl_bot", 100))
}

func TestReferralService_Register(t *testing.T) {
	tests := []struct {
		name             string
		token            string
		refereeID        int64
		mockSetup        func(referrals *mocks.MockReferralRepository)
		expectedReferrer int64
		expectedError    bool
	}{
		{
			name:      "new referral registered",
			token:     "ref_100",
			refereeID: 200,
			mockSetup: func(referrals *mocks.MockReferralRepository) {
				referrals.On("CreateReferral", mock.Anything, int64(100), int64(200)).Return(nil)
			},
			expectedReferrer: 100,
		},
		{
			name:      "duplicate referral suppressed",
			token:     "ref_100",
			refereeID: 200,
			mockSetup: func(referrals *mocks.MockReferralRepository) {
				referrals.On("CreateReferral", mock.Anything, int64(100), int64(200)).
					Return(repository.ErrDuplicateReferral)
			},
			expectedReferrer: 0,
		},
		{
			name:      "self referral suppressed",
			token:     "ref_200",
			refereeID: 200,
			mockSetup: func(referrals *mocks.MockReferralRepository) {
				referrals.On("CreateReferral", mock.Anything, int64(200), int64(200)).
					Return(repository.ErrSelfReferral)
			},
			expectedReferrer: 0,
		},
		{
			name:      "unknown referrer suppressed",
			token:     "ref_999",
			refereeID: 200,
			mockSetup: func(referrals *mocks.MockReferralRepository) {
				referrals.On("CreateReferral", mock.Anything, int64(999), int64(200)).
					Return(repository.ErrNotFound)
			},
			expectedReferrer: 0,
		},
		{
			name:             "malformed token ignored",
			token:            "hello",
			refereeID:        200,
			mockSetup:        func(referrals *mocks.MockReferralRepository) {},
			expectedReferrer: 0,
		},
		{
			name:      "storage error surfaces",
			token:     "ref_100",
			refereeID: 200,
			mockSetup: func(referrals *mocks.MockReferralRepository) {
				referrals.On("CreateReferral", mock.Anything, int64(100), int64(200)).
					Return(assert.AnError)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mocks.MockUserRepository{}
			referrals := &mocks.MockReferralRepository{}
			membership := &mocks.MockMembershipChecker{}
			svc := NewReferralService(users, referrals, membership)

			tt.mockSetup(referrals)

			referrerID, err := svc.Register(context.Background(), tt.token, tt.refereeID)

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedReferrer, referrerID)
			referrals.AssertExpectations(t)
		})
	}
}

func TestReferralService_TryVerify(t *testing.T) {
	const (
		referrerID int64 = 100
		refereeID  int64 = 200
	)

	tests := []struct {
		name            string
		mockSetup       func(users *mocks.MockUserRepository, referrals *mocks.MockReferralRepository, membership *mocks.MockMembershipChecker)
		expectedGranted int64
		checkCalls      func(t *testing.T, users *mocks.MockUserRepository, referrals *mocks.MockReferralRepository)
	}{
		{
			name: "no referral row is a no-op",
			mockSetup: func(users *mocks.MockUserRepository, referrals *mocks.MockReferralRepository, membership *mocks.MockMembershipChecker) {
				referrals.On("GetReferralByReferee", mock.Anything, refereeID).
					Return(nil, repository.ErrNotFound)
			},
			checkCalls: func(t *testing.T, users *mocks.MockUserRepository, referrals *mocks.MockReferralRepository) {
				users.AssertNotCalled(t, "GrantUnlimited", mock.Anything, mock.Anything)
			},
		},
		{
			name: "already verified is a no-op",
			mockSetup: func(users *mocks.MockUserRepository, referrals *mocks.MockReferralRepository, membership *mocks.MockMembershipChecker) {
				referrals.On("GetReferralByReferee", mock.Anything, refereeID).
					Return(&model.Referral{RefereeID: refereeID, ReferrerID: referrerID, Verified: true}, nil)
			},
			checkCalls: func(t *testing.T, users *mocks.MockUserRepository, referrals *mocks.MockReferralRepository) {
				referrals.AssertNotCalled(t, "MarkReferralVerified", mock.Anything, mock.Anything)
				users.AssertNotCalled(t, "GrantUnlimited", mock.Anything, mock.Anything)
			},
		},
		{
			name: "not joined refreshes follow record and stops",
			mockSetup: func(users *mocks.MockUserRepository, referrals *mocks.MockReferralRepository, membership *mocks.MockMembershipChecker) {
				referrals.On("GetReferralByReferee", mock.Anything, refereeID).
					Return(&model.Referral{RefereeID: refereeID, ReferrerID: referrerID}, nil)
				membership.On("IsMember", mock.Anything, refereeID).Return(false, nil)
				referrals.On("UpsertChannelFollow", mock.Anything, refereeID, false).Return(nil)
			},
			checkCalls: func(t *testing.T, users *mocks.MockUserRepository, referrals *mocks.MockReferralRepository) {
				users.AssertNotCalled(t, "GrantUnlimited", mock.Anything, mock.Anything)
			},
		},
		{
			name: "joined but no download yet stops",
			mockSetup: func(users *mocks.MockUserRepository, referrals *mocks.MockReferralRepository, membership *mocks.MockMembershipChecker) {
				referrals.On("GetReferralByReferee", mock.Anything, refereeID).
					Return(&model.Referral{RefereeID: refereeID, ReferrerID: referrerID}, nil)
				membership.On("IsMember", mock.Anything, refereeID).Return(true, nil)
				referrals.On("UpsertChannelFollow", mock.Anything, refereeID, true).Return(nil)
				users.On("GetUser", mock.Anything, refereeID).
					Return(&model.User{UserID: refereeID, DownloadCount: 0}, nil)
			},
			checkCalls: func(t *testing.T, users *mocks.MockUserRepository, referrals *mocks.MockReferralRepository) {
				referrals.AssertNotCalled(t, "MarkReferralVerified", mock.Anything, mock.Anything)
				users.AssertNotCalled(t, "GrantUnlimited", mock.Anything, mock.Anything)
			},
		},
		{
			name: "preconditions met grants the referrer",
			mockSetup: func(users *mocks.MockUserRepository, referrals *mocks.MockReferralRepository, membership *mocks.MockMembershipChecker) {
				referrals.On("GetReferralByReferee", mock.Anything, refereeID).
					Return(&model.Referral{RefereeID: refereeID, ReferrerID: referrerID}, nil)
				membership.On("IsMember", mock.Anything, refereeID).Return(true, nil)
				referrals.On("UpsertChannelFollow", mock.Anything, refereeID, true).Return(nil)
				users.On("GetUser", mock.Anything, refereeID).
					Return(&model.User{UserID: refereeID, DownloadCount: 1}, nil)
				referrals.On("MarkReferralVerified", mock.Anything, refereeID).Return(nil)
				users.On("GrantUnlimited", mock.Anything, referrerID).Return(nil)
			},
			expectedGranted: referrerID,
			checkCalls: func(t *testing.T, users *mocks.MockUserRepository, referrals *mocks.MockReferralRepository) {
				// The referee keeps their own quota: unlimited goes to the
				// referrer only.
				users.AssertNotCalled(t, "GrantUnlimited", mock.Anything, refereeID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mocks.MockUserRepository{}
			referrals := &mocks.MockReferralRepository{}
			membership := &mocks.MockMembershipChecker{}
			svc := NewReferralService(users, referrals, membership)

			tt.mockSetup(users, referrals, membership)

			granted, err := svc.TryVerify(context.Background(), refereeID)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedGranted, granted)
			if tt.checkCalls != nil {
				tt.checkCalls(t, users, referrals)
			}
			referrals.AssertExpectations(t)
			users.AssertExpectations(t)
			membership.AssertExpectations(t)
		})
	}
}

func TestReferralService_Progress(t *testing.T) {
	users := &mocks.MockUserRepository{}
	referrals := &mocks.MockReferralRepository{}
	membership := &mocks.MockMembershipChecker{}
	svc := NewReferralService(users, referrals, membership)

	referrals.On("CountVerifiedReferrals", mock.Anything, int64(100)).Return(2, nil)
	membership.On("IsMember", mock.Anything, int64(100)).Return(true, nil)
	referrals.On("UpsertChannelFollow", mock.Anything, int64(100), true).Return(nil)
	users.On("GetUser", mock.Anything, int64(100)).
		Return(&model.User{UserID: 100, Unlimited: true}, nil)

	progress, err := svc.Progress(context.Background(), 100)

	assert.NoError(t, err)
	assert.Equal(t, 2, progress.VerifiedReferrals)
	assert.True(t, progress.ChannelJoined)
	assert.True(t, progress.Unlimited)
}
