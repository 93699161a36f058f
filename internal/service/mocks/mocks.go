// Package mocks holds testify mocks for the service-layer interfaces,
// in the shape mockery generates: Return accepts either plain values or a
// function with the mocked method's signature.
package mocks

import (
	"context"

	"nextgen_download_bot/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetOrCreateUser(ctx context.Context, userID int64, username, firstName string) (*model.User, error) {
	ret := m.Called(ctx, userID, username, firstName)
	if rf, ok := ret.Get(0).(func(context.Context, int64, string, string) (*model.User, error)); ok {
		return rf(ctx, userID, username, firstName)
	}
	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	ret := m.Called(ctx, userID)
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.User, error)); ok {
		return rf(ctx, userID)
	}
	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

func (m *MockUserRepository) IncrementDownloadCount(ctx context.Context, userID int64, limit int) error {
	ret := m.Called(ctx, userID, limit)
	if rf, ok := ret.Get(0).(func(context.Context, int64, int) error); ok {
		return rf(ctx, userID, limit)
	}
	return ret.Error(0)
}

func (m *MockUserRepository) GrantUnlimited(ctx context.Context, userID int64) error {
	ret := m.Called(ctx, userID)
	if rf, ok := ret.Get(0).(func(context.Context, int64) error); ok {
		return rf(ctx, userID)
	}
	return ret.Error(0)
}

type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) CreateReferral(ctx context.Context, referrerID, refereeID int64) error {
	ret := m.Called(ctx, referrerID, refereeID)
	if rf, ok := ret.Get(0).(func(context.Context, int64, int64) error); ok {
		return rf(ctx, referrerID, refereeID)
	}
	return ret.Error(0)
}

func (m *MockReferralRepository) GetReferralByReferee(ctx context.Context, refereeID int64) (*model.Referral, error) {
	ret := m.Called(ctx, refereeID)
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.Referral, error)); ok {
		return rf(ctx, refereeID)
	}
	var r0 *model.Referral
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Referral)
	}
	return r0, ret.Error(1)
}

func (m *MockReferralRepository) MarkReferralVerified(ctx context.Context, refereeID int64) error {
	ret := m.Called(ctx, refereeID)
	if rf, ok := ret.Get(0).(func(context.Context, int64) error); ok {
		return rf(ctx, refereeID)
	}
	return ret.Error(0)
}

func (m *MockReferralRepository) CountVerifiedReferrals(ctx context.Context, referrerID int64) (int, error) {
	ret := m.Called(ctx, referrerID)
	if rf, ok := ret.Get(0).(func(context.Context, int64) (int, error)); ok {
		return rf(ctx, referrerID)
	}
	return ret.Int(0), ret.Error(1)
}

func (m *MockReferralRepository) UpsertChannelFollow(ctx context.Context, userID int64, joined bool) error {
	ret := m.Called(ctx, userID, joined)
	if rf, ok := ret.Get(0).(func(context.Context, int64, bool) error); ok {
		return rf(ctx, userID, joined)
	}
	return ret.Error(0)
}

func (m *MockReferralRepository) GetChannelFollow(ctx context.Context, userID int64) (*model.ChannelFollow, error) {
	ret := m.Called(ctx, userID)
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.ChannelFollow, error)); ok {
		return rf(ctx, userID)
	}
	var r0 *model.ChannelFollow
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.ChannelFollow)
	}
	return r0, ret.Error(1)
}

type MockDownloadRepository struct {
	mock.Mock
}

func (m *MockDownloadRepository) LogDownload(ctx context.Context, dl *model.Download) error {
	ret := m.Called(ctx, dl)
	if rf, ok := ret.Get(0).(func(context.Context, *model.Download) error); ok {
		return rf(ctx, dl)
	}
	return ret.Error(0)
}

func (m *MockDownloadRepository) GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	ret := m.Called(ctx, userID)
	var r0 *model.UserStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.UserStats)
	}
	return r0, ret.Error(1)
}

func (m *MockDownloadRepository) GetAdminStats(ctx context.Context) (*model.AdminStats, error) {
	ret := m.Called(ctx)
	var r0 *model.AdminStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.AdminStats)
	}
	return r0, ret.Error(1)
}

type MockMembershipChecker struct {
	mock.Mock
}

func (m *MockMembershipChecker) IsMember(ctx context.Context, userID int64) (bool, error) {
	ret := m.Called(ctx, userID)
	if rf, ok := ret.Get(0).(func(context.Context, int64) (bool, error)); ok {
		return rf(ctx, userID)
	}
	return ret.Bool(0), ret.Error(1)
}

type MockReferralVerifier struct {
	mock.Mock
}

func (m *MockReferralVerifier) TryVerify(ctx context.Context, refereeID int64) (int64, error) {
	ret := m.Called(ctx, refereeID)
	if rf, ok := ret.Get(0).(func(context.Context, int64) (int64, error)); ok {
		return rf(ctx, refereeID)
	}
	return ret.Get(0).(int64), ret.Error(1)
}
