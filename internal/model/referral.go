package model

import "time"

// Referral links a referee to the one user who invited them. A referee has
// at most one referral; verified never reverts to false once set.
type Referral struct {
	RefereeID  int64
	ReferrerID int64
	Verified   bool
	CreatedAt  time.Time
}

// ChannelFollow records the last known result of a live membership check
// against the required channel.
type ChannelFollow struct {
	UserID        int64
	ChannelJoined bool
	CheckedAt     time.Time
}

// ReferralProgress is the snapshot shown by /referral and /verify.
type ReferralProgress struct {
	VerifiedReferrals int
	ChannelJoined     bool
	Unlimited         bool
}
