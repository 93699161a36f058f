package model

import "time"

type User struct {
	UserID        int64
	Username      string
	FirstName     string
	DownloadCount int
	Unlimited     bool
	JoinedAt      time.Time
	LastActiveAt  time.Time
}
