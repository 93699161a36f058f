package model

import "time"

// Media is what a downloader collaborator extracted for a URL.
type Media struct {
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Uploader  string `json:"uploader,omitempty"`
	Duration  int    `json:"duration,omitempty"`
	// Source names the downloader that produced the result.
	Source string `json:"source,omitempty"`
}

// Download is one entry in the download history log.
type Download struct {
	ID        string
	UserID    int64
	Platform  string
	URL       string
	Success   bool
	Error     string
	Media     *Media
	CreatedAt time.Time
}

type UserStats struct {
	TotalDownloads      int
	SuccessfulDownloads int
	PlatformsUsed       int
}

type PlatformCount struct {
	Platform string
	Count    int
}

type AdminStats struct {
	TotalUsers          int
	UnlimitedUsers      int
	TotalDownloads      int
	SuccessfulDownloads int
	VerifiedReferrals   int
	TopPlatforms        []PlatformCount
}
