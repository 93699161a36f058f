package service

import (
	"context"
	"fmt"

	"nextgen_download_bot/internal/model"
)

// StatsService serves the /stats and admin statistics surfaces.
type StatsService struct {
	downloads DownloadRepository
}

func NewStatsService(downloads DownloadRepository) *StatsService {
	return &StatsService{downloads: downloads}
}

func (s *StatsService) UserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	stats, err := s.downloads.GetUserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return stats, nil
}

func (s *StatsService) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	stats, err := s.downloads.GetAdminStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin stats: %w", err)
	}
	return stats, nil
}
