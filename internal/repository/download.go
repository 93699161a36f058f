package repository

import (
	"context"
	"fmt"
	"time"

	"nextgen_download_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
)

// LogDownload appends one attempt, successful or not, to the history log.
func (r *Repository) LogDownload(ctx context.Context, dl *model.Download) error {
	metadata := ""
	if dl.Media != nil {
		raw, err := json.Marshal(dl.Media)
		if err != nil {
			return fmt.Errorf("failed to marshal media metadata: %w", err)
		}
		metadata = string(raw)
	}

	createdAt := dl.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query, args, err := squirrel.
		Insert("downloads").
		SetMap(map[string]interface{}{
			"id":            dl.ID,
			"user_id":       dl.UserID,
			"platform":      dl.Platform,
			"url":           dl.URL,
			"success":       dl.Success,
			"error_message": dl.Error,
			"metadata":      metadata,
			"created_at":    createdAt,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build download insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to log download: %w", err)
	}
	return nil
}

func (r *Repository) GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	query, args, err := squirrel.
		Select(
			"COUNT(*) AS total",
			"COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0) AS successful",
			"COUNT(DISTINCT platform) AS platforms",
		).
		From("downloads").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row struct {
		Total      int `db:"total"`
		Successful int `db:"successful"`
		Platforms  int `db:"platforms"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get download stats: %w", err)
	}

	return &model.UserStats{
		TotalDownloads:      row.Total,
		SuccessfulDownloads: row.Successful,
		PlatformsUsed:       row.Platforms,
	}, nil
}

func (r *Repository) GetAdminStats(ctx context.Context) (*model.AdminStats, error) {
	stats := &model.AdminStats{}

	counts := []struct {
		dest  *int
		query squirrel.SelectBuilder
	}{
		{&stats.TotalUsers, squirrel.Select("COUNT(*)").From("users")},
		{&stats.UnlimitedUsers, squirrel.Select("COUNT(*)").From("users").Where(squirrel.Eq{"unlimited": true})},
		{&stats.TotalDownloads, squirrel.Select("COUNT(*)").From("downloads")},
		{&stats.SuccessfulDownloads, squirrel.Select("COUNT(*)").From("downloads").Where(squirrel.Eq{"success": true})},
		{&stats.VerifiedReferrals, squirrel.Select("COUNT(*)").From("referrals").Where(squirrel.Eq{"verified": true})},
	}
	for _, c := range counts {
		query, args, err := c.query.ToSql()
		if err != nil {
			return nil, err
		}
		if err := r.db.GetContext(ctx, c.dest, query, args...); err != nil {
			return nil, fmt.Errorf("failed to get admin stats: %w", err)
		}
	}

	topQuery, topArgs, err := squirrel.
		Select("platform", "COUNT(*) AS count").
		From("downloads").
		GroupBy("platform").
		OrderBy("count DESC").
		Limit(5).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Platform string `db:"platform"`
		Count    int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, topQuery, topArgs...); err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}
	for _, row := range rows {
		stats.TopPlatforms = append(stats.TopPlatforms, model.PlatformCount{
			Platform: row.Platform,
			Count:    row.Count,
		})
	}

	return stats, nil
}
