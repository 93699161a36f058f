package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nextgen_download_bot/internal/model"

	"github.com/Masterminds/squirrel"
)

type ChannelFollow struct {
	UserID        int64     `db:"user_id"`
	ChannelJoined bool      `db:"channel_joined"`
	CheckedAt     time.Time `db:"checked_at"`
}

// UpsertChannelFollow stores the outcome of a live membership check.
// checked_at is refreshed on every call, joined or not.
func (r *Repository) UpsertChannelFollow(ctx context.Context, userID int64, joined bool) error {
	query, args, err := squirrel.
		Insert("channel_follows").
		SetMap(map[string]interface{}{
			"user_id":        userID,
			"channel_joined": joined,
			"checked_at":     time.Now().UTC(),
		}).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET channel_joined = excluded.channel_joined, checked_at = excluded.checked_at").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert channel follow: %w", err)
	}
	return nil
}

func (r *Repository) GetChannelFollow(ctx context.Context, userID int64) (*model.ChannelFollow, error) {
	var follow ChannelFollow
	query, args, err := squirrel.
		Select("*").
		From("channel_follows").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &follow, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &model.ChannelFollow{
		UserID:        follow.UserID,
		ChannelJoined: follow.ChannelJoined,
		CheckedAt:     follow.CheckedAt,
	}, nil
}
