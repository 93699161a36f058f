package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nextgen_download_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type User struct {
	UserID        int64     `db:"user_id"`
	Username      string    `db:"username"`
	FirstName     string    `db:"first_name"`
	DownloadCount int       `db:"download_count"`
	Unlimited     bool      `db:"unlimited"`
	JoinedAt      time.Time `db:"joined_at"`
	LastActiveAt  time.Time `db:"last_active_at"`
}

func (u *User) toModel() *model.User {
	return &model.User{
		UserID:        u.UserID,
		Username:      u.Username,
		FirstName:     u.FirstName,
		DownloadCount: u.DownloadCount,
		Unlimited:     u.Unlimited,
		JoinedAt:      u.JoinedAt,
		LastActiveAt:  u.LastActiveAt,
	}
}

// GetOrCreateUser returns the user, creating the row on first contact.
// For an existing user it refreshes username, first name and last_active_at.
func (r *Repository) GetOrCreateUser(ctx context.Context, userID int64, username, firstName string) (*model.User, error) {
	var out *model.User
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()

		user, err := r.getUserWithTx(ctx, tx, userID)
		if err == nil {
			updateQuery, updateArgs, err := squirrel.
				Update("users").
				Set("username", username).
				Set("first_name", firstName).
				Set("last_active_at", now).
				Where(squirrel.Eq{"user_id": userID}).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
				return fmt.Errorf("failed to touch user: %w", err)
			}
			user.Username = username
			user.FirstName = firstName
			user.LastActiveAt = now
			out = user
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		insertQuery, insertArgs, err := squirrel.
			Insert("users").
			SetMap(map[string]interface{}{
				"user_id":        userID,
				"username":       username,
				"first_name":     firstName,
				"download_count": 0,
				"unlimited":      false,
				"joined_at":      now,
				"last_active_at": now,
			}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build user insert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}

		out = &model.User{
			UserID:       userID,
			Username:     username,
			FirstName:    firstName,
			JoinedAt:     now,
			LastActiveAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) getUserWithTx(ctx context.Context, tx *sqlx.Tx, userID int64) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = tx.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

// IncrementDownloadCount adds one confirmed download and bumps
// last_active_at. The arithmetic lives inside the UPDATE so interleaved
// sessions cannot lose updates, and the WHERE clause re-checks the quota
// at write time: a free user's count never passes the limit even when two
// boundary requests were both admitted. A declined increment is a quiet
// no-op, the download itself was already delivered.
func (r *Repository) IncrementDownloadCount(ctx context.Context, userID int64, limit int) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Update("users").
			Set("download_count", squirrel.Expr("download_count + 1")).
			Set("last_active_at", time.Now().UTC()).
			Where(squirrel.And{
				squirrel.Eq{"user_id": userID},
				squirrel.Or{
					squirrel.Eq{"unlimited": true},
					squirrel.Lt{"download_count": limit},
				},
			}).
			ToSql()
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to increment download count: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			if _, err := r.getUserWithTx(ctx, tx, userID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GrantUnlimited is idempotent; unlimited is monotonic and never cleared.
func (r *Repository) GrantUnlimited(ctx context.Context, userID int64) error {
	query, args, err := squirrel.
		Update("users").
		Set("unlimited", true).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to grant unlimited access: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
