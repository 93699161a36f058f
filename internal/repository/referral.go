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

type Referral struct {
	RefereeID  int64     `db:"referee_id"`
	ReferrerID int64     `db:"referrer_id"`
	Verified   bool      `db:"verified"`
	CreatedAt  time.Time `db:"created_at"`
}

// CreateReferral records that referee joined via referrer's link. Both users
// must already exist; a referee can be referred at most once.
func (r *Repository) CreateReferral(ctx context.Context, referrerID, refereeID int64) error {
	if referrerID == refereeID {
		return ErrSelfReferral
	}

	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		for _, id := range []int64{referrerID, refereeID} {
			if _, err := r.getUserWithTx(ctx, tx, id); err != nil {
				return err
			}
		}

		existsQuery, existsArgs, err := squirrel.
			Select("referee_id").
			From("referrals").
			Where(squirrel.Eq{"referee_id": refereeID}).
			ToSql()
		if err != nil {
			return err
		}
		var existing int64
		err = tx.GetContext(ctx, &existing, existsQuery, existsArgs...)
		if err == nil {
			return ErrDuplicateReferral
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		insertQuery, insertArgs, err := squirrel.
			Insert("referrals").
			SetMap(map[string]interface{}{
				"referee_id":  refereeID,
				"referrer_id": referrerID,
				"verified":    false,
				"created_at":  time.Now().UTC(),
			}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build referral insert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("failed to insert referral: %w", err)
		}
		return nil
	})
}

func (r *Repository) GetReferralByReferee(ctx context.Context, refereeID int64) (*model.Referral, error) {
	var ref Referral
	query, args, err := squirrel.
		Select("*").
		From("referrals").
		Where(squirrel.Eq{"referee_id": refereeID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &ref, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &model.Referral{
		RefereeID:  ref.RefereeID,
		ReferrerID: ref.ReferrerID,
		Verified:   ref.Verified,
		CreatedAt:  ref.CreatedAt,
	}, nil
}

// MarkReferralVerified is idempotent: verifying an already verified or
// absent referral is a no-op.
func (r *Repository) MarkReferralVerified(ctx context.Context, refereeID int64) error {
	query, args, err := squirrel.
		Update("referrals").
		Set("verified", true).
		Where(squirrel.Eq{"referee_id": refereeID}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark referral verified: %w", err)
	}
	return nil
}

func (r *Repository) CountVerifiedReferrals(ctx context.Context, referrerID int64) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("referrals").
		Where(squirrel.Eq{"referrer_id": referrerID, "verified": true}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count verified referrals: %w", err)
	}
	return count, nil
}
