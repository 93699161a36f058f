package repository

import (
	"context"
	"fmt"

	"nextgen_download_bot/pkg/logger"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateReferral = errors.New("referral already exists for referee")
	ErrSelfReferral      = errors.New("self referral")
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id        INTEGER PRIMARY KEY,
	username       TEXT NOT NULL DEFAULT '',
	first_name     TEXT NOT NULL DEFAULT '',
	download_count INTEGER NOT NULL DEFAULT 0,
	unlimited      BOOLEAN NOT NULL DEFAULT FALSE,
	joined_at      DATETIME NOT NULL,
	last_active_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS referrals (
	referee_id  INTEGER PRIMARY KEY REFERENCES users (user_id),
	referrer_id INTEGER NOT NULL REFERENCES users (user_id),
	verified    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  DATETIME NOT NULL,
	CHECK (referrer_id <> referee_id)
);

CREATE INDEX IF NOT EXISTS idx_referrals_referrer ON referrals (referrer_id);

CREATE TABLE IF NOT EXISTS channel_follows (
	user_id        INTEGER PRIMARY KEY REFERENCES users (user_id),
	channel_joined BOOLEAN NOT NULL DEFAULT FALSE,
	checked_at     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS downloads (
	id            TEXT PRIMARY KEY,
	user_id       INTEGER NOT NULL REFERENCES users (user_id),
	platform      TEXT NOT NULL,
	url           TEXT NOT NULL,
	success       BOOLEAN NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	metadata      TEXT NOT NULL DEFAULT '',
	created_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_downloads_user ON downloads (user_id);
`

type Config struct {
	Path string `json:"path"`
}

type Repository struct {
	db *sqlx.DB
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	err = t(tx)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return errors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}
	return tx.Commit()
}

func New(cfg Config) (*Repository, error) {
	db, err := sqlx.Connect("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows exactly one writer; a single pooled connection keeps
	// interleaved sessions serialized and also makes :memory: databases
	// behave in tests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	logger.Logger().Info("connected to database", zap.String("path", cfg.Path))

	return &Repository{db: db}, nil
}
