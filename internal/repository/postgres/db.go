package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/MemeBoard/board-service/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect builds the shared pool. Connections are opened lazily on first use.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	params := poolConfig.ConnConfig.RuntimeParams
	setTimeoutParam(params, "statement_timeout", cfg.StatementTimeout)
	setTimeoutParam(params, "lock_timeout", cfg.LockTimeout)
	setTimeoutParam(params, "idle_in_transaction_session_timeout", cfg.IdleInTransactionTimeout)
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return pool, nil
}

var _ DB = (*pgxpool.Pool)(nil)

func setTimeoutParam(params map[string]string, name string, d time.Duration) {
	if d <= 0 {
		return
	}
	params[name] = strconv.FormatInt(d.Milliseconds(), 10)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		author VARCHAR(100) NOT NULL DEFAULT 'Anonymous',
		author_ip VARCHAR(45) NOT NULL,
		media_url TEXT,
		media_type VARCHAR(10) CHECK (media_type IN ('image', 'video')),
		likes BIGINT NOT NULL DEFAULT 0 CHECK (likes >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS posts_feed_idx ON posts (created_at DESC, id ASC)`,
	`CREATE INDEX IF NOT EXISTS posts_likes_idx ON posts (likes DESC)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id BIGSERIAL PRIMARY KEY,
		post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		author_ip VARCHAR(45) NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS comments_post_idx ON comments (post_id, created_at ASC, id ASC)`,
	`CREATE TABLE IF NOT EXISTS likes_log (
		post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		ip_address VARCHAR(45) NOT NULL,
		liked_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (post_id, ip_address)
	)`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}
