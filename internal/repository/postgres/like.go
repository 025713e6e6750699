package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/MemeBoard/board-service/internal/model"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type likeRepo struct {
	db     DB
	logger *zap.Logger
}

func newLikeRepo(db DB, logger *zap.Logger) Like {
	return &likeRepo{
		db:     db,
		logger: logger,
	}
}

// Toggle flips the (post, ip) ledger entry and moves posts.likes by the same
// delta in one transaction. The post row is locked first, so toggles on one
// post are serialized and each call observes the previous call's outcome.
func (r *likeRepo) Toggle(ctx context.Context, postID int64, ip string) (*model.LikeToggle, error) {
	toggle := model.LikeToggle{PostID: postID}

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var lockedID int64
		if err := tx.QueryRow(ctx, "SELECT id FROM posts WHERE id = $1 FOR UPDATE", postID).Scan(&lockedID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock post(%d): %w", postID, err)
		}

		tag, err := tx.Exec(ctx, "DELETE FROM likes_log WHERE post_id = $1 AND ip_address = $2", postID, ip)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}

		delta := int64(-1)
		if tag.RowsAffected() == 0 {
			if _, err := tx.Exec(ctx, "INSERT INTO likes_log(post_id, ip_address) VALUES($1, $2)", postID, ip); err != nil {
				if isPgError(err, uniqueViolation) {
					r.logger.Sugar().Warnf("duplicate like for post(%d) from %s rejected by primary key", postID, ip)
				}
				return fmt.Errorf("insert like: %w", err)
			}
			delta = 1
			toggle.Liked = true
		}

		if err := tx.QueryRow(
			ctx,
			"UPDATE posts SET likes = likes + $2 WHERE id = $1 RETURNING likes",
			postID,
			delta,
		).Scan(&toggle.Likes); err != nil {
			return fmt.Errorf("update post(%d) likes: %w", postID, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &toggle, nil
}

func (r *likeRepo) IsLiked(ctx context.Context, postID int64, ip string) (bool, error) {
	var liked bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM likes_log WHERE post_id = $1 AND ip_address = $2)",
		postID,
		ip,
	).Scan(&liked); err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}

	return liked, nil
}
