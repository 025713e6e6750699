package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/MemeBoard/board-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("record not found")

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// DB is the subset of *pgxpool.Pool used by the repositories.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id int64) (*model.Post, error)
	FindFullByID(ctx context.Context, id int64, viewerIP string) (*model.FullPost, error)
	FindAll(ctx context.Context, viewerIP string) ([]*model.FullPost, error)
	FindTrending(ctx context.Context, limit int) ([]*model.TrendingPost, error)
	Update(ctx context.Context, post model.Post) (*model.Post, error)
	Delete(ctx context.Context, id int64) error
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	FindAllPostComments(ctx context.Context, postID int64) ([]*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.Comment, error)
	CountPostComments(ctx context.Context, postID int64) (int64, error)
	UpdateContent(ctx context.Context, id int64, content string) (*model.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type Like interface {
	Toggle(ctx context.Context, postID int64, ip string) (*model.LikeToggle, error)
	IsLiked(ctx context.Context, postID int64, ip string) (bool, error)
}

type PostgresRepository struct {
	Post
	Comment
	Like
}

func New(db DB, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		Post:    newPostRepo(db),
		Comment: newCommentRepo(db),
		Like:    newLikeRepo(db, logger),
	}
}

// withTx runs fn inside a transaction, committing on success and rolling back otherwise.
func withTx(ctx context.Context, db DB, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
