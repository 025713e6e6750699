package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/MemeBoard/board-service/internal/model"
	"github.com/jackc/pgx/v5"
)

const commentColumns = "c.id, c.post_id, c.author_ip, c.content, c.created_at"

type commentRepo struct {
	db DB
}

func newCommentRepo(db DB) Comment {
	return &commentRepo{
		db: db,
	}
}

func scanComment(row pgx.Row, comment *model.Comment) error {
	return row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorIP,
		&comment.Content,
		&comment.CreatedAt,
	)
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO comments(post_id, author_ip, content) VALUES($1, $2, $3) RETURNING id, created_at",
		comment.PostID,
		comment.AuthorIP,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt); err != nil {
		if isPgError(err, foreignKeyViolation) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	return &comment, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := scanComment(r.db.QueryRow(ctx, "SELECT "+commentColumns+" FROM comments c WHERE c.id = $1", id), &comment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select comment(%d): %w", id, err)
	}

	return &comment, nil
}

func (r *commentRepo) FindAllPostComments(ctx context.Context, postID int64) ([]*model.Comment, error) {
	rows, err := r.db.Query(
		ctx,
		"SELECT "+commentColumns+" FROM comments c WHERE c.post_id = $1 ORDER BY c.created_at ASC, c.id ASC",
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("select post(%d) comments: %w", postID, err)
	}

	return collectComments(rows)
}

func (r *commentRepo) FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.Comment, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+commentColumns+`
		FROM comments c
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC
		LIMIT $2
		OFFSET $3`,
		postID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("select post(%d) comments page: %w", postID, err)
	}

	return collectComments(rows)
}

func collectComments(rows pgx.Rows) ([]*model.Comment, error) {
	defer rows.Close()

	comments := []*model.Comment{}
	for rows.Next() {
		var comment model.Comment
		if err := scanComment(rows, &comment); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}

		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

func (r *commentRepo) CountPostComments(ctx context.Context, postID int64) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM comments WHERE post_id = $1", postID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count post(%d) comments: %w", postID, err)
	}

	return total, nil
}

func (r *commentRepo) UpdateContent(ctx context.Context, id int64, content string) (*model.Comment, error) {
	var comment model.Comment
	if err := scanComment(
		r.db.QueryRow(ctx, "UPDATE comments c SET content = $2 WHERE c.id = $1 RETURNING "+commentColumns, id, content),
		&comment,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update comment(%d): %w", id, err)
	}

	return &comment, nil
}

func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete comment(%d): %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
