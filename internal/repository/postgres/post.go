package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/MemeBoard/board-service/internal/model"
	"github.com/jackc/pgx/v5"
)

const postColumns = "p.id, p.title, p.description, p.author, p.author_ip, p.media_url, p.media_type, p.likes, p.created_at"

type postRepo struct {
	db DB
}

func newPostRepo(db DB) Post {
	return &postRepo{
		db: db,
	}
}

func scanPost(row pgx.Row, post *model.Post, extra ...any) error {
	dest := []any{
		&post.ID,
		&post.Title,
		&post.Description,
		&post.Author,
		&post.AuthorIP,
		&post.MediaURL,
		&post.MediaType,
		&post.Likes,
		&post.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO posts(title, description, author, author_ip, media_url, media_type)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id, likes, created_at`,
		post.Title,
		post.Description,
		post.Author,
		post.AuthorIP,
		post.MediaURL,
		post.MediaType,
	).Scan(&post.ID, &post.Likes, &post.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	if err := scanPost(r.db.QueryRow(ctx, "SELECT "+postColumns+" FROM posts p WHERE p.id = $1", id), &post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select post(%d): %w", id, err)
	}

	return &post, nil
}

func (r *postRepo) FindFullByID(ctx context.Context, id int64, viewerIP string) (*model.FullPost, error) {
	var post model.FullPost
	if err := scanPost(
		r.db.QueryRow(
			ctx,
			`SELECT `+postColumns+`,
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
			EXISTS(SELECT 1 FROM likes_log l WHERE l.post_id = p.id AND l.ip_address = $2) AS has_liked
			FROM posts p
			WHERE p.id = $1`,
			id,
			viewerIP,
		),
		&post.Post,
		&post.CommentsCount,
		&post.HasLiked,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select full post(%d): %w", id, err)
	}

	return &post, nil
}

func (r *postRepo) FindAll(ctx context.Context, viewerIP string) ([]*model.FullPost, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+postColumns+`,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
		EXISTS(SELECT 1 FROM likes_log l WHERE l.post_id = p.id AND l.ip_address = $1) AS has_liked
		FROM posts p
		ORDER BY p.created_at DESC, p.id ASC`,
		viewerIP,
	)
	if err != nil {
		return nil, fmt.Errorf("select feed: %w", err)
	}
	defer rows.Close()

	posts := []*model.FullPost{}
	for rows.Next() {
		var post model.FullPost
		if err := scanPost(rows, &post.Post, &post.CommentsCount, &post.HasLiked); err != nil {
			return nil, fmt.Errorf("scan feed post: %w", err)
		}

		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed: %w", err)
	}

	return posts, nil
}

func (r *postRepo) FindTrending(ctx context.Context, limit int) ([]*model.TrendingPost, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT p.id, p.title, p.author, p.media_url, p.media_type, p.likes
		FROM posts p
		ORDER BY p.likes DESC, p.created_at DESC, p.id ASC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select trending: %w", err)
	}
	defer rows.Close()

	posts := []*model.TrendingPost{}
	for rows.Next() {
		var post model.TrendingPost
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Author,
			&post.MediaURL,
			&post.MediaType,
			&post.Likes,
		); err != nil {
			return nil, fmt.Errorf("scan trending post: %w", err)
		}

		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trending: %w", err)
	}

	return posts, nil
}

// Update rewrites the editable columns. author, author_ip and likes are never touched.
func (r *postRepo) Update(ctx context.Context, post model.Post) (*model.Post, error) {
	var updated model.Post
	if err := scanPost(
		r.db.QueryRow(
			ctx,
			`UPDATE posts p SET title = $2, description = $3, media_url = $4, media_type = $5
			WHERE p.id = $1
			RETURNING `+postColumns,
			post.ID,
			post.Title,
			post.Description,
			post.MediaURL,
			post.MediaType,
		),
		&updated,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update post(%d): %w", post.ID, err)
	}

	return &updated, nil
}

// Delete removes the post. Comments and likes_log rows go with it through ON DELETE CASCADE.
func (r *postRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete post(%d): %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
