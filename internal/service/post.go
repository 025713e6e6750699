package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/MemeBoard/board-service/internal/dto"
	"github.com/MemeBoard/board-service/internal/media"
	"github.com/MemeBoard/board-service/internal/model"
	"github.com/MemeBoard/board-service/internal/publisher"
	"github.com/MemeBoard/board-service/internal/repository"
	"github.com/MemeBoard/board-service/internal/repository/postgres"
	"github.com/MemeBoard/board-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type postService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	media     media.Storage
	publisher publisher.Publisher
	config    Config
}

func newPostService(logger *zap.Logger, repo *repository.Repository, storage media.Storage, publisher publisher.Publisher, cfg Config) Post {
	return &postService{
		logger:    logger,
		repo:      repo,
		media:     storage,
		publisher: publisher,
		config:    cfg,
	}
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MAX_TITLE_LENGTH {
		return ErrTitleTooLong
	}
	return nil
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *postService) Create(ctx context.Context, authorIP string, input dto.CreatePostRequest) (*model.Post, error) {
	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	author := strings.TrimSpace(input.Author)
	if author == "" {
		author = model.DefaultAuthor
	}
	if utf8.RuneCountInString(author) > MAX_AUTHOR_LENGTH {
		return nil, ErrAuthorTooLong
	}

	post := model.Post{
		Title:       title,
		Description: optionalText(input.Description),
		Author:      author,
		AuthorIP:    authorIP,
	}

	if input.Media != nil {
		url, mediaType, err := s.storeMedia(ctx, input.Media)
		if err != nil {
			return nil, err
		}
		post.MediaURL = &url
		post.MediaType = &mediaType
	}

	createdPost, err := s.repo.Postgres.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create post from %s: %s", authorIP, err.Error())
		s.releaseMedia(ctx, post.MediaURL)
		return nil, ErrInternal
	}

	invalidateTrending(ctx, s.logger, s.repo)

	if err := s.publisher.PublishPostCreated(dto.MQPostCreatedMsg{
		PostID:    createdPost.ID,
		PostTitle: createdPost.Title,
		Author:    createdPost.Author,
		CreatedAt: createdPost.CreatedAt,
	}); err != nil {
		s.logger.Sugar().Errorf("failed to publish post(%d) created event: %s", createdPost.ID, err.Error())
	}

	return createdPost, nil
}

func (s *postService) FindAll(ctx context.Context, viewerIP string) ([]*model.FullPost, error) {
	posts, err := s.repo.Postgres.Post.FindAll(ctx, viewerIP)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find feed for %s: %s", viewerIP, err.Error())
		return nil, ErrInternal
	}

	for _, post := range posts {
		post.IsMine = post.AuthorIP == viewerIP
	}

	return posts, nil
}

func (s *postService) FindByID(ctx context.Context, id int64, viewerIP string) (*dto.GetPost, error) {
	post, err := s.repo.Postgres.Post.FindFullByID(ctx, id, viewerIP)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d): %s", id, err.Error())
		return nil, ErrInternal
	}
	post.IsMine = post.AuthorIP == viewerIP

	comments, err := s.repo.Postgres.Comment.FindAllPostComments(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d) comments: %s", id, err.Error())
		return nil, ErrInternal
	}

	return &dto.GetPost{
		Post:     *post,
		Comments: viewComments(comments, viewerIP),
	}, nil
}

func (s *postService) FindTrending(ctx context.Context, limit int) ([]*model.TrendingPost, error) {
	if limit <= 0 {
		limit = DEFAULT_TRENDING_LIMIT
	}
	if limit > MAX_TRENDING_LIMIT {
		limit = MAX_TRENDING_LIMIT
	}

	cachedPosts, err := redisrepo.GetMany[model.TrendingPost](s.repo.Redis.Default, ctx, redisrepo.TrendingPostsKey())
	if err == nil && cachedPosts != nil {
		return firstN(cachedPosts, limit), nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get trending posts from redis: %s", err.Error())
	}

	// The generation is read before postgres so a write that lands in between
	// invalidates this fill instead of being hidden by it.
	version, versionErr := s.repo.Redis.Default.Version(ctx, redisrepo.TrendingPostsVersionKey())
	if versionErr != nil {
		s.logger.Sugar().Errorf("failed to get trending posts version from redis: %s", versionErr.Error())
	}

	posts, err := s.repo.Postgres.Post.FindTrending(ctx, MAX_TRENDING_LIMIT)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find trending posts from postgres: %s", err.Error())
		return nil, ErrInternal
	}

	if versionErr == nil {
		if _, err := s.repo.Redis.Default.SetJSONIfVersion(
			ctx,
			redisrepo.TrendingPostsKey(),
			posts,
			s.config.TrendingCacheTTL,
			redisrepo.TrendingPostsVersionKey(),
			version,
		); err != nil {
			s.logger.Sugar().Errorf("failed to set trending posts in redis: %s", err.Error())
		}
	}

	return firstN(posts, limit), nil
}

func firstN[T any](items []*T, n int) []*T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func (s *postService) findOwnedPost(ctx context.Context, id int64, actorIP string) (*model.Post, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d): %s", id, err.Error())
		return nil, ErrInternal
	}

	if post.AuthorIP != actorIP {
		return nil, ErrForbidden
	}

	return post, nil
}

func (s *postService) Edit(ctx context.Context, id int64, actorIP string, input dto.EditPostRequest) (*model.Post, error) {
	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if input.Media != nil {
		if _, _, err := validateMedia(input.Media, s.config.MaxMediaSize); err != nil {
			return nil, err
		}
	}

	post, err := s.findOwnedPost(ctx, id, actorIP)
	if err != nil {
		return nil, err
	}

	edited := *post
	edited.Title = title
	edited.Description = optionalText(input.Description)

	var (
		storedURL   *string
		releasedURL *string
	)
	if input.Media != nil {
		url, mediaType, err := s.storeMedia(ctx, input.Media)
		if err != nil {
			return nil, err
		}
		storedURL = &url
		releasedURL = post.MediaURL
		edited.MediaURL = &url
		edited.MediaType = &mediaType
	} else if input.RemoveMedia {
		releasedURL = post.MediaURL
		edited.MediaURL = nil
		edited.MediaType = nil
	}

	updatedPost, err := s.repo.Postgres.Post.Update(ctx, edited)
	if err != nil {
		s.releaseMedia(ctx, storedURL)
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to update post(%d): %s", id, err.Error())
		return nil, ErrInternal
	}

	s.releaseMedia(ctx, releasedURL)
	invalidateTrending(ctx, s.logger, s.repo)

	return updatedPost, nil
}

func (s *postService) Delete(ctx context.Context, id int64, actorIP string) error {
	post, err := s.findOwnedPost(ctx, id, actorIP)
	if err != nil {
		return err
	}

	if err := s.repo.Postgres.Post.Delete(ctx, id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to delete post(%d): %s", id, err.Error())
		return ErrInternal
	}

	s.releaseMedia(ctx, post.MediaURL)
	invalidateTrending(ctx, s.logger, s.repo)

	if err := s.publisher.PublishPostDeleted(dto.MQPostDeletedMsg{PostID: id}); err != nil {
		s.logger.Sugar().Errorf("failed to publish post(%d) deleted event: %s", id, err.Error())
	}

	return nil
}

func invalidateTrending(ctx context.Context, logger *zap.Logger, repo *repository.Repository) {
	if err := repo.Redis.Default.Invalidate(ctx, redisrepo.TrendingPostsKey(), redisrepo.TrendingPostsVersionKey()); err != nil {
		logger.Sugar().Errorf("failed to delete trending posts from redis: %s", err.Error())
	}
}
