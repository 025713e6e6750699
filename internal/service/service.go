package service

import (
	"context"
	"time"

	"github.com/MemeBoard/board-service/internal/dto"
	"github.com/MemeBoard/board-service/internal/media"
	"github.com/MemeBoard/board-service/internal/model"
	"github.com/MemeBoard/board-service/internal/publisher"
	"github.com/MemeBoard/board-service/internal/repository"
	"go.uber.org/zap"
)

const (
	DEFAULT_COMMENTS_LIMIT = 15
	MAX_COMMENTS_LIMIT     = 100
	DEFAULT_TRENDING_LIMIT = 5
	MAX_TRENDING_LIMIT     = 20

	MAX_TITLE_LENGTH  = 255
	MAX_AUTHOR_LENGTH = 100

	DEFAULT_MAX_MEDIA_SIZE = 30 << 20
)

type Config struct {
	MaxMediaSize     int64
	TrendingCacheTTL time.Duration
}

type Post interface {
	Create(ctx context.Context, authorIP string, input dto.CreatePostRequest) (*model.Post, error)
	FindAll(ctx context.Context, viewerIP string) ([]*model.FullPost, error)
	FindByID(ctx context.Context, id int64, viewerIP string) (*dto.GetPost, error)
	FindTrending(ctx context.Context, limit int) ([]*model.TrendingPost, error)
	Edit(ctx context.Context, id int64, actorIP string, input dto.EditPostRequest) (*model.Post, error)
	Delete(ctx context.Context, id int64, actorIP string) error
}

type Comment interface {
	Create(ctx context.Context, postID int64, authorIP string, input dto.CreateCommentRequest) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64, viewerIP string, page int, limit int) (*dto.GetComments, error)
	Edit(ctx context.Context, id int64, actorIP string, input dto.EditCommentRequest) (*model.Comment, error)
	Delete(ctx context.Context, id int64, actorIP string) error
}

type Like interface {
	Toggle(ctx context.Context, postID int64, voterIP string) (*model.LikeToggle, error)
	IsLiked(ctx context.Context, postID int64, voterIP string) (bool, error)
}

type Service struct {
	Post
	Comment
	Like
}

func New(logger *zap.Logger, repo *repository.Repository, storage media.Storage, publisher publisher.Publisher, cfg Config) *Service {
	if cfg.MaxMediaSize <= 0 {
		cfg.MaxMediaSize = DEFAULT_MAX_MEDIA_SIZE
	}

	return &Service{
		Post:    newPostService(logger, repo, storage, publisher, cfg),
		Comment: newCommentService(logger, repo, publisher),
		Like:    newLikeService(logger, repo, publisher),
	}
}
