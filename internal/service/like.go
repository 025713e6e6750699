package service

import (
	"context"
	"errors"

	"github.com/MemeBoard/board-service/internal/dto"
	"github.com/MemeBoard/board-service/internal/model"
	"github.com/MemeBoard/board-service/internal/publisher"
	"github.com/MemeBoard/board-service/internal/repository"
	"github.com/MemeBoard/board-service/internal/repository/postgres"
	"go.uber.org/zap"
)

type likeService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	publisher publisher.Publisher
}

func newLikeService(logger *zap.Logger, repo *repository.Repository, publisher publisher.Publisher) Like {
	return &likeService{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
	}
}

// Toggle is not a set operation: calling it twice from the same voter likes then unlikes.
func (s *likeService) Toggle(ctx context.Context, postID int64, voterIP string) (*model.LikeToggle, error) {
	toggle, err := s.repo.Postgres.Like.Toggle(ctx, postID, voterIP)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to toggle like on post(%d) from %s: %s", postID, voterIP, err.Error())
		return nil, ErrInternal
	}

	invalidateTrending(ctx, s.logger, s.repo)

	if err := s.publisher.PublishPostLiked(dto.MQPostLikedMsg{
		PostID: toggle.PostID,
		Liked:  toggle.Liked,
		Likes:  toggle.Likes,
	}); err != nil {
		s.logger.Sugar().Errorf("failed to publish post(%d) liked event: %s", postID, err.Error())
	}

	return toggle, nil
}

func (s *likeService) IsLiked(ctx context.Context, postID int64, voterIP string) (bool, error) {
	liked, err := s.repo.Postgres.Like.IsLiked(ctx, postID, voterIP)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check like on post(%d) from %s: %s", postID, voterIP, err.Error())
		return false, ErrInternal
	}

	return liked, nil
}
