package service

import (
	"context"
	"errors"
	"strings"

	"github.com/MemeBoard/board-service/internal/dto"
	"github.com/MemeBoard/board-service/internal/model"
	"github.com/MemeBoard/board-service/internal/publisher"
	"github.com/MemeBoard/board-service/internal/repository"
	"github.com/MemeBoard/board-service/internal/repository/postgres"
	"go.uber.org/zap"
)

type commentService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	publisher publisher.Publisher
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, publisher publisher.Publisher) Comment {
	return &commentService{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
	}
}

func viewComments(comments []*model.Comment, viewerIP string) []*model.FullComment {
	views := make([]*model.FullComment, 0, len(comments))
	for _, comment := range comments {
		views = append(views, &model.FullComment{
			Comment: *comment,
			IsMine:  comment.AuthorIP == viewerIP,
		})
	}
	return views
}

func (s *commentService) Create(ctx context.Context, postID int64, authorIP string, input dto.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrContentRequired
	}

	createdComment, err := s.repo.Postgres.Comment.Create(ctx, model.Comment{
		PostID:   postID,
		AuthorIP: authorIP,
		Content:  content,
	})
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to create comment on post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	if err := s.publisher.PublishCommentAdded(dto.MQCommentAddedMsg{
		CommentID: createdComment.ID,
		PostID:    createdComment.PostID,
		Content:   createdComment.Content,
		CreatedAt: createdComment.CreatedAt,
	}); err != nil {
		s.logger.Sugar().Errorf("failed to publish comment(%d) added event: %s", createdComment.ID, err.Error())
	}

	return createdComment, nil
}

func (s *commentService) FindPostComments(ctx context.Context, postID int64, viewerIP string, page int, limit int) (*dto.GetComments, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DEFAULT_COMMENTS_LIMIT
	}
	if limit > MAX_COMMENTS_LIMIT {
		limit = MAX_COMMENTS_LIMIT
	}

	if _, err := s.repo.Postgres.Post.FindByID(ctx, postID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	total, err := s.repo.Postgres.Comment.CountPostComments(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count post(%d) comments: %s", postID, err.Error())
		return nil, ErrInternal
	}

	result := &dto.GetComments{
		Comments: []*model.FullComment{},
		Pagination: dto.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	}

	// Pages past the end get an empty window without touching the table.
	pages := (total + int64(limit) - 1) / int64(limit)
	if int64(page) > pages {
		return result, nil
	}

	comments, err := s.repo.Postgres.Comment.FindPostComments(ctx, postID, limit, (page-1)*limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d) comments page(%d): %s", postID, page, err.Error())
		return nil, ErrInternal
	}

	result.Comments = viewComments(comments, viewerIP)
	result.Pagination.HasMore = int64(page*limit) < total

	return result, nil
}

func (s *commentService) findOwnedComment(ctx context.Context, id int64, actorIP string) (*model.Comment, error) {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to find comment(%d): %s", id, err.Error())
		return nil, ErrInternal
	}

	if comment.AuthorIP != actorIP {
		return nil, ErrForbidden
	}

	return comment, nil
}

func (s *commentService) Edit(ctx context.Context, id int64, actorIP string, input dto.EditCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrContentRequired
	}

	if _, err := s.findOwnedComment(ctx, id, actorIP); err != nil {
		return nil, err
	}

	updatedComment, err := s.repo.Postgres.Comment.UpdateContent(ctx, id, content)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to update comment(%d): %s", id, err.Error())
		return nil, ErrInternal
	}

	return updatedComment, nil
}

func (s *commentService) Delete(ctx context.Context, id int64, actorIP string) error {
	if _, err := s.findOwnedComment(ctx, id, actorIP); err != nil {
		return err
	}

	if err := s.repo.Postgres.Comment.Delete(ctx, id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to delete comment(%d): %s", id, err.Error())
		return ErrInternal
	}

	return nil
}
