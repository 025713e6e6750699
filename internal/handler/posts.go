package handler

import (
	"errors"
	"net/http"

	"github.com/MemeBoard/board-service/internal/dto"
	"github.com/MemeBoard/board-service/internal/service"
	"github.com/gin-gonic/gin"
)

func bindError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		badRequest(c, service.ErrFileTooLarge)
		return
	}

	badRequest(c, errInvalidBody)
}

func (h *Handler) postsCreate(c *gin.Context) {
	var input dto.CreatePostRequest
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), h.getClientIP(c), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdPost)
}

func (h *Handler) postsGetAll(c *gin.Context) {
	posts, err := h.services.Post.FindAll(c.Request.Context(), h.getClientIP(c))
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsTrending(c *gin.Context) {
	var input dto.GetTrendingRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		badRequest(c, errLimitMustBeInt)
		return
	}

	posts, err := h.services.Post.FindTrending(c.Request.Context(), input.Limit)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetByID(c *gin.Context) {
	postID, ok := parseID(c, "postID")
	if !ok {
		badRequest(c, errInvalidPostID)
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), postID, h.getClientIP(c))
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsEdit(c *gin.Context) {
	postID, ok := parseID(c, "postID")
	if !ok {
		badRequest(c, errInvalidPostID)
		return
	}

	var input dto.EditPostRequest
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	updatedPost, err := h.services.Post.Edit(c.Request.Context(), postID, h.getClientIP(c), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, updatedPost)
}

func (h *Handler) postsDelete(c *gin.Context) {
	postID, ok := parseID(c, "postID")
	if !ok {
		badRequest(c, errInvalidPostID)
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), postID, h.getClientIP(c)); err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) postsToggleLike(c *gin.Context) {
	postID, ok := parseID(c, "postID")
	if !ok {
		badRequest(c, errInvalidPostID)
		return
	}

	toggle, err := h.services.Like.Toggle(c.Request.Context(), postID, h.getClientIP(c))
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToggleLikeResponse{
		Liked: toggle.Liked,
		Likes: toggle.Likes,
	})
}

func (h *Handler) postsIsLiked(c *gin.Context) {
	postID, ok := parseID(c, "postID")
	if !ok {
		badRequest(c, errInvalidPostID)
		return
	}

	isLiked, err := h.services.Like.IsLiked(c.Request.Context(), postID, h.getClientIP(c))
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"isLiked": isLiked})
}
