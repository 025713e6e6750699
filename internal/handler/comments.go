package handler

import (
	"net/http"

	"github.com/MemeBoard/board-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	postID, ok := parseID(c, "postID")
	if !ok {
		badRequest(c, errInvalidPostID)
		return
	}

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, errInvalidBody)
		return
	}

	createdComment, err := h.services.Comment.Create(c.Request.Context(), postID, h.getClientIP(c), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdComment)
}

func (h *Handler) commentsGet(c *gin.Context) {
	postID, ok := parseID(c, "postID")
	if !ok {
		badRequest(c, errInvalidPostID)
		return
	}

	var input dto.GetCommentsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		badRequest(c, errPageAndLimitInt)
		return
	}

	comments, err := h.services.Comment.FindPostComments(c.Request.Context(), postID, h.getClientIP(c), input.Page, input.Limit)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) commentsEdit(c *gin.Context) {
	commentID, ok := parseID(c, "commentID")
	if !ok {
		badRequest(c, errInvalidCommentID)
		return
	}

	var input dto.EditCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, errInvalidBody)
		return
	}

	updatedComment, err := h.services.Comment.Edit(c.Request.Context(), commentID, h.getClientIP(c), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, updatedComment)
}

func (h *Handler) commentsDelete(c *gin.Context) {
	commentID, ok := parseID(c, "commentID")
	if !ok {
		badRequest(c, errInvalidCommentID)
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), commentID, h.getClientIP(c)); err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}
