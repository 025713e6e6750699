package handler

import (
	"errors"
	"net/http"

	"github.com/MemeBoard/board-service/internal/dto"
	"github.com/MemeBoard/board-service/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errInvalidPostID    = errors.New("invalid post ID")
	errInvalidCommentID = errors.New("invalid comment ID")
	errInvalidBody      = errors.New("invalid request body")
	errPageAndLimitInt  = errors.New("page and limit must be int")
	errLimitMustBeInt   = errors.New("limit must be int")
)

var badRequestErrors = []error{
	service.ErrTitleRequired,
	service.ErrTitleTooLong,
	service.ErrAuthorTooLong,
	service.ErrContentRequired,
	service.ErrFileMustBeImageOrVideo,
	service.ErrFileMustHaveAValidExtension,
	service.ErrFileTooLarge,
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrCommentNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

func (h *Handler) errorResponse(c *gin.Context, err error) {
	c.JSON(statusFromError(err), dto.NewBasicResponse(false, err.Error()))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
}
