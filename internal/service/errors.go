package service

import "errors"

var (
	ErrInternal                    = errors.New("internal server error")
	ErrPostNotFound                = errors.New("post not found")
	ErrCommentNotFound             = errors.New("comment not found")
	ErrForbidden                   = errors.New("only the author can do this")
	ErrTitleRequired               = errors.New("title is required")
	ErrTitleTooLong                = errors.New("title must be at most 255 characters")
	ErrAuthorTooLong               = errors.New("author must be at most 100 characters")
	ErrContentRequired             = errors.New("content is required")
	ErrFileMustBeImageOrVideo      = errors.New("file must be an image or a video")
	ErrFileMustHaveAValidExtension = errors.New("file must have a valid extension")
	ErrFileTooLarge                = errors.New("file is too large")
	ErrFailedToStoreMedia          = errors.New("failed to store media")
)
