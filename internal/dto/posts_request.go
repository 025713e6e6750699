package dto

import "mime/multipart"

type CreatePostRequest struct {
	Title       string                `form:"title" json:"title"`
	Description string                `form:"description" json:"description"`
	Author      string                `form:"author" json:"author"`
	Media       *multipart.FileHeader `form:"media" json:"-"`
}

type EditPostRequest struct {
	Title       string                `form:"title" json:"title"`
	Description string                `form:"description" json:"description"`
	RemoveMedia bool                  `form:"remove_media" json:"remove_media"`
	Media       *multipart.FileHeader `form:"media" json:"-"`
}

type GetTrendingRequest struct {
	Limit int `form:"limit"`
}
