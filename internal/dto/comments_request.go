package dto

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type EditCommentRequest struct {
	Content string `json:"content"`
}

type GetCommentsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
