package dto

import "github.com/MemeBoard/board-service/internal/model"

type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

type GetComments struct {
	Comments   []*model.FullComment `json:"comments"`
	Pagination Pagination           `json:"pagination"`
}
