package dto

import "github.com/MemeBoard/board-service/internal/model"

type GetPost struct {
	Post     model.FullPost       `json:"post"`
	Comments []*model.FullComment `json:"comments"`
}

type ToggleLikeResponse struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}
