package model

type LikeToggle struct {
	PostID int64 `json:"post_id"`
	Liked  bool  `json:"liked"`
	Likes  int64 `json:"likes"`
}
