package dto

import "time"

type MQPostCreatedMsg struct {
	PostID    int64     `json:"post_id"`
	PostTitle string    `json:"post_title"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type MQPostLikedMsg struct {
	PostID int64 `json:"post_id"`
	Liked  bool  `json:"liked"`
	Likes  int64 `json:"likes"`
}

type MQCommentAddedMsg struct {
	CommentID int64     `json:"comment_id"`
	PostID    int64     `json:"post_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type MQPostDeletedMsg struct {
	PostID int64 `json:"post_id"`
}
