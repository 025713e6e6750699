package model

import "time"

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"

	DefaultAuthor = "Anonymous"
)

type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Author      string    `json:"author"`
	AuthorIP    string    `json:"-"`
	MediaURL    *string   `json:"media_url"`
	MediaType   *string   `json:"media_type"`
	Likes       int64     `json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
}

// FullPost is a post as seen by a particular viewer.
type FullPost struct {
	Post
	CommentsCount int64 `json:"comments_count"`
	HasLiked      bool  `json:"has_liked"`
	IsMine        bool  `json:"is_mine"`
}

type TrendingPost struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	MediaURL  *string `json:"media_url"`
	MediaType *string `json:"media_type"`
	Likes     int64   `json:"likes"`
}
