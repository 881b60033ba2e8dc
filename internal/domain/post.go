package domain

import "time"

type PostId = int64

type Post struct {
	Id        PostId    `json:"id"`
	UserId    UserId    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	// Rendered, sanitized HTML for the content field. Populated on reads.
	ContentHtml string `json:"content_html,omitempty"`
	// Path reference into the external blob store. The core never touches bytes.
	Image        *string   `json:"image"`
	Slug         string    `json:"slug"`
	Likes        int64     `json:"likes"`
	CommentCount int64     `json:"comments_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Author   *User     `json:"user,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
}

type Comment struct {
	Id        int64     `json:"id"`
	PostId    PostId    `json:"post_id"`
	UserId    UserId    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	Author *User `json:"user,omitempty"`
}

// PostQuery describes list filtering as exposed by the posts index endpoint.
type PostQuery struct {
	// OrderBy is one of "time", "likes", "comments".
	OrderBy string
	// AuthorId narrows the listing to a single author when non-nil.
	AuthorId *UserId
	Page     int
	PerPage  int
}
