package models

import (
	"time"
)

// VoteState is a viewer's vote on a post. The empty value means no vote.
type VoteState string

const (
	VoteNone VoteState = ""
	VoteUp   VoteState = "up"
	VoteDown VoteState = "down"
)

func (v VoteState) Valid() bool {
	return v == VoteNone || v == VoteUp || v == VoteDown
}

// Post is a community discussion thread. UserVote belongs to the viewer the post was
// loaded for and is not persisted on the post row.
type Post struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string    `gorm:"type:uuid;not null;index" json:"user_id"`
	UserName     string    `gorm:"not null" json:"user_name" example:"Ana"`
	Title        string    `gorm:"not null" json:"title" example:"Final de Interestelar"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	MovieID      *int      `gorm:"index" json:"movie_id,omitempty" example:"157336"`
	MovieTitle   *string   `json:"movie_title,omitempty"`
	MoviePoster  *string   `json:"movie_poster,omitempty"`
	Upvotes      int       `gorm:"not null;default:0;check:upvotes >= 0" json:"upvotes"`
	Downvotes    int       `gorm:"not null;default:0;check:downvotes >= 0" json:"downvotes"`
	CommentCount int       `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UserVote     VoteState `gorm:"-" json:"user_vote,omitempty"`
}

func (Post) TableName() string {
	return "community_posts"
}

// PostVote records the vote of one user on one post for the server-backed store.
type PostVote struct {
	UserID    string    `gorm:"primaryKey;type:uuid"`
	PostID    string    `gorm:"primaryKey;type:uuid;index"`
	Value     VoteState `gorm:"not null;size:4"`
	UpdatedAt time.Time
}

func (PostVote) TableName() string {
	return "community_post_votes"
}
