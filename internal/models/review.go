package models

import "time"

const (
	MinRating        = 0.0
	MaxRating        = 5.0
	MaxCommentLength = 2000
)

// Review is a user's rating of a movie. There is at most one per (user, movie).
type Review struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id" example:"0b7c9a52-4a1e-4c55-9a53-6f0f3f0b8f1e"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_movie" json:"user_id"`
	MovieID   int       `gorm:"not null;uniqueIndex:idx_reviews_user_movie;index" json:"movie_id" example:"550"`
	Rating    float64   `gorm:"not null;check:rating >= 0 AND rating <= 5" json:"rating" example:"4.5"`
	Comment   *string   `gorm:"type:text" json:"comment"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Movie     *Movie    `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}
