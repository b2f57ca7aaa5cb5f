package models

import (
	"time"
)

// Movie is the local copy of a catalog entry. ID is the TMDB id. The row is written on
// first access and never resynchronised.
type Movie struct {
	ID            int       `gorm:"primaryKey;autoIncrement:false" json:"id" example:"550"`
	Title         string    `gorm:"not null;index" json:"title" example:"Clube da Luta"`
	OriginalTitle *string   `json:"original_title,omitempty" example:"Fight Club"`
	Year          *string   `gorm:"size:4" json:"year,omitempty" example:"1999"`
	Plot          *string   `gorm:"type:text" json:"plot,omitempty"`
	Poster        *string   `json:"poster,omitempty" example:"https://image.tmdb.org/t/p/w500/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg"`
	Backdrop      *string   `json:"backdrop,omitempty"`
	Runtime       *int      `json:"runtime,omitempty" example:"139"`
	Genres        *string   `json:"genres,omitempty" example:"Drama, Thriller"`
	Rating        *float64  `json:"rating,omitempty" example:"8.4"`
	VoteCount     *int      `json:"vote_count,omitempty" example:"26280"`
	ReleaseDate   *string   `json:"release_date,omitempty" example:"1999-10-15"`
	Language      *string   `gorm:"size:10" json:"language,omitempty" example:"en"`
	Director      *string   `json:"director,omitempty" example:"David Fincher"`
	Actors        *string   `gorm:"type:text" json:"actors,omitempty"`
	Reviews       []Review  `gorm:"foreignKey:MovieID" json:"-"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Movie) TableName() string {
	return "movies"
}

// MovieSummary is the card shape used by catalog listings.
type MovieSummary struct {
	ID     int     `json:"id" example:"550"`
	Title  string  `json:"title" example:"Clube da Luta"`
	Year   *string `json:"year" example:"1999"`
	Poster *string `json:"poster"`
}

// MovieDetails is the movie page payload.
type MovieDetails struct {
	Movie       *Movie   `json:"movie"`
	AvgRating   float64  `json:"avg_rating" example:"4.5"`
	ReviewCount int      `json:"review_count" example:"2"`
	Reviews     []Review `json:"reviews"`
}

// RankedMovie is one entry of the top-rated ranking.
type RankedMovie struct {
	ID            int     `json:"id" example:"550"`
	Title         string  `json:"title" example:"Clube da Luta"`
	Year          *string `json:"year"`
	Poster        *string `json:"poster"`
	AverageRating float64 `json:"average_rating" example:"4.75"`
	ReviewCount   int     `json:"review_count" example:"4"`
}
