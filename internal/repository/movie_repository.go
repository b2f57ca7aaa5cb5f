package repository

import (
	"context"
	"errors"
	"time"

	"cinereview-backend/internal/database"
	"cinereview-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository interface {
	FindByID(ctx context.Context, id int) (*models.Movie, error)
	// CreateIfAbsent inserts movie unless a row with the same id exists. It reports whether
	// this call wrote the row.
	CreateIfAbsent(ctx context.Context, movie *models.Movie) (bool, error)
	// FindReviewed returns every movie with at least one review, reviews preloaded with
	// their ratings.
	FindReviewed(ctx context.Context) ([]models.Movie, error)
}

type movieRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewMovieRepository(db *database.Database) MovieRepository {
	return &movieRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *movieRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *movieRepository) FindByID(ctx context.Context, id int) (*models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movie models.Movie
	err := r.db.WithContext(ctx).First(&movie, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) CreateIfAbsent(ctx context.Context, movie *models.Movie) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(movie)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *movieRepository) FindReviewed(ctx context.Context) ([]models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movies []models.Movie
	err := r.db.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM reviews WHERE reviews.movie_id = movies.id)").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "movie_id", "rating")
		}).
		Find(&movies).Error
	if err != nil {
		return nil, err
	}
	return movies, nil
}
