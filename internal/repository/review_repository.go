package repository

import (
	"context"
	"errors"
	"time"

	"cinereview-backend/internal/database"
	"cinereview-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	// Upsert writes the review for (UserID, MovieID) in one statement. On conflict only
	// rating, comment and updated_at change; review is refreshed from the stored row, so
	// ID and CreatedAt are those of the first submission. The author's name is loaded.
	Upsert(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id string) (*models.Review, error)
	// DeleteOwned removes the review only if it belongs to userID and returns the number
	// of rows removed.
	DeleteOwned(ctx context.Context, id, userID string) (int64, error)
	FindByMovie(ctx context.Context, movieID int) ([]models.Review, error)
	FindByUser(ctx context.Context, userID string) ([]models.Review, error)
}

type reviewRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewReviewRepository(db *database.Database) ReviewRepository {
	return &reviewRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *reviewRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// selectAuthor loads the public author fields; email stays private.
func selectAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "created_at")
}

func (r *reviewRepository) Upsert(ctx context.Context, review *models.Review) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if review.ID == "" {
		review.ID = uuid.NewString()
	}

	db := r.db.WithContext(ctx)
	err := db.Omit(clause.Associations).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
			},
			clause.Returning{},
		).
		Create(review).Error
	if err != nil {
		return err
	}

	var stored models.Review
	err = db.Preload("User", selectAuthor).
		Where("user_id = ? AND movie_id = ?", review.UserID, review.MovieID).
		First(&stored).Error
	if err != nil {
		return err
	}
	*review = stored
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id string) (*models.Review, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var review models.Review
	err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) DeleteOwned(ctx context.Context, id, userID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Review{})
	return result.RowsAffected, result.Error
}

func (r *reviewRepository) FindByMovie(ctx context.Context, movieID int) ([]models.Review, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	reviews := []models.Review{}
	err := r.db.WithContext(ctx).
		Preload("User", selectAuthor).
		Where("movie_id = ?", movieID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByUser(ctx context.Context, userID string) ([]models.Review, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	reviews := []models.Review{}
	err := r.db.WithContext(ctx).
		Preload("Movie", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "year", "poster")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
