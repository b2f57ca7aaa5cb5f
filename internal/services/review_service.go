package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"cinereview-backend/internal/apperror"
	"cinereview-backend/internal/models"
	"cinereview-backend/internal/ranking"
	"cinereview-backend/internal/repository"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const topRatedCacheKey = "reviews:top-rated"

// ReviewInput is a review submission. Rating is a pointer so a missing value can be told
// apart from a zero rating.
type ReviewInput struct {
	MovieID int
	Rating  *float64
	Comment *string
}

type ReviewService interface {
	// Upsert creates or replaces the user's review of a movie.
	Upsert(ctx context.Context, userID string, in ReviewInput) (*models.Review, error)
	// Delete removes a review. Only its author may delete it.
	Delete(ctx context.Context, userID, reviewID string) error
	TopRated(ctx context.Context) ([]models.RankedMovie, error)
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
}

type reviewService struct {
	repo      repository.ReviewRepository
	movieRepo repository.MovieRepository
	movies    MovieService
	cache     *cache.Cache
	cacheTTL  time.Duration
	logger    *logrus.Logger
}

func NewReviewService(repo repository.ReviewRepository, movieRepo repository.MovieRepository, movies MovieService, cacheTTL time.Duration, logger *logrus.Logger) ReviewService {
	return &reviewService{
		repo:      repo,
		movieRepo: movieRepo,
		movies:    movies,
		cache:     cache.New(cacheTTL, 10*time.Minute),
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// ValidateReviewInput checks a submission without touching storage.
func ValidateReviewInput(in ReviewInput) error {
	if in.MovieID <= 0 {
		return apperror.NewValidation("movieId is required")
	}
	if in.Rating == nil {
		return apperror.NewValidation("rating is required")
	}
	r := *in.Rating
	if math.IsNaN(r) || r < models.MinRating || r > models.MaxRating {
		return apperror.NewValidation(fmt.Sprintf("rating must be between %g and %g", models.MinRating, models.MaxRating))
	}
	if in.Comment != nil && utf8.RuneCountInString(*in.Comment) > models.MaxCommentLength {
		return apperror.NewValidation(fmt.Sprintf("comment must be at most %d characters", models.MaxCommentLength))
	}
	return nil
}

func (s *reviewService) Upsert(ctx context.Context, userID string, in ReviewInput) (*models.Review, error) {
	if userID == "" {
		return nil, apperror.NewUnauthenticated("authentication required")
	}
	if err := ValidateReviewInput(in); err != nil {
		return nil, err
	}

	if _, err := s.movies.EnsureMovie(ctx, in.MovieID); err != nil {
		return nil, err
	}

	var comment *string
	if in.Comment != nil {
		if trimmed := strings.TrimSpace(*in.Comment); trimmed != "" {
			comment = &trimmed
		}
	}

	review := &models.Review{
		UserID:  userID,
		MovieID: in.MovieID,
		Rating:  *in.Rating,
		Comment: comment,
	}
	if err := s.repo.Upsert(ctx, review); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID,
			"movie_id": in.MovieID,
		}).Error("Failed to save review")
		return nil, apperror.NewInternal("failed to save review", err)
	}

	s.cache.Delete(topRatedCacheKey)

	s.logger.WithFields(logrus.Fields{
		"review_id": review.ID,
		"movie_id":  review.MovieID,
		"rating":    review.Rating,
	}).Info("Review saved")

	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, userID, reviewID string) error {
	if userID == "" {
		return apperror.NewUnauthenticated("authentication required")
	}

	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return apperror.NewInternal("failed to load review", err)
	}
	if review == nil {
		return apperror.NewNotFound("review not found")
	}
	if review.UserID != userID {
		return apperror.NewForbidden("you can only delete your own reviews")
	}

	removed, err := s.repo.DeleteOwned(ctx, reviewID, userID)
	if err != nil {
		s.logger.WithError(err).WithField("review_id", reviewID).Error("Failed to delete review")
		return apperror.NewInternal("failed to delete review", err)
	}
	if removed == 0 {
		return apperror.NewNotFound("review not found")
	}

	s.cache.Delete(topRatedCacheKey)
	return nil
}

func (s *reviewService) TopRated(ctx context.Context) ([]models.RankedMovie, error) {
	if cached, ok := s.cache.Get(topRatedCacheKey); ok {
		return cached.([]models.RankedMovie), nil
	}

	movies, err := s.movieRepo.FindReviewed(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load reviewed movies")
		return nil, apperror.NewInternal("failed to load top rated movies", err)
	}

	ranked := ranking.TopRated(movies)
	if s.cacheTTL > 0 {
		s.cache.Set(topRatedCacheKey, ranked, s.cacheTTL)
	}
	return ranked, nil
}

func (s *reviewService) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	if userID == "" {
		return nil, apperror.NewUnauthenticated("authentication required")
	}
	reviews, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal("failed to load reviews", err)
	}
	return reviews, nil
}
