package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cinereview-backend/internal/models"
	"cinereview-backend/internal/repository"
	"cinereview-backend/internal/services"
)

// MockAuthService mocks services.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) IssueToken(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ParseToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockMovieService mocks services.MovieService
type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) GetMovie(ctx context.Context, id int) (*models.MovieDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MovieDetails), args.Error(1)
}

func (m *MockMovieService) EnsureMovie(ctx context.Context, id int) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieService) ListPopular(ctx context.Context) []models.MovieSummary {
	return m.Called(ctx).Get(0).([]models.MovieSummary)
}

func (m *MockMovieService) ListNowPlaying(ctx context.Context) []models.MovieSummary {
	return m.Called(ctx).Get(0).([]models.MovieSummary)
}

func (m *MockMovieService) ListUpcoming(ctx context.Context) []models.MovieSummary {
	return m.Called(ctx).Get(0).([]models.MovieSummary)
}

func (m *MockMovieService) ListRecent(ctx context.Context) []models.MovieSummary {
	return m.Called(ctx).Get(0).([]models.MovieSummary)
}

func (m *MockMovieService) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MovieSummary), args.Error(1)
}

// MockReviewService mocks services.ReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Upsert(ctx context.Context, userID string, in services.ReviewInput) (*models.Review, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, userID, reviewID string) error {
	return m.Called(ctx, userID, reviewID).Error(0)
}

func (m *MockReviewService) TopRated(ctx context.Context) ([]models.RankedMovie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RankedMovie), args.Error(1)
}

func (m *MockReviewService) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

// MockCommunityService mocks services.CommunityService
type MockCommunityService struct {
	mock.Mock
}

func (m *MockCommunityService) ListPosts(ctx context.Context, viewer repository.Viewer, sort, query string) ([]models.Post, error) {
	args := m.Called(ctx, viewer, sort, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockCommunityService) CreatePost(ctx context.Context, viewer repository.Viewer, in services.CreatePostInput) (*models.Post, error) {
	args := m.Called(ctx, viewer, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockCommunityService) Vote(ctx context.Context, viewer repository.Viewer, postID string, event models.VoteState) (*models.Post, error) {
	args := m.Called(ctx, viewer, postID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}
