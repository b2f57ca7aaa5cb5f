package services

import (
	"context"
	"strconv"
	"strings"

	"cinereview-backend/internal/apperror"
	"cinereview-backend/internal/models"
	"cinereview-backend/internal/ranking"
	"cinereview-backend/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// ListingLimit caps the catalog listings served to clients.
	ListingLimit = 10
	castLimit    = 5
)

type MovieService interface {
	// GetMovie returns the cached movie, filling the cache from the catalog on first access,
	// with its reviews (newest first) and their aggregate.
	GetMovie(ctx context.Context, id int) (*models.MovieDetails, error)
	// EnsureMovie returns the cached movie, fetching and storing it if needed.
	EnsureMovie(ctx context.Context, id int) (*models.Movie, error)

	// Listings degrade to an empty slice when the catalog is unavailable.
	ListPopular(ctx context.Context) []models.MovieSummary
	ListNowPlaying(ctx context.Context) []models.MovieSummary
	ListUpcoming(ctx context.Context) []models.MovieSummary
	ListRecent(ctx context.Context) []models.MovieSummary
	Search(ctx context.Context, query string) ([]models.MovieSummary, error)
}

type movieService struct {
	repo       repository.MovieRepository
	reviewRepo repository.ReviewRepository
	catalog    CatalogService
	logger     *logrus.Logger
	fetches    singleflight.Group
}

func NewMovieService(repo repository.MovieRepository, reviewRepo repository.ReviewRepository, catalog CatalogService, logger *logrus.Logger) MovieService {
	return &movieService{
		repo:       repo,
		reviewRepo: reviewRepo,
		catalog:    catalog,
		logger:     logger,
	}
}

func (s *movieService) GetMovie(ctx context.Context, id int) (*models.MovieDetails, error) {
	movie, err := s.EnsureMovie(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.FindByMovie(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("movie_id", id).Error("Failed to load reviews")
		return nil, apperror.NewInternal("failed to load reviews", err)
	}

	avg, count := ranking.AggregateReviews(reviews)
	return &models.MovieDetails{
		Movie:       movie,
		AvgRating:   avg,
		ReviewCount: count,
		Reviews:     reviews,
	}, nil
}

func (s *movieService) EnsureMovie(ctx context.Context, id int) (*models.Movie, error) {
	if id <= 0 {
		return nil, apperror.NewValidation("invalid movie id")
	}

	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("movie_id", id).Error("Failed to load movie")
		return nil, apperror.NewInternal("failed to load movie", err)
	}
	if movie != nil {
		return movie, nil
	}

	// Shared by every waiter, not bound to the first caller's cancellation.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := s.fetches.Do(strconv.Itoa(id), func() (interface{}, error) {
		return s.fetchAndStore(fetchCtx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Movie), nil
}

func (s *movieService) fetchAndStore(ctx context.Context, id int) (*models.Movie, error) {
	var (
		details *models.TMDBMovieDetails
		credits *models.TMDBCredits
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.catalog.GetMovieByID(gctx, id)
		if err != nil {
			return err
		}
		details = d
		return nil
	})
	g.Go(func() error {
		c, err := s.catalog.GetMovieCredits(gctx, id)
		if err != nil {
			// Credits only feed director and actors.
			s.logger.WithError(err).WithField("movie_id", id).Warn("Movie credits unavailable")
			return nil
		}
		credits = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	movie := s.buildMovie(details, credits)
	created, err := s.repo.CreateIfAbsent(ctx, movie)
	if err != nil {
		s.logger.WithError(err).WithField("movie_id", id).Error("Failed to cache movie")
		return nil, apperror.NewInternal("failed to store movie", err)
	}

	if !created {
		stored, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, apperror.NewInternal("failed to load movie", err)
		}
		if stored != nil {
			return stored, nil
		}
	}

	s.logger.WithFields(logrus.Fields{
		"movie_id": movie.ID,
		"title":    movie.Title,
	}).Info("Movie cached from catalog")

	return movie, nil
}

func (s *movieService) buildMovie(details *models.TMDBMovieDetails, credits *models.TMDBCredits) *models.Movie {
	movie := &models.Movie{
		ID:            details.ID,
		Title:         details.Title,
		OriginalTitle: optionalString(details.OriginalTitle),
		Year:          releaseYear(details.ReleaseDate),
		Plot:          optionalString(details.Overview),
		Poster:        s.catalog.ImageURL(details.PosterPath, PosterSize),
		Backdrop:      s.catalog.ImageURL(details.BackdropPath, BackdropSize),
		ReleaseDate:   optionalString(details.ReleaseDate),
		Language:      optionalString(details.OriginalLanguage),
	}

	if details.Runtime > 0 {
		runtime := details.Runtime
		movie.Runtime = &runtime
	}
	if details.VoteAverage > 0 {
		rating := details.VoteAverage
		movie.Rating = &rating
	}
	if details.VoteCount > 0 {
		votes := details.VoteCount
		movie.VoteCount = &votes
	}

	genres := make([]string, 0, len(details.Genres))
	for _, g := range details.Genres {
		genres = append(genres, g.Name)
	}
	movie.Genres = optionalString(strings.Join(genres, ", "))

	if credits != nil {
		for _, member := range credits.Crew {
			if member.Job == "Director" {
				movie.Director = optionalString(member.Name)
				break
			}
		}

		actors := make([]string, 0, castLimit)
		for _, member := range credits.Cast {
			if len(actors) == castLimit {
				break
			}
			actors = append(actors, member.Name)
		}
		movie.Actors = optionalString(strings.Join(actors, ", "))
	}

	return movie
}

func (s *movieService) ListPopular(ctx context.Context) []models.MovieSummary {
	movies, err := s.catalog.GetPopularMovies(ctx, 1)
	return s.summaries("popular", movies, err)
}

func (s *movieService) ListNowPlaying(ctx context.Context) []models.MovieSummary {
	movies, err := s.catalog.GetNowPlayingMovies(ctx, 1)
	return s.summaries("now_playing", movies, err)
}

func (s *movieService) ListUpcoming(ctx context.Context) []models.MovieSummary {
	movies, err := s.catalog.GetUpcomingMovies(ctx, 1)
	return s.summaries("upcoming", movies, err)
}

func (s *movieService) ListRecent(ctx context.Context) []models.MovieSummary {
	movies, err := s.catalog.GetRecentMovies(ctx)
	return s.summaries("recent", movies, err)
}

func (s *movieService) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.NewValidation("search query is required")
	}
	movies, err := s.catalog.SearchMovies(ctx, query, 1)
	return s.summaries("search", movies, err), nil
}

func (s *movieService) summaries(listing string, movies []models.TMDBMovieResponse, err error) []models.MovieSummary {
	if err != nil {
		s.logger.WithError(err).WithField("listing", listing).Warn("Catalog listing unavailable")
		return []models.MovieSummary{}
	}

	if len(movies) > ListingLimit {
		movies = movies[:ListingLimit]
	}

	out := make([]models.MovieSummary, 0, len(movies))
	for _, m := range movies {
		out = append(out, models.MovieSummary{
			ID:     m.ID,
			Title:  m.Title,
			Year:   releaseYear(m.ReleaseDate),
			Poster: s.catalog.ImageURL(m.PosterPath, PosterSize),
		})
	}
	return out
}

// releaseYear takes the year from a YYYY-MM-DD date.
func releaseYear(date string) *string {
	if len(date) < 4 {
		return nil
	}
	year := date[:4]
	if _, err := strconv.Atoi(year); err != nil {
		return nil
	}
	return &year
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
