package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cinereview-backend/internal/apperror"
	"cinereview-backend/internal/config"
	"cinereview-backend/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	PosterSize   = "w500"
	BackdropSize = "w1280"

	catalogUserAgent = "CineReview/1.0"
	recentWindow     = 3
	recentMinVotes   = 10
)

// CatalogService talks to the TMDB API. Transport and decoding failures are reported as
// apperror.UpstreamUnavailable, a 404 as apperror.NotFound.
type CatalogService interface {
	GetMovieByID(ctx context.Context, id int) (*models.TMDBMovieDetails, error)
	GetMovieCredits(ctx context.Context, id int) (*models.TMDBCredits, error)
	GetPopularMovies(ctx context.Context, page int) ([]models.TMDBMovieResponse, error)
	GetNowPlayingMovies(ctx context.Context, page int) ([]models.TMDBMovieResponse, error)
	GetUpcomingMovies(ctx context.Context, page int) ([]models.TMDBMovieResponse, error)
	SearchMovies(ctx context.Context, query string, page int) ([]models.TMDBMovieResponse, error)
	// GetRecentMovies lists releases of the last three months with at least ten votes.
	GetRecentMovies(ctx context.Context) ([]models.TMDBMovieResponse, error)
	ImageURL(path *string, size string) *string
}

type catalogService struct {
	config     config.TMDBConfig
	logger     *logrus.Logger
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

func NewCatalogService(cfg config.TMDBConfig, logger *logrus.Logger) CatalogService {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &catalogService{
		config: cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
}

func (s *catalogService) GetMovieByID(ctx context.Context, id int) (*models.TMDBMovieDetails, error) {
	var details models.TMDBMovieDetails
	if err := s.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (s *catalogService) GetMovieCredits(ctx context.Context, id int) (*models.TMDBCredits, error) {
	var credits models.TMDBCredits
	if err := s.get(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

func (s *catalogService) GetPopularMovies(ctx context.Context, page int) ([]models.TMDBMovieResponse, error) {
	params := url.Values{}
	params.Set("page", pageParam(page))
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	params.Set("include_video", "false")
	return s.list(ctx, "/discover/movie", params)
}

func (s *catalogService) GetNowPlayingMovies(ctx context.Context, page int) ([]models.TMDBMovieResponse, error) {
	params := url.Values{}
	params.Set("page", pageParam(page))
	params.Set("region", s.config.Region)
	return s.list(ctx, "/movie/now_playing", params)
}

func (s *catalogService) GetUpcomingMovies(ctx context.Context, page int) ([]models.TMDBMovieResponse, error) {
	params := url.Values{}
	params.Set("page", pageParam(page))
	params.Set("region", s.config.Region)
	return s.list(ctx, "/movie/upcoming", params)
}

func (s *catalogService) SearchMovies(ctx context.Context, query string, page int) ([]models.TMDBMovieResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", pageParam(page))
	return s.list(ctx, "/search/movie", params)
}

func (s *catalogService) GetRecentMovies(ctx context.Context) ([]models.TMDBMovieResponse, error) {
	since := s.now().AddDate(0, -recentWindow, 0).Format("2006-01-02")

	params := url.Values{}
	params.Set("sort_by", "release_date.desc")
	params.Set("release_date.gte", since)
	params.Set("vote_count.gte", strconv.Itoa(recentMinVotes))
	return s.list(ctx, "/discover/movie", params)
}

func (s *catalogService) ImageURL(path *string, size string) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := fmt.Sprintf("%s/%s%s", strings.TrimRight(s.config.ImageBaseURL, "/"), size, *path)
	return &u
}

func pageParam(page int) string {
	if page < 1 {
		page = 1
	}
	return strconv.Itoa(page)
}

func (s *catalogService) list(ctx context.Context, path string, params url.Values) ([]models.TMDBMovieResponse, error) {
	var resp models.TMDBMovieListResponse
	if err := s.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []models.TMDBMovieResponse{}, nil
	}
	return resp.Results, nil
}

func (s *catalogService) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return apperror.NewUpstream("movie catalog unavailable", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", s.config.APIKey)
	params.Set("language", s.config.Language)

	endpoint := strings.TrimRight(s.config.BaseURL, "/") + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperror.NewInternal("failed to create catalog request", err)
	}
	req.Header.Set("User-Agent", catalogUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Error("TMDB request failed")
		return apperror.NewUpstream("movie catalog unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperror.NewNotFound("movie not found")
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.logger.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Error("TMDB returned an error status")
		return apperror.NewUpstream("movie catalog unavailable",
			fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.NewUpstream("movie catalog unavailable", fmt.Errorf("failed to decode TMDB response: %w", err))
	}
	return nil
}
