package handlers

import (
	"strconv"

	"cinereview-backend/internal/services"
	"cinereview-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type MovieHandler struct {
	service services.MovieService
	logger  *logrus.Logger
}

func NewMovieHandler(service services.MovieService, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		logger:  logger,
	}
}

// GetPopularMovies godoc
// @Summary Popular movies
// @Description First ten movies of the catalog ordered by popularity. Empty when the catalog is unavailable.
// @Tags movies
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=[]models.MovieSummary} "Popular movies"
// @Router /movies/popular [get]
func (h *MovieHandler) GetPopularMovies(c *fiber.Ctx) error {
	movies := h.service.ListPopular(c.UserContext())
	return utils.SuccessResponse(c, fiber.StatusOK, "Movies retrieved successfully", movies)
}

// GetRecentMovies godoc
// @Summary Now playing
// @Description First ten movies now playing in theaters. Empty when the catalog is unavailable.
// @Tags movies
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=[]models.MovieSummary} "Now playing movies"
// @Router /movies/recent [get]
func (h *MovieHandler) GetRecentMovies(c *fiber.Ctx) error {
	movies := h.service.ListNowPlaying(c.UserContext())
	return utils.SuccessResponse(c, fiber.StatusOK, "Movies retrieved successfully", movies)
}

// GetUpcomingMovies godoc
// @Summary Upcoming movies
// @Description First ten upcoming releases. Empty when the catalog is unavailable.
// @Tags movies
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=[]models.MovieSummary} "Upcoming movies"
// @Router /movies/upcoming [get]
func (h *MovieHandler) GetUpcomingMovies(c *fiber.Ctx) error {
	movies := h.service.ListUpcoming(c.UserContext())
	return utils.SuccessResponse(c, fiber.StatusOK, "Movies retrieved successfully", movies)
}

// GetNewReleases godoc
// @Summary New releases
// @Description First ten releases of the last three months with at least ten votes. Empty when the catalog is unavailable.
// @Tags movies
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=[]models.MovieSummary} "New releases"
// @Router /movies/new-releases [get]
func (h *MovieHandler) GetNewReleases(c *fiber.Ctx) error {
	movies := h.service.ListRecent(c.UserContext())
	return utils.SuccessResponse(c, fiber.StatusOK, "Movies retrieved successfully", movies)
}

// SearchMovies godoc
// @Summary Search movies
// @Description Search the catalog by title
// @Tags movies
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} utils.StandardResponse{data=[]models.MovieSummary} "Matching movies"
// @Failure 400 {object} utils.StandardResponse "Missing query"
// @Router /movies/search [get]
func (h *MovieHandler) SearchMovies(c *fiber.Ctx) error {
	movies, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Movies retrieved successfully", movies)
}

// GetMovieByID godoc
// @Summary Get movie by ID
// @Description Get a movie by its TMDB id with its reviews and rating aggregate. The movie is cached on first access.
// @Tags movies
// @Produce json
// @Param id path int true "TMDB movie ID"
// @Success 200 {object} utils.StandardResponse{data=models.MovieDetails} "Movie details"
// @Failure 400 {object} utils.StandardResponse "Invalid movie ID"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Failure 502 {object} utils.StandardResponse "Catalog unavailable"
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovieByID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	details, err := h.service.GetMovie(c.UserContext(), id)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie retrieved successfully", details)
}
