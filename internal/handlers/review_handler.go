package handlers

import (
	"cinereview-backend/internal/middleware"
	"cinereview-backend/internal/services"
	"cinereview-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ReviewHandler struct {
	service services.ReviewService
	logger  *logrus.Logger
}

func NewReviewHandler(service services.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger,
	}
}

// UpsertReview godoc
// @Summary Create or update a review
// @Description Rate a movie from 0 to 5. A second submission for the same movie replaces rating and comment.
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body ReviewRequest true "Review"
// @Success 200 {object} utils.StandardResponse{data=models.Review} "Saved review"
// @Failure 400 {object} utils.StandardResponse "Invalid review"
// @Failure 401 {object} utils.StandardResponse "Not authenticated"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Security CookieAuth
// @Router /reviews [post]
func (h *ReviewHandler) UpsertReview(c *fiber.Ctx) error {
	var req ReviewRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	review, err := h.service.Upsert(c.UserContext(), middleware.UserID(c), services.ReviewInput{
		MovieID: req.MovieID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Review saved successfully", review)
}

// DeleteReview godoc
// @Summary Delete a review
// @Description Delete one of your own reviews
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} utils.StandardResponse "Review deleted"
// @Failure 401 {object} utils.StandardResponse "Not authenticated"
// @Failure 403 {object} utils.StandardResponse "Review belongs to another user"
// @Failure 404 {object} utils.StandardResponse "Review not found"
// @Security CookieAuth
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "review not found")
	}

	if err := h.service.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Review deleted successfully", nil)
}

// GetTopRated godoc
// @Summary Top rated movies
// @Description Up to ten movies ranked by their average review rating. Ties go to the movie with more reviews, then the lower id.
// @Tags reviews
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=[]models.RankedMovie} "Ranking"
// @Router /reviews/top-rated [get]
func (h *ReviewHandler) GetTopRated(c *fiber.Ctx) error {
	ranked, err := h.service.TopRated(c.UserContext())
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Top rated movies retrieved successfully", ranked)
}

// GetMyReviews godoc
// @Summary My reviews
// @Description Reviews written by the current user, newest first, with the movie title and poster
// @Tags reviews
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=[]models.Review} "Reviews"
// @Failure 401 {object} utils.StandardResponse "Not authenticated"
// @Security CookieAuth
// @Router /reviews/me [get]
func (h *ReviewHandler) GetMyReviews(c *fiber.Ctx) error {
	reviews, err := h.service.ListByUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Reviews retrieved successfully", reviews)
}
