package handlers

import (
	"cinereview-backend/internal/middleware"
	"cinereview-backend/internal/models"
	"cinereview-backend/internal/ranking"
	"cinereview-backend/internal/repository"
	"cinereview-backend/internal/services"
	"cinereview-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CommunityHandler struct {
	service services.CommunityService
	logger  *logrus.Logger
}

func NewCommunityHandler(service services.CommunityService, logger *logrus.Logger) *CommunityHandler {
	return &CommunityHandler{
		service: service,
		logger:  logger,
	}
}

func viewer(c *fiber.Ctx) repository.Viewer {
	return repository.Viewer{
		ProfileID: middleware.ProfileID(c),
		UserID:    middleware.UserID(c),
	}
}

// ListPosts godoc
// @Summary List community posts
// @Description Posts matching q in title, content or movie title, ranked by sort. Each post carries the viewer's vote.
// @Tags community
// @Produce json
// @Param sort query string false "hot, new or top" default(hot)
// @Param q query string false "Case-insensitive search text"
// @Success 200 {object} utils.StandardResponse{data=[]models.Post,meta=utils.ListMeta} "Posts"
// @Router /community/posts [get]
func (h *CommunityHandler) ListPosts(c *fiber.Ctx) error {
	sort := ranking.ParseSortOrder(c.Query("sort"))
	query := c.Query("q")

	posts, err := h.service.ListPosts(c.UserContext(), viewer(c), string(sort), query)
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	meta := utils.ListMeta{Total: len(posts), Sort: string(sort), Query: query}
	return utils.SuccessWithMetaResponse(c, fiber.StatusOK, "Posts retrieved successfully", posts, meta)
}

// CreatePost godoc
// @Summary Create a community post
// @Description Start a discussion, optionally about a movie
// @Tags community
// @Accept json
// @Produce json
// @Param request body CreatePostRequest true "Post"
// @Success 201 {object} utils.StandardResponse{data=models.Post} "Created post"
// @Failure 400 {object} utils.StandardResponse "Invalid post"
// @Failure 401 {object} utils.StandardResponse "Not authenticated"
// @Security CookieAuth
// @Router /community/posts [post]
func (h *CommunityHandler) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	post, err := h.service.CreatePost(c.UserContext(), viewer(c), services.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		MovieID: req.MovieID,
	})
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Post created successfully", post)
}

// VotePost godoc
// @Summary Vote on a post
// @Description Click up or down. Clicking the current vote again removes it. Anonymous visitors get the post back unchanged.
// @Tags community
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body VoteRequest true "Vote"
// @Success 200 {object} utils.StandardResponse{data=models.Post} "Post after the vote"
// @Failure 400 {object} utils.StandardResponse "Invalid vote"
// @Failure 404 {object} utils.StandardResponse "Post not found"
// @Router /community/posts/{id}/vote [post]
func (h *CommunityHandler) VotePost(c *fiber.Ctx) error {
	var req VoteRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	post, err := h.service.Vote(c.UserContext(), viewer(c), c.Params("id"), models.VoteState(req.Vote))
	if err != nil {
		return utils.HandleError(c, h.logger, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Vote recorded", post)
}
