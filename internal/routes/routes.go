package routes

import (
	"cinereview-backend/internal/handlers"
	"cinereview-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Movie     *handlers.MovieHandler
	Review    *handlers.ReviewHandler
	Community *handlers.CommunityHandler
}

type Options struct {
	Tokens       middleware.TokenParser
	CookieName   string
	CookieSecure bool
}

func Setup(app *fiber.App, h Handlers, opts Options) {
	optionalAuth := middleware.OptionalAuth(opts.Tokens, opts.CookieName)
	requireAuth := middleware.RequireAuth(opts.Tokens, opts.CookieName)

	// API versioning
	api := app.Group("/api")
	v1 := api.Group("/v1")

	auth := v1.Group("/auth")
	{
		auth.Post("/register", h.Auth.Register)
		auth.Post("/login", h.Auth.Login)
		auth.Post("/logout", h.Auth.Logout)
		auth.Get("/me", requireAuth, h.Auth.Me)
	}

	// Catalog routes, backed by TMDB and the local movie cache
	movies := v1.Group("/movies")
	{
		movies.Get("/popular", h.Movie.GetPopularMovies)
		movies.Get("/recent", h.Movie.GetRecentMovies)
		movies.Get("/upcoming", h.Movie.GetUpcomingMovies)
		movies.Get("/new-releases", h.Movie.GetNewReleases)
		movies.Get("/search", h.Movie.SearchMovies)
		movies.Get("/:id", h.Movie.GetMovieByID)
	}

	reviews := v1.Group("/reviews")
	{
		reviews.Get("/top-rated", h.Review.GetTopRated)
		reviews.Get("/me", requireAuth, h.Review.GetMyReviews)
		reviews.Post("/", requireAuth, h.Review.UpsertReview)
		reviews.Delete("/:id", requireAuth, h.Review.DeleteReview)
	}

	// Community posts are scoped to the browser profile
	community := v1.Group("/community", middleware.Profile(opts.CookieSecure), optionalAuth)
	{
		community.Get("/posts", h.Community.ListPosts)
		community.Post("/posts", h.Community.CreatePost)
		community.Post("/posts/:id/vote", h.Community.VotePost)
	}
}
