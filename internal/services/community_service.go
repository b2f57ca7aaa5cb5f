package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"cinereview-backend/internal/apperror"
	"cinereview-backend/internal/models"
	"cinereview-backend/internal/ranking"
	"cinereview-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	MaxPostTitleLength   = 300
	MaxPostContentLength = 10000
)

type CreatePostInput struct {
	Title   string
	Content string
	MovieID *int
}

type CommunityService interface {
	// ListPosts filters the viewer's posts by query and ranks them by sort.
	ListPosts(ctx context.Context, viewer repository.Viewer, sort, query string) ([]models.Post, error)
	CreatePost(ctx context.Context, viewer repository.Viewer, in CreatePostInput) (*models.Post, error)
	// Vote applies an up or down click. Anonymous viewers get the post back unchanged.
	Vote(ctx context.Context, viewer repository.Viewer, postID string, event models.VoteState) (*models.Post, error)
}

type communityService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	movies MovieService
	logger *logrus.Logger
	now    func() time.Time
}

func NewCommunityService(posts repository.PostRepository, users repository.UserRepository, movies MovieService, logger *logrus.Logger) CommunityService {
	return &communityService{
		posts:  posts,
		users:  users,
		movies: movies,
		logger: logger,
		now:    time.Now,
	}
}

func (s *communityService) ListPosts(ctx context.Context, viewer repository.Viewer, sort, query string) ([]models.Post, error) {
	posts, err := s.posts.List(ctx, viewer)
	if err != nil {
		return nil, s.storeError("failed to load posts", err)
	}
	return ranking.Rank(posts, strings.TrimSpace(query), ranking.ParseSortOrder(sort), s.now()), nil
}

func (s *communityService) CreatePost(ctx context.Context, viewer repository.Viewer, in CreatePostInput) (*models.Post, error) {
	if !viewer.Authenticated() {
		return nil, apperror.NewUnauthenticated("authentication required")
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, apperror.NewValidation("title and content are required")
	}
	if len([]rune(title)) > MaxPostTitleLength || len([]rune(content)) > MaxPostContentLength {
		return nil, apperror.NewValidation("post is too long")
	}
	if in.MovieID != nil && *in.MovieID <= 0 {
		return nil, apperror.NewValidation("invalid movie id")
	}

	user, err := s.users.FindByID(ctx, viewer.UserID)
	if err != nil {
		return nil, apperror.NewInternal("failed to load user", err)
	}
	if user == nil {
		return nil, apperror.NewUnauthenticated("session user no longer exists")
	}

	post := &models.Post{
		UserID:    user.ID,
		UserName:  user.Name,
		Title:     title,
		Content:   content,
		MovieID:   in.MovieID,
		CreatedAt: s.now().UTC(),
	}

	if in.MovieID != nil {
		movie, err := s.movies.EnsureMovie(ctx, *in.MovieID)
		if err != nil {
			s.logger.WithError(err).WithField("movie_id", *in.MovieID).Warn("Post movie details unavailable")
		} else {
			post.MovieTitle = &movie.Title
			post.MoviePoster = movie.Poster
		}
	}

	if err := s.posts.Create(ctx, viewer, post); err != nil {
		return nil, s.storeError("failed to create post", err)
	}

	s.logger.WithFields(logrus.Fields{
		"post_id": post.ID,
		"user_id": post.UserID,
	}).Info("Community post created")

	return post, nil
}

func (s *communityService) Vote(ctx context.Context, viewer repository.Viewer, postID string, event models.VoteState) (*models.Post, error) {
	if event != models.VoteUp && event != models.VoteDown {
		return nil, apperror.NewValidation("vote must be up or down")
	}

	var (
		post *models.Post
		err  error
	)
	if viewer.Authenticated() {
		post, err = s.posts.Vote(ctx, viewer, postID, event)
	} else {
		post, err = s.posts.FindByID(ctx, viewer, postID)
	}
	if err != nil {
		return nil, s.storeError("failed to vote", err)
	}
	if post == nil {
		return nil, apperror.NewNotFound("post not found")
	}
	return post, nil
}

func (s *communityService) storeError(message string, err error) error {
	if errors.Is(err, repository.ErrNoProfile) {
		return apperror.NewValidation("missing profile")
	}
	s.logger.WithError(err).Error(message)
	return apperror.NewInternal(message, err)
}
