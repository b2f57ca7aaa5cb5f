package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"cinereview-backend/internal/config"
	"cinereview-backend/internal/database"
	"cinereview-backend/internal/models"
)

// PostgresSuite runs the gorm repositories against a disposable Postgres container.
type PostgresSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *database.Database

	users   UserRepository
	movies  MovieRepository
	reviews ReviewRepository
	posts   PostRepository
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("cinereview"),
		postgres.WithUsername("cinereview"),
		postgres.WithPassword("cinereview"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		s.T().Skipf("postgres container unavailable: %v", err)
		return
	}
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := database.Open(dsn, config.DatabaseConfig{QueryTimeout: 5 * time.Second})
	s.Require().NoError(err)
	s.db = db

	s.users = NewUserRepository(db)
	s.movies = NewMovieRepository(db)
	s.reviews = NewReviewRepository(db)
	s.posts = NewServerPostRepository(db)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE community_post_votes, community_posts, reviews, movies, users").Error)
}

func (s *PostgresSuite) createUser(name string) *models.User {
	user := &models.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	s.Require().NoError(s.users.Create(context.Background(), user))
	return user
}

func (s *PostgresSuite) createMovie(id int, title string) {
	created, err := s.movies.CreateIfAbsent(context.Background(), &models.Movie{ID: id, Title: title})
	s.Require().NoError(err)
	s.Require().True(created)
}

func (s *PostgresSuite) countReviews(userID string, movieID int) int64 {
	var n int64
	s.Require().NoError(s.db.Model(&models.Review{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }

func (s *PostgresSuite) TestMovie_CreateIfAbsent() {
	ctx := context.Background()
	s.createMovie(550, "Clube da Luta")

	created, err := s.movies.CreateIfAbsent(ctx, &models.Movie{ID: 550, Title: "Outro título"})
	s.Require().NoError(err)
	s.False(created)

	movie, err := s.movies.FindByID(ctx, 550)
	s.Require().NoError(err)
	s.Equal("Clube da Luta", movie.Title)

	missing, err := s.movies.FindByID(ctx, 1)
	s.Require().NoError(err)
	s.Nil(missing)
}

func (s *PostgresSuite) TestReview_UpsertKeepsOneRow() {
	ctx := context.Background()
	user := s.createUser("ana")
	s.createMovie(550, "Clube da Luta")

	first := &models.Review{UserID: user.ID, MovieID: 550, Rating: 3, Comment: ptr("ok")}
	s.Require().NoError(s.reviews.Upsert(ctx, first))
	s.Require().NotNil(first.User)
	s.Equal("ana", first.User.Name)
	s.WithinDuration(user.CreatedAt, first.User.CreatedAt, time.Second)
	s.Empty(first.User.Email)

	time.Sleep(10 * time.Millisecond)

	second := &models.Review{UserID: user.ID, MovieID: 550, Rating: 5, Comment: ptr("melhor na segunda vez")}
	s.Require().NoError(s.reviews.Upsert(ctx, second))

	s.Equal(first.ID, second.ID)
	s.True(first.CreatedAt.Equal(second.CreatedAt))
	s.Equal(5.0, second.Rating)
	s.Equal("melhor na segunda vez", *second.Comment)
	s.True(second.UpdatedAt.After(first.UpdatedAt))

	s.EqualValues(1, s.countReviews(user.ID, 550))
}

func (s *PostgresSuite) TestReview_ConcurrentUpsertsKeepOneRow() {
	ctx := context.Background()
	user := s.createUser("bia")
	s.createMovie(13, "Forrest Gump")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(rating float64) {
			defer wg.Done()
			assert.NoError(s.T(), s.reviews.Upsert(ctx, &models.Review{UserID: user.ID, MovieID: 13, Rating: rating}))
		}(float64(i % 6))
	}
	wg.Wait()

	s.EqualValues(1, s.countReviews(user.ID, 13))
}

func (s *PostgresSuite) TestReview_DeleteOwned() {
	ctx := context.Background()
	owner := s.createUser("owner")
	other := s.createUser("other")
	s.createMovie(550, "Clube da Luta")

	review := &models.Review{UserID: owner.ID, MovieID: 550, Rating: 4}
	s.Require().NoError(s.reviews.Upsert(ctx, review))

	removed, err := s.reviews.DeleteOwned(ctx, review.ID, other.ID)
	s.Require().NoError(err)
	s.EqualValues(0, removed)

	stored, err := s.reviews.FindByID(ctx, review.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal(4.0, stored.Rating)

	removed, err = s.reviews.DeleteOwned(ctx, review.ID, owner.ID)
	s.Require().NoError(err)
	s.EqualValues(1, removed)

	stored, err = s.reviews.FindByID(ctx, review.ID)
	s.Require().NoError(err)
	s.Nil(stored)
}

func (s *PostgresSuite) TestReview_ListsAndReviewedMovies() {
	ctx := context.Background()
	ana := s.createUser("ana")
	bia := s.createUser("bia")
	s.createMovie(550, "Clube da Luta")
	s.createMovie(13, "Forrest Gump")
	s.createMovie(27205, "A Origem")

	s.Require().NoError(s.reviews.Upsert(ctx, &models.Review{UserID: ana.ID, MovieID: 550, Rating: 5}))
	s.Require().NoError(s.reviews.Upsert(ctx, &models.Review{UserID: bia.ID, MovieID: 550, Rating: 4}))
	s.Require().NoError(s.reviews.Upsert(ctx, &models.Review{UserID: ana.ID, MovieID: 13, Rating: 3}))

	byMovie, err := s.reviews.FindByMovie(ctx, 550)
	s.Require().NoError(err)
	s.Require().Len(byMovie, 2)
	s.Equal("bia", byMovie[0].User.Name)
	for _, r := range byMovie {
		s.False(r.User.CreatedAt.IsZero())
	}

	byUser, err := s.reviews.FindByUser(ctx, ana.ID)
	s.Require().NoError(err)
	s.Require().Len(byUser, 2)
	s.Equal("Forrest Gump", byUser[0].Movie.Title)

	reviewed, err := s.movies.FindReviewed(ctx)
	s.Require().NoError(err)
	s.Len(reviewed, 2)
	for _, m := range reviewed {
		s.NotEqual(27205, m.ID)
		s.NotEmpty(m.Reviews)
	}
}

func (s *PostgresSuite) TestPost_VotePerUser() {
	ctx := context.Background()
	author := s.createUser("author")
	voter := s.createUser("voter")

	post := &models.Post{UserID: author.ID, UserName: "author", Title: "Duna", Content: "Parte dois"}
	s.Require().NoError(s.posts.Create(ctx, Viewer{UserID: author.ID}, post))

	viewer := Viewer{UserID: voter.ID}
	voted, err := s.posts.Vote(ctx, viewer, post.ID, models.VoteUp)
	s.Require().NoError(err)
	s.Equal(1, voted.Upvotes)
	s.Equal(models.VoteUp, voted.UserVote)

	voted, err = s.posts.Vote(ctx, viewer, post.ID, models.VoteDown)
	s.Require().NoError(err)
	s.Equal(0, voted.Upvotes)
	s.Equal(1, voted.Downvotes)

	listed, err := s.posts.List(ctx, viewer)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(models.VoteDown, listed[0].UserVote)

	listed, err = s.posts.List(ctx, Viewer{UserID: author.ID})
	s.Require().NoError(err)
	s.Equal(models.VoteNone, listed[0].UserVote)

	voted, err = s.posts.Vote(ctx, viewer, post.ID, models.VoteDown)
	s.Require().NoError(err)
	s.Equal(0, voted.Downvotes)
	s.Equal(models.VoteNone, voted.UserVote)

	missing, err := s.posts.Vote(ctx, viewer, uuid.NewString(), models.VoteUp)
	s.Require().NoError(err)
	s.Nil(missing)

	malformed, err := s.posts.FindByID(ctx, viewer, "not-a-uuid")
	s.Require().NoError(err)
	s.Nil(malformed)
}

func TestViewer_Authenticated(t *testing.T) {
	require.False(t, Viewer{ProfileID: "p"}.Authenticated())
	require.True(t, Viewer{UserID: "u"}.Authenticated())
}
