package repository

import (
	"context"
	"errors"
	"time"

	"cinereview-backend/internal/database"
	"cinereview-backend/internal/models"
	"cinereview-backend/internal/ranking"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Viewer identifies who a post listing is loaded for. ProfileID is the browser profile,
// UserID is empty for anonymous visitors.
type Viewer struct {
	ProfileID string
	UserID    string
}

func (v Viewer) Authenticated() bool {
	return v.UserID != ""
}

// PostRepository stores community posts and the viewer's votes on them.
// Lookups return nil, nil when the post does not exist.
type PostRepository interface {
	// List returns all posts visible to viewer, newest first, with UserVote filled.
	List(ctx context.Context, viewer Viewer) ([]models.Post, error)
	FindByID(ctx context.Context, viewer Viewer, id string) (*models.Post, error)
	// Create stores post ahead of the existing ones. ID and CreatedAt are assigned when empty.
	Create(ctx context.Context, viewer Viewer, post *models.Post) error
	// Vote applies event for the viewer atomically and returns the updated post.
	Vote(ctx context.Context, viewer Viewer, id string, event models.VoteState) (*models.Post, error)
}

var errPostNotFound = errors.New("post not found")

type serverPostRepository struct {
	db      *database.Database
	timeout time.Duration
}

// NewServerPostRepository keeps posts in Postgres, shared by every profile. Votes are
// recorded per user.
func NewServerPostRepository(db *database.Database) PostRepository {
	return &serverPostRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *serverPostRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *serverPostRepository) List(ctx context.Context, viewer Viewer) ([]models.Post, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.db.WithContext(ctx)

	posts := []models.Post{}
	if err := db.Order("created_at DESC").Order("id").Find(&posts).Error; err != nil {
		return nil, err
	}

	if !viewer.Authenticated() || len(posts) == 0 {
		return posts, nil
	}

	var votes []models.PostVote
	if err := db.Where("user_id = ?", viewer.UserID).Find(&votes).Error; err != nil {
		return nil, err
	}
	byPost := make(map[string]models.VoteState, len(votes))
	for _, v := range votes {
		byPost[v.PostID] = v.Value
	}
	for i := range posts {
		posts[i].UserVote = byPost[posts[i].ID]
	}
	return posts, nil
}

func (r *serverPostRepository) FindByID(ctx context.Context, viewer Viewer, id string) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	db := r.db.WithContext(ctx)

	var post models.Post
	if err := db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if viewer.Authenticated() {
		state, err := findVote(db, viewer.UserID, id)
		if err != nil {
			return nil, err
		}
		post.UserVote = state
	}
	return &post, nil
}

func (r *serverPostRepository) Create(ctx context.Context, _ Viewer, post *models.Post) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	post.UserVote = models.VoteNone
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *serverPostRepository) Vote(ctx context.Context, viewer Viewer, id string, event models.VoteState) (*models.Post, error) {
	// ids are uuid columns; anything else cannot match
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errPostNotFound
			}
			return err
		}

		state, err := findVote(tx, viewer.UserID, id)
		if err != nil {
			return err
		}
		post.UserVote = state

		if !ranking.VotePost(&post, event, viewer.Authenticated()) {
			return nil
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
			"upvotes":   post.Upvotes,
			"downvotes": post.Downvotes,
		}).Error; err != nil {
			return err
		}

		if post.UserVote == models.VoteNone {
			return tx.Where("user_id = ? AND post_id = ?", viewer.UserID, id).Delete(&models.PostVote{}).Error
		}

		vote := models.PostVote{UserID: viewer.UserID, PostID: id, Value: post.UserVote}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&vote).Error
	})
	if err != nil {
		if errors.Is(err, errPostNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func findVote(db *gorm.DB, userID, postID string) (models.VoteState, error) {
	if userID == "" {
		return models.VoteNone, nil
	}
	var votes []models.PostVote
	if err := db.Where("user_id = ? AND post_id = ?", userID, postID).Limit(1).Find(&votes).Error; err != nil {
		return models.VoteNone, err
	}
	if len(votes) == 0 {
		return models.VoteNone, nil
	}
	return votes[0].Value, nil
}
