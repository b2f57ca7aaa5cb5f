package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"cinereview-backend/internal/models"
	"cinereview-backend/internal/ranking"
	"cinereview-backend/internal/storage"

	"github.com/google/uuid"
)

const localPostsKeyPrefix = "communityPosts:"

// ErrNoProfile is returned by the local store when the viewer carries no profile id.
var ErrNoProfile = errors.New("viewer has no profile id")

type localPostRepository struct {
	store storage.BlobStore
	mu    sync.Mutex
	now   func() time.Time
}

// NewLocalPostRepository keeps the whole post list of each browser profile in one blob.
// Posts created in one profile are not visible from another.
func NewLocalPostRepository(store storage.BlobStore) PostRepository {
	return &localPostRepository{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func localPostsKey(profileID string) string {
	return localPostsKeyPrefix + profileID
}

func (r *localPostRepository) load(ctx context.Context, viewer Viewer) ([]models.Post, error) {
	if viewer.ProfileID == "" {
		return nil, ErrNoProfile
	}

	data, err := r.store.Get(ctx, localPostsKey(viewer.ProfileID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []models.Post{}, nil
		}
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	posts := []models.Post{}
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

func (r *localPostRepository) save(ctx context.Context, viewer Viewer, posts []models.Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}
	if err := r.store.Put(ctx, localPostsKey(viewer.ProfileID), data); err != nil {
		return fmt.Errorf("failed to save posts: %w", err)
	}
	return nil
}

func (r *localPostRepository) List(ctx context.Context, viewer Viewer) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx, viewer)
}

func (r *localPostRepository) FindByID(ctx context.Context, viewer Viewer, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx, viewer)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID == id {
			return &posts[i], nil
		}
	}
	return nil, nil
}

func (r *localPostRepository) Create(ctx context.Context, viewer Viewer, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx, viewer)
	if err != nil {
		return err
	}

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = r.now()
	}
	post.UserVote = models.VoteNone

	return r.save(ctx, viewer, append([]models.Post{*post}, posts...))
}

func (r *localPostRepository) Vote(ctx context.Context, viewer Viewer, id string, event models.VoteState) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx, viewer)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		if ranking.VotePost(&posts[i], event, viewer.Authenticated()) {
			if err := r.save(ctx, viewer, posts); err != nil {
				return nil, err
			}
		}
		post := posts[i]
		return &post, nil
	}
	return nil, nil
}
