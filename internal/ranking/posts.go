package ranking

import (
	"sort"
	"strings"
	"time"

	"cinereview-backend/internal/models"
)

type SortOrder string

const (
	SortHot SortOrder = "hot"
	SortNew SortOrder = "new"
	SortTop SortOrder = "top"
)

// HotAgeDivisor converts a post's age in milliseconds into hot-score points.
// One point per 100 seconds of age.
const HotAgeDivisor = 100000.0

// ParseSortOrder maps a query value to a SortOrder. Unknown values give SortHot.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortNew:
		return SortNew
	case SortTop:
		return SortTop
	default:
		return SortHot
	}
}

// Score is upvotes minus downvotes. It may be negative.
func Score(p models.Post) int {
	return p.Upvotes - p.Downvotes
}

// HotScore is Score plus the post's age in milliseconds divided by HotAgeDivisor.
// Older posts get a larger bonus.
func HotScore(p models.Post, now time.Time) float64 {
	age := now.Sub(p.CreatedAt).Milliseconds()
	return float64(Score(p)) + float64(age)/HotAgeDivisor
}

// Matches reports whether query is a case-insensitive substring of the post's title,
// content or movie title. An empty query matches everything.
func Matches(p models.Post, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q) {
		return true
	}
	return p.MovieTitle != nil && strings.Contains(strings.ToLower(*p.MovieTitle), q)
}

// Filter returns the posts matching query, keeping their order.
func Filter(posts []models.Post, query string) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if Matches(p, query) {
			out = append(out, p)
		}
	}
	return out
}

// Sort orders posts in place, highest first. The sort is stable, so posts with equal keys
// keep their incoming order.
func Sort(posts []models.Post, order SortOrder, now time.Time) {
	switch order {
	case SortNew:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		})
	case SortTop:
		sort.SliceStable(posts, func(i, j int) bool {
			return Score(posts[i]) > Score(posts[j])
		})
	default:
		hot := make(map[string]float64, len(posts))
		for _, p := range posts {
			hot[p.ID] = HotScore(p, now)
		}
		sort.SliceStable(posts, func(i, j int) bool {
			return hot[posts[i].ID] > hot[posts[j].ID]
		})
	}
}

// Rank filters posts by query and sorts the result by order. The input slice is not modified.
func Rank(posts []models.Post, query string, order SortOrder, now time.Time) []models.Post {
	ranked := Filter(posts, query)
	Sort(ranked, order, now)
	return ranked
}
