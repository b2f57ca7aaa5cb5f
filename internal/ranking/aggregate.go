// Package ranking holds the review aggregation and community post ranking rules.
// Everything here is pure: callers load the collections and persist the results.
package ranking

import (
	"sort"

	"cinereview-backend/internal/models"
)

// TopRatedLimit is the number of movies returned by TopRated.
const TopRatedLimit = 10

// Aggregate returns the arithmetic mean and the number of ratings.
// An empty set averages to 0.
func Aggregate(ratings []float64) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return sum / float64(len(ratings)), len(ratings)
}

// AggregateReviews is Aggregate over the ratings of reviews.
func AggregateReviews(reviews []models.Review) (float64, int) {
	ratings := make([]float64, len(reviews))
	for i, r := range reviews {
		ratings[i] = r.Rating
	}
	return Aggregate(ratings)
}

// TopRated ranks movies by the mean of their reviews. Movies without reviews are dropped.
// Order: mean desc, then review count desc, then movie id asc. At most TopRatedLimit entries.
func TopRated(movies []models.Movie) []models.RankedMovie {
	ranked := make([]models.RankedMovie, 0, len(movies))
	for _, m := range movies {
		avg, count := AggregateReviews(m.Reviews)
		if count == 0 {
			continue
		}
		ranked = append(ranked, models.RankedMovie{
			ID:            m.ID,
			Title:         m.Title,
			Year:          m.Year,
			Poster:        m.Poster,
			AverageRating: avg,
			ReviewCount:   count,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.ID < b.ID
	})

	if len(ranked) > TopRatedLimit {
		ranked = ranked[:TopRatedLimit]
	}
	return ranked
}
