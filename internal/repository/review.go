package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/animedb/internal/model"
)

type ReviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// MostActive returns the k reviewers with the most reviews. Ties are
// broken by reviewer name so the ranking is stable.
func (r *ReviewRepository) MostActive(ctx context.Context, k int) ([]model.ActiveReviewer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT profile, COUNT(profile) AS num_of_reviews
		FROM reviews
		GROUP BY profile
		ORDER BY num_of_reviews DESC, profile
		LIMIT $1
	`, k)
	if err != nil {
		return nil, fmt.Errorf("most active reviewers: %w", err)
	}
	defer rows.Close()

	out := []model.ActiveReviewer{}
	for rows.Next() {
		var a model.ActiveReviewer
		if err := rows.Scan(&a.Profile, &a.Reviews); err != nil {
			return nil, fmt.Errorf("scan reviewer row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
