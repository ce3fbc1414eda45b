package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/animedb/internal/model"
)

type FavoriteRepository struct {
	db DBTX
}

func NewFavoriteRepository(db DBTX) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// ListByProfile returns the favorite animes of profileID, by title.
func (r *FavoriteRepository) ListByProfile(ctx context.Context, profileID int64) ([]model.FavoriteAnime, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.title, COALESCE(a.img_url, '')
		FROM favorites f
		JOIN animes a ON a.uid = f.fav_anime_id
		WHERE f.profile_id = $1
		ORDER BY a.title
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := []model.FavoriteAnime{}
	for rows.Next() {
		var f model.FavoriteAnime
		if err := rows.Scan(&f.Title, &f.ImgURL); err != nil {
			return nil, fmt.Errorf("scan favorite row: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
