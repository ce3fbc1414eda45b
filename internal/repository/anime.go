package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/animedb/internal/model"
	"github.com/jackc/pgx/v5"
)

type AnimeRepository struct {
	db DBTX
}

func NewAnimeRepository(db DBTX) *AnimeRepository {
	return &AnimeRepository{db: db}
}

// AvgScoreByTitle averages the review scores of the anime titled title.
// When several animes share the title the one with the lowest uid is used.
func (r *AnimeRepository) AvgScoreByTitle(ctx context.Context, title string) (model.AnimeScore, error) {
	score := model.AnimeScore{Title: title}
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(score), COALESCE(AVG(score), 0)::float8
		FROM reviews
		WHERE anime_uid = (
			SELECT uid FROM animes WHERE title = $1 ORDER BY uid LIMIT 1
		)
	`, title).Scan(&score.Reviews, &score.AvgScore)
	if err != nil {
		return model.AnimeScore{}, fmt.Errorf("anime avg score: %w", err)
	}
	return score, nil
}

// Top ranks animes reviewed by more than minReviews distinct profiles by
// average score, best first, and returns at most k of them.
func (r *AnimeRepository) Top(ctx context.Context, k, minReviews int) ([]model.RankedAnime, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.title, t.avg_score, COALESCE(a.img_url, '')
		FROM (
			SELECT anime_uid, AVG(score)::float8 AS avg_score
			FROM reviews
			GROUP BY anime_uid
			HAVING COUNT(DISTINCT profile) > $1
			ORDER BY avg_score DESC, anime_uid
			LIMIT $2
		) AS t
		JOIN animes a ON a.uid = t.anime_uid
		ORDER BY t.avg_score DESC, a.uid
	`, minReviews, k)
	if err != nil {
		return nil, fmt.Errorf("top animes: %w", err)
	}
	defer rows.Close()

	out := []model.RankedAnime{}
	for rows.Next() {
		var a model.RankedAnime
		if err := rows.Scan(&a.Title, &a.AvgScore, &a.ImgURL); err != nil {
			return nil, fmt.Errorf("scan ranked anime row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Genres lists distinct genre names in alphabetical order.
func (r *AnimeRepository) Genres(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT genre_name
		FROM anime_genre
		ORDER BY genre_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	genres, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect genres: %w", err)
	}
	return genres, nil
}

// ByGenres returns every anime tagged with at least one of genres, once each.
// The list is bound as a single text[] parameter.
func (r *AnimeRepository) ByGenres(ctx context.Context, genres []string) ([]model.Anime, error) {
	rows, err := r.db.Query(ctx, `
		SELECT uid, title, COALESCE(summary, ''), COALESCE(aired, ''), COALESCE(ended, ''),
			COALESCE(episodes, 0), COALESCE(img_url, '')
		FROM animes
		WHERE uid IN (
			SELECT anime_id FROM anime_genre WHERE genre_name = ANY($1)
		)
		ORDER BY uid
	`, genres)
	if err != nil {
		return nil, fmt.Errorf("animes by genre: %w", err)
	}
	defer rows.Close()

	out := []model.Anime{}
	for rows.Next() {
		var a model.Anime
		if err := rows.Scan(&a.UID, &a.Title, &a.Summary, &a.Aired, &a.Ended, &a.Episodes, &a.ImgURL); err != nil {
			return nil, fmt.Errorf("scan anime row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
