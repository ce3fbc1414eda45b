package model

// Anime is an animes row.
type Anime struct {
	UID      int64  `json:"uid"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Aired    string `json:"aired"`
	Ended    string `json:"ended"`
	Episodes int32  `json:"episodes"`
	ImgURL   string `json:"img_url"`
}

// AnimeScore is the review average of one anime.
// Reviews is 0 when the title is unknown or has no reviews.
type AnimeScore struct {
	Title    string  `json:"title"`
	AvgScore float64 `json:"avg_score"`
	Reviews  int64   `json:"reviews"`
}

// RankedAnime is one row of the top ranking.
type RankedAnime struct {
	Title    string  `json:"title"`
	AvgScore float64 `json:"avg_score"`
	ImgURL   string  `json:"img_url"`
}

// FavoriteAnime is an anime marked as favorite by a profile.
type FavoriteAnime struct {
	Title  string `json:"title"`
	ImgURL string `json:"img_url"`
}
