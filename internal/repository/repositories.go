package repository

// Repositories is a container for all repository instances.
type Repositories struct {
	Profiles  *ProfileRepository
	Animes    *AnimeRepository
	Favorites *FavoriteRepository
	Reviews   *ReviewRepository
}

// NewRepositories constructs every repository over the same db handle
// (normally the shared pool).
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Profiles:  NewProfileRepository(db),
		Animes:    NewAnimeRepository(db),
		Favorites: NewFavoriteRepository(db),
		Reviews:   NewReviewRepository(db),
	}
}
