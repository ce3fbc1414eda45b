package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/animedb/internal/cache"
	"github.com/deppfellow/animedb/internal/errs"
	"github.com/deppfellow/animedb/internal/logger"
	"github.com/deppfellow/animedb/internal/model"
	"github.com/deppfellow/animedb/internal/repository"
	"github.com/deppfellow/animedb/internal/sqlerr"
	"github.com/deppfellow/animedb/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// ProfileStore is the query catalog over profiles, animes, reviews,
// favorites and genres.
//
// It holds no state of its own besides the injected pool, so it is safe
// for concurrent use. Every method returns either a value and a nil
// error, or a zero value and an *errs.Error.
type ProfileStore struct {
	db       repository.TxDB
	repos    *repository.Repositories
	cache    *cache.Cache
	log      *zerolog.Logger
	hashCost int
}

// NewProfileStore builds a store. c may be nil to disable caching.
func NewProfileStore(db repository.TxDB, repos *repository.Repositories, c *cache.Cache, log *zerolog.Logger) *ProfileStore {
	return &ProfileStore{
		db:       db,
		repos:    repos,
		cache:    c,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

// fail converts err into an *errs.Error and logs it. Internal failures
// are logged at error level, expected outcomes (conflicts, bad input)
// at warn.
func (s *ProfileStore) fail(ctx context.Context, op string, err error) error {
	err = sqlerr.HandleError(err)

	log := logger.FromContext(ctx, s.log)
	evt := log.Error()
	var appErr *errs.Error
	if errors.As(err, &appErr) && appErr.Kind != errs.KindInternal {
		evt = log.Warn()
	}
	evt.Err(err).Str("op", op).Msg("profile store operation failed")

	return err
}

// ListProfiles returns at most two profiles, lowest id first.
func (s *ProfileStore) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.repos.Profiles.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list_profiles", err)
	}
	return profiles, nil
}

// GetProfileName returns the name of profile id. found is false for
// unknown ids.
func (s *ProfileStore) GetProfileName(ctx context.Context, id int64) (string, bool, error) {
	name, found, err := s.repos.Profiles.GetName(ctx, id)
	if err != nil {
		return "", false, s.fail(ctx, "get_profile_name", err)
	}
	return name, found, nil
}

// CountProfiles counts profiles with a non-null name.
func (s *ProfileStore) CountProfiles(ctx context.Context) (int64, error) {
	total, err := s.repos.Profiles.CountNamed(ctx)
	if err != nil {
		return 0, s.fail(ctx, "count_profiles", err)
	}
	return total, nil
}

// IsUsernameTaken reports whether a profile with exactly username exists.
func (s *ProfileStore) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	taken, err := s.repos.Profiles.ExistsByName(ctx, username)
	if err != nil {
		return false, s.fail(ctx, "is_username_taken", err)
	}
	return taken, nil
}

// createUserAttempts bounds CreateUser transactions retried after a
// serialization failure.
const createUserAttempts = 2

// CreateUser registers a profile.
//
// The name check, id assignment (number of named profiles + 1) and insert
// run in one serializable transaction. A taken name yields
// errs.ErrUsernameTaken. When a concurrent insert of the same name wins,
// PostgreSQL aborts this transaction with a serialization failure (or a
// unique violation if the key was not read first); the transaction is
// retried once, so the second attempt reports ErrUsernameTaken. A
// serialization failure that persists yields a KindConflict error.
func (s *ProfileStore) CreateUser(ctx context.Context, in model.NewProfile) (model.Profile, error) {
	if err := validation.Check(in); err != nil {
		return model.Profile{}, s.fail(ctx, "create_user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return model.Profile{}, s.fail(ctx, "create_user", errs.NewInvalidError("Validation failed", nil, []errs.FieldError{
			{Field: "password", Error: fmt.Sprintf("must not exceed %d bytes", model.MaxPasswordBytes)},
		}))
	}
	if err != nil {
		return model.Profile{}, s.fail(ctx, "create_user", fmt.Errorf("hash password: %w", err))
	}

	for attempt := 1; ; attempt++ {
		profile, err := s.createUserOnce(ctx, in, string(hash))
		if err == nil {
			logger.FromContext(ctx, s.log).Info().
				Int64("profile_id", profile.ID).
				Str("profile_name", profile.Name).
				Msg("profile created")
			return profile, nil
		}

		if attempt < createUserAttempts && sqlerr.ErrCode(err) == sqlerr.SerializationFailure {
			logger.FromContext(ctx, s.log).Debug().
				Err(err).
				Int("attempt", attempt).
				Msg("retrying create user after serialization failure")
			continue
		}
		return model.Profile{}, s.fail(ctx, "create_user", err)
	}
}

func (s *ProfileStore) createUserOnce(ctx context.Context, in model.NewProfile, hash string) (model.Profile, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return model.Profile{}, fmt.Errorf("begin tx: %w", err)
	}

	profile, err := s.createUserTx(ctx, s.repos.Profiles.WithTx(tx), in, hash)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.FromContext(ctx, s.log).Warn().Err(rbErr).Msg("rollback failed")
		}
		return model.Profile{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Profile{}, fmt.Errorf("commit: %w", err)
	}
	return profile, nil
}

func (s *ProfileStore) createUserTx(ctx context.Context, profiles *repository.ProfileRepository, in model.NewProfile, hash string) (model.Profile, error) {
	taken, err := profiles.ExistsByName(ctx, in.Name)
	if err != nil {
		return model.Profile{}, err
	}
	if taken {
		return model.Profile{}, errs.ErrUsernameTaken.WithMessage(fmt.Sprintf("username %q is already taken", in.Name))
	}

	total, err := profiles.CountNamed(ctx)
	if err != nil {
		return model.Profile{}, err
	}

	id := total + 1
	if err := profiles.Insert(ctx, id, in, hash); err != nil {
		return model.Profile{}, err
	}

	return model.Profile{
		ID:       id,
		Name:     in.Name,
		Gender:   in.Gender,
		Birthday: in.Birthday,
	}, nil
}

// CheckCredentials reports whether a profile named username exists and
// password matches its stored hash. Both comparisons are case-sensitive.
func (s *ProfileStore) CheckCredentials(ctx context.Context, username, password string) (bool, error) {
	hash, found, err := s.repos.Profiles.PasswordHash(ctx, username)
	if err != nil {
		return false, s.fail(ctx, "check_credentials", err)
	}
	if !found {
		return false, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		logger.FromContext(ctx, s.log).Warn().
			Err(err).
			Str("profile_name", username).
			Msg("stored password is not a bcrypt hash")
		return false, nil
	}
}

// GetAnimeAvgScore returns the average review score of the anime titled title.
func (s *ProfileStore) GetAnimeAvgScore(ctx context.Context, title string) (model.AnimeScore, error) {
	score, err := s.repos.Animes.AvgScoreByTitle(ctx, title)
	if err != nil {
		return model.AnimeScore{}, s.fail(ctx, "get_anime_avg_score", err)
	}
	return score, nil
}

type topAnimesQuery struct {
	K          int `json:"k" validate:"gt=0,lte=1000"`
	MinReviews int `json:"min_reviews" validate:"gte=0"`
}

func (q topAnimesQuery) Validate() error { return validation.Struct(q) }

// GetTopAnimes returns up to k animes reviewed by more than minReviews
// distinct profiles, best average score first.
func (s *ProfileStore) GetTopAnimes(ctx context.Context, k, minReviews int) ([]model.RankedAnime, error) {
	if err := validation.Check(topAnimesQuery{K: k, MinReviews: minReviews}); err != nil {
		return nil, s.fail(ctx, "get_top_animes", err)
	}

	top, err := cache.Remember(ctx, s.cache, cache.Key("top", k, minReviews),
		func(ctx context.Context) ([]model.RankedAnime, error) {
			return s.repos.Animes.Top(ctx, k, minReviews)
		})
	if err != nil {
		return nil, s.fail(ctx, "get_top_animes", err)
	}
	return top, nil
}

// GetUserFavoriteAnimes returns the favorite animes of profile profileID.
func (s *ProfileStore) GetUserFavoriteAnimes(ctx context.Context, profileID int64) ([]model.FavoriteAnime, error) {
	favorites, err := s.repos.Favorites.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, s.fail(ctx, "get_user_favorite_animes", err)
	}
	return favorites, nil
}

// GetAllGenres returns every distinct genre name, sorted.
func (s *ProfileStore) GetAllGenres(ctx context.Context) ([]string, error) {
	genres, err := cache.Remember(ctx, s.cache, cache.Key("genres"), s.repos.Animes.Genres)
	if err != nil {
		return nil, s.fail(ctx, "get_all_genres", err)
	}
	return genres, nil
}

// ParseGenreList splits a comma-separated genre list, trimming blanks
// and dropping empty and repeated entries. Matching stays case-sensitive.
func ParseGenreList(list string) []string {
	return normalizeGenres(strings.Split(list, ","))
}

func normalizeGenres(genres []string) []string {
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// GetAnimeByGenreList returns the animes tagged with any of genres, each
// once. An empty list matches nothing.
func (s *ProfileStore) GetAnimeByGenreList(ctx context.Context, genres []string) ([]model.Anime, error) {
	genres = normalizeGenres(genres)
	if len(genres) == 0 {
		return []model.Anime{}, nil
	}

	animes, err := s.repos.Animes.ByGenres(ctx, genres)
	if err != nil {
		return nil, s.fail(ctx, "get_anime_by_genre_list", err)
	}
	return animes, nil
}

type mostActiveQuery struct {
	K int `json:"k" validate:"gt=0,lte=1000"`
}

func (q mostActiveQuery) Validate() error { return validation.Struct(q) }

// GetMostActiveUsers returns the k reviewers with the most reviews.
func (s *ProfileStore) GetMostActiveUsers(ctx context.Context, k int) ([]model.ActiveReviewer, error) {
	if err := validation.Check(mostActiveQuery{K: k}); err != nil {
		return nil, s.fail(ctx, "get_most_active_users", err)
	}

	reviewers, err := s.repos.Reviews.MostActive(ctx, k)
	if err != nil {
		return nil, s.fail(ctx, "get_most_active_users", err)
	}
	return reviewers, nil
}
