package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/animedb/internal/model"
	"github.com/jackc/pgx/v5"
)

// ProfileListLimit caps ListProfiles.
const ProfileListLimit = 2

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *ProfileRepository) WithTx(tx DBTX) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

func (r *ProfileRepository) List(ctx context.Context) ([]model.Profile, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, profile_name, COALESCE(gender, ''), COALESCE(to_char(birthday, 'YYYY-MM-DD'), '')
		FROM profiles
		ORDER BY id
		LIMIT $1
	`, ProfileListLimit)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	out := make([]model.Profile, 0, ProfileListLimit)
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Gender, &p.Birthday); err != nil {
			return nil, fmt.Errorf("scan profile row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// GetName returns the profile name for id. found is false when no
// profile has that id.
func (r *ProfileRepository) GetName(ctx context.Context, id int64) (name string, found bool, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT profile_name
		FROM profiles
		WHERE id = $1
	`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get profile name: %w", err)
	}
	return name, true, nil
}

// CountNamed counts profiles with a non-null profile_name.
func (r *ProfileRepository) CountNamed(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(profile_name)
		FROM profiles
	`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return total, nil
}

// ExistsByName reports whether a profile with exactly this name exists.
func (r *ProfileRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM profiles WHERE profile_name = $1)
	`, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check profile name: %w", err)
	}
	return exists, nil
}

// Insert writes a new profile row. Empty gender and birthday are stored as NULL.
func (r *ProfileRepository) Insert(ctx context.Context, id int64, p model.NewProfile, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (id, profile_name, password, gender, birthday)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, '')::date)
	`, id, p.Name, passwordHash, p.Gender, p.Birthday)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// PasswordHash returns the stored password hash for name. found is false
// when no profile has that name.
func (r *ProfileRepository) PasswordHash(ctx context.Context, name string) (hash string, found bool, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT password
		FROM profiles
		WHERE profile_name = $1
	`, name).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get password hash: %w", err)
	}
	return hash, true, nil
}
