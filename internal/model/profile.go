// Package model holds the rows returned by the store.
package model

import (
	"fmt"

	"github.com/deppfellow/animedb/internal/validation"
)

// Profile is a profiles row without its password.
type Profile struct {
	ID       int64  `json:"id"`
	Name     string `json:"profile_name"`
	Gender   string `json:"gender"`
	Birthday string `json:"birthday"`
}

// NewProfile is the input of ProfileStore.CreateUser.
type NewProfile struct {
	Name     string `json:"profile_name" validate:"required,max=64"`
	Gender   string `json:"gender" validate:"omitempty,max=16"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Password string `json:"password" validate:"required,max=72"`
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

func (p NewProfile) Validate() error {
	if err := validation.Struct(p); err != nil {
		return err
	}

	// The max tag counts runes; bcrypt limits bytes.
	if len(p.Password) > MaxPasswordBytes {
		return validation.CustomValidationErrors{
			{Field: "password", Message: fmt.Sprintf("must not exceed %d bytes", MaxPasswordBytes)},
		}
	}
	return nil
}

// ActiveReviewer is one row of the activity leaderboard.
type ActiveReviewer struct {
	Profile string `json:"profile"`
	Reviews int64  `json:"num_of_reviews"`
}
