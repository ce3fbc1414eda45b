package service

import (
	"github.com/deppfellow/animedb/internal/cache"
	"github.com/deppfellow/animedb/internal/repository"
	"github.com/rs/zerolog"
)

// Services groups everything callers interact with.
type Services struct {
	Store  *ProfileStore
	Health *HealthService
}

// Deps are the process-scoped resources services are built from.
type Deps struct {
	DB          repository.TxDB
	Cache       *cache.Cache
	Logger      *zerolog.Logger
	Environment string
	Pinger      Pinger
	CachePinger Pinger
}

func NewServices(d Deps, repos *repository.Repositories) *Services {
	return &Services{
		Store:  NewProfileStore(d.DB, repos, d.Cache, d.Logger),
		Health: NewHealthService(d.Environment, d.Pinger, d.CachePinger, d.Logger),
	}
}
