package cli

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Makepad-fr/clientdash/internal/config"
	"github.com/Makepad-fr/clientdash/internal/model"
	"github.com/Makepad-fr/clientdash/internal/store"
	"github.com/Makepad-fr/clientdash/internal/store/httpstore"
	"github.com/Makepad-fr/clientdash/internal/store/jsonstore"
	"github.com/Makepad-fr/clientdash/internal/store/memstore"
)

// generatorSeed keeps generated clients stable between invocations.
const generatorSeed = 20

// openStore returns the remote store when store.url is set, otherwise a
// mock store seeded from store.seed_file or generated clients.
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Store.URL != "" {
		return httpstore.New(cfg.Store.URL, cfg.Store.Timeout)
	}
	return openMemstore(cfg)
}

func openMemstore(cfg *config.Config) (*memstore.Store, error) {
	seed, err := seedRecords(cfg)
	if err != nil {
		return nil, err
	}
	return memstore.New(
		memstore.WithDelay(cfg.Store.QueryDelay, cfg.Store.UpdateDelay),
		memstore.WithRecords(seed),
	), nil
}

func seedRecords(cfg *config.Config) ([]model.Record, error) {
	if cfg.Store.SeedFile != "" {
		rs, err := jsonstore.Load(cfg.Store.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("load seed file: %w", err)
		}
		return rs, nil
	}
	rng := rand.New(rand.NewPCG(generatorSeed, uint64(cfg.Store.SeedCount)))
	return memstore.Generate(cfg.Store.SeedCount, rng, time.Now()), nil
}

// persist writes a seeded mock store back to its seed file so one-shot
// edits survive the process. Remote and generated stores are left alone.
func persist(cfg *config.Config, s store.Store) (bool, error) {
	ms, ok := s.(*memstore.Store)
	if !ok || cfg.Store.SeedFile == "" {
		return false, nil
	}
	if err := jsonstore.Save(cfg.Store.SeedFile, ms.Snapshot()); err != nil {
		return false, fmt.Errorf("save seed file: %w", err)
	}
	return true, nil
}
