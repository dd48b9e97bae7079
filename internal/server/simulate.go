package server

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/Makepad-fr/clientdash/internal/event"
	"github.com/Makepad-fr/clientdash/internal/model"
	"github.com/Makepad-fr/clientdash/internal/store/memstore"
)

// Simulate changes the store on every tick until ctx is done: a random
// client is created or a random client's status is flipped, and the change
// is published like any API call.
func (s *Server) Simulate(ctx context.Context, interval time.Duration, rng *rand.Rand) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			s.SimulateOnce(ctx, rng)
		}
	}
}

// SimulateOnce applies one random change.
func (s *Server) SimulateOnce(ctx context.Context, rng *rand.Rand) {
	all := s.store.Snapshot()
	if len(all) == 0 || rng.IntN(3) == 0 {
		rec, err := s.store.Create(ctx, model.Record{
			PhoneNumber: memstore.RandomPhone(rng),
			Name:        memstore.RandomName(rng),
			Status:      memstore.RandomStatus(rng),
		})
		if err != nil {
			s.log.Warn("simulated create failed", "error", err.Error())
			return
		}
		s.log.Debug("simulated create", "id", rec.ID)
		s.bus.Publish(event.NewRecordCreated(rec))
		return
	}

	target := all[rng.IntN(len(all))]
	rec, err := s.store.Mutate(ctx, target.ID, model.StatusPatch(target.Status.Toggle()))
	if err != nil {
		s.log.Warn("simulated update failed", "id", target.ID, "error", err.Error())
		return
	}
	s.log.Debug("simulated update", "id", rec.ID, "status", string(rec.Status))
	s.bus.Publish(event.NewRecordUpdated(rec))
}
