package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Makepad-fr/clientdash/internal/event"
	"github.com/Makepad-fr/clientdash/internal/store/jsonstore"
	"github.com/Makepad-fr/clientdash/internal/store/memstore"
)

const watchDebounce = 100 * time.Millisecond

// Watch reloads path whenever it is written and upserts its records into
// the store. New ids are published as created, changed records as updated.
// The parent directory is watched so atomic rename-on-save is seen.
func (s *Server) Watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	s.log.Info("watching seed file", "path", abs)

	// Debounce: editors emit several events per save
	debounce := time.NewTimer(0)
	<-debounce.C
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = true
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			if pending {
				pending = false
				s.Reload(abs)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watch error", "error", err.Error())
		}
	}
}

// Reload upserts the records in path and publishes what changed.
func (s *Server) Reload(path string) (created, updated int) {
	rs, err := jsonstore.Load(path)
	if err != nil {
		s.log.Warn("seed reload failed", "path", path, "error", err.Error())
		return 0, 0
	}
	for _, r := range rs {
		rec, res := s.store.Upsert(r)
		switch res {
		case memstore.Created:
			created++
			s.bus.Publish(event.NewRecordCreated(rec))
		case memstore.Updated:
			updated++
			s.bus.Publish(event.NewRecordUpdated(rec))
		}
	}
	s.log.Info("seed reloaded", "path", path, "created", created, "updated", updated)
	return created, updated
}
