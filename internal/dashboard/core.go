// Package dashboard keeps the client list shown to the operator consistent
// while three sources change it: filtered loads from the store, the
// operator's own status edits, and events pushed by the realtime channel.
//
// A Core has exactly one mutator. It is not safe for concurrent use; the TUI
// drives it from the Bubble Tea update loop and runs the blocking halves
// (Fetch, Mutate) in commands whose results come back as messages.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/Makepad-fr/clientdash/internal/errors"
	"github.com/Makepad-fr/clientdash/internal/logging"
	"github.com/Makepad-fr/clientdash/internal/model"
	"github.com/Makepad-fr/clientdash/internal/realtime"
	"github.com/Makepad-fr/clientdash/internal/store"
)

// RefreshMode selects what happens after a successful status edit.
type RefreshMode string

const (
	// RefreshRequery reloads the list with the current filter. An edited
	// record that no longer matches the filter leaves the view.
	RefreshRequery RefreshMode = "requery"
	// RefreshPatch replaces the edited record in place and then drops it if
	// it no longer matches the filter. No extra round trip.
	RefreshPatch RefreshMode = "patch"
)

// ParseRefreshMode accepts requery or patch. Empty means requery.
func ParseRefreshMode(s string) (RefreshMode, error) {
	switch m := RefreshMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", RefreshRequery:
		return RefreshRequery, nil
	case RefreshPatch:
		return m, nil
	default:
		return "", fmt.Errorf("unknown refresh mode %q (want requery or patch)", s)
	}
}

// LoadRequest identifies one issued load.
type LoadRequest struct {
	Seq    uint64
	Filter model.Filter
}

// LoadResult is the store's answer to a LoadRequest.
type LoadResult struct {
	Seq     uint64
	Filter  model.Filter
	Records []model.Record
	Err     error
}

// MutateResult is the store's answer to a status edit.
type MutateResult struct {
	ID     string
	Status model.Status
	Record model.Record
	Err    error
}

// Core owns the working set.
type Core struct {
	records []model.Record
	filter  model.Filter
	seq     uint64 // last issued load
	loading bool
	lastErr error

	mode RefreshMode
	log  *logging.Logger
}

// Option configures a Core.
type Option func(*Core)

// WithRefreshMode sets the post-edit refresh policy.
func WithRefreshMode(m RefreshMode) Option {
	return func(c *Core) { c.mode = m }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Core) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Core with an empty working set.
func New(opts ...Option) *Core {
	c := &Core{
		filter: model.Filter{Status: model.StatusAll},
		mode:   RefreshRequery,
		log:    logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("dashboard")
	return c
}

// BeginLoad records f as the active filter and issues a new request. The
// core is loading until the result for this request, or a later one, is
// applied.
func (c *Core) BeginLoad(f model.Filter) LoadRequest {
	if f.Status == "" {
		f.Status = model.StatusAll
	}
	c.seq++
	c.filter = f
	c.loading = true
	return LoadRequest{Seq: c.seq, Filter: f}
}

// Fetch runs the query for req. It blocks until the store answers.
func Fetch(ctx context.Context, s store.Store, req LoadRequest) LoadResult {
	res := LoadResult{Seq: req.Seq, Filter: req.Filter}
	rs, err := s.Query(ctx, req.Filter)
	if err != nil {
		res.Err = errors.NewLoadError(req.Filter.String(), err)
		return res
	}
	res.Records = rs
	return res
}

// ApplyLoad installs a load result. Results for anything but the latest
// request are discarded with ErrStaleResult. A failed load keeps the previous
// working set. Either way the loading flag is cleared for the latest request.
func (c *Core) ApplyLoad(res LoadResult) error {
	if res.Seq != c.seq {
		c.log.Debug("stale load discarded", "seq", res.Seq, "latest", c.seq, "filter", res.Filter.String())
		return errors.ErrStaleResult
	}
	c.loading = false
	if res.Err != nil {
		c.lastErr = res.Err
		c.log.Error("load failed, keeping previous list", "error", res.Err.Error(), "kept", len(c.records))
		return res.Err
	}
	c.records = append(make([]model.Record, 0, len(res.Records)), res.Records...)
	c.lastErr = nil
	c.log.Debug("loaded", "seq", res.Seq, "filter", res.Filter.String(), "count", len(c.records))
	return nil
}

// Load replaces the working set with the records matching f.
func (c *Core) Load(ctx context.Context, s store.Store, f model.Filter) ([]model.Record, error) {
	req := c.BeginLoad(f)
	if err := c.ApplyLoad(Fetch(ctx, s, req)); err != nil {
		return nil, err
	}
	return c.Records(), nil
}

// Mutate asks the store to set the status of id. It blocks until the store
// answers and does not touch any Core.
func Mutate(ctx context.Context, s store.Store, id string, st model.Status) MutateResult {
	res := MutateResult{ID: id, Status: st}
	r, err := s.Mutate(ctx, id, model.StatusPatch(st))
	if err != nil {
		res.Err = errors.NewUpdateError(id, err)
		return res
	}
	res.Record = r
	return res
}

// ApplyMutate folds an edit result into the view. On failure nothing
// changes. On success in requery mode it returns a new load request for the
// caller to fetch; in patch mode the record is spliced in directly.
func (c *Core) ApplyMutate(res MutateResult) (LoadRequest, bool, error) {
	if res.Err != nil {
		c.lastErr = res.Err
		c.log.Error("status change rejected", "id", res.ID, "status", string(res.Status), "error", res.Err.Error())
		return LoadRequest{}, false, res.Err
	}
	c.log.Info("status changed", "id", res.ID, "status", string(res.Record.Status))
	if c.mode == RefreshPatch {
		c.patch(res.Record)
		return LoadRequest{}, false, nil
	}
	return c.BeginLoad(c.filter), true, nil
}

// ApplyStatusChange edits id and refreshes the view. If the edit succeeds but
// the follow-up reload fails, the updated record is returned with the
// LoadError.
func (c *Core) ApplyStatusChange(ctx context.Context, s store.Store, id string, st model.Status) (model.Record, error) {
	res := Mutate(ctx, s, id, st)
	req, reload, err := c.ApplyMutate(res)
	if err != nil {
		return model.Record{}, err
	}
	if reload {
		if err := c.ApplyLoad(Fetch(ctx, s, req)); err != nil {
			return res.Record, err
		}
	}
	return res.Record, nil
}

func (c *Core) patch(r model.Record) {
	keep := c.filter.Matches(r)
	out := c.records[:0]
	for _, cur := range c.records {
		if cur.ID == r.ID {
			if !keep {
				continue
			}
			cur = r
		}
		out = append(out, cur)
	}
	c.records = out
}

// OnExternalUpdate replaces every entry with r's id, keeping positions.
// It reports whether anything matched; an unknown id is ignored, not created.
func (c *Core) OnExternalUpdate(r model.Record) bool {
	matched := false
	for i := range c.records {
		if c.records[i].ID == r.ID {
			c.records[i] = r
			matched = true
		}
	}
	if !matched {
		c.log.Debug("update for unknown client ignored", "id", r.ID)
	}
	return matched
}

// OnExternalCreate appends r. Ids are not checked for duplicates.
func (c *Core) OnExternalCreate(r model.Record) {
	c.records = append(c.records, r)
}

// Apply routes a pushed event to OnExternalCreate or OnExternalUpdate.
func (c *Core) Apply(ev realtime.Event) {
	switch ev.Kind {
	case realtime.KindCreated:
		c.OnExternalCreate(ev.Record)
	case realtime.KindUpdated:
		c.OnExternalUpdate(ev.Record)
	default:
		c.log.Warn("unknown event kind", "kind", string(ev.Kind))
	}
}

// Records returns a copy of the working set.
func (c *Core) Records() []model.Record {
	return append([]model.Record(nil), c.records...)
}

// Len returns the working set size.
func (c *Core) Len() int { return len(c.records) }

// Statistics computes the summary of the current working set.
func (c *Core) Statistics() Statistics { return ComputeStatistics(c.records) }

// Loading reports whether the latest load is still outstanding.
func (c *Core) Loading() bool { return c.loading }

// Filter returns the filter of the latest load.
func (c *Core) Filter() model.Filter { return c.filter }

// Empty reports a settled, empty result: the "no results" state.
func (c *Core) Empty() bool { return !c.loading && len(c.records) == 0 }

// LastError returns the most recent load or edit failure, cleared by the
// next successful load.
func (c *Core) LastError() error { return c.lastErr }
