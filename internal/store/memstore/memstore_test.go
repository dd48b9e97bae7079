package memstore

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/Makepad-fr/clientdash/internal/errors"
	"github.com/Makepad-fr/clientdash/internal/model"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(ts time.Time) func() time.Time { return func() time.Time { return ts } }

func newTestStore(rs ...model.Record) *Store {
	return New(WithDelay(0, 0), WithClock(fixedClock(t0)), WithRecords(rs))
}

func rec(id, phone string, st model.Status) model.Record {
	return model.Record{ID: id, PhoneNumber: phone, Status: st, CreatedAt: t0, UpdatedAt: t0}
}

func ids(rs []model.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestQuery_SearchSubstring(t *testing.T) {
	s := newTestStore(
		rec("a", "+33123456789", model.StatusPending),
		rec("b", "+33987654321", model.StatusConfirmed),
	)
	got, err := s.Query(context.Background(), model.Filter{Search: "987"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("Query(search=987) = %v, want [b]", ids(got))
	}
}

func TestQuery_AllIsUnionOfStatuses(t *testing.T) {
	s := New(WithDelay(0, 0), WithRecords(Generate(30, rand.New(rand.NewPCG(1, 2)), t0)))
	ctx := context.Background()

	all, _ := s.Query(ctx, model.Filter{Status: model.StatusAll})
	pending, _ := s.Query(ctx, model.Filter{Status: model.StatusFilterPending})
	confirmed, _ := s.Query(ctx, model.Filter{Status: model.StatusFilterConfirmed})

	if len(all) != 30 {
		t.Fatalf("all = %d records, want 30", len(all))
	}
	if len(pending)+len(confirmed) != len(all) {
		t.Fatalf("pending %d + confirmed %d != all %d", len(pending), len(confirmed), len(all))
	}
	union := map[string]bool{}
	for _, r := range append(pending, confirmed...) {
		union[r.ID] = true
	}
	for _, r := range all {
		if !union[r.ID] {
			t.Errorf("%s missing from union", r.ID)
		}
	}
}

func TestQuery_ReturnsCopies(t *testing.T) {
	s := newTestStore(rec("a", "+331", model.StatusPending))
	got, _ := s.Query(context.Background(), model.Filter{})
	got[0].Status = model.StatusConfirmed

	again, _ := s.Query(context.Background(), model.Filter{})
	if again[0].Status != model.StatusPending {
		t.Error("mutating a query result must not affect the store")
	}
}

func TestMutate(t *testing.T) {
	s := newTestStore(rec("a", "+331", model.StatusPending))

	got, err := s.Mutate(context.Background(), "a", model.StatusPatch(model.StatusConfirmed))
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", got.Status)
	}
	if !got.UpdatedAt.After(t0) {
		t.Errorf("UpdatedAt %v should be after %v even with a frozen clock", got.UpdatedAt, t0)
	}

	second, _ := s.Mutate(context.Background(), "a", model.Patch{})
	if !second.UpdatedAt.After(got.UpdatedAt) {
		t.Errorf("UpdatedAt must increase on every mutation: %v then %v", got.UpdatedAt, second.UpdatedAt)
	}
}

func TestMutate_NotFoundLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore(rec("a", "+331", model.StatusPending))
	before := s.Snapshot()

	_, err := s.Mutate(context.Background(), "missing", model.StatusPatch(model.StatusConfirmed))
	if !errors.IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	after := s.Snapshot()
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("store changed: %+v -> %+v", before, after)
	}
}

func TestMutate_InvalidStatus(t *testing.T) {
	s := newTestStore(rec("a", "+331", model.StatusPending))
	bad := model.Status("done")
	_, err := s.Mutate(context.Background(), "a", model.Patch{Status: &bad})
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestQuery_HonoursContext(t *testing.T) {
	s := New(WithDelay(time.Hour, time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Query(ctx, model.Filter{}); err == nil {
		t.Error("Query with cancelled context should fail")
	}
	if _, err := s.Mutate(ctx, "x", model.Patch{}); err == nil {
		t.Error("Mutate with cancelled context should fail")
	}
}

func TestCreate(t *testing.T) {
	s := newTestStore(rec("a", "+331", model.StatusPending))

	r, err := s.Create(context.Background(), model.Record{PhoneNumber: "+33600000000"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(r.ID, "client-") {
		t.Errorf("id = %q, want client- prefix", r.ID)
	}
	if r.Status != model.StatusPending || r.CreatedAt != t0 {
		t.Errorf("defaults not applied: %+v", r)
	}
	all := s.Snapshot()
	if len(all) != 2 || all[1].ID != r.ID {
		t.Errorf("created record should be appended: %v", ids(all))
	}

	if _, err := s.Create(context.Background(), model.Record{ID: "a", PhoneNumber: "+332"}); err == nil {
		t.Error("creating a duplicate id should fail")
	}
	if _, err := s.Create(context.Background(), model.Record{}); err == nil {
		t.Error("creating without phone number should fail")
	}
}

func TestUpsert(t *testing.T) {
	s := newTestStore(rec("a", "+331", model.StatusPending), rec("b", "+332", model.StatusPending))

	if _, res := s.Upsert(rec("a", "+331", model.StatusPending)); res != Unchanged {
		t.Errorf("identical upsert = %v, want Unchanged", res)
	}
	r, res := s.Upsert(rec("a", "+331", model.StatusConfirmed))
	if res != Updated || r.Status != model.StatusConfirmed || !r.UpdatedAt.After(t0) {
		t.Errorf("update upsert = %v %+v", res, r)
	}
	if _, res := s.Upsert(rec("c", "+333", model.StatusPending)); res != Created {
		t.Errorf("new id upsert = %v, want Created", res)
	}
	if got := ids(s.Snapshot()); strings.Join(got, ",") != "a,b,c" {
		t.Errorf("order = %v, want a,b,c", got)
	}
}

func TestWithRecords_DropsDuplicates(t *testing.T) {
	s := newTestStore(rec("a", "+331", model.StatusPending), rec("a", "+332", model.StatusConfirmed))
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if s.Snapshot()[0].PhoneNumber != "+331" {
		t.Error("first occurrence should win")
	}
}

func TestGenerate(t *testing.T) {
	rs := Generate(DefaultSeedCount, rand.New(rand.NewPCG(7, 7)), t0)
	if len(rs) != DefaultSeedCount {
		t.Fatalf("len = %d", len(rs))
	}
	seen := map[string]bool{}
	for i, r := range rs {
		if seen[r.ID] {
			t.Errorf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
		if !strings.HasPrefix(r.PhoneNumber, "+33") || len(r.PhoneNumber) != 12 {
			t.Errorf("phone %q not a +33 nine-digit number", r.PhoneNumber)
		}
		if !r.Status.Valid() {
			t.Errorf("record %d has invalid status %q", i, r.Status)
		}
		if r.CreatedAt.After(t0) || r.CreatedAt.Before(t0.Add(-90*24*time.Hour)) {
			t.Errorf("createdAt %v outside the last 90 days", r.CreatedAt)
		}
	}
}
