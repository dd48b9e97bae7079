package model

import (
	"fmt"
	"strings"
)

// StatusFilter selects records by status. StatusAll imposes no constraint.
type StatusFilter string

const (
	StatusAll             StatusFilter = "all"
	StatusFilterPending   StatusFilter = StatusFilter(StatusPending)
	StatusFilterConfirmed StatusFilter = StatusFilter(StatusConfirmed)
)

// StatusFilters lists the filters in the order the UI cycles through them.
func StatusFilters() []StatusFilter {
	return []StatusFilter{StatusAll, StatusFilterPending, StatusFilterConfirmed}
}

// ParseStatusFilter accepts all, pending or confirmed. Empty means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", StatusAll:
		return StatusAll, nil
	case StatusFilterPending, StatusFilterConfirmed:
		return f, nil
	default:
		return "", fmt.Errorf("unknown status filter %q (want all, pending or confirmed)", s)
	}
}

// Next returns the filter after f in the cycle.
func (f StatusFilter) Next() StatusFilter {
	all := StatusFilters()
	for i, x := range all {
		if x == f {
			return all[(i+1)%len(all)]
		}
	}
	return StatusAll
}

// Filter is the operator's current view selection.
type Filter struct {
	Status StatusFilter
	Search string
}

// Matches reports whether r passes both constraints. Search is a
// case-sensitive substring match on the phone number, no normalization.
func (f Filter) Matches(r Record) bool {
	if f.Status != "" && f.Status != StatusAll && Status(f.Status) != r.Status {
		return false
	}
	if f.Search != "" && !strings.Contains(r.PhoneNumber, f.Search) {
		return false
	}
	return true
}

// Apply returns the records of rs that match f, preserving order.
func (f Filter) Apply(rs []Record) []Record {
	out := make([]Record, 0, len(rs))
	for _, r := range rs {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f Filter) String() string {
	st := f.Status
	if st == "" {
		st = StatusAll
	}
	if f.Search == "" {
		return string(st)
	}
	return fmt.Sprintf("%s search=%q", st, f.Search)
}
