package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a client.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
)

// Toggle flips pending <-> confirmed.
func (s Status) Toggle() Status {
	if s == StatusConfirmed {
		return StatusPending
	}
	return StatusConfirmed
}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ParseStatus accepts "pending" or "confirmed" in any case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q (want pending or confirmed)", s)
	}
	return st, nil
}

// Record is one client entry as exchanged with the store and the push channel.
// Field names match the dashboard's JSON wire format.
type Record struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Name        string    `json:"name,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DisplayName returns the name, or the phone number when no name is known.
func (r Record) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.PhoneNumber
}

// Patch is a partial update. A nil field is left untouched.
type Patch struct {
	Status *Status `json:"status,omitempty"`
}

// StatusPatch builds a patch that only sets status.
func StatusPatch(s Status) Patch {
	return Patch{Status: &s}
}

// Apply returns r with the patch fields copied over. UpdatedAt is not touched;
// stamping is the store's job.
func (p Patch) Apply(r Record) Record {
	if p.Status != nil {
		r.Status = *p.Status
	}
	return r
}
