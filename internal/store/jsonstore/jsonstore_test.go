package jsonstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Makepad-fr/clientdash/internal/model"
)

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	in := []model.Record{
		{ID: "client-1", PhoneNumber: "+33123456789", Name: "Jean Dupont", Status: model.StatusPending, CreatedAt: ts, UpdatedAt: ts},
		{ID: "client-2", PhoneNumber: "+33987654321", Status: model.StatusConfirmed, CreatedAt: ts, UpdatedAt: ts},
	}
	if err := Save(dir, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultFileName)); err != nil {
		t.Fatalf("directory path should resolve to %s: %v", DefaultFileName, err)
	}

	out, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 || out[0].Name != "Jean Dupont" || !out[1].UpdatedAt.Equal(ts) {
		t.Errorf("Load = %+v", out)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	out, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty slice, got %v", out)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]string{
		"malformed":      `[{"id":`,
		"missing id":     `[{"phoneNumber":"+331","status":"pending"}]`,
		"invalid status": `[{"id":"a","phoneNumber":"+331","status":"done"}]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "seed.json")
			if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(p); err == nil {
				t.Errorf("Load(%s) should fail", name)
			}
		})
	}
}

func TestSave_NilWritesEmptyArray(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.json")
	if err := Save(p, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "[]" {
		t.Errorf("content = %q, want []", b)
	}
}
