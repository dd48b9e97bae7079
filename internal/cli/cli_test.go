package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Makepad-fr/clientdash/internal/event"
	"github.com/Makepad-fr/clientdash/internal/model"
	"github.com/Makepad-fr/clientdash/internal/server"
	"github.com/Makepad-fr/clientdash/internal/store/jsonstore"
	"github.com/Makepad-fr/clientdash/internal/store/memstore"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seed() []model.Record {
	return []model.Record{
		{ID: "client-1", PhoneNumber: "+33123456789", Name: "Alice Martin", Status: model.StatusPending, CreatedAt: t0, UpdatedAt: t0},
		{ID: "client-2", PhoneNumber: "+33987654321", Name: "Bob Bernard", Status: model.StatusConfirmed, CreatedAt: t0, UpdatedAt: t0},
		{ID: "client-3", PhoneNumber: "+33987000000", Status: model.StatusPending, CreatedAt: t0, UpdatedAt: t0},
	}
}

type env struct {
	dir    string
	config string
	seed   string
}

// newEnv writes a seed file and a config pointing at it with no latency.
func newEnv(t *testing.T, extra string) env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)

	e := env{
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		seed:   filepath.Join(dir, "clients.json"),
	}
	if err := jsonstore.Save(e.seed, seed()); err != nil {
		t.Fatal(err)
	}
	content := fmt.Sprintf(`store:
  seed_file: %s
  query_delay: 0s
  update_delay: 0s
logging:
  level: error
%s`, e.seed, extra)
	if err := os.WriteFile(e.config, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return e
}

func (e env) run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errb bytes.Buffer
	all := append([]string{"--config", e.config, "--no-color"}, args...)
	code = run(context.Background(), NewRootCmd(), all, &out, &errb)
	return code, out.String(), errb.String()
}

func TestVersion(t *testing.T) {
	e := newEnv(t, "")
	code, out, _ := e.run(t, "version")
	if code != ExitOK || strings.TrimSpace(out) != "clientdash dev" {
		t.Errorf("version = %d %q", code, out)
	}
}

func TestUsageErrors(t *testing.T) {
	e := newEnv(t, "")
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"ls", "--colour"}},
		{"set arity", []string{"set", "client-1"}},
		{"set bad status", []string{"set", "client-1", "done"}},
		{"ls bad status", []string{"ls", "--status", "done"}},
		{"export arity", []string{"export"}},
		{"watch without seed", []string{"--seed-file", "", "serve", "--watch"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := e.run(t, tt.args...)
			if code != ExitUsage {
				t.Errorf("exit = %d, want %d (stderr %q)", code, ExitUsage, stderr)
			}
			if stderr == "" {
				t.Error("usage errors should be reported on stderr")
			}
		})
	}
}

func TestList(t *testing.T) {
	e := newEnv(t, "")

	code, out, stderr := e.run(t, "ls")
	if code != ExitOK {
		t.Fatalf("ls exit %d: %s", code, stderr)
	}
	for _, want := range []string{"client-1", "client-2", "client-3", "Alice Martin", "Total 3", " 33%"} {
		if !strings.Contains(out, want) {
			t.Errorf("ls output missing %q:\n%s", want, out)
		}
	}

	_, out, _ = e.run(t, "ls", "--status", "confirmed")
	if !strings.Contains(out, "client-2") || strings.Contains(out, "client-1") {
		t.Errorf("ls --status confirmed:\n%s", out)
	}

	_, out, _ = e.run(t, "ls", "--search", "987", "--status", "pending")
	if !strings.Contains(out, "client-3") || strings.Contains(out, "client-2 ") {
		t.Errorf("ls --search 987 --status pending:\n%s", out)
	}

	_, out, _ = e.run(t, "ls", "--search", "555")
	if !strings.Contains(out, "No clients found") {
		t.Errorf("empty ls should say so:\n%s", out)
	}
}

func TestList_Group(t *testing.T) {
	e := newEnv(t, "")
	_, out, _ := e.run(t, "ls", "--group")
	pi, ci := strings.Index(out, "Pending"), strings.Index(out, "Confirmed")
	if pi < 0 || ci < 0 || pi > ci {
		t.Fatalf("grouped output should list Pending then Confirmed:\n%s", out)
	}
	if c2 := strings.Index(out, "client-2"); c2 < ci {
		t.Errorf("confirmed client listed before the Confirmed heading:\n%s", out)
	}
}

func TestSet_PersistsSeedFile(t *testing.T) {
	e := newEnv(t, "")

	code, out, stderr := e.run(t, "set", "client-1", "confirmed")
	if code != ExitOK {
		t.Fatalf("set exit %d: %s", code, stderr)
	}
	if !strings.Contains(out, "client-1 → confirmed") {
		t.Errorf("set output = %q", out)
	}

	rs, err := jsonstore.Load(e.seed)
	if err != nil {
		t.Fatal(err)
	}
	if rs[0].Status != model.StatusConfirmed || !rs[0].UpdatedAt.After(t0) {
		t.Errorf("seed file not updated: %+v", rs[0])
	}
	if len(rs) != 3 || rs[1].Status != model.StatusConfirmed || rs[2].Status != model.StatusPending {
		t.Errorf("other records changed: %+v", rs)
	}
}

func TestSet_NotFound(t *testing.T) {
	e := newEnv(t, "")
	code, _, stderr := e.run(t, "set", "client-99", "confirmed")
	if code != ExitError {
		t.Errorf("exit = %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr, "not found") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestSet_RemoteStore(t *testing.T) {
	st := memstore.New(memstore.WithDelay(0, 0), memstore.WithRecords(seed()))
	srv := server.New(st, event.NewBus(nil), nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	e := newEnv(t, "")
	code, _, stderr := e.run(t, "--store-url", ts.URL, "set", "client-3", "confirmed")
	if code != ExitOK {
		t.Fatalf("set exit %d: %s", code, stderr)
	}
	if got := st.Snapshot()[2].Status; got != model.StatusConfirmed {
		t.Errorf("remote status = %s", got)
	}

	code, out, _ := e.run(t, "--store-url", ts.URL, "ls", "--status", "confirmed")
	if code != ExitOK || !strings.Contains(out, "client-3") {
		t.Errorf("remote ls = %d:\n%s", code, out)
	}

	rs, _ := jsonstore.Load(e.seed)
	if rs[2].Status != model.StatusPending {
		t.Error("remote edits must not touch the local seed file")
	}
}

func TestExport(t *testing.T) {
	e := newEnv(t, "")
	target := filepath.Join(e.dir, "pending.json")

	code, out, stderr := e.run(t, "export", target, "--status", "pending")
	if code != ExitOK {
		t.Fatalf("export exit %d: %s", code, stderr)
	}
	if !strings.Contains(out, "exported 2 clients") {
		t.Errorf("export output = %q", out)
	}
	rs, err := jsonstore.Load(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 2 || rs[0].ID != "client-1" || rs[1].ID != "client-3" {
		t.Errorf("exported = %+v", rs)
	}
}

func TestGeneratedStoreIsStable(t *testing.T) {
	e := newEnv(t, "")
	_, first, _ := e.run(t, "--seed-file", "", "ls")
	_, second, _ := e.run(t, "--seed-file", "", "ls")
	if !strings.Contains(first, "client-20") {
		t.Errorf("generated store should hold 20 clients:\n%s", first)
	}
	if first != second {
		t.Error("generated clients should be the same on every run")
	}
}

func TestInvalidConfig(t *testing.T) {
	e := newEnv(t, "sync:\n  refresh_mode: eventually\n")
	code, _, stderr := e.run(t, "ls")
	if code != ExitError {
		t.Errorf("exit = %d, want %d", code, ExitError)
	}
	if !strings.Contains(stderr, "sync.refresh_mode") {
		t.Errorf("stderr should name the bad key: %q", stderr)
	}
}

func TestMissingConfigFile(t *testing.T) {
	var out, errb bytes.Buffer
	code := run(context.Background(), NewRootCmd(),
		[]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "version"}, &out, &errb)
	if code != ExitError {
		t.Errorf("explicit missing config = %d, want %d", code, ExitError)
	}
}
