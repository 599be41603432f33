package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/othala/internal/inventory"
	"github.com/starford/othala/internal/store"
	"github.com/starford/othala/internal/testutil"
	"github.com/starford/othala/internal/tracker"
)

// eventually polls fn until it returns true or the timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Fatal(msg)
}

type watchEnv struct {
	root   string
	svc    *tracker.Service
	cancel context.CancelFunc
}

func startWatcher(t *testing.T) *watchEnv {
	t.Helper()
	root := t.TempDir()
	logger := testutil.QuietLogger()
	svc := tracker.New(store.New(0, logger), tracker.Options{
		InventoryFilename: "inventory.xlsx",
		LockPrefix:        "~$",
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		_ = Watch(ctx, svc, root, "inventory.xlsx", 100*time.Millisecond, logger)
	}()
	// Give the watcher a moment to register the root.
	time.Sleep(100 * time.Millisecond)
	return &watchEnv{root: root, svc: svc, cancel: cancel}
}

func (e *watchEnv) rowCount(t *testing.T) int {
	t.Helper()
	rows, err := e.svc.Inventory(context.Background(), e.root, inventory.Criteria{})
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	return len(rows)
}

func TestWatcherRescansOnCreate(t *testing.T) {
	env := startWatcher(t)

	if err := os.WriteFile(filepath.Join(env.root, "new.txt"), []byte("content\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return env.rowCount(t) == 1
	}, "watcher never picked up the new file")
}

func TestWatcherSeesNewSubdirectories(t *testing.T) {
	env := startWatcher(t)

	sub := filepath.Join(env.root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// Let the create event land so the new directory joins the watch list.
	time.Sleep(300 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(sub, "inner.txt"), []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return env.rowCount(t) == 1
	}, "watcher never picked up the file in the new subdirectory")
}

func TestWatcherIgnoresInventoryArtifacts(t *testing.T) {
	env := startWatcher(t)

	if err := os.WriteFile(filepath.Join(env.root, "a.txt"), []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return env.rowCount(t) == 1
	}, "initial rescan never happened")

	// The save the rescan performed wrote the workbook into the watched
	// tree. If those events retriggered scans, the loop would never
	// settle; the listing must stay at one row.
	time.Sleep(500 * time.Millisecond)
	if n := env.rowCount(t); n != 1 {
		t.Fatalf("rows = %d after settle, want 1", n)
	}
}

func TestIsInventoryArtifact(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/data/inventory.xlsx", true},
		{"/data/inventory.xlsx.bak", true},
		{"/data/inventory.xlsx.bak.20260301_100000", true},
		{"/data/inventory.xlsx_temp.xlsx", true},
		{"/data/report.docx", false},
		{"/data/sub/inventory.xlsx", true},
	}
	for _, tt := range tests {
		if got := isInventoryArtifact(tt.path, "inventory.xlsx"); got != tt.want {
			t.Errorf("isInventoryArtifact(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
