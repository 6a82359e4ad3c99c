package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReportsNewRecords(t *testing.T) {
	store := openStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	records, err := store.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// Junk is skipped; the record that follows it is reported.
	if err := os.WriteFile(filepath.Join(store.Dir(), "junk.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := store.Write("session_1_A", "go test ./...", "PASS\n"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	select {
	case rec := <-records:
		if rec.Command != "go test ./..." {
			t.Errorf("unexpected record %+v", rec)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the record")
	}

	cancel()
	for range records {
		// drain until the watcher closes the channel
	}
}

func TestWatchReportsRepeatedIdenticalCaptures(t *testing.T) {
	// Same clock, command and output: the two records are byte-identical.
	store := openStore(t, fixedClock(100))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	records, err := store.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	for i := 1; i <= 2; i++ {
		if err := store.Write("session_1_A", "make", "ok\n"); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
		select {
		case rec := <-records:
			if rec.Command != "make" || rec.Timestamp != 100 {
				t.Errorf("capture %d: unexpected record %+v", i, rec)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("capture %d was not reported", i)
		}
	}

	cancel()
	for range records {
	}
}
