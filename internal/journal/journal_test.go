package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	entries := []Entry{
		{Kind: "execute", CommandID: "c1", Name: "move", Actor: "p1", Device: "keyboard", CreatedAt: base},
		{Kind: "execute", CommandID: "c2", Name: "jump", Actor: "p1", Device: "keyboard", CreatedAt: base.Add(time.Millisecond)},
		{Kind: "undo", CommandID: "c2", Name: "jump", Actor: "p1", Device: "keyboard", CreatedAt: base.Add(2 * time.Millisecond)},
	}
	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(got))
	}

	// Новые первыми
	if got[0].Kind != "undo" || got[0].CommandID != "c2" {
		t.Errorf("Expected newest entry first, got %+v", got[0])
	}
	if got[0].ID == "" {
		t.Error("Record must auto-generate missing ids")
	}
}

func TestRecent_Limit(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		e := Entry{Kind: "execute", CommandID: "c", Name: "move", Actor: "p1", Device: "keyboard"}
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Limit not applied: got %d", len(got))
	}
}
