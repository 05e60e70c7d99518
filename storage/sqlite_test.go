package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/milk9111/slingshot/session"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "slingshot.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestUnlockedLevelsDefault(t *testing.T) {
	store := openTest(t)

	levels, err := store.UnlockedLevels(context.Background())
	if err != nil {
		t.Fatalf("UnlockedLevels() failed: %v", err)
	}
	if !reflect.DeepEqual(levels, []int{1}) {
		t.Errorf("Expected [1], got %v", levels)
	}
}

func TestUnlockIsIdempotentAndOrdered(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	for _, level := range []int{3, 2, 3, 1, 2} {
		if err := store.Unlock(ctx, level); err != nil {
			t.Fatalf("Unlock(%d) failed: %v", level, err)
		}
	}

	levels, err := store.UnlockedLevels(ctx)
	if err != nil {
		t.Fatalf("UnlockedLevels() failed: %v", err)
	}
	if !reflect.DeepEqual(levels, []int{1, 2, 3}) {
		t.Errorf("Expected [1 2 3], got %v", levels)
	}

	if err := store.Unlock(ctx, 0); err == nil {
		t.Error("Expected an error unlocking level 0")
	}
}

func TestCompleteLevel(t *testing.T) {
	tests := []struct {
		name     string
		complete []int
		want     []int
		unlocked []bool
	}{
		{name: "first", complete: []int{1}, want: []int{1, 2}, unlocked: []bool{true}},
		{name: "repeat", complete: []int{1, 1}, want: []int{1, 2}, unlocked: []bool{true, false}},
		{name: "chain", complete: []int{1, 2}, want: []int{1, 2, 3}, unlocked: []bool{true, true}},
		{name: "last level", complete: []int{3}, want: []int{1}, unlocked: []bool{false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openTest(t)
			ctx := context.Background()

			for i, level := range tt.complete {
				got, err := store.CompleteLevel(ctx, level, 3)
				if err != nil {
					t.Fatalf("CompleteLevel(%d) failed: %v", level, err)
				}
				if got != tt.unlocked[i] {
					t.Errorf("CompleteLevel(%d): expected unlocked=%v, got %v", level, tt.unlocked[i], got)
				}
			}

			levels, err := store.UnlockedLevels(ctx)
			if err != nil {
				t.Fatalf("UnlockedLevels() failed: %v", err)
			}
			if !reflect.DeepEqual(levels, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, levels)
			}
		})
	}
}

func TestProgressSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "progress.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.CompleteLevel(ctx, 1, 3); err != nil {
		t.Fatalf("CompleteLevel() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	ok, err := store.IsUnlocked(ctx, 2)
	if err != nil {
		t.Fatalf("IsUnlocked() failed: %v", err)
	}
	if !ok {
		t.Error("Expected level 2 unlocked after reopen")
	}
}

func TestResetProgress(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	if err := store.Unlock(ctx, 2); err != nil {
		t.Fatalf("Unlock() failed: %v", err)
	}
	if err := store.ResetProgress(ctx); err != nil {
		t.Fatalf("ResetProgress() failed: %v", err)
	}

	levels, err := store.UnlockedLevels(ctx)
	if err != nil {
		t.Fatalf("UnlockedLevels() failed: %v", err)
	}
	if !reflect.DeepEqual(levels, []int{1}) {
		t.Errorf("Expected [1] after reset, got %v", levels)
	}
}

func TestRecordRunAndJournal(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	journal := []session.Signal{
		{Kind: session.SignalCue, At: 1500 * time.Millisecond, Cue: session.CueSlingshot},
		{Kind: session.SignalScore, At: 2 * time.Second, Points: 150, X: 900, Y: 660},
		{Kind: session.SignalOutcome, At: 3 * time.Second, Outcome: session.OutcomeWon},
	}
	first := Run{Level: 1, Outcome: session.OutcomeWon, Score: 650, ProjectilesLeft: 1, Duration: 12 * time.Second, Journal: journal}
	if _, err := store.RecordRun(ctx, first); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	if _, err := store.RecordRun(ctx, Run{Level: 1, Outcome: session.OutcomeLost, Score: 900}); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	runs, err := store.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].Outcome != session.OutcomeLost || runs[1].Outcome != session.OutcomeWon {
		t.Errorf("Expected newest first, got %v then %v", runs[0].Outcome, runs[1].Outcome)
	}

	got := runs[1]
	if got.Score != 650 || got.ProjectilesLeft != 1 || got.Duration != 12*time.Second {
		t.Errorf("Unexpected run fields: %+v", got)
	}
	if !reflect.DeepEqual(got.Journal, journal) {
		t.Errorf("Journal mismatch:\n got %+v\nwant %+v", got.Journal, journal)
	}
	if len(runs[0].Journal) != 0 {
		t.Errorf("Expected empty journal, got %d signals", len(runs[0].Journal))
	}
}

func TestBestScoreCountsWinsOnly(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	runs := []Run{
		{Level: 2, Outcome: session.OutcomeWon, Score: 800},
		{Level: 2, Outcome: session.OutcomeLost, Score: 5000},
		{Level: 2, Outcome: session.OutcomeWon, Score: 1200},
		{Level: 2, Outcome: session.OutcomeWon, Score: 900},
	}
	for _, run := range runs {
		if _, err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	best, err := store.BestScore(ctx, 2)
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 1200 {
		t.Errorf("Expected best 1200, got %d", best)
	}

	none, err := store.BestScore(ctx, 3)
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if none != 0 {
		t.Errorf("Expected 0 for an unplayed level, got %d", none)
	}
}

func TestNewRunFromSnapshot(t *testing.T) {
	snap := session.Snapshot{
		Level:                2,
		Outcome:              session.OutcomeWon,
		Score:                1500,
		ProjectilesRemaining: 1,
		Elapsed:              12 * time.Second,
	}
	journal := []session.Signal{{Kind: session.SignalCue, Cue: session.CueWin}}

	run := NewRun(snap, journal)
	if run.Level != 2 || run.Outcome != session.OutcomeWon || run.Score != 1500 || run.ProjectilesLeft != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.Duration != 12*time.Second {
		t.Fatalf("expected 12s, got %v", run.Duration)
	}
	if !reflect.DeepEqual(run.Journal, journal) {
		t.Fatalf("expected journal %v, got %v", journal, run.Journal)
	}
}
