package game

import (
	"testing"

	"github.com/milk9111/slingshot/session"
)

func TestLevelItemsRespectLocks(t *testing.T) {
	var started []int
	items := levelItems([]int{1, 2, 3}, []int{1, 2}, map[int]int{2: 650}, func(id int) {
		started = append(started, id)
	})
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	want := []struct {
		label   string
		enabled bool
	}{
		{"Level 1", true},
		{"Level 2  best 650", true},
		{"Level 3  (locked)", false},
	}
	for i, w := range want {
		if items[i].label != w.label || items[i].enabled != w.enabled {
			t.Fatalf("item %d: expected %q/%v, got %q/%v", i, w.label, w.enabled, items[i].label, items[i].enabled)
		}
	}

	items[1].action()
	if len(started) != 1 || started[0] != 2 {
		t.Fatalf("expected level 2 started, got %v", started)
	}
}

func TestOutcomeItems(t *testing.T) {
	tests := []struct {
		name    string
		outcome session.Outcome
		hasNext bool
		labels  []string
		press   int
		fired   string
	}{
		{"lost", session.OutcomeLost, true, []string{"Retry", "Levels"}, 0, "retry"},
		{"lost on last level", session.OutcomeLost, false, []string{"Retry", "Levels"}, 1, "levels"},
		{"won with next", session.OutcomeWon, true, []string{"Next Level", "Retry", "Levels"}, 0, "next"},
		{"won last level", session.OutcomeWon, false, []string{"Finish"}, 0, "finish"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fired string
			items := outcomeItems(tt.outcome, tt.hasNext, outcomeActions{
				next:   func() { fired = "next" },
				retry:  func() { fired = "retry" },
				levels: func() { fired = "levels" },
				finish: func() { fired = "finish" },
			})
			if len(items) != len(tt.labels) {
				t.Fatalf("expected %d items, got %d", len(tt.labels), len(items))
			}
			for i, l := range tt.labels {
				if items[i].label != l || !items[i].enabled {
					t.Fatalf("item %d: expected enabled %q, got %q/%v", i, l, items[i].label, items[i].enabled)
				}
			}
			items[tt.press].action()
			if fired != tt.fired {
				t.Fatalf("expected %q, got %q", tt.fired, fired)
			}
		})
	}
}

func TestQueuedActionRunsAfterUpdate(t *testing.T) {
	g := &Game{}
	ran := 0
	g.queue(func() { ran++ })
	if ran != 0 {
		t.Fatalf("expected action deferred, ran %d times", ran)
	}
	g.runPending()
	g.runPending()
	if ran != 1 {
		t.Fatalf("expected action to run once, ran %d times", ran)
	}
}
