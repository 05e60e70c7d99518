package session

import (
	"testing"
	"time"
)

func TestTaskQueueOrdersByTimeThenInsertion(t *testing.T) {
	var q TaskQueue
	q.Push(Task{Kind: TaskWin, FireAt: 300 * time.Millisecond})
	q.Push(Task{Kind: TaskLoad, FireAt: 100 * time.Millisecond})
	q.Push(Task{Kind: TaskScoreTarget, FireAt: 200 * time.Millisecond, Value: 1})
	q.Push(Task{Kind: TaskScoreTarget, FireAt: 200 * time.Millisecond, Value: 2})

	if _, ok := q.PopDue(50 * time.Millisecond); ok {
		t.Fatalf("expected nothing due at 50ms")
	}

	var got []Task
	for {
		task, ok := q.PopDue(time.Second)
		if !ok {
			break
		}
		got = append(got, task)
	}

	want := []struct {
		kind  TaskKind
		value int
	}{
		{TaskLoad, 0},
		{TaskScoreTarget, 1},
		{TaskScoreTarget, 2},
		{TaskWin, 0},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].Value != w.value {
			t.Fatalf("task %d: expected %v/%d, got %v/%d", i, w.kind, w.value, got[i].Kind, got[i].Value)
		}
	}
}

func TestTaskQueuePendingAndClear(t *testing.T) {
	var q TaskQueue
	q.Push(Task{Kind: TaskBlast, FireAt: time.Second})

	if !q.Pending(TaskBlast) {
		t.Fatalf("expected blast pending")
	}
	if q.Pending(TaskLoad) {
		t.Fatalf("expected no load pending")
	}

	q.Clear()
	if q.Len() != 0 || q.Pending(TaskBlast) {
		t.Fatalf("expected empty queue after clear")
	}
	if _, ok := q.PopDue(time.Hour); ok {
		t.Fatalf("expected nothing to pop after clear")
	}
}

func TestTurnSequencerTransitions(t *testing.T) {
	idle := 0
	turn := newTurnSequencer(func() { idle++ }, nil)

	steps := []struct {
		event string
		ok    bool
		phase Phase
	}{
		{eventAim, false, PhaseResolved},
		{eventLoad, true, PhaseLoaded},
		{eventLoad, false, PhaseLoaded},
		{eventRelease, false, PhaseLoaded},
		{eventAim, true, PhaseAiming},
		{eventRelease, true, PhaseLaunched},
		{eventCollide, true, PhaseSettling},
		{eventCollide, false, PhaseSettling},
		{eventResolve, true, PhaseResolved},
		{eventExhaust, true, PhaseIdle},
		{eventLoad, false, PhaseIdle},
	}
	for i, step := range steps {
		if got := turn.fire(step.event); got != step.ok {
			t.Fatalf("step %d (%s): expected ok=%v, got %v", i, step.event, step.ok, got)
		}
		if turn.phase() != step.phase {
			t.Fatalf("step %d (%s): expected phase %s, got %s", i, step.event, step.phase, turn.phase())
		}
	}
	if idle != 1 {
		t.Fatalf("expected idle entered once, got %d", idle)
	}

	turn.reset()
	if turn.phase() != PhaseResolved {
		t.Fatalf("expected resolved after reset, got %s", turn.phase())
	}
}

func TestTurnSequencerResolvesFromLaunched(t *testing.T) {
	turn := newTurnSequencer(nil, nil)
	for _, e := range []string{eventLoad, eventAim, eventRelease, eventResolve} {
		if !turn.fire(e) {
			t.Fatalf("expected %s to fire", e)
		}
	}
	if turn.phase() != PhaseResolved {
		t.Fatalf("expected resolved, got %s", turn.phase())
	}
}

func TestPhaseActive(t *testing.T) {
	tests := []struct {
		phase  Phase
		active bool
	}{
		{PhaseIdle, false},
		{PhaseLoaded, true},
		{PhaseAiming, true},
		{PhaseLaunched, true},
		{PhaseSettling, true},
		{PhaseResolved, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			if got := tt.phase.Active(); got != tt.active {
				t.Fatalf("expected %v, got %v", tt.active, got)
			}
		})
	}
}

func TestScoreboardLatchesOnce(t *testing.T) {
	var b scoreboard
	if b.latch(OutcomeNone) {
		t.Fatalf("latching none should not count")
	}
	if !b.latch(OutcomeWon) {
		t.Fatalf("expected first latch to succeed")
	}
	if b.latch(OutcomeLost) || b.outcome != OutcomeWon {
		t.Fatalf("expected outcome to stay won, got %v", b.outcome)
	}
	if got := b.add(150) + b.add(50); got != 350 {
		t.Fatalf("unexpected running totals sum %d", got)
	}
}
