package session

import (
	"container/heap"
	"time"

	"github.com/milk9111/slingshot/ecs"
)

// TaskKind identifies a delayed action.
type TaskKind uint8

const (
	TaskLoad TaskKind = iota + 1
	TaskDetach
	TaskSettle
	TaskRemoveTarget
	TaskScoreTarget
	TaskWinBonus
	TaskWin
	TaskBlast
)

func (k TaskKind) String() string {
	switch k {
	case TaskLoad:
		return "load"
	case TaskDetach:
		return "detach"
	case TaskSettle:
		return "settle-resolve"
	case TaskRemoveTarget:
		return "remove-target"
	case TaskScoreTarget:
		return "score-target"
	case TaskWinBonus:
		return "win-bonus"
	case TaskWin:
		return "win"
	case TaskBlast:
		return "blast"
	default:
		return "unknown"
	}
}

// Task is one scheduled action. It carries data, never a closure, so clearing
// the queue is all a reset needs.
type Task struct {
	Kind   TaskKind
	Entity ecs.Entity
	FireAt time.Duration
	Value  int
	X, Y   float64

	seq uint64
}

// TaskQueue orders tasks by fire time, then by insertion.
type TaskQueue struct {
	items taskHeap
	seq   uint64
}

func (q *TaskQueue) Push(t Task) {
	q.seq++
	t.seq = q.seq
	heap.Push(&q.items, t)
}

// PopDue removes and returns the earliest task due at now.
func (q *TaskQueue) PopDue(now time.Duration) (Task, bool) {
	if len(q.items) == 0 || q.items[0].FireAt > now {
		return Task{}, false
	}
	return heap.Pop(&q.items).(Task), true
}

func (q *TaskQueue) Len() int {
	return len(q.items)
}

// Pending reports whether a task of kind is queued.
func (q *TaskQueue) Pending(kind TaskKind) bool {
	for _, t := range q.items {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

func (q *TaskQueue) Clear() {
	q.items = nil
}

type taskHeap []Task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].FireAt != h[j].FireAt {
		return h[i].FireAt < h[j].FireAt
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(Task)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}
