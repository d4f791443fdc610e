package world

import (
	"container/heap"
	"fmt"

	"github.com/restotycoon/server/internal/core/ecs"
)

// TaskKind names a deferred lifecycle step.
type TaskKind uint8

const (
	TaskTakeOrder TaskKind = iota + 1
	TaskFinishCooking
	TaskRemoveServed
)

func (k TaskKind) String() string {
	switch k {
	case TaskTakeOrder:
		return "take_order"
	case TaskFinishCooking:
		return "finish_cooking"
	case TaskRemoveServed:
		return "remove_served"
	default:
		return fmt.Sprintf("task(%d)", uint8(k))
	}
}

// Expects is the state guard a task of this kind carries.
func (k TaskKind) Expects() StateSet {
	switch k {
	case TaskTakeOrder:
		return StatesOf(Seated)
	case TaskFinishCooking:
		return StatesOf(Ordering, Seated)
	case TaskRemoveServed:
		return StatesOf(Served)
	}
	return 0
}

// Task is a deferred step for one customer. Tasks are never cancelled; the
// guard is checked against the customer's state when the task fires.
type Task struct {
	Due      float64
	Kind     TaskKind
	Customer ecs.EntityID
	Expect   StateSet

	seq uint64
}

// TaskQueue orders tasks by due time, then by scheduling order.
type TaskQueue struct {
	h   taskHeap
	seq uint64
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

func (q *TaskQueue) Push(t Task) {
	q.seq++
	t.seq = q.seq
	heap.Push(&q.h, t)
}

// PopDue removes and returns the earliest task due at or before now.
func (q *TaskQueue) PopDue(now float64) (Task, bool) {
	if len(q.h) == 0 || q.h[0].Due > now {
		return Task{}, false
	}
	return heap.Pop(&q.h).(Task), true
}

func (q *TaskQueue) Len() int { return len(q.h) }

type taskHeap []Task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].Due != h[j].Due {
		return h[i].Due < h[j].Due
	}
	return h[i].seq < h[j].seq
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(Task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}
