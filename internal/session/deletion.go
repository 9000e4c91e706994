package session

import "github.com/san-kum/physbox/internal/physics"

// DeletionQueue collects bodies to destroy after the current step. Marking a
// body twice is a no-op.
type DeletionQueue struct {
	pending []physics.BodyID
	marked  map[physics.BodyID]struct{}
}

func NewDeletionQueue() *DeletionQueue {
	return &DeletionQueue{marked: make(map[physics.BodyID]struct{})}
}

// Mark queues id and reports whether it was newly added.
func (q *DeletionQueue) Mark(id physics.BodyID) bool {
	if id == physics.NoBody {
		return false
	}
	if _, ok := q.marked[id]; ok {
		return false
	}
	q.marked[id] = struct{}{}
	q.pending = append(q.pending, id)
	return true
}

func (q *DeletionQueue) Contains(id physics.BodyID) bool {
	_, ok := q.marked[id]
	return ok
}

func (q *DeletionQueue) Len() int { return len(q.pending) }

// Drain returns the queued ids in marking order and empties the queue.
func (q *DeletionQueue) Drain() []physics.BodyID {
	out := q.pending
	q.pending = nil
	q.marked = make(map[physics.BodyID]struct{})
	return out
}
