package deferred

// Op is a zero-argument unit of model mutation captured at decision
// time.
type Op func() error

// Queue is a FIFO of deferred operations. It is not safe for
// concurrent use; all access happens on the host's event turn.
type Queue struct {
	ops []Op
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends an operation.
func (q *Queue) Enqueue(op Op) {
	q.ops = append(q.ops, op)
}

// Len returns the number of queued operations.
func (q *Queue) Len() int { return len(q.ops) }

// Flush invokes every queued operation in enqueue order. The queue is
// cleared before returning regardless of errors; the first error stops
// execution and propagates to the caller.
func (q *Queue) Flush() error {
	ops := q.ops
	q.ops = nil
	for _, op := range ops {
		if err := op(); err != nil {
			return err
		}
	}
	return nil
}

// Clear empties the queue without running anything.
func (q *Queue) Clear() { q.ops = nil }
