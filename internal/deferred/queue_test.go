package deferred

import (
	"errors"
	"testing"
)

func TestFlushRunsInOrder(t *testing.T) {
	q := NewQueue()
	var order []int
	q.Enqueue(func() error { order = append(order, 1); return nil })
	q.Enqueue(func() error { order = append(order, 2); return nil })
	q.Enqueue(func() error { order = append(order, 3); return nil })

	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	if err := q.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("ran %d ops, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len() after flush = %d, want 0", q.Len())
	}
}

func TestFlushStopsAtFirstError(t *testing.T) {
	q := NewQueue()
	boom := errors.New("boom")
	ran := 0
	q.Enqueue(func() error { ran++; return nil })
	q.Enqueue(func() error { return boom })
	q.Enqueue(func() error { ran++; return nil })

	if err := q.Flush(); err != boom {
		t.Errorf("Flush = %v, want boom", err)
	}
	if ran != 1 {
		t.Errorf("ops run = %d, want 1 (stop at first error)", ran)
	}
	// The queue is empty either way: a failed op is not retried.
	if q.Len() != 0 {
		t.Errorf("Len() after failed flush = %d, want 0", q.Len())
	}
}

func TestFlushEmptyQueue(t *testing.T) {
	q := NewQueue()
	if err := q.Flush(); err != nil {
		t.Errorf("Flush on empty queue = %v, want nil", err)
	}
}

func TestEnqueueDuringFlushRunsNextFlush(t *testing.T) {
	q := NewQueue()
	nested := false
	q.Enqueue(func() error {
		q.Enqueue(func() error { nested = true; return nil })
		return nil
	})

	if err := q.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if nested {
		t.Error("op enqueued mid-flush ran in the same flush")
	}
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 pending op", q.Len())
	}
	if err := q.Flush(); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
	if !nested {
		t.Error("pending op never ran")
	}
}

func TestClear(t *testing.T) {
	q := NewQueue()
	ran := false
	q.Enqueue(func() error { ran = true; return nil })
	q.Clear()
	if err := q.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if ran {
		t.Error("cleared op still ran")
	}
}
