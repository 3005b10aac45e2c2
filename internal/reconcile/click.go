package reconcile

import (
	"time"

	"github.com/dshills/surfedit/internal/model"
)

// clickTracker tracks click patterns for double/triple click
// detection. Clicks count as a sequence when they land in the same
// block within the time threshold; the count wraps back to 1 after 3.
type clickTracker struct {
	maxTime time.Duration

	lastBlock int
	lastTime  time.Time
	lastCount int
}

func newClickTracker(maxTime time.Duration) *clickTracker {
	return &clickTracker{maxTime: maxTime, lastBlock: -1}
}

// record registers a click in the block at path and returns the click
// count (1, 2, or 3).
func (t *clickTracker) record(path model.Path, timestamp time.Time) int {
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	block := -1
	if len(path) > 0 {
		block = path[0]
	}

	if t.isPartOfSequence(block, timestamp) {
		t.lastCount++
		if t.lastCount > 3 {
			t.lastCount = 1
		}
	} else {
		t.lastCount = 1
	}

	t.lastBlock = block
	t.lastTime = timestamp
	return t.lastCount
}

func (t *clickTracker) isPartOfSequence(block int, timestamp time.Time) bool {
	if t.lastCount == 0 || t.lastTime.IsZero() {
		return false
	}
	elapsed := timestamp.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.maxTime {
		return false
	}
	return block == t.lastBlock
}

func (t *clickTracker) reset() {
	t.lastCount = 0
	t.lastBlock = -1
	t.lastTime = time.Time{}
}
