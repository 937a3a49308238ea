package mqtt

import (
	"sync"

	"github.com/vesta-ems/vesta/core/forecast"
)

// Buffer is a bounded rolling window of sensor readings. It holds the recent
// demand history the forecaster consumes; older readings are evicted as new
// ones arrive.
type Buffer struct {
	mu   sync.RWMutex
	cap  int
	data []forecast.Reading
}

// NewBuffer creates a buffer holding up to capacity readings.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 48
	}
	return &Buffer{cap: capacity}
}

// Add appends a reading, evicting the oldest when full.
func (b *Buffer) Add(r forecast.Reading) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, r)
	if len(b.data) > b.cap {
		b.data = b.data[len(b.data)-b.cap:]
	}
}

// Readings returns a copy of the buffered readings, oldest first.
func (b *Buffer) Readings() []forecast.Reading {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]forecast.Reading, len(b.data))
	copy(out, b.data)
	return out
}

// Len returns the number of buffered readings.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}
