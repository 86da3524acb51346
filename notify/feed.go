package notify

import (
	"fmt"
	"sync"
	"time"
)

// FeedCapacity is how many recent events the activity feed keeps.
const FeedCapacity = 5

// Feed is a fixed size ring of formatted events, newest first on read.
type Feed struct {
	mu    sync.Mutex
	items []string
	head  int // next write position
	size  int
	now   func() time.Time
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = FeedCapacity
	}
	return &Feed{
		items: make([]string, capacity),
		now:   time.Now,
	}
}

// Add stamps text with the current time and stores it, evicting the oldest
// entry when full. The stored line is returned.
func (f *Feed) Add(text string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	line := fmt.Sprintf("[%s] %s", f.now().Format("15:04:05"), text)
	f.items[f.head] = line
	f.head = (f.head + 1) % len(f.items)
	if f.size < len(f.items) {
		f.size++
	}
	return line
}

// Recent returns a copy of the stored lines, newest first.
func (f *Feed) Recent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, f.size)
	for i := 1; i <= f.size; i++ {
		idx := (f.head - i + len(f.items)) % len(f.items)
		out = append(out, f.items[idx])
	}
	return out
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size
}
