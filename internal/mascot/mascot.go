// Package mascot keeps the state of Biitsz's speech bubble.
package mascot

import (
	"math/rand"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	// ShowFor is how long a message stays in the bubble.
	ShowFor = 3 * time.Second
	// FirstDelay is the delay before the first message after start-up.
	FirstDelay = time.Second
	// DefaultInterval is the rotation period.
	DefaultInterval = 8 * time.Second
)

// DefaultMessages are shown in rotation.
var DefaultMessages = []string{
	"ようこそ！",
	"ゆっくりしていってね",
	"びっつだよ =:)",
}

// Bubble is the speech bubble. It is safe for concurrent use.
type Bubble struct {
	mu       sync.Mutex
	messages []string
	next     int
	current  string
	shownAt  time.Time
	rng      *rand.Rand
	now      func() time.Time
}

// NewBubble returns a bubble cycling through messages. rng picks messages
// for Poke; now defaults to time.Now.
func NewBubble(messages []string, rng *rand.Rand, now func() time.Time) *Bubble {
	if now == nil {
		now = time.Now
	}
	return &Bubble{
		messages: append([]string(nil), messages...),
		rng:      rng,
		now:      now,
	}
}

// Advance shows the next message in rotation.
func (b *Bubble) Advance() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.messages) == 0 {
		return ""
	}
	msg := b.messages[b.next]
	b.next = (b.next + 1) % len(b.messages)
	b.show(msg)
	return msg
}

// Poke shows a random message, as when the mascot is clicked.
func (b *Bubble) Poke() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.messages) == 0 {
		return ""
	}
	msg := b.messages[b.rng.Intn(len(b.messages))]
	b.show(msg)
	return msg
}

func (b *Bubble) show(msg string) {
	b.current = msg
	b.shownAt = b.now()
}

// Current returns the last message and whether it is still visible.
func (b *Bubble) Current() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == "" {
		return "", false
	}
	return b.current, b.now().Sub(b.shownAt) < ShowFor
}

// Schedule registers the rotation on c: the first message after FirstDelay,
// then one every interval.
func Schedule(c *cron.Cron, b *Bubble, interval time.Duration) (cron.EntryID, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	time.AfterFunc(FirstDelay, func() { b.Advance() })
	return c.AddFunc("@every "+interval.String(), func() { b.Advance() })
}
