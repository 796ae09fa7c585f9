package notify

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// DefaultAction is the dismiss label shown next to a notification.
const DefaultAction = "Close"

// Notification is a short user-facing message. A zero Duration means the
// message stays until dismissed. In JSON the duration is durationMs.
type Notification struct {
	Message  string
	Action   string
	Duration time.Duration
	SentAt   time.Time
}

type notificationJSON struct {
	Message    string    `json:"message"`
	Action     string    `json:"action,omitempty"`
	DurationMs int64     `json:"durationMs,omitempty"`
	SentAt     time.Time `json:"sentAt"`
}

func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(notificationJSON{
		Message:    n.Message,
		Action:     n.Action,
		DurationMs: n.Duration.Milliseconds(),
		SentAt:     n.SentAt,
	})
}

func (n *Notification) UnmarshalJSON(data []byte) error {
	var raw notificationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Notification{
		Message:  raw.Message,
		Action:   raw.Action,
		Duration: time.Duration(raw.DurationMs) * time.Millisecond,
		SentAt:   raw.SentAt,
	}
	return nil
}

// Notifier accepts notifications. Implementations must not block the caller
// for long; stores call Notify right after publishing a transition.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})

// Logger writes notifications to the standard logger.
type Logger struct {
	Prefix string
}

func (l Logger) Notify(n Notification) {
	prefix := l.Prefix
	if prefix == "" {
		prefix = "notify"
	}
	log.Printf("[%s] %s", prefix, n.Message)
}

// Multi fans a notification out to several notifiers in order.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(n Notification) {
		for _, target := range notifiers {
			if target != nil {
				target.Notify(n)
			}
		}
	})
}

// Message builds a notification with the default action.
func Message(text string) Notification {
	return Notification{Message: text, Action: DefaultAction}
}

// Timed builds a notification that dismisses itself after d.
func Timed(text string, d time.Duration) Notification {
	return Notification{Message: text, Action: DefaultAction, Duration: d}
}

// Feed keeps the most recent notifications and forwards new ones to
// subscribers. It backs the notification endpoint and the terminal UI.
type Feed struct {
	mu     sync.RWMutex
	limit  int
	recent []Notification
	subs   map[int]chan Notification
	nextID int
	now    func() time.Time
}

// NewFeed returns a feed retaining up to limit notifications.
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 50
	}
	return &Feed{
		limit: limit,
		subs:  make(map[int]chan Notification),
		now:   time.Now,
	}
}

func (f *Feed) Notify(n Notification) {
	if n.SentAt.IsZero() {
		n.SentAt = f.now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.recent = append(f.recent, n)
	if overflow := len(f.recent) - f.limit; overflow > 0 {
		f.recent = append([]Notification(nil), f.recent[overflow:]...)
	}

	for _, ch := range f.subs {
		// Slow subscribers miss messages rather than stall the store.
		select {
		case ch <- n:
		default:
		}
	}
}

// Recent returns retained notifications, oldest first.
func (f *Feed) Recent() []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Notification, len(f.recent))
	copy(out, f.recent)
	return out
}

// Latest returns the newest notification, if any.
func (f *Feed) Latest() (Notification, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.recent) == 0 {
		return Notification{}, false
	}
	return f.recent[len(f.recent)-1], true
}

// Subscribe returns a buffered channel receiving future notifications and a
// cancel function that closes it.
func (f *Feed) Subscribe(buffer int) (<-chan Notification, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Notification, buffer)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			close(ch)
		})
	}
}
