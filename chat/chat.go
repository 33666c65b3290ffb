// Package chat holds the conversation log shared between the input loop
// and the assistant gateway.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in the conversation. Turns are immutable once
// created; they are only ever removed by clearing the whole log.
type Turn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Log is an ordered, append-only conversation log plus the composing
// flag. Insertion order is display order. A registered OnChange hook is
// invoked after every mutation.
type Log struct {
	mu        sync.Mutex
	turns     []Turn
	composing bool
	onChange  func()
}

// NewLog creates an empty conversation log.
func NewLog() *Log {
	return &Log{}
}

// OnChange registers a hook invoked after every mutation. The hook runs
// outside the log's lock.
func (l *Log) OnChange(fn func()) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// AddUserTurn appends a user turn. Content is not validated here; empty
// submissions are rejected at the input layer.
func (l *Log) AddUserTurn(content string) {
	l.add(RoleUser, content)
}

// AddAssistantTurn appends an assistant turn.
func (l *Log) AddAssistantTurn(content string) {
	l.add(RoleAssistant, content)
}

func (l *Log) add(role, content string) {
	l.mu.Lock()
	l.turns = append(l.turns, Turn{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
	l.mu.Unlock()
	l.notify()
}

// Clear empties the log.
func (l *Log) Clear() {
	l.mu.Lock()
	l.turns = nil
	l.mu.Unlock()
	l.notify()
}

// Turns returns a snapshot copy of the log.
func (l *Log) Turns() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of turns.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

// Composing reports whether an assistant response is in flight.
func (l *Log) Composing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.composing
}

// StartComposing raises the composing flag. This is a signal for the
// presentation layer, not an exclusion lock: callers gate duplicate
// submissions themselves.
func (l *Log) StartComposing() {
	l.setComposing(true)
}

// StopComposing lowers the composing flag.
func (l *Log) StopComposing() {
	l.setComposing(false)
}

func (l *Log) setComposing(v bool) {
	l.mu.Lock()
	l.composing = v
	l.mu.Unlock()
	l.notify()
}

func (l *Log) notify() {
	l.mu.Lock()
	fn := l.onChange
	l.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// restore replaces the log contents. Used by transcript loading.
func (l *Log) restore(turns []Turn) {
	l.mu.Lock()
	l.turns = turns
	l.mu.Unlock()
	l.notify()
}
