package queue

import (
	"sync"
	"time"
)

// Message is one timestamped line of a job's log.
type Message struct {
	Kind MessageKind
	Time time.Time
	Text string
}

// MessageLog is a job's message log. Producers may append while the rest of
// the queue is being saved, so every access goes through the lock.
// The zero value is ready to use.
type MessageLog struct {
	mu       sync.Mutex
	messages []Message
}

// Append adds a message to the log.
func (l *MessageLog) Append(kind MessageKind, at time.Time, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, Message{Kind: kind, Time: at, Text: text})
}

// Len returns the number of messages.
func (l *MessageLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// Snapshot returns a copy of the messages.
func (l *MessageLog) Snapshot() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Locked runs fn with the log held. The lock is released when fn returns,
// including when it fails or panics.
func (l *MessageLog) Locked(fn func(messages []Message) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.messages)
}
