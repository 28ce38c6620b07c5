// Package session manages per-conversation history, held in memory only.
// Conversations live for the lifetime of the process; a restart starts fresh.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/copperotter/copperotter/internal/schema"
)

// Session is one conversation's message history.
type Session struct {
	Key       string
	CreatedAt time.Time
	UpdatedAt time.Time

	mu       sync.Mutex
	messages schema.Messages
}

// Append adds messages to the history and bumps UpdatedAt.
func (s *Session) Append(msgs ...schema.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range msgs {
		s.messages.Add(m)
	}
	s.UpdatedAt = time.Now()
}

// History returns a copy of the message history.
func (s *Session) History() schema.Messages {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages.Clone()
}

// Len returns the number of messages in the session.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages.Len()
}

// Trim drops the oldest messages beyond window entries. Tool-result messages
// at the new head are dropped too, so the history never starts with an
// orphaned tool turn.
func (s *Session) Trim(window int) {
	if window <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages.Messages
	if len(msgs) <= window {
		return
	}
	msgs = msgs[len(msgs)-window:]
	for len(msgs) > 0 && msgs[0].Role == "tool" {
		msgs = msgs[1:]
	}
	s.messages = schema.NewMessages(msgs...)
}

// Reset clears the history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = schema.NewMessages()
	s.UpdatedAt = time.Now()
}

// Manager hands out sessions by key. Safe for concurrent use.
type Manager struct {
	cache sync.Map // key → *Session
}

func NewManager() *Manager {
	return &Manager{}
}

// GetOrCreate returns the session for key, creating an empty one if needed.
func (m *Manager) GetOrCreate(key string) *Session {
	if v, ok := m.cache.Load(key); ok {
		return v.(*Session)
	}
	s := &Session{
		Key:       key,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		messages:  schema.NewMessages(),
	}
	actual, _ := m.cache.LoadOrStore(key, s)
	return actual.(*Session)
}

// Reset clears the session for key if it exists.
func (m *Manager) Reset(key string) {
	if v, ok := m.cache.Load(key); ok {
		v.(*Session).Reset()
	}
}

// Keys returns all session keys, sorted.
func (m *Manager) Keys() []string {
	var keys []string
	m.cache.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}
