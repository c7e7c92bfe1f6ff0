package convo

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultTTL         = time.Hour
	DefaultMaxMessages = 10
)

// Message is one resolved (user query, answer) turn.
type Message struct {
	Query   string
	Content string
	Kind    string
	At      time.Time
}

// ResultRow is the uniform tabular shape kept from a prior answer so
// follow-ups can chart or drill into it.
type ResultRow struct {
	Name        string  `json:"name"`
	Platform    string  `json:"platform,omitempty"`
	ROAS        float64 `json:"roas"`
	CTR         float64 `json:"ctr"`
	CPA         float64 `json:"cpa"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Conversions float64 `json:"conversions"`
}

// LastResult summarizes the previous turn's answer: its kind, the entities
// and metric that were detected, and the tabular payload if there was one.
type LastResult struct {
	Kind     string
	Platform string
	Campaign string
	Metric   string
	Rows     []ResultRow
}

// Context is the per-session conversation memory.
type Context struct {
	SessionID  string
	CreatedAt  time.Time
	Messages   []Message
	LastResult *LastResult
}

// Store keeps per-session conversation context with TTL-based expiry.
type Store interface {
	Get(sessionID string) *Context
	Update(sessionID, query, content, kind string, last *LastResult)
	Delete(sessionID string)
	Sweep(ctx context.Context) int
	Len() int
}

// MemoryStore is the in-process Store. The clock is injectable so expiry is
// testable without real timers.
type MemoryStore struct {
	mu          sync.Mutex
	sessions    map[string]*Context
	ttl         time.Duration
	maxMessages int
	now         func() time.Time
}

type MemoryStoreParams struct {
	TTL         time.Duration
	MaxMessages int
	Now         func() time.Time
}

func NewMemoryStore(params MemoryStoreParams) *MemoryStore {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	maxMessages := params.MaxMessages
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		sessions:    make(map[string]*Context),
		ttl:         ttl,
		maxMessages: maxMessages,
		now:         now,
	}
}

// Get returns a snapshot of the session's context, creating it on first
// sight. An empty sessionID yields a throwaway context that is never
// persisted, so sessionless requests stay stateless.
func (s *MemoryStore) Get(sessionID string) *Context {
	if sessionID == "" {
		return &Context{CreatedAt: s.now()}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &Context{SessionID: sessionID, CreatedAt: s.now()}
		s.sessions[sessionID] = sess
	}
	return snapshot(sess)
}

// Update appends the resolved turn and overwrites the last result. The
// message list is capped; the oldest turns are evicted first.
func (s *MemoryStore) Update(sessionID, query, content, kind string, last *LastResult) {
	if sessionID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &Context{SessionID: sessionID, CreatedAt: s.now()}
		s.sessions[sessionID] = sess
	}
	sess.Messages = append(sess.Messages, Message{
		Query:   query,
		Content: content,
		Kind:    kind,
		At:      s.now(),
	})
	if over := len(sess.Messages) - s.maxMessages; over > 0 {
		sess.Messages = append([]Message(nil), sess.Messages[over:]...)
	}
	sess.LastResult = last
}

func (s *MemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Sweep deletes every context older than the TTL and reports how many were
// removed. It holds the lock briefly and never blocks request handling for
// longer than a map pass.
func (s *MemoryStore) Sweep(_ context.Context) int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// snapshot copies the context so callers can read it without holding the
// store lock while concurrent updates land.
func snapshot(sess *Context) *Context {
	out := &Context{
		SessionID: sess.SessionID,
		CreatedAt: sess.CreatedAt,
		Messages:  append([]Message(nil), sess.Messages...),
	}
	if sess.LastResult != nil {
		last := *sess.LastResult
		last.Rows = append([]ResultRow(nil), sess.LastResult.Rows...)
		out.LastResult = &last
	}
	return out
}
