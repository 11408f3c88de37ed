package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

const sessionIDLength = 32 // 256 bits

// Session binds a server-side session identifier to an authenticated user.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	LastSeen  time.Time
	ExpiresAt time.Time
}

// Manager is the process-wide session registry. It is the only shared
// mutable state outside the database and is guarded by a single RWMutex.
//
// The per-user cap is soft: a new login never invalidates an existing
// session, it only trims the per-user tracking list by recency. This
// mirrors a max-sessions policy that records rather than prevents
// concurrent logins.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	byUser     map[string][]string // session IDs, oldest first
	ttl        time.Duration
	maxTracked int
}

func NewManager(ttl time.Duration, maxSessionsPerUser int) *Manager {
	if maxSessionsPerUser < 1 {
		maxSessionsPerUser = 1
	}
	return &Manager{
		sessions:   make(map[string]*Session),
		byUser:     make(map[string][]string),
		ttl:        ttl,
		maxTracked: maxSessionsPerUser,
	}
}

func generateSessionID() (string, error) {
	bytes := make([]byte, sessionIDLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// Create establishes a fresh session for the user and registers it.
func (m *Manager) Create(userID string) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		LastSeen:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[id] = sess

	ids := append(m.byUser[userID], id)
	if len(ids) > m.maxTracked {
		// Trim tracking records only; the evicted sessions stay valid.
		ids = ids[len(ids)-m.maxTracked:]
	}
	m.byUser[userID] = ids

	return copySession(sess), nil
}

// Get resolves a session ID to a live session, refreshing its last-seen
// time. Expired sessions are removed and reported as absent.
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, false
	}

	now := time.Now()
	if now.After(sess.ExpiresAt) {
		m.removeLocked(id)
		return nil, false
	}

	sess.LastSeen = now
	return copySession(sess), true
}

// Destroy invalidates a session. Destroying an unknown or already
// destroyed session is a no-op: logout is idempotent.
func (m *Manager) Destroy(id string) {
	if id == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(id)
}

// DestroyAllForUser invalidates every live session of a user and
// returns how many were removed.
func (m *Manager) DestroyAllForUser(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		if sess.UserID == userID {
			m.removeLocked(id)
			removed++
		}
	}
	return removed
}

// Sweep removes expired sessions from the registry and returns the
// number removed.
func (m *Manager) Sweep() int {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		if now.After(sess.ExpiresAt) {
			m.removeLocked(id)
			removed++
		}
	}
	return removed
}

// ActiveCount returns the number of live sessions in the registry.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// trackedSessions returns the tracked session IDs for a user, oldest
// first. Sessions evicted from the tracking list may still be live.
func (m *Manager) trackedSessions(userID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byUser[userID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func (m *Manager) removeLocked(id string) {
	sess, ok := m.sessions[id]
	if !ok {
		return
	}
	delete(m.sessions, id)

	ids := m.byUser[sess.UserID]
	for i, other := range ids {
		if other == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(m.byUser, sess.UserID)
	} else {
		m.byUser[sess.UserID] = ids
	}
}

func copySession(s *Session) *Session {
	c := *s
	return &c
}
