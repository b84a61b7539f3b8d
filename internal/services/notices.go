package services

import (
	"sync"
	"time"
)

// NoticeKind distinguishes success and error notices.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a short-lived message shown after a mutation attempt.
type Notice struct {
	Kind    NoticeKind
	Message string
	At      time.Time
}

// Notices holds at most one transient notice. Setting a notice replaces the
// previous one, so a success clears a pending error and vice versa.
type Notices struct {
	mu      sync.Mutex
	now     func() time.Time
	ttl     time.Duration
	current *Notice
}

// NewNotices returns a Notices whose entries expire after ttl (5s when ttl <= 0).
func NewNotices(ttl time.Duration, now func() time.Time) *Notices {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &Notices{now: now, ttl: ttl}
}

// Success records a success notice.
func (n *Notices) Success(msg string) { n.set(NoticeSuccess, msg) }

// Error records an error notice.
func (n *Notices) Error(msg string) { n.set(NoticeError, msg) }

func (n *Notices) set(kind NoticeKind, msg string) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = &Notice{Kind: kind, Message: msg, At: n.now()}
}

// Current returns the latest notice if it has not expired.
func (n *Notices) Current() (Notice, bool) {
	if n == nil {
		return Notice{}, false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notice{}, false
	}
	if n.now().Sub(n.current.At) >= n.ttl {
		n.current = nil
		return Notice{}, false
	}
	return *n.current, true
}

// Clear drops any pending notice.
func (n *Notices) Clear() {
	if n == nil {
		return
	}
	n.mu.Lock()
	n.current = nil
	n.mu.Unlock()
}
