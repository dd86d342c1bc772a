// Package ledger provides RevocationLedger implementations. The ledger is
// the authoritative record of which refresh tokens are currently honored:
// a token missing from it is revoked or was never issued.
package ledger

import (
	"context"
	"sync"
	"time"
)

// MemoryLedger is a mutex-guarded in-process ledger. Suitable for a single
// server instance; multi-instance deployments need RedisLedger so revocation
// is shared.
type MemoryLedger struct {
	mu     sync.Mutex
	active map[string]time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{active: make(map[string]time.Time)}
}

func (l *MemoryLedger) Activate(_ context.Context, token string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active[token] = time.Now().Add(ttl)
	return nil
}

func (l *MemoryLedger) Deactivate(_ context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.active, token)
	return nil
}

func (l *MemoryLedger) IsActive(_ context.Context, token string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry, ok := l.active[token]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		// Lazy purge: the signed token is expired anyway, drop the entry.
		delete(l.active, token)
		return false, nil
	}
	return true, nil
}
