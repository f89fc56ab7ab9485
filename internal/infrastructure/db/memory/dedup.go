package memory

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const dedupTTL = time.Hour

// DedupChecker is the in-process idempotency store used when Redis is not
// configured. Seen markers expire after dedupTTL; expiry is lazy, checked on
// lookup.
type DedupChecker struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// NewDedupChecker creates an empty in-memory DedupChecker.
func NewDedupChecker() *DedupChecker {
	return &DedupChecker{seen: make(map[string]time.Time)}
}

// IsDuplicate reports whether this exact event has already been processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, orderID, status string, ts time.Time) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := dedupKey(orderID, status, ts)
	expires, ok := d.seen[key]
	if !ok {
		return false, nil
	}
	if time.Now().After(expires) {
		delete(d.seen, key)
		return false, nil
	}
	return true, nil
}

// Mark records that this event has been processed.
func (d *DedupChecker) Mark(ctx context.Context, orderID, status string, ts time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen[dedupKey(orderID, status, ts)] = time.Now().Add(dedupTTL)
	return nil
}

func dedupKey(orderID, status string, ts time.Time) string {
	return fmt.Sprintf("event:%s:%s:%d", orderID, status, ts.Unix())
}
