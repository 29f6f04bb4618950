package controller

import (
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/types"
)

const maxBackoff = 60 * time.Second

// failureTracker computes the per-resource exponential backoff described in
// spec §4.6: min(2^failures, 60) seconds, reset to zero on a successful
// pass. Deliberately independent of controller-runtime's default workqueue
// rate limiter, which backs off per-key on requeue count rather than on the
// domain-specific "consecutive reconcile failures" this operator tracks.
type failureTracker struct {
	mu       sync.Mutex
	failures map[types.NamespacedName]int
}

func newFailureTracker() *failureTracker {
	return &failureTracker{failures: make(map[types.NamespacedName]int)}
}

// RecordFailure increments the failure count for key and returns the
// backoff duration to apply on the next requeue.
func (t *failureTracker) RecordFailure(key types.NamespacedName) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures[key]++
	return backoffFor(t.failures[key])
}

// RecordSuccess resets the failure count for key.
func (t *failureTracker) RecordSuccess(key types.NamespacedName) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.failures, key)
}

// backoffFor implements min(2^failures, 60) seconds: 2s, 4s, 8s, 16s, 32s,
// then pinned at the 60s ceiling.
func backoffFor(failures int) time.Duration {
	if failures <= 0 {
		return 0
	}
	if failures >= 6 {
		return maxBackoff
	}
	seconds := 1 << uint(failures)
	d := time.Duration(seconds) * time.Second
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
