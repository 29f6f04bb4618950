package controller

import (
	"testing"
	"time"

	"k8s.io/apimachinery/pkg/types"
)

func TestBackoffForSequence(t *testing.T) {
	cases := []struct {
		failures int
		want     time.Duration
	}{
		{0, 0},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 32 * time.Second},
		{6, 60 * time.Second},
		{100, 60 * time.Second},
	}
	for _, tc := range cases {
		if got := backoffFor(tc.failures); got != tc.want {
			t.Errorf("backoffFor(%d) = %v, want %v", tc.failures, got, tc.want)
		}
	}
}

func TestFailureTrackerResetsOnSuccess(t *testing.T) {
	tracker := newFailureTracker()
	key := types.NamespacedName{Name: "line-1", Namespace: "default"}

	if d := tracker.RecordFailure(key); d != 2*time.Second {
		t.Fatalf("first failure backoff = %v, want 2s", d)
	}
	if d := tracker.RecordFailure(key); d != 4*time.Second {
		t.Fatalf("second failure backoff = %v, want 4s", d)
	}

	tracker.RecordSuccess(key)

	if d := tracker.RecordFailure(key); d != 2*time.Second {
		t.Fatalf("backoff after reset = %v, want 2s", d)
	}
}
