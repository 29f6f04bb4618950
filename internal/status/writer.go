// Package status applies IndustrialPLC status updates through the status
// subresource, retrying on write conflicts.
//
// Grounded on internal/controller/vehicle/controller.go's
// r.Status().Patch(ctx, obj, client.MergeFrom(original)) pattern, extended
// with an explicit conflict-retry loop: the teacher patches once and
// surfaces the error to the workqueue for a full requeue, but spec §4.4
// calls for three immediate retries with jittered backoff before giving up.
package status

import (
	"context"
	"math/rand"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	fabgitopsv1 "github.com/fabgitops/operator/api/v1"
	"github.com/fabgitops/operator/pkg/log"
)

const (
	maxAttempts = 4 // the first patch plus up to three conflict retries
	retryBase   = 50 * time.Millisecond
	retryJitter = 25 * time.Millisecond
)

// Writer patches IndustrialPLC status subresources with conflict retry.
type Writer struct {
	cli client.Client
}

// NewWriter returns a Writer backed by cli.
func NewWriter(cli client.Client) *Writer {
	return &Writer{cli: cli}
}

// Mutate is applied to a fresh copy of plc.Status before each patch attempt,
// so that a stale-object conflict can be retried against a freshly fetched
// copy of the resource.
type Mutate func(status *fabgitopsv1.IndustrialPLCStatus)

// Patch applies mutate to plc's status and writes it via the status
// subresource, retrying up to three times on conflict with jittered
// backoff. LastUpdate is stamped immediately before each send attempt.
func (w *Writer) Patch(ctx context.Context, plc *fabgitopsv1.IndustrialPLC, mutate Mutate) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := w.cli.Get(ctx, client.ObjectKeyFromObject(plc), plc); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBase + time.Duration(rand.Int63n(int64(retryJitter)))):
			}
		}

		original := plc.DeepCopy()
		mutate(&plc.Status)
		now := metav1.Now()
		plc.Status.LastUpdate = &now

		err := w.cli.Status().Patch(ctx, plc, client.MergeFrom(original))
		if err == nil {
			return nil
		}
		if !apierrors.IsConflict(err) {
			return err
		}

		lastErr = err
		log.Warn("status patch conflict, retrying", "attempt", attempt+1, "name", plc.Name, "namespace", plc.Namespace)
	}
	return lastErr
}
