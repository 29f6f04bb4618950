// Package events publishes user-visible events correlated to an
// IndustrialPLC resource into the cluster's event stream.
//
// Grounded on internal/controller/vehicle/controller.go's use of
// k8s.io/client-go/tools/record.EventRecorder (r.Recorder.Eventf(...)),
// generalized here into a small named-reason wrapper matching the reason
// vocabulary in spec §4.3.
package events

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/tools/record"

	fabgitopsv1 "github.com/fabgitops/operator/api/v1"
	"github.com/fabgitops/operator/pkg/log"
)

// Reason names the event kinds emitted for an IndustrialPLC.
type Reason string

const (
	ReasonDriftDetected    Reason = "DriftDetected"
	ReasonDriftCorrected   Reason = "DriftCorrected"
	ReasonConnectionFailed Reason = "ConnectionFailed"
	ReasonReadFailed       Reason = "ReadFailed"
	ReasonWriteFailed      Reason = "WriteFailed"
)

// Emitter wraps a client-go EventRecorder. Emission failures are non-fatal
// to reconciliation: the underlying recorder never returns an error (events
// are fire-and-forget over the broadcaster), so failures here can only
// surface as panics from a misconfigured recorder, which callers should not
// need to guard against in the reconcile hot path.
type Emitter struct {
	recorder record.EventRecorder
}

// NewEmitter wraps recorder, typically obtained from
// manager.Manager.GetEventRecorderFor("fabgitops-operator").
func NewEmitter(recorder record.EventRecorder) *Emitter {
	return &Emitter{recorder: recorder}
}

// DriftDetected records a warning event describing the observed vs. target
// mismatch. Emitted on every pass that observes drift; not deduplicated,
// per spec §4.3.
func (e *Emitter) DriftDetected(plc *fabgitopsv1.IndustrialPLC, target, actual uint16) {
	e.emit(plc, corev1.EventTypeWarning, ReasonDriftDetected,
		"Register %d drifted: desired=%d, actual=%d", plc.Spec.TargetRegister, target, actual)
}

// DriftCorrected records a normal event on a successful correction write.
func (e *Emitter) DriftCorrected(plc *fabgitopsv1.IndustrialPLC, value uint16) {
	e.emit(plc, corev1.EventTypeNormal, ReasonDriftCorrected,
		"Register %d corrected to %d", plc.Spec.TargetRegister, value)
}

// ConnectionFailed records a warning event when the device is unreachable.
func (e *Emitter) ConnectionFailed(plc *fabgitopsv1.IndustrialPLC, cause error) {
	e.emit(plc, corev1.EventTypeWarning, ReasonConnectionFailed, "Device unreachable: %v", cause)
}

// ReadFailed records a warning event when a register read fails.
func (e *Emitter) ReadFailed(plc *fabgitopsv1.IndustrialPLC, cause error) {
	e.emit(plc, corev1.EventTypeWarning, ReasonReadFailed, "Failed to read register %d: %v", plc.Spec.TargetRegister, cause)
}

// WriteFailed records a warning event when a correction write fails.
func (e *Emitter) WriteFailed(plc *fabgitopsv1.IndustrialPLC, cause error) {
	e.emit(plc, corev1.EventTypeWarning, ReasonWriteFailed, "Failed to correct register %d: %v", plc.Spec.TargetRegister, cause)
}

func (e *Emitter) emit(plc *fabgitopsv1.IndustrialPLC, eventType string, reason Reason, format string, args ...any) {
	if e.recorder == nil {
		log.Warn("event recorder not configured, dropping event", "reason", reason)
		return
	}
	e.recorder.Eventf(plc, eventType, string(reason), format, args...)
}
