// Package controller implements the IndustrialPLC Controller Runtime
// component: reconcile dispatch, phase state machine, and per-resource
// backoff.
//
// Grounded on internal/controller/vehicle/controller.go's Reconciler shape
// (embedded client.Client, Scheme, Recorder, a constructor wiring
// collaborators, SetupWithManager via ctrl.NewControllerManagedBy) and
// internal/operator/controller/physicaldevice_controller.go's simpler
// fetch/compare/act body. The reconcile procedure itself (probe, read,
// compare, correct, publish) is grounded on
// original_source/crates/operator/src/controller.rs.
package controller

import (
	"context"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	ctrlcontroller "sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/log"

	fabgitopsv1 "github.com/fabgitops/operator/api/v1"
	"github.com/fabgitops/operator/internal/events"
	"github.com/fabgitops/operator/internal/metrics"
	"github.com/fabgitops/operator/internal/plcclient"
	"github.com/fabgitops/operator/internal/status"
)

// Reconciler reconciles an IndustrialPLC object against the physical
// register it targets.
type Reconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder

	Device  plcclient.Client
	Metrics *metrics.Registry
	Events  *events.Emitter
	Status  *status.Writer

	backoff *failureTracker
}

// NewReconciler wires an IndustrialPLC Reconciler from its collaborators.
func NewReconciler(cli client.Client, sche *runtime.Scheme, recorder record.EventRecorder, device plcclient.Client, reg *metrics.Registry) *Reconciler {
	return &Reconciler{
		Client:   cli,
		Scheme:   sche,
		Recorder: recorder,
		Device:   device,
		Metrics:  reg,
		Events:   events.NewEmitter(recorder),
		Status:   status.NewWriter(cli),
		backoff:  newFailureTracker(),
	}
}

// +kubebuilder:rbac:groups=fabgitops.io,resources=industrialplcs,verbs=get;list;watch;update;patch
// +kubebuilder:rbac:groups=fabgitops.io,resources=industrialplcs/status,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch

// Reconcile drives one pass of the drift-detection-and-correction loop
// described in spec §4.5: probe reachability, read the target register,
// compare against the desired value, optionally correct it, and record the
// outcome in status, metrics, and events.
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)
	start := time.Now()

	r.updateManagedPLCs(ctx)

	var plc fabgitopsv1.IndustrialPLC
	if err := r.Get(ctx, req.NamespacedName, &plc); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		logger.Error(err, "unable to fetch IndustrialPLC")
		return ctrl.Result{}, err
	}

	reconcileErr := r.reconcileDevice(ctx, &plc)
	r.Metrics.SetReconcileDuration(plc.Name, plc.Namespace, time.Since(start).Seconds())

	if reconcileErr != nil {
		delay := r.backoff.RecordFailure(req.NamespacedName)
		logger.Error(reconcileErr, "reconcile failed, backing off", "delay", delay)
		return ctrl.Result{RequeueAfter: delay}, nil
	}

	r.backoff.RecordSuccess(req.NamespacedName)
	pollInterval := time.Duration(plc.EffectivePollInterval()) * time.Second
	return ctrl.Result{RequeueAfter: pollInterval}, nil
}

// updateManagedPLCs refreshes the managed_plcs gauge from a fresh List every
// pass, so it reflects creations and deletions without a separate watch.
func (r *Reconciler) updateManagedPLCs(ctx context.Context) {
	var list fabgitopsv1.IndustrialPLCList
	if err := r.List(ctx, &list); err != nil {
		log.FromContext(ctx).Error(err, "failed to list IndustrialPLC for managed_plcs metric")
		return
	}
	r.Metrics.SetManagedPLCs(len(list.Items))
}

// reconcileDevice runs the read/compare/correct cycle. It advances a scratch
// copy of plc through the phase state machine so that status.Writer can
// still diff against the untouched original, then commits the scratch
// status fields at the end of the pass; a pass that corrects drift also
// commits an intermediate Correcting status before the write.
func (r *Reconciler) reconcileDevice(ctx context.Context, plc *fabgitopsv1.IndustrialPLC) error {
	logger := log.FromContext(ctx)
	scratch := plc.DeepCopy()
	// Every pass re-probes the device, so a phase other than Failed left by
	// the previous pass restarts the machine from Pending; both climb back
	// through Connecting before this pass's outcome is recorded.
	initial := currentPhase(scratch)
	if initial != fabgitopsv1.PLCPhaseFailed {
		initial = fabgitopsv1.PLCPhasePending
	}
	machine := NewPhaseMachine(initial)

	if !r.Device.Reachable(ctx, plc.Spec.DeviceAddress, plc.EffectivePort()) {
		cause := &plcclient.Error{Op: "reachable", Kind: plcclient.KindUnreachable, Err: fmt.Errorf("no response from %s:%d", plc.Spec.DeviceAddress, plc.EffectivePort())}
		r.Metrics.SetConnectionStatus(plc.Name, plc.Namespace, false)
		r.fail(machine, scratch, cause)
		if err := r.commit(ctx, plc, scratch, nil); err != nil {
			return err
		}
		r.Events.ConnectionFailed(plc, cause)
		return cause
	}
	r.Metrics.SetConnectionStatus(plc.Name, plc.Namespace, true)

	value, err := r.Device.ReadRegister(ctx, plc.Spec.DeviceAddress, plc.EffectivePort(), uint16(plc.Spec.TargetRegister))
	if err != nil {
		r.fail(machine, scratch, err)
		if commitErr := r.commit(ctx, plc, scratch, nil); commitErr != nil {
			return commitErr
		}
		r.Events.ReadFailed(plc, err)
		return err
	}

	r.Metrics.SetRegisterValue(plc.Name, plc.Namespace, value)
	current := int32(value)

	if current == plc.Spec.TargetValue {
		r.ensureConnected(machine, scratch)
		return r.commit(ctx, plc, scratch, &current)
	}

	r.Metrics.RecordDrift(plc.Name, plc.Namespace)
	r.ensureConnected(machine, scratch)
	r.transition(machine, scratch, EventDrift, nil)
	r.Events.DriftDetected(plc, uint16(plc.Spec.TargetValue), value)

	if !plc.Spec.AutoCorrect {
		logger.Info("drift detected, auto-correct disabled", "name", plc.Name, "namespace", plc.Namespace)
		return r.commit(ctx, plc, scratch, &current)
	}

	r.transition(machine, scratch, EventCorrect, nil)
	if err := r.commit(ctx, plc, scratch, &current); err != nil {
		return err
	}

	if writeErr := r.Device.WriteRegister(ctx, plc.Spec.DeviceAddress, plc.EffectivePort(), uint16(plc.Spec.TargetRegister), uint16(plc.Spec.TargetValue)); writeErr != nil {
		r.fail(machine, scratch, writeErr)
		if commitErr := r.commit(ctx, plc, scratch, nil); commitErr != nil {
			return commitErr
		}
		r.Events.WriteFailed(plc, writeErr)
		return writeErr
	}

	r.Metrics.RecordCorrection(plc.Name, plc.Namespace)
	scratch.Status.CorrectionsApplied++
	corrected := plc.Spec.TargetValue
	r.transition(machine, scratch, EventCorrected, nil)
	r.Events.DriftCorrected(plc, uint16(plc.Spec.TargetValue))

	return r.commit(ctx, plc, scratch, &corrected)
}

// transition advances machine by event against scratch's status in place.
// Illegal-transition errors are ignored: reconcile logic only ever issues
// events valid for the phase it just observed.
func (r *Reconciler) transition(machine *PhaseMachine, scratch *fabgitopsv1.IndustrialPLC, event string, cause error) {
	args := []interface{}{scratch}
	if cause != nil {
		args = append(args, cause)
	}
	_ = machine.Event(context.Background(), event, args...)
}

// ensureConnected climbs Pending/Failed->Connecting->Connected before a
// caller fires an event whose only valid Src is Connected (EventDrift): a
// freshly-created resource starts in Pending and never passes through
// Connecting/Connected on its own. A no-op once the machine is already
// Connected.
func (r *Reconciler) ensureConnected(machine *PhaseMachine, scratch *fabgitopsv1.IndustrialPLC) {
	if machine.Current() == string(fabgitopsv1.PLCPhasePending) || machine.Current() == string(fabgitopsv1.PLCPhaseFailed) {
		r.transition(machine, scratch, EventConnect, nil)
	}
	if machine.Current() == string(fabgitopsv1.PLCPhaseConnecting) {
		r.transition(machine, scratch, EventConnected, nil)
	}
}

func (r *Reconciler) fail(machine *PhaseMachine, scratch *fabgitopsv1.IndustrialPLC, cause error) {
	if machine.Current() == string(fabgitopsv1.PLCPhasePending) || machine.Current() == string(fabgitopsv1.PLCPhaseFailed) {
		r.transition(machine, scratch, EventConnect, nil)
	}
	event := EventConnectFailed
	if machine.Current() == string(fabgitopsv1.PLCPhaseCorrecting) {
		event = EventCorrectFailed
	}
	r.transition(machine, scratch, event, cause)
}

// commit patches plc's status subresource with the fields the state machine
// wrote onto scratch.
func (r *Reconciler) commit(ctx context.Context, plc *fabgitopsv1.IndustrialPLC, scratch *fabgitopsv1.IndustrialPLC, value *int32) error {
	return r.Status.Patch(ctx, plc, func(s *fabgitopsv1.IndustrialPLCStatus) {
		s.Phase = scratch.Status.Phase
		s.InSync = scratch.Status.InSync
		s.DriftEvents = scratch.Status.DriftEvents
		s.CorrectionsApplied = scratch.Status.CorrectionsApplied
		s.LastError = scratch.Status.LastError
		s.Message = scratch.Status.Message
		if value != nil {
			s.CurrentValue = value
		}
	})
}

func currentPhase(plc *fabgitopsv1.IndustrialPLC) fabgitopsv1.PLCPhase {
	if plc.Status.Phase == "" {
		return fabgitopsv1.PLCPhasePending
	}
	return plc.Status.Phase
}

// SetupWithManager registers the reconciler with mgr. maxConcurrent caps how
// many IndustrialPLC keys are reconciled in parallel; a value <= 0 leaves
// controller-runtime's own default (1) in place.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager, maxConcurrent int) error {
	bldr := ctrl.NewControllerManagedBy(mgr).
		For(&fabgitopsv1.IndustrialPLC{})
	if maxConcurrent > 0 {
		bldr = bldr.WithOptions(ctrlcontroller.Options{MaxConcurrentReconciles: maxConcurrent})
	}
	return bldr.Complete(r)
}
