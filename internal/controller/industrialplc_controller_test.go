package controller_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	fabgitopsv1 "github.com/fabgitops/operator/api/v1"
	"github.com/fabgitops/operator/internal/controller"
	"github.com/fabgitops/operator/internal/metrics"
	"github.com/fabgitops/operator/internal/plcclient"
)

// fakeDevice is an in-memory plcclient.Client stand-in whose behavior each
// test configures directly, avoiding a real TCP round trip for pure
// reconcile-logic scenarios.
type fakeDevice struct {
	mu         sync.Mutex
	reachable  bool
	registers  map[uint16]uint16
	readErr    error
	writeErr   error
	writeCalls int
}

func newFakeDevice(reg, value uint16) *fakeDevice {
	return &fakeDevice{reachable: true, registers: map[uint16]uint16{reg: value}}
}

func (f *fakeDevice) Reachable(context.Context, string, int32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reachable
}

func (f *fakeDevice) ReadRegister(_ context.Context, _ string, _ int32, reg uint16) (uint16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return 0, f.readErr
	}
	return f.registers[reg], nil
}

func (f *fakeDevice) WriteRegister(_ context.Context, _ string, _ int32, reg uint16, value uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.registers[reg] = value
	return nil
}

var _ plcclient.Client = (*fakeDevice)(nil)

func newTestReconciler(t *testing.T, plc *fabgitopsv1.IndustrialPLC, device plcclient.Client) (*controller.Reconciler, ctrl.Request) {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := fabgitopsv1.AddToScheme(scheme); err != nil {
		t.Fatalf("AddToScheme: %v", err)
	}
	cli := fake.NewClientBuilder().WithScheme(scheme).WithObjects(plc).WithStatusSubresource(plc).Build()
	recorder := record.NewFakeRecorder(20)
	r := controller.NewReconciler(cli, scheme, recorder, device, metrics.New())
	req := ctrl.Request{NamespacedName: types.NamespacedName{Name: plc.Name, Namespace: plc.Namespace}}
	return r, req
}

func fetchPLC(t *testing.T, r *controller.Reconciler, req ctrl.Request) *fabgitopsv1.IndustrialPLC {
	t.Helper()
	var got fabgitopsv1.IndustrialPLC
	if err := r.Get(context.Background(), req.NamespacedName, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	return &got
}

func basePLC(name string, target int32, autoCorrect bool) *fabgitopsv1.IndustrialPLC {
	return &fabgitopsv1.IndustrialPLC{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Spec: fabgitopsv1.IndustrialPLCSpec{
			DeviceAddress:    "127.0.0.1",
			Port:             502,
			TargetRegister:   10,
			TargetValue:      target,
			PollIntervalSecs: 5,
			AutoCorrect:      autoCorrect,
		},
	}
}

// Scenario A: steady state, register already matches target.
func TestReconcileSteadyState(t *testing.T) {
	plc := basePLC("steady", 100, true)
	device := newFakeDevice(10, 100)
	r, req := newTestReconciler(t, plc, device)

	res, err := r.Reconcile(context.Background(), req)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.RequeueAfter != 5*time.Second {
		t.Fatalf("RequeueAfter = %v, want 5s", res.RequeueAfter)
	}

	got := fetchPLC(t, r, req)
	if got.Status.Phase != fabgitopsv1.PLCPhaseConnected {
		t.Fatalf("Phase = %s, want Connected", got.Status.Phase)
	}
	if !got.Status.InSync {
		t.Fatal("expected InSync true")
	}
	if device.writeCalls != 0 {
		t.Fatalf("expected no write calls, got %d", device.writeCalls)
	}
}

// Scenario B: single drift, auto-corrected.
func TestReconcileDriftAutoCorrected(t *testing.T) {
	plc := basePLC("drifted", 100, true)
	device := newFakeDevice(10, 42)
	r, req := newTestReconciler(t, plc, device)

	if _, err := r.Reconcile(context.Background(), req); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	got := fetchPLC(t, r, req)
	if got.Status.Phase != fabgitopsv1.PLCPhaseConnected {
		t.Fatalf("Phase = %s, want Connected after correction", got.Status.Phase)
	}
	if got.Status.DriftEvents != 1 {
		t.Fatalf("DriftEvents = %d, want 1", got.Status.DriftEvents)
	}
	if got.Status.CorrectionsApplied != 1 {
		t.Fatalf("CorrectionsApplied = %d, want 1", got.Status.CorrectionsApplied)
	}
	if device.writeCalls != 1 {
		t.Fatalf("writeCalls = %d, want 1", device.writeCalls)
	}
	if got.Status.CurrentValue == nil || *got.Status.CurrentValue != 100 {
		t.Fatalf("CurrentValue = %v, want 100", got.Status.CurrentValue)
	}
}

// Scenario C: drift observed but auto-correct disabled.
func TestReconcileDriftWithoutAutoCorrect(t *testing.T) {
	plc := basePLC("manual", 100, false)
	device := newFakeDevice(10, 42)
	r, req := newTestReconciler(t, plc, device)

	if _, err := r.Reconcile(context.Background(), req); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	got := fetchPLC(t, r, req)
	if got.Status.Phase != fabgitopsv1.PLCPhaseDriftDetected {
		t.Fatalf("Phase = %s, want DriftDetected", got.Status.Phase)
	}
	if device.writeCalls != 0 {
		t.Fatalf("expected no write with auto-correct disabled, got %d calls", device.writeCalls)
	}
}

// Scenario D: device unreachable, backoff escalates 2s/4s/8s across passes.
func TestReconcileUnreachableBackoffEscalates(t *testing.T) {
	plc := basePLC("offline", 100, true)
	device := newFakeDevice(10, 100)
	device.reachable = false
	r, req := newTestReconciler(t, plc, device)

	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	for i, w := range want {
		res, err := r.Reconcile(context.Background(), req)
		if err != nil {
			t.Fatalf("pass %d: Reconcile returned error: %v", i, err)
		}
		if res.RequeueAfter != w {
			t.Fatalf("pass %d: RequeueAfter = %v, want %v", i, res.RequeueAfter, w)
		}
	}

	got := fetchPLC(t, r, req)
	if got.Status.Phase != fabgitopsv1.PLCPhaseFailed {
		t.Fatalf("Phase = %s, want Failed", got.Status.Phase)
	}
	if got.Status.LastError == "" {
		t.Fatal("expected LastError to be set")
	}
}

// Scenario E: write fails during correction.
func TestReconcileWriteFails(t *testing.T) {
	plc := basePLC("write-fail", 100, true)
	device := newFakeDevice(10, 42)
	device.writeErr = errors.New("device rejected write")
	r, req := newTestReconciler(t, plc, device)

	if _, err := r.Reconcile(context.Background(), req); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	got := fetchPLC(t, r, req)
	if got.Status.Phase != fabgitopsv1.PLCPhaseFailed {
		t.Fatalf("Phase = %s, want Failed", got.Status.Phase)
	}
	if got.Status.CorrectionsApplied != 0 {
		t.Fatalf("CorrectionsApplied = %d, want 0", got.Status.CorrectionsApplied)
	}
}

// Scenario F: user changes target value mid-flight; the next pass should
// treat the new target as authoritative rather than the one already
// corrected toward.
func TestReconcileTargetChangedMidFlight(t *testing.T) {
	plc := basePLC("retarget", 100, true)
	device := newFakeDevice(10, 42)
	r, req := newTestReconciler(t, plc, device)

	if _, err := r.Reconcile(context.Background(), req); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	got := fetchPLC(t, r, req)
	if got.Status.Phase != fabgitopsv1.PLCPhaseConnected {
		t.Fatalf("Phase after first pass = %s, want Connected", got.Status.Phase)
	}

	got.Spec.TargetValue = 200
	if err := r.Update(context.Background(), got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := r.Reconcile(context.Background(), req); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}

	final := fetchPLC(t, r, req)
	if final.Status.Phase != fabgitopsv1.PLCPhaseConnected {
		t.Fatalf("Phase after retarget correction = %s, want Connected", final.Status.Phase)
	}
	if final.Status.CurrentValue == nil || *final.Status.CurrentValue != 200 {
		t.Fatalf("CurrentValue = %v, want 200", final.Status.CurrentValue)
	}
	if device.writeCalls != 2 {
		t.Fatalf("writeCalls = %d, want 2 (initial correction + retarget correction)", device.writeCalls)
	}
}
