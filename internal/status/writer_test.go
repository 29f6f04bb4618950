package status_test

import (
	"context"
	"testing"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	fabgitopsv1 "github.com/fabgitops/operator/api/v1"
	"github.com/fabgitops/operator/internal/status"
)

func newPLC(name string) *fabgitopsv1.IndustrialPLC {
	return &fabgitopsv1.IndustrialPLC{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Spec: fabgitopsv1.IndustrialPLCSpec{
			DeviceAddress:  "127.0.0.1",
			TargetRegister: 10,
			TargetValue:    100,
		},
	}
}

func newScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	s := runtime.NewScheme()
	if err := fabgitopsv1.AddToScheme(s); err != nil {
		t.Fatalf("AddToScheme: %v", err)
	}
	return s
}

func TestPatchAppliesMutation(t *testing.T) {
	scheme := newScheme(t)
	plc := newPLC("line-1")
	cli := fake.NewClientBuilder().WithScheme(scheme).WithObjects(plc).WithStatusSubresource(plc).Build()

	w := status.NewWriter(cli)
	err := w.Patch(context.Background(), plc, func(s *fabgitopsv1.IndustrialPLCStatus) {
		s.Phase = fabgitopsv1.PLCPhaseConnected
		s.InSync = true
	})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}

	var got fabgitopsv1.IndustrialPLC
	if err := cli.Get(context.Background(), client.ObjectKeyFromObject(plc), &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status.Phase != fabgitopsv1.PLCPhaseConnected {
		t.Fatalf("Phase = %s, want Connected", got.Status.Phase)
	}
	if !got.Status.InSync {
		t.Fatal("expected InSync to be true")
	}
	if got.Status.LastUpdate == nil {
		t.Fatal("expected LastUpdate to be stamped")
	}
}

func TestPatchReturnsNonConflictErrorImmediately(t *testing.T) {
	scheme := newScheme(t)
	cli := fake.NewClientBuilder().WithScheme(scheme).Build()

	// plc was never created, so the status patch fails with NotFound, not
	// Conflict, and must not be retried.
	plc := newPLC("missing")
	w := status.NewWriter(cli)
	err := w.Patch(context.Background(), plc, func(s *fabgitopsv1.IndustrialPLCStatus) {
		s.Phase = fabgitopsv1.PLCPhaseFailed
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !apierrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
