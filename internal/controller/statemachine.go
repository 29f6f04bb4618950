// Grounded on internal/controller/vehicle/fsm.go's use of looplab/fsm:
// named events and side-effect callbacks registered as "enter_<state>",
// wrapped through internal/pkg/util/fsm.WrapEvent, which records a returned
// error on the event; the state has already changed by then, so the error
// does not undo the transition. Generalized here to the six-phase device
// lifecycle.
package controller

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	fabgitopsv1 "github.com/fabgitops/operator/api/v1"
	fsmutil "github.com/fabgitops/operator/internal/pkg/util/fsm"
)

const (
	EventConnect       = "connect"
	EventConnected     = "connected"
	EventConnectFailed = "connect_failed"
	EventDrift         = "drift"
	EventCorrect       = "correct"
	EventCorrected     = "corrected"
	EventCorrectFailed = "correct_failed"
	EventRetry         = "retry"
)

// PhaseMachine drives IndustrialPLC.Status.Phase through the transition
// table in spec §4.5:
//
//	Pending -> Connecting -> Connected -> DriftDetected -> Correcting -> Connected
//	Connecting -> Failed, Correcting -> Failed, Failed -> Connecting
type PhaseMachine struct {
	*fsm.FSM
}

// NewPhaseMachine builds a PhaseMachine starting in initial.
func NewPhaseMachine(initial fabgitopsv1.PLCPhase) *PhaseMachine {
	m := &PhaseMachine{}

	events := fsm.Events{
		{Name: EventConnect, Src: []string{
			string(fabgitopsv1.PLCPhasePending),
			string(fabgitopsv1.PLCPhaseFailed),
		}, Dst: string(fabgitopsv1.PLCPhaseConnecting)},

		{Name: EventConnected, Src: []string{string(fabgitopsv1.PLCPhaseConnecting)}, Dst: string(fabgitopsv1.PLCPhaseConnected)},
		{Name: EventConnectFailed, Src: []string{string(fabgitopsv1.PLCPhaseConnecting)}, Dst: string(fabgitopsv1.PLCPhaseFailed)},

		{Name: EventDrift, Src: []string{string(fabgitopsv1.PLCPhaseConnected)}, Dst: string(fabgitopsv1.PLCPhaseDriftDetected)},
		{Name: EventCorrect, Src: []string{string(fabgitopsv1.PLCPhaseDriftDetected)}, Dst: string(fabgitopsv1.PLCPhaseCorrecting)},
		{Name: EventCorrected, Src: []string{string(fabgitopsv1.PLCPhaseCorrecting)}, Dst: string(fabgitopsv1.PLCPhaseConnected)},
		{Name: EventCorrectFailed, Src: []string{string(fabgitopsv1.PLCPhaseCorrecting)}, Dst: string(fabgitopsv1.PLCPhaseFailed)},
	}

	callbacks := fsm.Callbacks{
		"enter_" + string(fabgitopsv1.PLCPhaseConnecting):    fsmutil.WrapEvent(m.actionEnterConnecting),
		"enter_" + string(fabgitopsv1.PLCPhaseConnected):     fsmutil.WrapEvent(m.actionEnterConnected),
		"enter_" + string(fabgitopsv1.PLCPhaseDriftDetected): fsmutil.WrapEvent(m.actionEnterDriftDetected),
		"enter_" + string(fabgitopsv1.PLCPhaseCorrecting):    fsmutil.WrapEvent(m.actionEnterCorrecting),
		"enter_" + string(fabgitopsv1.PLCPhaseFailed):        fsmutil.WrapEvent(m.actionEnterFailed),
	}

	m.FSM = fsm.NewFSM(string(initial), events, callbacks)
	return m
}

func plcFromArgs(e *fsm.Event) *fabgitopsv1.IndustrialPLC {
	return e.Args[0].(*fabgitopsv1.IndustrialPLC)
}

func (m *PhaseMachine) actionEnterConnecting(_ context.Context, e *fsm.Event) error {
	plc := plcFromArgs(e)
	plc.Status.Phase = fabgitopsv1.PLCPhaseConnecting
	plc.Status.Message = "probing device reachability"
	return nil
}

func (m *PhaseMachine) actionEnterConnected(_ context.Context, e *fsm.Event) error {
	plc := plcFromArgs(e)
	plc.Status.Phase = fabgitopsv1.PLCPhaseConnected
	plc.Status.InSync = true
	plc.Status.LastError = ""
	plc.Status.Message = "register value matches target"
	return nil
}

func (m *PhaseMachine) actionEnterDriftDetected(_ context.Context, e *fsm.Event) error {
	plc := plcFromArgs(e)
	plc.Status.Phase = fabgitopsv1.PLCPhaseDriftDetected
	plc.Status.InSync = false
	plc.Status.DriftEvents++
	plc.Status.Message = "register value diverged from target"
	return nil
}

func (m *PhaseMachine) actionEnterCorrecting(_ context.Context, e *fsm.Event) error {
	plc := plcFromArgs(e)
	plc.Status.Phase = fabgitopsv1.PLCPhaseCorrecting
	plc.Status.Message = "writing target value to device"
	return nil
}

func (m *PhaseMachine) actionEnterFailed(_ context.Context, e *fsm.Event) error {
	plc := plcFromArgs(e)
	plc.Status.Phase = fabgitopsv1.PLCPhaseFailed
	plc.Status.InSync = false

	errMsg := "unknown error"
	if len(e.Args) > 1 && e.Args[1] != nil {
		if err, ok := e.Args[1].(error); ok {
			errMsg = err.Error()
		} else if s, ok := e.Args[1].(string); ok {
			errMsg = s
		}
	}
	plc.Status.LastError = errMsg
	plc.Status.Message = fmt.Sprintf("reconcile failed: %s", errMsg)
	return nil
}
