/*
Copyright 2025 Anankix.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// IndustrialPLCSpec defines the desired register state of one device.
type IndustrialPLCSpec struct {
	// DeviceAddress is the host or IP the device listens on.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:MinLength=1
	DeviceAddress string `json:"deviceAddress"`

	// Port is the TCP port the device speaks the register protocol on.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=65535
	// +kubebuilder:default=502
	Port int32 `json:"port,omitempty"`

	// TargetRegister is the zero-based holding register to observe and, if
	// AutoCorrect is set, to write.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:Minimum=0
	// +kubebuilder:validation:Maximum=65535
	TargetRegister int32 `json:"targetRegister"`

	// TargetValue is the desired contents of TargetRegister.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:Minimum=0
	// +kubebuilder:validation:Maximum=65535
	TargetValue int32 `json:"targetValue"`

	// PollIntervalSecs is the cadence between reconcile passes. Clamped to a
	// minimum of 1s by the reconciler.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:default=5
	PollIntervalSecs int32 `json:"pollIntervalSecs,omitempty"`

	// AutoCorrect, when false, makes drift observation-only: the operator
	// reports DriftDetected but never issues a write.
	// +kubebuilder:default=true
	AutoCorrect bool `json:"autoCorrect,omitempty"`

	// Tags are opaque labels; the operator neither interprets them nor
	// copies them into status or events.
	// +optional
	Tags []string `json:"tags,omitempty"`
}

// PLCPhase is the coarse lifecycle state of an IndustrialPLC.
type PLCPhase string

const (
	PLCPhasePending       PLCPhase = "Pending"
	PLCPhaseConnecting    PLCPhase = "Connecting"
	PLCPhaseConnected     PLCPhase = "Connected"
	PLCPhaseDriftDetected PLCPhase = "DriftDetected"
	PLCPhaseCorrecting    PLCPhase = "Correcting"
	PLCPhaseFailed        PLCPhase = "Failed"
)

// IndustrialPLCStatus is owned exclusively by the operator.
type IndustrialPLCStatus struct {
	// Phase is the coarse lifecycle state; see PLCPhase.
	// +optional
	Phase PLCPhase `json:"phase,omitempty"`

	// CurrentValue is the most recent successfully read register value.
	// +optional
	CurrentValue *int32 `json:"currentValue,omitempty"`

	// InSync is true iff CurrentValue equalled TargetValue at the last
	// successful observation.
	InSync bool `json:"inSync,omitempty"`

	// DriftEvents is the cumulative count of observations where the read
	// value differed from TargetValue. Never reset while the resource
	// exists.
	DriftEvents int64 `json:"driftEvents,omitempty"`

	// CorrectionsApplied is the cumulative count of successful writes that
	// closed a drift. Never reset while the resource exists.
	CorrectionsApplied int64 `json:"correctionsApplied,omitempty"`

	// LastError is the human-readable cause of the most recent failure;
	// cleared on any successful read.
	// +optional
	LastError string `json:"lastError,omitempty"`

	// Message is a human-readable summary of the current phase.
	// +optional
	Message string `json:"message,omitempty"`

	// LastUpdate is set on every status write.
	// +optional
	LastUpdate *metav1.Time `json:"lastUpdate,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=plc
// +kubebuilder:printcolumn:name="Device",type="string",JSONPath=".spec.deviceAddress"
// +kubebuilder:printcolumn:name="Register",type="integer",JSONPath=".spec.targetRegister"
// +kubebuilder:printcolumn:name="Desired",type="integer",JSONPath=".spec.targetValue"
// +kubebuilder:printcolumn:name="Actual",type="integer",JSONPath=".status.currentValue"
// +kubebuilder:printcolumn:name="Status",type="string",JSONPath=".status.phase"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// IndustrialPLC is the Schema for the industrialplcs API.
type IndustrialPLC struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   IndustrialPLCSpec   `json:"spec,omitempty"`
	Status IndustrialPLCStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// IndustrialPLCList contains a list of IndustrialPLC.
type IndustrialPLCList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []IndustrialPLC `json:"items"`
}

func init() {
	SchemeBuilder.Register(&IndustrialPLC{}, &IndustrialPLCList{})
}

// EffectivePort returns Spec.Port, defaulting to the protocol's standard
// port when unset (envtest/unit-constructed objects may skip defaulting).
func (p *IndustrialPLC) EffectivePort() int32 {
	if p.Spec.Port == 0 {
		return 502
	}
	return p.Spec.Port
}

// EffectivePollInterval returns Spec.PollIntervalSecs clamped to a 1s floor,
// defaulting to 5s when unset.
func (p *IndustrialPLC) EffectivePollInterval() int32 {
	switch {
	case p.Spec.PollIntervalSecs == 0:
		return 5
	case p.Spec.PollIntervalSecs < 1:
		return 1
	default:
		return p.Spec.PollIntervalSecs
	}
}
