// Grounded on cmd/cpeer-controller-manager/app/options/options.go's
// NamedFlagSets composition (one FlagSet per concern, joined under the
// cobra command). Adapted to the operator's own option groups instead of
// the teacher's feature-gate/hub-address fields.
package options

import (
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/fabgitops/operator/pkg/log"
	"github.com/fabgitops/operator/pkg/options"
)

// OperatorOptions aggregates every configurable surface of the
// fabgitops-operator binary.
type OperatorOptions struct {
	ConcurrentReconciles int
	Kube                 *options.KubeOptions
	Metrics              *options.MetricsOptions
	LogOptions           *log.Options
}

// NewOperatorOptions returns OperatorOptions populated with defaults.
func NewOperatorOptions() *OperatorOptions {
	return &OperatorOptions{
		ConcurrentReconciles: 1,
		Kube:                 options.NewKubeOptions(),
		Metrics:              options.NewMetricsOptions(),
		LogOptions:           log.NewOptions(),
	}
}

// Flags returns the option groups partitioned into named flag sets for
// --help grouping, per k8s.io/component-base/cli/flag conventions.
func (o *OperatorOptions) Flags() (fss cliflag.NamedFlagSets) {
	fs := fss.FlagSet("Reconciler")
	fs.IntVar(&o.ConcurrentReconciles, "concurrent-reconciles", o.ConcurrentReconciles, "The number of concurrent IndustrialPLC reconciles.")

	o.Kube.AddFlags(fss.FlagSet("Kubernetes"))
	o.Metrics.AddFlags(fss.FlagSet("Metrics"))
	o.LogOptions.AddFlags(fss.FlagSet("Log"))

	return fss
}

// Validate runs Validate across every option group and aggregates errors.
func (o *OperatorOptions) Validate() []error {
	var errs []error
	errs = append(errs, o.Kube.Validate()...)
	errs = append(errs, o.Metrics.Validate()...)
	return errs
}
