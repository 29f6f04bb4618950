package options

import (
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*MetricsOptions)(nil)

// MetricsOptions configures the /metrics and /health HTTP server exposed
// by the operator, per spec §6.
type MetricsOptions struct {
	// Network is parsed from --metrics.network but not passed to the
	// metrics server, which always listens on tcp.
	Network string `json:"network" mapstructure:"network"`

	// Addr is the bind address for the metrics/health server.
	Addr string `json:"addr" mapstructure:"addr"`

	// ReadHeaderTimeout is parsed from --metrics.read-header-timeout but not
	// passed to the metrics server, which always uses a fixed 5s
	// read-header timeout.
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" mapstructure:"readHeaderTimeout"`
}

// NewMetricsOptions returns MetricsOptions with the operator's defaults.
func NewMetricsOptions() *MetricsOptions {
	return &MetricsOptions{
		Network:           "tcp",
		Addr:              "0.0.0.0:8080",
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Validate checks the bind address is well-formed.
func (o *MetricsOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if err := ValidateAddress(o.Addr); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// AddFlags registers the metrics server's flags.
func (o *MetricsOptions) AddFlags(fs *pflag.FlagSet, _ ...string) {
	fs.StringVar(&o.Network, "metrics.network", o.Network, "Network for the metrics/health server (not applied; the server always listens on tcp).")
	fs.StringVar(&o.Addr, "metrics.bind-address", o.Addr, "Bind address for the metrics and health endpoints.")
	fs.DurationVar(&o.ReadHeaderTimeout, "metrics.read-header-timeout", o.ReadHeaderTimeout, "Read header timeout for the metrics server (not applied; the server always uses 5s).")
}
