// Package options defines the configuration objects wired into the
// fabgitops-operator command line via cobra/pflag/viper.
//
// Grounded on the option-object pattern already used by http_options.go and
// kube_options.go (Validate() []error, AddFlags(fs, prefixes...)); this file
// supplies the IOptions interface and shared validation helpers those files
// depend on but do not themselves define.
package options

import (
	"fmt"
	"net"

	"github.com/spf13/pflag"
)

// IOptions is implemented by every option group registered with the
// command line. Validate reports configuration errors found after flag
// parsing; AddFlags registers the group's flags. The option groups in
// this package ignore the prefixes argument.
type IOptions interface {
	Validate() []error
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}

var errLeaderElectionIDRequired = fmt.Errorf("kube.leader-election-id must be set when leader election is enabled")

// ValidateAddress checks that addr is a well-formed host:port pair.
func ValidateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address must not be empty")
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if port == "" {
		return fmt.Errorf("invalid address %q: missing port", addr)
	}
	return nil
}
