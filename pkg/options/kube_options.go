package options

import (
	"github.com/spf13/pflag"
)

var _ IOptions = (*KubeOptions)(nil)

// KubeOptions contains configuration for Kubernetes client interactions.
type KubeOptions struct {
	// Namespace restricts the controller's watch to a single namespace.
	// Empty means watch all namespaces.
	Namespace string `json:"namespace" mapstructure:"namespace"`

	// KubeConfig is the path to the kubeconfig file.
	// If empty, it defaults to in-cluster config or standard KUBECONFIG env.
	KubeConfig string `json:"kubeconfig" mapstructure:"kubeconfig"`

	// LeaderElect enables leader election so only one operator replica
	// reconciles at a time.
	LeaderElect bool `json:"leaderElect" mapstructure:"leaderElect"`

	// LeaderElectionID is the resource lock name used to coordinate
	// leader election among operator replicas.
	LeaderElectionID string `json:"leaderElectionID" mapstructure:"leaderElectionID"`
}

// NewKubeOptions creates a new KubeOptions with default values.
func NewKubeOptions() *KubeOptions {
	return &KubeOptions{
		Namespace:        "",
		KubeConfig:       "",
		LeaderElect:      false,
		LeaderElectionID: "fabgitops-operator-lock",
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *KubeOptions) Validate() []error {
	if o == nil {
		return nil
	}
	if o.LeaderElect && o.LeaderElectionID == "" {
		return []error{errLeaderElectionIDRequired}
	}
	return nil
}

// AddFlags adds flags for KubeOptions to the specified FlagSet.
func (o *KubeOptions) AddFlags(fs *pflag.FlagSet, _ ...string) {
	fs.StringVar(&o.Namespace, "kube.namespace", o.Namespace, "Restrict reconciliation to a single namespace; empty watches all namespaces.")
	fs.StringVar(&o.KubeConfig, "kube.kubeconfig", o.KubeConfig, "Path to kubeconfig file with authorization and master location information.")
	fs.BoolVar(&o.LeaderElect, "kube.leader-elect", o.LeaderElect, "Enable leader election for controller manager HA.")
	fs.StringVar(&o.LeaderElectionID, "kube.leader-election-id", o.LeaderElectionID, "Resource lock name used for leader election.")
}
