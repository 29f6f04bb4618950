// fabctl is a small operator-adjacent CLI for inspecting IndustrialPLC
// status without kubectl's generic column output.
//
// Grounded on internal/cloudhub/k8s/client.go's client construction
// (a runtime.Scheme built from client-go's default scheme plus the
// operator's own AddToScheme, wired into a controller-runtime client via
// either in-cluster config or clientcmd.BuildConfigFromFlags) and on
// cmd/cpeer-controller-manager's cobra command layout. The table renderer
// uses github.com/gosuri/uitable, part of the teacher's dependency set.
package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var kubeconfig string
	var namespace string

	cmd := &cobra.Command{
		Use:   "fabctl",
		Short: "fabctl inspects IndustrialPLC resources managed by fabgitops-operator",
	}
	cmd.PersistentFlags().StringVar(&kubeconfig, "kubeconfig", "", "Path to kubeconfig file; defaults to in-cluster config.")
	cmd.PersistentFlags().StringVar(&namespace, "namespace", "", "Namespace to list; empty lists all namespaces.")

	cmd.AddCommand(newGetCommand(&kubeconfig, &namespace))
	return cmd
}
