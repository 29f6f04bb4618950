package main

import (
	"context"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/client"

	fabgitopsv1 "github.com/fabgitops/operator/api/v1"
)

func newGetCommand(kubeconfig, namespace *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "List IndustrialPLC resources and their reconciled status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newClient(*kubeconfig)
			if err != nil {
				return fmt.Errorf("building client: %w", err)
			}

			var list fabgitopsv1.IndustrialPLCList
			listOpts := []client.ListOption{}
			if *namespace != "" {
				listOpts = append(listOpts, client.InNamespace(*namespace))
			}
			if err := cli.List(context.Background(), &list, listOpts...); err != nil {
				return fmt.Errorf("listing IndustrialPLC: %w", err)
			}

			table := uitable.New()
			table.MaxColWidth = 60
			table.AddRow("NAMESPACE", "NAME", "DEVICE", "REGISTER", "DESIRED", "ACTUAL", "PHASE")
			for _, plc := range list.Items {
				actual := "-"
				if plc.Status.CurrentValue != nil {
					actual = fmt.Sprintf("%d", *plc.Status.CurrentValue)
				}
				table.AddRow(
					plc.Namespace,
					plc.Name,
					fmt.Sprintf("%s:%d", plc.Spec.DeviceAddress, plc.EffectivePort()),
					plc.Spec.TargetRegister,
					plc.Spec.TargetValue,
					actual,
					plc.Status.Phase,
				)
			}

			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
