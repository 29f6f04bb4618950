// Grounded on cmd/cpeer-controller-manager/app/controller.go's cobra
// command shape: NewXCommand(ctx) builds a *cobra.Command adding the goflag
// set to pflag.CommandLine; RunE loads configuration, initializes logging,
// and installs the resulting Logger into controller-runtime via SetLogger. The manager+HTTP-server joint lifecycle in RunE is grounded on
// golang.org/x/sync/errgroup's standard "first error cancels the group"
// pattern, replacing the teacher's single-goroutine mgr.Start call because
// this operator also owns its own metrics/health HTTP server.
package app

import (
	"context"
	"flag"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/component-base/cli/globalflag"
	controllerruntime "sigs.k8s.io/controller-runtime"

	"github.com/fabgitops/operator/cmd/fabgitops-operator/app/options"
	"github.com/fabgitops/operator/internal/controller"
	"github.com/fabgitops/operator/internal/metrics"
	"github.com/fabgitops/operator/pkg/log"
)

// NewOperatorCommand builds the fabgitops-operator root command.
func NewOperatorCommand(ctx context.Context) *cobra.Command {
	opts := options.NewOperatorOptions()
	var configFile *string
	cmd := &cobra.Command{
		Use:  "fabgitops-operator",
		Long: "fabgitops-operator reconciles IndustrialPLC resources against Modbus-TCP field devices, correcting drift between the desired and observed register state.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd.Flags(), *configFile); err != nil {
				return err
			}

			for _, err := range opts.Validate() {
				log.Error(err, "invalid option")
			}

			log.Init(opts.LogOptions)
			controllerruntime.SetLogger(log.Std().Logr())

			var kubeconfig *rest.Config
			if opts.Kube.KubeConfig != "" {
				cfg, err := clientcmd.BuildConfigFromFlags("", opts.Kube.KubeConfig)
				if err != nil {
					log.Error(err, "failed to load kubeconfig", "path", opts.Kube.KubeConfig)
					return err
				}
				kubeconfig = cfg
			} else {
				kubeconfig = controllerruntime.GetConfigOrDie()
			}
			reg := metrics.New()

			mgr, err := controller.NewManager(kubeconfig, controller.ManagerConfig{
				Namespace:               opts.Kube.Namespace,
				LeaderElect:             opts.Kube.LeaderElect,
				LeaderElectionID:        opts.Kube.LeaderElectionID,
				MaxConcurrentReconciles: opts.ConcurrentReconciles,
			}, reg)
			if err != nil {
				log.Error(err, "failed to build controller manager")
				return err
			}

			metricsSrv := metrics.NewServer(opts.Metrics.Addr, reg)

			group, groupCtx := errgroup.WithContext(ctx)
			group.Go(func() error {
				return mgr.Start(groupCtx)
			})
			group.Go(func() error {
				return metricsSrv.Run(groupCtx)
			})

			if err := group.Wait(); err != nil {
				log.Error(err, "operator exited with error")
				return err
			}
			return nil
		},
	}

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	fs := cmd.Flags()
	configFile = addConfigFlag(fs)
	namedfs := opts.Flags()
	globalflag.AddGlobalFlags(namedfs.FlagSet("global"), cmd.Name())
	for _, f := range namedfs.FlagSets {
		fs.AddFlagSet(f)
	}

	return cmd
}
