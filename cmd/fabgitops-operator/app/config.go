package app

import (
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fabgitops/operator/pkg/log"
)

// envPrefix namespaces FABGITOPS_-prefixed environment variables bound
// onto the flag set, e.g. FABGITOPS_KUBE_NAMESPACE -> --kube.namespace.
const envPrefix = "FABGITOPS"

// loadConfig layers configuration sources onto opts in ascending priority:
// flag defaults, an optional config file (--config), environment
// variables, then explicit command-line flags. Flags the user actually
// set on the command line are never overridden.
//
// configFile may be empty, in which case only environment variables are
// applied. When set and the file later changes on disk, changes are
// logged via fsnotify so operators can confirm a reload was picked up
// without restarting the process; values already bound to running
// components (the manager, the metrics server) are not hot-swapped.
func loadConfig(fs *pflag.FlagSet, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Info("config file changed, restart to apply", "path", e.Name, "op", e.Op.String())
		})
		v.WatchConfig()
	}

	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	applyLegacyEnvAliases(v)

	var applyErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := fs.Set(f.Name, v.GetString(f.Name)); err != nil {
			applyErr = err
		}
	})
	return applyErr
}

// applyLegacyEnvAliases maps the handful of bare (unprefixed) environment
// variables the wider Kubernetes/Rust ecosystem expects operators to
// honor onto their FABGITOPS_-prefixed equivalents: LOG_LEVEL and
// RUST_LOG both set the log level, HOSTNAME seeds the logger name so
// logs from a replicated Deployment can be told apart.
func applyLegacyEnvAliases(v *viper.Viper) {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		v.Set("log.level", level)
	} else if level := os.Getenv("RUST_LOG"); level != "" {
		v.Set("log.level", level)
	}
	if host := os.Getenv("HOSTNAME"); host != "" && !v.IsSet("log.name") {
		v.Set("log.name", host)
	}
}

// addConfigFlag registers the --config flag used to locate an optional
// configuration file, separate from options.OperatorOptions since it
// governs how the rest of the options are loaded rather than being a
// reconciler-facing setting itself.
func addConfigFlag(fs *pflag.FlagSet) *string {
	return fs.String("config", "", "Path to an optional YAML/JSON/TOML config file layered under environment variables and flags.")
}
