// Grounded on cmd/cpeer-controller-manager/main.go's shape (a signal-bound
// context handed to the cobra command). SetupSignalHandler comes from
// sigs.k8s.io/controller-runtime rather than k8s.io/apiserver, matching the
// pattern used elsewhere in the addon-contrib examples.
package main

import (
	"os"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/fabgitops/operator/cmd/fabgitops-operator/app"
)

func main() {
	ctx := ctrl.SetupSignalHandler()
	if err := app.NewOperatorCommand(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}
