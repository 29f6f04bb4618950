package main

import (
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	controllerclient "sigs.k8s.io/controller-runtime/pkg/client"

	fabgitopsv1 "github.com/fabgitops/operator/api/v1"
)

// newClient builds a controller-runtime client scoped to the IndustrialPLC
// scheme, using kubeconfigPath if set or in-cluster config otherwise.
func newClient(kubeconfigPath string) (controllerclient.Client, error) {
	var cfg *rest.Config
	var err error

	if kubeconfigPath == "" {
		cfg, err = rest.InClusterConfig()
	} else {
		cfg, err = clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	}
	if err != nil {
		return nil, err
	}

	s := runtime.NewScheme()
	utilruntime.Must(scheme.AddToScheme(s))
	utilruntime.Must(fabgitopsv1.AddToScheme(s))

	return controllerclient.New(cfg, controllerclient.Options{Scheme: s})
}
