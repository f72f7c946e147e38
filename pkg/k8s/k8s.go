package k8s

import (
	"time"

	errs "github.com/bdlm/errors"
	"github.com/mkenney/k8s-view/internal/codes"
	"k8s.io/client-go/kubernetes"
	corev1 "k8s.io/client-go/kubernetes/typed/core/v1"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

/*
K8S defines the kubernetes API client
*/
type K8S struct {
	Client   corev1.CoreV1Interface
	Services *Services
}

/*
New is the constructor for the K8S struct. An empty kubeconfig selects the
in-cluster configuration. An empty namespace watches every namespace.
*/
func New(kubeconfig, namespace string, interval time.Duration) (*K8S, error) {
	var config *rest.Config
	var err error

	if "" == kubeconfig {
		config, err = rest.InClusterConfig()
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if nil != err {
		return nil, errs.Wrap(err, codes.ErrK8sConfig, "could not load the kubernetes client configuration")
	}

	// create the client
	client, err := kubernetes.NewForConfig(config)
	if nil != err {
		return nil, errs.Wrap(err, codes.ErrK8sConfig, "could not create the kubernetes client")
	}

	return NewForClient(client.CoreV1(), namespace, interval), nil
}

/*
NewForClient wraps an existing client.
*/
func NewForClient(client corev1.CoreV1Interface, namespace string, interval time.Duration) *K8S {
	return &K8S{
		Client:   client,
		Services: NewServices(client.Services(namespace), interval),
	}
}
