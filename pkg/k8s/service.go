package k8s

import (
	"fmt"
	"sort"
	"strings"

	apiv1 "k8s.io/api/core/v1"
)

/*
Service is the record type held by Services. It wraps the latest known
state of a kubernetes service and exposes it through flat attributes:

	id                namespace/name
	name, namespace
	uid, resource_version
	type, cluster_ip
	ports             "80/TCP,443/TCP"
	label:<key>
	annotation:<key>

A Service keeps its identity for as long as the kubernetes service exists,
updates replace the wrapped model in place.
*/
type Service struct {
	model apiv1.Service
}

// Key returns the namespace/name key of a kubernetes service.
func Key(model apiv1.Service) string {
	return model.Namespace + "/" + model.Name
}

// Get implements collection.Getter.
func (svc *Service) Get(attr string) (any, bool) {
	v, ok := attributes(svc.model)[attr]
	return v, ok
}

// Key returns this service's namespace/name key.
func (svc *Service) Key() string {
	return Key(svc.model)
}

// Model returns the k8s service model.
func (svc *Service) Model() apiv1.Service {
	return svc.model
}

// Name returns the k8s service name.
func (svc *Service) Name() string {
	return svc.model.Name
}

// Namespace returns the k8s service namespace.
func (svc *Service) Namespace() string {
	return svc.model.Namespace
}

// String implements fmt.Stringer.
func (svc *Service) String() string {
	return svc.Key()
}

func attributes(model apiv1.Service) map[string]string {
	attrs := map[string]string{
		"id":               Key(model),
		"name":             model.Name,
		"namespace":        model.Namespace,
		"uid":              string(model.UID),
		"resource_version": model.ResourceVersion,
		"type":             string(model.Spec.Type),
		"cluster_ip":       model.Spec.ClusterIP,
		"ports":            ports(model),
	}
	for k, v := range model.Labels {
		attrs["label:"+k] = v
	}
	for k, v := range model.Annotations {
		attrs["annotation:"+k] = v
	}
	return attrs
}

func ports(model apiv1.Service) string {
	list := make([]string, 0, len(model.Spec.Ports))
	for _, port := range model.Spec.Ports {
		protocol := port.Protocol
		if "" == protocol {
			protocol = apiv1.ProtocolTCP
		}
		list = append(list, fmt.Sprintf("%d/%s", port.Port, protocol))
	}
	return strings.Join(list, ",")
}

/*
changedAttrs returns the sorted names of the attributes that differ
between two versions of a service, including attributes present in only
one of them. resource_version is not reported.
*/
func changedAttrs(cur, new apiv1.Service) []string {
	a, b := attributes(cur), attributes(new)
	changed := []string{}
	for k, v := range a {
		if w, ok := b[k]; !ok || v != w {
			changed = append(changed, k)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			changed = append(changed, k)
		}
	}
	filtered := changed[:0]
	for _, k := range changed {
		if "resource_version" != k {
			filtered = append(filtered, k)
		}
	}
	sort.Strings(filtered)
	return filtered
}
