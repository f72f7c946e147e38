/*
Package config reads the k8s-view settings from the environment and the
optional view specification file.
*/
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"time"

	errs "github.com/bdlm/errors"
	"github.com/bdlm/log"
	"github.com/ghodss/yaml"
	"github.com/mkenney/k8s-view/internal/codes"
	"github.com/mkenney/k8s-view/pkg/subcollection"
)

/*
Config holds all of our configuration values.
*/
type Config struct {
	// Port defines the exposed HTTP port (K8S_VIEW_PORT, default 80).
	Port int
	// SecurePort defines the exposed SSL port (K8S_VIEW_SSLPORT, default 443).
	SecurePort int
	// CertFile and KeyFile locate the SSL certificate (K8S_VIEW_SSLCERT,
	// K8S_VIEW_SSLKEY). The SSL listener only starts if both are set.
	CertFile string
	KeyFile  string
	// Timeout defines the proxy timeout in seconds (K8S_VIEW_TIMEOUT,
	// default 10). Cannot be greater than 15 minutes (900 seconds).
	Timeout int
	// Default names the service that receives unmatched requests
	// (K8S_VIEW_DEFAULT).
	Default string
	// Kubeconfig is the path to a kubeconfig file (KUBECONFIG). Empty
	// selects the in-cluster configuration.
	Kubeconfig string
	// Namespace limits discovery to one namespace (K8S_VIEW_NAMESPACE).
	Namespace string
	// Interval is the delay between service polls (K8S_VIEW_INTERVAL,
	// seconds, default 5).
	Interval time.Duration
	// View selects and orders the routed services (K8S_VIEW_SPEC, path to
	// a YAML or JSON file).
	View ViewSpec
}

/*
ViewSpec is the serializable form of a route view specification.

Where values are compared as strings, like every attribute of a
kubernetes service record, so `expose: true` and `expose: "true"` are
equivalent.
*/
type ViewSpec struct {
	Where   map[string]any `json:"where,omitempty"`
	Limit   *int           `json:"limit,omitempty"`
	Offset  *int           `json:"offset,omitempty"`
	Loop    bool           `json:"loop,omitempty"`
	Sort    string         `json:"sort,omitempty"`
	Reverse bool           `json:"reverse,omitempty"`
	Watched []string       `json:"watched,omitempty"`
}

// DefaultViewSpec routes every service, ordered by name.
func DefaultViewSpec() ViewSpec {
	return ViewSpec{Sort: "name"}
}

/*
Load reads the configuration from the environment. Invalid numeric values
are logged and replaced by their defaults; an unreadable or invalid view
specification file is an error.
*/
func Load() (*Config, error) {
	config := &Config{
		Port:       intEnv("K8S_VIEW_PORT", 80, 1, 65535),
		SecurePort: intEnv("K8S_VIEW_SSLPORT", 443, 1, 65535),
		CertFile:   os.Getenv("K8S_VIEW_SSLCERT"),
		KeyFile:    os.Getenv("K8S_VIEW_SSLKEY"),
		Timeout:    intEnv("K8S_VIEW_TIMEOUT", 10, 0, 900),
		Default:    os.Getenv("K8S_VIEW_DEFAULT"),
		Kubeconfig: os.Getenv("KUBECONFIG"),
		Namespace:  os.Getenv("K8S_VIEW_NAMESPACE"),
		Interval:   time.Duration(intEnv("K8S_VIEW_INTERVAL", 5, 1, 3600)) * time.Second,
		View:       DefaultViewSpec(),
	}

	if file := os.Getenv("K8S_VIEW_SPEC"); "" != file {
		spec, err := ReadViewSpec(file)
		if nil != err {
			return nil, err
		}
		config.View = spec
	}

	return config, nil
}

/*
ReadViewSpec parses a view specification file.
*/
func ReadViewSpec(file string) (ViewSpec, error) {
	spec := ViewSpec{}
	data, err := ioutil.ReadFile(file)
	if nil != err {
		return spec, errs.Wrap(err, codes.ErrInvalidSpec, fmt.Sprintf("could not read view spec '%s'", file))
	}
	if err := yaml.Unmarshal(data, &spec); nil != err {
		return spec, errs.Wrap(err, codes.ErrInvalidSpec, fmt.Sprintf("could not parse view spec '%s'", file))
	}
	return spec, nil
}

/*
Spec converts a ViewSpec into a view configuration. Sorting by an
attribute also watches it, so the order follows attribute changes.
*/
func Spec[M comparable](vs ViewSpec) subcollection.Spec[M] {
	spec := subcollection.Spec[M]{
		Limit:   vs.Limit,
		Offset:  vs.Offset,
		Loop:    vs.Loop,
		Watched: append([]string{}, vs.Watched...),
	}
	if 0 < len(vs.Where) {
		spec.Where = make(map[string]any, len(vs.Where))
		for k, v := range vs.Where {
			spec.Where[k] = fmt.Sprint(v)
		}
	}
	if "" != vs.Sort {
		spec.Comparator = subcollection.ByAttr[M](vs.Sort)
		if vs.Reverse {
			spec.Comparator = spec.Comparator.Reverse()
		}
		spec.Watched = append(spec.Watched, vs.Sort)
	}
	return spec
}

func intEnv(name string, def, min, max int) int {
	raw := os.Getenv(name)
	if "" == raw {
		return def
	}
	v, err := strconv.Atoi(raw)
	if nil != err || v < min || v > max {
		log.Warnf("invalid %s env '%s', defaulting to %d", name, raw, def)
		return def
	}
	return v
}
