package proxy

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	errs "github.com/bdlm/errors"
	"github.com/mkenney/k8s-view/internal/codes"
	apiv1 "k8s.io/api/core/v1"
)

/*
NewReverseProxy creates a new reverse proxy to forward traffic through to
the given service port.
*/
func NewReverseProxy(service apiv1.Service, port apiv1.ServicePort, timeout time.Duration) (*ReverseProxy, error) {
	target, err := serviceURL(service, port)
	if nil != err {
		return nil, errs.Wrap(err, codes.ErrServiceProxy, fmt.Sprintf("invalid service url for '%s'", service.Name))
	}
	return newReverseProxy(service.Name, target, timeout), nil
}

// serviceURL resolves the in-cluster address of a service port.
var serviceURL = func(service apiv1.Service, port apiv1.ServicePort) (*url.URL, error) {
	scheme := "http"
	if 443 == port.Port {
		scheme = "https"
	}
	return url.Parse(fmt.Sprintf(
		"%s://%s.%s.svc.cluster.local:%d",
		scheme,
		service.Name,
		service.Namespace,
		port.Port,
	))
}

func newReverseProxy(name string, target *url.URL, timeout time.Duration) *ReverseProxy {
	rp := &ReverseProxy{
		URL:       target,
		proxy:     httputil.NewSingleHostReverseProxy(target),
		Active:    true,
		Available: time.Now(),
		Service:   name,
	}

	// Don't validate SSL certificates
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	transport.ResponseHeaderTimeout = timeout
	rp.proxy.Transport = transport
	rp.proxy.FlushInterval = 0

	return rp
}

/*
ReverseProxy defines a proxy to a service.
*/
type ReverseProxy struct {
	Active    bool
	Available time.Time
	Service   string
	URL       *url.URL

	proxy *httputil.ReverseProxy
}

/*
String implements stringer. Return the URL for this proxy.
*/
func (rp *ReverseProxy) String() string {
	return rp.URL.String()
}

/*
ServeHTTP starts the HTTP server for this proxy.
*/
func (rp *ReverseProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rp.proxy.ServeHTTP(w, r)
}
