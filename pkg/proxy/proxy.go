package proxy

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bdlm/log"
	"github.com/mkenney/k8s-view/pkg/collection"
	"github.com/mkenney/k8s-view/pkg/config"
	"github.com/mkenney/k8s-view/pkg/events"
	"github.com/mkenney/k8s-view/pkg/k8s"
	"github.com/mkenney/k8s-view/pkg/metrics"
	"github.com/mkenney/k8s-view/pkg/subcollection"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	apiv1 "k8s.io/api/core/v1"
)

// selfService is never proxied.
const selfService = "k8s-view"

/*
New initializes the proxy service and returns a pointer to the service
instance. The routing table is a live view over services configured by
cfg.View: services entering the view are registered, services leaving it
are dropped, and host matching follows the view order.
*/
func New(cfg *config.Config, services *k8s.Services) (*Proxy, error) {
	registry := prometheus.NewRegistry()
	proxy := &Proxy{
		Default:    cfg.Default,
		Port:       cfg.Port,
		SecurePort: cfg.SecurePort,
		CertFile:   cfg.CertFile,
		KeyFile:    cfg.KeyFile,
		Timeout:    cfg.Timeout,

		services: services,
		registry: registry,
		readyCh:  make(chan struct{}),
		serviceMap: ServiceMap{
			"http":  make(map[string]*Route),
			"https": make(map[string]*Route),
		},
		routes: map[*k8s.Service][]*Route{},
	}
	collector := metrics.New(registry)

	err := services.Do(func(c *collection.Collection[*k8s.Service]) error {
		proxy.view = subcollection.New[*k8s.Service](
			c,
			config.Spec[*k8s.Service](cfg.View),
			subcollection.WithName("routes"),
			subcollection.WithObserver(collector),
		)
		for _, svc := range proxy.view.Models() {
			proxy.register(svc)
		}
		proxy.reorder()

		proxy.view.On(events.Add, func(ev events.Event[*k8s.Service]) error {
			proxy.register(ev.Model)
			return nil
		})
		proxy.view.On(events.Remove, func(ev events.Event[*k8s.Service]) error {
			proxy.RemoveService(ev.Model)
			return nil
		})
		proxy.view.On(events.Sort, func(events.Event[*k8s.Service]) error {
			proxy.reorder()
			return nil
		})
		proxy.view.On(events.Change, func(ev events.Event[*k8s.Service]) error {
			if ev.IsAttrChange() {
				return nil
			}
			// ports or labels may have moved, rebuild this service's routes
			proxy.RemoveService(ev.Model)
			proxy.register(ev.Model)
			proxy.reorder()
			return nil
		})
		return nil
	})
	return proxy, err
}

/*
Proxy holds configuration data and methods for running the kubernetes
proxy service.
*/
type Proxy struct {
	Default    string
	Port       int
	SecurePort int
	CertFile   string
	KeyFile    string
	Timeout    int

	services *k8s.Services
	view     *subcollection.View[*k8s.Service]
	registry *prometheus.Registry

	ready   atomic.Bool
	readyCh chan struct{}
	servers []*http.Server

	svcMapMux  sync.Mutex
	serviceMap ServiceMap
	routes     map[*k8s.Service][]*Route
	order      []*Route
}

/*
Route defines a proxied k8s service port.
*/
type Route struct {
	Key      string
	Name     string
	Port     int32
	Protocol string
	Scheme   string
	Proxy    *ReverseProxy
}

/*
ServiceMap is a map of scheme to host key to route.
*/
type ServiceMap map[string]map[string]*Route

/*
AddService registers a route for every TCP port of a service. The host key
is the service's "domain" label, or its name.
*/
func (proxy *Proxy) AddService(svc *k8s.Service) error {
	service := svc.Model()
	if selfService == service.Name {
		return nil
	}

	key, ok := service.Labels["domain"]
	if !ok {
		key = service.Name
	}

	routes := []*Route{}
	for _, port := range service.Spec.Ports {
		if "" != port.Protocol && apiv1.ProtocolTCP != port.Protocol {
			continue
		}
		log.WithFields(log.Fields{
			"name": service.Name,
			"port": port.Port,
		}).Info("registering service")

		rp, err := NewReverseProxy(service, port, time.Duration(proxy.Timeout)*time.Second)
		if nil != err {
			return err
		}

		routes = append(routes, &Route{
			Key:      key,
			Name:     service.Name,
			Port:     port.Port,
			Protocol: string(apiv1.ProtocolTCP),
			Scheme:   rp.URL.Scheme,
			Proxy:    rp,
		})
	}

	proxy.svcMapMux.Lock()
	defer proxy.svcMapMux.Unlock()
	for _, route := range routes {
		proxy.serviceMap[route.Scheme][route.Key] = route
	}
	proxy.routes[svc] = routes
	return nil
}

/*
RemoveService removes a service's routes from the map.
*/
func (proxy *Proxy) RemoveService(svc *k8s.Service) {
	proxy.svcMapMux.Lock()
	defer proxy.svcMapMux.Unlock()

	for _, route := range proxy.routes[svc] {
		log.WithFields(log.Fields{
			"name": route.Name,
			"port": route.Port,
		}).Info("removing service")
		if cur, ok := proxy.serviceMap[route.Scheme][route.Key]; ok && cur == route {
			delete(proxy.serviceMap[route.Scheme], route.Key)
		}
	}
	delete(proxy.routes, svc)
}

/*
Routes returns the registered routes in match order.
*/
func (proxy *Proxy) Routes() []*Route {
	proxy.svcMapMux.Lock()
	defer proxy.svcMapMux.Unlock()
	return append([]*Route{}, proxy.order...)
}

/*
Handler returns the proxy's HTTP handler: probes, metrics and the
passthrough.
*/
func (proxy *Proxy) Handler() http.Handler {
	mux := http.NewServeMux()

	// Kubernetes liveness probe.
	mux.HandleFunc("/xalive", func(w http.ResponseWriter, r *http.Request) {
		log.Debug("liveness probe OK")
		w.Write([]byte("OK"))
	})

	// Kubernetes readiness probe.
	mux.HandleFunc("/xready", func(w http.ResponseWriter, r *http.Request) {
		if proxy.ready.Load() {
			log.Debug("readiness probe OK")
			w.Write([]byte("OK"))
			return
		}

		log.Error("readiness probe failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		HTTPErrs[503].Execute(w, struct {
			Reason string
			Host   string
			Msg    string
		}{
			Reason: "readiness probe failed",
			Host:   r.Host,
		})
	})

	mux.Handle("/metrics", promhttp.HandlerFor(proxy.registry, promhttp.HandlerOpts{}))

	// Add passthrough handler.
	mux.HandleFunc("/", proxy.Pass)

	return mux
}

/*
Pass passes HTTP traffic through to the requested service.
*/
func (proxy *Proxy) Pass(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if nil != r.TLS {
		scheme = "https"
	}

	if route, ok := proxy.match(scheme, r.Host); ok {
		log.WithFields(log.Fields{
			"endpoint": route.Proxy.URL,
			"request":  fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL),
		}).Infof("serving request")
		route.Proxy.ServeHTTP(w, r)
		return
	}

	log.WithFields(log.Fields{
		"url": fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL),
	}).Warn("request failed, no matching service found")

	routes := []*Route{}
	for _, route := range proxy.Routes() {
		if scheme == route.Scheme {
			routes = append(routes, route)
		}
	}
	w.WriteHeader(http.StatusBadGateway)
	HTTPErrs[502].Execute(w, struct {
		Host   string
		Scheme string
		Routes []*Route
	}{
		Host:   r.Host,
		Scheme: strings.ToUpper(scheme),
		Routes: routes,
	})
}

/*
Start starts the service watcher and the HTTP (and, if a certificate is
configured, SSL) listeners. Listener errors are sent on the returned
channel.
*/
func (proxy *Proxy) Start(ctx context.Context) chan error {
	errs := make(chan error, 2)

	// This will block until service data is available.
	if err := proxy.services.Watch(ctx); nil != err {
		errs <- err
		return errs
	}
	proxy.ready.Store(true)
	close(proxy.readyCh)

	log.WithFields(log.Fields{
		"port": proxy.Port,
	}).Info("starting kubernetes proxy")

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", proxy.Port),
		Handler: proxy.Handler(),
	}
	proxy.servers = append(proxy.servers, server)
	go func() {
		log.WithFields(log.Fields{
			"port": proxy.Port,
		}).Info("starting HTTP passthrough service")
		if err := server.ListenAndServe(); http.ErrServerClosed != err {
			errs <- err
		}
	}()

	if "" != proxy.CertFile && "" != proxy.KeyFile {
		secure := &http.Server{
			Addr:    fmt.Sprintf(":%d", proxy.SecurePort),
			Handler: proxy.Handler(),
		}
		proxy.servers = append(proxy.servers, secure)
		go func() {
			log.WithFields(log.Fields{
				"port": proxy.SecurePort,
			}).Infof("starting SSL passthrough service")
			if err := secure.ListenAndServeTLS(proxy.CertFile, proxy.KeyFile); http.ErrServerClosed != err {
				errs <- err
			}
		}()
	}

	return errs
}

/*
Stop shuts the listeners down and stops watching services.
*/
func (proxy *Proxy) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, server := range proxy.servers {
		if err := server.Shutdown(ctx); nil != err {
			log.WithField("err", err).Warnf("%-v", err)
		}
	}
	proxy.services.Stop()
	proxy.services.Do(func(*collection.Collection[*k8s.Service]) error {
		proxy.view.Release()
		return nil
	})
}

/*
Wait will block until the k8s services are ready
*/
func (proxy *Proxy) Wait() {
	<-proxy.readyCh
}

func (proxy *Proxy) register(svc *k8s.Service) {
	if err := proxy.AddService(svc); nil != err {
		log.WithFields(log.Fields{
			"service": svc.Key(),
			"err":     err,
		}).Warnf("%-v", err)
	}
}

// reorder rebuilds the match order from the view order.
func (proxy *Proxy) reorder() {
	members := proxy.view.Models()

	proxy.svcMapMux.Lock()
	defer proxy.svcMapMux.Unlock()
	order := []*Route{}
	for _, svc := range members {
		order = append(order, proxy.routes[svc]...)
	}
	proxy.order = order
}

/*
match returns the first route, in view order, whose host key prefixes the
request host, falling back to the default service.
*/
func (proxy *Proxy) match(scheme, host string) (*Route, bool) {
	proxy.svcMapMux.Lock()
	defer proxy.svcMapMux.Unlock()

	for _, route := range proxy.order {
		if scheme == route.Scheme && strings.HasPrefix(host, route.Key+".") {
			return route, true
		}
	}
	route, ok := proxy.serviceMap[scheme][proxy.Default]
	return route, ok
}
