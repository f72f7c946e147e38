package k8s

import (
	"context"
	"sort"
	"sync"
	"time"

	errs "github.com/bdlm/errors"
	"github.com/bdlm/log"
	"github.com/mkenney/k8s-view/internal/codes"
	"github.com/mkenney/k8s-view/pkg/collection"
	apiv1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	corev1 "k8s.io/client-go/kubernetes/typed/core/v1"
)

/*
ChangeSet holds the differences between two lists of k8s services, keyed
by namespace/name.
*/
type ChangeSet struct {
	Added   map[string]apiv1.Service
	Removed map[string]apiv1.Service
	Updated map[string]apiv1.Service
}

// Empty returns whether the change set holds no changes.
func (changes ChangeSet) Empty() bool {
	return 0 == len(changes.Added) && 0 == len(changes.Removed) && 0 == len(changes.Updated)
}

/*
Services maintains an up to date collection of kubernetes services.

Every change to the collection, and every handler it triggers, runs while
the Services lock is held. Use Do to read the collection or to attach views
to it from other goroutines.
*/
type Services struct {
	client   corev1.ServiceInterface
	interval time.Duration

	svcMapMux  sync.Mutex
	svcMap     map[string]*Service
	collection *collection.Collection[*Service]

	cancel context.CancelFunc
	done   chan struct{}
}

/*
NewServices returns an empty service collection backed by client. interval
is the delay between polls, 5 seconds if not positive.
*/
func NewServices(client corev1.ServiceInterface, interval time.Duration) *Services {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	services := &Services{
		client:     client,
		interval:   interval,
		svcMap:     map[string]*Service{},
		collection: collection.New[*Service](),
	}
	services.collection.Index("name", func(svc *Service) any {
		return svc.Name()
	})
	return services
}

/*
Do runs fn with exclusive access to the service collection.
*/
func (services *Services) Do(fn func(*collection.Collection[*Service]) error) error {
	services.svcMapMux.Lock()
	defer services.svcMapMux.Unlock()
	return fn(services.collection)
}

/*
Refresh lists the services once and applies the differences to the
collection: new services are added, vanished ones removed, and services
with a new resource version are updated in place and announced with one
change event per modified attribute. A Sync event closes every successful
refresh.
*/
func (services *Services) Refresh() (ChangeSet, error) {
	svcs, err := services.client.List(metav1.ListOptions{})
	if nil != err {
		return ChangeSet{}, errs.Wrap(err, codes.ErrK8sList, "could not list kubernetes services")
	}

	services.svcMapMux.Lock()
	defer services.svcMapMux.Unlock()

	cur := make(map[string]apiv1.Service, len(services.svcMap))
	for k, svc := range services.svcMap {
		cur[k] = svc.model
	}
	next := make(map[string]apiv1.Service, len(svcs.Items))
	for _, model := range svcs.Items {
		next[Key(model)] = model
	}
	changes := diff(cur, next)

	// Apply in list order so the collection follows the API ordering.
	for _, model := range svcs.Items {
		key := Key(model)
		if _, ok := changes.Added[key]; !ok {
			continue
		}
		svc := &Service{model: model}
		services.svcMap[key] = svc
		log.WithFields(log.Fields{"service": key}).Info("service discovered")
		if err := services.collection.Add(svc); nil != err {
			return changes, err
		}
	}
	for _, key := range sortedKeys(changes.Removed) {
		svc := services.svcMap[key]
		delete(services.svcMap, key)
		log.WithFields(log.Fields{"service": key}).Info("service removed")
		if err := services.collection.Remove(svc); nil != err {
			return changes, err
		}
	}
	for _, key := range sortedKeys(changes.Updated) {
		model := changes.Updated[key]
		svc := services.svcMap[key]
		attrs := changedAttrs(svc.model, model)
		svc.model = model
		log.WithFields(log.Fields{"service": key, "attrs": attrs}).Debug("service updated")
		if err := services.collection.Changed(svc, attrs...); nil != err {
			return changes, err
		}
	}

	return changes, services.collection.Sync()
}

/*
Watch performs an initial Refresh, returning its error, then keeps
refreshing every interval in a goroutine until ctx is cancelled or Stop is
called. Refresh errors after the first are logged and retried.
*/
func (services *Services) Watch(ctx context.Context) error {
	if _, err := services.Refresh(); nil != err {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	services.cancel = cancel
	services.done = make(chan struct{})

	go func() {
		defer close(services.done)
		ticker := time.NewTicker(services.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				changes, err := services.Refresh()
				if nil != err {
					log.WithField("err", err).Warnf("%-v", err)
					continue
				}
				if !changes.Empty() {
					log.WithFields(log.Fields{
						"added":   len(changes.Added),
						"removed": len(changes.Removed),
						"updated": len(changes.Updated),
					}).Debug("services changed")
				}
			}
		}
	}()

	return nil
}

/*
Stop ends the Watch goroutine and waits for it to exit.
*/
func (services *Services) Stop() {
	if nil == services.cancel {
		return
	}
	services.cancel()
	<-services.done
	services.cancel = nil
}

/*
diff returns the deltas between cur and new as a ChangeSet. A service is
updated when its resource version changed.
*/
func diff(cur, new map[string]apiv1.Service) ChangeSet {
	changes := ChangeSet{
		Added:   map[string]apiv1.Service{},
		Removed: map[string]apiv1.Service{},
		Updated: map[string]apiv1.Service{},
	}

	for k, v := range cur {
		if _, ok := new[k]; !ok {
			changes.Removed[k] = v
		}
	}
	for k, v := range new {
		old, ok := cur[k]
		if !ok {
			changes.Added[k] = v
		} else if old.ResourceVersion != v.ResourceVersion {
			changes.Updated[k] = v
		}
	}

	return changes
}

func sortedKeys(m map[string]apiv1.Service) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
