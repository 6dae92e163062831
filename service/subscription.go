package service

import (
	"sort"
	"strings"
	"sync"

	"myregistry/domain"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

// subscription is one active delivery stream. Delivery is decoupled from the
// registry mutation path: the publisher stores the latest filtered event in
// the pending slot and signals the worker goroutine, so a slow callback never
// blocks a register/deregister call. Intermediate states may be coalesced,
// but events are never reordered and the payload is always the full current
// set, so the subscriber converges on the latest state.
type subscription struct {
	handle       string
	subscriberID string
	key          domain.ServiceKey
	clusters     []string // sorted; empty means all clusters
	clusterSet   map[string]struct{}
	cb           interfaces.SubscriptionCallback

	mu       sync.Mutex
	pending  *domain.ChangeEvent
	lastSent uint64 // checksum of the last enqueued set
	lastVer  uint64 // service version of the last enqueued set
	hasSent  bool
	stopped  bool
	notify   chan struct{}
	done     chan struct{}
}

// enqueue records ev as the next state to deliver if it is a genuine diff
// against the last enqueued one. Called in commit order for the service.
func (s *subscription) enqueue(ev domain.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	// The initial push races with concurrent commits: never let an older
	// state overwrite a newer one.
	if s.hasSent && ev.Version < s.lastVer {
		return
	}
	sum := domain.Checksum(ev.Instances)
	if s.hasSent && sum == s.lastSent {
		return
	}
	s.lastSent = sum
	s.lastVer = ev.Version
	s.hasSent = true
	s.pending = &ev
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *subscription) run() {
	defer close(s.done)
	for range s.notify {
		for {
			s.mu.Lock()
			if s.stopped {
				s.mu.Unlock()
				return
			}
			ev := s.pending
			s.pending = nil
			s.mu.Unlock()
			if ev == nil {
				break
			}
			s.cb(*ev)
		}
	}
}

// stop makes the subscription inert: anything not yet handed to the callback
// is dropped and the worker exits.
func (s *subscription) stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.pending = nil
	s.mu.Unlock()
	close(s.notify)
}

const sinkQueueSize = 256

// SubscriptionEngine tracks subscriptions per service and fans committed
// registry changes out to them. It also feeds registered ChangeSinks (the
// snapshot layer) with the unfiltered event stream on a dedicated worker.
type SubscriptionEngine struct {
	source func(key domain.ServiceKey) ([]domain.Instance, uint64)
	logger log.Logger

	mu        sync.RWMutex
	byHandle  map[string]*subscription
	byTriple  map[string]*subscription
	byService map[string][]*subscription
	sinks     []interfaces.ChangeSink
	closed    bool

	sinkCh   chan domain.ChangeEvent
	sinkQuit chan struct{}
	sinkDone chan struct{}
}

var _ interfaces.Subscriptions = (*SubscriptionEngine)(nil)

// NewSubscriptionEngine creates the engine. source provides the current
// instance set of a service for the initial push on subscribe.
func NewSubscriptionEngine(source func(key domain.ServiceKey) ([]domain.Instance, uint64), logger log.Logger) *SubscriptionEngine {
	e := &SubscriptionEngine{
		source:    source,
		logger:    log.WithPrefix(logger, "component", "SubscriptionEngine"),
		byHandle:  make(map[string]*subscription),
		byTriple:  make(map[string]*subscription),
		byService: make(map[string][]*subscription),
		sinkCh:    make(chan domain.ChangeEvent, sinkQueueSize),
		sinkQuit:  make(chan struct{}),
		sinkDone:  make(chan struct{}),
	}
	go e.runSinks()
	return e
}

// AddSink registers a sink for the unfiltered change stream.
func (e *SubscriptionEngine) AddSink(sink interfaces.ChangeSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sinks = append(e.sinks, sink)
}

// runSinks drains sinkCh until sinkQuit is closed. sinkCh itself is never
// closed: a Publish racing Close may still send into the buffer, and a send
// must never panic.
func (e *SubscriptionEngine) runSinks() {
	defer close(e.sinkDone)
	for {
		select {
		case <-e.sinkQuit:
			return
		case ev := <-e.sinkCh:
			e.mu.RLock()
			sinks := append([]interfaces.ChangeSink(nil), e.sinks...)
			e.mu.RUnlock()
			for _, sink := range sinks {
				sink.OnChange(ev)
			}
		}
	}
}

func tripleKey(subscriberID string, key domain.ServiceKey, clusters []string) string {
	return subscriberID + "|" + key.String() + "|" + strings.Join(clusters, ",")
}

func normalizeClusters(clusters []string) ([]string, map[string]struct{}) {
	if len(clusters) == 0 {
		return nil, nil
	}
	set := make(map[string]struct{}, len(clusters))
	for _, c := range clusters {
		if c == "" {
			continue
		}
		set[c] = struct{}{}
	}
	if len(set) == 0 {
		return nil, nil
	}
	sorted := make([]string, 0, len(set))
	for c := range set {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)
	return sorted, set
}

func filterClusters(instances []domain.Instance, clusterSet map[string]struct{}) []domain.Instance {
	if clusterSet == nil {
		return instances
	}
	out := make([]domain.Instance, 0, len(instances))
	for _, inst := range instances {
		if _, ok := clusterSet[inst.ClusterName]; ok {
			out = append(out, inst)
		}
	}
	return out
}

// Subscribe implements interfaces.Subscriptions. A duplicate
// (subscriberID, service, cluster set) returns the existing handle so there
// is exactly one delivery stream per triple. The current set is pushed
// immediately.
func (e *SubscriptionEngine) Subscribe(subscriberID string, key domain.ServiceKey, clusters []string, cb interfaces.SubscriptionCallback) (string, error) {
	if cb == nil {
		return "", NewBadParameterError("callback is required", nil)
	}
	sorted, set := normalizeClusters(clusters)
	triple := tripleKey(subscriberID, key, sorted)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return "", NewInternalServerError("subscription engine is closed", nil)
	}
	if existing, ok := e.byTriple[triple]; ok {
		e.mu.Unlock()
		return existing.handle, nil
	}
	sub := &subscription{
		handle:       uuid.NewString(),
		subscriberID: subscriberID,
		key:          key,
		clusters:     sorted,
		clusterSet:   set,
		cb:           cb,
		notify:       make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
	e.byHandle[sub.handle] = sub
	e.byTriple[triple] = sub
	e.byService[key.String()] = append(e.byService[key.String()], sub)
	e.mu.Unlock()

	go sub.run()

	instances, version := e.source(key)
	sub.enqueue(domain.ChangeEvent{
		Key:       key,
		Instances: filterClusters(instances, sub.clusterSet),
		Version:   version,
	})
	return sub.handle, nil
}

// Unsubscribe implements interfaces.Subscriptions. Idempotent.
func (e *SubscriptionEngine) Unsubscribe(handle string) bool {
	e.mu.Lock()
	sub, ok := e.byHandle[handle]
	if !ok {
		e.mu.Unlock()
		return false
	}
	delete(e.byHandle, handle)
	delete(e.byTriple, tripleKey(sub.subscriberID, sub.key, sub.clusters))
	svcKey := sub.key.String()
	remaining := e.byService[svcKey][:0]
	for _, s := range e.byService[svcKey] {
		if s != sub {
			remaining = append(remaining, s)
		}
	}
	if len(remaining) == 0 {
		delete(e.byService, svcKey)
	} else {
		e.byService[svcKey] = remaining
	}
	e.mu.Unlock()

	sub.stop()
	return true
}

// Publish fans a committed change out. It is called under the service entry
// lock, so calls for one service arrive in commit order; it never blocks on
// subscriber callbacks.
func (e *SubscriptionEngine) Publish(ev domain.ChangeEvent) {
	e.mu.RLock()
	subs := append([]*subscription(nil), e.byService[ev.Key.String()]...)
	hasSinks := len(e.sinks) > 0 && !e.closed
	e.mu.RUnlock()

	for _, sub := range subs {
		sub.enqueue(domain.ChangeEvent{
			Key:       ev.Key,
			Instances: filterClusters(ev.Instances, sub.clusterSet),
			Version:   ev.Version,
		})
	}

	if hasSinks {
		select {
		case e.sinkCh <- ev:
		default:
			// Sinks are best effort: the snapshot layer converges on the next
			// event for the same service.
			level.Warn(e.logger).Log("msg", "sink queue full, dropping event", "service", ev.Key.String(), "version", ev.Version)
		}
	}
}

// Subscribers implements interfaces.Subscriptions: total count plus one page
// of rows, ordered by subscriber then service for stable paging.
func (e *SubscriptionEngine) Subscribers(pageNo, pageSize int) (int, []domain.SubscriberInfo) {
	e.mu.RLock()
	rows := make([]domain.SubscriberInfo, 0, len(e.byHandle))
	for _, sub := range e.byHandle {
		rows = append(rows, domain.SubscriberInfo{
			Handle:       sub.handle,
			SubscriberID: sub.subscriberID,
			Key:          sub.key,
			Clusters:     append([]string(nil), sub.clusters...),
		})
	}
	e.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SubscriberID != rows[j].SubscriberID {
			return rows[i].SubscriberID < rows[j].SubscriberID
		}
		if rows[i].Key.String() != rows[j].Key.String() {
			return rows[i].Key.String() < rows[j].Key.String()
		}
		return rows[i].Handle < rows[j].Handle
	})
	total := len(rows)
	return total, pageSlice(rows, pageNo, pageSize)
}

// Close stops every subscription and the sink worker. Pending events are
// dropped.
func (e *SubscriptionEngine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	subs := make([]*subscription, 0, len(e.byHandle))
	for _, sub := range e.byHandle {
		subs = append(subs, sub)
	}
	e.byHandle = make(map[string]*subscription)
	e.byTriple = make(map[string]*subscription)
	e.byService = make(map[string][]*subscription)
	e.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
	close(e.sinkQuit)
	<-e.sinkDone
}

// pageSlice returns the pageNo-th page (1-based) of items. A page beyond the
// end is empty, never an error.
func pageSlice[T any](items []T, pageNo, pageSize int) []T {
	if pageNo < 1 {
		pageNo = 1
	}
	if pageSize < 1 {
		return []T{}
	}
	start := (pageNo - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
