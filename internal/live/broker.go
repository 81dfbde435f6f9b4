// Package live re-evaluates subscribed queries whenever the collection they
// read from changes.
package live

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Topic names the collection a query reads from.
type Topic string

const (
	TopicEmployees   Topic = "employees"
	TopicTasks       Topic = "tasks"
	TopicDepartments Topic = "departments"
)

var ErrBrokerClosed = errors.New("live: broker closed")

// QueryFunc produces the current result of a query.
type QueryFunc func(ctx context.Context) (any, error)

// Snapshot is one evaluation of a subscribed query. Version increases by one
// per evaluation of the same subscription.
type Snapshot struct {
	Data    any
	Err     error
	Version uint64
}

type Broker struct {
	mu     sync.RWMutex
	subs   map[Topic]map[uint64]*Subscription
	nextID uint64
	closed bool
	log    *logrus.Logger
}

func NewBroker(log *logrus.Logger) *Broker {
	return &Broker{
		subs: make(map[Topic]map[uint64]*Subscription),
		log:  log,
	}
}

// Subscribe registers query under topic and evaluates it once. If the first
// evaluation fails, the subscription is dropped and the error returned.
func (b *Broker) Subscribe(ctx context.Context, topic Topic, query QueryFunc) (*Subscription, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBrokerClosed
	}
	b.nextID++
	sub := &Subscription{
		id:      b.nextID,
		topic:   topic,
		query:   query,
		broker:  b,
		updates: make(chan Snapshot, 1),
	}
	// Held until the initial snapshot is queued; a concurrent Publish waits
	// for it and then re-evaluates.
	sub.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]*Subscription)
	}
	b.subs[topic][sub.id] = sub
	b.mu.Unlock()

	data, err := query(ctx)
	if err != nil {
		sub.mu.Unlock()
		sub.Close()
		return nil, err
	}
	sub.version = 1
	sub.updates <- Snapshot{Data: data, Version: 1}
	sub.mu.Unlock()

	b.log.WithFields(logrus.Fields{"topic": topic, "subscription": sub.id}).Debug("live: subscribed")
	return sub, nil
}

// Publish re-evaluates every subscription on the given topics. It never blocks
// on a slow consumer: an undelivered snapshot is replaced by the newer one.
// Cancellation of ctx does not stop the re-evaluation; the change has already
// been committed by the caller.
func (b *Broker) Publish(ctx context.Context, topics ...Topic) {
	ctx = context.WithoutCancel(ctx)
	var targets []*Subscription
	b.mu.RLock()
	for _, topic := range topics {
		for _, sub := range b.subs[topic] {
			targets = append(targets, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range targets {
		sub.refresh(ctx)
	}
}

// Stats returns the number of live subscriptions per topic.
func (b *Broker) Stats() map[Topic]int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[Topic]int, len(b.subs))
	for topic, subs := range b.subs {
		out[topic] = len(subs)
	}
	return out
}

// Close releases every subscription. Later Subscribe calls fail.
func (b *Broker) Close() {
	b.mu.Lock()
	b.closed = true
	var all []*Subscription
	for _, subs := range b.subs {
		for _, sub := range subs {
			all = append(all, sub)
		}
	}
	b.subs = make(map[Topic]map[uint64]*Subscription)
	b.mu.Unlock()

	for _, sub := range all {
		sub.shutdown()
	}
}

func (b *Broker) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if subs, ok := b.subs[sub.topic]; ok {
		delete(subs, sub.id)
		if len(subs) == 0 {
			delete(b.subs, sub.topic)
		}
	}
}

type Subscription struct {
	id     uint64
	topic  Topic
	query  QueryFunc
	broker *Broker

	// mu serializes evaluation and delivery so snapshots never go backwards.
	mu      sync.Mutex
	updates chan Snapshot
	version uint64
	closed  bool
}

func (s *Subscription) Topic() Topic { return s.topic }

// Updates delivers the initial snapshot followed by one snapshot per change.
// The channel is closed when the subscription is released.
func (s *Subscription) Updates() <-chan Snapshot {
	return s.updates
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.broker.remove(s)
	s.shutdown()
}

func (s *Subscription) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.updates)
}

func (s *Subscription) refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	data, err := s.query(ctx)
	if err != nil {
		s.broker.log.WithError(err).WithField("topic", s.topic).Warn("live: query re-evaluation failed")
	}
	s.version++

	select {
	case <-s.updates:
	default:
	}
	s.updates <- Snapshot{Data: data, Err: err, Version: s.version}
}
