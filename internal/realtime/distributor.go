// Package realtime fans newly stored or updated articles out to live
// subscribers.
package realtime

import (
	"log/slog"
	"sync"

	"glocalnews/internal/model"

	"github.com/google/uuid"
)

// Callback receives each published batch. A panicking callback is
// recovered and does not affect other subscribers.
type Callback func(articles []model.Article)

const subscriberBuffer = 64

type subscriber struct {
	id string
	ch chan []model.Article
}

// Distributor is an in-memory publish-subscribe channel. Delivery order
// to a single subscriber follows publish order; no ordering is promised
// across subscribers.
type Distributor struct {
	mu     sync.RWMutex
	subs   map[string]*subscriber
	closed bool
}

func NewDistributor() *Distributor {
	return &Distributor{subs: make(map[string]*subscriber)}
}

// Subscribe registers the callback and returns its subscription id.
func (d *Distributor) Subscribe(fn Callback) string {
	sub := &subscriber{
		id: uuid.NewString(),
		ch: make(chan []model.Article, subscriberBuffer),
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return sub.id
	}
	d.subs[sub.id] = sub
	d.mu.Unlock()

	go func() {
		for batch := range sub.ch {
			invoke(fn, batch)
		}
	}()

	return sub.id
}

func (d *Distributor) Unsubscribe(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if sub, ok := d.subs[id]; ok {
		delete(d.subs, id)
		close(sub.ch)
	}
}

// Publish delivers the batch to every live subscriber. A subscriber that
// cannot keep up has the batch dropped rather than stalling the rest.
func (d *Distributor) Publish(articles []model.Article) {
	if len(articles) == 0 {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, sub := range d.subs {
		select {
		case sub.ch <- articles:
		default:
			slog.Warn("dropping batch for slow subscriber", "subscription_id", sub.id)
		}
	}
}

// SubscriberCount reports the number of live subscriptions.
func (d *Distributor) SubscriberCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs)
}

// Close tears down all subscriptions.
func (d *Distributor) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	for id, sub := range d.subs {
		delete(d.subs, id)
		close(sub.ch)
	}
}

func invoke(fn Callback, batch []model.Article) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("subscriber callback panicked", "panic", r)
		}
	}()
	fn(batch)
}
