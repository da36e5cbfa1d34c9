// Package feed implements the change-notification hub. Store mutations are
// published as entity-level events; any number of sessions can subscribe so
// open dashboards converge without polling. The hub is optional plumbing:
// with zero subscribers every publish is dropped and the rest of the system
// is unaffected.
package feed

import "sync"

// Action is the kind of change applied to an entity.
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Entity names the record type an event refers to.
type Entity string

const (
	EntityUser           Entity = "user"
	EntityMatch          Entity = "match"
	EntityTicket         Entity = "ticket"
	EntityBalanceRequest Entity = "balance_request"
	EntitySettings       Entity = "settings"
)

// Event is one change notification.
type Event struct {
	Entity Entity `json:"entity"`
	Action Action `json:"action"`
	Id     string `json:"id,omitempty"`
}

// Subscriber receives events on a buffered channel. A subscriber that stops
// draining is unregistered rather than blocking the hub.
type Subscriber struct {
	Events chan Event
}

// Hub fans events out to all registered subscribers. All map access happens
// on the Run goroutine; registration and broadcast go through channels.
type Hub struct {
	subscribers map[*Subscriber]bool

	broadcast  chan Event
	register   chan *Subscriber
	unregister chan *Subscriber

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*Subscriber]bool),
		broadcast:   make(chan Event, 256),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
	}
}

// Run is the hub's event loop; call it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			h.subscribers[sub] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.Events)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.RLock()
			subs := make([]*Subscriber, 0, len(h.subscribers))
			for sub := range h.subscribers {
				subs = append(subs, sub)
			}
			h.mu.RUnlock()

			for _, sub := range subs {
				select {
				case sub.Events <- event:
				default:
					// Slow subscriber: drop it instead of stalling the loop.
					h.mu.Lock()
					if _, ok := h.subscribers[sub]; ok {
						delete(h.subscribers, sub)
						close(sub.Events)
					}
					h.mu.Unlock()
				}
			}
		}
	}
}

// Publish queues an event for delivery to all subscribers. Non-blocking; if
// the hub itself is saturated the event is dropped (the feed is best-effort,
// clients fall back to refresh).
func (h *Hub) Publish(event Event) {
	select {
	case h.broadcast <- event:
	default:
	}
}

// Subscribe registers a new subscriber with a buffered event channel.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{Events: make(chan Event, 32)}
	h.register <- sub
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.unregister <- sub
}
