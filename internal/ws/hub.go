package ws

import "sync"

// Subscriber abstracts a streaming client.
type Subscriber interface {
	Send([]byte) error
	Close()
}

// stream holds the watchers of one property together with the most recent
// progress frame broadcast for it.
type stream struct {
	watchers map[Subscriber]struct{}
	last     []byte
}

// Hub fans deployment progress out to subscribers by property ID. The latest
// frame per property is retained, so a client that connects mid-deployment
// immediately sees where the deployment stands instead of waiting for the
// next poll.
type Hub struct {
	mu      sync.Mutex
	streams map[string]*stream
}

// NewHub creates an initialized Hub.
func NewHub() *Hub {
	return &Hub{streams: make(map[string]*stream)}
}

// Register adds a watcher to a property stream and replays the retained
// frame when one exists.
func (h *Hub) Register(propertyID string, client Subscriber) {
	h.mu.Lock()
	s, ok := h.streams[propertyID]
	if !ok {
		s = &stream{watchers: make(map[Subscriber]struct{})}
		h.streams[propertyID] = s
	}
	s.watchers[client] = struct{}{}
	last := s.last
	h.mu.Unlock()

	if last == nil {
		return
	}
	if err := client.Send(last); err != nil {
		client.Close()
		h.Unregister(propertyID, client)
	}
}

// Unregister removes a watcher. The stream survives while it still has a
// retained frame, so a reconnecting client can catch up.
func (h *Hub) Unregister(propertyID string, client Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.streams[propertyID]
	if !ok {
		return
	}
	delete(s.watchers, client)
	if len(s.watchers) == 0 && s.last == nil {
		delete(h.streams, propertyID)
	}
}

// Broadcast delivers a progress frame to every watcher of the property and
// retains it for late subscribers. Watchers whose send fails are closed and
// dropped.
func (h *Hub) Broadcast(propertyID string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.streams[propertyID]
	if !ok {
		s = &stream{watchers: make(map[Subscriber]struct{})}
		h.streams[propertyID] = s
	}
	s.last = payload
	for c := range s.watchers {
		if err := c.Send(payload); err != nil {
			c.Close()
			delete(s.watchers, c)
		}
	}
}
