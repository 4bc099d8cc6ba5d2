// Package notifier fans out dataset changes to open update streams.
package notifier

import "sync"

// Change describes a newly published dataset.
type Change struct {
	Source  string
	Records int
}

// Notifier delivers dataset changes to every subscribed update stream.
// Each subscriber sees at most one pending change; a newer change replaces
// an undelivered older one, so slow streams skip straight to the latest data.
type Notifier struct {
	mu        sync.Mutex
	listeners map[chan Change]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Change]struct{}),
	}
}

// Subscribe returns a channel that receives dataset changes.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Change {
	ch := make(chan Change, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; !ok {
		return
	}
	delete(n.listeners, ch)
	close(ch)
}

// Broadcast delivers c to all listeners without blocking.
func (n *Notifier) Broadcast(c Change) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.listeners {
		select {
		case <-ch:
		default:
		}
		ch <- c
	}
}

// Len returns the number of subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
