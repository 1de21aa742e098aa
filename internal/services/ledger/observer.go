package ledger

import "sync"

// observerRegistry fans out change notifications. Listeners receive no
// payload; they re-query the ledger's getters.
type observerRegistry struct {
	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
}

func newObserverRegistry() *observerRegistry {
	return &observerRegistry{listeners: make(map[int]func())}
}

// subscribe registers a listener and returns its unsubscribe handle.
func (r *observerRegistry) subscribe(fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.listeners[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// notify invokes every registered listener.
func (r *observerRegistry) notify() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
