package model

import (
	"context"
	"sync"
)

// watch is a single subscription to a field of a node. Its channel has a
// buffer of one; a new value replaces a value not yet received.
type watch[T any] struct {
	mx     sync.Mutex
	ch     chan T
	rev    uint64
	sent   bool
	closed bool
}

func (w *watch[T]) send(rev uint64, v T) {
	w.mx.Lock()
	defer w.mx.Unlock()
	if w.closed || (w.sent && rev <= w.rev) {
		return
	}
	w.rev, w.sent = rev, true
	select {
	case <-w.ch: // drop the stale value
	default:
	}
	w.ch <- v // cannot block: we are the only sender and the buffer is empty
}

func (w *watch[T]) close() {
	w.mx.Lock()
	defer w.mx.Unlock()
	if !w.closed {
		w.closed = true
		close(w.ch)
	}
}

// watchList is the set of subscriptions to one field of a node.
type watchList[T any] struct {
	mx      sync.Mutex
	watches map[*watch[T]]struct{}
}

func (wl *watchList[T]) add(w *watch[T]) {
	wl.mx.Lock()
	defer wl.mx.Unlock()
	if wl.watches == nil {
		wl.watches = make(map[*watch[T]]struct{})
	}
	wl.watches[w] = struct{}{}
}

func (wl *watchList[T]) remove(w *watch[T]) {
	wl.mx.Lock()
	delete(wl.watches, w)
	wl.mx.Unlock()
	w.close()
}

// offer sends a value to all subscribers. The value is produced lazily and
// at most once.
func (wl *watchList[T]) offer(rev uint64, value func() T) {
	wl.mx.Lock()
	defer wl.mx.Unlock()
	if len(wl.watches) == 0 {
		return
	}
	v := value()
	for w := range wl.watches {
		w.send(rev, v)
	}
}

func (wl *watchList[T]) closeAll() {
	wl.mx.Lock()
	defer wl.mx.Unlock()
	for w := range wl.watches {
		w.close()
	}
	wl.watches = nil
}

type nodeWatchers struct {
	children watchList[[]Entity]
	attrs    watchList[Attributes]
	data     watchList[string]
}

// subscribe registers a new watch with wl, sends the current value and
// arranges for the subscription to end with ctx or with the node.
func subscribe[T any](ctx context.Context, n *node, wl *watchList[T], current func(*state) (uint64, T)) <-chan T {
	w := &watch[T]{ch: make(chan T, 1)}
	select {
	case <-n.gone:
		w.close()
		return w.ch
	default:
	}
	wl.add(w)
	rev, v := current(n.state())
	w.send(rev, v)
	go func() {
		select {
		case <-ctx.Done():
		case <-n.gone:
		}
		wl.remove(w)
	}()
	return w.ch
}

// WatchChildren returns a channel delivering the children of e, starting with
// the current list. Values are delivered in publish order; a value not yet
// received will be replaced by a newer one. The channel is closed when ctx
// is done or e is removed from the model.
func (m *Model) WatchChildren(ctx context.Context, e Entity) <-chan []Entity {
	n := m.lookup(e)
	return subscribe(ctx, n, &n.watchers.children, func(st *state) (uint64, []Entity) {
		return st.childRev, cloneEntities(st.children)
	})
}

// WatchAttributes is like WatchChildren, for the attributes of e.
func (m *Model) WatchAttributes(ctx context.Context, e Entity) <-chan Attributes {
	n := m.lookup(e)
	return subscribe(ctx, n, &n.watchers.attrs, func(st *state) (uint64, Attributes) {
		return st.attrRev, st.attrs
	})
}

// WatchData is like WatchChildren, for the scalar data of e.
func (m *Model) WatchData(ctx context.Context, e Entity) <-chan string {
	n := m.lookup(e)
	return subscribe(ctx, n, &n.watchers.data, func(st *state) (uint64, string) {
		return st.dataRev, st.data
	})
}
