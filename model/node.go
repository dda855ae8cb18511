package model

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Entity is a handle for a node within a model. Entities are small values,
// which may be copied and compared freely. The zero Entity refers to the
// root of a model.
type Entity struct {
	UID uint64
	Tag Tag
}

func (e Entity) String() string {
	return fmt.Sprintf("<%s #%d>", e.Tag, e.UID)
}

// IsRoot is true for entities denoting the root of a model.
func (e Entity) IsRoot() bool {
	return e.UID == 0
}

// state is an immutable snapshot of a node. Every field has a revision,
// being the node version at which the field last changed. Revisions let
// watchers drop notifications arriving out of order.
type state struct {
	version  uint64
	children []Entity
	attrs    Attributes
	data     string
	childRev uint64
	attrRev  uint64
	dataRev  uint64
}

func (st *state) hasChildren() bool {
	return len(st.children) > 0
}

// clone derives the successor snapshot of st. Slices are shared, as they
// are never modified in place.
func (st *state) clone() *state {
	n := *st
	n.version = st.version + 1
	return &n
}

func (st *state) withChildren(ch []Entity) *state {
	n := st.clone()
	n.children = ch
	n.childRev = n.version
	return n
}

func (st *state) withAttrs(as Attributes) *state {
	n := st.clone()
	n.attrs = as
	n.attrRev = n.version
	return n
}

func (st *state) withData(data string) *state {
	n := st.clone()
	n.data = data
	n.dataRev = n.version
	return n
}

// node is a vertex of the tree. All of its mutable state lives in the
// current snapshot.
type node struct {
	entity   Entity
	snapshot atomic.Pointer[state]
	watchers nodeWatchers
	gone     chan struct{}
	dropOnce sync.Once
}

func newNode(e Entity, st *state) *node {
	n := &node{entity: e, gone: make(chan struct{})}
	n.snapshot.Store(st)
	return n
}

func (n *node) state() *state {
	return n.snapshot.Load()
}

// update applies f to the current snapshot and publishes the result. f has
// to be free of side effects, as it will be re-applied if another writer
// published in between. If f returns its argument unchanged, nothing will
// be published.
func (n *node) update(f func(*state) (*state, error)) error {
	for {
		old := n.snapshot.Load()
		st, err := f(old)
		if err != nil {
			return err
		}
		if st == old {
			return nil
		}
		if n.snapshot.CompareAndSwap(old, st) {
			n.publish(old, st)
			return nil
		}
		tracer().Debugf("concurrent update of %s, retrying", n.entity)
	}
}

// publish notifies watchers of the fields changed from old to st.
func (n *node) publish(old, st *state) {
	if st.childRev != old.childRev {
		n.watchers.children.offer(st.childRev, func() []Entity { return cloneEntities(st.children) })
	}
	if st.attrRev != old.attrRev {
		n.watchers.attrs.offer(st.attrRev, func() Attributes { return st.attrs })
	}
	if st.dataRev != old.dataRev {
		n.watchers.data.offer(st.dataRev, func() string { return st.data })
	}
}

// drop marks a node as removed from its model and closes all watchers.
func (n *node) drop() {
	n.dropOnce.Do(func() {
		close(n.gone)
		n.watchers.children.closeAll()
		n.watchers.attrs.closeAll()
		n.watchers.data.closeAll()
	})
}

// isGone is true after n has been dropped.
func (n *node) isGone() bool {
	select {
	case <-n.gone:
		return true
	default:
		return false
	}
}

func cloneEntities(es []Entity) []Entity {
	if es == nil {
		return nil
	}
	c := make([]Entity, len(es))
	copy(c, es)
	return c
}
