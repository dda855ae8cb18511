package model

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Model is a tree store. It owns all the nodes of a tree and hands out
// entities to reference them.
//
// All operations are safe for concurrent use. Operations on entities which
// are not registered with a model panic with an UnknownEntityError.
type Model struct {
	root  *node
	uids  atomic.Uint64
	mx    sync.RWMutex // guards nodes
	nodes map[uint64]*node
}

// New creates an empty model with a root node of type rootTag.
func New(rootTag Tag) *Model {
	if rootTag.IsZero() {
		panic("model: root tag must not be empty")
	}
	root := newNode(Entity{UID: 0, Tag: rootTag}, &state{})
	m := &Model{
		root:  root,
		nodes: map[uint64]*node{0: root},
	}
	tracer().Debugf("created model with root %s", rootTag)
	return m
}

// Root returns the entity of the model's root node.
func (m *Model) Root() Entity {
	return m.root.entity
}

// RootTag returns the tag of the model's root node.
func (m *Model) RootTag() Tag {
	return m.root.entity.Tag
}

// Len returns the number of nodes registered, including the root.
func (m *Model) Len() int {
	m.mx.RLock()
	defer m.mx.RUnlock()
	return len(m.nodes)
}

// Contains checks if e is registered with m.
func (m *Model) Contains(e Entity) bool {
	m.mx.RLock()
	defer m.mx.RUnlock()
	n, ok := m.nodes[e.UID]
	return ok && (e.Tag.IsZero() || n.entity.Tag == e.Tag)
}

// IsEmpty is true as long as the root has neither children nor data.
func (m *Model) IsEmpty() bool {
	st := m.root.state()
	return !st.hasChildren() && st.data == ""
}

func (m *Model) lookup(e Entity) *node {
	m.mx.RLock()
	n, ok := m.nodes[e.UID]
	m.mx.RUnlock()
	if !ok {
		panic(UnknownEntityError{Entity: e})
	}
	return n
}

func (m *Model) register(n *node) {
	m.mx.Lock()
	m.nodes[n.entity.UID] = n
	m.mx.Unlock()
}

func (m *Model) unregister(uid uint64) *node {
	m.mx.Lock()
	defer m.mx.Unlock()
	n := m.nodes[uid]
	delete(m.nodes, uid)
	return n
}

func (m *Model) nextEntity(tag Tag) Entity {
	return Entity{UID: m.uids.Add(1), Tag: tag}
}

// --- Creating and removing entities ----------------------------------------

// CreateEntity creates a node of type tag, seeds it with attrs, and appends
// it to the children of parent. Parent has to be free of data.
func (m *Model) CreateEntity(tag Tag, parent Entity, attrs ...Attribute) (Entity, error) {
	return m.create(tag, parent, &state{attrs: NewAttributes(attrs...)})
}

// CreateDataEntity creates a node of type tag holding data, and appends it
// to the children of parent. Parent has to be free of data.
func (m *Model) CreateDataEntity(tag Tag, parent Entity, data string) (Entity, error) {
	return m.create(tag, parent, &state{data: data})
}

func (m *Model) create(tag Tag, parent Entity, st *state) (Entity, error) {
	if tag.IsZero() {
		return Entity{}, fmt.Errorf("cannot create entity with empty tag: %w", ErrInvalidIdentifier)
	}
	p := m.lookup(parent)
	e := m.nextEntity(tag)
	n := newNode(e, st)
	m.register(n)
	err := p.update(func(pst *state) (*state, error) {
		if pst.data != "" {
			return nil, fmt.Errorf("cannot add child %s to %s holding data: %w", e, p.entity, ErrInvalidState)
		}
		ch := make([]Entity, len(pst.children), len(pst.children)+1)
		copy(ch, pst.children)
		return pst.withChildren(append(ch, e)), nil
	})
	if err != nil {
		m.unregister(e.UID)
		return Entity{}, err
	}
	if p.isGone() {
		// parent has been evicted concurrently, possibly without seeing e
		m.unregister(e.UID)
		n.drop()
		return Entity{}, fmt.Errorf("parent %s has been removed: %w", p.entity, ErrInvalidState)
	}
	tracer().Debugf("created %s as child of %s", e, p.entity)
	return e, nil
}

// RemoveEntity detaches e from the children of parent and removes e with its
// complete subtree from the model. Watchers of removed nodes see their
// channels closed. The root cannot be removed.
func (m *Model) RemoveEntity(parent Entity, e Entity) error {
	if e.IsRoot() {
		return fmt.Errorf("cannot remove model root: %w", ErrInvalidState)
	}
	p := m.lookup(parent)
	n := m.lookup(e)
	err := p.update(func(pst *state) (*state, error) {
		for i, ch := range pst.children {
			if ch.UID == e.UID {
				chs := make([]Entity, 0, len(pst.children)-1)
				chs = append(chs, pst.children[:i]...)
				chs = append(chs, pst.children[i+1:]...)
				return pst.withChildren(chs), nil
			}
		}
		return nil, fmt.Errorf("%s is not a child of %s: %w", e, p.entity, ErrInvalidState)
	})
	if err != nil {
		return err
	}
	m.evict(n)
	tracer().Debugf("removed %s", e)
	return nil
}

// evict drops n before reading its children, so that a concurrent create
// either sees n gone or has its child evicted here.
func (m *Model) evict(n *node) {
	n.drop()
	for _, ch := range n.state().children {
		if c := m.unregister(ch.UID); c != nil {
			m.evict(c)
		}
	}
	m.unregister(n.entity.UID)
}

// --- Attributes ------------------------------------------------------------

// SetAttribute sets attribute k of e to v.
func (m *Model) SetAttribute(e Entity, k Key, v Value) error {
	return m.ChangeAttributes(e, nil, Attribute{Key: k, Value: v})
}

// SetAttributes sets all of attrs for e.
func (m *Model) SetAttributes(e Entity, attrs ...Attribute) error {
	return m.ChangeAttributes(e, nil, attrs...)
}

// RemoveAttribute removes attribute k from e, if present.
func (m *Model) RemoveAttribute(e Entity, k Key) error {
	return m.ChangeAttributes(e, []Key{k})
}

// ChangeAttributes first removes the attributes keyed by remove, then sets
// attrs. Both happen in a single update.
func (m *Model) ChangeAttributes(e Entity, remove []Key, attrs ...Attribute) error {
	if e.IsRoot() {
		return fmt.Errorf("model root does not have attributes: %w", ErrInvalidState)
	}
	for _, a := range attrs {
		if a.Key.IsZero() {
			return fmt.Errorf("attribute with empty key: %w", ErrInvalidIdentifier)
		}
	}
	n := m.lookup(e)
	return n.update(func(st *state) (*state, error) {
		as := st.attrs.without(remove...).with(attrs...)
		if equalAttributes(as, st.attrs) {
			return st, nil
		}
		return st.withAttrs(as), nil
	})
}

// Attribute returns the value of attribute k of e, if present.
// The model's root never has attributes.
func (m *Model) Attribute(e Entity, k Key) (Value, bool) {
	return m.lookup(e).state().attrs.Get(k)
}

// Attributes returns all attributes of e.
func (m *Model) Attributes(e Entity) Attributes {
	return m.lookup(e).state().attrs
}

func equalAttributes(a, b Attributes) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.list {
		if a.list[i] != b.list[i] {
			return false
		}
	}
	return true
}

// --- Data ------------------------------------------------------------------

// SetData replaces the scalar data of e. It fails with ErrInvalidState if e
// has children.
func (m *Model) SetData(e Entity, data string) error {
	n := m.lookup(e)
	return n.update(func(st *state) (*state, error) {
		if st.hasChildren() {
			return nil, fmt.Errorf("cannot set data for %s having children: %w", e, ErrInvalidState)
		}
		if st.data == data {
			return st, nil
		}
		return st.withData(data), nil
	})
}

// Data returns the scalar data of e.
func (m *Model) Data(e Entity) string {
	return m.lookup(e).state().data
}

// AppendText appends text to the data of e. If e has children, text is put
// into a new child of type carrier instead, and whitespace-only text is
// dropped.
func (m *Model) AppendText(e Entity, text string, carrier Tag) error {
	if text == "" {
		return nil
	}
	n := m.lookup(e)
	err := n.update(func(st *state) (*state, error) {
		if st.hasChildren() {
			return nil, errHasChildren
		}
		return st.withData(st.data + text), nil
	})
	if err != errHasChildren {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	_, err = m.CreateDataEntity(carrier, e, text)
	return err
}

var errHasChildren = fmt.Errorf("node has children: %w", ErrInvalidState)

// DemoteData prepares e to receive children. Whitespace-only data is
// cleared, other data is moved into a new child of type carrier.
func (m *Model) DemoteData(e Entity, carrier Tag) error {
	n := m.lookup(e)
	var c *node
	err := n.update(func(st *state) (*state, error) {
		if st.data == "" {
			return st, nil
		}
		if strings.TrimSpace(st.data) == "" {
			return st.withData(""), nil
		}
		if c == nil {
			c = newNode(m.nextEntity(carrier), &state{})
			m.register(c)
		}
		c.snapshot.Store(&state{data: st.data})
		next := st.withData("")
		next.children = []Entity{c.entity}
		next.childRev = next.version
		return next, nil
	})
	if err == nil && c != nil {
		if !containsUID(n.state().children, c.entity.UID) {
			// a concurrent writer cleared the data first
			m.unregister(c.entity.UID)
		}
	}
	return err
}

func containsUID(es []Entity, uid uint64) bool {
	for _, e := range es {
		if e.UID == uid {
			return true
		}
	}
	return false
}

// --- Queries ---------------------------------------------------------------

// Children returns the children of e, in order.
func (m *Model) Children(e Entity) []Entity {
	return cloneEntities(m.lookup(e).state().children)
}

// ChildrenWithTag returns the children of e of type tag, in order.
func (m *Model) ChildrenWithTag(e Entity, tag Tag) []Entity {
	var r []Entity
	for _, ch := range m.lookup(e).state().children {
		if ch.Tag == tag {
			r = append(r, ch)
		}
	}
	return r
}

// Walk visits the subtree rooted at e in pre-order (document order), calling
// f for every node together with its depth relative to e. If f returns false
// for a node, its descendants are skipped.
func (m *Model) Walk(e Entity, f func(e Entity, depth int) bool) {
	m.walk(e, 0, f)
}

func (m *Model) walk(e Entity, depth int, f func(Entity, int) bool) {
	if !f(e, depth) {
		return
	}
	for _, ch := range m.lookup(e).state().children {
		m.walk(ch, depth+1, f)
	}
}

// Nodes returns all entities of type tag in the subtree of the root, in
// document order.
func (m *Model) Nodes(tag Tag) []Entity {
	var r []Entity
	m.Walk(m.Root(), func(e Entity, _ int) bool {
		if e.Tag == tag && !e.IsRoot() {
			r = append(r, e)
		}
		return true
	})
	return r
}
