package injection

import (
	"sync"

	assert "github.com/arl/assertgo"
	"github.com/tidwall/btree"
)

type valueKind int8

const (
	kindEmpty valueKind = iota
	kindPlain
	kindFactory
)

type entry struct {
	seq      uint64
	selector Selector
	inject   []Selector
	scope    Scope
	contexts *contextMap // non-nil iff scope == Request

	// guarded by storage.lock
	value any
	kind  valueKind
}

func newEntry(sel Selector, value any, inject []Selector, scope Scope) *entry {
	e := &entry{
		selector: sel,
		inject:   inject,
		scope:    scope,
	}
	switch {
	case value == nil:
		e.kind = kindEmpty
	case isFunc(value):
		e.kind = kindFactory
		e.value = value
	default:
		e.kind = kindPlain
		e.value = value
	}
	if scope == Request {
		e.contexts = &contextMap{owner: e}
	}
	return e
}

type storage struct {
	lock    sync.RWMutex
	seq     uint64
	index   map[Selector]*entry
	ordered btree.Map[uint64, *entry]
}

func newStorage() *storage {
	return &storage{
		index: make(map[Selector]*entry),
	}
}

// insert stores e unless its selector is taken.
func (ss *storage) insert(e *entry) bool {
	// checked only in builds with the debug tag (go test -tags debug)
	assert.True((e.scope == Request) == (e.contexts != nil))

	ss.lock.Lock()
	defer ss.lock.Unlock()

	if _, ok := ss.index[e.selector]; ok {
		return false
	}
	ss.seq++
	e.seq = ss.seq
	ss.index[e.selector] = e
	ss.ordered.Set(e.seq, e)
	return true
}

func (ss *storage) lookup(sel Selector) (*entry, bool) {
	ss.lock.RLock()
	defer ss.lock.RUnlock()
	e, ok := ss.index[sel]
	return e, ok
}

func (ss *storage) slot(e *entry) (any, valueKind) {
	ss.lock.RLock()
	defer ss.lock.RUnlock()
	return e.value, e.kind
}

// fill writes instance into an empty slot and returns whatever the slot holds
// afterwards; the first writer wins. A nil instance leaves the slot empty.
func (ss *storage) fill(e *entry, instance any) any {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	if e.kind == kindEmpty {
		if instance == nil {
			return nil
		}
		e.value = instance
		e.kind = kindPlain
	}
	return e.value
}

// entries returns a snapshot in registration order.
func (ss *storage) entries() []*entry {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	result := make([]*entry, 0, ss.ordered.Len())
	ss.ordered.Scan(func(_ uint64, e *entry) bool {
		result = append(result, e)
		return true
	})
	return result
}

func (ss *storage) len() int {
	ss.lock.RLock()
	defer ss.lock.RUnlock()
	return ss.ordered.Len()
}
