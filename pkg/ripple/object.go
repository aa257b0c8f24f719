package ripple

import (
	"reflect"
	"sort"
	"sync"
)

// Fn is a derived function stored as a model property. It receives the
// wrapping Object so its body reads other properties through the
// interception layer, which is what makes its dependencies trackable.
type Fn func(*Object) any

// Object is the interception facade returned by Watch. It mirrors every
// read, write, and delete to the underlying model, reports observable
// mutations to the sink, and wraps nested map values so deep property
// chains stay observable.
type Object struct {
	id uint64

	// model is the caller-owned map. It is observed and mutated in place,
	// never copied.
	model map[string]any

	sink Sink

	// children caches nested wrappers by key so repeated reads of the same
	// object-valued property return the same Object. An entry is replaced
	// when an object value is written to its key and dropped on delete; it
	// is not refreshed when the underlying value is swapped out behind the
	// Object's back.
	children map[string]*Object

	// deps maps a property key to the derived-function keys that read it
	// during a tracked invocation, in first-recorded order.
	deps map[string][]string

	// calls is the active-call stack. The top entry is the derived
	// function currently executing through this Object.
	calls []string

	frozen bool

	mu sync.Mutex
}

// Watch wraps model in an interception facade and returns it.
//
// model must be a non-nil map[string]any. Passing an *Object fails with
// ErrAlreadyWatched: wrapping is not idempotent by re-application, only by
// cache reuse at the nested-property level. Any other type, including a
// nil map, fails with ErrNotWatchable.
//
// sink may be nil, in which case mutations are still applied and
// dependencies still tracked, but nothing is notified.
func Watch(model any, sink Sink) (*Object, error) {
	switch m := model.(type) {
	case *Object:
		return nil, ErrAlreadyWatched
	case map[string]any:
		// A nil map would accept reads but panic on the first write.
		if m == nil {
			return nil, ErrNotWatchable
		}
		return newObject(m, sink), nil
	default:
		return nil, ErrNotWatchable
	}
}

func newObject(model map[string]any, sink Sink) *Object {
	return &Object{
		id:       nextID(),
		model:    model,
		sink:     sink,
		children: make(map[string]*Object),
		deps:     make(map[string][]string),
	}
}

// ID returns the unique identifier for this Object.
func (o *Object) ID() uint64 {
	return o.id
}

// Get returns the value stored under key, nil if the key does not exist.
//
// If a derived function is currently executing through this Object, the
// read is recorded as one of its dependencies. Map values are returned as
// nested Objects (created once and cached); derived functions are returned
// as bound func() any invocation wrappers; everything else is returned
// as-is.
func (o *Object) Get(key string) any {
	o.mu.Lock()
	defer o.mu.Unlock()

	// Attribute the read to the derived function currently executing.
	if marker := o.markerLocked(); marker != "" {
		o.addDepLocked(key, marker)
	}

	value, ok := o.model[key]
	if !ok {
		return nil
	}

	switch v := value.(type) {
	case Fn:
		return o.bind(key, v)
	case func(*Object) any:
		return o.bind(key, v)
	case map[string]any:
		return o.childLocked(key, v)
	case *Object:
		return v
	default:
		return value
	}
}

// Peek returns the raw value stored under key without recording a
// dependency and without wrapping map values or derived functions.
func (o *Object) Peek(key string) any {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.model[key]
}

// Set writes value under key and notifies the sink.
//
// Writing to a new key notifies with an OpCreate change. Writing a
// different value to an existing key notifies with an OpUpdate change,
// then emits one invalidation pulse per derived function recorded as a
// dependent of the key, transitively, deepest dependency first. Writing a
// value identical to the current one notifies nothing.
//
// Returns ErrFrozen after Freeze; a rejected write has no side effects.
func (o *Object) Set(key string, value any) error {
	o.mu.Lock()
	if o.frozen {
		o.mu.Unlock()
		return ErrFrozen
	}

	old, existed := o.model[key]
	if existed && sameValue(old, value) {
		o.mu.Unlock()
		return nil
	}

	o.model[key] = value

	// An object value replaces the cached wrapper identity used by
	// subsequent reads.
	if m, ok := value.(map[string]any); ok {
		o.children[key] = newObject(m, o.sink)
	}

	sink := o.sink
	var stale []string
	if existed {
		stale = o.staleDepsLocked(key)
	}
	o.mu.Unlock()

	if sink == nil {
		return nil
	}
	if !existed {
		sink(o, key, &Change{Op: OpCreate, NewValue: value})
		return nil
	}
	sink(o, key, &Change{Op: OpUpdate, OldValue: old, NewValue: value})
	for _, fnKey := range stale {
		sink(o, fnKey, nil)
	}
	return nil
}

// Delete removes key from the model.
//
// Deleting an existing key drops any cached nested wrapper for it and
// notifies the sink with an OpDelete change. Deleting a key that does not
// exist is a no-op, not an error, and notifies nothing.
//
// Returns ErrFrozen after Freeze; a rejected delete has no side effects.
func (o *Object) Delete(key string) error {
	o.mu.Lock()
	if o.frozen {
		o.mu.Unlock()
		return ErrFrozen
	}

	old, existed := o.model[key]
	if !existed {
		o.mu.Unlock()
		return nil
	}

	delete(o.model, key)
	delete(o.children, key)
	sink := o.sink
	o.mu.Unlock()

	if sink != nil {
		sink(o, key, &Change{Op: OpDelete, OldValue: old})
	}
	return nil
}

// Has reports whether key exists in the model.
func (o *Object) Has(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.model[key]
	return ok
}

// Len returns the number of keys in the model.
func (o *Object) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.model)
}

// Keys returns the model's keys in sorted order.
func (o *Object) Keys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]string, 0, len(o.model))
	for k := range o.model {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Call invokes the derived function stored under key and returns its
// result. The invocation is tracked exactly as if the caller had read the
// key via Get and invoked the returned wrapper: the read itself is
// attributed to any enclosing tracked call, and key becomes the active
// call for the duration of the body.
//
// Returns ErrNotDerived if the key does not hold a derived function.
func (o *Object) Call(key string) (any, error) {
	fn, ok := o.Get(key).(func() any)
	if !ok {
		return nil, ErrNotDerived
	}
	return fn(), nil
}

// Freeze makes the underlying model immutable through this Object.
// Subsequent Set and Delete calls fail with ErrFrozen. Reads are
// unaffected, and nested wrappers are not frozen.
func (o *Object) Freeze() {
	o.mu.Lock()
	o.frozen = true
	o.mu.Unlock()
}

// Snapshot returns a deep copy of the model with derived functions
// omitted. Nested maps and nested Objects are copied recursively.
func (o *Object) Snapshot() map[string]any {
	o.mu.Lock()
	defer o.mu.Unlock()
	return snapshotMap(o.model)
}

func snapshotMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch v := v.(type) {
		case Fn, func(*Object) any:
			// Derived functions are not data.
		case map[string]any:
			out[k] = snapshotMap(v)
		case *Object:
			out[k] = v.Snapshot()
		default:
			out[k] = v
		}
	}
	return out
}

// bind wraps a derived function so that invoking it marks key as the
// active call for the duration of the body. The marker is restored in a
// deferred pop, so a panicking body cannot leak its call frame.
func (o *Object) bind(key string, fn func(*Object) any) func() any {
	return func() any {
		o.pushCall(key)
		defer o.popCall()
		return fn(o)
	}
}

// childLocked returns the cached wrapper for key, creating it on first
// read. The cached identity is returned on every subsequent read of the
// same key even if the underlying value has been replaced externally.
func (o *Object) childLocked(key string, m map[string]any) *Object {
	if child, ok := o.children[key]; ok {
		return child
	}
	child := newObject(m, o.sink)
	o.children[key] = child
	return child
}

// sameValue reports whether writing next over prev is a no-op. Primitives
// and comparable structs compare by value; maps, slices, funcs, pointers,
// and channels compare by identity. Deep equality is never used: replacing
// a map with an equal but distinct map is a real mutation.
func sameValue(prev, next any) bool {
	if prev == nil || next == nil {
		return prev == nil && next == nil
	}
	tp, tn := reflect.TypeOf(prev), reflect.TypeOf(next)
	if tp != tn {
		return false
	}
	switch tp.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return reflect.ValueOf(prev).Pointer() == reflect.ValueOf(next).Pointer()
	default:
		if tp.Comparable() {
			return prev == next
		}
		return false
	}
}
