package ripple

// Op identifies the kind of mutation applied to a model property.
type Op int

const (
	// OpCreate is a write to a key that did not previously exist.
	OpCreate Op = iota

	// OpUpdate is a write of a different value to an existing key.
	OpUpdate

	// OpDelete is the removal of an existing key.
	OpDelete
)

// String returns the lowercase name of the operation.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change carries the value detail of a change notification.
//
// OldValue is set for OpUpdate and OpDelete; NewValue is set for OpCreate
// and OpUpdate. A nil *Change passed to a Sink is not a mutation at all
// but an invalidation pulse: the key names a derived function whose
// inputs changed and whose result may now be stale.
type Change struct {
	Op       Op
	OldValue any
	NewValue any
}

// Sink receives change notifications from a watched Object.
//
// target is the Object whose property changed — for deep mutations this is
// the nested wrapper, not the root. The sink is invoked synchronously,
// outside the Object's internal lock, once per observable mutation and
// once per invalidation pulse. Sinks must not assume notifications are
// deduplicated or batched.
type Sink func(target *Object, key string, change *Change)
