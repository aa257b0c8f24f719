package ripple

import "sync/atomic"

// objectIDCounter hands out wrapper identities. Inspector consumers use
// the ID to correlate events from nested wrappers with the objects they
// belong to, so IDs must never repeat within a process.
var objectIDCounter uint64

// nextID returns a process-unique Object ID.
func nextID() uint64 {
	return atomic.AddUint64(&objectIDCounter, 1)
}
