package ripple

// The active-call context is a per-Object stack of derived-function keys
// rather than a single slot. Each bound invocation pushes its own key and
// pops it on exit, so reads performed after an inner call returns are
// attributed to the enclosing call, and reads performed after the
// outermost call completes are not attributed at all.

// markerLocked returns the key of the derived function currently executing
// through this Object, or "" when no tracked call is active.
func (o *Object) markerLocked() string {
	if len(o.calls) == 0 {
		return ""
	}
	return o.calls[len(o.calls)-1]
}

// pushCall marks key as the active call.
func (o *Object) pushCall(key string) {
	o.mu.Lock()
	o.calls = append(o.calls, key)
	o.mu.Unlock()
}

// popCall restores the enclosing call, if any.
func (o *Object) popCall() {
	o.mu.Lock()
	if n := len(o.calls); n > 0 {
		o.calls = o.calls[:n-1]
	}
	o.mu.Unlock()
}
