package ripple

// addDepLocked records that the derived function fnKey read key.
// Entries accumulate across invocations and are never pruned when a
// function stops reading a key; duplicates are dropped so insertion order
// doubles as pulse order.
func (o *Object) addDepLocked(key, fnKey string) {
	for _, existing := range o.deps[key] {
		if existing == fnKey {
			return
		}
	}
	o.deps[key] = append(o.deps[key], fnKey)
}

// staleDepsLocked returns the derived-function keys to pulse after a
// mutation of key: its direct dependents in insertion order, each followed
// by its own dependents, depth first. Invoking a derived function through
// the Object is itself a read of its key, so a chain of calls leaves a
// chain of dependency edges and the walk reaches every enclosing caller,
// deepest dependency first. The walk does not detect cycles.
func (o *Object) staleDepsLocked(key string) []string {
	var order []string
	var walk func(k string)
	walk = func(k string) {
		for _, fnKey := range o.deps[k] {
			order = append(order, fnKey)
			walk(fnKey)
		}
	}
	walk(key)
	return order
}

// Dependencies returns a copy of the dependency set: for each property
// key, the derived-function keys that have read it during a tracked
// invocation, in first-recorded order.
func (o *Object) Dependencies() map[string][]string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string][]string, len(o.deps))
	for k, fns := range o.deps {
		out[k] = append([]string(nil), fns...)
	}
	return out
}
