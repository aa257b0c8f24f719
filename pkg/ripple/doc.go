// Package ripple provides transparent observation of plain map models.
//
// Watching a model wraps it in an Object facade that mirrors every read,
// write, and delete to the underlying map while reporting each observable
// mutation to a caller-supplied Sink:
//
//	model := map[string]any{"count": 0}
//	obj, err := ripple.Watch(model, func(target *ripple.Object, key string, change *ripple.Change) {
//	    log.Printf("%s changed: %+v", key, change)
//	})
//
// Nested map values are wrapped on first read, so deep mutations are
// observable too, and repeated reads of the same key return the same
// nested Object.
//
// # Derived Functions
//
// A model property holding a ripple.Fn is a derived value. Reading it
// returns a bound invocation wrapper; while that wrapper runs, every
// property the function reads through the Object is recorded as one of
// its dependencies:
//
//	model := map[string]any{
//	    "a": 1,
//	    "b": 2,
//	    "sum": ripple.Fn(func(o *ripple.Object) any {
//	        return o.Get("a").(int) + o.Get("b").(int)
//	    }),
//	}
//
// After sum has run, writing a new value to "a" notifies the sink twice:
// once with the mutation detail for "a", then with a nil *Change for
// "sum" — an invalidation pulse signaling that sum's result is stale.
//
// # Thread Safety
//
// An Object's internal maps are guarded by a mutex, and the sink is always
// invoked outside of it. Dependency attribution, however, relies on the
// active-call stack of a single logical thread of control: callers that
// invoke derived functions from multiple goroutines must serialize access
// to a given Object externally.
package ripple
