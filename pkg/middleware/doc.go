// Package middleware provides composable decorators for ripple.Sink.
//
// Decorators wrap an inner sink and pass every notification through after
// recording it, so they can be chained in any order:
//
//	sink := middleware.Metrics(middleware.Traced(appSink))
//	obj, err := ripple.Watch(model, sink)
package middleware
