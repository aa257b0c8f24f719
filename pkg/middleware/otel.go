package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ripple-dev/ripple/pkg/ripple"
)

// Default tracer name for ripple applications.
const defaultTracerName = "ripple"

// OTelConfig configures the OpenTelemetry decorator.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "ripple").
	TracerName string

	// Filter determines which notifications to trace.
	// Return true to trace the notification, false to skip it.
	// If nil, all notifications are traced.
	Filter func(key string, change *ripple.Change) bool

	// AttributeExtractor extracts custom attributes for each traced
	// notification.
	AttributeExtractor func(target *ripple.Object, key string, change *ripple.Change) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry decorator.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithChangeFilter sets a filter function for notifications.
func WithChangeFilter(filter func(key string, change *ripple.Change) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extract func(target *ripple.Object, key string, change *ripple.Change) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extract
	}
}

// Traced wraps next with OpenTelemetry tracing. Every notification becomes
// a span named "ripple.change" (mutations) or "ripple.pulse" (invalidation
// pulses) carrying the object ID, key, and operation as attributes; the
// span covers the inner sink's dispatch.
//
// next may be nil when only the spans are wanted.
func Traced(next ripple.Sink, opts ...OTelOption) ripple.Sink {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return func(target *ripple.Object, key string, change *ripple.Change) {
		if config.Filter != nil && !config.Filter(key, change) {
			if next != nil {
				next(target, key, change)
			}
			return
		}

		name := "ripple.pulse"
		attrs := []attribute.KeyValue{
			attribute.Int64("ripple.object_id", int64(target.ID())),
			attribute.String("ripple.key", key),
		}
		if change != nil {
			name = "ripple.change"
			attrs = append(attrs, attribute.String("ripple.op", change.Op.String()))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(target, key, change)...)
		}

		_, span := config.tracer.Start(context.Background(), name, trace.WithAttributes(attrs...))
		defer span.End()

		if next != nil {
			next(target, key, change)
		}
	}
}
