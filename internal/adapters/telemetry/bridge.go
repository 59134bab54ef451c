package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/sitepress/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge is a span processor that reports task spans to a Renderer. Spans
// without the ports.TaskAttribute attribute are ignored.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a new Bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// NewTracerProvider returns an SDK provider that reports task spans to renderer.
func NewTracerProvider(renderer ports.Renderer) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(renderer)),
	)
}

// OnStart reports the start of a task span. The parent ID is empty for a
// task started outside another span.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	name, ok := b.taskName(s)
	if !ok {
		return
	}

	var parentID string
	if sc := trace.SpanContextFromContext(parent); sc.IsValid() {
		parentID = sc.SpanID().String()
	}
	b.renderer.OnTaskStart(s.SpanContext().SpanID().String(), parentID, name, s.StartTime())
}

// OnEnd reports the result of a task span.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if _, ok := b.taskName(s); !ok {
		return
	}
	b.renderer.OnTaskComplete(s.SpanContext().SpanID().String(), s.EndTime(), spanError(s))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown stops the renderer.
func (b *Bridge) Shutdown(_ context.Context) error {
	if b.renderer == nil {
		return nil
	}
	return b.renderer.Stop()
}

func (b *Bridge) taskName(s sdktrace.ReadOnlySpan) (string, bool) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return "", false
	}
	for _, kv := range s.Attributes() {
		if kv.Key == ports.TaskAttribute && kv.Value.Type() == attribute.STRING {
			return kv.Value.AsString(), true
		}
	}
	return "", false
}

// spanError rebuilds the task error from the span status, falling back to
// the last recorded exception.
func spanError(s sdktrace.ReadOnlySpan) error {
	if s.Status().Code != codes.Error {
		return nil
	}
	if desc := s.Status().Description; desc != "" {
		return errors.New(desc)
	}
	events := s.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Name != "exception" {
			continue
		}
		for _, kv := range events[i].Attributes {
			if kv.Key == "exception.message" {
				return errors.New(kv.Value.AsString())
			}
		}
	}
	return errors.New("task failed")
}
