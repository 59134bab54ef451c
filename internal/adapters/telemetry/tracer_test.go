package telemetry_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepress/internal/adapters/telemetry"
	"go.trai.ch/sitepress/internal/core/ports"
)

type recordingRenderer struct {
	mu      sync.Mutex
	events  []string
	logs    map[string]string
	names   map[string]string
	parents map[string]string
	stopped bool
}

var _ ports.Renderer = (*recordingRenderer)(nil)

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{
		logs:    make(map[string]string),
		names:   make(map[string]string),
		parents: make(map[string]string),
	}
}

func (r *recordingRenderer) OnPlanEmit(tasks []string, _ map[string][]string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("plan %v %v", tasks, targets))
}

func (r *recordingRenderer) OnTaskStart(spanID, parentID, name string, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[spanID] = name
	r.parents[spanID] = parentID
	r.events = append(r.events, "start "+name)
}

func (r *recordingRenderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[r.names[spanID]] += string(data)
	r.events = append(r.events, "log "+r.names[spanID])
}

func (r *recordingRenderer) OnTaskComplete(spanID string, _ time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := "ok"
	if err != nil {
		status = err.Error()
	}
	r.events = append(r.events, "complete "+r.names[spanID]+" "+status)
}

func (r *recordingRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	return nil
}

func TestOTelTracer_SpanLifecycle(t *testing.T) {
	renderer := newRecordingRenderer()
	provider := telemetry.NewTracerProvider(renderer)
	tracer := telemetry.NewOTelTracer(provider, renderer)

	ctx := context.Background()
	tracer.EmitPlan(ctx, []string{"styles"}, nil, []string{"styles"})

	_, span := tracer.Start(ctx, "styles",
		ports.WithAttribute(ports.TaskAttribute, "styles"),
		ports.WithAttribute("mode", "production"),
	)
	_, err := span.Write([]byte("compiled\n"))
	require.NoError(t, err)
	span.End()

	require.NoError(t, provider.Shutdown(ctx))

	renderer.mu.Lock()
	defer renderer.mu.Unlock()

	assert.Equal(t, []string{
		"plan [styles] [styles]",
		"start styles",
		"log styles",
		"complete styles ok",
	}, renderer.events)
	assert.Equal(t, "compiled\n", renderer.logs["styles"])
	assert.True(t, renderer.stopped)
}

func TestOTelTracer_RecordError(t *testing.T) {
	renderer := newRecordingRenderer()
	provider := telemetry.NewTracerProvider(renderer)
	tracer := telemetry.NewOTelTracer(provider, renderer)

	_, span := tracer.Start(context.Background(), "sprite", ports.WithAttribute(ports.TaskAttribute, "sprite"))
	span.RecordError(errors.New("duplicate symbol id"))
	span.End()

	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	assert.Equal(t, "complete sprite duplicate symbol id", renderer.events[len(renderer.events)-1])
}

func TestOTelTracer_NestedSpans(t *testing.T) {
	renderer := newRecordingRenderer()
	provider := telemetry.NewTracerProvider(renderer)
	tracer := telemetry.NewOTelTracer(provider, renderer)

	ctx, parent := tracer.Start(context.Background(), "build", ports.WithAttribute(ports.TaskAttribute, "build"))
	_, child := tracer.Start(ctx, "pages", ports.WithAttribute(ports.TaskAttribute, "pages"))
	child.End()
	parent.End()

	renderer.mu.Lock()
	defer renderer.mu.Unlock()

	var parentID, childID string
	for id, name := range renderer.names {
		switch name {
		case "build":
			parentID = id
		case "pages":
			childID = id
		}
	}
	require.NotEmpty(t, parentID)
	assert.Empty(t, renderer.parents[parentID])
	assert.Equal(t, parentID, renderer.parents[childID])
}

func TestOTelTracer_IgnoresNonTaskSpans(t *testing.T) {
	renderer := newRecordingRenderer()
	provider := telemetry.NewTracerProvider(renderer)
	tracer := telemetry.NewOTelTracer(provider, renderer)

	ctx, outer := tracer.Start(context.Background(), "rebuild")
	_, task := tracer.Start(ctx, "scripts", ports.WithAttribute(ports.TaskAttribute, "scripts"))
	task.End()
	outer.End()

	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	assert.Equal(t, []string{"start scripts", "complete scripts ok"}, renderer.events)
	for id := range renderer.names {
		assert.NotEmpty(t, renderer.parents[id], "task span keeps the outer span as parent")
	}
}

func TestOTelSpan_SetAttribute(t *testing.T) {
	renderer := newRecordingRenderer()
	tracer := telemetry.NewOTelTracer(telemetry.NewTracerProvider(renderer), renderer)

	_, span := tracer.Start(context.Background(), "webp")
	assert.NotPanics(t, func() {
		span.SetAttribute("files", 3)
		span.SetAttribute("bytes", int64(1024))
		span.SetAttribute("ratio", 0.5)
		span.SetAttribute("cached", true)
		span.SetAttribute("formats", []string{"webp", "avif"})
		span.SetAttribute("other", struct{}{})
	})
	span.End()
}
