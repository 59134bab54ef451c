package scheduler_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/sitepress/internal/core/ports/mocks"
	"go.trai.ch/sitepress/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

func newGraph(t *testing.T, deps map[string][]string) *domain.Graph {
	t.Helper()

	g := domain.NewGraph()
	for name, on := range deps {
		task := &domain.Task{Name: domain.NewInternedString(name)}
		for _, dep := range on {
			task.Dependencies = append(task.Dependencies, domain.NewInternedString(dep))
		}
		require.NoError(t, g.AddTask(task))
	}
	require.NoError(t, g.Validate())
	return g
}

// newTracer returns a tracer whose spans accept any output.
func newTracer(ctrl *gomock.Controller) *mocks.MockTracer {
	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			span := mocks.NewMockSpan(ctrl)
			span.EXPECT().Write(gomock.Any()).DoAndReturn(func(p []byte) (int, error) { return len(p), nil }).AnyTimes()
			span.EXPECT().RecordError(gomock.Any()).AnyTimes()
			span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
			span.EXPECT().End()
			return ctx, span
		}).AnyTimes()
	return tracer
}

func TestScheduler_Run_Diamond(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// A depends on B and C, both depend on D.
		g := newGraph(t, map[string][]string{
			"A": {"B", "C"},
			"B": {"D"},
			"C": {"D"},
			"D": nil,
		})

		mockExec := mocks.NewMockExecutor(ctrl)
		s := scheduler.NewScheduler(mockExec, newTracer(ctrl))

		dStarted := make(chan struct{})
		dProceed := make(chan struct{})
		bStarted := make(chan struct{})
		bProceed := make(chan struct{})
		cStarted := make(chan struct{})
		cProceed := make(chan struct{})

		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, task *domain.Task, _ io.Writer) error {
				switch task.Name.String() {
				case "D":
					close(dStarted)
					<-dProceed
					return nil
				case "B":
					close(bStarted)
					<-bProceed
					return errors.New("B failed")
				case "C":
					close(cStarted)
					<-cProceed
					return nil
				default:
					t.Errorf("unexpected task: %s", task.Name)
					return nil
				}
			}).Times(3)

		errCh := make(chan error)
		go func() {
			errCh <- s.Run(context.Background(), g, nil, 2)
		}()

		synctest.Wait()
		select {
		case <-dStarted:
		default:
			t.Fatal("D did not start")
		}
		close(dProceed)

		<-bStarted
		<-cStarted
		close(bProceed)
		close(cProceed)

		err := <-errCh
		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.ErrTaskExecutionFailed.Error())
		assert.Contains(t, err.Error(), "B failed")

		assert.Equal(t, map[string]scheduler.TaskStatus{
			"A": scheduler.StatusSkipped,
			"B": scheduler.StatusFailed,
			"C": scheduler.StatusCompleted,
			"D": scheduler.StatusCompleted,
		}, s.Statuses())
	})
}

func TestScheduler_Run_Partial(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// Target A pulls in B and C. D is unrelated.
		g := newGraph(t, map[string][]string{
			"A": {"B"},
			"B": {"C"},
			"C": nil,
			"D": nil,
		})

		mockExec := mocks.NewMockExecutor(ctrl)
		s := scheduler.NewScheduler(mockExec, newTracer(ctrl))

		var order []string
		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, task *domain.Task, _ io.Writer) error {
				order = append(order, task.Name.String())
				return nil
			}).Times(3)

		require.NoError(t, s.Run(context.Background(), g, []string{"A"}, 1))
		assert.Equal(t, []string{"C", "B", "A"}, order)
		assert.NotContains(t, s.Statuses(), "D")
	})
}

func TestScheduler_Run_UnknownTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := newGraph(t, map[string][]string{"A": nil})

	s := scheduler.NewScheduler(mocks.NewMockExecutor(ctrl), mocks.NewMockTracer(ctrl))

	err := s.Run(context.Background(), g, []string{"missing"}, 1)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestScheduler_Run_Parallelism(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)

		g := newGraph(t, map[string][]string{
			"a": nil, "b": nil, "c": nil, "d": nil, "e": nil,
		})

		mockExec := mocks.NewMockExecutor(ctrl)
		s := scheduler.NewScheduler(mockExec, newTracer(ctrl))

		var mu sync.Mutex
		running, peak := 0, 0
		release := make(chan struct{})
		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *domain.Task, _ io.Writer) error {
				mu.Lock()
				running++
				peak = max(peak, running)
				mu.Unlock()

				<-release

				mu.Lock()
				running--
				mu.Unlock()
				return nil
			}).Times(5)

		errCh := make(chan error)
		go func() {
			errCh <- s.Run(context.Background(), g, nil, 2)
		}()

		synctest.Wait()
		mu.Lock()
		assert.Equal(t, 2, running)
		mu.Unlock()

		close(release)
		require.NoError(t, <-errCh)
		assert.Equal(t, 2, peak)
	})
}

func TestScheduler_Run_Cancelled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)

		g := newGraph(t, map[string][]string{
			"first":  nil,
			"second": {"first"},
		})

		mockExec := mocks.NewMockExecutor(ctrl)
		s := scheduler.NewScheduler(mockExec, newTracer(ctrl))

		ctx, cancel := context.WithCancel(context.Background())
		started := make(chan struct{})
		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ *domain.Task, _ io.Writer) error {
				close(started)
				<-ctx.Done()
				return ctx.Err()
			})

		errCh := make(chan error)
		go func() {
			errCh <- s.Run(ctx, g, nil, 4)
		}()

		<-started
		cancel()

		err := <-errCh
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, scheduler.StatusFailed, s.Statuses()["first"])
		assert.Equal(t, scheduler.StatusSkipped, s.Statuses()["second"])
	})
}

func TestScheduler_Run_StreamsOutputToSpan(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := newGraph(t, map[string][]string{"styles": nil})

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().Write([]byte("wrote 2 file(s)\n")).Return(16, nil)
	span.EXPECT().End()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().EmitPlan(gomock.Any(), []string{"styles"},
		map[string][]string{"styles": {}}, []string{"styles"})
	tracer.EXPECT().Start(gomock.Any(), "styles", gomock.Any()).Return(context.Background(), span)

	mockExec := mocks.NewMockExecutor(ctrl)
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), span).DoAndReturn(
		func(_ context.Context, _ *domain.Task, out io.Writer) error {
			_, err := io.WriteString(out, "wrote 2 file(s)\n")
			return err
		})

	require.NoError(t, scheduler.NewScheduler(mockExec, tracer).Run(context.Background(), g, nil, 1))
}
