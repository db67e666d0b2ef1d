package form

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueRunPendingDefersNestedTasks(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	var order []string
	q.Defer(func() {
		order = append(order, "first")
		q.Defer(func() { order = append(order, "nested") })
	})
	q.Defer(func() { order = append(order, "second") })

	require.Equal(t, 2, q.RunPending())
	require.Equal(t, []string{"first", "second"}, order)
	require.Equal(t, 1, q.Len())

	require.Equal(t, 1, q.Drain())
	require.Equal(t, []string{"first", "second", "nested"}, order)
}

func TestQueueSignalsReadyFromOtherGoroutines(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Defer(func() {})
		}()
	}
	wg.Wait()

	select {
	case <-q.Ready():
	case <-time.After(time.Second):
		t.Fatal("queue did not signal readiness")
	}
	require.Equal(t, 10, q.Drain())
}

func TestQueueCloseDropsTasks(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	q.Defer(func() { t.Fatal("task must not run after close") })
	q.Close()
	q.Close()
	q.Defer(func() { t.Fatal("task must not run after close") })

	require.Zero(t, q.Drain())
	select {
	case <-q.Done():
	default:
		t.Fatal("done channel not closed")
	}
}
