package counter

import (
	"Pulse-Backend/internal/repository/memory"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() *Service {
	return NewService(memory.New(), zap.NewNop())
}

func TestIncrement_ConcurrentFirstVisitors(t *testing.T) {
	svc := newTestService()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Increment(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(n), count, "no increment may be lost under contention")
}

func TestGet_EmptyCounter(t *testing.T) {
	svc := newTestService()

	count, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestSubscribe_ReceivesChanges(t *testing.T) {
	svc := newTestService()

	ch, unsubscribe := svc.Subscribe()
	defer unsubscribe()

	_, err := svc.Increment(context.Background())
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, int64(1), got)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive counter change")
	}
}

func TestSubscribe_SlowSubscriberGetsLatestValue(t *testing.T) {
	svc := newTestService()

	ch, unsubscribe := svc.Subscribe()
	defer unsubscribe()

	// Subscriber never drains between increments; it must still observe
	// the most recent value instead of blocking the increment path.
	for i := 0; i < 5; i++ {
		_, err := svc.Increment(context.Background())
		require.NoError(t, err)
	}

	select {
	case got := <-ch:
		assert.Equal(t, int64(5), got)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive counter change")
	}
}

func TestUnsubscribe_ClosesChannelAndStopsDelivery(t *testing.T) {
	svc := newTestService()

	ch, unsubscribe := svc.Subscribe()
	assert.Equal(t, 1, svc.Subscribers())

	unsubscribe()
	assert.Equal(t, 0, svc.Subscribers())

	_, ok := <-ch
	assert.False(t, ok, "channel must be closed after unsubscribe")

	// Unsubscribing twice must be safe.
	unsubscribe()

	_, err := svc.Increment(context.Background())
	require.NoError(t, err)
}

func TestSubscribe_MultipleSubscribers(t *testing.T) {
	svc := newTestService()

	ch1, unsub1 := svc.Subscribe()
	ch2, unsub2 := svc.Subscribe()
	defer unsub1()
	defer unsub2()

	_, err := svc.Increment(context.Background())
	require.NoError(t, err)

	for _, ch := range []<-chan int64{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, int64(1), got)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive counter change")
		}
	}
}
