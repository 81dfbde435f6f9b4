package live

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"staff-tracker/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func counterQuery(n *atomic.Int64) QueryFunc {
	return func(ctx context.Context) (any, error) {
		return n.Load(), nil
	}
}

func recv(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.Updates():
		require.True(t, ok, "updates channel closed")
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestSubscribe_InitialSnapshot(t *testing.T) {
	b := NewBroker(logging.Discard())
	defer b.Close()

	var n atomic.Int64
	n.Store(3)
	sub, err := b.Subscribe(context.Background(), TopicTasks, counterQuery(&n))
	require.NoError(t, err)
	defer sub.Close()

	snap := recv(t, sub)
	assert.Equal(t, int64(3), snap.Data)
	assert.Equal(t, uint64(1), snap.Version)
	assert.Equal(t, TopicTasks, sub.Topic())
}

func TestSubscribe_InitialErrorRegistersNothing(t *testing.T) {
	b := NewBroker(logging.Discard())
	defer b.Close()

	boom := errors.New("boom")
	_, err := b.Subscribe(context.Background(), TopicTasks, func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, b.Stats())
}

func TestPublish_OnlyMatchingTopic(t *testing.T) {
	b := NewBroker(logging.Discard())
	defer b.Close()

	var tasks, employees atomic.Int64
	taskSub, err := b.Subscribe(context.Background(), TopicTasks, counterQuery(&tasks))
	require.NoError(t, err)
	empSub, err := b.Subscribe(context.Background(), TopicEmployees, counterQuery(&employees))
	require.NoError(t, err)
	recv(t, taskSub)
	recv(t, empSub)

	tasks.Store(1)
	b.Publish(context.Background(), TopicTasks)

	snap := recv(t, taskSub)
	assert.Equal(t, int64(1), snap.Data)
	assert.Equal(t, uint64(2), snap.Version)

	select {
	case <-empSub.Updates():
		t.Fatal("employees subscription should not be refreshed")
	default:
	}
}

func TestPublish_LatestWins(t *testing.T) {
	b := NewBroker(logging.Discard())
	defer b.Close()

	var n atomic.Int64
	sub, err := b.Subscribe(context.Background(), TopicEmployees, counterQuery(&n))
	require.NoError(t, err)
	defer sub.Close()

	for i := 1; i <= 5; i++ {
		n.Store(int64(i))
		b.Publish(context.Background(), TopicEmployees)
	}

	snap := recv(t, sub)
	assert.Equal(t, int64(5), snap.Data)
	assert.Equal(t, uint64(6), snap.Version)
}

func TestPublish_ConcurrentNeverGoesBackwards(t *testing.T) {
	b := NewBroker(logging.Discard())
	defer b.Close()

	var n atomic.Int64
	sub, err := b.Subscribe(context.Background(), TopicTasks, counterQuery(&n))
	require.NoError(t, err)
	defer sub.Close()
	recv(t, sub)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Add(1)
			b.Publish(context.Background(), TopicTasks)
		}()
	}
	wg.Wait()

	snap := recv(t, sub)
	assert.Equal(t, int64(20), snap.Data)
}

func TestPublish_QueryErrorIsDelivered(t *testing.T) {
	b := NewBroker(logging.Discard())
	defer b.Close()

	var fail atomic.Bool
	boom := errors.New("store down")
	sub, err := b.Subscribe(context.Background(), TopicTasks, func(context.Context) (any, error) {
		if fail.Load() {
			return nil, boom
		}
		return "ok", nil
	})
	require.NoError(t, err)
	defer sub.Close()
	recv(t, sub)

	fail.Store(true)
	b.Publish(context.Background(), TopicTasks)
	assert.ErrorIs(t, recv(t, sub).Err, boom)
}

func TestSubscription_CloseIsIdempotent(t *testing.T) {
	b := NewBroker(logging.Discard())
	defer b.Close()

	var n atomic.Int64
	sub, err := b.Subscribe(context.Background(), TopicTasks, counterQuery(&n))
	require.NoError(t, err)
	recv(t, sub)

	sub.Close()
	sub.Close()

	_, ok := <-sub.Updates()
	assert.False(t, ok)
	assert.Empty(t, b.Stats())

	// publishing after close is a no-op
	b.Publish(context.Background(), TopicTasks)
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker(logging.Discard())

	var n atomic.Int64
	sub, err := b.Subscribe(context.Background(), TopicTasks, counterQuery(&n))
	require.NoError(t, err)
	recv(t, sub)

	b.Close()
	_, ok := <-sub.Updates()
	assert.False(t, ok)

	_, err = b.Subscribe(context.Background(), TopicTasks, counterQuery(&n))
	assert.ErrorIs(t, err, ErrBrokerClosed)
}

func TestStats(t *testing.T) {
	b := NewBroker(logging.Discard())
	defer b.Close()

	var n atomic.Int64
	for i := 0; i < 2; i++ {
		_, err := b.Subscribe(context.Background(), TopicTasks, counterQuery(&n))
		require.NoError(t, err)
	}
	_, err := b.Subscribe(context.Background(), TopicDepartments, counterQuery(&n))
	require.NoError(t, err)

	assert.Equal(t, map[Topic]int{TopicTasks: 2, TopicDepartments: 1}, b.Stats())
}

func TestPublish_CanceledCallerContext(t *testing.T) {
	b := NewBroker(logging.Discard())
	defer b.Close()

	var n atomic.Int64
	sub, err := b.Subscribe(context.Background(), TopicTasks, func(ctx context.Context) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return n.Load(), nil
	})
	require.NoError(t, err)
	defer sub.Close()
	recv(t, sub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.Store(1)
	b.Publish(ctx, TopicTasks)

	snap := recv(t, sub)
	require.NoError(t, snap.Err)
	assert.Equal(t, int64(1), snap.Data)
}
