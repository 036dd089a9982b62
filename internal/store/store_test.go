package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string
	Tags  []string
	Value int
}

func (i item) Key() string { return i.ID }

func cloneItem(i item) item {
	i.Tags = append([]string(nil), i.Tags...)
	return i
}

func static(items ...item) Loader[item] {
	return LoaderFunc[item](func(context.Context) ([]item, error) { return items, nil })
}

func TestFetch_PopulatesOnceUnlessForced(t *testing.T) {
	var calls atomic.Int32
	s := New("items", LoaderFunc[item](func(context.Context) ([]item, error) {
		calls.Add(1)
		return []item{{ID: "a"}}, nil
	}), logger.NewNop())

	assert.Equal(t, StateEmpty, s.State())
	require.NoError(t, s.Fetch(context.Background(), false))
	require.NoError(t, s.Fetch(context.Background(), false))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StatePopulated, s.State())

	require.NoError(t, s.Fetch(context.Background(), true))
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_FailureSetsErrorState(t *testing.T) {
	boom := errors.New("network down")
	s := New("items", LoaderFunc[item](func(context.Context) ([]item, error) { return nil, boom }), logger.NewNop())

	err := s.Fetch(context.Background(), false)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, StateError, s.State())
	assert.ErrorIs(t, s.Err(), boom)
	assert.Empty(t, s.Snapshot())

	_, err = s.Update("a", func(*item) error { return nil })
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFetch_NewerFetchWins(t *testing.T) {
	firstStarted := make(chan struct{})
	var n atomic.Int32
	s := New("items", LoaderFunc[item](func(ctx context.Context) ([]item, error) {
		if n.Add(1) == 1 {
			close(firstStarted)
			<-ctx.Done()
			// a stale loader that ignores cancellation still must not commit
			return []item{{ID: "stale"}}, nil
		}
		return []item{{ID: "fresh"}}, nil
	}), logger.NewNop())

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = s.Fetch(context.Background(), false)
	}()
	<-firstStarted

	require.NoError(t, s.Fetch(context.Background(), true))
	wg.Wait()

	assert.NoError(t, firstErr)
	assert.Equal(t, []item{{ID: "fresh"}}, s.Snapshot())
	assert.Equal(t, StatePopulated, s.State())
}

func TestFetch_JoinsInflightLoad(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	s := New("items", LoaderFunc[item](func(context.Context) ([]item, error) {
		calls.Add(1)
		<-release
		return []item{{ID: "a"}}, nil
	}), logger.NewNop())

	errs := make(chan error, 2)
	go func() { errs <- s.Fetch(context.Background(), false) }()
	require.Eventually(t, func() bool { return s.State() == StateLoading }, time.Second, time.Millisecond)
	go func() { errs <- s.Fetch(context.Background(), false) }()

	close(release)
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_CallerLeavingDoesNotCancelSharedLoad(t *testing.T) {
	release := make(chan struct{})
	var loadErr atomic.Value
	s := New("items", LoaderFunc[item](func(ctx context.Context) ([]item, error) {
		select {
		case <-release:
			return []item{{ID: "a"}}, nil
		case <-ctx.Done():
			loadErr.Store(ctx.Err())
			return nil, ctx.Err()
		}
	}), logger.NewNop())

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leader := make(chan error, 1)
	go func() { leader <- s.Fetch(leaderCtx, false) }()
	require.Eventually(t, func() bool { return s.State() == StateLoading }, time.Second, time.Millisecond)

	joiner := make(chan error, 1)
	go func() { joiner <- s.Fetch(context.Background(), false) }()

	cancelLeader()
	assert.ErrorIs(t, <-leader, context.Canceled)
	assert.Equal(t, StateLoading, s.State())

	close(release)
	require.NoError(t, <-joiner)
	assert.Nil(t, loadErr.Load())
	assert.Equal(t, StatePopulated, s.State())
	assert.Equal(t, []item{{ID: "a"}}, s.Snapshot())
}

func TestFetch_CancelledCallerReturnsItsOwnError(t *testing.T) {
	release := make(chan struct{})
	s := New("items", LoaderFunc[item](func(context.Context) ([]item, error) {
		<-release
		return []item{{ID: "a"}}, nil
	}), logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Fetch(ctx, false), context.Canceled)
	assert.NoError(t, s.Err())

	close(release)
	require.Eventually(t, func() bool { return s.State() == StatePopulated }, time.Second, time.Millisecond)
	require.NoError(t, s.Fetch(context.Background(), false))
}

func TestUpdate_CopiesBeforeMutating(t *testing.T) {
	s := New("items", static(item{ID: "a", Tags: []string{"x"}}, item{ID: "b"}), logger.NewNop(), WithClone(cloneItem))
	require.NoError(t, s.Fetch(context.Background(), false))

	before := s.Snapshot()
	got, err := s.Update("a", func(i *item) error {
		i.Tags[0] = "y"
		i.Value = 7
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got.Value)
	assert.Equal(t, "x", before[0].Tags[0], "earlier snapshots are not affected")

	found, err := s.Find("a")
	require.NoError(t, err)
	assert.Equal(t, "y", found.Tags[0])

	_, err = s.Update("a", func(*item) error { return errors.New("rejected") })
	assert.EqualError(t, err, "rejected")
	found, _ = s.Find("a")
	assert.Equal(t, 7, found.Value)

	_, err = s.Update("zzz", func(*item) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Find("zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppend(t *testing.T) {
	s := New("items", static(item{ID: "a"}), logger.NewNop())
	assert.ErrorIs(t, s.Append(item{ID: "z"}), ErrUnavailable)

	require.NoError(t, s.Fetch(context.Background(), false))
	require.NoError(t, s.Append(item{ID: "z"}))
	assert.Equal(t, []item{{ID: "a"}, {ID: "z"}}, s.Snapshot())
}
