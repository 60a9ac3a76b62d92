package loader

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinAllSuccess(t *testing.T) {
	var ran atomic.Int32
	task := func(ctx context.Context) error {
		ran.Add(1)
		return nil
	}

	err := JoinAll(context.Background(), task, task, task)
	require.NoError(t, err)
	assert.Equal(t, int32(3), ran.Load())
}

func TestJoinAllNoTasks(t *testing.T) {
	require.NoError(t, JoinAll(context.Background()))
}

func TestJoinAllReturnsFirstErrorWithoutWaiting(t *testing.T) {
	boom := errors.New("boom")
	release := make(chan struct{})
	defer close(release)

	slow := func(ctx context.Context) error {
		<-release
		return nil
	}
	failing := func(ctx context.Context) error {
		return boom
	}

	done := make(chan error, 1)
	go func() {
		done <- JoinAll(context.Background(), slow, failing, slow)
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("JoinAll waited for slow siblings after a failure")
	}
}

func TestJoinAllDoesNotCancelSiblings(t *testing.T) {
	siblingFinished := make(chan error, 1)

	sibling := func(ctx context.Context) error {
		time.Sleep(50 * time.Millisecond)
		siblingFinished <- ctx.Err()
		return nil
	}
	failing := func(ctx context.Context) error {
		return errors.New("fail fast")
	}

	err := JoinAll(context.Background(), sibling, failing)
	require.Error(t, err)

	select {
	case ctxErr := <-siblingFinished:
		assert.NoError(t, ctxErr, "sibling context should not be cancelled")
	case <-time.After(2 * time.Second):
		t.Fatal("sibling never completed")
	}
}

func TestJoinAllHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	block := make(chan struct{})
	defer close(block)

	cancel()
	err := JoinAll(ctx, func(ctx context.Context) error {
		<-block
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
