package shutdown_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"socialclient/pkg/shutdown"
)

func TestWaitRunsHooksOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	hook := func(context.Context) error {
		calls.Add(1)
		return nil
	}
	failing := func(context.Context) error {
		calls.Add(1)
		return errors.New("close failed")
	}

	done := make(chan struct{})
	go func() {
		shutdown.Wait(ctx, time.Second, hook, failing)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after context cancel")
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestWaitRespectsTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var completed atomic.Bool
	slow := func(hookCtx context.Context) error {
		select {
		case <-time.After(2 * time.Second):
			completed.Store(true)
			return nil
		case <-hookCtx.Done():
			return hookCtx.Err()
		}
	}

	start := time.Now()
	shutdown.Wait(ctx, 200*time.Millisecond, slow)

	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, completed.Load())
}

func TestWaitRunsHooksConcurrently(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sleepy := func(context.Context) error {
		time.Sleep(300 * time.Millisecond)
		return nil
	}

	start := time.Now()
	shutdown.Wait(ctx, 2*time.Second, sleepy, sleepy, sleepy)

	assert.Less(t, time.Since(start), 800*time.Millisecond, "hooks appear to run sequentially")
}
