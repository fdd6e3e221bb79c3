package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

var errTestShutdown = errors.New("test shutdown")

func TestInFlightRemoveDoesNotCancel(t *testing.T) {
	r := NewInFlightRegistry()
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	r.Register("req-1", cancel)
	r.Remove("req-1")
	r.Remove("req-1")
	r.Remove("req-unknown")

	if ctx.Err() != nil {
		t.Error("Remove must not cancel the stream")
	}
	if n := r.Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}

func TestInFlightCancelAllUsesCause(t *testing.T) {
	r := NewInFlightRegistry()

	var ctxs []context.Context
	for i := range 3 {
		ctx, cancel := context.WithCancelCause(context.Background())
		r.Register(fmt.Sprintf("req-%d", i), cancel)
		ctxs = append(ctxs, ctx)
	}

	if n := r.CancelAll(errTestShutdown); n != 3 {
		t.Errorf("CancelAll() = %d, want 3", n)
	}
	for i, ctx := range ctxs {
		if !errors.Is(context.Cause(ctx), errTestShutdown) {
			t.Errorf("stream %d cause = %v, want %v", i, context.Cause(ctx), errTestShutdown)
		}
	}
	if n := r.Len(); n != 3 {
		t.Errorf("Len() after CancelAll = %d, want 3 until owners Remove", n)
	}
}

func TestInFlightCancelAllEmpty(t *testing.T) {
	if n := NewInFlightRegistry().CancelAll(errTestShutdown); n != 0 {
		t.Errorf("CancelAll() on empty registry = %d, want 0", n)
	}
}

func TestInFlightDrainEmptyReturnsImmediately(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := NewInFlightRegistry().Drain(ctx); err != nil {
		t.Errorf("Drain() = %v, want nil", err)
	}
}

func TestInFlightDrainWaitsForOwners(t *testing.T) {
	r := NewInFlightRegistry()
	for i := range 2 {
		key := fmt.Sprintf("req-%d", i)
		ctx, cancel := context.WithCancelCause(context.Background())
		r.Register(key, cancel)
		go func() {
			<-ctx.Done()
			time.Sleep(10 * time.Millisecond)
			r.Remove(key)
		}()
	}

	r.CancelAll(errTestShutdown)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Drain(ctx); err != nil {
		t.Fatalf("Drain() = %v, want nil", err)
	}
	if n := r.Len(); n != 0 {
		t.Errorf("Len() after Drain = %d, want 0", n)
	}
}

func TestInFlightDrainTimesOut(t *testing.T) {
	r := NewInFlightRegistry()
	r.Register("req-stuck", func(error) {})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := r.Drain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Drain() = %v, want deadline exceeded", err)
	}
}

func TestInFlightReusableAfterIdle(t *testing.T) {
	r := NewInFlightRegistry()
	r.Register("req-a", func(error) {})
	r.Remove("req-a")
	r.Register("req-b", func(error) {})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := r.Drain(ctx); err == nil {
		t.Error("Drain() returned while req-b was still registered")
	}
}

func TestInFlightConcurrentAccess(t *testing.T) {
	r := NewInFlightRegistry()
	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("req-%03d", i)
			r.Register(key, func(error) {})
			r.Len()
			r.Remove(key)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.CancelAll(errTestShutdown)
	}()
	wg.Wait()

	if n := r.Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}
