package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestHandle_WaitDeliversOutcome verifies single completion delivery
// Given: a handle completed with a value
// When: Wait is called repeatedly
// Then: every wait returns the same outcome
func TestHandle_WaitDeliversOutcome(t *testing.T) {
	// Arrange
	h := newHandle()
	h.complete(42, nil)

	// Act & Assert
	for i := 0; i < 3; i++ {
		v, err := h.Wait()
		if err != nil {
			t.Fatalf("Wait() error = %v, want nil", err)
		}
		if v != 42 {
			t.Errorf("Wait() = %v, want 42", v)
		}
	}
}

// TestHandle_CompleteOnce verifies later completions are ignored
// Given: a handle completed with a value
// When: complete is called again with a different outcome
// Then: waiters still observe the first outcome
func TestHandle_CompleteOnce(t *testing.T) {
	// Arrange
	h := newHandle()
	h.complete(1, nil)

	// Act
	h.complete(2, errors.New("late"))

	// Assert
	v, err := h.Wait()
	if v != 1 || err != nil {
		t.Errorf("Wait() = (%v, %v), want (1, nil)", v, err)
	}
}

// TestHandle_WaitForZeroTimeout verifies the zero-timeout boundary
// Given: an incomplete handle
// When: WaitFor(0) is called
// Then: it returns not-ready immediately
func TestHandle_WaitForZeroTimeout(t *testing.T) {
	// Arrange
	h := newHandle()

	// Act
	_, _, ok := h.WaitFor(0)

	// Assert
	if ok {
		t.Error("WaitFor(0) on incomplete handle = ready, want not ready")
	}
	if h.Ready() {
		t.Error("Ready() = true, want false")
	}
}

// TestHandle_WaitForTimeout verifies timeout does not disturb the task
// Given: a handle completed shortly after a timed-out wait
// When: WaitFor times out and then the handle completes
// Then: the first wait reports not-ready and a later wait sees the outcome
func TestHandle_WaitForTimeout(t *testing.T) {
	// Arrange
	h := newHandle()

	// Act
	_, _, ok := h.WaitFor(10 * time.Millisecond)
	if ok {
		t.Fatal("WaitFor before completion = ready, want not ready")
	}
	h.complete("done", nil)

	// Assert
	v, err, ok := h.WaitFor(time.Second)
	if !ok || err != nil || v != "done" {
		t.Errorf("WaitFor after completion = (%v, %v, %v), want (done, nil, true)", v, err, ok)
	}
}

// TestHandle_WaitContext verifies context cancellation
// Given: an incomplete handle and an already-cancelled context
// When: WaitContext is called
// Then: it returns the context error without completing the handle
func TestHandle_WaitContext(t *testing.T) {
	// Arrange
	h := newHandle()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := h.WaitContext(ctx)

	// Assert
	if !errors.Is(err, context.Canceled) {
		t.Errorf("WaitContext() = %v, want context.Canceled", err)
	}
	if h.Ready() {
		t.Error("handle became ready from a cancelled wait")
	}
}
