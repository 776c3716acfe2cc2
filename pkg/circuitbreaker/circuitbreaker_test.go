package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errUpstream = errors.New("upstream unavailable")

func failing() error { return errUpstream }

func newTestBreaker(threshold uint32, timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker("test", Config{
		MaxRequests: 1,
		Interval:    time.Hour,
		Timeout:     timeout,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
}

func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := newTestBreaker(5, 30*time.Second)

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", counts.TotalSuccesses)
	}
}

func TestCircuitBreaker_Trip(t *testing.T) {
	cb := newTestBreaker(5, 30*time.Second)

	for i := 0; i < 5; i++ {
		if err := cb.Execute(failing); !errors.Is(err, errUpstream) {
			t.Fatalf("期望透传下游错误，实际%v", err)
		}
	}
	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpenState) {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应调用下游")
	}
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	t.Run("探测成功恢复CLOSED", func(t *testing.T) {
		cb := newTestBreaker(3, 50*time.Millisecond)
		for i := 0; i < 3; i++ {
			_ = cb.Execute(failing)
		}
		time.Sleep(80 * time.Millisecond)

		if cb.State() != StateHalfOpen {
			t.Fatalf("期望状态为HALF_OPEN，实际%s", cb.State())
		}
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("半开探测期望成功，实际%v", err)
		}
		if cb.State() != StateClosed {
			t.Errorf("期望状态转为CLOSED，实际%s", cb.State())
		}
	})

	t.Run("探测失败回到OPEN", func(t *testing.T) {
		cb := newTestBreaker(3, 50*time.Millisecond)
		for i := 0; i < 3; i++ {
			_ = cb.Execute(failing)
		}
		time.Sleep(80 * time.Millisecond)

		_ = cb.Execute(failing)
		if cb.State() != StateOpen {
			t.Errorf("期望状态转回OPEN，实际%s", cb.State())
		}
	})
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var changes []string
	cb := newTestBreaker(2, 50*time.Millisecond)
	cb.OnStateChange(func(name string, from, to State) {
		changes = append(changes, from.String()+"->"+to.String())
	})

	_ = cb.Execute(failing)
	_ = cb.Execute(failing)
	time.Sleep(80 * time.Millisecond)
	_ = cb.Execute(func() error { return nil })

	expected := []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}
	if len(changes) != len(expected) {
		t.Fatalf("期望%d次状态变化，实际%v", len(expected), changes)
	}
	for i := range expected {
		if changes[i] != expected[i] {
			t.Errorf("第%d次状态变化期望%s，实际%s", i, expected[i], changes[i])
		}
	}
}

func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errBadRequest := errors.New("bad request")
	cb := NewCircuitBreaker("test", Config{
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 2 },
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errBadRequest)
		},
	})

	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error { return errBadRequest })
	}
	if cb.State() != StateClosed {
		t.Errorf("调用方错误不应触发熔断，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalFailures != 0 {
		t.Errorf("期望失败0次，实际%d次", counts.TotalFailures)
	}
}

func TestCircuitBreaker_FailureRate(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		Interval: time.Hour,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.Requests >= 10 && counts.FailureRate() > 0.5
		},
	})

	// 4次成功 6次失败
	for i := 0; i < 10; i++ {
		index := i
		_ = cb.Execute(func() error {
			if index < 4 {
				return nil
			}
			return errUpstream
		})
	}

	if cb.State() != StateOpen {
		t.Errorf("期望失败率超过50%%后为OPEN，实际%s", cb.State())
	}
}

func TestCircuitBreaker_ExecuteContext(t *testing.T) {
	cb := newTestBreaker(5, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.ExecuteContext(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("期望context.Canceled，实际%v", err)
	}
	if called {
		t.Error("ctx已取消时不应调用下游")
	}
	if counts := cb.Counts(); counts.Requests != 0 {
		t.Errorf("ctx取消不应计入请求，实际%d", counts.Requests)
	}
}

func BenchmarkCircuitBreaker(b *testing.B) {
	cb := newTestBreaker(5, 30*time.Second)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(func() error { return nil })
	}
}
