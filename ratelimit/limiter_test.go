package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func testLimiter(t *testing.T, policies []Policy) (*Limiter, *time.Time) {
	t.Helper()
	now := time.Now()
	l, err := New(policies, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(l.Stop)
	return l, &now
}

func TestCheckAdmitsUpToMax(t *testing.T) {
	l, _ := testLimiter(t, []Policy{{Name: "login", Window: 15 * time.Minute, Max: 5}})

	for i := 0; i < 5; i++ {
		res, err := l.Check("login", "203.0.113.7")
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if !res.Admitted {
			t.Fatalf("request %d should be admitted", i+1)
		}
		if res.Remaining != 5-(i+1) {
			t.Errorf("remaining = %d, want %d", res.Remaining, 5-(i+1))
		}
	}

	// Sixth request in the window is rejected with a positive retry hint.
	res, err := l.Check("login", "203.0.113.7")
	if err != nil {
		t.Fatal(err)
	}
	if res.Admitted {
		t.Fatal("sixth request should be rejected")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("retryAfter = %v, want > 0", res.RetryAfter)
	}
}

func TestWindowResetAfterElapse(t *testing.T) {
	l, now := testLimiter(t, []Policy{{Name: "login", Window: time.Minute, Max: 2}})

	l.Check("login", "k")
	l.Check("login", "k")
	if res, _ := l.Check("login", "k"); res.Admitted {
		t.Fatal("third request should be rejected")
	}

	*now = now.Add(time.Minute + time.Second)
	res, _ := l.Check("login", "k")
	if !res.Admitted {
		t.Fatal("after the window elapses the key behaves as fresh")
	}
	if res.Remaining != 1 {
		t.Errorf("remaining = %d, want 1", res.Remaining)
	}
}

func TestRejectionsKeepCounting(t *testing.T) {
	l, now := testLimiter(t, []Policy{{Name: "login", Window: time.Minute, Max: 1}})

	l.Check("login", "k")
	res, _ := l.Check("login", "k")
	if res.Admitted {
		t.Fatal("second request should be rejected")
	}

	// Still inside the window: rejected again, no budget earned.
	*now = now.Add(30 * time.Second)
	if res, _ := l.Check("login", "k"); res.Admitted {
		t.Fatal("request inside the closed window should stay rejected")
	}
}

func TestPoliciesHaveIndependentKeyspaces(t *testing.T) {
	l, _ := testLimiter(t, []Policy{
		{Name: "login", Window: time.Minute, Max: 1},
		{Name: "password_reset", Window: time.Minute, Max: 1},
	})

	l.Check("login", "same-key")
	if res, _ := l.Check("login", "same-key"); res.Admitted {
		t.Fatal("login budget should be exhausted")
	}
	if res, _ := l.Check("password_reset", "same-key"); !res.Admitted {
		t.Fatal("reset policy counts the same key separately")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l, _ := testLimiter(t, []Policy{{Name: "api", Window: time.Minute, Max: 1}})
	l.Check("api", "alice")
	if res, _ := l.Check("api", "bob"); !res.Admitted {
		t.Fatal("bob should not share alice's budget")
	}
}

func TestReset(t *testing.T) {
	l, _ := testLimiter(t, []Policy{{Name: "login", Window: time.Hour, Max: 1}})
	l.Check("login", "k")
	l.Reset("login", "k")
	if res, _ := l.Check("login", "k"); !res.Admitted {
		t.Fatal("after Reset the key should have a fresh budget")
	}
}

func TestUnknownPolicy(t *testing.T) {
	l, _ := testLimiter(t, DefaultPolicies())
	if _, err := l.Check("nope", "k"); err == nil {
		t.Fatal("unknown policy should error")
	}
}

func TestNewRejectsBadPolicies(t *testing.T) {
	tests := []struct {
		name     string
		policies []Policy
	}{
		{"empty name", []Policy{{Window: time.Minute, Max: 1}}},
		{"zero window", []Policy{{Name: "x", Max: 1}}},
		{"zero max", []Policy{{Name: "x", Window: time.Minute}}},
		{"duplicate", []Policy{
			{Name: "x", Window: time.Minute, Max: 1},
			{Name: "x", Window: time.Minute, Max: 2},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.policies); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSweepDiscardsElapsedWindows(t *testing.T) {
	now := time.Now()
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	l, err := New(
		[]Policy{{Name: "api", Window: 10 * time.Millisecond, Max: 5}},
		WithClock(clock),
		WithSweepInterval(5*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Stop()

	l.Check("api", "a")
	l.Check("api", "b")
	if got := l.size(); got != 2 {
		t.Fatalf("size = %d, want 2", got)
	}

	mu.Lock()
	now = now.Add(time.Second)
	mu.Unlock()

	deadline := time.Now().Add(2 * time.Second)
	for l.size() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := l.size(); got != 0 {
		t.Fatalf("size = %d after sweep, want 0", got)
	}
}

func TestConcurrentChecksDoNotUndercount(t *testing.T) {
	l, _ := testLimiter(t, []Policy{{Name: "api", Window: time.Hour, Max: 50}})

	var wg sync.WaitGroup
	admitted := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.Check("api", "shared")
			if err != nil {
				t.Error(err)
				return
			}
			admitted <- res.Admitted
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for ok := range admitted {
		if ok {
			count++
		}
	}
	if count != 50 {
		t.Fatalf("admitted %d of 100, want exactly 50", count)
	}
}
