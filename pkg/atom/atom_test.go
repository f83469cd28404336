package atom

import (
	"fmt"
	"testing"
)

func TestGetSet(t *testing.T) {
	a := New(1)
	if a.Get() != 1 {
		t.Errorf("expected initial value 1, got %d", a.Get())
	}
	a.Set(2)
	if a.Get() != 2 {
		t.Errorf("expected 2 after set, got %d", a.Get())
	}
}

func TestNotifyOrderAndValueVisibility(t *testing.T) {
	a := New(0)

	var order []string
	record := func(name string) Callback[int] {
		return func(next, prev int) Cleanup {
			order = append(order, fmt.Sprintf("%s(%d,%d)", name, next, prev))
			if a.Get() != next {
				t.Errorf("%s: value should already read %d during callback, got %d", name, next, a.Get())
			}
			return nil
		}
	}
	a.Sub(record("s1"))
	a.Sub(record("s2"))
	a.Sub(record("s3"))

	a.Set(7)

	want := []string{"s1(7,0)", "s2(7,0)", "s3(7,0)"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestSetAlwaysNotifies(t *testing.T) {
	a := New(5)

	calls := 0
	a.Sub(func(int, int) Cleanup {
		calls++
		return nil
	})

	a.Set(5)
	a.Set(5)
	if calls != 2 {
		t.Errorf("setting an equal value must still notify, got %d notifications", calls)
	}
}

func TestSkipGating(t *testing.T) {
	a := New(1)

	var calls []int
	cleanups := 0
	unsubbed := a.SubWith(SubOptions[int]{
		Skip: func(next, _ int) bool { return next%2 == 0 },
	}, func(next, _ int) Cleanup {
		calls = append(calls, next)
		return func() { cleanups++ }
	})
	defer unsubbed()

	a.Set(3) // odd: delivered, stores cleanup
	a.Set(4) // even: skipped, stored cleanup must NOT run
	if len(calls) != 1 || calls[0] != 3 {
		t.Errorf("expected only odd values delivered, got %v", calls)
	}
	if cleanups != 0 {
		t.Errorf("skip must not run the pending cleanup, ran %d", cleanups)
	}

	a.Set(5) // odd again: now the pending cleanup from 3 runs first
	if cleanups != 1 {
		t.Errorf("expected pending cleanup to run before next delivery, ran %d", cleanups)
	}
}

func TestReentrantSet(t *testing.T) {
	a := New(0)

	var order []string
	a.Sub(func(next, prev int) Cleanup {
		order = append(order, fmt.Sprintf("s1(%d,%d)", next, prev))
		if next == 1 {
			a.Set(2)
		}
		return nil
	})
	a.Sub(func(next, prev int) Cleanup {
		order = append(order, fmt.Sprintf("s2(%d,%d)", next, prev))
		return nil
	})

	a.Set(1)

	// The nested write's full pass completes before the outer pass resumes,
	// and the outer pass continues with the outer old/new pair.
	want := []string{"s1(1,0)", "s1(2,1)", "s2(2,1)", "s2(1,0)"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], order[i])
		}
	}
	if a.Get() != 2 {
		t.Errorf("nested write committed last, expected final value 2, got %d", a.Get())
	}
}

func TestCleanupBeforeNextNotification(t *testing.T) {
	a := New(0)

	var order []string
	a.Sub(func(next, _ int) Cleanup {
		order = append(order, fmt.Sprintf("call(%d)", next))
		return func() { order = append(order, fmt.Sprintf("cleanup(%d)", next)) }
	})

	a.Set(1)
	a.Set(2)

	want := []string{"call(1)", "cleanup(1)", "call(2)"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestUnsubRunsCleanupAndIsIdempotent(t *testing.T) {
	a := New(0)

	cleanups := 0
	unsub := a.Sub(func(int, int) Cleanup {
		return func() { cleanups++ }
	})

	a.Set(1)
	unsub()
	if cleanups != 1 {
		t.Errorf("unsubscribe should run the pending cleanup, ran %d", cleanups)
	}
	unsub()
	if cleanups != 1 {
		t.Errorf("second unsubscribe must be a no-op, cleanups %d", cleanups)
	}

	a.Set(2)
	if got := a.Len(); got != 0 {
		t.Errorf("expected no subscriptions left, got %d", got)
	}
}

func TestSubNow(t *testing.T) {
	a := New(9)

	var calls []string
	a.SubWith(SubOptions[int]{Now: true}, func(next, prev int) Cleanup {
		calls = append(calls, fmt.Sprintf("(%d,%d)", next, prev))
		return nil
	})

	if len(calls) != 1 || calls[0] != "(9,0)" {
		t.Errorf("Now should deliver the current value with zero prev, got %v", calls)
	}

	a.Set(10)
	if len(calls) != 2 || calls[1] != "(10,9)" {
		t.Errorf("subsequent set should notify normally, got %v", calls)
	}
}

func TestSubNowSkipInitial(t *testing.T) {
	a := New(4)

	calls := 0
	a.SubWith(SubOptions[int]{
		Now:  true,
		Skip: func(next, _ int) bool { return next%2 == 0 },
	}, func(int, int) Cleanup {
		calls++
		return nil
	})

	if calls != 0 {
		t.Errorf("skip should gate the immediate call too, got %d calls", calls)
	}

	a.Set(5)
	if calls != 1 {
		t.Errorf("odd value should be delivered, got %d calls", calls)
	}
}

func TestNowCleanupRunsOnNextNotification(t *testing.T) {
	a := New(1)

	var order []string
	a.SubWith(SubOptions[int]{Now: true}, func(next, _ int) Cleanup {
		order = append(order, fmt.Sprintf("call(%d)", next))
		return func() { order = append(order, fmt.Sprintf("cleanup(%d)", next)) }
	})

	a.Set(2)

	want := []string{"call(1)", "cleanup(1)", "call(2)"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestPanicSkipsRemainingSubscribersAndCommitsValue(t *testing.T) {
	a := New(0)

	s2Calls := 0
	a.Sub(func(int, int) Cleanup {
		panic("subscriber failure")
	})
	a.Sub(func(int, int) Cleanup {
		s2Calls++
		return nil
	})

	func() {
		defer func() {
			if r := recover(); r != "subscriber failure" {
				t.Errorf("expected the subscriber panic to propagate, got %v", r)
			}
		}()
		a.Set(3)
	}()

	if s2Calls != 0 {
		t.Errorf("subscribers after the panicking one must be skipped, got %d calls", s2Calls)
	}
	if a.Get() != 3 {
		t.Errorf("value stays committed despite the panic, got %d", a.Get())
	}
}

func TestSubscriberAddedDuringPassNotVisited(t *testing.T) {
	a := New(0)

	lateCalls := 0
	a.Sub(func(next, _ int) Cleanup {
		if next == 1 {
			a.Sub(func(int, int) Cleanup {
				lateCalls++
				return nil
			})
		}
		return nil
	})

	a.Set(1)
	if lateCalls != 0 {
		t.Errorf("subscriber added mid-pass must not see the in-progress pass, got %d calls", lateCalls)
	}

	a.Set(2)
	if lateCalls != 1 {
		t.Errorf("subscriber added mid-pass should see later passes, got %d calls", lateCalls)
	}
}

func TestSubscriberRemovedDuringPassSkipped(t *testing.T) {
	a := New(0)

	var unsub2 func()
	s2Calls := 0
	a.Sub(func(int, int) Cleanup {
		unsub2()
		return nil
	})
	unsub2 = a.Sub(func(int, int) Cleanup {
		s2Calls++
		return nil
	})

	a.Set(1)
	if s2Calls != 0 {
		t.Errorf("subscriber removed mid-pass must be skipped, got %d calls", s2Calls)
	}
}

func TestZeroValueAtom(t *testing.T) {
	a := New("")
	if a.Get() != "" {
		t.Errorf("expected zero value before first write, got %q", a.Get())
	}
	a.Set("x")
	if a.Get() != "x" {
		t.Errorf("expected x, got %q", a.Get())
	}
}
