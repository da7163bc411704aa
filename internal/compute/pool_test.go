package compute

import (
	"sync/atomic"
	"testing"
)

func TestForEachVisitsEveryIndexExactlyOnce(t *testing.T) {
	const n = 500
	var hits [n]int32
	p := NewSized(8)
	p.ForEach(n, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, h)
		}
	}
}

func TestForEachSmallNRunsSerially(t *testing.T) {
	p := NewSized(4)
	sum := 0
	p.ForEach(3, func(i int) { sum += i })
	if sum != 0+1+2 {
		t.Errorf("sum = %d, want 3", sum)
	}
}

func TestForEachZeroIsNoop(t *testing.T) {
	p := New()
	called := false
	p.ForEach(0, func(i int) { called = true })
	if called {
		t.Error("ForEach(0, ...) should not invoke fn")
	}
}
