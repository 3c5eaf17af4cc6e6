package cost

import (
	"sync"
	"testing"
)

func TestMVTableMonotonic(t *testing.T) {
	for _, lambda := range []int{1, 4, 25, 91} {
		tab := NewMVTable(lambda, 1024)
		prev := -1
		for v := 0; v <= 1024; v++ {
			c := tab.Cost(v)
			if c < prev {
				t.Fatalf("lambda %d: cost(%d) = %d < cost(%d) = %d", lambda, v, c, v-1, prev)
			}
			if n := tab.Cost(-v); n != c {
				t.Fatalf("lambda %d: cost(-%d) = %d, want %d", lambda, v, n, c)
			}
			prev = c
		}
	}
}

func TestMVTableValues(t *testing.T) {
	tab := NewMVTable(4, 64)
	tests := []struct {
		d, want int
	}{
		{0, 3},  // 4*0.718
		{1, 15}, // 4*(2+1.718)
		{3, 23}, // 4*(4+1.718)
	}
	for _, tt := range tests {
		if got := tab.Cost(tt.d); got != tt.want {
			t.Errorf("Cost(%d) = %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestMVTableSaturates(t *testing.T) {
	tab := NewMVTable(10, 16)
	if got, want := tab.Cost(1000), tab.Cost(16); got != want {
		t.Errorf("Cost beyond range = %d, want %d", got, want)
	}
	big := NewMVTable(1<<20, 16)
	if got := big.Cost(5); got != 65535 {
		t.Errorf("Cost with huge lambda = %d, want 65535", got)
	}
}

func TestAround(t *testing.T) {
	tab := NewMVTable(7, 256)
	for _, pred := range []int{-37, -4, 0, 5, 64} {
		row := tab.Around(pred)
		for v := -100; v <= 100; v++ {
			if got, want := row.At(v), tab.Cost(v-pred); got != want {
				t.Fatalf("pred %d: At(%d) = %d, want %d", pred, v, got, want)
			}
		}
	}
}

func TestAroundFpel(t *testing.T) {
	tab := NewMVTable(7, 512)
	for _, pred := range []int{-37, -6, -1, 0, 3, 9, 64} {
		row := tab.AroundFpel(pred)
		for x := -40; x <= 40; x++ {
			if got, want := row.At(x), tab.Cost(4*x-pred); got != want {
				t.Fatalf("pred %d: At(%d) = %d, want %d", pred, x, got, want)
			}
		}
	}
}

func TestLambda(t *testing.T) {
	if Lambda(0) != 1 || Lambda(26) != 5 || Lambda(51) != 91 || Lambda(99) != 91 || Lambda(-3) != 1 {
		t.Errorf("Lambda table mismatch: %d %d %d", Lambda(0), Lambda(26), Lambda(51))
	}
	prev := 0
	for qp := 0; qp <= MaxQP; qp++ {
		l2 := Lambda2(qp)
		if l2 < prev {
			t.Fatalf("Lambda2(%d) = %d < Lambda2(%d) = %d", qp, l2, qp-1, prev)
		}
		prev = l2
	}
	// 0.85 * 2^((26-12)/3) ~= 21.6
	if got := Lambda2(26) >> Lambda2Bits; got != 21 {
		t.Errorf("Lambda2(26) = %d, want 21", got)
	}
}

func TestRD(t *testing.T) {
	if got := RD(100, 10, 3<<Lambda2Bits); got != 130 {
		t.Errorf("RD = %d, want 130", got)
	}
}

func TestCache(t *testing.T) {
	c := NewCache(0)
	var wg sync.WaitGroup
	tabs := make([]*MVTable, 8)
	for i := range tabs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tabs[i] = c.Table(30)
		}(i)
	}
	wg.Wait()
	for i := range tabs {
		if tabs[i] != tabs[0] {
			t.Fatalf("Table(30) built more than once")
		}
	}
	if tabs[0].Lambda() != Lambda(30) || tabs[0].Range() != DefaultRange {
		t.Errorf("table lambda %d range %d", tabs[0].Lambda(), tabs[0].Range())
	}
}

func TestGolombSizes(t *testing.T) {
	tests := []struct {
		v    uint32
		want int
	}{{0, 1}, {1, 3}, {2, 3}, {3, 5}, {6, 5}, {7, 7}, {254, 15}, {255, 17}}
	for _, tt := range tests {
		if got := UE(tt.v); got != tt.want {
			t.Errorf("UE(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
	if SE(0) != 1 || SE(1) != 3 || SE(-1) != 3 || SE(2) != 5 {
		t.Errorf("SE sizes: %d %d %d %d", SE(0), SE(1), SE(-1), SE(2))
	}
	if TE(0, 0) != 0 || TE(1, 0) != 1 || TE(1, 1) != 1 || TE(2, 2) != 3 {
		t.Errorf("TE sizes mismatch")
	}
	if RefCost(26, 1, 0) != 0 || RefCost(26, 2, 1) != Lambda(26) {
		t.Errorf("RefCost mismatch")
	}
}
