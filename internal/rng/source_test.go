package rng

import "testing"

func TestBetweenInclusive(t *testing.T) {
	src := New(42)
	seenLo, seenHi := false, false
	for i := 0; i < 2000; i++ {
		v := Between(src, 3, 6)
		if v < 3 || v > 6 {
			t.Fatalf("expected value in [3,6], got %d", v)
		}
		if v == 3 {
			seenLo = true
		}
		if v == 6 {
			seenHi = true
		}
	}
	if !seenLo || !seenHi {
		t.Errorf("expected both bounds to be drawn, lo=%v hi=%v", seenLo, seenHi)
	}
}

func TestBetweenDegenerateRange(t *testing.T) {
	if v := Between(Midpoint{}, 7, 7); v != 7 {
		t.Errorf("expected 7, got %d", v)
	}
	if v := Between(Midpoint{}, 9, 2); v != 9 {
		t.Errorf("expected reversed range to return lo 9, got %d", v)
	}
}

func TestSeededSourcesRepeat(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 50; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
	}
}

func TestFactoryDeterministic(t *testing.T) {
	f1, f2 := NewFactory(99), NewFactory(99)
	for i := 0; i < 5; i++ {
		s1, s2 := f1.Next(), f2.Next()
		if s1.IntN(1<<30) != s2.IntN(1<<30) {
			t.Fatalf("source %d diverged between factories", i)
		}
	}
}

func TestMidpoint(t *testing.T) {
	m := Midpoint{}
	if m.IntN(11) != 5 {
		t.Errorf("expected 5, got %d", m.IntN(11))
	}
	if v := Between(m, 8, 12); v != 10 {
		t.Errorf("expected 10, got %d", v)
	}
	if m.Float64() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Float64())
	}
}

func TestSequence(t *testing.T) {
	s := &Sequence{Ints: []int{4, 12}, Floats: []float64{0.1}}
	if v := s.IntN(10); v != 4 {
		t.Errorf("expected 4, got %d", v)
	}
	if v := s.IntN(10); v != 2 {
		t.Errorf("expected 12 mod 10 = 2, got %d", v)
	}
	if v := s.IntN(10); v != 5 {
		t.Errorf("expected midpoint fallback 5, got %d", v)
	}
	if v := s.Float64(); v != 0.1 {
		t.Errorf("expected 0.1, got %f", v)
	}
	if v := s.Float64(); v != 0.5 {
		t.Errorf("expected fallback 0.5, got %f", v)
	}
}

func TestChance(t *testing.T) {
	// Between(1,100) with a scripted IntN of 9 yields 10.
	if !Chance(&Sequence{Ints: []int{9}}, 10) {
		t.Error("expected roll of 10 to pass a 10% chance")
	}
	if Chance(&Sequence{Ints: []int{10}}, 10) {
		t.Error("expected roll of 11 to fail a 10% chance")
	}
}
