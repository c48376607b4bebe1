package types

import "testing"

func setNums(s *Set) []float64 {
	var out []float64
	for _, v := range s.Values() {
		out = append(out, v.AsNum())
	}
	return out
}

func TestSetOrder(t *testing.T) {
	s := NewSetOf(NewNum(3), NewNum(1), NewNum(2))
	got := setNums(s)
	want := []float64{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSetDuplicates(t *testing.T) {
	s := NewSetOf(NewNum(1), NewNum(2), NewNum(2), NewNum(3))
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	got := setNums(s)
	if got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("order disturbed by duplicate: %v", got)
	}
}

func TestSetLastSurvivor(t *testing.T) {
	t.Run("re-adding refreshes last", func(t *testing.T) {
		s := NewSetOf(NewNum(1), NewNum(2), NewNum(1))
		last, ok := s.Last()
		if !ok || last.AsNum() != 1 {
			t.Errorf("Last() = %v, %v; want 1", last, ok)
		}
	})

	t.Run("deleting last falls back to newest remaining", func(t *testing.T) {
		s := NewSetOf(NewNum(1), NewNum(2), NewNum(3))
		s.Delete(NewNum(3))
		last, ok := s.Last()
		if !ok || last.AsNum() != 2 {
			t.Errorf("Last() = %v, %v; want 2", last, ok)
		}
	})

	t.Run("empty set has no last", func(t *testing.T) {
		s := NewSet()
		if _, ok := s.Last(); ok {
			t.Error("Last() on empty set succeeded")
		}
	})
}

func TestSetFirst(t *testing.T) {
	s := NewSetOf(NewNum(5), NewNum(6))
	first, ok := s.First()
	if !ok || first.AsNum() != 5 {
		t.Errorf("First() = %v, %v; want 5", first, ok)
	}
	if _, ok := NewSet().First(); ok {
		t.Error("First() on empty set succeeded")
	}
}

func TestSetMembership(t *testing.T) {
	s := NewSetOf(NewNum(1), NewStr("1"))
	if !s.Has(NewNum(1)) {
		t.Error("Has(1) = false")
	}
	if !s.Has(NewStr("1")) {
		t.Error(`Has("1") = false`)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2: num and str keys must not collide", s.Len())
	}
	if s.Has(NewNum(9)) {
		t.Error("Has(9) = true")
	}
}

func TestSetDelete(t *testing.T) {
	s := NewSetOf(NewNum(1), NewNum(2), NewNum(3))
	if !s.Delete(NewNum(2)) {
		t.Fatal("Delete(2) = false")
	}
	if s.Delete(NewNum(2)) {
		t.Error("second Delete(2) = true")
	}
	got := setNums(s)
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("remaining elements %v, want [1 3]", got)
	}
}
