package types

import (
	"math"
	"math/big"
	"testing"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null, false},
		{"false", NewBool(false), false},
		{"true", NewBool(true), true},
		{"zero", NewNum(0), false},
		{"nonzero", NewNum(-2.5), true},
		{"inf", NewNum(math.Inf(1)), true},
		{"zero xl", NewXLFromInt64(0), false},
		{"nonzero xl", NewXLFromInt64(7), true},
		{"empty str", NewStr(""), false},
		{"str", NewStr("a"), true},
		{"empty arr", NewArr(nil), false},
		{"arr", NewArr([]Value{NewNum(1)}), true},
		{"empty vec", NewVec(nil), false},
		{"empty set", NewSetValue(NewSet()), false},
		{"set", NewSetValue(NewSetOf(NewNum(1))), true},
		{"empty ran", NewRan(2, 2), true},
		{"xran", NewXRan(0, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Truthy(); got != tt.want {
				t.Errorf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypeTag(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"num", NewNum(1), "num"},
		{"inf", NewNum(math.Inf(1)), "inf"},
		{"neg inf", NewNum(math.Inf(-1)), "inf"},
		{"xl", NewXLFromInt64(1), "xl"},
		{"null", Null, "null"},
		{"ran", NewRan(0, 3), "ran"},
		{"xran", NewXRan(0, 3), "xran"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.TypeTag(); got != tt.want {
				t.Errorf("TypeTag() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNaNNormalisesToNull(t *testing.T) {
	if v := NewNum(math.NaN()); !v.IsNull() {
		t.Errorf("NewNum(NaN) = %v, want null", v)
	}
}

func TestEqual(t *testing.T) {
	t.Run("num and xl compare by magnitude", func(t *testing.T) {
		if !NewNum(5).Equal(NewXLFromInt64(5)) {
			t.Error("5 != 5xl")
		}
		if NewNum(5.5).Equal(NewXLFromInt64(5)) {
			t.Error("5.5 == 5xl")
		}
	})

	t.Run("aggregates compare structurally", func(t *testing.T) {
		a := NewArr([]Value{NewNum(1), NewStr("x")})
		b := NewArr([]Value{NewNum(1), NewStr("x")})
		if !a.Equal(b) {
			t.Error("equal arrays reported unequal")
		}
	})

	t.Run("arr and vec are distinct", func(t *testing.T) {
		a := NewArr([]Value{NewNum(1)})
		v := NewVec([]Value{NewNum(1)})
		if a.Equal(v) {
			t.Error("[1] == ![1]")
		}
	})

	t.Run("ranges compare by endpoints", func(t *testing.T) {
		if !NewRan(0, 3).Equal(NewRan(0, 3)) {
			t.Error("0..3 != 0..3")
		}
		if NewRan(0, 3).Equal(NewXRan(0, 3)) {
			t.Error("0..3 == 0..=3")
		}
	})
}

func TestSame(t *testing.T) {
	t.Run("same aggregate reference", func(t *testing.T) {
		a := NewVec([]Value{NewNum(1)})
		if !a.Same(a) {
			t.Error("a not same as itself")
		}
	})

	t.Run("equal but distinct aggregates", func(t *testing.T) {
		a := NewVec([]Value{NewNum(1)})
		b := NewVec([]Value{NewNum(1)})
		if a.Same(b) {
			t.Error("distinct vectors reported same")
		}
	})

	t.Run("identical scalars", func(t *testing.T) {
		if !NewNum(3).Same(NewNum(3)) {
			t.Error("3 not same as 3")
		}
	})
}

func TestClone(t *testing.T) {
	t.Run("deep copy is independent", func(t *testing.T) {
		inner := NewVec([]Value{NewNum(1)})
		outer := NewArr([]Value{inner})
		clone := outer.Clone()
		inner.AsVec().Elems[0] = NewNum(99)
		got := clone.AsArr().Elems[0].AsVec().Elems[0]
		if got.AsNum() != 1 {
			t.Errorf("clone saw mutation: got %v", got)
		}
	})

	t.Run("internal sharing is preserved", func(t *testing.T) {
		shared := NewVec([]Value{NewNum(1)})
		outer := NewArr([]Value{shared, shared})
		clone := outer.Clone()
		e0 := clone.AsArr().Elems[0]
		e1 := clone.AsArr().Elems[1]
		if !e0.Same(e1) {
			t.Error("shared element cloned into two cells")
		}
	})

	t.Run("cycles survive", func(t *testing.T) {
		v := NewVec([]Value{NewNum(1)})
		v.AsVec().Elems = append(v.AsVec().Elems, v)
		clone := v.Clone()
		if !clone.AsVec().Elems[1].Same(clone) {
			t.Error("cycle not preserved in clone")
		}
	})

	t.Run("xl is copied", func(t *testing.T) {
		orig := NewXLFromInt64(5)
		clone := orig.Clone()
		orig.AsXL().Add(orig.AsXL(), big.NewInt(1))
		if clone.AsXL().Int64() != 5 {
			t.Errorf("clone saw mutation: got %v", clone.AsXL())
		}
	})
}

func TestRangeValues(t *testing.T) {
	nums := func(v Value) []float64 {
		var out []float64
		for _, e := range v.RangeValues() {
			out = append(out, e.AsNum())
		}
		return out
	}

	tests := []struct {
		name string
		v    Value
		want []float64
	}{
		{"ascending ran", NewRan(0, 3), []float64{0, 1, 2}},
		{"ascending xran", NewXRan(0, 3), []float64{0, 1, 2, 3}},
		{"descending ran", NewRan(3, 0), []float64{3, 2, 1}},
		{"descending xran", NewXRan(3, 0), []float64{3, 2, 1, 0}},
		{"empty ran", NewRan(2, 2), nil},
		{"single xran", NewXRan(2, 2), []float64{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nums(tt.v)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("element %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLen(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want int
	}{
		{"str runes", NewStr("ñandú"), 5},
		{"arr", NewArr([]Value{NewNum(1), NewNum(2)}), 2},
		{"vec", NewVec(nil), 0},
		{"set", NewSetValue(NewSetOf(NewNum(1), NewNum(1), NewNum(2))), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Len()
			if !ok || got != tt.want {
				t.Errorf("Len() = %d, %v; want %d, true", got, ok, tt.want)
			}
		})
	}

	t.Run("num has no length", func(t *testing.T) {
		if _, ok := NewNum(1).Len(); ok {
			t.Error("Len() on num succeeded")
		}
	})
}

func TestByteSize(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want int
	}{
		{"null", Null, 4},
		{"bool", NewBool(true), 1},
		{"num", NewNum(3.5), 8},
		{"str", NewStr("ab"), 4},
		{"xl digits", NewXLFromInt64(-120), 6},
		{"ran", NewRan(0, 3), 16},
		{"nested", NewArr([]Value{NewNum(1), NewStr("ab")}), 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.ByteSize(); got != tt.want {
				t.Errorf("ByteSize() = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("shared aggregate counted once", func(t *testing.T) {
		shared := NewVec([]Value{NewNum(1)})
		outer := NewArr([]Value{shared, shared})
		if got := outer.ByteSize(); got != 8 {
			t.Errorf("ByteSize() = %d, want 8", got)
		}
	})
}

func TestRangeStep(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want float64
	}{
		{"ascending", Range{Start: 0, End: 3}, 1},
		{"descending", Range{Start: 3, End: 0}, -1},
		{"degenerate", Range{Start: 2, End: 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Step(); got != tt.want {
				t.Errorf("Step() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTypeTag(t *testing.T) {
	for _, tag := range []string{"num", "xl", "maybe", "inf", "xran"} {
		if !IsTypeTag(tag) {
			t.Errorf("IsTypeTag(%q) = false", tag)
		}
	}
	for _, tag := range []string{"int", "float", ""} {
		if IsTypeTag(tag) {
			t.Errorf("IsTypeTag(%q) = true", tag)
		}
	}
}
