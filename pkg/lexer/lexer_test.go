package lexer

import (
	"math"
	"testing"

	"github.com/luz-lang/luz/pkg/token"
	"github.com/luz-lang/luz/pkg/types"
)

func tokenize(t *testing.T, input string) []token.Token {
	t.Helper()
	toks, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", input, err)
	}
	return toks
}

func TestTokenizeTypes(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Type
	}{
		{"1 + 2", []token.Type{token.Num, token.Plus, token.Num, token.EOF}},
		{"x += 4", []token.Type{token.Ident, token.PlusAssign, token.Num, token.EOF}},
		{"1_000.5e-3", []token.Type{token.Num, token.EOF}},
		{".5", []token.Type{token.Num, token.EOF}},
		{"v.0", []token.Type{token.Ident, token.Dot, token.Num, token.EOF}},
		{"12xl", []token.Type{token.XL, token.EOF}},
		{"a <=> b", []token.Type{token.Ident, token.Swap, token.Ident, token.EOF}},
		{"0..3", []token.Type{token.Num, token.Range, token.Num, token.EOF}},
		{"0..=3", []token.Type{token.Num, token.RangeEq, token.Num, token.EOF}},
		{"![1 2]", []token.Type{token.VecOpen, token.Num, token.Num, token.RBracket, token.EOF}},
		{"@{1}", []token.Type{token.SetOpen, token.Num, token.RBrace, token.EOF}},
		{"x++", []token.Type{token.PostUpdate, token.EOF}},
		{"++x", []token.Type{token.PreUpdate, token.EOF}},
		{"x+++y", []token.Type{token.Ident, token.Incr, token.Plus, token.Ident, token.EOF}},
		{"lenof x", []token.Type{token.Lenof, token.Ident, token.EOF}},
		{"true false null inf", []token.Type{token.Bool, token.Bool, token.Null, token.Num, token.EOF}},
		{"// comment\n1", []token.Type{token.Num, token.EOF}},
		{"# comment\n1", []token.Type{token.Num, token.EOF}},
		{"/* multi\nline */ 1", []token.Type{token.Num, token.EOF}},
		{">>> >> <<", []token.Type{token.Ushr, token.Shr, token.Shl, token.EOF}},
		{"**= ~/= ~/ **", []token.Type{token.PowAssign, token.FloorAssign, token.FloorDiv, token.Pow, token.EOF}},
		{"?? || &&", []token.Type{token.Nullish, token.Or, token.And, token.EOF}},
		{"ñandú = 1", []token.Type{token.Ident, token.Assign, token.Num, token.EOF}},
		{"loop i in 1..3 { }", []token.Type{token.Loop, token.Ident, token.In, token.Num, token.Range, token.Num, token.LBrace, token.RBrace, token.EOF}},
		{"x as num", []token.Type{token.Ident, token.As, token.Ident, token.EOF}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := tokenize(t, tt.input)
			if len(toks) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tt.want), toks)
			}
			for i, w := range tt.want {
				if toks[i].Type != w {
					t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
				}
			}
		})
	}
}

func TestTokenizeValues(t *testing.T) {
	t.Run("number with separators", func(t *testing.T) {
		toks := tokenize(t, "1_000.5")
		if toks[0].NumVal != 1000.5 {
			t.Errorf("got %v, want 1000.5", toks[0].NumVal)
		}
	})

	t.Run("inf literal", func(t *testing.T) {
		toks := tokenize(t, "inf")
		if !math.IsInf(toks[0].NumVal, 1) {
			t.Errorf("got %v, want +inf", toks[0].NumVal)
		}
	})

	t.Run("big integer", func(t *testing.T) {
		toks := tokenize(t, "12_0xl")
		if toks[0].XLVal.Int64() != 120 {
			t.Errorf("got %v, want 120", toks[0].XLVal)
		}
	})

	t.Run("string escapes", func(t *testing.T) {
		toks := tokenize(t, `"a\nb\tc"`)
		if toks[0].StrVal != "a\nb\tc" {
			t.Errorf("got %q", toks[0].StrVal)
		}
	})

	t.Run("backquoted string", func(t *testing.T) {
		toks := tokenize(t, "`multi\nline`")
		if toks[0].StrVal != "multi\nline" {
			t.Errorf("got %q", toks[0].StrVal)
		}
	})

	t.Run("fused postfix carries name", func(t *testing.T) {
		toks := tokenize(t, "count--")
		if toks[0].Type != token.PostUpdate || toks[0].Ident != "count" || toks[0].Value != "--" {
			t.Errorf("got %+v", toks[0])
		}
	})

	t.Run("fused prefix carries name", func(t *testing.T) {
		toks := tokenize(t, "++total")
		if toks[0].Type != token.PreUpdate || toks[0].Ident != "total" || toks[0].Value != "++" {
			t.Errorf("got %+v", toks[0])
		}
	})

	t.Run("line numbers", func(t *testing.T) {
		toks := tokenize(t, "1\n2\n3")
		if toks[2].Line != 3 {
			t.Errorf("got line %d, want 3", toks[2].Line)
		}
	})
}

func TestTokenizeErrors(t *testing.T) {
	tests := []string{
		";",
		"1;;2",
		"1; ;2",
		`"unterminated`,
		"/* unterminated",
		"@ 1",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Tokenize(input)
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded, want error", input)
			}
			le, ok := err.(*types.LuzError)
			if !ok || le.Kind != types.KindSyntaxError {
				t.Errorf("got %v, want SyntaxError", err)
			}
		})
	}
}
