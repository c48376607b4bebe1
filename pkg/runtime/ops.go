package runtime

import (
	"math"
	"math/big"
	"math/rand"
	"strconv"
	"strings"

	"github.com/luz-lang/luz/pkg/token"
	"github.com/luz-lang/luz/pkg/types"
)

// Apply evaluates a non-short-circuit binary operator over two values.
func Apply(op token.Type, l, r types.Value) (types.Value, error) {
	switch op {
	case token.Plus:
		return add(l, r)
	case token.Minus:
		return sub(l, r)
	case token.Star, token.Slash, token.FloorDiv, token.Percent, token.Pow:
		return numBin(op, l, r)
	case token.Eq:
		return types.NewBool(l.Equal(r)), nil
	case token.Neq:
		return types.NewBool(!l.Equal(r)), nil
	case token.Lt, token.Lte, token.Gt, token.Gte:
		return compare(op, l, r)
	case token.Has:
		return has(l, r)
	case token.Amp, token.Pipe, token.Caret, token.Shl, token.Shr, token.Ushr:
		return bitwise(op, l, r)
	}
	return types.Null, types.NewInternalError("no binary handler for %s", op)
}

// CompoundBase maps a compound-assignment operator to its binary operator.
func CompoundBase(op token.Type) token.Type {
	switch op {
	case token.PlusAssign:
		return token.Plus
	case token.MinusAssign:
		return token.Minus
	case token.StarAssign:
		return token.Star
	case token.SlashAssign:
		return token.Slash
	case token.FloorAssign:
		return token.FloorDiv
	case token.PctAssign:
		return token.Percent
	case token.CaretAssign:
		return token.Caret
	case token.PowAssign:
		return token.Pow
	}
	return op
}

func add(l, r types.Value) (types.Value, error) {
	switch {
	case l.Kind() == types.KindVec:
		elems := append(append([]types.Value{}, l.AsVec().Elems...), r)
		return types.NewVec(elems), nil
	case r.Kind() == types.KindVec:
		elems := append([]types.Value{l}, r.AsVec().Elems...)
		return types.NewVec(elems), nil
	case l.Kind() == types.KindSet:
		out := types.NewSetOf(l.AsSet().Values()...)
		out.Add(r)
		return types.NewSetValue(out), nil
	case r.Kind() == types.KindSet:
		out := types.NewSetOf(append([]types.Value{l}, r.AsSet().Values()...)...)
		return types.NewSetValue(out), nil
	case l.Kind() == types.KindArr || r.Kind() == types.KindArr:
		return types.Null, types.NewInvalidInstruction("cannot grow a fixed-size arr; use a vec instead")
	case l.IsRange():
		return shiftRange(l, r, false, 1)
	case r.IsRange():
		return shiftRange(r, l, true, 1)
	case l.Kind() == types.KindStr && r.Kind() == types.KindStr:
		return types.NewStr(l.AsStr() + r.AsStr()), nil
	}
	return numBin(token.Plus, l, r)
}

func sub(l, r types.Value) (types.Value, error) {
	switch {
	case l.Kind() == types.KindVec:
		src := l.AsVec().Elems
		elems := append([]types.Value{}, src...)
		for i := len(elems) - 1; i >= 0; i-- {
			if elems[i].Equal(r) {
				elems = append(elems[:i], elems[i+1:]...)
				break
			}
		}
		return types.NewVec(elems), nil
	case l.Kind() == types.KindSet:
		out := types.NewSetOf(l.AsSet().Values()...)
		out.Delete(r)
		return types.NewSetValue(out), nil
	case l.Kind() == types.KindArr || r.Kind() == types.KindArr:
		return types.Null, types.NewInvalidInstruction("cannot shrink a fixed-size arr; use a vec instead")
	case l.IsRange():
		return shiftRange(l, r, false, -1)
	case r.IsRange():
		return shiftRange(r, l, true, -1)
	}
	return numBin(token.Minus, l, r)
}

// shiftRange moves a range endpoint: the end when the range is the left
// operand, the start when it is the right.
func shiftRange(rng, n types.Value, shiftStart bool, sign float64) (types.Value, error) {
	f, ok := n.AsNumber()
	if !ok {
		return types.Null, types.NewInvalidInstruction("range arithmetic requires a numeric operand, got %s", n.TypeTag())
	}
	r := rng.AsRange()
	if shiftStart {
		r.Start += sign * f
	} else {
		r.End += sign * f
	}
	if rng.Kind() == types.KindRan {
		return types.NewRan(r.Start, r.End), nil
	}
	return types.NewXRan(r.Start, r.End), nil
}

// numBin evaluates an arithmetic operator over numeric operands, promoting
// between num and xl as needed. Division always works in floats.
func numBin(op token.Type, l, r types.Value) (types.Value, error) {
	lNum, lOK := l.AsNumber()
	rNum, rOK := r.AsNumber()
	if !lOK || !rOK {
		return types.Null, types.NewSemanticError("unsupported operands for %q: %s and %s", opName(op), l.TypeTag(), r.TypeTag())
	}

	if op != token.Slash && (l.Kind() == types.KindXL || r.Kind() == types.KindXL) {
		if a, b, ok := bigOperands(l, r); ok {
			return bigBin(op, a, b)
		}
	}

	switch op {
	case token.Plus:
		return types.NewNum(lNum + rNum), nil
	case token.Minus:
		return types.NewNum(lNum - rNum), nil
	case token.Star:
		return types.NewNum(lNum * rNum), nil
	case token.Slash:
		return types.NewNum(lNum / rNum), nil
	case token.FloorDiv:
		return types.NewNum(math.Floor(lNum / rNum)), nil
	case token.Percent:
		return types.NewNum(math.Mod(lNum, rNum)), nil
	case token.Pow:
		return types.NewNum(math.Pow(lNum, rNum)), nil
	}
	return types.Null, types.NewInternalError("no numeric handler for %s", op)
}

// bigOperands converts both operands to big integers when that is exact.
func bigOperands(l, r types.Value) (*big.Int, *big.Int, bool) {
	a, ok := toBig(l)
	if !ok {
		return nil, nil, false
	}
	b, ok := toBig(r)
	if !ok {
		return nil, nil, false
	}
	return a, b, true
}

func toBig(v types.Value) (*big.Int, bool) {
	switch v.Kind() {
	case types.KindXL:
		return v.AsXL(), true
	case types.KindNum:
		f := v.AsNum()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, false
		}
		bi, _ := new(big.Float).SetFloat64(f).Int(nil)
		return bi, true
	}
	return nil, false
}

func bigBin(op token.Type, a, b *big.Int) (types.Value, error) {
	out := new(big.Int)
	switch op {
	case token.Plus:
		out.Add(a, b)
	case token.Minus:
		out.Sub(a, b)
	case token.Star:
		out.Mul(a, b)
	case token.FloorDiv:
		if b.Sign() == 0 {
			return types.Null, types.NewRuntimeError("division of xl by zero")
		}
		floorDivBig(out, a, b)
	case token.Percent:
		if b.Sign() == 0 {
			return types.Null, types.NewRuntimeError("division of xl by zero")
		}
		out.Rem(a, b)
	case token.Pow:
		if b.Sign() < 0 || !b.IsInt64() {
			af, _ := new(big.Float).SetInt(a).Float64()
			bf, _ := new(big.Float).SetInt(b).Float64()
			return types.NewNum(math.Pow(af, bf)), nil
		}
		out.Exp(a, b, nil)
	default:
		return types.Null, types.NewInternalError("no xl handler for %s", op)
	}
	return types.NewXL(out), nil
}

// floorDivBig stores floor(a/b) in out.
func floorDivBig(out, a, b *big.Int) {
	m := new(big.Int)
	out.QuoRem(a, b, m)
	if m.Sign() != 0 && (m.Sign() < 0) != (b.Sign() < 0) {
		out.Sub(out, big.NewInt(1))
	}
}

func compare(op token.Type, l, r types.Value) (types.Value, error) {
	if l.Kind() == types.KindXL && r.Kind() == types.KindXL {
		c := l.AsXL().Cmp(r.AsXL())
		return types.NewBool(cmpHolds(op, float64(c), 0)), nil
	}
	lNum, lOK := l.AsNumber()
	rNum, rOK := r.AsNumber()
	if !lOK || !rOK {
		return types.Null, types.NewSemanticError("comparison %q requires numeric operands, got %s and %s", opName(op), l.TypeTag(), r.TypeTag())
	}
	return types.NewBool(cmpHolds(op, lNum, rNum)), nil
}

func cmpHolds(op token.Type, a, b float64) bool {
	switch op {
	case token.Lt:
		return a < b
	case token.Lte:
		return a <= b
	case token.Gt:
		return a > b
	case token.Gte:
		return a >= b
	}
	return false
}

func has(l, r types.Value) (types.Value, error) {
	switch l.Kind() {
	case types.KindRan, types.KindXRan:
		n, ok := r.AsNumber()
		if !ok {
			return types.NewBool(false), nil
		}
		rng := l.AsRange()
		step := rng.Step()
		if l.Kind() == types.KindRan {
			switch {
			case step > 0:
				return types.NewBool(n >= rng.Start && n < rng.End), nil
			case step < 0:
				return types.NewBool(n <= rng.Start && n > rng.End), nil
			default:
				return types.NewBool(false), nil
			}
		}
		lo, hi := math.Min(rng.Start, rng.End), math.Max(rng.Start, rng.End)
		return types.NewBool(n >= lo && n <= hi), nil
	case types.KindArr, types.KindVec:
		elems, _ := l.Elems()
		for _, e := range elems {
			if e.Equal(r) {
				return types.NewBool(true), nil
			}
		}
		return types.NewBool(false), nil
	case types.KindSet:
		return types.NewBool(l.AsSet().Has(r)), nil
	case types.KindStr:
		if r.Kind() != types.KindStr {
			return types.Null, types.NewSemanticError("'has' on a str requires a str operand, got %s", r.TypeTag())
		}
		return types.NewBool(strings.Contains(l.AsStr(), r.AsStr())), nil
	case types.KindNull:
		return types.NewBool(false), nil
	}
	return types.Null, types.NewSemanticError("'has' is not supported on %s", l.TypeTag())
}

func bitwise(op token.Type, l, r types.Value) (types.Value, error) {
	if l.Kind() == types.KindXL || r.Kind() == types.KindXL {
		a, b, ok := bigOperands(l, r)
		if !ok {
			return types.Null, types.NewSemanticError("bitwise %q requires integer operands", opName(op))
		}
		return bigBitwise(op, a, b)
	}

	a, aOK := toInt64(l)
	b, bOK := toInt64(r)
	if !aOK || !bOK {
		return types.Null, types.NewSemanticError("bitwise %q requires integer operands, got %s and %s", opName(op), l.TypeTag(), r.TypeTag())
	}
	switch op {
	case token.Amp:
		return types.NewNum(float64(a & b)), nil
	case token.Pipe:
		return types.NewNum(float64(a | b)), nil
	case token.Caret:
		return types.NewNum(float64(a ^ b)), nil
	case token.Shl:
		return types.NewNum(float64(a << uint(b))), nil
	case token.Shr:
		return types.NewNum(float64(a >> uint(b))), nil
	case token.Ushr:
		return types.NewNum(float64(uint64(a) >> uint(b))), nil
	}
	return types.Null, types.NewInternalError("no bitwise handler for %s", op)
}

func bigBitwise(op token.Type, a, b *big.Int) (types.Value, error) {
	out := new(big.Int)
	switch op {
	case token.Amp:
		out.And(a, b)
	case token.Pipe:
		out.Or(a, b)
	case token.Caret:
		out.Xor(a, b)
	case token.Shl:
		out.Lsh(a, uint(b.Uint64()))
	case token.Shr, token.Ushr:
		out.Rsh(a, uint(b.Uint64()))
	default:
		return types.Null, types.NewInternalError("no xl bitwise handler for %s", op)
	}
	return types.NewXL(out), nil
}

func toInt64(v types.Value) (int64, bool) {
	f, ok := v.AsNumber()
	if !ok || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// UnaryOp evaluates a unary operator.
func UnaryOp(op token.Type, v types.Value) (types.Value, error) {
	switch op {
	case token.Bang:
		return types.NewBool(!v.Truthy()), nil
	case token.Plus:
		if _, ok := v.AsNumber(); !ok {
			return types.Null, types.NewSemanticError("unary '+' requires a number, got %s", v.TypeTag())
		}
		return v, nil
	case token.Minus:
		switch v.Kind() {
		case types.KindNum:
			return types.NewNum(-v.AsNum()), nil
		case types.KindXL:
			return types.NewXL(new(big.Int).Neg(v.AsXL())), nil
		}
		return types.Null, types.NewSemanticError("unary '-' requires a number, got %s", v.TypeTag())
	case token.Tilde:
		if v.Kind() == types.KindXL {
			return types.NewXL(new(big.Int).Not(v.AsXL())), nil
		}
		n, ok := toInt64(v)
		if !ok {
			return types.Null, types.NewSemanticError("unary '~' requires an integer, got %s", v.TypeTag())
		}
		return types.NewNum(float64(^n)), nil
	}
	return types.Null, types.NewInternalError("no unary handler for %s", op)
}

// Cast converts a value to the named type tag. The rng source backs the
// maybe target.
func Cast(v types.Value, tag string, rng *rand.Rand) (types.Value, error) {
	if !types.IsTypeTag(tag) {
		return types.Null, types.NewSemanticError("invalid cast target %q", tag)
	}
	switch tag {
	case "maybe":
		return castMaybe(v, rng), nil

	case "num":
		switch v.Kind() {
		case types.KindNum:
			return v, nil
		case types.KindXL:
			f, _ := v.AsNumber()
			return types.NewNum(f), nil
		case types.KindBool:
			if v.AsBool() {
				return types.NewNum(1), nil
			}
			return types.NewNum(0), nil
		case types.KindStr:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.AsStr()), 64)
			if err != nil {
				return types.Null, nil
			}
			return types.NewNum(f), nil
		case types.KindNull:
			return types.NewNum(0), nil
		}
		return types.Null, types.NewSemanticError("cannot cast %s to num", v.TypeTag())

	case "xl":
		switch v.Kind() {
		case types.KindXL:
			return v, nil
		case types.KindNum:
			f := v.AsNum()
			if math.IsInf(f, 0) {
				return types.Null, types.NewSemanticError("cannot cast inf to xl")
			}
			bi, _ := new(big.Float).SetFloat64(math.Trunc(f)).Int(nil)
			return types.NewXL(bi), nil
		case types.KindBool:
			if v.AsBool() {
				return types.NewXLFromInt64(1), nil
			}
			return types.NewXLFromInt64(0), nil
		case types.KindStr:
			bi, ok := new(big.Int).SetString(strings.TrimSpace(v.AsStr()), 10)
			if !ok {
				return types.Null, nil
			}
			return types.NewXL(bi), nil
		case types.KindNull:
			return types.NewXLFromInt64(0), nil
		}
		return types.Null, types.NewSemanticError("cannot cast %s to xl", v.TypeTag())

	case "bool":
		return types.NewBool(v.Truthy()), nil

	case "str":
		if v.IsRange() {
			parts := make([]string, 0)
			for _, e := range v.RangeValues() {
				parts = append(parts, types.FormatPlain(e))
			}
			return types.NewStr(strings.Join(parts, " ")), nil
		}
		return types.NewStr(types.FormatPlain(v)), nil

	case "null":
		return types.Null, nil

	case "inf":
		if f, ok := v.AsNumber(); ok && f < 0 {
			return types.NewNum(math.Inf(-1)), nil
		}
		return types.NewNum(math.Inf(1)), nil

	case "arr", "vec", "set":
		elems, err := castElems(v)
		if err != nil {
			return types.Null, err
		}
		switch tag {
		case "arr":
			return types.NewArr(elems), nil
		case "vec":
			return types.NewVec(elems), nil
		default:
			return types.NewSetValue(types.NewSetOf(elems...)), nil
		}

	case "ran", "xran":
		if !v.IsRange() {
			return types.Null, types.NewSemanticError("cannot cast %s to %s", v.TypeTag(), tag)
		}
		r := v.AsRange()
		step := r.Step()
		switch {
		case tag == "xran" && v.Kind() == types.KindRan:
			return types.NewXRan(r.Start, r.End-step), nil
		case tag == "ran" && v.Kind() == types.KindXRan:
			return types.NewRan(r.Start, r.End+step), nil
		}
		return v, nil
	}
	return types.Null, types.NewSemanticError("invalid cast target %q", tag)
}

// castElems gathers the element sequence a value contributes to an
// aggregate cast.
func castElems(v types.Value) ([]types.Value, error) {
	switch v.Kind() {
	case types.KindRan, types.KindXRan:
		return v.RangeValues(), nil
	case types.KindArr, types.KindVec:
		elems, _ := v.Elems()
		return append([]types.Value{}, elems...), nil
	case types.KindSet:
		return append([]types.Value{}, v.AsSet().Values()...), nil
	case types.KindStr:
		runes := []rune(v.AsStr())
		out := make([]types.Value, len(runes))
		for i, r := range runes {
			out[i] = types.NewStr(string(r))
		}
		return out, nil
	default:
		return []types.Value{v}, nil
	}
}

// castMaybe draws a random element from a sequence-like value, or a random
// boolean from a scalar.
func castMaybe(v types.Value, rng *rand.Rand) types.Value {
	var pool []types.Value
	switch v.Kind() {
	case types.KindRan, types.KindXRan:
		pool = v.RangeValues()
	case types.KindArr, types.KindVec:
		pool, _ = v.Elems()
	case types.KindSet:
		pool = v.AsSet().Values()
	case types.KindStr:
		for _, r := range v.AsStr() {
			pool = append(pool, types.NewStr(string(r)))
		}
	default:
		return types.NewBool(rng.Intn(2) == 0)
	}
	if len(pool) == 0 {
		return types.Null
	}
	return pool[rng.Intn(len(pool))]
}

var opLexemes = map[token.Type]string{
	token.Plus: "+", token.Minus: "-", token.Star: "*", token.Slash: "/",
	token.FloorDiv: "~/", token.Percent: "%", token.Pow: "**",
	token.Lt: "<", token.Lte: "<=", token.Gt: ">", token.Gte: ">=",
	token.Amp: "&", token.Pipe: "|", token.Caret: "^",
	token.Shl: "<<", token.Shr: ">>", token.Ushr: ">>>",
}

func opName(op token.Type) string {
	if s, ok := opLexemes[op]; ok {
		return s
	}
	return op.String()
}
