package runtime

import (
	"math/big"
	"math/rand"
	"strings"

	"github.com/luz-lang/luz/pkg/ast"
	"github.com/luz-lang/luz/pkg/parser"
	"github.com/luz-lang/luz/pkg/token"
	"github.com/luz-lang/luz/pkg/types"
)

// flowKind classifies how a statement finished.
type flowKind int

const (
	flowNormal flowKind = iota
	flowBreak
	flowContinue
)

// outcome carries an evaluation result up the walk together with any
// pending break or continue. The loop engine absorbs the non-normal flows;
// everything else forwards them.
type outcome struct {
	flow  flowKind
	value types.Value
}

func normal(v types.Value) outcome {
	return outcome{value: v}
}

// Interp walks AST nodes against a scope store.
type Interp struct {
	scope    *Scope
	logFn    func(string)
	readLine func(prompt string) (string, error)
	rng      *rand.Rand
	pending  []string
}

// eval evaluates one node.
func (in *Interp) eval(n ast.Node) (outcome, error) {
	switch n := n.(type) {
	case *ast.NumLit:
		return normal(types.NewNum(n.Value)), nil
	case *ast.XLLit:
		return normal(types.NewXL(new(big.Int).Set(n.Value))), nil
	case *ast.StrLit:
		return normal(types.NewStr(n.Value)), nil
	case *ast.InterpStr:
		s, err := in.interpolate(n.Raw)
		if err != nil {
			return outcome{}, err
		}
		return normal(types.NewStr(s)), nil
	case *ast.BoolLit:
		return normal(types.NewBool(n.Value)), nil
	case *ast.NullLit:
		return normal(types.Null), nil

	case *ast.Ident:
		v, ok := in.scope.Get(n.Name)
		if !ok {
			return outcome{}, types.NewSemanticError("undefined variable %q", n.Name)
		}
		return normal(v), nil

	case *ast.Binary:
		return in.evalBinary(n)

	case *ast.Unary:
		out, err := in.eval(n.Operand)
		if err != nil || out.flow != flowNormal {
			return out, err
		}
		v, err := UnaryOp(n.Op, out.value)
		if err != nil {
			return outcome{}, err
		}
		return normal(v), nil

	case *ast.Intrinsic:
		return in.evalIntrinsic(n)

	case *ast.Input:
		return in.evalInput(n)

	case *ast.Assign:
		return in.evalAssign(n)

	case *ast.ConstDecl:
		out, err := in.eval(n.Value)
		if err != nil || out.flow != flowNormal {
			return out, err
		}
		if err := in.scope.Declare(n.Name, out.value, true); err != nil {
			return outcome{}, err
		}
		return normal(out.value), nil

	case *ast.Swap:
		return in.evalSwap(n)

	case *ast.Update:
		return in.evalUpdate(n)

	case *ast.Index:
		obj, err := in.eval(n.Object)
		if err != nil || obj.flow != flowNormal {
			return obj, err
		}
		idx, err := in.eval(n.Index)
		if err != nil || idx.flow != flowNormal {
			return idx, err
		}
		v, err := indexRead(obj.value, idx.value)
		if err != nil {
			return outcome{}, err
		}
		return normal(v), nil

	case *ast.AggLit:
		return in.evalAggLit(n)

	case *ast.Cast:
		out, err := in.eval(n.Value)
		if err != nil || out.flow != flowNormal {
			return out, err
		}
		tag := n.Tag
		if n.TagOf != nil {
			of, err := in.evalScalar(n.TagOf)
			if err != nil {
				return outcome{}, err
			}
			tag = of.TypeTag()
		}
		v, err := Cast(out.value, tag, in.rng)
		if err != nil {
			return outcome{}, err
		}
		return normal(v), nil

	case *ast.If:
		for _, br := range n.Branches {
			cond, err := in.eval(br.Cond)
			if err != nil || cond.flow != flowNormal {
				return cond, err
			}
			if cond.value.Truthy() {
				return in.evalBlock(br.Body)
			}
		}
		if n.Else != nil {
			return in.evalBlock(n.Else)
		}
		return normal(types.Null), nil

	case *ast.Loop:
		return in.evalLoop(n)

	case *ast.Break:
		if n.Value == nil {
			return outcome{flow: flowBreak, value: types.Null}, nil
		}
		out, err := in.eval(n.Value)
		if err != nil || out.flow != flowNormal {
			return out, err
		}
		return outcome{flow: flowBreak, value: out.value}, nil

	case *ast.Continue:
		return outcome{flow: flowContinue, value: types.Null}, nil

	case *ast.Del:
		return in.evalDel(n)

	case *ast.Unimplemented:
		return outcome{}, types.NewUnimplementedError("%q is reserved but not implemented", n.What)
	}

	return outcome{}, types.NewInternalError("unknown node %T", n)
}

// evalScalar evaluates a node in a position where break and continue make
// no sense, surfacing them as errors.
func (in *Interp) evalScalar(n ast.Node) (types.Value, error) {
	out, err := in.eval(n)
	if err != nil {
		return types.Null, err
	}
	switch out.flow {
	case flowBreak:
		return types.Null, types.NewSemanticError("'break' outside loop")
	case flowContinue:
		return types.Null, types.NewSemanticError("'continue' outside loop")
	}
	return out.value, nil
}

// evalStmts evaluates a statement sequence in the current scope and yields
// the last statement's value.
func (in *Interp) evalStmts(stmts []ast.Node) (outcome, error) {
	result := normal(types.Null)
	for _, stmt := range stmts {
		out, err := in.eval(stmt)
		if err != nil {
			return outcome{}, err
		}
		if out.flow != flowNormal {
			return out, nil
		}
		result = out
	}
	return result, nil
}

// evalBlock evaluates a statement sequence in a fresh frame.
func (in *Interp) evalBlock(stmts []ast.Node) (outcome, error) {
	in.scope.Push()
	defer in.scope.Pop()
	return in.evalStmts(stmts)
}

func (in *Interp) evalBinary(n *ast.Binary) (outcome, error) {
	switch n.Op {
	case token.Or:
		left, err := in.eval(n.Left)
		if err != nil || left.flow != flowNormal {
			return left, err
		}
		if left.value.Truthy() {
			return left, nil
		}
		return in.eval(n.Right)

	case token.And:
		left, err := in.eval(n.Left)
		if err != nil || left.flow != flowNormal {
			return left, err
		}
		if !left.value.Truthy() {
			return left, nil
		}
		return in.eval(n.Right)

	case token.Nullish:
		left, err := in.eval(n.Left)
		if err != nil || left.flow != flowNormal {
			return left, err
		}
		if !left.value.IsNull() {
			return left, nil
		}
		return in.eval(n.Right)

	case token.Range, token.RangeEq:
		left, err := in.eval(n.Left)
		if err != nil || left.flow != flowNormal {
			return left, err
		}
		right, err := in.eval(n.Right)
		if err != nil || right.flow != flowNormal {
			return right, err
		}
		start, okL := left.value.AsNumber()
		end, okR := right.value.AsNumber()
		if !okL || !okR {
			return outcome{}, types.NewSemanticError("range endpoints must be numbers, got %s and %s", left.value.TypeTag(), right.value.TypeTag())
		}
		if n.Op == token.Range {
			return normal(types.NewRan(start, end)), nil
		}
		return normal(types.NewXRan(start, end)), nil
	}

	left, err := in.eval(n.Left)
	if err != nil || left.flow != flowNormal {
		return left, err
	}
	right, err := in.eval(n.Right)
	if err != nil || right.flow != flowNormal {
		return right, err
	}
	v, err := Apply(n.Op, left.value, right.value)
	if err != nil {
		return outcome{}, err
	}
	return normal(v), nil
}

func (in *Interp) evalIntrinsic(n *ast.Intrinsic) (outcome, error) {
	if n.Op == token.Log || n.Op == token.Logln {
		text := ""
		if n.Operand != nil {
			out, err := in.eval(n.Operand)
			if err != nil || out.flow != flowNormal {
				return out, err
			}
			text = types.FormatPlain(out.value)
		}
		if n.Op == token.Logln {
			text += "\n"
		}
		in.logFn(text)
		return normal(types.Null), nil
	}

	out, err := in.eval(n.Operand)
	if err != nil || out.flow != flowNormal {
		return out, err
	}
	v := out.value

	switch n.Op {
	case token.Lenof:
		length, ok := v.Len()
		if !ok {
			return outcome{}, types.NewSemanticError("'lenof' is not supported on %s", v.TypeTag())
		}
		return normal(types.NewNum(float64(length))), nil
	case token.Sizeof:
		return normal(types.NewNum(float64(v.ByteSize()))), nil
	case token.Typeof:
		return normal(types.NewStr(v.TypeTag())), nil
	case token.Copyof:
		return normal(v.Clone()), nil
	case token.Firstof:
		return in.firstLast(v, true)
	case token.Lastof:
		return in.firstLast(v, false)
	}
	return outcome{}, types.NewInternalError("unknown intrinsic %s", n.Op)
}

func (in *Interp) firstLast(v types.Value, first bool) (outcome, error) {
	switch v.Kind() {
	case types.KindStr:
		runes := []rune(v.AsStr())
		if len(runes) == 0 {
			return normal(types.Null), nil
		}
		if first {
			return normal(types.NewStr(string(runes[0]))), nil
		}
		return normal(types.NewStr(string(runes[len(runes)-1]))), nil
	case types.KindArr, types.KindVec:
		elems, _ := v.Elems()
		if len(elems) == 0 {
			return normal(types.Null), nil
		}
		if first {
			return normal(elems[0]), nil
		}
		return normal(elems[len(elems)-1]), nil
	case types.KindSet:
		var e types.Value
		var ok bool
		if first {
			e, ok = v.AsSet().First()
		} else {
			e, ok = v.AsSet().Last()
		}
		if !ok {
			return normal(types.Null), nil
		}
		return normal(e), nil
	case types.KindRan:
		r := v.AsRange()
		step := r.Step()
		if step == 0 {
			return normal(types.Null), nil
		}
		if first {
			return normal(types.NewNum(r.Start)), nil
		}
		return normal(types.NewNum(r.End - step)), nil
	case types.KindXRan:
		r := v.AsRange()
		if first {
			return normal(types.NewNum(r.Start)), nil
		}
		return normal(types.NewNum(r.End)), nil
	}
	op := "'lastof'"
	if first {
		op = "'firstof'"
	}
	return outcome{}, types.NewSemanticError("%s is not supported on %s", op, v.TypeTag())
}

func (in *Interp) evalInput(n *ast.Input) (outcome, error) {
	prompt := ""
	if n.Prompt != nil {
		p, err := in.evalScalar(n.Prompt)
		if err != nil {
			return outcome{}, err
		}
		prompt = types.FormatPlain(p)
	}

	if n.Op == token.Getln {
		line, err := in.readLine(prompt)
		if err != nil {
			return outcome{}, types.NewRuntimeError("reading input: %v", err)
		}
		return normal(types.NewStr(line)), nil
	}

	// get hands out one whitespace-separated token per call, refilling
	// from a fresh line when the stack runs dry.
	if len(in.pending) == 0 {
		line, err := in.readLine(prompt)
		if err != nil {
			return outcome{}, types.NewRuntimeError("reading input: %v", err)
		}
		in.pending = strings.Fields(line)
	}
	if len(in.pending) == 0 {
		return normal(types.NewStr("")), nil
	}
	tok := in.pending[0]
	in.pending = in.pending[1:]
	return normal(types.NewStr(tok)), nil
}

func (in *Interp) evalAssign(n *ast.Assign) (outcome, error) {
	if n.Op == token.Assign {
		out, err := in.eval(n.Value)
		if err != nil || out.flow != flowNormal {
			return out, err
		}
		if err := in.writeLValue(n.Target, out.value); err != nil {
			return outcome{}, err
		}
		return normal(out.value), nil
	}

	// Compound assignment through a const binding is rejected even though
	// element writes into its container would be fine.
	if len(n.Target.Chain) == 0 {
		if b, ok := in.scope.Lookup(n.Target.Name); ok && b.Const {
			return outcome{}, types.NewSemanticError("cannot assign to constant %q", n.Target.Name)
		}
	}
	cur, err := in.readLValue(n.Target)
	if err != nil {
		return outcome{}, err
	}
	out, err := in.eval(n.Value)
	if err != nil || out.flow != flowNormal {
		return out, err
	}
	v, err := Apply(CompoundBase(n.Op), cur, out.value)
	if err != nil {
		return outcome{}, err
	}
	if err := in.writeLValue(n.Target, v); err != nil {
		return outcome{}, err
	}
	return normal(v), nil
}

func (in *Interp) evalSwap(n *ast.Swap) (outcome, error) {
	a, err := in.readLValue(n.A)
	if err != nil {
		return outcome{}, err
	}
	b, err := in.readLValue(n.B)
	if err != nil {
		return outcome{}, err
	}
	if a.Same(b) {
		return normal(types.NewBool(false)), nil
	}
	if err := in.writeLValue(n.A, b); err != nil {
		return outcome{}, err
	}
	if err := in.writeLValue(n.B, a); err != nil {
		return outcome{}, err
	}
	return normal(types.NewBool(true)), nil
}

func (in *Interp) evalUpdate(n *ast.Update) (outcome, error) {
	cur, err := in.readLValue(n.Target)
	if err != nil {
		return outcome{}, err
	}
	var next types.Value
	switch cur.Kind() {
	case types.KindNum:
		delta := 1.0
		if n.Op == token.Decr {
			delta = -1
		}
		next = types.NewNum(cur.AsNum() + delta)
	case types.KindXL:
		delta := big.NewInt(1)
		if n.Op == token.Decr {
			delta = big.NewInt(-1)
		}
		next = types.NewXL(new(big.Int).Add(cur.AsXL(), delta))
	default:
		return outcome{}, types.NewSemanticError("'%s' requires a number, got %s", updateLexeme(n.Op), cur.TypeTag())
	}
	if err := in.writeLValue(n.Target, next); err != nil {
		return outcome{}, err
	}
	if n.Prefix {
		return normal(next), nil
	}
	return normal(cur), nil
}

func updateLexeme(op token.Type) string {
	if op == token.Decr {
		return "--"
	}
	return "++"
}

func (in *Interp) evalAggLit(n *ast.AggLit) (outcome, error) {
	var elems []types.Value

	if n.Count != nil {
		cnt, err := in.evalScalar(n.Count)
		if err != nil {
			return outcome{}, err
		}
		f, ok := cnt.AsNumber()
		if !ok {
			return outcome{}, types.NewSemanticError("replication length must be a number, got %s", cnt.TypeTag())
		}
		length := int(f)
		for i := 0; i < length; i++ {
			out, err := in.evalBlock(n.Body)
			if err != nil {
				return outcome{}, err
			}
			if out.flow != flowNormal {
				return out, nil
			}
			elems = append(elems, out.value)
		}
	} else {
		for _, e := range n.Elems {
			out, err := in.eval(e)
			if err != nil || out.flow != flowNormal {
				return out, err
			}
			elems = append(elems, out.value)
		}
	}

	switch n.Kind {
	case token.VecOpen:
		return normal(types.NewVec(elems)), nil
	case token.SetOpen:
		return normal(types.NewSetValue(types.NewSetOf(elems...))), nil
	default:
		return normal(types.NewArr(elems)), nil
	}
}

func (in *Interp) evalLoop(n *ast.Loop) (outcome, error) {
	switch n.Shape {
	case ast.LoopForIn:
		iter, err := in.evalScalar(n.Iter)
		if err != nil {
			return outcome{}, err
		}
		items, err := iterElems(iter)
		if err != nil {
			return outcome{}, err
		}
		for _, item := range items {
			in.scope.Push()
			if err := in.scope.Set(n.Var, item); err != nil {
				in.scope.Pop()
				return outcome{}, err
			}
			out, err := in.evalStmts(n.Body)
			in.scope.Pop()
			if err != nil {
				return outcome{}, err
			}
			if out.flow == flowBreak {
				return normal(out.value), nil
			}
		}
		return normal(types.Null), nil

	case ast.LoopWhile:
		for {
			cond, err := in.eval(n.Cond)
			if err != nil || cond.flow != flowNormal {
				return cond, err
			}
			if !cond.value.Truthy() {
				return normal(types.Null), nil
			}
			out, err := in.evalBlock(n.Body)
			if err != nil {
				return outcome{}, err
			}
			if out.flow == flowBreak {
				return normal(out.value), nil
			}
		}

	default: // infinite
		for {
			out, err := in.evalBlock(n.Body)
			if err != nil {
				return outcome{}, err
			}
			if out.flow == flowBreak {
				return normal(out.value), nil
			}
		}
	}
}

// iterElems materialises a for-in iterable. Sets are deliberately not
// iterable.
func iterElems(v types.Value) ([]types.Value, error) {
	switch v.Kind() {
	case types.KindRan, types.KindXRan:
		return v.RangeValues(), nil
	case types.KindStr:
		var out []types.Value
		for _, r := range v.AsStr() {
			out = append(out, types.NewStr(string(r)))
		}
		return out, nil
	case types.KindArr, types.KindVec:
		elems, _ := v.Elems()
		return append([]types.Value{}, elems...), nil
	case types.KindSet:
		return nil, types.NewSemanticError("a set cannot be iterated with for-in")
	}
	return nil, types.NewSemanticError("cannot iterate over %s", v.TypeTag())
}

func (in *Interp) evalDel(n *ast.Del) (outcome, error) {
	if len(n.Target.Chain) == 0 {
		if !in.scope.Has(n.Target.Name) {
			return outcome{}, types.NewSemanticError("undefined variable %q", n.Target.Name)
		}
		in.scope.Delete(n.Target.Name)
		return normal(types.Null), nil
	}

	parent, err := in.readChain(n.Target.Name, n.Target.Chain[:len(n.Target.Chain)-1])
	if err != nil {
		return outcome{}, err
	}
	idx, err := in.evalScalar(n.Target.Chain[len(n.Target.Chain)-1])
	if err != nil {
		return outcome{}, err
	}
	f, ok := idx.AsNumber()
	if !ok {
		return outcome{}, types.NewSemanticError("'del' index must be a number, got %s", idx.TypeTag())
	}
	i := int(f)

	switch parent.Kind() {
	case types.KindVec:
		vec := parent.AsVec()
		if i < 0 || i >= len(vec.Elems) {
			return outcome{}, types.NewInvalidInstruction("'del' index %d out of bounds for vec of length %d", i, len(vec.Elems))
		}
		vec.Elems = append(vec.Elems[:i], vec.Elems[i+1:]...)
	case types.KindSet:
		set := parent.AsSet()
		values := set.Values()
		if i < 0 || i >= len(values) {
			return outcome{}, types.NewInvalidInstruction("'del' index %d out of bounds for set of length %d", i, len(values))
		}
		set.Delete(values[i])
	case types.KindArr:
		return outcome{}, types.NewInvalidInstruction("cannot remove elements from a fixed-size arr; use a vec instead")
	default:
		return outcome{}, types.NewSemanticError("'del' is not supported on %s elements", parent.TypeTag())
	}
	return normal(types.Null), nil
}

// readLValue reads the current value behind an assignable place.
func (in *Interp) readLValue(target *ast.LValue) (types.Value, error) {
	return in.readChain(target.Name, target.Chain)
}

func (in *Interp) readChain(name string, chain []ast.Node) (types.Value, error) {
	v, ok := in.scope.Get(name)
	if !ok {
		return types.Null, types.NewSemanticError("undefined variable %q", name)
	}
	for _, idxNode := range chain {
		idx, err := in.evalScalar(idxNode)
		if err != nil {
			return types.Null, err
		}
		v, err = indexRead(v, idx)
		if err != nil {
			return types.Null, err
		}
	}
	return v, nil
}

// writeLValue stores a value into an assignable place, walking the index
// chain down to the final container.
func (in *Interp) writeLValue(target *ast.LValue, v types.Value) error {
	if len(target.Chain) == 0 {
		return in.scope.Set(target.Name, v)
	}
	parent, err := in.readChain(target.Name, target.Chain[:len(target.Chain)-1])
	if err != nil {
		return err
	}
	idx, err := in.evalScalar(target.Chain[len(target.Chain)-1])
	if err != nil {
		return err
	}
	return indexWrite(parent, idx, v)
}

// indexRead reads container[idx]. Numeric out-of-bounds reads yield null;
// range indices slice.
func indexRead(container, idx types.Value) (types.Value, error) {
	if idx.IsRange() {
		return sliceRead(container, idx)
	}
	f, ok := idx.AsNumber()
	if !ok {
		return types.Null, types.NewSemanticError("index must be a number, got %s", idx.TypeTag())
	}
	i := int(f)

	switch container.Kind() {
	case types.KindStr:
		runes := []rune(container.AsStr())
		if i < 0 || i >= len(runes) {
			return types.Null, nil
		}
		return types.NewStr(string(runes[i])), nil
	case types.KindArr, types.KindVec:
		elems, _ := container.Elems()
		if i < 0 || i >= len(elems) {
			return types.Null, nil
		}
		return elems[i], nil
	case types.KindSet:
		values := container.AsSet().Values()
		if i < 0 || i >= len(values) {
			return types.Null, nil
		}
		return values[i], nil
	case types.KindRan, types.KindXRan:
		values := container.RangeValues()
		if i < 0 || i >= len(values) {
			return types.Null, nil
		}
		return values[i], nil
	}
	return types.Null, types.NewSemanticError("cannot index into %s", container.TypeTag())
}

// sliceRead reads the in-bounds elements a range index selects.
func sliceRead(container, idx types.Value) (types.Value, error) {
	indices := idx.RangeValues()

	pick := func(length int) []int {
		var out []int
		for _, iv := range indices {
			f, _ := iv.AsNumber()
			i := int(f)
			if i >= 0 && i < length {
				out = append(out, i)
			}
		}
		return out
	}

	switch container.Kind() {
	case types.KindStr:
		runes := []rune(container.AsStr())
		var sb strings.Builder
		for _, i := range pick(len(runes)) {
			sb.WriteRune(runes[i])
		}
		return types.NewStr(sb.String()), nil
	case types.KindArr, types.KindVec:
		elems, _ := container.Elems()
		var out []types.Value
		for _, i := range pick(len(elems)) {
			out = append(out, elems[i])
		}
		if container.Kind() == types.KindArr {
			return types.NewArr(out), nil
		}
		return types.NewVec(out), nil
	case types.KindSet:
		values := container.AsSet().Values()
		var out []types.Value
		for _, i := range pick(len(values)) {
			out = append(out, values[i])
		}
		return types.NewSetValue(types.NewSetOf(out...)), nil
	}
	return types.Null, types.NewSemanticError("cannot slice %s", container.TypeTag())
}

// indexWrite stores container[idx] = v. Out-of-bounds and negative writes
// fail instead of extending the container.
func indexWrite(container, idx, v types.Value) error {
	f, ok := idx.AsNumber()
	if !ok {
		return types.NewSemanticError("index must be a number, got %s", idx.TypeTag())
	}
	i := int(f)
	if i < 0 {
		return types.NewInvalidInstruction("negative index %d in assignment", i)
	}

	switch container.Kind() {
	case types.KindArr:
		arr := container.AsArr()
		if i >= len(arr.Elems) {
			return types.NewInvalidInstruction("index %d out of bounds for arr of length %d", i, len(arr.Elems))
		}
		arr.Elems[i] = v
		return nil
	case types.KindVec:
		vec := container.AsVec()
		if i >= len(vec.Elems) {
			return types.NewInvalidInstruction("index %d out of bounds for vec of length %d", i, len(vec.Elems))
		}
		vec.Elems[i] = v
		return nil
	case types.KindStr:
		return types.NewSemanticError("str values are immutable")
	case types.KindSet:
		return types.NewSemanticError("set elements cannot be assigned by index")
	}
	return types.NewSemanticError("cannot index-assign %s", container.TypeTag())
}

// interpolate resolves {expr} sites in a string literal by re-tokenising
// and evaluating each site in the current scope. An empty site renders the
// braces themselves.
func (in *Interp) interpolate(raw string) (string, error) {
	var sb strings.Builder
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '{' {
			sb.WriteRune(runes[i])
			continue
		}
		depth := 1
		j := i + 1
		for ; j < len(runes) && depth > 0; j++ {
			switch runes[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
		}
		if depth != 0 {
			return "", types.NewSyntaxError("unclosed '{' in string interpolation")
		}
		inner := string(runes[i+1 : j-1])
		if strings.TrimSpace(inner) == "" {
			sb.WriteString("{}")
			i = j - 1
			continue
		}
		v, err := in.evalSource(inner)
		if err != nil {
			return "", err
		}
		sb.WriteString(types.FormatPlain(v))
		i = j - 1
	}
	return sb.String(), nil
}

// evalSource evaluates a source fragment against the current scope and
// returns its final value.
func (in *Interp) evalSource(src string) (types.Value, error) {
	prog, err := parser.ParseSource(src)
	if err != nil {
		return types.Null, err
	}
	last := types.Null
	for _, stmt := range prog.Stmts {
		v, err := in.evalScalar(stmt)
		if err != nil {
			return types.Null, err
		}
		last = v
	}
	return last, nil
}
