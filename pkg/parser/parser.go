// Package parser builds Luz AST programs from token streams by recursive
// descent. Assignment and swap targets are recognised with a single cursor
// backtrack; everything else is predictive.
package parser

import (
	"strings"

	"github.com/luz-lang/luz/pkg/ast"
	"github.com/luz-lang/luz/pkg/lexer"
	"github.com/luz-lang/luz/pkg/token"
	"github.com/luz-lang/luz/pkg/types"
)

// Parser consumes a token stream and produces AST nodes.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New creates a parser over an already tokenized stream. The stream must be
// EOF-terminated, as produced by the lexer.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseSource tokenizes and parses a complete source string.
func ParseSource(src string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return New(toks).Parse()
}

// Parse reads the top-level statement sequence.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur().Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(t token.Type, what string) (token.Token, error) {
	if p.cur().Type != t {
		return token.Token{}, types.NewSyntaxError("expected %s, found %q at line %d", what, p.cur().Value, p.cur().Line)
	}
	return p.advance(), nil
}

// parseStatement reads one statement and its optional trailing semicolon.
func (p *Parser) parseStatement() (ast.Node, error) {
	var node ast.Node
	var err error

	switch p.cur().Type {
	case token.Const:
		node, err = p.parseConst()
	case token.Fn:
		node, err = p.parseFn()
	case token.Return:
		ret := p.advance()
		if p.operandFollows(ret) {
			if _, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		node = &ast.Unimplemented{What: "return"}
	default:
		node, err = p.parseExpression()
	}
	if err != nil {
		return nil, err
	}
	if p.cur().Type == token.Semi {
		p.advance()
	}
	return node, nil
}

func (p *Parser) parseConst() (ast.Node, error) {
	p.advance() // const
	name, err := p.expect(token.Ident, "constant name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign, "'='"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ConstDecl{Name: name.Value, Value: value}, nil
}

// parseFn swips past a reserved function definition so that dead branches
// containing one still parse. The node raises at evaluation time.
func (p *Parser) parseFn() (ast.Node, error) {
	p.advance() // fn
	depth := 0
	for p.cur().Type != token.EOF {
		switch p.cur().Type {
		case token.LParen, token.LBracket, token.LBrace, token.VecOpen, token.SetOpen:
			depth++
		case token.RParen, token.RBracket:
			depth--
		case token.RBrace:
			depth--
			if depth == 0 {
				p.advance()
				return &ast.Unimplemented{What: "fn"}, nil
			}
			if depth < 0 {
				// Closing brace of an enclosing block; leave it.
				return &ast.Unimplemented{What: "fn"}, nil
			}
		case token.Semi:
			if depth == 0 {
				return &ast.Unimplemented{What: "fn"}, nil
			}
		}
		p.advance()
	}
	return &ast.Unimplemented{What: "fn"}, nil
}

// parseExpression handles swap and assignment via backtracking, then falls
// through to the operator chain.
func (p *Parser) parseExpression() (ast.Node, error) {
	if p.cur().Type == token.Ident {
		save := p.pos
		lv, err := p.parseLValue()
		if err == nil {
			switch {
			case p.cur().IsAssignOp():
				op := p.advance().Type
				value, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				return &ast.Assign{Target: lv, Op: op, Value: value}, nil
			case p.cur().Type == token.Swap:
				p.advance()
				rhs, err := p.parseLValue()
				if err != nil {
					return nil, types.NewSemanticError("right side of '<=>' must be assignable at line %d", p.cur().Line)
				}
				return &ast.Swap{A: lv, B: rhs}, nil
			}
		}
		p.pos = save
	}
	return p.parseCast()
}

// parseCast applies 'as' conversions to the whole expression below it, so
// that 0..3 as vec materialises the range rather than casting an endpoint.
func (p *Parser) parseCast() (ast.Node, error) {
	left, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.As {
		p.advance()
		switch {
		case p.cur().Type == token.Typeof:
			p.advance()
			of, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &ast.Cast{Value: left, TagOf: of}
		case p.cur().Type == token.Ident:
			left = &ast.Cast{Value: left, Tag: p.advance().Value}
		case p.cur().IsInf():
			p.advance()
			left = &ast.Cast{Value: left, Tag: "inf"}
		case p.cur().Type == token.Null:
			p.advance()
			left = &ast.Cast{Value: left, Tag: "null"}
		default:
			return nil, types.NewSyntaxError("expected type name after 'as' at line %d", p.cur().Line)
		}
	}
	return left, nil
}

// parseLValue reads a name plus an optional index chain.
func (p *Parser) parseLValue() (*ast.LValue, error) {
	name, err := p.expect(token.Ident, "identifier")
	if err != nil {
		return nil, err
	}
	chain, err := p.parseChain()
	if err != nil {
		return nil, err
	}
	return &ast.LValue{Name: name.Value, Chain: chain}, nil
}

// parseChain reads zero or more [expr] and .N accesses.
func (p *Parser) parseChain() ([]ast.Node, error) {
	var chain []ast.Node
	for {
		switch p.cur().Type {
		case token.LBracket:
			p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket, "']'"); err != nil {
				return nil, err
			}
			chain = append(chain, idx)
		case token.Dot:
			p.advance()
			num, err := p.expect(token.Num, "index after '.'")
			if err != nil {
				return nil, err
			}
			chain = append(chain, &ast.NumLit{Value: num.NumVal})
		default:
			return chain, nil
		}
	}
}

func (p *Parser) parseRange() (ast.Node, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.Range || p.cur().Type == token.RangeEq {
		op := p.advance().Type
		right, err := p.parseLogicalOr()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseLogicalOr() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseNullish, token.Or)
}

func (p *Parser) parseNullish() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseLogicalAnd, token.Nullish)
}

func (p *Parser) parseLogicalAnd() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseEquality, token.And)
}

func (p *Parser) parseEquality() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseComparison, token.Eq, token.Neq, token.Has)
}

func (p *Parser) parseComparison() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseAddSub, token.Lt, token.Lte, token.Gt, token.Gte)
}

func (p *Parser) parseAddSub() (ast.Node, error) {
	return p.parseBinaryLevel(p.parsePow, token.Plus, token.Minus)
}

func (p *Parser) parsePow() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseMulDiv, token.Pow)
}

func (p *Parser) parseMulDiv() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseBitwise, token.Star, token.Slash, token.Percent, token.FloorDiv)
}

func (p *Parser) parseBitwise() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseUnary, token.Amp, token.Pipe, token.Caret, token.Shl, token.Shr, token.Ushr)
}

// parseBinaryLevel builds a left-associative chain at one precedence level.
func (p *Parser) parseBinaryLevel(next func() (ast.Node, error), ops ...token.Type) (ast.Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.matchAny(ops) {
		op := p.advance().Type
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) matchAny(ops []token.Type) bool {
	t := p.cur().Type
	for _, op := range ops {
		if t == op {
			return true
		}
	}
	return false
}

func (p *Parser) parseUnary() (ast.Node, error) {
	tok := p.cur()
	switch tok.Type {
	case token.Bang, token.Tilde, token.Plus, token.Minus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: tok.Type, Operand: operand}, nil

	case token.Incr, token.Decr:
		p.advance()
		target, err := p.parseLValue()
		if err != nil {
			return nil, types.NewSemanticError("%q requires a variable at line %d", tok.Value, tok.Line)
		}
		return &ast.Update{Target: target, Op: tok.Type, Prefix: true}, nil

	case token.PreUpdate:
		p.advance()
		chain, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		op := token.Incr
		if tok.Value == "--" {
			op = token.Decr
		}
		return &ast.Update{Target: &ast.LValue{Name: tok.Ident, Chain: chain}, Op: op, Prefix: true}, nil

	case token.Lenof, token.Typeof, token.Copyof, token.Sizeof, token.Firstof, token.Lastof:
		if p.peek().IsAssignOp() {
			return nil, types.NewSemanticError("cannot assign to reserved word %q at line %d", tok.Value, tok.Line)
		}
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Intrinsic{Op: tok.Type, Operand: operand}, nil

	case token.Log, token.Logln:
		if p.peek().IsAssignOp() {
			return nil, types.NewSemanticError("cannot assign to reserved word %q at line %d", tok.Value, tok.Line)
		}
		p.advance()
		if !p.operandFollows(tok) {
			return &ast.Intrinsic{Op: tok.Type}, nil
		}
		// log prints the whole expression that follows it.
		operand, err := p.parseCast()
		if err != nil {
			return nil, err
		}
		return &ast.Intrinsic{Op: tok.Type, Operand: operand}, nil

	case token.Get, token.Getln:
		if p.peek().IsAssignOp() {
			return nil, types.NewSemanticError("cannot assign to reserved word %q at line %d", tok.Value, tok.Line)
		}
		p.advance()
		var prompt ast.Node
		if p.operandFollows(tok) {
			var err error
			prompt, err = p.parseUnary()
			if err != nil {
				return nil, err
			}
		}
		return &ast.Input{Op: tok.Type, Prompt: prompt}, nil

	case token.Del:
		if p.peek().IsAssignOp() {
			return nil, types.NewSemanticError("cannot assign to reserved word %q at line %d", tok.Value, tok.Line)
		}
		p.advance()
		target, err := p.parseLValue()
		if err != nil {
			return nil, types.NewSemanticError("'del' requires a variable at line %d", tok.Line)
		}
		return &ast.Del{Target: target}, nil
	}

	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == token.Incr || p.cur().Type == token.Decr {
		if target, ok := toLValue(node); ok {
			op := p.advance().Type
			return &ast.Update{Target: target, Op: op, Prefix: false}, nil
		}
	}
	return node, nil
}

// toLValue reinterprets an index-chain expression as an assignable place.
func toLValue(n ast.Node) (*ast.LValue, bool) {
	var chain []ast.Node
	for {
		switch v := n.(type) {
		case *ast.Ident:
			for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
				chain[i], chain[j] = chain[j], chain[i]
			}
			return &ast.LValue{Name: v.Name, Chain: chain}, true
		case *ast.Index:
			chain = append(chain, v.Index)
			n = v.Object
		default:
			return nil, false
		}
	}
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.cur()
	switch tok.Type {
	case token.Num:
		p.advance()
		return &ast.NumLit{Value: tok.NumVal}, nil

	case token.XL:
		p.advance()
		return &ast.XLLit{Value: tok.XLVal}, nil

	case token.Str:
		p.advance()
		if strings.Contains(tok.StrVal, "{") {
			return &ast.InterpStr{Raw: tok.StrVal}, nil
		}
		return &ast.StrLit{Value: tok.StrVal}, nil

	case token.Bool:
		p.advance()
		return &ast.BoolLit{Value: tok.Value == "true"}, nil

	case token.Null:
		p.advance()
		return &ast.NullLit{}, nil

	case token.PostUpdate:
		p.advance()
		op := token.Incr
		if tok.Value == "--" {
			op = token.Decr
		}
		return &ast.Update{Target: &ast.LValue{Name: tok.Ident}, Op: op, Prefix: false}, nil

	case token.Ident:
		p.advance()
		var node ast.Node = &ast.Ident{Name: tok.Value}
		return p.parseIndexChain(node)

	case token.LParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		return p.parseIndexChain(inner)

	case token.LBracket:
		p.advance()
		return p.parseAggLit(token.LBracket, token.RBracket, "']'")

	case token.VecOpen:
		p.advance()
		return p.parseAggLit(token.VecOpen, token.RBracket, "']'")

	case token.SetOpen:
		p.advance()
		return p.parseAggLit(token.SetOpen, token.RBrace, "'}'")

	case token.If:
		p.advance()
		return p.parseIf()

	case token.Loop:
		p.advance()
		return p.parseLoop()

	case token.Break:
		p.advance()
		brk := &ast.Break{}
		if p.operandFollows(tok) {
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			brk.Value = value
		}
		return brk, nil

	case token.Continue:
		p.advance()
		return &ast.Continue{}, nil

	case token.Fn:
		return p.parseFn()

	case token.Return:
		p.advance()
		if p.operandFollows(tok) {
			if _, err := p.parseExpression(); err != nil {
				return nil, err
			}
		}
		return &ast.Unimplemented{What: "return"}, nil

	case token.EOF:
		return nil, types.NewSyntaxError("unexpected end of input at line %d", tok.Line)
	}

	return nil, types.NewSyntaxError("unexpected token %q at line %d", tok.Value, tok.Line)
}

// parseIndexChain wraps a primary in Index nodes for each [expr] or .N
// access that follows it.
func (p *Parser) parseIndexChain(node ast.Node) (ast.Node, error) {
	chain, err := p.parseChain()
	if err != nil {
		return nil, err
	}
	for _, idx := range chain {
		node = &ast.Index{Object: node, Index: idx}
	}
	return node, nil
}

// parseAggLit reads the body of an aggregate literal after its opener.
// Elements are whitespace- or comma-separated; a top-level semicolon splits
// the element block from a length expression.
func (p *Parser) parseAggLit(kind, close token.Type, closeName string) (ast.Node, error) {
	lit := &ast.AggLit{Kind: kind}
	for p.cur().Type != close {
		if p.cur().Type == token.EOF {
			return nil, types.NewSyntaxError("expected %s, found end of input", closeName)
		}
		if p.cur().Type == token.Comma {
			p.advance()
			continue
		}
		if p.cur().Type == token.Semi {
			p.advance()
			count, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(close, closeName); err != nil {
				return nil, err
			}
			lit.Body = lit.Elems
			lit.Elems = nil
			lit.Count = count
			return lit, nil
		}
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		lit.Elems = append(lit.Elems, elem)
	}
	p.advance() // closer
	return lit, nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	node := &ast.If{}
	for {
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		node.Branches = append(node.Branches, ast.CondBranch{Cond: cond, Body: body})

		if p.cur().Type != token.Else {
			return node, nil
		}
		p.advance()
		if p.cur().Type == token.If {
			p.advance()
			continue
		}
		elseBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		node.Else = elseBody
		return node, nil
	}
}

func (p *Parser) parseLoop() (ast.Node, error) {
	if p.cur().Type == token.LBrace {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.Loop{Shape: ast.LoopInfinite, Body: body}, nil
	}

	// For-in is recognised by "ident in" after an optional paren; anything
	// else re-parses from the saved cursor as a while condition.
	save := p.pos
	paren := p.cur().Type == token.LParen
	if paren {
		p.advance()
	}
	if p.cur().Type == token.Ident && p.peek().Type == token.In {
		name := p.advance().Value
		p.advance() // in
		iter, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if paren {
			if _, err := p.expect(token.RParen, "')'"); err != nil {
				return nil, err
			}
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.Loop{Shape: ast.LoopForIn, Var: name, Iter: iter, Body: body}, nil
	}
	p.pos = save

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Loop{Shape: ast.LoopWhile, Cond: cond, Body: body}, nil
}

// parseBlock reads a brace-delimited statement sequence.
func (p *Parser) parseBlock() ([]ast.Node, error) {
	if _, err := p.expect(token.LBrace, "'{'"); err != nil {
		return nil, err
	}
	var stmts []ast.Node
	for p.cur().Type != token.RBrace {
		if p.cur().Type == token.EOF {
			return nil, types.NewSyntaxError("expected '}', found end of input")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.advance() // }
	return stmts, nil
}

// operandFollows reports whether an optional operand for the keyword at kw
// is present: an expression-starting token on the same source line. A token
// on the next line begins a new statement instead.
func (p *Parser) operandFollows(kw token.Token) bool {
	return p.canStartOperand() && p.cur().Line == kw.Line
}

// canStartOperand reports whether the current token can begin an expression.
func (p *Parser) canStartOperand() bool {
	switch p.cur().Type {
	case token.Num, token.XL, token.Str, token.Bool, token.Null,
		token.Ident, token.PreUpdate, token.PostUpdate,
		token.LParen, token.LBracket, token.VecOpen, token.SetOpen,
		token.If, token.Loop,
		token.Bang, token.Tilde, token.Plus, token.Minus,
		token.Incr, token.Decr,
		token.Lenof, token.Typeof, token.Copyof, token.Sizeof,
		token.Firstof, token.Lastof, token.Log, token.Logln,
		token.Get, token.Getln, token.Del:
		return true
	default:
		return false
	}
}
