// Package lexer turns Luz source text into an ordered token stream.
package lexer

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/luz-lang/luz/pkg/token"
	"github.com/luz-lang/luz/pkg/types"
)

// Lexer tokenizes a Luz source string.
type Lexer struct {
	input  []rune
	pos    int
	line   int
	tokens []token.Token
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{input: []rune(input), line: 1}
}

// Tokenize scans the entire input and returns all tokens, EOF last.
func Tokenize(input string) ([]token.Token, error) {
	return New(input).Tokenize()
}

// Tokenize scans the entire input and returns all tokens.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return l.tokens, nil
}

// last returns the most recently emitted token.
func (l *Lexer) last() (token.Token, bool) {
	if len(l.tokens) == 0 {
		return token.Token{}, false
	}
	return l.tokens[len(l.tokens)-1], true
}

// next returns the next token from the input.
func (l *Lexer) next() (token.Token, error) {
	if err := l.skipBlanks(); err != nil {
		return token.Token{}, err
	}

	if l.pos >= len(l.input) {
		return token.Token{Type: token.EOF, Pos: l.pos, Line: l.line}, nil
	}

	ch := l.input[l.pos]

	if ch == '"' || ch == '\'' || ch == '`' {
		return l.readString(ch)
	}

	if isDigit(ch) {
		return l.readNumber()
	}

	// A leading '.' starts a number (.5) unless the previous token ends an
	// index chain, in which case it is the dotted-access operator.
	if ch == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]) && !l.afterChainEnd() {
		return l.readNumber()
	}

	if ch == ';' {
		if last, ok := l.last(); !ok || last.Type == token.Semi {
			return token.Token{}, types.NewSyntaxError("unexpected ';' at line %d", l.line)
		}
		l.pos++
		return token.Token{Type: token.Semi, Value: ";", Pos: l.pos - 1, Line: l.line}, nil
	}

	// Fused prefix update: ++x / --x
	if l.pos+2 < len(l.input) && (ch == '+' || ch == '-') && l.input[l.pos+1] == ch && isIdentStart(l.input[l.pos+2]) {
		op := string(ch) + string(ch)
		start := l.pos
		l.pos += 2
		name := l.readWord()
		return token.Token{Type: token.PreUpdate, Value: op, Ident: name, Pos: start, Line: l.line}, nil
	}

	if tok, ok := l.readOperator(); ok {
		return tok, nil
	}

	if isIdentStart(ch) {
		return l.readIdentifier()
	}

	return token.Token{}, types.NewSyntaxError("unexpected character %q at line %d", string(ch), l.line)
}

// afterChainEnd reports whether the previous token can end an l-value index
// chain, which makes a following '.' dotted access rather than a fraction.
func (l *Lexer) afterChainEnd() bool {
	last, ok := l.last()
	if !ok {
		return false
	}
	switch last.Type {
	case token.Ident, token.RBracket, token.RParen, token.PostUpdate:
		return true
	default:
		return false
	}
}

// skipBlanks consumes whitespace and comments.
func (l *Lexer) skipBlanks() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == '\n':
			l.line++
			l.pos++
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.pos++
		case ch == '#':
			l.skipLineComment()
		case ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/':
			l.skipLineComment()
		case ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) skipLineComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.pos++
	}
}

func (l *Lexer) skipBlockComment() error {
	start := l.line
	l.pos += 2
	for l.pos+1 < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
		}
		if l.input[l.pos] == '*' && l.input[l.pos+1] == '/' {
			l.pos += 2
			return nil
		}
		l.pos++
	}
	return types.NewSyntaxError("unterminated comment starting at line %d", start)
}

// readString reads a quoted string literal. Newlines are allowed inside.
func (l *Lexer) readString(quote rune) (token.Token, error) {
	start := l.pos
	startLine := l.line
	l.pos++ // skip opening quote

	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos++
			escaped := l.input[l.pos]
			switch escaped {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\'', '"', '`', '\\':
				sb.WriteRune(escaped)
			default:
				sb.WriteByte('\\')
				sb.WriteRune(escaped)
			}
			l.pos++
			continue
		}
		if ch == '\n' {
			l.line++
		}
		if ch == quote {
			l.pos++ // skip closing quote
			return token.Token{
				Type:   token.Str,
				Value:  string(l.input[start:l.pos]),
				StrVal: sb.String(),
				Pos:    start,
				Line:   startLine,
			}, nil
		}
		sb.WriteRune(ch)
		l.pos++
	}

	return token.Token{}, types.NewSyntaxError("unterminated string starting at line %d", startLine)
}

// readNumber reads a numeric or big-integer literal. Digits may be grouped
// with underscores; a fraction and exponent are optional; integer digits
// followed by the xl suffix form a big integer.
func (l *Lexer) readNumber() (token.Token, error) {
	start := l.pos
	sawDot := false
	sawExp := false

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case isDigit(ch) || ch == '_':
			l.pos++
		case ch == '.' && !sawDot && !sawExp:
			// Two dots form the range operator, not a fraction.
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '.' {
				goto done
			}
			sawDot = true
			l.pos++
		case (ch == 'e' || ch == 'E') && !sawExp && l.pos+1 < len(l.input) &&
			(isDigit(l.input[l.pos+1]) || ((l.input[l.pos+1] == '+' || l.input[l.pos+1] == '-') && l.pos+2 < len(l.input) && isDigit(l.input[l.pos+2]))):
			sawExp = true
			l.pos++
			if l.input[l.pos] == '+' || l.input[l.pos] == '-' {
				l.pos++
			}
		default:
			goto done
		}
	}
done:
	raw := string(l.input[start:l.pos])
	digits := strings.ReplaceAll(raw, "_", "")

	// Big-integer suffix: integer digits directly followed by xl.
	if !sawDot && !sawExp {
		if rest := l.input[l.pos:]; len(rest) >= 2 && (rest[0] == 'x' || rest[0] == 'X') && (rest[1] == 'l' || rest[1] == 'L') {
			if len(rest) == 2 || !isIdentPart(rest[2]) {
				l.pos += 2
				xl, ok := new(big.Int).SetString(digits, 10)
				if !ok {
					return token.Token{}, types.NewSyntaxError("invalid big integer %q at line %d", raw, l.line)
				}
				return token.Token{Type: token.XL, Value: raw + "xl", XLVal: xl, Pos: start, Line: l.line}, nil
			}
		}
	}

	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return token.Token{}, types.NewSyntaxError("invalid number %q at line %d", raw, l.line)
	}
	return token.Token{Type: token.Num, Value: raw, NumVal: f, Pos: start, Line: l.line}, nil
}

// operator lexemes in longest-match order.
var operators = []struct {
	lexeme string
	typ    token.Type
}{
	{"<=>", token.Swap},
	{">>>", token.Ushr},
	{"**=", token.PowAssign},
	{"~/=", token.FloorAssign},
	{"..=", token.RangeEq},
	{"..", token.Range},
	{"??", token.Nullish},
	{"&&", token.And},
	{"||", token.Or},
	{"==", token.Eq},
	{"!=", token.Neq},
	{"<=", token.Lte},
	{">=", token.Gte},
	{"<<", token.Shl},
	{">>", token.Shr},
	{"**", token.Pow},
	{"~/", token.FloorDiv},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PctAssign},
	{"^=", token.CaretAssign},
	{"++", token.Incr},
	{"--", token.Decr},
	{"![", token.VecOpen},
	{"@{", token.SetOpen},
	{"<", token.Lt},
	{">", token.Gt},
	{"=", token.Assign},
	{"!", token.Bang},
	{"?", token.Question},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
	{"&", token.Amp},
	{"|", token.Pipe},
	{"^", token.Caret},
	{"~", token.Tilde},
	{"(", token.LParen},
	{")", token.RParen},
	{"[", token.LBracket},
	{"]", token.RBracket},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{",", token.Comma},
	{":", token.Colon},
	{".", token.Dot},
}

func (l *Lexer) readOperator() (token.Token, bool) {
	rest := l.input[l.pos:]
	for _, op := range operators {
		runes := []rune(op.lexeme)
		if len(rest) < len(runes) {
			continue
		}
		match := true
		for i, r := range runes {
			if rest[i] != r {
				match = false
				break
			}
		}
		if match {
			start := l.pos
			l.pos += len(runes)
			return token.Token{Type: op.typ, Value: op.lexeme, Pos: start, Line: l.line}, true
		}
	}
	return token.Token{}, false
}

// readIdentifier reads an identifier, keyword, or literal word. A directly
// following ++ or -- fuses into a postfix-update token.
func (l *Lexer) readIdentifier() (token.Token, error) {
	start := l.pos
	word := l.readWord()

	switch word {
	case "true", "false":
		return token.Token{Type: token.Bool, Value: word, Pos: start, Line: l.line}, nil
	case "null":
		return token.Token{Type: token.Null, Value: word, Pos: start, Line: l.line}, nil
	case "inf":
		return token.Token{Type: token.Num, Value: word, NumVal: math.Inf(1), Pos: start, Line: l.line}, nil
	}

	if t := token.Lookup(word); t != token.Ident {
		return token.Token{Type: t, Value: word, Pos: start, Line: l.line}, nil
	}

	// Fused postfix update: x++ / x--
	if l.pos+1 < len(l.input) {
		a, b := l.input[l.pos], l.input[l.pos+1]
		if (a == '+' && b == '+') || (a == '-' && b == '-') {
			// x+++y keeps the plain ident so +++ lexes as ++ then +, which
			// parses as (x++) + y.
			if l.pos+2 >= len(l.input) || l.input[l.pos+2] != a {
				l.pos += 2
				return token.Token{Type: token.PostUpdate, Value: string(a) + string(b), Ident: word, Pos: start, Line: l.line}, nil
			}
		}
	}

	return token.Token{Type: token.Ident, Value: word, Pos: start, Line: l.line}, nil
}

func (l *Lexer) readWord() string {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	return string(l.input[start:l.pos])
}

const accented = "áéíóúüñÁÉÍÓÚÜÑ"

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$' {
		return true
	}
	return strings.ContainsRune(accented, ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
