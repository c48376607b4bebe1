package runtime

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/luz-lang/luz/pkg/parser"
	"github.com/luz-lang/luz/pkg/types"
)

// Hooks are the lifecycle callbacks fired around a program run. Any of
// them may be nil.
type Hooks struct {
	OnStart   func()
	OnSuccess func(code int)
	OnError   func(code int)
	OnEnd     func(code int)
}

// Options configures an engine. Zero-value fields get stdio-backed
// defaults and a time-seeded random source.
type Options struct {
	Log      func(string)
	Err      func(string)
	ReadLine func(prompt string) (string, error)
	Rand     *rand.Rand
	Hooks    Hooks
}

// Engine runs Luz programs: it owns the scope store, the injected I/O, and
// the lifecycle hooks.
type Engine struct {
	opts   Options
	interp *Interp
}

// NewEngine creates an engine, filling unset options with defaults.
func NewEngine(opts Options) *Engine {
	if opts.Log == nil {
		opts.Log = func(s string) { fmt.Fprint(os.Stdout, s) }
	}
	if opts.Err == nil {
		opts.Err = func(s string) { fmt.Fprintln(os.Stderr, s) }
	}
	if opts.ReadLine == nil {
		reader := bufio.NewReader(os.Stdin)
		opts.ReadLine = func(prompt string) (string, error) {
			if prompt != "" {
				fmt.Fprint(os.Stdout, prompt)
			}
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return "", err
			}
			return strings.TrimRight(line, "\r\n"), nil
		}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		opts: opts,
		interp: &Interp{
			scope:    NewScope(),
			logFn:    opts.Log,
			readLine: opts.ReadLine,
			rng:      opts.Rand,
		},
	}
}

// Run executes a complete program and returns its exit code. Errors are
// reported through the Err sink; lifecycle hooks fire in order.
func (e *Engine) Run(src string) int {
	if h := e.opts.Hooks.OnStart; h != nil {
		h()
	}

	prog, err := parser.ParseSource(src)
	if err != nil {
		return e.fail(err)
	}

	for _, stmt := range prog.Stmts {
		out, err := e.interp.eval(stmt)
		if err != nil {
			return e.fail(err)
		}
		switch out.flow {
		case flowBreak:
			return e.fail(types.NewSemanticError("'break' outside loop"))
		case flowContinue:
			return e.fail(types.NewSemanticError("'continue' outside loop"))
		}
	}

	code := int(types.KindSuccess)
	if h := e.opts.Hooks.OnSuccess; h != nil {
		h(code)
	}
	if h := e.opts.Hooks.OnEnd; h != nil {
		h(code)
	}
	return code
}

func (e *Engine) fail(err error) int {
	code := types.ErrorExitCode(err)
	e.opts.Err(err.Error())
	if h := e.opts.Hooks.OnError; h != nil {
		h(code)
	}
	if h := e.opts.Hooks.OnEnd; h != nil {
		h(code)
	}
	return code
}

// EvalLine evaluates a source fragment against the engine's persistent
// scope and returns its final value. Used by the REPL.
func (e *Engine) EvalLine(src string) (types.Value, error) {
	prog, err := parser.ParseSource(src)
	if err != nil {
		return types.Null, err
	}
	last := types.Null
	for _, stmt := range prog.Stmts {
		v, err := e.interp.evalScalar(stmt)
		if err != nil {
			return types.Null, err
		}
		last = v
	}
	return last, nil
}

// ScopeDump renders every binding in sorted order using the debug
// formatter, one "name = value" line per binding.
func (e *Engine) ScopeDump() []string {
	scope := e.interp.scope
	var out []string
	for _, name := range scope.Names() {
		b, _ := scope.Lookup(name)
		line := fmt.Sprintf("%s = %s", name, types.FormatDebug(b.Value))
		if b.Const {
			line = "const " + line
		}
		out = append(out, line)
	}
	return out
}
