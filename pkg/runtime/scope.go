package runtime

import (
	"sort"

	"github.com/luz-lang/luz/pkg/types"
)

// Binding is one variable slot: its current value and whether the binding
// itself is frozen. Constness protects the binding, not the heap behind it.
type Binding struct {
	Value types.Value
	Const bool
}

// Scope is the flat variable store. There is no lexical nesting: blocks and
// loop iterations open a frame that records which names they introduced, and
// closing the frame removes exactly those names. Writes to pre-existing
// names from inside a frame persist after it closes.
type Scope struct {
	vars   map[string]*Binding
	frames [][]string
}

// NewScope creates an empty scope store.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]*Binding)}
}

// Lookup returns the binding for name.
func (s *Scope) Lookup(name string) (*Binding, bool) {
	b, ok := s.vars[name]
	return b, ok
}

// Get returns the current value of name.
func (s *Scope) Get(name string) (types.Value, bool) {
	if b, ok := s.vars[name]; ok {
		return b.Value, true
	}
	return types.Null, false
}

// Set writes name, introducing it in the current frame when new. Writing a
// const binding fails.
func (s *Scope) Set(name string, v types.Value) error {
	if b, ok := s.vars[name]; ok {
		if b.Const {
			return types.NewSemanticError("cannot assign to constant %q", name)
		}
		b.Value = v
		return nil
	}
	s.vars[name] = &Binding{Value: v}
	s.introduce(name)
	return nil
}

// Declare binds name, optionally as a constant. An existing const binding
// cannot be redeclared.
func (s *Scope) Declare(name string, v types.Value, isConst bool) error {
	if b, ok := s.vars[name]; ok {
		if b.Const {
			return types.NewSemanticError("cannot assign to constant %q", name)
		}
		b.Value = v
		b.Const = isConst
		return nil
	}
	s.vars[name] = &Binding{Value: v, Const: isConst}
	s.introduce(name)
	return nil
}

// Delete removes name from the store.
func (s *Scope) Delete(name string) {
	delete(s.vars, name)
}

// Has reports whether name is bound.
func (s *Scope) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Push opens a block or iteration frame.
func (s *Scope) Push() {
	s.frames = append(s.frames, nil)
}

// Pop closes the innermost frame, removing every name it introduced.
func (s *Scope) Pop() {
	if len(s.frames) == 0 {
		return
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	for _, name := range top {
		delete(s.vars, name)
	}
}

func (s *Scope) introduce(name string) {
	if len(s.frames) == 0 {
		return
	}
	s.frames[len(s.frames)-1] = append(s.frames[len(s.frames)-1], name)
}

// Names returns all bound names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
