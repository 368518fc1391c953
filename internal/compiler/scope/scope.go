package scope

import (
	"fmt"
	"log/slog"

	"github.com/arnavsurve/pascal/internal/compiler/diag"
	"github.com/arnavsurve/pascal/internal/compiler/lib"
	"github.com/arnavsurve/pascal/internal/compiler/symbols"
	"github.com/arnavsurve/pascal/internal/compiler/token"
)

// --- Scope ---
type Scope struct {
	Name   string
	Level  int // 0 for the global scope
	Parent int // index of the enclosing scope in the table, -1 for none

	symbols map[string]symbols.Symbol
	order   []string
}

func newScope(name string, level, parent int) *Scope {
	s := &Scope{
		Name:    name,
		Level:   level,
		Parent:  parent,
		symbols: make(map[string]symbols.Symbol),
	}
	for _, b := range symbols.Builtins() {
		s.insert(b)
	}
	return s
}

func (s *Scope) insert(sym symbols.Symbol) {
	name := lib.CanonicalName(sym.SymbolName())
	s.symbols[name] = sym
	s.order = append(s.order, name)
}

// Define adds a symbol ONLY to this scope level. Enclosing scopes are not
// consulted, so shadowing an outer name is allowed.
func (s *Scope) Define(sym symbols.Symbol) error {
	name := lib.CanonicalName(sym.SymbolName())
	if prev, exists := s.symbols[name]; exists {
		return &diag.DuplicateNameError{Name: name, Previous: prev.DefinedAt(), Current: sym.DefinedAt()}
	}
	s.insert(sym)
	return nil
}

// LookupCurrentScope checks ONLY this scope level.
func (s *Scope) LookupCurrentScope(name string) (symbols.Symbol, bool) {
	sym, ok := s.symbols[lib.CanonicalName(name)]
	return sym, ok
}

// Symbols returns the symbols defined in this scope in definition order,
// builtins first.
func (s *Scope) Symbols() []symbols.Symbol {
	out := make([]symbols.Symbol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.symbols[name])
	}
	return out
}

// --- Table ---

// Table is a stack of scopes. The top of the stack is the current scope;
// each scope finds its enclosing scope by index.
type Table struct {
	scopes []*Scope
	logger *slog.Logger
}

type Option func(*Table)

// WithLogger logs every define and lookup at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func NewTable(opts ...Option) *Table {
	t := &Table{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Push opens a scope nested in the current one and makes it current.
func (t *Table) Push(name string) *Scope {
	parent, level := -1, 0
	if cur := t.Current(); cur != nil {
		parent, level = len(t.scopes)-1, cur.Level+1
	}
	s := newScope(name, level, parent)
	t.scopes = append(t.scopes, s)
	t.logger.Debug("enter scope", "scope", name, "level", level)
	return s
}

// Pop discards the current scope; its parent becomes current.
func (t *Table) Pop() {
	cur := t.Current()
	if cur == nil {
		return
	}
	t.logger.Debug("leave scope", "scope", cur.Name, "level", cur.Level)
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Current returns the innermost open scope, or nil.
func (t *Table) Current() *Scope {
	if len(t.scopes) == 0 {
		return nil
	}
	return t.scopes[len(t.scopes)-1]
}

// Depth is the number of open scopes.
func (t *Table) Depth() int {
	return len(t.scopes)
}

// Define adds sym to the current scope.
func (t *Table) Define(sym symbols.Symbol) error {
	cur := t.Current()
	if cur == nil {
		return fmt.Errorf("scope: cannot define %q: no open scope", sym.SymbolName())
	}
	t.logger.Debug("define", "symbol", sym.String(), "scope", cur.Name)
	return cur.Define(sym)
}

// Lookup resolves name in the current scope, then each enclosing scope
// outwards.
func (t *Table) Lookup(name string, pos token.Position) (symbols.Symbol, error) {
	name = lib.CanonicalName(name)
	t.logger.Debug("lookup", "name", name, "pos", pos.String())

	for i := len(t.scopes) - 1; i >= 0; i = t.scopes[i].Parent {
		if sym, ok := t.scopes[i].symbols[name]; ok {
			return sym, nil
		}
	}
	return nil, &diag.MissingNameError{Name: name, Pos: pos}
}

// LookupCurrentScope checks ONLY the current scope level.
func (t *Table) LookupCurrentScope(name string) (symbols.Symbol, bool) {
	cur := t.Current()
	if cur == nil {
		return nil, false
	}
	return cur.LookupCurrentScope(name)
}
