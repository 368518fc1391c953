package interp

import (
	"slices"
	"strconv"
	"strings"

	"github.com/arnavsurve/pascal/internal/compiler/lib"
)

type Kind int

const (
	KindInteger Kind = iota
	KindReal
)

func (k Kind) String() string {
	if k == KindReal {
		return "REAL"
	}
	return "INTEGER"
}

// Value is a runtime integer or real.
type Value struct {
	Kind Kind
	Int  int64
	Real float64
}

func IntValue(n int64) Value     { return Value{Kind: KindInteger, Int: n} }
func RealValue(f float64) Value { return Value{Kind: KindReal, Real: f} }

func (v Value) IsInteger() bool { return v.Kind == KindInteger }

// Float returns the value promoted to a real.
func (v Value) Float() float64 {
	if v.IsInteger() {
		return float64(v.Int)
	}
	return v.Real
}

// Native returns the value as an int64 or a float64.
func (v Value) Native() any {
	if v.IsInteger() {
		return v.Int
	}
	return v.Real
}

func (v Value) String() string {
	if v.IsInteger() {
		return strconv.FormatInt(v.Int, 10)
	}
	return lib.FormatReal(v.Real)
}

// Binding is one reported variable.
type Binding struct {
	Name  string
	Value Value
}

// Store is the flat global variable store, keyed by canonical name.
type Store struct {
	values map[string]Value
}

func NewStore() *Store {
	return &Store{values: make(map[string]Value)}
}

func (s *Store) Set(name string, v Value) {
	s.values[lib.CanonicalName(name)] = v
}

func (s *Store) Get(name string) (Value, bool) {
	v, ok := s.values[lib.CanonicalName(name)]
	return v, ok
}

func (s *Store) Len() int {
	return len(s.values)
}

// Bindings returns every stored variable sorted by name.
func (s *Store) Bindings() []Binding {
	out := make([]Binding, 0, len(s.values))
	for name, v := range s.values {
		out = append(out, Binding{Name: name, Value: v})
	}
	slices.SortFunc(out, func(a, b Binding) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
