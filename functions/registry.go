package functions

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// ErrUnknownFunction is returned when a function name is not registered.
var ErrUnknownFunction = errors.New("unknown function")

// ErrArity is returned when a function gets a number of inputs outside its range.
var ErrArity = errors.New("wrong number of function inputs")

// Unbounded as MaxInputs accepts any number of inputs from MinInputs up.
const Unbounded = -1

// Definition describes a column function. New is called once per stage so
// every stage owns its scratch buffers.
type Definition struct {
	Name       string
	ResultType data.ColumnType
	MinInputs  int
	MaxInputs  int
	New        func() pipeline.ColumnFunc
}

// CheckArity validates an input count against the definition.
func (d Definition) CheckArity(inputs int) error {
	if inputs < d.MinInputs || (d.MaxInputs != Unbounded && inputs > d.MaxInputs) {
		return errors.Wrapf(ErrArity, "%s takes %s inputs, got %d", d.Name, d.arity(), inputs)
	}
	return nil
}

func (d Definition) arity() string {
	switch {
	case d.MaxInputs == Unbounded:
		return strconv.Itoa(d.MinInputs) + " or more"
	case d.MinInputs == d.MaxInputs:
		return strconv.Itoa(d.MinInputs)
	default:
		return strconv.Itoa(d.MinInputs) + " to " + strconv.Itoa(d.MaxInputs)
	}
}

// Registry resolves function names to definitions. It is built once and
// never modified, so it can be shared freely.
type Registry struct {
	definitions map[string]Definition
}

// NewRegistry builds a registry from defs. Names are case-insensitive and
// must be unique.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{definitions: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		key := strings.ToUpper(def.Name)
		if _, exists := r.definitions[key]; exists {
			return nil, errors.Newf("function %q registered twice", def.Name)
		}
		if def.New == nil {
			return nil, errors.Newf("function %q has no implementation", def.Name)
		}
		r.definitions[key] = def
	}
	return r, nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, error) {
	def, ok := r.definitions[strings.ToUpper(name)]
	if !ok {
		return Definition{}, errors.Wrapf(ErrUnknownFunction, "%q", name)
	}
	return def, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.definitions))
	for _, def := range r.definitions {
		names = append(names, def.Name)
	}
	slices.Sort(names)
	return names
}

// Builtins returns the definitions of the built-in functions.
func Builtins() []Definition {
	return []Definition{
		{Name: "Conflux.NetBiosOrDnsToMachineName", ResultType: data.String8, MinInputs: 2, MaxInputs: 2, New: newMachineName},
		{Name: "String.Concat", ResultType: data.String8, MinInputs: 1, MaxInputs: Unbounded, New: newConcat},
		{Name: "String.Length", ResultType: data.Int, MinInputs: 1, MaxInputs: 1, New: newLength},
		{Name: "String.ToUpper", ResultType: data.String8, MinInputs: 1, MaxInputs: 1, New: mapString(strings.ToUpper)},
		{Name: "String.ToLower", ResultType: data.String8, MinInputs: 1, MaxInputs: 1, New: mapString(strings.ToLower)},
	}
}

// Default returns a registry holding the built-in functions.
func Default() *Registry {
	r, err := NewRegistry(Builtins()...)
	if err != nil {
		panic(err)
	}
	return r
}
