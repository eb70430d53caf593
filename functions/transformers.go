package functions

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// ErrUnknownTransformer is returned when a transformer name is not registered.
var ErrUnknownTransformer = errors.New("unknown transformer")

// ErrTransformerArgs is returned when a transformer is given the wrong arguments.
var ErrTransformerArgs = errors.New("invalid transformer arguments")

// CosmosNull is the marker Cosmos exports write for a missing value.
const CosmosNull = "#NULL#"

// TransformerDefinition builds a string8 transformer. New validates the
// arguments, so a bad argument list fails when the pipeline is compiled.
type TransformerDefinition struct {
	Name string
	New  func(args []string) (pipeline.Transformer, error)
}

// TransformerRegistry resolves transformer names, case-insensitively.
type TransformerRegistry struct {
	definitions map[string]TransformerDefinition
}

// NewTransformerRegistry builds a registry from defs; names must be unique.
func NewTransformerRegistry(defs ...TransformerDefinition) (*TransformerRegistry, error) {
	r := &TransformerRegistry{definitions: make(map[string]TransformerDefinition, len(defs))}
	for _, def := range defs {
		key := strings.ToLower(def.Name)
		if _, exists := r.definitions[key]; exists {
			return nil, errors.Newf("transformer %q registered twice", def.Name)
		}
		r.definitions[key] = def
	}
	return r, nil
}

// Lookup returns the transformer definition registered under name.
func (r *TransformerRegistry) Lookup(name string) (TransformerDefinition, error) {
	def, ok := r.definitions[strings.ToLower(name)]
	if !ok {
		return TransformerDefinition{}, errors.Wrapf(ErrUnknownTransformer, "%q", name)
	}
	return def, nil
}

// Names returns the registered names, sorted.
func (r *TransformerRegistry) Names() []string {
	names := make([]string, 0, len(r.definitions))
	for _, def := range r.definitions {
		names = append(names, def.Name)
	}
	slices.Sort(names)
	return names
}

// BuiltinTransformers returns the definitions of the built-in transformers.
func BuiltinTransformers() []TransformerDefinition {
	return []TransformerDefinition{
		{Name: "trimtoupper", New: noArgs("trimtoupper", TrimToUpper)},
		{Name: "cosmosnulltoempty", New: noArgs("cosmosnulltoempty", func(s string) string {
			if s == CosmosNull {
				return ""
			}
			return s
		})},
		{Name: "emptytodefault", New: newEmptyToDefault},
	}
}

// DefaultTransformers returns a registry holding the built-in transformers.
func DefaultTransformers() *TransformerRegistry {
	r, err := NewTransformerRegistry(BuiltinTransformers()...)
	if err != nil {
		panic(err)
	}
	return r
}

// valueTransformer applies f to every value. Nulls stay null unless
// nullValue is set, in which case they are replaced by it.
type valueTransformer struct {
	f         func(string) string
	nullValue *string
	buffer    pipeline.ColumnBuffer
}

func (t *valueTransformer) Transform(batch data.Batch) (data.Batch, error) {
	in, ok := batch.Array.([]string)
	if !ok {
		return data.Batch{}, errors.Newf("transformer input holds %T, expected string8", batch.Array)
	}

	nulls := t.buffer.ResetNulls()
	out := t.buffer.Array(data.String8, batch.Count).([]string)
	for i := 0; i < batch.Count; i++ {
		if batch.IsNull(i) {
			if t.nullValue != nil {
				out[i] = *t.nullValue
			} else {
				nulls.Add(uint32(i))
			}
			continue
		}
		out[i] = t.f(in[batch.Index(i)])
	}
	return t.buffer.Batch(out, batch.Count), nil
}

func noArgs(name string, f func(string) string) func(args []string) (pipeline.Transformer, error) {
	return func(args []string) (pipeline.Transformer, error) {
		if len(args) != 0 {
			return nil, errors.Wrapf(ErrTransformerArgs, "%s takes no arguments, got %d", name, len(args))
		}
		return &valueTransformer{f: f}, nil
	}
}

// newEmptyToDefault replaces empty and null values with its one argument.
func newEmptyToDefault(args []string) (pipeline.Transformer, error) {
	if len(args) != 1 {
		return nil, errors.Wrapf(ErrTransformerArgs, "emptytodefault takes 1 argument (the default value), got %d", len(args))
	}
	fallback := args[0]
	return &valueTransformer{
		f: func(s string) string {
			if s == "" {
				return fallback
			}
			return s
		},
		nullValue: &fallback,
	}, nil
}
