package query

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

// unbounded as maxArgs accepts any number of arguments.
const unbounded = -1

// Verb describes one stage kind of the query language.
type Verb struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string

	minArgs int
	maxArgs int
	// lists makes unquoted arguments comma-separated lists.
	lists bool
	build   func(c *Compiler, source pipeline.Operator, args []string) (pipeline.Operator, error)
}

var verbs = []Verb{
	{
		Name: "read", Usage: "read <path>",
		Summary: "open a source file; .parquet files are read as parquet, anything else as delimited text",
		minArgs: 1, maxArgs: 1,
	},
	{
		Name: "schema", Usage: "schema",
		Summary: "replace the rows with one row per column: Name, Type, Nullable",
		build:   buildSchema,
	},
	{
		Name: "select", Aliases: []string{"columns"}, Usage: "select <column> [, <column>...]",
		Summary: "keep the named columns, in the given order",
		minArgs: 1, maxArgs: unbounded, lists: true, build: buildSelect,
	},
	{
		Name: "write", Usage: "write <path>",
		Summary: "write every row passing through to a file; .parquet files are written as parquet",
		minArgs: 1, maxArgs: 1, build: buildWrite,
	},
	{
		Name: "limit", Usage: "limit <rows>",
		Summary: "stop after the given number of rows",
		minArgs: 1, maxArgs: 1, build: buildLimit,
	},
	{
		Name: "cast", Aliases: []string{"convert"}, Usage: "cast <column> <type> [default] [strict]",
		Summary: "convert a column to int, bool, datetime or string8; strict (the default) fails on bad values",
		minArgs: 2, maxArgs: 4, build: buildCast,
	},
	{
		Name: "where", Usage: "where <column> <operator> <value>",
		Summary: "keep rows where the comparison holds; operators are < <= > >= = == != <>",
		minArgs: 3, maxArgs: 3, build: buildWhere,
	},
	{
		Name: "count", Usage: "count",
		Summary: "replace the rows with a single Count row",
		build:   buildCount,
	},
	{
		Name: "function", Aliases: []string{"func"}, Usage: "function <name> <result column> <input column>...",
		Summary: "add a column computed by a registered function",
		minArgs: 3, maxArgs: unbounded, build: buildFunction,
	},
	{
		Name: "string8transform", Usage: "string8transform <name> <result column> <source column> [args...]",
		Summary: "add a string8 column computed by a registered transformer",
		minArgs: 3, maxArgs: unbounded, build: buildString8Transform,
	},
	{
		Name: "distinct", Usage: "distinct <column>",
		Summary: "keep the first row for each value of the column",
		minArgs: 1, maxArgs: 1, build: buildDistinct,
	},
}

var verbIndex = indexVerbs(verbs)

func indexVerbs(all []Verb) map[string]*Verb {
	index := make(map[string]*Verb)
	for i := range all {
		index[all[i].Name] = &all[i]
		for _, alias := range all[i].Aliases {
			index[alias] = &all[i]
		}
	}
	return index
}

// Verbs returns every verb of the query language.
func Verbs() []Verb {
	return append([]Verb(nil), verbs...)
}

func lookupVerb(name string) (*Verb, bool) {
	v, ok := verbIndex[strings.ToLower(name)]
	return v, ok
}

// arguments returns the argument texts. For list verbs an unquoted part
// is split on commas; a quoted part is always one argument.
func (v *Verb) arguments(parts []Part) []string {
	args := make([]string, 0, len(parts))
	for _, part := range parts {
		if !v.lists || part.Quoted {
			args = append(args, part.Text)
			continue
		}
		for _, item := range strings.Split(part.Text, ",") {
			if item = strings.TrimSpace(item); item != "" {
				args = append(args, item)
			}
		}
	}
	return args
}

func (v *Verb) checkArgs(args []string) error {
	if len(args) < v.minArgs || (v.maxArgs != unbounded && len(args) > v.maxArgs) {
		return errors.Wrapf(ErrUsage, "got %d arguments; usage: %s", len(args), v.Usage)
	}
	return nil
}

func buildSchema(_ *Compiler, source pipeline.Operator, _ []string) (pipeline.Operator, error) {
	return pipeline.NewSchemaTransformer(source), nil
}

func buildSelect(_ *Compiler, source pipeline.Operator, args []string) (pipeline.Operator, error) {
	return pipeline.NewColumnSelector(source, args)
}

func buildWrite(c *Compiler, source pipeline.Operator, args []string) (pipeline.Operator, error) {
	return c.OpenSink(source, args[0])
}

func buildLimit(_ *Compiler, source pipeline.Operator, args []string) (pipeline.Operator, error) {
	limit, err := strconv.Atoi(args[0])
	if err != nil || limit < 0 {
		return nil, errors.Wrapf(ErrUsage, "limit %q is not a non-negative integer", args[0])
	}
	return pipeline.NewRowLimiter(source, limit), nil
}

func buildCast(_ *Compiler, source pipeline.Operator, args []string) (pipeline.Operator, error) {
	target, err := data.ParseColumnType(args[1])
	if err != nil {
		return nil, err
	}

	var defaultValue *string
	if len(args) > 2 {
		defaultValue = &args[2]
		if _, err := data.ParseValue(target, args[2]); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "default value"), ErrUsage)
		}
	}

	strict := true
	if len(args) > 3 {
		if strict, err = strconv.ParseBool(args[3]); err != nil {
			return nil, errors.Wrapf(ErrUsage, "strict %q is not a bool", args[3])
		}
	}

	return pipeline.NewTypeConverter(source, args[0], target, defaultValue, strict)
}

func buildWhere(_ *Compiler, source pipeline.Operator, args []string) (pipeline.Operator, error) {
	op, err := pipeline.ParseCompareOperator(args[1])
	if err != nil {
		return nil, err
	}
	index, err := source.Schema().IndexOf(args[0])
	if err != nil {
		return nil, err
	}
	colType := source.Schema()[index].Type
	if _, err := data.ParseValue(colType, args[2]); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "value for %s column", colType), ErrUsage)
	}
	return pipeline.NewWhereFilter(source, args[0], op, args[2])
}

func buildCount(_ *Compiler, source pipeline.Operator, _ []string) (pipeline.Operator, error) {
	return pipeline.NewCountAggregator(source), nil
}

func buildFunction(c *Compiler, source pipeline.Operator, args []string) (pipeline.Operator, error) {
	def, err := c.Functions.Lookup(args[0])
	if err != nil {
		return nil, err
	}
	inputs := args[2:]
	if err := def.CheckArity(len(inputs)); err != nil {
		return nil, errors.Mark(err, ErrUsage)
	}
	return pipeline.NewFunction(source, def.New(), def.ResultType, args[1], inputs)
}

func buildString8Transform(c *Compiler, source pipeline.Operator, args []string) (pipeline.Operator, error) {
	def, err := c.Transformers.Lookup(args[0])
	if err != nil {
		return nil, err
	}
	transformer, err := def.New(args[3:])
	if err != nil {
		return nil, errors.Mark(err, ErrUsage)
	}
	return pipeline.NewString8Transform(source, transformer, args[2], args[1])
}

func buildDistinct(_ *Compiler, source pipeline.Operator, args []string) (pipeline.Operator, error) {
	return pipeline.NewDistinct(source, args[0])
}
