package query

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/vegasq/colflow/functions"
	"github.com/vegasq/colflow/output"
	"github.com/vegasq/colflow/pipeline"
	"github.com/vegasq/colflow/reader"
)

var (
	// ErrUnknownVerb is returned for a stage whose first part is not a verb.
	ErrUnknownVerb = errors.New("unknown verb")
	// ErrUsage is returned for a wrong argument count or a malformed argument.
	ErrUsage = errors.New("invalid usage")
	// ErrReadNotFirst is returned for a read stage after the first stage.
	ErrReadNotFirst = errors.New("read must be the first stage")
	// ErrNoSource is returned when the first stage is not a read.
	ErrNoSource = errors.New("query must start with read")
	// ErrEmptyQuery is returned for a query without stages.
	ErrEmptyQuery = errors.New("query has no stages")
)

// CompileError reports the stage that failed to compile.
type CompileError struct {
	// Line is the 1-based line of the stage in the query text, or 0 when
	// the stage was compiled on its own.
	Line   int
	Stage  string
	Verb   string
	Reason string
	Err    error
}

func (e *CompileError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.Verb != "" {
		fmt.Fprintf(&b, "%s: ", e.Verb)
	}
	b.WriteString(e.Reason)
	fmt.Fprintf(&b, " (stage %q)", e.Stage)
	return b.String()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Compiler turns query text into a chain of operators.
type Compiler struct {
	Functions    *functions.Registry
	Transformers *functions.TransformerRegistry

	// OpenSource opens the file named by a read stage.
	OpenSource func(path string) (pipeline.Operator, error)
	// OpenSink wraps the chain in the sink named by a write stage.
	OpenSink func(source pipeline.Operator, path string) (pipeline.Operator, error)

	Logger *zap.Logger
}

// NewCompiler returns a compiler using the built-in functions and
// transformers, the file readers and writers, and sinks configured by opts.
func NewCompiler(logger *zap.Logger, opts output.Options) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{
		Functions:    functions.Default(),
		Transformers: functions.DefaultTransformers(),
		OpenSource:   reader.Open,
		OpenSink: func(source pipeline.Operator, path string) (pipeline.Operator, error) {
			return output.Open(source, path, opts)
		},
		Logger: logger,
	}
}

func (c *Compiler) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Compile builds the operator chain for text, one stage per line. Blank
// lines and lines starting with # are skipped. On failure every operator
// already built is closed; no row is read either way.
func (c *Compiler) Compile(text string) (pipeline.Operator, error) {
	var chain pipeline.Operator
	stages := 0

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		next, err := c.compileStage(chain, i+1, line)
		if err != nil {
			if chain != nil {
				if closeErr := chain.Close(); closeErr != nil {
					c.logger().Warn("failed to close partial pipeline", zap.Error(closeErr))
				}
			}
			return nil, err
		}
		chain = next
		stages++
	}

	if chain == nil {
		return nil, &CompileError{Reason: ErrEmptyQuery.Error(), Err: ErrEmptyQuery}
	}
	c.logger().Debug("query compiled", zap.Int("stages", stages), zap.Strings("columns", chain.Schema().Names()))
	return chain, nil
}

// CompileStage adds one stage on top of source. source is nil only for
// the first stage, which must be a read. When the stage fails, source is
// left open for the caller.
func (c *Compiler) CompileStage(source pipeline.Operator, line string) (pipeline.Operator, error) {
	return c.compileStage(source, 0, strings.TrimSpace(line))
}

func (c *Compiler) compileStage(source pipeline.Operator, lineNo int, line string) (pipeline.Operator, error) {
	fail := func(verb string, err error) error {
		return &CompileError{Line: lineNo, Stage: line, Verb: verb, Reason: err.Error(), Err: err}
	}

	parts, err := SplitParts(line)
	if err != nil {
		return nil, fail("", err)
	}
	if len(parts) == 0 {
		return nil, fail("", errors.Wrap(ErrUsage, "empty stage"))
	}

	name := parts[0].Text
	verb, ok := lookupVerb(name)
	if !ok {
		return nil, fail(name, errors.Wrapf(ErrUnknownVerb, "%q", name))
	}
	args := verb.arguments(parts[1:])
	if err := verb.checkArgs(args); err != nil {
		return nil, fail(verb.Name, err)
	}

	var op pipeline.Operator
	switch {
	case verb.Name == "read" && source != nil:
		return nil, fail(verb.Name, ErrReadNotFirst)
	case verb.Name == "read":
		op, err = c.OpenSource(args[0])
	case source == nil:
		return nil, fail(verb.Name, ErrNoSource)
	default:
		op, err = verb.build(c, source, args)
	}
	if err != nil {
		return nil, fail(verb.Name, err)
	}

	c.logger().Debug("compiled stage",
		zap.Int("line", lineNo),
		zap.String("verb", verb.Name),
		zap.Strings("columns", op.Schema().Names()))
	return op, nil
}
