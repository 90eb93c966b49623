package expr

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/matzehuels/graphplane/pkg/errors"
)

// Func is a compiled expression in one real variable.
type Func func(x float64) (float64, error)

// Compiler turns expression text into a Func.
type Compiler interface {
	Compile(expression string) (Func, error)
}

// Eval evaluates f at x. ok is false when f fails, panics, or yields a
// non-finite value.
func Eval(f Func, x float64) (y float64, ok bool) {
	if f == nil {
		return 0, false
	}
	defer func() {
		if recover() != nil {
			y, ok = 0, false
		}
	}()
	v, err := f(x)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// =============================================================================
// expr-lang adapter
// =============================================================================

type langCompiler struct {
	options []expr.Option
}

// NewCompiler returns a Compiler backed by github.com/expr-lang/expr.
func NewCompiler() Compiler {
	opts := []expr.Option{
		expr.Env(map[string]any{"x": 0.0, "pi": math.Pi, "e": math.E}),
		unary("sin", math.Sin),
		unary("cos", math.Cos),
		unary("tan", math.Tan),
		unary("asin", math.Asin),
		unary("acos", math.Acos),
		unary("atan", math.Atan),
		unary("sqrt", math.Sqrt),
		unary("exp", math.Exp),
		unary("ln", math.Log),
		unary("log", math.Log),
		unary("log10", math.Log10),
		unary("sign", sign),
		binary("pow", math.Pow),
	}
	return &langCompiler{options: opts}
}

// Compile parses and type-checks expression.
func (c *langCompiler) Compile(expression string) (Func, error) {
	if err := errors.ValidateExpression(expression); err != nil {
		return nil, err
	}
	program, err := expr.Compile(expression, c.options...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidExpression, err, "compile %q", expression)
	}
	return run(program), nil
}

func run(program *vm.Program) Func {
	return func(x float64) (float64, error) {
		out, err := expr.Run(program, map[string]any{"x": x, "pi": math.Pi, "e": math.E})
		if err != nil {
			return 0, err
		}
		return toFloat(out)
	}
}

func unary(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
		}
		v, err := toFloat(params[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return fn(v), nil
	})
}

func binary(name string, fn func(float64, float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(params))
		}
		a, err := toFloat(params[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		b, err := toFloat(params[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return fn(a, b), nil
	})
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

// =============================================================================
// Static compiler
// =============================================================================

// Static is a Compiler over a fixed set of Go functions keyed by expression text.
type Static map[string]func(x float64) float64

// Compile returns the function registered for expression.
func (s Static) Compile(expression string) (Func, error) {
	fn, ok := s[expression]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidExpression, "unknown expression %q", expression)
	}
	return func(x float64) (float64, error) { return fn(x), nil }, nil
}
