// Package expr compiles algebraic expressions into numeric functions of x.
//
// The engine never interprets expressions itself; it consumes a [Compiler]
// and evaluates the resulting [Func] at sample points. Any failure at a point
// (compile error, runtime error, NaN, ±Inf) means "no value at this x" and is
// reported through the boolean of [Eval] rather than propagated.
//
// # Compilers
//
//   - [NewCompiler]: expressions in x backed by github.com/expr-lang/expr
//   - [Static]: fixed Go functions keyed by expression text, for tests and embedding
//   - [Memo]: wraps another compiler and reuses compiled code per expression
//
// # Syntax
//
// NewCompiler accepts the usual infix operators with ^ (or **) for powers,
// the constants pi and e, and the functions sin, cos, tan, asin, acos, atan,
// sqrt, exp, ln, log, log10, pow, sign together with the expr builtins abs,
// floor, ceil, round, min and max:
//
//	c := expr.NewCompiler()
//	f, err := c.Compile("x^2 - 2*sin(x)")
//	y, ok := expr.Eval(f, 1.5)
package expr
