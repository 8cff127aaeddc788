// Package cond evaluates #if/#elif conditions with expr-lang.
//
// The parsed expression is translated into an expr-lang program. Identifiers
// become positional aliases (v0, v1, ...) bound per evaluation, so names that
// expr-lang would read as keywords or builtins (len, not, in) stay plain
// variables.
package cond

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"hscript/internal/ast"
)

// Vars holds condition variables. Values are strings, ints, floats or bools;
// an unknown identifier evaluates to nil.
type Vars map[string]any

// Evaluator evaluates conditions against a fixed variable set. It is safe for
// concurrent use; compiled programs are cached by translated source.
type Evaluator struct {
	vars Vars

	mu    sync.Mutex
	cache map[string]*vm.Program
}

// New creates an evaluator over vars. vars is not copied.
func New(vars Vars) *Evaluator {
	if vars == nil {
		vars = Vars{}
	}
	return &Evaluator{vars: vars, cache: make(map[string]*vm.Program)}
}

// Vars returns the variable set.
func (e *Evaluator) Vars() Vars {
	return e.vars
}

// Eval evaluates x and applies Truthy.
func (e *Evaluator) Eval(x ast.Expr) (bool, error) {
	v, err := e.Value(x)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

// Value evaluates x and returns the raw result.
func (e *Evaluator) Value(x ast.Expr) (any, error) {
	src, names, err := Translate(x)
	if err != nil {
		return nil, err
	}
	prg, err := e.compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", ast.FormatExpr(x), err)
	}
	env := make(map[string]any, len(names))
	for i, n := range names {
		env[alias(i)] = e.vars[n]
	}
	out, err := expr.Run(prg, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", ast.FormatExpr(x), err)
	}
	return out, nil
}

func (e *Evaluator) compile(src string) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if prg, ok := e.cache[src]; ok {
		return prg, nil
	}
	prg, err := expr.Compile(src,
		expr.AllowUndefinedVariables(),
		expr.Function(truthyFunc, func(params ...any) (any, error) {
			return Truthy(params[0]), nil
		}, new(func(any) bool)),
	)
	if err != nil {
		return nil, err
	}
	e.cache[src] = prg
	return prg, nil
}

// Translate renders x as expr-lang source. names[i] is the variable bound to
// alias vi. Every operation is parenthesised, so expr-lang precedence never
// applies.
func Translate(x ast.Expr) (src string, names []string, err error) {
	t := translator{index: make(map[string]int)}
	if err := t.expr(x); err != nil {
		return "", nil, err
	}
	return t.sb.String(), t.names, nil
}

type translator struct {
	sb    strings.Builder
	names []string
	index map[string]int
}

func (t *translator) expr(x ast.Expr) error {
	switch n := x.(type) {
	case *ast.Equality:
		return t.binary(n.Left, n.Op.String(), n.Right)
	case *ast.Term:
		return t.binary(n.Left, n.Op.String(), n.Right)
	case *ast.Factor:
		return t.binary(n.Left, n.Op.String(), n.Right)
	case *ast.Unary:
		// ! следует нашей truthiness, а не требованию bool в expr-lang
		if n.Op == ast.UnaryOpNot {
			t.sb.WriteString("(!" + truthyFunc + "(")
		} else {
			t.sb.WriteString("(" + n.Op.String() + "(")
		}
		if err := t.expr(n.X); err != nil {
			return err
		}
		t.sb.WriteString("))")
		return nil
	case *ast.Primary:
		switch v := n.Value.(type) {
		case *ast.Ident:
			t.sb.WriteString(t.bind(v.Name))
		case *ast.StrLit:
			t.sb.WriteString(strconv.Quote(v.Content))
		default:
			return fmt.Errorf("cond: unexpected primary %T", v)
		}
		return nil
	}
	return fmt.Errorf("cond: unexpected expression %T", x)
}

func (t *translator) binary(l ast.Expr, op string, r ast.Expr) error {
	t.sb.WriteString("(")
	if err := t.expr(l); err != nil {
		return err
	}
	t.sb.WriteString(" " + op + " ")
	if err := t.expr(r); err != nil {
		return err
	}
	t.sb.WriteString(")")
	return nil
}

func (t *translator) bind(name string) string {
	i, ok := t.index[name]
	if !ok {
		i = len(t.names)
		t.index[name] = i
		t.names = append(t.names, name)
	}
	return alias(i)
}

// truthyFunc cannot clash with a user name: identifiers are always aliased.
const truthyFunc = "truthy"

func alias(i int) string {
	return "v" + strconv.Itoa(i)
}

// Truthy: bool as is, nil and "" false, numeric zero false, anything else true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	case uint:
		return x != 0
	case uint64:
		return x != 0
	case float64:
		return x != 0
	case float32:
		return x != 0
	}
	return true
}

// ParseAssignment parses a "name=value" command-line assignment. Values
// "true"/"false" become bools and decimal integers become ints; everything
// else stays a string.
func ParseAssignment(kv string) (string, any, error) {
	name, raw, ok := strings.Cut(kv, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid variable %q, want name=value", kv)
	}
	return name, Coerce(raw), nil
}

// Coerce converts a textual value as ParseAssignment does.
func Coerce(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}
