package directive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hscript/internal/ast"
	"hscript/internal/diag"
)

// DefaultMaxIncludeDepth bounds nested #include chains.
const DefaultMaxIncludeDepth = 32

// Unit is a loaded include target.
type Unit struct {
	// Key identifies the unit for cycle detection, usually a clean path.
	Key     string
	Program *ast.Program
}

// Loader resolves the argument of #include. from is the key of the including
// unit. ErrNotFound (possibly wrapped) becomes DIR3002; a *diag.Error is
// passed through unchanged.
type Loader interface {
	Load(ctx context.Context, name, from string) (Unit, error)
}

// ErrNotFound is returned by loaders when an include target does not exist.
var ErrNotFound = errors.New("include not found")

// Evaluator decides #if/#elif conditions.
type Evaluator interface {
	Eval(x ast.Expr) (bool, error)
}

// Config configures directive expansion.
type Config struct {
	Registry        *Registry
	Loader          Loader
	Evaluator       Evaluator
	MaxIncludeDepth int
	// Reporter receives warnings about directives that expand to nothing.
	Reporter diag.Reporter
	Logger   *slog.Logger
}

// Result is the outcome of expanding one root program.
type Result struct {
	Tags []*ast.Tag
	// Includes lists every loaded unit key once, in first-load order.
	Includes []string
	// Taken and Skipped count #if/#elif/#else branches.
	Taken   int
	Skipped int
}

// Expander resolves includes and conditionals into a flat list of tags.
// An Expander is safe for concurrent use if its Loader and Evaluator are.
type Expander struct {
	cfg Config
}

// NewExpander creates a directive expander.
func NewExpander(cfg Config) *Expander {
	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry()
	}
	if cfg.MaxIncludeDepth <= 0 {
		cfg.MaxIncludeDepth = DefaultMaxIncludeDepth
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Expander{cfg: cfg}
}

// Expand expands prog, whose unit key is rootKey.
func (x *Expander) Expand(ctx context.Context, prog *ast.Program, rootKey string) (*Result, error) {
	st := &expandState{
		res:  &Result{},
		seen: map[string]bool{},
	}
	if err := x.expandUnit(ctx, st, prog, []frameRef{{key: rootKey}}); err != nil {
		return nil, err
	}
	return st.res, nil
}

type expandState struct {
	res  *Result
	seen map[string]bool
}

// frameRef: звено цепочки include: ключ файла и директива, которая его подключила.
type frameRef struct {
	key string
	at  *ast.Command
}

// branch: состояние одной цепочки #if ... #end.
type branch struct {
	open         *ast.Command
	parentActive bool
	active       bool
	taken        bool
	seenElse     bool
}

func (x *Expander) expandUnit(ctx context.Context, st *expandState, prog *ast.Program, chain []frameRef) error {
	var stack []*branch
	active := func() bool {
		return len(stack) == 0 || stack[len(stack)-1].active
	}

	for _, d := range prog.Decls {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch n := d.(type) {
		case *ast.Tag:
			if active() {
				st.res.Tags = append(st.res.Tags, n)
			}
		case *ast.Command:
			spec, ok := x.cfg.Registry.Lookup(n.Name)
			if !ok {
				return diag.Errorf(diag.DirUnknown, n.NameSpan, "unknown directive #%s", n.Name)
			}
			switch spec.Role {
			case RoleNone:
				if active() {
					diag.ReportWarning(x.cfg.Reporter, diag.DirUnknown, n.Span,
						fmt.Sprintf("directive #%s has no effect", n.Name)).Emit()
				}
			case RoleInclude:
				if !active() {
					continue
				}
				if err := x.include(ctx, st, n, chain); err != nil {
					return err
				}
			case RoleOpen:
				b := &branch{open: n, parentActive: active()}
				if b.parentActive {
					ok, err := x.eval(n)
					if err != nil {
						return err
					}
					b.active, b.taken = ok, ok
					st.count(ok)
				} else {
					b.taken = true
				}
				stack = append(stack, b)
			case RoleBranch:
				if len(stack) == 0 {
					return diag.Errorf(diag.DirUnbalanced, n.Span, "#%s without #if", n.Name)
				}
				b := stack[len(stack)-1]
				if b.seenElse {
					return diag.Errorf(diag.DirUnbalanced, n.Span, "#%s after #else", n.Name).
						WithNote(b.open.Span, "conditional opened here")
				}
				b.active = false
				if b.parentActive && !b.taken {
					ok, err := x.eval(n)
					if err != nil {
						return err
					}
					b.active, b.taken = ok, ok
					st.count(ok)
				}
			case RoleElse:
				if len(stack) == 0 {
					return diag.Errorf(diag.DirUnbalanced, n.Span, "#%s without #if", n.Name)
				}
				b := stack[len(stack)-1]
				if b.seenElse {
					return diag.Errorf(diag.DirUnbalanced, n.Span, "duplicate #%s", n.Name).
						WithNote(b.open.Span, "conditional opened here")
				}
				b.seenElse = true
				b.active = b.parentActive && !b.taken
				if b.parentActive {
					st.count(b.active)
				}
				b.taken = true
			case RoleClose:
				if len(stack) == 0 {
					return diag.Errorf(diag.DirUnbalanced, n.Span, "#%s without #if", n.Name)
				}
				stack = stack[:len(stack)-1]
			}
		default:
			return fmt.Errorf("directive: unexpected declaration %T", d)
		}
	}
	if len(stack) > 0 {
		open := stack[len(stack)-1].open
		return diag.Errorf(diag.DirUnbalanced, open.Span, "#%s without matching #end", open.Name)
	}
	return nil
}

func (st *expandState) count(taken bool) {
	if taken {
		st.res.Taken++
	} else {
		st.res.Skipped++
	}
}

func (x *Expander) eval(n *ast.Command) (bool, error) {
	if x.cfg.Evaluator == nil {
		return false, diag.Errorf(diag.DirMissingEvaluator, n.Span, "no condition evaluator configured for #%s", n.Name)
	}
	if n.Cond == nil {
		return false, diag.Errorf(diag.DirConditionFailed, n.Span, "#%s has no condition", n.Name)
	}
	ok, err := x.cfg.Evaluator.Eval(n.Cond)
	if err != nil {
		return false, diag.Errorf(diag.DirConditionFailed, n.Cond.ExprSpan(), "condition of #%s failed: %v", n.Name, err)
	}
	return ok, nil
}

func (x *Expander) include(ctx context.Context, st *expandState, n *ast.Command, chain []frameRef) error {
	if x.cfg.Loader == nil {
		return diag.Errorf(diag.DirIncludeNotFound, n.Arg.Span, "no loader configured for #%s %q", n.Name, n.Arg.Content)
	}
	if len(chain) > x.cfg.MaxIncludeDepth {
		return diag.Errorf(diag.DirIncludeTooDeep, n.Span, "include depth exceeds %d", x.cfg.MaxIncludeDepth)
	}
	from := chain[len(chain)-1].key
	unit, err := x.cfg.Loader.Load(ctx, n.Arg.Content, from)
	if err != nil {
		if _, ok := diag.AsError(err); ok {
			return err
		}
		if errors.Is(err, ErrNotFound) {
			return diag.Errorf(diag.DirIncludeNotFound, n.Arg.Span, "include %q not found", n.Arg.Content)
		}
		return diag.Errorf(diag.IOLoadFileError, n.Arg.Span, "include %q: %v", n.Arg.Content, err)
	}

	for _, f := range chain {
		if f.key == unit.Key {
			de := diag.Errorf(diag.DirIncludeCycle, n.Arg.Span, "include cycle: %q includes itself", unit.Key)
			for _, g := range chain[1:] {
				de.WithNote(g.at.Arg.Span, fmt.Sprintf("included as %q", g.key))
			}
			return de
		}
	}

	x.cfg.Logger.Debug("include", "name", n.Arg.Content, "key", unit.Key, "from", from, "depth", len(chain))
	if !st.seen[unit.Key] {
		st.seen[unit.Key] = true
		st.res.Includes = append(st.res.Includes, unit.Key)
	}
	next := append(chain[:len(chain):len(chain)], frameRef{key: unit.Key, at: n})
	return x.expandUnit(ctx, st, unit.Program, next)
}
