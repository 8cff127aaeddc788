package directive

import (
	"slices"
	"sync"

	"hscript/internal/ast"
)

// Role places a directive inside an #if chain.
type Role uint8

const (
	RoleNone    Role = iota // parsed, expands to nothing
	RoleInclude             // #include
	RoleOpen                // #if
	RoleBranch              // #elif
	RoleElse                // #else
	RoleClose               // #end
)

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleInclude:
		return "include"
	case RoleOpen:
		return "open"
	case RoleBranch:
		return "branch"
	case RoleElse:
		return "else"
	case RoleClose:
		return "close"
	}
	return "unknown"
}

// Spec describes one directive name.
type Spec struct {
	Name string
	Arg  ast.ArgKind
	Role Role
}

// Registry maps directive names to their argument grammar. The parser asks
// it how to read the argument; the expander asks it what the directive does.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

// NewRegistry creates an empty directive registry.
func NewRegistry() *Registry {
	return &Registry{
		specs: make(map[string]Spec),
	}
}

// DefaultRegistry knows include and the if/elif/else/end family.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Add(Spec{Name: "include", Arg: ast.ArgString, Role: RoleInclude})
	r.Add(Spec{Name: "if", Arg: ast.ArgExpr, Role: RoleOpen})
	r.Add(Spec{Name: "elif", Arg: ast.ArgExpr, Role: RoleBranch})
	r.Add(Spec{Name: "else", Arg: ast.ArgNone, Role: RoleElse})
	r.Add(Spec{Name: "end", Arg: ast.ArgNone, Role: RoleClose})
	return r
}

// Add registers or replaces a directive.
func (r *Registry) Add(spec Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[spec.Name] = spec
}

// Lookup returns the Spec registered under name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	if r == nil {
		return Spec{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[name]
	return s, ok
}

// ArgKind returns the argument grammar for name. Unknown directives take a
// string literal so that they still parse and fail later, at expansion.
func (r *Registry) ArgKind(name string) ast.ArgKind {
	if s, ok := r.Lookup(name); ok {
		return s.Arg
	}
	return ast.ArgString
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.specs))
	for n := range r.specs {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered directives.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specs)
}
