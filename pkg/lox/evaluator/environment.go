package evaluator

import "sort"

// Environment maps names to values for one scope. Closures share
// environments, so one may outlive the block that created it.
type Environment struct {
	store map[string]Object
	outer *Environment
}

// NewEnvironment creates a new environment
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

// NewEnclosedEnvironment creates a new environment with outer reference
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Outer returns the enclosing environment, or nil for the globals.
func (e *Environment) Outer() *Environment {
	return e.outer
}

// Define binds name in this environment, replacing any existing binding.
func (e *Environment) Define(name string, val Object) {
	e.store[name] = val
}

// Get retrieves a value, searching outward through enclosing environments.
func (e *Environment) Get(name string) (Object, bool) {
	value, ok := e.store[name]
	if !ok && e.outer != nil {
		value, ok = e.outer.Get(name)
	}
	return value, ok
}

// Assign updates the nearest existing binding of name. It reports false when
// no environment in the chain binds name.
func (e *Environment) Assign(name string, val Object) bool {
	if _, ok := e.store[name]; ok {
		e.store[name] = val
		return true
	}
	if e.outer != nil {
		return e.outer.Assign(name, val)
	}
	return false
}

// Ancestor walks distance enclosing links. It returns nil if the chain is
// shorter than distance.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.outer
	}
	return env
}

// GetAt looks name up in exactly the environment distance hops away.
func (e *Environment) GetAt(distance int, name string) (Object, bool) {
	env := e.Ancestor(distance)
	if env == nil {
		return nil, false
	}
	value, ok := env.store[name]
	return value, ok
}

// AssignAt updates name in exactly the environment distance hops away.
func (e *Environment) AssignAt(distance int, name string, val Object) bool {
	env := e.Ancestor(distance)
	if env == nil {
		return false
	}
	if _, ok := env.store[name]; !ok {
		return false
	}
	env.store[name] = val
	return true
}

// Copy returns a shallow copy of this scope with the same enclosing
// environment. Later assignments to either copy do not affect the other.
func (e *Environment) Copy() *Environment {
	store := make(map[string]Object, len(e.store))
	for k, v := range e.store {
		store[k] = v
	}
	return &Environment{store: store, outer: e.outer}
}

// Names returns the names bound directly in this environment, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllIdentifiers returns all identifiers visible from this environment,
// sorted. Used for "did you mean?" hints and REPL completion.
func (e *Environment) AllIdentifiers() []string {
	seen := make(map[string]bool)
	var result []string

	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			if !seen[name] {
				seen[name] = true
				result = append(result, name)
			}
		}
	}

	sort.Strings(result)
	return result
}
