// Package scope implements Stop's variable bindings: a stack of local
// scopes backed by one shared global scope, seeded on construction with
// the standard builtins.
package scope

import (
	"github.com/oeed/stop/internal/locator"
	"github.com/oeed/stop/internal/value"
)

// Scope is a flat mapping from identifier name to value.
type Scope struct {
	variables map[string]value.Value
}

func newScope() *Scope {
	return &Scope{variables: make(map[string]value.Value)}
}

func (s *Scope) get(name string) (value.Value, bool) {
	v, ok := s.variables[name]
	return v, ok
}

func (s *Scope) set(name string, v value.Value) {
	s.variables[name] = v
}

// SetGlobal binds name directly in the global scope. Exposed so builtin
// registration doesn't need to go through a Stack.
func (s *Scope) SetGlobal(name string, v value.Value) {
	s.set(name, v)
}

// Stack is an ordered sequence of local scopes plus one designated
// global scope. Lookup walks locals innermost-first then falls back to
// global; assignment always writes to the innermost local.
type Stack struct {
	locals []*Scope
	global *Scope
}

// New returns a stack with a single empty local scope and a global
// scope populated by seed (typically the standard builtins).
func New(seed func(global *Scope)) *Stack {
	global := newScope()
	if seed != nil {
		seed(global)
	}
	return &Stack{locals: []*Scope{newScope()}, global: global}
}

// Get looks up name, innermost local scope first, then global. The
// returned Value is a shallow copy: scalars are copied outright, and
// List/Map fields alias the stored backing storage (Go slices and maps
// are reference types), which is what lets indexed assignment mutate
// through a looked-up value without a separate mutable-lookup path.
func (s *Stack) Get(name string, at locator.Offset) (value.Value, error) {
	for i := len(s.locals) - 1; i >= 0; i-- {
		if v, ok := s.locals[i].get(name); ok {
			return v, nil
		}
	}
	if v, ok := s.global.get(name); ok {
		return v, nil
	}
	return value.Value{}, value.NewUnknownVariable(name, at)
}

// Set binds name in the innermost local scope, shadowing any outer or
// global binding of the same name.
func (s *Stack) Set(name string, v value.Value) {
	s.locals[len(s.locals)-1].set(name, v)
}

// Push adds a fresh local scope, for entering a function call.
func (s *Stack) Push() {
	s.locals = append(s.locals, newScope())
}

// Pop removes the innermost local scope, for returning from a function
// call.
func (s *Stack) Pop() {
	s.locals = s.locals[:len(s.locals)-1]
}
