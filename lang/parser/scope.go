package parser

import (
	"github.com/dolthub/swiss"

	"github.com/saltlang/saltc/lang/typetab"
)

// scopeStack is the parser-side half of the named-value tables: a vector of
// scopes, lookup walking innermost-first. The IR emitter keeps the parallel
// stack of stack-slot handles; this one resolves TypeInstance at parse time.
type scopeStack struct {
	scopes []*swiss.Map[string, typetab.TypeInstance]
}

func newScopeStack() *scopeStack {
	return &scopeStack{}
}

// push enters a new, empty innermost scope.
func (s *scopeStack) push() {
	s.scopes = append(s.scopes, swiss.NewMap[string, typetab.TypeInstance](8))
}

// pop discards the innermost scope.
func (s *scopeStack) pop() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// declare binds name in the innermost scope, reporting false when name was
// already bound there (a redefinition).
func (s *scopeStack) declare(name string, ti typetab.TypeInstance) bool {
	top := s.scopes[len(s.scopes)-1]
	if _, ok := top.Get(name); ok {
		return false
	}
	top.Put(name, ti)
	return true
}

// lookup walks the scope stack innermost-first.
func (s *scopeStack) lookup(name string) (typetab.TypeInstance, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if v, ok := s.scopes[i].Get(name); ok {
			return v, true
		}
	}
	return typetab.TypeInstance{}, false
}

// empty reports whether the stack has no open scopes. The stack is
// non-empty inside a function body and empty at top level.
func (s *scopeStack) empty() bool { return len(s.scopes) == 0 }
