package semantic

import "github.com/synergy-network-hq/synq-language-sub000/internal/ast"

// Scope is one lexical binding frame mapping a name to its declared type.
type Scope map[string]*ast.Type

// SymbolTable is the scope stack threaded through one function body.
// Scopes are pushed for every nested block (if/for/require_pqc) and
// popped on exit, so a name declared inside an arm is invisible once
// that arm ends.
type SymbolTable struct {
	scopes []Scope
}

// NewSymbolTable returns a table with a single root scope, ready to
// receive a function or constructor's parameters.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []Scope{make(Scope)}}
}

func (t *SymbolTable) Push() { t.scopes = append(t.scopes, make(Scope)) }

func (t *SymbolTable) Pop() { t.scopes = t.scopes[:len(t.scopes)-1] }

// DeclareInCurrent binds name in the innermost scope. It reports false
// if name is already bound in that same scope (a same-scope redeclaration).
func (t *SymbolTable) DeclareInCurrent(name string, ty *ast.Type) bool {
	current := t.scopes[len(t.scopes)-1]
	if _, exists := current[name]; exists {
		return false
	}
	current[name] = ty
	return true
}

// Lookup searches innermost-scope-first, matching lexical shadowing.
func (t *SymbolTable) Lookup(name string) (*ast.Type, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if ty, ok := t.scopes[i][name]; ok {
			return ty, true
		}
	}
	return nil, false
}
