package semantic

import "github.com/synergy-network-hq/synq-language-sub000/internal/ast"

// FunctionSignature is a callable's parameter and return types, shared
// by contract-local functions and resolved PQC builtins.
type FunctionSignature struct {
	Params  []*ast.Type
	Returns *ast.Type
}

// ContractContext holds one contract's state-variable and function
// tables. It is built in a first pass over the contract's parts, before
// any function body is analyzed, so a function may call a sibling
// function declared later in the same contract.
type ContractContext struct {
	Name      string
	StateVars map[string]*ast.Type
	Functions map[string]FunctionSignature
}

func newContractContext(name string) *ContractContext {
	return &ContractContext{
		Name:      name,
		StateVars: make(map[string]*ast.Type),
		Functions: make(map[string]FunctionSignature),
	}
}

// FunctionContext threads the enclosing contract, the current
// function's name (or "constructor") and declared return type, and the
// lexical scope stack through statement and expression analysis.
type FunctionContext struct {
	Contract     *ContractContext
	FunctionName string
	Returns      *ast.Type
	Symbols      *SymbolTable
}
