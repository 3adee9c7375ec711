// Package semantic implements SynQ's semantic analyzer: scoped symbol
// tables, sum-typed expression inference, control-flow termination
// checking, and PQC builtin resolution, run contract by contract over
// a parsed translation unit.
package semantic

import (
	"github.com/synergy-network-hq/synq-language-sub000/internal/ast"
	synqerrors "github.com/synergy-network-hq/synq-language-sub000/internal/errors"
)

// Analyzer accumulates diagnostics across an entire translation unit.
// It never mutates the AST it walks.
type Analyzer struct {
	errors []synqerrors.CompilerError
}

// Analyze runs semantic analysis over every SourceUnit in units. It
// returns the full, ordered diagnostic list; a nil/empty slice means
// analysis succeeded. Analysis never stops at the first error.
func Analyze(units []ast.SourceUnit) []synqerrors.CompilerError {
	a := &Analyzer{}
	for _, unit := range units {
		if contract, ok := unit.(*ast.ContractDef); ok {
			a.analyzeContract(contract)
		}
	}
	return a.errors
}

func (a *Analyzer) pushError(err synqerrors.CompilerError) {
	a.errors = append(a.errors, err)
}

// analyzeContract builds the contract's state-variable and function
// tables in a first pass (so any function may call a sibling declared
// later in the same contract), then analyzes every function and the
// at-most-one constructor against that shared context.
func (a *Analyzer) analyzeContract(contract *ast.ContractDef) {
	ctx := newContractContext(contract.Name)

	for _, sv := range contract.StateVariables() {
		if _, exists := ctx.StateVars[sv.Name]; exists {
			a.pushError(synqerrors.DuplicateStateVariable(contract.Name, sv.Name, sv.NodePos()))
			continue
		}
		ctx.StateVars[sv.Name] = sv.Type
	}

	if ctors := contract.Constructors(); len(ctors) > 1 {
		a.pushError(synqerrors.DuplicateConstructor(contract.Name, ctors[1].NodePos()))
	}

	for _, fn := range contract.Functions() {
		if _, exists := ctx.Functions[fn.Name]; exists {
			continue
		}
		params := make([]*ast.Type, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Type
		}
		ctx.Functions[fn.Name] = FunctionSignature{Params: params, Returns: fn.Returns}
	}

	for _, fn := range contract.Functions() {
		a.analyzeFunction(fn, ctx)
	}
	if ctors := contract.Constructors(); len(ctors) > 0 {
		a.analyzeConstructor(ctors[0], ctx)
	}
}

func (a *Analyzer) analyzeConstructor(ctor *ast.Constructor, contract *ContractContext) {
	symbols := NewSymbolTable()
	a.bindParams(ctor.Params, symbols, contract.Name, "constructor")

	fnCtx := &FunctionContext{
		Contract:     contract,
		FunctionName: "constructor",
		Returns:      nil,
		Symbols:      symbols,
	}
	a.analyzeBlock(ctor.Body, fnCtx)
}

func (a *Analyzer) analyzeFunction(fn *ast.FunctionDef, contract *ContractContext) {
	symbols := NewSymbolTable()
	a.bindParams(fn.Params, symbols, contract.Name, fn.Name)

	fnCtx := &FunctionContext{
		Contract:     contract,
		FunctionName: fn.Name,
		Returns:      fn.Returns,
		Symbols:      symbols,
	}

	terminates := a.analyzeBlock(fn.Body, fnCtx)
	if fn.Returns != nil && !terminates {
		a.pushError(synqerrors.MissingReturn(fn.Name, fn.NodePos()))
	}
}

func (a *Analyzer) bindParams(params []*ast.ParamDef, symbols *SymbolTable, contractName, functionName string) {
	for _, p := range params {
		if !symbols.DeclareInCurrent(p.Name, p.Type) {
			a.pushError(synqerrors.NewSemanticError(synqerrors.ErrorDuplicateDeclaration,
				synqerrors.WithContext(contractName, functionName, "duplicate parameter '"+p.Name+"'"),
				p.NodePos()).Build())
		}
	}
}
