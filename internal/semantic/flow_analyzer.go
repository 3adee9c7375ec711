package semantic

import (
	"github.com/synergy-network-hq/synq-language-sub000/internal/ast"
	synqerrors "github.com/synergy-network-hq/synq-language-sub000/internal/errors"
)

// analyzeBlock analyzes every statement in order. Once a statement
// terminates control flow, every statement after it is flagged
// unreachable individually rather than summarized into one error.
func (a *Analyzer) analyzeBlock(block *ast.Block, ctx *FunctionContext) bool {
	terminated := false
	for _, stmt := range block.Statements {
		if terminated {
			a.pushError(synqerrors.NewSemanticError(synqerrors.ErrorUnreachableCode,
				synqerrors.WithContext(ctx.Contract.Name, ctx.FunctionName, "contains unreachable statement"),
				stmt.NodePos()).Build())
			continue
		}
		if a.analyzeStatement(stmt, ctx) {
			terminated = true
		}
	}
	return terminated
}

// analyzeStatement analyzes one statement and reports whether it
// terminates control flow on every path it can take.
func (a *Analyzer) analyzeStatement(stmt ast.Stmt, ctx *FunctionContext) bool {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		a.analyzeVarDecl(s, ctx)
		return false

	case *ast.AssignStmt:
		a.analyzeAssign(s, ctx)
		return false

	case *ast.ReturnStmt:
		a.analyzeReturn(s, ctx)
		return true

	case *ast.RequireStmt:
		condTy := a.inferExpressionType(s.Cond, ctx)
		if ty, ok := condTy.asType(); ok && !isBoolType(ty) {
			a.pushError(synqerrors.NewSemanticError(synqerrors.ErrorTypeMismatch,
				synqerrors.WithContext(ctx.Contract.Name, ctx.FunctionName,
					"uses non-boolean require condition of type '"+ty.String()+"'"),
				s.NodePos()).Build())
		}
		return false

	case *ast.RevertStmt:
		return true

	case *ast.IfStmt:
		return a.analyzeIf(s, ctx)

	case *ast.ForStmt:
		a.analyzeFor(s, ctx)
		return false

	case *ast.EmitStmt:
		for _, arg := range s.Args {
			a.inferExpressionType(arg, ctx)
		}
		return false

	case *ast.RequirePqcStmt:
		return a.analyzeRequirePqc(s, ctx)

	case *ast.ExprStmt:
		a.inferExpressionType(s.Expr, ctx)
		return false

	default:
		return false
	}
}

func (a *Analyzer) analyzeVarDecl(s *ast.VarDeclStmt, ctx *FunctionContext) {
	var valueTy *InferredType
	if s.Initializer != nil {
		inferred := a.inferExpressionType(s.Initializer, ctx)
		valueTy = &inferred
	}

	effectiveTy := effectiveVariableType(s.Type, valueTy)
	if !ctx.Symbols.DeclareInCurrent(s.Name, effectiveTy) {
		a.pushError(synqerrors.NewSemanticError(synqerrors.ErrorDuplicateDeclaration,
			synqerrors.WithContext(ctx.Contract.Name, ctx.FunctionName,
				"redeclares local variable '"+s.Name+"' in the same scope"),
			s.NodePos()).Build())
	}

	if valueTy != nil {
		if actual, ok := valueTy.asType(); ok {
			if shouldEnforceVariableDeclCheck(s.Type, actual) && !s.Type.Compatible(actual) {
				a.pushError(synqerrors.TypeMismatch(
					synqerrors.WithContext(ctx.Contract.Name, ctx.FunctionName, "initializes '"+s.Name+"'"),
					s.Type, actual, s.NodePos()))
			}
		}
	}
}

func (a *Analyzer) analyzeAssign(s *ast.AssignStmt, ctx *FunctionContext) {
	targetTy, found := a.lookupSymbol(s.Name, ctx)
	if !found {
		a.pushError(synqerrors.UndefinedSymbol(s.Name, s.NodePos(), nil))
	}

	valueTy := a.inferExpressionType(s.Expr, ctx)
	if found && targetTy != nil {
		if actual, ok := valueTy.asType(); ok {
			if isPreciseAssignmentTarget(targetTy) && !targetTy.Compatible(actual) {
				a.pushError(synqerrors.TypeMismatch(
					synqerrors.WithContext(ctx.Contract.Name, ctx.FunctionName, "assigns to '"+s.Name+"'"),
					targetTy, actual, s.NodePos()))
			}
		}
	}
}

func (a *Analyzer) analyzeReturn(s *ast.ReturnStmt, ctx *FunctionContext) {
	switch {
	case ctx.Returns != nil && s.Value == nil:
		a.pushError(synqerrors.NewSemanticError(synqerrors.ErrorTypeMismatch,
			synqerrors.WithContext(ctx.Contract.Name, ctx.FunctionName, "must return a value"),
			s.NodePos()).Build())
	case ctx.Returns == nil && s.Value != nil:
		a.pushError(synqerrors.NewSemanticError(synqerrors.ErrorTypeMismatch,
			synqerrors.WithContext(ctx.Contract.Name, ctx.FunctionName, "cannot return a value (no return type declared)"),
			s.NodePos()).Build())
	}

	if ctx.Returns != nil && s.Value != nil {
		actual := a.inferExpressionType(s.Value, ctx)
		if actualTy, ok := actual.asType(); ok && !ctx.Returns.Compatible(actualTy) {
			a.pushError(synqerrors.TypeMismatch(
				synqerrors.WithContext(ctx.Contract.Name, ctx.FunctionName, "returns incompatible type"),
				ctx.Returns, actualTy, s.NodePos()))
		}
	} else if s.Value != nil {
		a.inferExpressionType(s.Value, ctx)
	}
}

func (a *Analyzer) analyzeIf(s *ast.IfStmt, ctx *FunctionContext) bool {
	condTy := a.inferExpressionType(s.Cond, ctx)
	if ty, ok := condTy.asType(); ok && !isBoolType(ty) {
		a.pushError(synqerrors.NewSemanticError(synqerrors.ErrorTypeMismatch,
			synqerrors.WithContext(ctx.Contract.Name, ctx.FunctionName,
				"uses non-boolean if condition of type '"+ty.String()+"'"),
			s.NodePos()).Build())
	}

	ctx.Symbols.Push()
	thenTerminates := a.analyzeBlock(s.Then, ctx)
	ctx.Symbols.Pop()

	elseTerminates := false
	if s.Else != nil {
		ctx.Symbols.Push()
		elseTerminates = a.analyzeBlock(s.Else, ctx)
		ctx.Symbols.Pop()
	}

	return thenTerminates && elseTerminates
}

func (a *Analyzer) analyzeFor(s *ast.ForStmt, ctx *FunctionContext) {
	startTy := a.inferExpressionType(s.Start, ctx)
	endTy := a.inferExpressionType(s.End, ctx)

	if ty, ok := startTy.asType(); ok && !ty.IsNumeric() {
		a.pushError(synqerrors.NewSemanticError(synqerrors.ErrorTypeMismatch,
			synqerrors.WithContext(ctx.Contract.Name, ctx.FunctionName, "for-loop start bound has non-numeric type '"+ty.String()+"'"),
			s.NodePos()).Build())
	}
	if ty, ok := endTy.asType(); ok && !ty.IsNumeric() {
		a.pushError(synqerrors.NewSemanticError(synqerrors.ErrorTypeMismatch,
			synqerrors.WithContext(ctx.Contract.Name, ctx.FunctionName, "for-loop end bound has non-numeric type '"+ty.String()+"'"),
			s.NodePos()).Build())
	}

	ctx.Symbols.Push()
	ctx.Symbols.DeclareInCurrent(s.Iter, ast.UInt256Type)
	a.analyzeBlock(s.Body, ctx)
	ctx.Symbols.Pop()
}

func (a *Analyzer) analyzeRequirePqc(s *ast.RequirePqcStmt, ctx *FunctionContext) bool {
	ctx.Symbols.Push()
	blockTerminates := a.analyzeBlock(s.Block, ctx)
	ctx.Symbols.Pop()

	if s.Fallback != nil {
		a.analyzeStatement(s.Fallback, ctx)
	}

	return blockTerminates
}
