package semantic

import (
	"fmt"
	"unicode"

	"github.com/synergy-network-hq/synq-language-sub000/internal/ast"
	synqerrors "github.com/synergy-network-hq/synq-language-sub000/internal/errors"
)

// inferExpressionType infers the type of expr, pushing diagnostics for
// anything ill-formed along the way. Unknown results suppress further
// downstream checks rather than cascading spurious errors.
func (a *Analyzer) inferExpressionType(expr ast.Expr, ctx *FunctionContext) InferredType {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return a.inferLiteralType(e.Value)
	case *ast.IdentExpr:
		return a.inferIdentifierType(e, ctx)
	case *ast.CallExpr:
		return a.inferCallType(e, ctx)
	case *ast.MemberAccessExpr:
		return a.inferMemberAccessType(e, ctx)
	case *ast.IndexAccessExpr:
		return a.inferIndexAccessType(e, ctx)
	case *ast.BinaryExpr:
		return a.inferBinaryType(e, ctx)
	case *ast.UnaryExpr:
		return a.inferUnaryType(e, ctx)
	case *ast.TernaryExpr:
		return a.inferTernaryType(e, ctx)
	default:
		return unknownType
	}
}

func (a *Analyzer) inferLiteralType(lit *ast.Literal) InferredType {
	switch lit.Kind {
	case ast.LitNumber:
		return known(ast.UInt256Type)
	case ast.LitBool:
		return known(ast.BoolType)
	case ast.LitString:
		return known(ast.StringType)
	case ast.LitAddress:
		return known(ast.AddressType)
	case ast.LitBytes:
		return known(ast.BytesType)
	default:
		return unknownType
	}
}

func (a *Analyzer) inferIdentifierType(e *ast.IdentExpr, ctx *FunctionContext) InferredType {
	name := e.Name
	switch name {
	case "true", "false":
		return known(ast.BoolType)
	case "break", "continue":
		return unknownType
	}

	if ty, ok := a.lookupSymbol(name, ctx); ok {
		return known(ty)
	}

	if isCapitalized(name) {
		// Treated as a type/enum reference, tolerated until struct/enum
		// constant resolution is modeled.
		return unknownType
	}
	if name == "msg" || name == "block" {
		return unknownType
	}

	a.pushError(synqerrors.UndefinedSymbol(name, e.NodePos(), nil))
	return unknownType
}

func (a *Analyzer) lookupSymbol(name string, ctx *FunctionContext) (*ast.Type, bool) {
	if ty, ok := ctx.Symbols.Lookup(name); ok {
		return ty, true
	}
	if ty, ok := ctx.Contract.StateVars[name]; ok {
		return ty, true
	}
	return nil, false
}

func (a *Analyzer) inferMemberAccessType(e *ast.MemberAccessExpr, ctx *FunctionContext) InferredType {
	if ident, ok := e.Object.(*ast.IdentExpr); ok {
		switch ident.Name {
		case "msg":
			switch e.Member {
			case "sender":
				return known(ast.AddressType)
			case "value":
				return known(ast.UInt256Type)
			}
			return unknownType
		case "block":
			switch e.Member {
			case "number", "timestamp":
				return known(ast.UInt256Type)
			}
			return unknownType
		}
	}

	objTy := a.inferExpressionType(e.Object, ctx)
	if ty, ok := objTy.asType(); ok && e.Member == "length" {
		switch ty.Kind {
		case ast.KindArray, ast.KindBytes, ast.KindString:
			return known(ast.UInt256Type)
		}
	}
	return unknownType
}

func (a *Analyzer) inferIndexAccessType(e *ast.IndexAccessExpr, ctx *FunctionContext) InferredType {
	objTy := a.inferExpressionType(e.Object, ctx)
	a.inferExpressionType(e.Index, ctx)

	ty, ok := objTy.asType()
	if !ok {
		return unknownType
	}
	switch ty.Kind {
	case ast.KindArray:
		return known(ty.Elem)
	case ast.KindMapping:
		return known(ty.Value)
	default:
		return unknownType
	}
}

func (a *Analyzer) inferBinaryType(e *ast.BinaryExpr, ctx *FunctionContext) InferredType {
	lhsTy := a.inferExpressionType(e.Left, ctx)
	rhsTy := a.inferExpressionType(e.Right, ctx)
	pos := e.NodePos()

	switch e.Op {
	case ast.OpEq, ast.OpNe:
		if left, ok := lhsTy.asType(); ok {
			if right, ok2 := rhsTy.asType(); ok2 && !left.Compatible(right) {
				a.pushError(synqerrors.InvalidBinaryOperation(e.Op.String(), left, right, pos))
			}
		}
		return known(ast.BoolType)

	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if left, ok := lhsTy.asType(); ok {
			if right, ok2 := rhsTy.asType(); ok2 && !(left.IsNumeric() && right.IsNumeric()) {
				a.pushError(synqerrors.InvalidBinaryOperation(e.Op.String(), left, right, pos))
			}
		}
		return known(ast.BoolType)

	case ast.OpAnd, ast.OpOr:
		if left, ok := lhsTy.asType(); ok && !isBoolType(left) {
			a.pushError(synqerrors.InvalidUnaryOperation(e.Op.String(), left, pos))
		}
		if right, ok := rhsTy.asType(); ok && !isBoolType(right) {
			a.pushError(synqerrors.InvalidUnaryOperation(e.Op.String(), right, pos))
		}
		return known(ast.BoolType)

	default: // Add, Sub, Mul, Div, Mod, Shl, Shr
		left, leftOk := lhsTy.asType()
		right, rightOk := rhsTy.asType()
		if !leftOk || !rightOk {
			return unknownType
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			a.pushError(synqerrors.InvalidBinaryOperation(e.Op.String(), left, right, pos))
			return unknownType
		}
		if left.IsSigned() || right.IsSigned() {
			return known(ast.NewIntType(256))
		}
		return known(ast.UInt256Type)
	}
}

func (a *Analyzer) inferUnaryType(e *ast.UnaryExpr, ctx *FunctionContext) InferredType {
	operandTy := a.inferExpressionType(e.Operand, ctx)
	pos := e.NodePos()

	switch e.Op {
	case ast.OpNot:
		if ty, ok := operandTy.asType(); ok && !isBoolType(ty) {
			a.pushError(synqerrors.InvalidUnaryOperation(e.Op.String(), ty, pos))
		}
		return known(ast.BoolType)
	default: // OpNeg
		if ty, ok := operandTy.asType(); ok && !ty.IsNumeric() {
			a.pushError(synqerrors.InvalidUnaryOperation(e.Op.String(), ty, pos))
		}
		return operandTy
	}
}

func (a *Analyzer) inferTernaryType(e *ast.TernaryExpr, ctx *FunctionContext) InferredType {
	condTy := a.inferExpressionType(e.Cond, ctx)
	if ty, ok := condTy.asType(); ok && !isBoolType(ty) {
		a.pushError(synqerrors.NewSemanticError(synqerrors.ErrorTypeMismatch,
			synqerrors.WithContext(ctx.Contract.Name, ctx.FunctionName, "uses non-boolean ternary condition type '"+ty.String()+"'"),
			e.NodePos()).Build())
	}

	thenTy := a.inferExpressionType(e.Then, ctx)
	elseTy := a.inferExpressionType(e.Else, ctx)

	thenConcrete, thenOk := thenTy.asType()
	elseConcrete, elseOk := elseTy.asType()
	switch {
	case thenOk && elseOk:
		if thenConcrete.Compatible(elseConcrete) {
			return known(thenConcrete)
		}
		if elseConcrete.Compatible(thenConcrete) {
			return known(elseConcrete)
		}
		a.pushError(synqerrors.InvalidBinaryOperation("?:", thenConcrete, elseConcrete, e.NodePos()))
		return unknownType
	case thenOk:
		return known(thenConcrete)
	case elseOk:
		return known(elseConcrete)
	default:
		return unknownType
	}
}

func (a *Analyzer) inferCallType(e *ast.CallExpr, ctx *FunctionContext) InferredType {
	argTypes := make([]InferredType, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = a.inferExpressionType(arg, ctx)
	}

	if castTy := castTargetType(e.Name); castTy != nil {
		if len(argTypes) != 1 {
			a.pushError(synqerrors.InvalidArguments(e.Name, e.NodePos(),
				fmt.Sprintf("cast requires exactly 1 argument, found %d", len(argTypes))))
		}
		return known(castTy)
	}

	if sig, ok := ctx.Contract.Functions[e.Name]; ok {
		a.validateCallSignature(e.Name, sig, argTypes, e.NodePos())
		if sig.Returns != nil {
			return known(sig.Returns)
		}
		return unknownType
	}

	resolution, sig, reason := ResolveBuiltin(e.Name)
	switch resolution {
	case Supported:
		a.validateCallSignature(e.Name, sig, argTypes, e.NodePos())
		if sig.Returns != nil {
			return known(sig.Returns)
		}
		return unknownType
	case Unsupported:
		a.pushError(synqerrors.NewSemanticError(synqerrors.ErrorUnsupportedBuiltin,
			fmt.Sprintf("unsupported builtin '%s': %s", e.Name, reason), e.NodePos()).
			WithLength(len(e.Name)).Build())
		return unknownType
	default:
		// Unknown call target is tolerated: codegen may still emit a
		// generic Call opcode for it.
		return unknownType
	}
}

func (a *Analyzer) validateCallSignature(name string, sig FunctionSignature, args []InferredType, pos ast.Position) {
	if len(sig.Params) != len(args) {
		a.pushError(synqerrors.InvalidArguments(name, pos,
			fmt.Sprintf("%d arguments; expected %d", len(args), len(sig.Params))))
		return
	}
	for i, expected := range sig.Params {
		actual, ok := args[i].asType()
		if !ok {
			continue
		}
		if !expected.Compatible(actual) {
			a.pushError(synqerrors.InvalidArguments(name, pos,
				fmt.Sprintf("argument %d: expected %s, found %s", i+1, expected.String(), actual.String())))
		}
	}
}

func isCapitalized(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r)
}
