package semantic

import "github.com/synergy-network-hq/synq-language-sub000/internal/ast"

// InferredType is the result of expression type inference: a concrete
// Type, or Unknown when the expression's shape isn't modeled yet.
// Unknown suppresses downstream type-mismatch diagnostics involving
// that subexpression, so a single unresolved construct doesn't cascade
// into a wall of spurious errors.
type InferredType struct {
	ty      *ast.Type
	unknown bool
}

func known(ty *ast.Type) InferredType { return InferredType{ty: ty} }

var unknownType = InferredType{unknown: true}

func (t InferredType) asType() (*ast.Type, bool) {
	if t.unknown {
		return nil, false
	}
	return t.ty, true
}

func isBoolType(ty *ast.Type) bool {
	return ty != nil && ty.Kind == ast.KindBool
}

// isPreciseAssignmentTarget reports whether ty is precise enough to
// enforce strict assignment compatibility against. Container-valued
// lvalues (array/mapping/struct/generic) skip the check until the AST
// carries full lvalue paths.
func isPreciseAssignmentTarget(ty *ast.Type) bool {
	if ty == nil {
		return true
	}
	switch ty.Kind {
	case ast.KindArray, ast.KindMapping, ast.KindStruct, ast.KindGeneric:
		return false
	default:
		return true
	}
}

// shouldEnforceVariableDeclCheck implements the UInt256-fallback
// heuristic: an untyped `let` is normalized by the parser to UInt256,
// so a non-numeric initializer under that fallback is tolerated rather
// than flagged as a mismatch.
func shouldEnforceVariableDeclCheck(declared, actual *ast.Type) bool {
	if declared != nil && declared.Kind == ast.KindUInt && declared.BitWidth == 256 && !actual.IsNumeric() {
		return false
	}
	return true
}

// effectiveVariableType resolves the declared type a local is bound at,
// applying the same UInt256 fallback: when the declared type is the
// untyped-let placeholder and the initializer is non-numeric, the
// initializer's type is bound instead so later lookups see it.
func effectiveVariableType(declared *ast.Type, initializer *InferredType) *ast.Type {
	if declared != nil && declared.Kind == ast.KindUInt && declared.BitWidth == 256 && initializer != nil {
		if actual, ok := initializer.asType(); ok && !actual.IsNumeric() {
			return actual
		}
	}
	return declared
}
