package semantic

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/synergy-network-hq/synq-language-sub000/internal/ast"
)

// BuiltinResolution classifies a call name against the PQC builtin surface.
type BuiltinResolution int

const (
	NotBuiltin BuiltinResolution = iota
	Supported
	Unsupported
)

// ResolveBuiltin matches an underscore-stripped, lowercased call name
// against the PQC builtin families and returns its signature when
// supported, or an explanatory reason when the name names a real but
// currently de-scoped algorithm (SLH-DSA).
func ResolveBuiltin(name string) (BuiltinResolution, FunctionSignature, string) {
	normalized := normalizeBuiltinName(name)

	switch {
	case strings.HasPrefix(normalized, "verifyslhdsa"), strings.HasPrefix(normalized, "slhdsa"):
		return Unsupported, FunctionSignature{}, "SLH-DSA is de-scoped in the current SynQ runtime profile"

	case strings.HasPrefix(normalized, "verifymldsa"):
		return Supported, FunctionSignature{
			Params:  []*ast.Type{ast.NewPrimitiveType(ast.KindMLDSAPublicKey), ast.BytesType, ast.NewPrimitiveType(ast.KindMLDSASignature)},
			Returns: ast.BoolType,
		}, ""

	case strings.HasPrefix(normalized, "verifyfndsa"):
		return Supported, FunctionSignature{
			Params:  []*ast.Type{ast.NewPrimitiveType(ast.KindFNDSAPublicKey), ast.BytesType, ast.NewPrimitiveType(ast.KindFNDSASignature)},
			Returns: ast.BoolType,
		}, ""

	case strings.HasPrefix(normalized, "mlkem") && strings.Contains(normalized, "decapsulate"):
		return Supported, FunctionSignature{
			Params:  []*ast.Type{ast.NewPrimitiveType(ast.KindMLKEMCiphertext), ast.BytesType},
			Returns: ast.BytesType,
		}, ""

	case strings.HasPrefix(normalized, "hqckem") && strings.Contains(normalized, "decapsulate"):
		return Supported, FunctionSignature{
			Params:  []*ast.Type{ast.BytesType, ast.BytesType},
			Returns: ast.BytesType,
		}, ""
	}

	// Other mldsa/fndsa/mlkem/hqckem-prefixed names are tolerated as
	// parse-time valid but semantically unmodeled until a concrete shape
	// is pinned for them (e.g. key-generation helpers).
	return NotBuiltin, FunctionSignature{}, ""
}

// normalizeBuiltinName folds a call name to a delimiter-free lowercase
// form so "verify_mldsa", "verifyMLDSA", and "VerifyMLDSA" all match the
// same prefix check; strcase.ToSnake absorbs the casing variants before
// the underscore strip.
func normalizeBuiltinName(name string) string {
	return strings.ReplaceAll(strcase.ToSnake(name), "_", "")
}

// castTargetType resolves a call name naming a known scalar or PQC
// opaque type (e.g. "Address(x)", "MLKEMCiphertext(x)") to the type it
// casts to. Returns nil if name is not a recognized type name.
func castTargetType(name string) *ast.Type {
	switch name {
	case "Address":
		return ast.AddressType
	case "Bool":
		return ast.BoolType
	case "Bytes":
		return ast.BytesType
	case "String":
		return ast.StringType
	}
	if bits, ok := fixedWidthCastBits(name, "UInt"); ok {
		return ast.NewUIntType(bits)
	}
	if bits, ok := fixedWidthCastBits(name, "Int"); ok {
		return ast.NewIntType(bits)
	}
	if kind, ok := ast.PQCTypeNames[name]; ok {
		return ast.NewPrimitiveType(kind)
	}
	return nil
}

func fixedWidthCastBits(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	digits := name[len(prefix):]
	if digits == "" {
		return 0, false
	}
	n := 0
	for _, ch := range digits {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		n = n*10 + int(ch-'0')
	}
	return n, true
}
