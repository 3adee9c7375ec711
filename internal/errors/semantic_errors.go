package errors

import (
	"fmt"
	"strings"

	"github.com/synergy-network-hq/synq-language-sub000/internal/ast"
)

// SemanticErrorBuilder provides a fluent interface for building a CompilerError.
type SemanticErrorBuilder struct {
	err CompilerError
}

func NewSemanticError(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{Level: Error, Code: code, Message: message, Position: pos, Length: 1},
	}
}

func NewSemanticWarning(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{Level: Warning, Code: code, Message: message, Position: pos, Length: 1},
	}
}

func (b *SemanticErrorBuilder) WithLength(length int) *SemanticErrorBuilder {
	b.err.Length = length
	return b
}

func (b *SemanticErrorBuilder) WithSuggestion(message string) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

func (b *SemanticErrorBuilder) WithNote(note string) *SemanticErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *SemanticErrorBuilder) WithHelp(help string) *SemanticErrorBuilder {
	b.err.HelpText = help
	return b
}

func (b *SemanticErrorBuilder) Build() CompilerError {
	return b.err
}

// UndefinedSymbol builds the "references undefined symbol" diagnostic.
func UndefinedSymbol(name string, pos ast.Position, similar []string) CompilerError {
	builder := NewSemanticError(ErrorUndefinedSymbol, fmt.Sprintf("references undefined symbol '%s'", name), pos).
		WithLength(len(name))
	if len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", strings.Join(similar, "', '")))
	} else {
		builder = builder.WithNote("symbols must be declared with 'let', as a parameter, or as a state variable")
	}
	return builder.Build()
}

// DuplicateDeclaration builds the same-scope re-declaration diagnostic.
func DuplicateDeclaration(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateDeclaration, fmt.Sprintf("'%s' is already declared in this scope", name), pos).
		WithLength(len(name)).
		Build()
}

// TypeMismatch builds the type-compatibility diagnostic.
func TypeMismatch(context string, expected, actual *ast.Type, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorTypeMismatch,
		fmt.Sprintf("%s: expected %s, found %s", context, expected.String(), actual.String()), pos).
		Build()
}

// UnsupportedBuiltin builds the "de-scoped from current runtime profile" diagnostic.
func UnsupportedBuiltin(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorUnsupportedBuiltin,
		fmt.Sprintf("unsupported builtin '%s': de-scoped from current runtime profile", name), pos).
		WithLength(len(name)).
		Build()
}

// MissingReturn builds the non-terminating-function diagnostic.
func MissingReturn(funcName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorMissingReturn,
		fmt.Sprintf("function '%s' may exit without returning a value on all paths", funcName), pos).
		Build()
}

// UnreachableStatement builds the post-terminal-statement diagnostic.
func UnreachableStatement(pos ast.Position) CompilerError {
	return NewSemanticError(ErrorUnreachableCode, "contains unreachable statement", pos).Build()
}

// DuplicateConstructor builds the multiple-constructor diagnostic.
func DuplicateConstructor(contractName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateConstructor,
		fmt.Sprintf("contract '%s' declares more than one constructor", contractName), pos).
		Build()
}

// DuplicateStateVariable builds the same-contract state variable redeclaration diagnostic.
func DuplicateStateVariable(contractName, varName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateStateVar,
		fmt.Sprintf("contract '%s' has duplicate state variable '%s'", contractName, varName), pos).
		WithLength(len(varName)).
		Build()
}

// InvalidArguments builds the call-arity/argument-type mismatch diagnostic.
func InvalidArguments(callee string, pos ast.Position, message string) CompilerError {
	return NewSemanticError(ErrorInvalidArguments,
		fmt.Sprintf("call to '%s': %s", callee, message), pos).
		Build()
}

// InvalidBinaryOperation builds the unsupported-binary-operand-types diagnostic.
func InvalidBinaryOperation(op string, left, right *ast.Type, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidBinaryOperation,
		fmt.Sprintf("operator '%s' is not supported between %s and %s", op, left.String(), right.String()), pos).
		Build()
}

// InvalidUnaryOperation builds the unsupported-unary-operand-type diagnostic.
func InvalidUnaryOperation(op string, operand *ast.Type, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidUnaryOperation,
		fmt.Sprintf("operator '%s' is not supported for %s", op, operand.String()), pos).
		Build()
}

// InvalidIndex builds the cannot-be-indexed diagnostic.
func InvalidIndex(objectType *ast.Type, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidIndex,
		fmt.Sprintf("value of type %s cannot be indexed", objectType.String()), pos).
		Build()
}

// InvalidMember builds the no-such-member diagnostic.
func InvalidMember(objectType *ast.Type, member string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidMember,
		fmt.Sprintf("%s has no member '%s'", objectType.String(), member), pos).
		WithLength(len(member)).
		Build()
}

// WithContext prefixes a message with "<contract>::<function>: " for locality,
// matching the analyzer's every-error-carries-a-context-prefix rule.
func WithContext(contract, function, message string) string {
	if function == "" {
		return fmt.Sprintf("%s: %s", contract, message)
	}
	return fmt.Sprintf("%s::%s: %s", contract, function, message)
}
