package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/synergy-network-hq/synq-language-sub000/internal/ast"
)

func TestErrorReporter_FormatsCodeAndLocation(t *testing.T) {
	source := "contract Foo {\n  function bar() -> UInt256 {\n    return missing;\n  }\n}\n"
	reporter := NewErrorReporter("test.synq", source)

	err := UndefinedSymbol("missing", ast.Position{Line: 3, Column: 12}, nil)
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedSymbol+"]")
	assert.Contains(t, formatted, "test.synq:3:12")
}

func TestUndefinedSymbol_WithSuggestion(t *testing.T) {
	err := UndefinedSymbol("balnce", ast.Position{Line: 1, Column: 1}, []string{"balance"})
	assert.Equal(t, ErrorUndefinedSymbol, err.Code)
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "balance")
}

func TestTypeMismatch(t *testing.T) {
	err := TypeMismatch("return value", ast.AddressType, ast.BoolType, ast.Position{Line: 2, Column: 5})
	assert.Equal(t, ErrorTypeMismatch, err.Code)
	assert.Contains(t, err.Message, "Address")
	assert.Contains(t, err.Message, "Bool")
}

func TestErrorMarkerCreation(t *testing.T) {
	reporter := NewErrorReporter("test.synq", "let variable = 1;")
	marker := reporter.createMarker(5, 8, Error)
	assert.Contains(t, marker, "^")
}

func TestErrorLevels(t *testing.T) {
	reporter := NewErrorReporter("test.synq", "x")
	pos := ast.Position{Line: 1, Column: 1}

	errorErr := CompilerError{Level: Error, Message: "test error", Position: pos}
	warningErr := CompilerError{Level: Warning, Message: "test warning", Position: pos}

	assert.Contains(t, reporter.FormatError(errorErr), "error")
	assert.Contains(t, reporter.FormatError(warningErr), "warning")
}

func TestIsWarning(t *testing.T) {
	assert.True(t, IsWarning(WarningUnusedVariable))
	assert.False(t, IsWarning(ErrorTypeMismatch))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "Semantic Analysis", GetErrorCategory(ErrorUndefinedSymbol))
	assert.Equal(t, "Flow Control", GetErrorCategory(ErrorMissingReturn))
	assert.Equal(t, "Codegen", GetErrorCategory(ErrorUndefinedLabel))
}
