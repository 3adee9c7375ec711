package lsp

import (
	"github.com/alecthomas/participle/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	synqerrors "github.com/synergy-network-hq/synq-language-sub000/internal/errors"
)

// ConvertParseError converts a participle parse failure into a single
// diagnostic spanning a short region after the reported position, since
// participle itself carries no end-of-span information.
func ConvertParseError(err error) []protocol.Diagnostic {
	pe, ok := err.(participle.Error)
	if !ok {
		return []protocol.Diagnostic{{
			Range:    zeroRange(),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("synq-parser"),
			Message:  err.Error(),
		}}
	}

	pos := pe.Position()
	line := uint32(0)
	if pos.Line > 0 {
		line = uint32(pos.Line - 1)
	}
	col := uint32(0)
	if pos.Column > 0 {
		col = uint32(pos.Column - 1)
	}

	return []protocol.Diagnostic{{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 1},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("synq-parser"),
		Message:  pe.Message(),
	}}
}

// ConvertSemanticErrors converts accumulated analyzer diagnostics into LSP
// diagnostics, using CompilerError's own Length to size the span.
func ConvertSemanticErrors(errs []synqerrors.CompilerError) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(errs))
	for _, e := range errs {
		line := uint32(0)
		if e.Position.Line > 0 {
			line = uint32(e.Position.Line - 1)
		}
		col := uint32(0)
		if e.Position.Column > 0 {
			col = uint32(e.Position.Column - 1)
		}
		length := uint32(e.Length)
		if length == 0 {
			length = 1
		}

		message := e.Message
		if e.Code != "" {
			message = "[" + e.Code + "] " + message
		}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: col},
				End:   protocol.Position{Line: line, Character: col + length},
			},
			Severity: ptrSeverity(severityFor(e.Level)),
			Source:   ptrString("synq-semantic"),
			Message:  message,
		})
	}
	return diagnostics
}

func severityFor(level synqerrors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case synqerrors.Warning:
		return protocol.DiagnosticSeverityWarning
	case synqerrors.Note, synqerrors.Help:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

func zeroRange() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 1},
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
