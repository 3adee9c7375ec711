package parser

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/synergy-network-hq/synq-language-sub000/internal/ast"
)

var synqParser = buildParser()

func buildParser() *participle.Parser[sourceFileSyntax] {
	p, err := participle.Build[sourceFileSyntax](
		participle.Lexer(synqLexer),
		participle.Elide("Whitespace", "Comment", "DocComment"),
		participle.UseLookahead(4),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build SynQ parser: %w", err))
	}
	return p
}

// ParseFile reads and parses the named source file.
func ParseFile(path string) (*ast.SourceFile, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseSource(path, string(source))
}

// ParseSource parses SynQ source text into the domain AST. sourceName
// is used only for position reporting in the returned error/nodes.
func ParseSource(sourceName string, source string) (*ast.SourceFile, error) {
	raw, err := synqParser.ParseString(sourceName, source)
	if err != nil {
		return nil, err
	}
	return convertSourceFile(raw), nil
}
