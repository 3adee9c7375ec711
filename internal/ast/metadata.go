package ast

// Metadata carries source-text bookkeeping alongside a node: the raw
// slice it was parsed from, plus leading comments attached during
// parsing. It exists so tooling (formatters, the LSP) can recover
// source fragments without re-lexing.
type Metadata struct {
	RawText  string
	Comments []string
}
