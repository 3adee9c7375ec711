package ast

// Node is implemented by every AST type. Matching on NodeType gives
// callers an exhaustiveness check without reflection.
type Node interface {
	NodePos() Position
	NodeEndPos() Position
	NodeType() NodeType
	String() string

	GetMetadata() *Metadata
	SetMetadata(*Metadata)
}

type base struct {
	Pos      Position
	EndPos   Position
	metadata *Metadata
}

func (b *base) NodePos() Position       { return b.Pos }
func (b *base) NodeEndPos() Position    { return b.EndPos }
func (b *base) GetMetadata() *Metadata  { return b.metadata }
func (b *base) SetMetadata(m *Metadata) { b.metadata = m }
