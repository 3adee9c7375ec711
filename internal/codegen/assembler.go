// Package codegen implements the bytecode generator: a three-pass
// translator from the analyzed AST to a linear .synq binary.
package codegen

import (
	"encoding/binary"

	"github.com/synergy-network-hq/synq-language-sub000/internal/bytecode"
)

// Assembler is an append-only opcode emitter with position-addressed
// patching of 32-bit little-endian operand slots.
type Assembler struct {
	code []byte
}

func NewAssembler() *Assembler { return &Assembler{} }

func (a *Assembler) EmitOp(op bytecode.Opcode) { a.code = append(a.code, byte(op)) }

func (a *Assembler) EmitU32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	a.code = append(a.code, buf[:]...)
}

func (a *Assembler) EmitBytes(b []byte) { a.code = append(a.code, b...) }

func (a *Assembler) CodeLen() int { return len(a.code) }

// PatchU32 overwrites the 4-byte operand slot at pos with v's
// little-endian encoding. pos must be the CodeLen value taken
// immediately before an EmitU32(0) placeholder was emitted.
func (a *Assembler) PatchU32(pos int, v uint32) {
	binary.LittleEndian.PutUint32(a.code[pos:pos+4], v)
}

// Build returns the assembled code buffer.
func (a *Assembler) Build() []byte { return a.code }
