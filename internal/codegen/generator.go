package codegen

import (
	"encoding/hex"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/synergy-network-hq/synq-language-sub000/internal/ast"
	"github.com/synergy-network-hq/synq-language-sub000/internal/bytecode"
	synqerrors "github.com/synergy-network-hq/synq-language-sub000/internal/errors"
	"github.com/synergy-network-hq/synq-language-sub000/internal/semantic"
)

// jumpPatch is a deferred rewrite of a 4-byte operand slot, keyed by
// the label whose resolved code position it should receive.
type jumpPatch struct {
	pos   int
	label string
}

// Generator is the three-pass bytecode generator: collectFunctions,
// then genSourceUnit over every translation-unit member, then
// patchJumps. A Generator is single-use; call Generate once.
type Generator struct {
	asm             *Assembler
	currentFunction string // "" means the emitting position is outside any function ("global")
	patches         []jumpPatch
	labelPositions  map[string]int
}

// NewGenerator returns a Generator ready to translate units into a
// .synq binary via Generate.
func NewGenerator() *Generator {
	return &Generator{
		asm:            NewAssembler(),
		labelPositions: make(map[string]int),
	}
}

// Generate runs all three passes and returns the encoded .synq binary.
// It fails fast on the first CodegenError (an unresolved label or an
// unsupported construct); semantic errors are expected to have already
// been ruled out by the analyzer.
func Generate(units []ast.SourceUnit) ([]byte, error) {
	g := NewGenerator()

	for _, unit := range units {
		g.collectFunctions(unit)
	}

	for _, unit := range units {
		if err := g.genSourceUnit(unit); err != nil {
			return nil, err
		}
	}

	if err := g.patchJumps(); err != nil {
		return nil, err
	}

	return bytecode.Encode(g.asm.Build(), nil), nil
}

func (g *Generator) patchJumps() error {
	for _, p := range g.patches {
		pos, ok := g.labelPositions[p.label]
		if !ok {
			return synqerrors.NewCodegenError("Undefined label: %s", p.label)
		}
		g.asm.PatchU32(p.pos, uint32(pos))
	}
	return nil
}

// collectFunctions registers every contract function's entry label
// ahead of any emission, so the label table is complete before the
// first statement is lowered; genContract then sets each label to its
// function's actual entry position as that function is emitted. Constructors
// receive no named label: they are always emitted first, inline, at
// the start of their contract's own emission.
func (g *Generator) collectFunctions(unit ast.SourceUnit) {
	contract, ok := unit.(*ast.ContractDef)
	if !ok {
		return
	}
	for _, fn := range contract.Functions() {
		label := contract.Name + "_" + fn.Name
		pos := g.asm.CodeLen()
		g.labelPositions[label] = pos
	}
}

func (g *Generator) genSourceUnit(unit ast.SourceUnit) error {
	switch u := unit.(type) {
	case *ast.ContractDef:
		return g.genContract(u)
	default:
		// Structs and free-standing events are metadata only; they
		// contribute no bytecode.
		return nil
	}
}

func (g *Generator) genContract(c *ast.ContractDef) error {
	for _, ctor := range c.Constructors() {
		if err := g.genConstructor(ctor); err != nil {
			return err
		}
	}
	for _, fn := range c.Functions() {
		g.currentFunction = c.Name + "_" + fn.Name
		g.labelPositions[g.currentFunction] = g.asm.CodeLen()
		if err := g.genFunction(fn); err != nil {
			return err
		}
		g.currentFunction = ""
	}
	return nil
}

func (g *Generator) genConstructor(ctor *ast.Constructor) error {
	if err := g.genBlock(ctor.Body); err != nil {
		return err
	}
	g.asm.EmitOp(bytecode.Return)
	return nil
}

func (g *Generator) genFunction(fn *ast.FunctionDef) error {
	if err := g.genBlock(fn.Body); err != nil {
		return err
	}
	g.asm.EmitOp(bytecode.Return)
	return nil
}

func (g *Generator) genBlock(b *ast.Block) error {
	for _, stmt := range b.Statements {
		if err := g.genStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) fnLabel() string {
	if g.currentFunction == "" {
		return "global"
	}
	return g.currentFunction
}

func (g *Generator) genStatement(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		if s.Initializer != nil {
			if err := g.genExpression(s.Initializer); err != nil {
				return err
			}
		} else {
			g.asm.EmitOp(bytecode.Push)
			g.asm.EmitU32(0)
		}
		g.emitVariableStore(s.Name)
		return nil

	case *ast.AssignStmt:
		if err := g.genExpression(s.Expr); err != nil {
			return err
		}
		g.emitVariableStore(s.Name)
		return nil

	case *ast.ReturnStmt:
		if s.Value != nil {
			if err := g.genExpression(s.Value); err != nil {
				return err
			}
		}
		g.asm.EmitOp(bytecode.Return)
		return nil

	case *ast.RequireStmt:
		return g.genRequire(s)

	case *ast.RevertStmt:
		g.asm.EmitOp(bytecode.Halt)
		return nil

	case *ast.IfStmt:
		return g.genIf(s)

	case *ast.ForStmt:
		return g.genFor(s)

	case *ast.EmitStmt:
		return g.genEmit(s)

	case *ast.RequirePqcStmt:
		return g.genRequirePqc(s)

	case *ast.ExprStmt:
		if err := g.genExpression(s.Expr); err != nil {
			return err
		}
		g.asm.EmitOp(bytecode.Pop)
		return nil

	default:
		return synqerrors.NewCodegenError("codegen: unhandled statement kind %T", stmt)
	}
}

func (g *Generator) genRequire(s *ast.RequireStmt) error {
	if err := g.genExpression(s.Cond); err != nil {
		return err
	}
	errorLabel := g.fnLabel() + "_require_error"
	g.asm.EmitOp(bytecode.JumpIf)
	g.addPatch(errorLabel)
	// Current profile collapses revert to halt.
	g.labelPositions[errorLabel] = g.asm.CodeLen()
	g.asm.EmitOp(bytecode.Halt)
	return nil
}

func (g *Generator) genIf(s *ast.IfStmt) error {
	if err := g.genExpression(s.Cond); err != nil {
		return err
	}

	pos := g.asm.CodeLen()
	elseLabel := g.fnLabel() + "_if_else_" + itoa(pos)
	endLabel := g.fnLabel() + "_if_end_" + itoa(pos)

	g.asm.EmitOp(bytecode.JumpIf)
	g.addPatch(elseLabel)

	if err := g.genBlock(s.Then); err != nil {
		return err
	}

	if s.Else != nil {
		g.asm.EmitOp(bytecode.Jump)
		g.addPatch(endLabel)

		g.labelPositions[elseLabel] = g.asm.CodeLen()
		if err := g.genBlock(s.Else); err != nil {
			return err
		}
		g.labelPositions[endLabel] = g.asm.CodeLen()
	} else {
		g.labelPositions[elseLabel] = g.asm.CodeLen()
	}
	return nil
}

func (g *Generator) genFor(s *ast.ForStmt) error {
	if err := g.genExpression(s.Start); err != nil {
		return err
	}
	g.emitVariableStore(s.Iter)

	loopID := g.asm.CodeLen()
	checkLabel := g.fnLabel() + "_for_check_" + itoa(loopID)
	bodyLabel := g.fnLabel() + "_for_body_" + itoa(loopID)
	endLabel := g.fnLabel() + "_for_end_" + itoa(loopID)

	g.labelPositions[checkLabel] = g.asm.CodeLen()
	g.emitVariableLoad(s.Iter)
	if err := g.genExpression(s.End); err != nil {
		return err
	}
	g.asm.EmitOp(bytecode.Lt)
	g.asm.EmitOp(bytecode.JumpIf)
	g.addPatch(bodyLabel)

	g.asm.EmitOp(bytecode.Jump)
	g.addPatch(endLabel)

	g.labelPositions[bodyLabel] = g.asm.CodeLen()
	if err := g.genBlock(s.Body); err != nil {
		return err
	}

	g.emitVariableLoad(s.Iter)
	g.asm.EmitOp(bytecode.Push)
	g.asm.EmitU32(1)
	g.asm.EmitOp(bytecode.Add)
	g.emitVariableStore(s.Iter)

	g.asm.EmitOp(bytecode.Jump)
	g.addPatch(checkLabel)

	g.labelPositions[endLabel] = g.asm.CodeLen()
	return nil
}

func (g *Generator) genEmit(s *ast.EmitStmt) error {
	g.asm.EmitOp(bytecode.Push)
	g.asm.EmitU32(stableHash32(s.EventName))
	for _, arg := range s.Args {
		if err := g.genExpression(arg); err != nil {
			return err
		}
	}
	// Event logging is a runtime-sink concern; no dedicated opcode today.
	return nil
}

func (g *Generator) genRequirePqc(s *ast.RequirePqcStmt) error {
	pos := g.asm.CodeLen()
	successLabel := g.fnLabel() + "_require_pqc_success_" + itoa(pos)
	failureLabel := g.fnLabel() + "_require_pqc_failure_" + itoa(pos)
	endLabel := g.fnLabel() + "_require_pqc_end_" + itoa(pos)

	if err := g.genBlock(s.Block); err != nil {
		return err
	}

	g.asm.EmitOp(bytecode.JumpIf)
	g.addPatch(failureLabel)

	g.labelPositions[successLabel] = g.asm.CodeLen()
	g.asm.EmitOp(bytecode.Jump)
	g.addPatch(endLabel)

	g.labelPositions[failureLabel] = g.asm.CodeLen()
	if err := g.genFallback(s.Fallback); err != nil {
		return err
	}

	g.labelPositions[endLabel] = g.asm.CodeLen()
	return nil
}

func (g *Generator) genFallback(fallback ast.Stmt) error {
	switch f := fallback.(type) {
	case nil:
		g.asm.EmitOp(bytecode.Halt)
	case *ast.RevertStmt:
		g.asm.EmitOp(bytecode.Halt)
	case *ast.ReturnStmt:
		if f.Value != nil {
			if err := g.genExpression(f.Value); err != nil {
				return err
			}
		}
		g.asm.EmitOp(bytecode.Return)
	default:
		g.asm.EmitOp(bytecode.Halt)
	}
	return nil
}

func (g *Generator) genExpression(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return g.genLiteral(e.Value)
	case *ast.IdentExpr:
		g.emitVariableLoad(e.Name)
		return nil
	case *ast.CallExpr:
		return g.genCall(e)
	case *ast.MemberAccessExpr:
		// Member resolution to a concrete field address is left to the
		// runtime memory model; evaluate the receiver for its side
		// effects and leave the member name unconsumed.
		return g.genExpression(e.Object)
	case *ast.BinaryExpr:
		if err := g.genExpression(e.Left); err != nil {
			return err
		}
		if err := g.genExpression(e.Right); err != nil {
			return err
		}
		return g.genBinaryOp(e.Op)
	case *ast.UnaryExpr:
		if err := g.genExpression(e.Operand); err != nil {
			return err
		}
		return g.genUnaryOp(e.Op)
	case *ast.IndexAccessExpr:
		if err := g.genExpression(e.Object); err != nil {
			return err
		}
		return g.genExpression(e.Index)
	case *ast.TernaryExpr:
		return g.genTernary(e)
	default:
		return synqerrors.NewCodegenError("codegen: unhandled expression kind %T", expr)
	}
}

func (g *Generator) genLiteral(lit *ast.Literal) error {
	switch lit.Kind {
	case ast.LitNumber:
		g.asm.EmitOp(bytecode.Push)
		g.asm.EmitU32(uint32(lit.Number.Uint64()))
	case ast.LitBool:
		g.asm.EmitOp(bytecode.Push)
		if lit.Bool {
			g.asm.EmitU32(1)
		} else {
			g.asm.EmitU32(0)
		}
	case ast.LitString:
		g.asm.EmitOp(bytecode.LoadImm)
		b := []byte(lit.Str)
		g.asm.EmitU32(uint32(len(b)))
		g.asm.EmitBytes(b)
	case ast.LitAddress, ast.LitBytes:
		return g.genBytesLikeLiteral(lit)
	default:
		return synqerrors.NewCodegenError("codegen: unhandled literal kind")
	}
	return nil
}

func (g *Generator) genBytesLikeLiteral(lit *ast.Literal) error {
	var payload []byte
	if lit.Kind == ast.LitAddress {
		hexDigits := strings.TrimPrefix(lit.Hex, "0x")
		if len(hexDigits)%2 != 0 {
			return synqerrors.NewCodegenError("Address literal must be hex encoded")
		}
		decoded, err := hex.DecodeString(hexDigits)
		if err != nil {
			return synqerrors.NewCodegenError("Address literal must be hex encoded: %s", err)
		}
		payload = decoded
	} else {
		decoded, err := hex.DecodeString(lit.Hex)
		if err != nil {
			return synqerrors.NewCodegenError("Bytes literal must be hex encoded: %s", err)
		}
		payload = decoded
	}
	g.asm.EmitOp(bytecode.LoadImm)
	g.asm.EmitU32(uint32(len(payload)))
	g.asm.EmitBytes(payload)
	return nil
}

func (g *Generator) genBinaryOp(op ast.BinaryOp) error {
	switch op {
	case ast.OpAdd:
		g.asm.EmitOp(bytecode.Add)
	case ast.OpSub:
		g.asm.EmitOp(bytecode.Sub)
	case ast.OpMul:
		g.asm.EmitOp(bytecode.Mul)
	case ast.OpDiv:
		g.asm.EmitOp(bytecode.Div)
	case ast.OpEq:
		g.asm.EmitOp(bytecode.Eq)
	case ast.OpNe:
		g.asm.EmitOp(bytecode.Ne)
	case ast.OpLt:
		g.asm.EmitOp(bytecode.Lt)
	case ast.OpLe:
		g.asm.EmitOp(bytecode.Le)
	case ast.OpGt:
		g.asm.EmitOp(bytecode.Gt)
	case ast.OpGe:
		g.asm.EmitOp(bytecode.Ge)
	default:
		// And/Or/Shl/Shr/Mod: accepted by the semantic analyzer but have
		// no codegen lowering in the current ISA profile.
		return synqerrors.NewCodegenError("Unsupported binary operation")
	}
	return nil
}

func (g *Generator) genUnaryOp(op ast.UnaryOp) error {
	switch op {
	case ast.OpNeg:
		g.asm.EmitOp(bytecode.Push)
		g.asm.EmitU32(0)
		g.asm.EmitOp(bytecode.Swap)
		g.asm.EmitOp(bytecode.Sub)
	case ast.OpNot:
		g.asm.EmitOp(bytecode.Push)
		g.asm.EmitU32(1)
		g.asm.EmitOp(bytecode.Swap)
		g.asm.EmitOp(bytecode.Eq)
	default:
		return synqerrors.NewCodegenError("Unsupported unary operation")
	}
	return nil
}

func (g *Generator) genTernary(e *ast.TernaryExpr) error {
	pos := g.asm.CodeLen()
	elseLabel := g.fnLabel() + "_ternary_else_" + itoa(pos)
	endLabel := g.fnLabel() + "_ternary_end_" + itoa(pos)

	if err := g.genExpression(e.Cond); err != nil {
		return err
	}
	g.asm.EmitOp(bytecode.JumpIf)
	g.addPatch(elseLabel)

	if err := g.genExpression(e.Then); err != nil {
		return err
	}
	g.asm.EmitOp(bytecode.Jump)
	g.addPatch(endLabel)

	g.labelPositions[elseLabel] = g.asm.CodeLen()
	if err := g.genExpression(e.Else); err != nil {
		return err
	}
	g.labelPositions[endLabel] = g.asm.CodeLen()
	return nil
}

func (g *Generator) genCall(e *ast.CallExpr) error {
	for _, arg := range e.Args {
		if err := g.genExpression(arg); err != nil {
			return err
		}
	}

	if op, ok := pqcOpcodeFor(e.Name); ok {
		g.asm.EmitOp(op)
		return nil
	}

	// TODO: resolve e.Name to its collected function entry address and
	// emit it as the Call operand; emitted bare for now.
	g.asm.EmitOp(bytecode.Call)
	return nil
}

// pqcOpcodeFor maps a call name recognized by the PQC builtin resolver
// onto its concrete opcode, disambiguating the HQC-KEM bit-strength
// variants by the digits present in the normalized name.
func pqcOpcodeFor(name string) (bytecode.Opcode, bool) {
	resolution, _, _ := semantic.ResolveBuiltin(name)
	if resolution != semantic.Supported {
		return 0, false
	}
	normalized := strings.ReplaceAll(strcase.ToSnake(name), "_", "")

	switch {
	case strings.HasPrefix(normalized, "verifymldsa"):
		return bytecode.MLDSAVerify, true
	case strings.HasPrefix(normalized, "verifyfndsa"):
		return bytecode.FNDSAVerify, true
	case strings.HasPrefix(normalized, "hqckem"):
		switch {
		case strings.Contains(normalized, "128"):
			return bytecode.HQCKEM128KeyExchange, true
		case strings.Contains(normalized, "192"):
			return bytecode.HQCKEM192KeyExchange, true
		default:
			return bytecode.HQCKEM256KeyExchange, true
		}
	case strings.HasPrefix(normalized, "mlkem"):
		return bytecode.MLKEMKeyExchange, true
	default:
		return 0, false
	}
}

// variableAddress derives a u32 memory address from (function, name),
// stable across the whole compilation unit: identical inputs always
// produce identical addresses, and two variables of the same name in
// different functions never collide.
func variableAddress(functionName, name string) uint32 {
	h := fnv.New64a()
	h.Write([]byte(functionName))
	h.Write([]byte{0})
	h.Write([]byte(name))
	sum := h.Sum64()
	return uint32(sum ^ (sum >> 32))
}

func (g *Generator) emitVariableStore(name string) {
	addr := variableAddress(g.fnLabel(), name)
	g.asm.EmitOp(bytecode.Push)
	g.asm.EmitU32(addr)
	g.asm.EmitOp(bytecode.Store)
}

func (g *Generator) emitVariableLoad(name string) {
	addr := variableAddress(g.fnLabel(), name)
	g.asm.EmitOp(bytecode.Push)
	g.asm.EmitU32(addr)
	g.asm.EmitOp(bytecode.Load)
}

func (g *Generator) addPatch(label string) {
	pos := g.asm.CodeLen()
	g.asm.EmitU32(0)
	g.patches = append(g.patches, jumpPatch{pos: pos, label: label})
}

// stableHash32 derives the 32-bit event identifier pushed by Emit: a
// deterministic fold of a 64-bit FNV-1a digest down to its low bits.
func stableHash32(name string) uint32 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return uint32(h.Sum64())
}

func itoa(n int) string { return strconv.Itoa(n) }
