package parser

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/synergy-network-hq/synq-language-sub000/internal/ast"
)

// This file lowers the raw participle parse tree (syntax.go) into the
// domain AST in internal/ast. It is the only place that knows about
// both representations.

func pos(p lexer.Position) ast.Position {
	return ast.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func convertSourceFile(sf *sourceFileSyntax) *ast.SourceFile {
	out := &ast.SourceFile{}
	for _, u := range sf.Units {
		out.Units = append(out.Units, convertSourceUnit(u))
	}
	return out
}

func convertSourceUnit(u *sourceUnitSyntax) ast.SourceUnit {
	switch {
	case u.Struct != nil:
		return convertStruct(u.Struct)
	case u.Contract != nil:
		return convertContract(u.Contract)
	case u.Event != nil:
		return convertEvent(u.Event)
	default:
		panic("unreachable: empty sourceUnitSyntax")
	}
}

func convertStruct(s *structSyntax) *ast.StructDef {
	out := &ast.StructDef{Name: s.Name}
	out.Pos = pos(s.Pos)
	out.EndPos = out.Pos
	for _, f := range s.Fields {
		out.Fields = append(out.Fields, &ast.FieldDef{Name: f.Name, Type: convertType(f.Type)})
	}
	return out
}

func convertEvent(e *eventSyntax) *ast.EventDef {
	out := &ast.EventDef{Name: e.Name}
	out.Pos = pos(e.Pos)
	out.EndPos = out.Pos
	for _, p := range e.Params {
		out.Params = append(out.Params, convertParam(p))
	}
	return out
}

func convertParam(p *paramSyntax) *ast.ParamDef {
	out := &ast.ParamDef{Name: p.Name, Type: convertType(p.Type)}
	out.Pos = pos(p.Pos)
	out.EndPos = out.Pos
	return out
}

func convertContract(c *contractSyntax) *ast.ContractDef {
	out := &ast.ContractDef{Name: c.Name}
	out.Pos = pos(c.Pos)
	out.EndPos = out.Pos
	for _, p := range c.Parts {
		out.Parts = append(out.Parts, convertContractPart(p))
	}
	return out
}

func convertContractPart(p *contractPartSyntax) ast.ContractPart {
	switch {
	case p.StateVar != nil:
		return convertStateVar(p.StateVar)
	case p.Constructor != nil:
		return convertConstructor(p.Constructor)
	case p.Function != nil:
		return convertFunction(p.Function)
	case p.Event != nil:
		return convertEvent(p.Event)
	default:
		panic("unreachable: empty contractPartSyntax")
	}
}

func convertStateVar(s *stateVarSyntax) *ast.StateVariable {
	out := &ast.StateVariable{Name: s.Name, Type: convertType(s.Type), IsPublic: s.IsPublic}
	out.Pos = pos(s.Pos)
	out.EndPos = out.Pos
	return out
}

func convertConstructor(c *constructorSyntax) *ast.Constructor {
	out := &ast.Constructor{Body: convertBlock(c.Body)}
	out.Pos = pos(c.Pos)
	out.EndPos = out.Pos
	for _, p := range c.Params {
		out.Params = append(out.Params, convertParam(p))
	}
	return out
}

func convertFunction(f *functionSyntax) *ast.FunctionDef {
	out := &ast.FunctionDef{
		Name:     f.Name,
		IsPublic: f.IsPublic,
		Body:     convertBlock(f.Body),
	}
	out.Pos = pos(f.Pos)
	out.EndPos = out.Pos
	if f.Returns != nil {
		out.Returns = convertType(f.Returns)
	}
	for _, p := range f.Params {
		out.Params = append(out.Params, convertParam(p))
	}
	return out
}

func convertBlock(b *blockSyntax) *ast.Block {
	out := &ast.Block{}
	for _, s := range b.Statements {
		out.Statements = append(out.Statements, convertStmt(s))
	}
	return out
}

func convertStmt(s *stmtSyntax) ast.Stmt {
	switch {
	case s.VarDecl != nil:
		return convertVarDecl(s.VarDecl)
	case s.Return != nil:
		out := &ast.ReturnStmt{}
		out.Pos = pos(s.Return.Pos)
		out.EndPos = out.Pos
		if s.Return.Value != nil {
			out.Value = convertExpr(s.Return.Value)
		}
		return out
	case s.Require != nil:
		out := &ast.RequireStmt{Cond: convertExpr(s.Require.Cond)}
		out.Pos = pos(s.Require.Pos)
		out.EndPos = out.Pos
		if s.Require.Message != nil {
			out.Message = unquote(*s.Require.Message)
		}
		return out
	case s.Revert != nil:
		out := &ast.RevertStmt{}
		out.Pos = pos(s.Revert.Pos)
		out.EndPos = out.Pos
		if s.Revert.Message != nil {
			out.Message = unquote(*s.Revert.Message)
		}
		return out
	case s.If != nil:
		out := &ast.IfStmt{Cond: convertExpr(s.If.Cond), Then: convertBlock(s.If.Then)}
		out.Pos = pos(s.If.Pos)
		out.EndPos = out.Pos
		if s.If.Else != nil {
			out.Else = convertBlock(s.If.Else)
		}
		return out
	case s.For != nil:
		out := &ast.ForStmt{
			Iter:  s.For.Iter,
			Start: convertExpr(s.For.Start),
			End:   convertExpr(s.For.End),
			Body:  convertBlock(s.For.Body),
		}
		out.Pos = pos(s.For.Pos)
		out.EndPos = out.Pos
		return out
	case s.Emit != nil:
		out := &ast.EmitStmt{EventName: s.Emit.EventName}
		out.Pos = pos(s.Emit.Pos)
		out.EndPos = out.Pos
		for _, a := range s.Emit.Args {
			out.Args = append(out.Args, convertExpr(a))
		}
		return out
	case s.RequirePqc != nil:
		out := &ast.RequirePqcStmt{Block: convertBlock(s.RequirePqc.Block)}
		out.Pos = pos(s.RequirePqc.Pos)
		out.EndPos = out.Pos
		if s.RequirePqc.Fallback != nil {
			out.Fallback = convertStmt(s.RequirePqc.Fallback)
		}
		return out
	case s.Assign != nil:
		out := &ast.AssignStmt{Name: s.Assign.Name, Expr: convertExpr(s.Assign.Expr)}
		out.Pos = pos(s.Assign.Pos)
		out.EndPos = out.Pos
		return out
	case s.Expr != nil:
		out := &ast.ExprStmt{Expr: convertExpr(s.Expr.Expr)}
		out.Pos = pos(s.Expr.Pos)
		out.EndPos = out.Pos
		return out
	default:
		panic("unreachable: empty stmtSyntax")
	}
}

func convertVarDecl(v *varDeclStmtSyntax) *ast.VarDeclStmt {
	out := &ast.VarDeclStmt{Name: v.Name}
	out.Pos = pos(v.Pos)
	out.EndPos = out.Pos
	if v.Type != nil {
		out.Type = convertType(v.Type)
	} else {
		out.Type = ast.UInt256Type
	}
	if v.Initializer != nil {
		out.Initializer = convertExpr(v.Initializer)
	}
	return out
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `\"`, `"`)
}

// --- expressions ---

func convertExpr(e *exprSyntax) ast.Expr {
	cond := convertLogicOr(e.Cond)
	if e.Then == nil {
		return cond
	}
	return &ast.TernaryExpr{Cond: cond, Then: convertExpr(e.Then), Else: convertExpr(e.Else)}
}

func convertLogicOr(e *logicOrSyntax) ast.Expr {
	left := convertLogicAnd(e.Left)
	for _, r := range e.Rest {
		left = &ast.BinaryExpr{Op: ast.OpOr, Left: left, Right: convertLogicAnd(r.Right)}
	}
	return left
}

func convertLogicAnd(e *logicAndSyntax) ast.Expr {
	left := convertEquality(e.Left)
	for _, r := range e.Rest {
		left = &ast.BinaryExpr{Op: ast.OpAnd, Left: left, Right: convertEquality(r.Right)}
	}
	return left
}

func convertEquality(e *equalitySyntax) ast.Expr {
	left := convertRelational(e.Left)
	for _, r := range e.Rest {
		op := ast.OpEq
		if r.Op == "!=" {
			op = ast.OpNe
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: convertRelational(r.Right)}
	}
	return left
}

func convertRelational(e *relationalSyntax) ast.Expr {
	left := convertShift(e.Left)
	for _, r := range e.Rest {
		var op ast.BinaryOp
		switch r.Op {
		case "<":
			op = ast.OpLt
		case "<=":
			op = ast.OpLe
		case ">":
			op = ast.OpGt
		default:
			op = ast.OpGe
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: convertShift(r.Right)}
	}
	return left
}

func convertShift(e *shiftSyntax) ast.Expr {
	left := convertAdditive(e.Left)
	for _, r := range e.Rest {
		op := ast.OpShl
		if r.Op == ">>" {
			op = ast.OpShr
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: convertAdditive(r.Right)}
	}
	return left
}

func convertAdditive(e *additiveSyntax) ast.Expr {
	left := convertMultiplicative(e.Left)
	for _, r := range e.Rest {
		op := ast.OpAdd
		if r.Op == "-" {
			op = ast.OpSub
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: convertMultiplicative(r.Right)}
	}
	return left
}

func convertMultiplicative(e *multiplicativeSyntax) ast.Expr {
	left := convertUnary(e.Left)
	for _, r := range e.Rest {
		var op ast.BinaryOp
		switch r.Op {
		case "*":
			op = ast.OpMul
		case "/":
			op = ast.OpDiv
		default:
			op = ast.OpMod
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: convertUnary(r.Right)}
	}
	return left
}

func convertUnary(e *unarySyntax) ast.Expr {
	operand := convertPostfix(e.Operand)
	if e.Op == nil {
		return operand
	}
	op := ast.OpNeg
	if *e.Op == "!" {
		op = ast.OpNot
	}
	return &ast.UnaryExpr{Op: op, Operand: operand}
}

func convertPostfix(e *postfixSyntax) ast.Expr {
	out := convertPrimary(e.Primary)
	for _, op := range e.Ops {
		if op.Member != nil {
			out = &ast.MemberAccessExpr{Object: out, Member: *op.Member}
		} else {
			out = &ast.IndexAccessExpr{Object: out, Index: convertExpr(op.Index)}
		}
	}
	return out
}

func convertPrimary(e *primarySyntax) ast.Expr {
	p := pos(e.Pos)
	switch {
	case e.Call != nil:
		out := &ast.CallExpr{Name: e.Call.Name}
		out.Pos, out.EndPos = p, p
		for _, a := range e.Call.Args {
			out.Args = append(out.Args, convertExpr(a))
		}
		return out
	case e.Number != nil:
		n := new(big.Int)
		n.SetString(*e.Number, 10)
		out := &ast.LiteralExpr{Value: &ast.Literal{Kind: ast.LitNumber, Number: n}}
		out.Pos, out.EndPos = p, p
		return out
	case e.Hex != nil:
		hex := strings.TrimPrefix(*e.Hex, "0x")
		out := &ast.LiteralExpr{Value: &ast.Literal{Kind: ast.LitBytes, Hex: hex}}
		out.Pos, out.EndPos = p, p
		return out
	case e.Str != nil:
		out := &ast.LiteralExpr{Value: &ast.Literal{Kind: ast.LitString, Str: unquote(*e.Str)}}
		out.Pos, out.EndPos = p, p
		return out
	case e.True:
		out := &ast.LiteralExpr{Value: &ast.Literal{Kind: ast.LitBool, Bool: true}}
		out.Pos, out.EndPos = p, p
		return out
	case e.False:
		out := &ast.LiteralExpr{Value: &ast.Literal{Kind: ast.LitBool, Bool: false}}
		out.Pos, out.EndPos = p, p
		return out
	case e.Ident != nil:
		out := &ast.IdentExpr{Name: *e.Ident}
		out.Pos, out.EndPos = p, p
		return out
	case e.Paren != nil:
		return convertExpr(e.Paren)
	default:
		panic("unreachable: empty primarySyntax")
	}
}

// --- types ---

func convertType(t *typeSyntax) *ast.Type {
	out := &ast.Type{Name: t.Name}
	out.Pos = pos(t.Pos)
	out.EndPos = out.Pos

	switch t.Name {
	case "Bool":
		out.Kind = ast.KindBool
		return out
	case "Bytes":
		out.Kind = ast.KindBytes
		return out
	case "String":
		out.Kind = ast.KindString
		return out
	case "Address":
		out.Kind = ast.KindAddress
		return out
	case "Array":
		out.Kind = ast.KindArray
		if len(t.Args) > 0 && t.Args[0].Type != nil {
			out.Elem = convertType(t.Args[0].Type)
		}
		if len(t.Args) > 1 && t.Args[1].Number != nil {
			n, _ := strconv.Atoi(*t.Args[1].Number)
			out.Length = &n
		}
		return out
	case "Mapping":
		out.Kind = ast.KindMapping
		if len(t.Args) > 0 && t.Args[0].Type != nil {
			out.Key = convertType(t.Args[0].Type)
		}
		if len(t.Args) > 1 && t.Args[1].Type != nil {
			out.Value = convertType(t.Args[1].Type)
		}
		return out
	}

	if bits, ok := fixedWidthBits(t.Name, "UInt"); ok {
		out.Kind = ast.KindUInt
		out.BitWidth = bits
		return out
	}
	if bits, ok := fixedWidthBits(t.Name, "Int"); ok {
		out.Kind = ast.KindInt
		out.BitWidth = bits
		return out
	}
	if kind, ok := ast.PQCTypeNames[t.Name]; ok {
		out.Kind = kind
		return out
	}

	if len(t.Args) > 0 {
		out.Kind = ast.KindGeneric
		for _, a := range t.Args {
			if a.Type != nil {
				out.Params = append(out.Params, convertType(a.Type))
			}
		}
		return out
	}

	out.Kind = ast.KindStruct
	return out
}

func fixedWidthBits(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	suffix := name[len(prefix):]
	if suffix == "" {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}
