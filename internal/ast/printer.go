package ast

import (
	"fmt"
	"strings"
)

// String renders a best-effort reconstruction of the source text a node
// was parsed from. It exists for CLI echo and debugging, not round-trip
// formatting.

func (f *SourceFile) String() string {
	var b strings.Builder
	for i, u := range f.Units {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(u.String())
	}
	return b.String()
}

func (p *ParamDef) String() string { return p.Name + ": " + p.Type.String() }

func (f *FieldDef) String() string { return f.Name + ": " + f.Type.String() }

func (s *StructDef) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {\n", s.Name)
	for _, f := range s.Fields {
		fmt.Fprintf(&b, "    %s,\n", f.String())
	}
	b.WriteString("}")
	return b.String()
}

func (e *EventDef) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "event %s(", e.Name)
	for i, p := range e.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(");")
	return b.String()
}

func (s *StateVariable) String() string {
	pub := ""
	if s.IsPublic {
		pub = "public "
	}
	return fmt.Sprintf("%s%s: %s;", pub, s.Name, s.Type.String())
}

func (c *Constructor) String() string {
	var b strings.Builder
	b.WriteString("constructor(")
	for i, p := range c.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") ")
	b.WriteString(c.Body.String())
	return b.String()
}

func (f *FunctionDef) String() string {
	var b strings.Builder
	if f.IsPublic {
		b.WriteString("public ")
	}
	fmt.Fprintf(&b, "function %s(", f.Name)
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(")")
	if f.Returns != nil {
		b.WriteString(" -> " + f.Returns.String())
	}
	b.WriteString(" ")
	b.WriteString(f.Body.String())
	return b.String()
}

func (c *ContractDef) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "contract %s {\n", c.Name)
	for _, p := range c.Parts {
		b.WriteString(indent(p.String()))
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		sb.WriteString(indent(s.String()))
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (s *VarDeclStmt) String() string {
	if s.Initializer != nil {
		return fmt.Sprintf("let %s: %s = %s;", s.Name, s.Type.String(), s.Initializer.String())
	}
	return fmt.Sprintf("let %s: %s;", s.Name, s.Type.String())
}

func (s *AssignStmt) String() string { return fmt.Sprintf("%s = %s;", s.Name, s.Expr.String()) }

func (s *ReturnStmt) String() string {
	if s.Value != nil {
		return "return " + s.Value.String() + ";"
	}
	return "return;"
}

func (s *RequireStmt) String() string {
	return fmt.Sprintf("require(%s, %q);", s.Cond.String(), s.Message)
}

func (s *RevertStmt) String() string { return fmt.Sprintf("revert(%q);", s.Message) }

func (s *IfStmt) String() string {
	out := "if (" + s.Cond.String() + ") " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

func (s *ForStmt) String() string {
	return fmt.Sprintf("for (%s in %s..%s) %s", s.Iter, s.Start.String(), s.End.String(), s.Body.String())
}

func (s *EmitStmt) String() string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("emit %s(%s);", s.EventName, strings.Join(args, ", "))
}

func (s *RequirePqcStmt) String() string {
	out := "require_pqc " + s.Block.String()
	if s.Fallback != nil {
		out += " else " + s.Fallback.String()
	}
	return out
}

func (s *ExprStmt) String() string { return s.Expr.String() + ";" }

func (e *LiteralExpr) String() string {
	switch e.Value.Kind {
	case LitNumber:
		return e.Value.Number.String()
	case LitBool:
		if e.Value.Bool {
			return "true"
		}
		return "false"
	case LitString:
		return fmt.Sprintf("%q", e.Value.Str)
	case LitAddress:
		return "0x" + e.Value.Hex
	case LitBytes:
		return "0x" + e.Value.Hex
	default:
		return "<literal>"
	}
}

func (e *IdentExpr) String() string { return e.Name }

func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
}

func (e *MemberAccessExpr) String() string { return e.Object.String() + "." + e.Member }

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op.String(), e.Right.String())
}

func (e *UnaryExpr) String() string { return e.Op.String() + e.Operand.String() }

func (e *IndexAccessExpr) String() string {
	return fmt.Sprintf("%s[%s]", e.Object.String(), e.Index.String())
}

func (e *TernaryExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", e.Cond.String(), e.Then.String(), e.Else.String())
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
