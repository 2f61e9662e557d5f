package ast

import (
	"fmt"
	"strings"
)

func (c *Contract) String() string {
	var b strings.Builder

	for _, comment := range c.LeadingComments {
		b.WriteString(comment.String())
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("%s %s {\n", c.Kind, c.Name.Value))
	for _, item := range c.Items {
		b.WriteString("  " + strings.ReplaceAll(item.String(), "\n", "\n  ") + "\n")
	}
	b.WriteString("}")

	return b.String()
}

func (dc *DocComment) String() string {
	return dc.Text
}

func (c *Comment) String() string {
	return c.Text
}

func (bci *BadContractItem) String() string {
	return fmt.Sprintf("BadContractItem: %s", bci.Bad.Message)
}

func (be *BadExpr) String() string {
	return fmt.Sprintf("BadExpr: %s", be.Bad.Message)
}

func (a *Attribute) String() string {
	return fmt.Sprintf("#[%s]", a.Name)
}

func (u *Use) String() string {
	return fmt.Sprintf("use %s;", u.Module.Value)
}

func (cd *ConstDecl) String() string {
	return fmt.Sprintf("const %s: %s = %s;", cd.Name.Value, cd.Type.String(), cd.Value.String())
}

func (s *Struct) String() string {
	var b strings.Builder

	if s.Attribute != nil {
		b.WriteString(s.Attribute.String())
		b.WriteString("\n")
	}

	if s.DocComment != nil {
		b.WriteString(s.DocComment.String())
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("struct %s {", s.Name.Value))
	for i, field := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(field.String())
	}
	b.WriteString("}")
	return b.String()
}

func (sf *StructField) String() string {
	return fmt.Sprintf("%s: %s", sf.Name.Value, sf.VariableType.String())
}

func (f *Function) String() string {
	var b strings.Builder

	if f.Attribute != nil {
		b.WriteString(f.Attribute.String())
		b.WriteString("\n")
	}

	if f.DocComment != nil {
		b.WriteString(f.DocComment.String())
		b.WriteString("\n")
	}

	if f.External {
		b.WriteString("ext ")
	}

	b.WriteString("fn ")
	b.WriteString(f.Name.Value)
	b.WriteString("(")
	for i, param := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(param.String())
	}
	b.WriteString(")")

	if f.Return != nil {
		b.WriteString(" -> ")
		b.WriteString(f.Return.String())
	}

	b.WriteString(" {\n")
	if f.Body != nil {
		b.WriteString(f.Body.StringIndented("  "))
	}
	b.WriteString("}")
	return b.String()
}

func (fp *FunctionParam) String() string {
	return fmt.Sprintf("%s: %s", fp.Name.Value, fp.Type.String())
}

func (vt *VariableType) String() string {
	if vt == nil {
		return "<none>"
	}
	if vt.IsArray() {
		return fmt.Sprintf("%s[%s]", vt.Elem.String(), vt.Len)
	}
	if vt.Size != "" {
		return vt.Size
	}

	var b strings.Builder
	if vt.Module != nil {
		b.WriteString(vt.Module.Value)
		b.WriteString("::")
	}
	b.WriteString(vt.Name.Value)
	if len(vt.Generics) > 0 {
		b.WriteString("<")
		for i, g := range vt.Generics {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(g.String())
		}
		b.WriteString(">")
	}
	return b.String()
}

func (b *FunctionBlock) String() string {
	return "{\n" + b.StringIndented("  ") + "}"
}

func (b *FunctionBlock) StringIndented(indent string) string {
	var out strings.Builder
	for _, item := range b.Items {
		out.WriteString(indent)
		out.WriteString(strings.ReplaceAll(item.String(), "\n", "\n"+indent))
		out.WriteByte('\n')
	}
	if b.TailExpr != nil {
		out.WriteString(indent)
		out.WriteString(b.TailExpr.String())
		out.WriteByte('\n')
	}
	return out.String()
}

func (e *ExprStmt) String() string {
	s := e.Expr.String()
	if e.Semicolon {
		return s + ";"
	}
	return s
}

func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Value.String())
}

func (l *LetStmt) String() string {
	var b strings.Builder
	b.WriteString("let ")
	if l.Mut {
		b.WriteString("mut ")
	}
	b.WriteString(l.Name.Value)
	if l.Type != nil {
		b.WriteString(": ")
		b.WriteString(l.Type.String())
	}
	b.WriteString(" = ")
	b.WriteString(l.Expr.String())
	b.WriteString(";")
	return b.String()
}

func (a *AssignStmt) String() string {
	return fmt.Sprintf("%s %s %s;", a.Target.String(), a.Operator, a.Value.String())
}

func (a *AssertStmt) String() string {
	args := make([]string, len(a.Args))
	for i, arg := range a.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("assert!(%s);", strings.Join(args, ", "))
}

func (i *IfStmt) String() string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("if %s {\n", i.Cond.String()))
	result.WriteString(i.Then.StringIndented("  "))
	result.WriteString("}")

	switch e := i.Else.(type) {
	case *IfStmt:
		result.WriteString(" else ")
		result.WriteString(e.String())
	case *FunctionBlock:
		result.WriteString(" else {\n")
		result.WriteString(e.StringIndented("  "))
		result.WriteString("}")
	}

	return result.String()
}

func (f *ForStmt) String() string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("for %s: %s in %s {\n", f.Var.Value, f.Type.String(), f.Iter.String()))
	result.WriteString(f.Body.StringIndented("  "))
	result.WriteString("}")
	return result.String()
}

func (*BreakStmt) String() string {
	return "break;"
}

func (*ContinueStmt) String() string {
	return "continue;"
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

func (u *UnaryExpr) String() string {
	return fmt.Sprintf("(%s%s)", u.Op, u.Value.String())
}

func (c *CallExpr) String() string {
	var b strings.Builder

	b.WriteString(c.Callee.String())
	b.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (f *FieldAccessExpr) String() string {
	return fmt.Sprintf("%s.%s", f.Target.String(), f.Field)
}

func (i *IndexExpr) String() string {
	return fmt.Sprintf("%s[%s]", i.Target.String(), i.Index.String())
}

func (s *StructLiteralExpr) String() string {
	var b strings.Builder
	b.WriteString(s.Type.String())
	b.WriteString(" {")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	b.WriteString("}")
	return b.String()
}

func (l *LiteralExpr) String() string {
	switch l.Kind {
	case StringLiteral:
		return fmt.Sprintf("%q", l.Value)
	case BytesLiteral:
		return fmt.Sprintf("b%q", l.Value)
	default:
		return l.Value
	}
}

func (i *IdentExpr) String() string {
	return i.Name
}

func (c *CalleePath) String() string {
	parts := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		parts[i] = p.Value
	}
	return strings.Join(parts, "::")
}

func (f *StructLiteralField) String() string {
	return fmt.Sprintf("%s: %s", f.Name.Value, f.Value.String())
}

func (p *ParenExpr) String() string {
	return fmt.Sprintf("(%s)", p.Value.String())
}

func (t *TupleExpr) String() string {
	return "(" + joinExprs(t.Elements) + ")"
}

func (l *ListExpr) String() string {
	return "[" + joinExprs(l.Elements) + "]"
}

func (i *IfExpr) String() string {
	return fmt.Sprintf("if %s { %s } else { %s }", i.Cond.String(), i.Then.String(), i.Else.String())
}

func (i *Ident) String() string {
	return i.Value
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
