package ast

import (
	"strings"

	"github.com/mna/lox/lang/token"
)

// Print renders e in the parenthesized S-expression form required by the
// `parse` CLI command, e.g. `(+ 1.0 (* 2.0 3.0))`.
func Print(e *Expr) string {
	var sb strings.Builder
	printExpr(&sb, e)
	return sb.String()
}

func printExpr(sb *strings.Builder, e *Expr) {
	if e == nil {
		sb.WriteString("nil")
		return
	}
	switch e.Kind {
	case ExprLiteral:
		sb.WriteString(literalString(e.Value))
	case ExprGrouping:
		parenthesize(sb, "group", e.Inner)
	case ExprUnary:
		parenthesize(sb, e.Operator.String(), e.Inner)
	case ExprBinary:
		parenthesize(sb, e.Operator.String(), e.Left, e.Right)
	case ExprLogical:
		parenthesize(sb, e.Operator.String(), e.Left, e.Right)
	case ExprTernary:
		parenthesize(sb, "?:", e.Cond, e.Then, e.Else)
	case ExprVariable:
		sb.WriteString(e.Name.Lexeme)
	case ExprAssign:
		parenthesize(sb, "= "+e.Name.Lexeme, e.AssignValue)
	case ExprCall:
		sb.WriteString("(call ")
		printExpr(sb, e.Callee)
		for _, a := range e.Args {
			sb.WriteByte(' ')
			printExpr(sb, a)
		}
		sb.WriteByte(')')
	case ExprGet:
		sb.WriteString("(. ")
		printExpr(sb, e.Object)
		sb.WriteByte(' ')
		sb.WriteString(e.Name.Lexeme)
		sb.WriteByte(')')
	case ExprSet:
		sb.WriteString("(=. ")
		printExpr(sb, e.Object)
		sb.WriteByte(' ')
		sb.WriteString(e.Name.Lexeme)
		sb.WriteByte(' ')
		printExpr(sb, e.AssignValue)
		sb.WriteByte(')')
	case ExprThis:
		sb.WriteString("this")
	case ExprSuper:
		sb.WriteString("(super ")
		sb.WriteString(e.Name.Lexeme)
		sb.WriteByte(')')
	}
}

func parenthesize(sb *strings.Builder, name string, exprs ...*Expr) {
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, e := range exprs {
		sb.WriteByte(' ')
		printExpr(sb, e)
	}
	sb.WriteByte(')')
}

func literalString(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return token.FormatNumberLiteral(v)
	case string:
		return v
	default:
		return "?"
	}
}
