package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/lox/internal/diag"
	"github.com/mna/lox/lang/ast"
)

func TestParseExpressionPrecedence(t *testing.T) {
	_, expr, err := ParseExpression("1 + 2 * 3")
	require.NoError(t, err)
	require.Equal(t, "(+ 1.0 (* 2.0 3.0))", ast.Print(expr))
}

func TestParseExpressionGrouping(t *testing.T) {
	_, expr, err := ParseExpression("(1 + 2) * 3")
	require.NoError(t, err)
	require.Equal(t, "(* (group (+ 1.0 2.0)) 3.0)", ast.Print(expr))
}

func TestParseTernary(t *testing.T) {
	_, expr, err := ParseExpression("true ? 1 : 2")
	require.NoError(t, err)
	require.Equal(t, "(?: true 1.0 2.0)", ast.Print(expr))
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	_, stmts, err := ParseProgram(`1 + 2 = 3;`)
	require.Error(t, err)
	require.Nil(t, stmts)
}

func TestParseVarDeclAndPrint(t *testing.T) {
	_, stmts, err := ParseProgram(`var a = 1; print a;`)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	require.Equal(t, ast.StmtVar, stmts[0].Kind)
	require.Equal(t, ast.StmtPrint, stmts[1].Kind)
}

func TestParseForDesugarsToWhile(t *testing.T) {
	_, stmts, err := ParseProgram(`for (var i = 0; i < 3; i = i + 1) print i;`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	block := stmts[0]
	require.Equal(t, ast.StmtBlock, block.Kind)
	require.Len(t, block.Body, 2)
	require.Equal(t, ast.StmtVar, block.Body[0].Kind)
	require.Equal(t, ast.StmtWhile, block.Body[1].Kind)

	whileStmt := block.Body[1]
	whileBody := whileStmt.WhileBody()
	require.Equal(t, ast.StmtBlock, whileBody.Kind)
	require.Len(t, whileBody.Body, 2)
	require.Equal(t, ast.StmtPrint, whileBody.Body[0].Kind)
	require.Equal(t, ast.StmtExpression, whileBody.Body[1].Kind)
}

func TestParseClassWithSuperclass(t *testing.T) {
	_, stmts, err := ParseProgram(`
class A { greet() { print "A"; } }
class B < A { greet() { super.greet(); } }
`)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	require.Equal(t, ast.StmtClass, stmts[1].Kind)
	require.NotNil(t, stmts[1].Superclass)
	require.Equal(t, "A", stmts[1].Superclass.Name.Lexeme)
}

func TestParseBreakOutsideLoopIsSyntacticallyValid(t *testing.T) {
	// The parser only has to build a Break node; the resolver validates that
	// it is nested inside a loop.
	_, stmts, err := ParseProgram(`break;`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	require.Equal(t, ast.StmtBreak, stmts[0].Kind)
}

func TestParseErrorRecoverySurfacesMultipleErrors(t *testing.T) {
	_, _, err := ParseProgram(`
var = 1;
var = 2;
var ok = 3;
`)
	require.Error(t, err)
	var errs diag.List
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
}

func TestParseArgumentLimit(t *testing.T) {
	src := "f("
	for i := 0; i < 255; i++ {
		if i > 0 {
			src += ","
		}
		src += "1"
	}
	src += ");"
	_, _, err := ParseProgram(src)
	require.Error(t, err)
}
