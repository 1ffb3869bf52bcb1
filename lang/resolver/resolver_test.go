package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/lox/lang/parser"
)

func TestResolveSimpleVarDepth(t *testing.T) {
	_, stmts, err := parser.ParseProgram(`
var a = "outer";
{
  var a = "inner";
  print a;
}
print a;
`)
	require.NoError(t, err)
	depths, err := Resolve(stmts)
	require.NoError(t, err)

	block := stmts[1]
	printInner := block.Body[1]
	require.Equal(t, 0, depths[printInner.Expr.ID])
}

func TestResolveClosureDepth(t *testing.T) {
	_, stmts, err := parser.ParseProgram(`
fun outer() {
  var x = 1;
  fun inner() {
    return x;
  }
  return inner;
}
`)
	require.NoError(t, err)
	_, err = Resolve(stmts)
	require.NoError(t, err)
}

func TestResolveReturnOutsideFunction(t *testing.T) {
	_, stmts, err := parser.ParseProgram(`return 1;`)
	require.NoError(t, err)
	_, err = Resolve(stmts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't return from top-level code.")
}

func TestResolveBreakOutsideLoop(t *testing.T) {
	_, stmts, err := parser.ParseProgram(`break;`)
	require.NoError(t, err)
	_, err = Resolve(stmts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't break outside of a loop.")
}

func TestResolveThisOutsideClass(t *testing.T) {
	_, stmts, err := parser.ParseProgram(`print this;`)
	require.NoError(t, err)
	_, err = Resolve(stmts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't use 'this' outside of a class.")
}

func TestResolveSuperWithoutSuperclass(t *testing.T) {
	_, stmts, err := parser.ParseProgram(`
class A { greet() { super.greet(); } }
`)
	require.NoError(t, err)
	_, err = Resolve(stmts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't use 'super' in a class with no superclass.")
}

func TestResolveClassInheritsFromItself(t *testing.T) {
	_, stmts, err := parser.ParseProgram(`class A < A {}`)
	require.NoError(t, err)
	_, err = Resolve(stmts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "A class can't inherit from itself.")
}

func TestResolveDuplicateLocalDeclaration(t *testing.T) {
	_, stmts, err := parser.ParseProgram(`
{
  var a = 1;
  var a = 2;
}
`)
	require.NoError(t, err)
	_, err = Resolve(stmts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Variable already declared in this scope.")
}

func TestResolveReadLocalInOwnInitializer(t *testing.T) {
	_, stmts, err := parser.ParseProgram(`
{
  var a = a;
}
`)
	require.NoError(t, err)
	_, err = Resolve(stmts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Can't read local variable in its own initializer.")
}

func TestResolveGlobalRedeclarationAllowed(t *testing.T) {
	_, stmts, err := parser.ParseProgram(`
var a = 1;
var a = 2;
print a;
`)
	require.NoError(t, err)
	_, err = Resolve(stmts)
	require.NoError(t, err)
}
