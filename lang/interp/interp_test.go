package interp_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/lox/lang/interp"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/resolver"
)

func runProgram(t *testing.T, src string) (string, error) {
	t.Helper()
	_, stmts, err := parser.ParseProgram(src)
	require.NoError(t, err)
	depths, err := resolver.Resolve(stmts)
	require.NoError(t, err)

	var out bytes.Buffer
	in := interp.New(&out, depths)
	err = in.Run(context.Background(), stmts)
	return out.String(), err
}

func TestArithmeticAndPrint(t *testing.T) {
	out, err := runProgram(t, `
print 1 + 2 * 3;
print (1 + 2) * 3;
print "foo" + "bar";
`)
	require.NoError(t, err)
	require.Equal(t, "7\n9\nfoobar\n", out)
}

func TestVariableShadowingInNestedBlocks(t *testing.T) {
	out, err := runProgram(t, `
var a = "outer";
{ var a = "inner"; print a; }
print a;
`)
	require.NoError(t, err)
	require.Equal(t, "inner\nouter\n", out)
}

func TestClosureCountsUp(t *testing.T) {
	out, err := runProgram(t, `
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    return i;
  }
  return count;
}
var c = makeCounter();
print c();
print c();
print c();
`)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n3\n", out)
}

func TestClassInheritanceAndSuper(t *testing.T) {
	out, err := runProgram(t, `
class A { greet() { print "A"; } }
class B < A { greet() { super.greet(); print "B"; } }
B().greet();
`)
	require.NoError(t, err)
	require.Equal(t, "A\nB\n", out)
}

func TestForDesugaringAndLoop(t *testing.T) {
	out, err := runProgram(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.NoError(t, err)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestRuntimeTypeErrorExits70(t *testing.T) {
	_, err := runProgram(t, `print "a" - 1;`)
	require.Error(t, err)
	var rerr *interp.RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestBreakExitsOnlyInnermostLoop(t *testing.T) {
	out, err := runProgram(t, `
for (var i = 0; i < 3; i = i + 1) {
  for (var j = 0; j < 3; j = j + 1) {
    if (j == 1) break;
    print i * 10 + j;
  }
}
`)
	require.NoError(t, err)
	require.Equal(t, "0\n10\n20\n", out)
}

func TestTernaryOperator(t *testing.T) {
	out, err := runProgram(t, `
print true ? "yes" : "no";
print false ? "yes" : "no";
`)
	require.NoError(t, err)
	require.Equal(t, "yes\nno\n", out)
}

func TestTruthinessAndEquality(t *testing.T) {
	out, err := runProgram(t, `
print nil == nil;
print nil == false;
print 0 == false;
print "" == false;
print 1 == 1.0;
`)
	require.NoError(t, err)
	require.Equal(t, "true\nfalse\nfalse\nfalse\ntrue\n", out)
}

func TestShortCircuitEvaluation(t *testing.T) {
	out, err := runProgram(t, `
fun sideEffect(tag, v) {
  print tag;
  return v;
}
print sideEffect("a", false) and sideEffect("b", true);
print sideEffect("c", true) or sideEffect("d", true);
`)
	require.NoError(t, err)
	require.Equal(t, "a\nfalse\nc\ntrue\n", out)
}

func TestMethodBindingIdentityPerCall(t *testing.T) {
	out, err := runProgram(t, `
class Counter {
  init() { this.n = 0; }
  inc() { this.n = this.n + 1; return this.n; }
}
var c = Counter();
var m1 = c.inc;
var m2 = c.inc;
print m1();
print m2();
`)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n", out)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := runProgram(t, `print undefined_name;`)
	require.Error(t, err)
	var rerr *interp.RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestFieldsAndGetSet(t *testing.T) {
	out, err := runProgram(t, `
class Box {}
var b = Box();
b.value = 42;
print b.value;
`)
	require.NoError(t, err)
	require.Equal(t, "42\n", out)
}

func TestStringifyNumberFormatting(t *testing.T) {
	out, err := runProgram(t, `
print 3;
print 3.14;
print 10.40;
`)
	require.NoError(t, err)
	require.Equal(t, "3\n3.14\n10.4\n", out)
}

func TestClockBuiltinIsCallable(t *testing.T) {
	out, err := runProgram(t, `print clock() >= 0;`)
	require.NoError(t, err)
	require.Equal(t, "true\n", out)
}
