// Package interp implements the tree-walking evaluator: environments,
// values, callables, classes, instances, and the statement/expression
// walk that produces a Lox program's observable effects.
package interp

import (
	"context"
	"fmt"
	"io"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/resolver"
	"github.com/mna/lox/lang/token"
)

// Interpreter holds the mutable state of a single program run: the
// globals environment, the current environment pointer, and the
// resolver's depth map used for every variable lookup.
type Interpreter struct {
	Globals *Environment
	env     *Environment
	depths  resolver.Depths

	// Stdout receives `print` statement output.
	Stdout io.Writer

	// Trace, when non-nil, receives a one-line trace of each top-level
	// statement before it executes (internal/config's LOX_TRACE toggle).
	Trace io.Writer
}

// New returns an Interpreter with a fresh globals environment (pre-loaded
// with the builtins) bound to depths, the resolution map produced for the
// program about to run.
func New(stdout io.Writer, depths resolver.Depths) *Interpreter {
	globals := NewGlobals()
	defineGlobals(globals)
	return &Interpreter{
		Globals: globals,
		env:     globals,
		depths:  depths,
		Stdout:  stdout,
	}
}

// Run executes stmts (a fully parsed and resolved program) in order,
// stopping at the first runtime error. ctx is checked between top-level
// statements purely so the CLI layer's signal-driven cancellation can take
// effect without needing to thread a cancellation check through every
// recursive call.
func (in *Interpreter) Run(ctx context.Context, stmts []*ast.Stmt) error {
	for _, s := range stmts {
		if err := ctx.Err(); err != nil {
			return err
		}
		in.traceStmt(s)
		if err := in.execStmt(s); err != nil {
			if _, ok := err.(controlReturn); ok {
				panic("uncaught return signal reached the top-level driver")
			}
			if _, ok := err.(controlBreak); ok {
				panic("uncaught break signal reached the top-level driver")
			}
			return err
		}
	}
	return nil
}

func (in *Interpreter) traceStmt(s *ast.Stmt) {
	if in.Trace == nil {
		return
	}
	fmt.Fprintf(in.Trace, "[trace] line %d: %s\n", s.Line, stmtKindName(s.Kind))
}

func stmtKindName(k ast.StmtKind) string {
	names := [...]string{
		ast.StmtExpression: "expression", ast.StmtPrint: "print", ast.StmtVar: "var",
		ast.StmtBlock: "block", ast.StmtIf: "if", ast.StmtWhile: "while",
		ast.StmtFunction: "function", ast.StmtReturn: "return", ast.StmtBreak: "break",
		ast.StmtClass: "class",
	}
	return names[k]
}

// Evaluate evaluates a single expression (the `evaluate` pipeline stage)
// and returns its value.
func (in *Interpreter) Evaluate(e *ast.Expr) (Value, error) {
	return in.evalExpr(e)
}

func (in *Interpreter) execStmt(s *ast.Stmt) error {
	switch s.Kind {
	case ast.StmtExpression:
		_, err := in.evalExpr(s.Expr)
		return err
	case ast.StmtPrint:
		v, err := in.evalExpr(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.Stdout, Stringify(v))
		return nil
	case ast.StmtVar:
		var v Value
		if s.Init != nil {
			var err error
			v, err = in.evalExpr(s.Init)
			if err != nil {
				return err
			}
		}
		in.env.Define(s.Name.Lexeme, v)
		return nil
	case ast.StmtBlock:
		return in.executeBlock(s.Body, NewChild(in.env))
	case ast.StmtIf:
		cond, err := in.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return in.execStmt(s.ThenBranch)
		} else if s.ElseBranch != nil {
			return in.execStmt(s.ElseBranch)
		}
		return nil
	case ast.StmtWhile:
		return in.execWhile(s)
	case ast.StmtFunction:
		fn := &Function{Decl: s, Closure: in.env}
		in.env.Define(s.Name.Lexeme, fn)
		return nil
	case ast.StmtReturn:
		var v Value
		if s.Expr != nil {
			var err error
			v, err = in.evalExpr(s.Expr)
			if err != nil {
				return err
			}
		}
		return controlReturn{Value: v}
	case ast.StmtBreak:
		return controlBreak{}
	case ast.StmtClass:
		return in.execClass(s)
	}
	panic(fmt.Sprintf("interp: unhandled statement kind %d", s.Kind))
}

func (in *Interpreter) execWhile(s *ast.Stmt) error {
	for {
		cond, err := in.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		if !IsTruthy(cond) {
			return nil
		}
		if err := in.execStmt(s.WhileBody()); err != nil {
			if _, ok := err.(controlBreak); ok {
				return nil
			}
			return err
		}
	}
}

// executeBlock runs stmts against env, restoring the interpreter's previous
// environment on every exit path (normal completion, a return/break
// signal, or a runtime error), matching the block-scope acquisition
// discipline required by the resource model.
func (in *Interpreter) executeBlock(stmts []*ast.Stmt, env *Environment) error {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, s := range stmts {
		if err := in.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execClass(s *ast.Stmt) error {
	var super *Class
	if s.Superclass != nil {
		v, err := in.evalExpr(s.Superclass)
		if err != nil {
			return err
		}
		cls, ok := v.(*Class)
		if !ok {
			return runtimeErrorf(s.Superclass.Line, "Superclass must be a class.")
		}
		super = cls
	}

	in.env.Define(s.Name.Lexeme, nil)

	methodEnv := in.env
	if super != nil {
		methodEnv = NewChild(in.env)
		methodEnv.Define("super", super)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{
			Decl:          m,
			Closure:       methodEnv,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	cls := &Class{Name: s.Name.Lexeme, Superclass: super, Methods: methods}
	in.env.Assign(s.Name.Lexeme, cls)
	return nil
}

func (in *Interpreter) evalExpr(e *ast.Expr) (Value, error) {
	switch e.Kind {
	case ast.ExprLiteral:
		return e.Value, nil
	case ast.ExprGrouping:
		return in.evalExpr(e.Inner)
	case ast.ExprUnary:
		return in.evalUnary(e)
	case ast.ExprBinary:
		return in.evalBinary(e)
	case ast.ExprLogical:
		return in.evalLogical(e)
	case ast.ExprTernary:
		return in.evalTernary(e)
	case ast.ExprVariable:
		return in.lookupVariable(e.ID, e.Name)
	case ast.ExprAssign:
		return in.evalAssign(e)
	case ast.ExprCall:
		return in.evalCall(e)
	case ast.ExprGet:
		return in.evalGet(e)
	case ast.ExprSet:
		return in.evalSet(e)
	case ast.ExprThis:
		v, _ := in.lookupVariable(e.ID, e.Name)
		return v, nil
	case ast.ExprSuper:
		return in.evalSuper(e)
	}
	panic(fmt.Sprintf("interp: unhandled expression kind %d", e.Kind))
}

func (in *Interpreter) lookupVariable(id ast.ExprID, name token.Token) (Value, error) {
	if d, ok := in.depths[id]; ok {
		v, ok := in.env.Ancestor(d).Get(name.Lexeme)
		if !ok {
			return nil, runtimeErrorf(name.Line, "Undefined variable '%s'.", name.Lexeme)
		}
		return v, nil
	}
	v, ok := in.env.GetGlobal(name.Lexeme)
	if !ok {
		return nil, runtimeErrorf(name.Line, "Undefined variable '%s'.", name.Lexeme)
	}
	return v, nil
}

func (in *Interpreter) evalAssign(e *ast.Expr) (Value, error) {
	v, err := in.evalExpr(e.AssignValue)
	if err != nil {
		return nil, err
	}
	if d, ok := in.depths[e.ID]; ok {
		if !in.env.Ancestor(d).Assign(e.Name.Lexeme, v) {
			return nil, runtimeErrorf(e.Name.Line, "Undefined variable '%s'.", e.Name.Lexeme)
		}
		return v, nil
	}
	if !in.env.AssignGlobal(e.Name.Lexeme, v) {
		return nil, runtimeErrorf(e.Name.Line, "Undefined variable '%s'.", e.Name.Lexeme)
	}
	return v, nil
}

func (in *Interpreter) evalUnary(e *ast.Expr) (Value, error) {
	right, err := in.evalExpr(e.Inner)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case token.MINUS:
		n, ok := right.(float64)
		if !ok {
			return nil, runtimeErrorf(e.Line, "Operand must be a number.")
		}
		return -n, nil
	case token.BANG:
		return !IsTruthy(right), nil
	}
	panic("interp: unhandled unary operator")
}

func (in *Interpreter) evalBinary(e *ast.Expr) (Value, error) {
	left, err := in.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case token.PLUS:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, runtimeErrorf(e.Line, "Operands must be two numbers or two strings.")
	case token.MINUS:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, runtimeErrorf(e.Line, "Operands must be numbers.")
		}
		return ln - rn, nil
	case token.STAR:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, runtimeErrorf(e.Line, "Operands must be numbers.")
		}
		return ln * rn, nil
	case token.SLASH:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, runtimeErrorf(e.Line, "Operands must be numbers.")
		}
		return ln / rn, nil
	case token.GREATER:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, runtimeErrorf(e.Line, "Operands must be numbers.")
		}
		return ln > rn, nil
	case token.GREATER_EQUAL:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, runtimeErrorf(e.Line, "Operands must be numbers.")
		}
		return ln >= rn, nil
	case token.LESS:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, runtimeErrorf(e.Line, "Operands must be numbers.")
		}
		return ln < rn, nil
	case token.LESS_EQUAL:
		ln, rn, ok := numberOperands(left, right)
		if !ok {
			return nil, runtimeErrorf(e.Line, "Operands must be numbers.")
		}
		return ln <= rn, nil
	case token.EQUAL_EQUAL:
		return IsEqual(left, right), nil
	case token.BANG_EQUAL:
		return !IsEqual(left, right), nil
	}
	panic("interp: unhandled binary operator")
}

func numberOperands(left, right Value) (float64, float64, bool) {
	ln, ok := left.(float64)
	if !ok {
		return 0, 0, false
	}
	rn, ok := right.(float64)
	if !ok {
		return 0, 0, false
	}
	return ln, rn, true
}

func (in *Interpreter) evalLogical(e *ast.Expr) (Value, error) {
	left, err := in.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Operator == token.OR {
		if IsTruthy(left) {
			return left, nil
		}
	} else { // token.AND
		if !IsTruthy(left) {
			return left, nil
		}
	}
	return in.evalExpr(e.Right)
}

func (in *Interpreter) evalTernary(e *ast.Expr) (Value, error) {
	cond, err := in.evalExpr(e.Cond)
	if err != nil {
		return nil, err
	}
	if IsTruthy(cond) {
		return in.evalExpr(e.Then)
	}
	return in.evalExpr(e.Else)
}

func (in *Interpreter) evalCall(e *ast.Expr) (Value, error) {
	callee, err := in.evalExpr(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, runtimeErrorf(e.ParenLine, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, runtimeErrorf(e.ParenLine, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return fn.Call(in, args)
}

func (in *Interpreter) evalGet(e *ast.Expr) (Value, error) {
	obj, err := in.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, runtimeErrorf(e.Name.Line, "Only instances have properties.")
	}
	v, ok := inst.Get(e.Name.Lexeme)
	if !ok {
		return nil, runtimeErrorf(e.Name.Line, "Undefined property '%s'.", e.Name.Lexeme)
	}
	return v, nil
}

func (in *Interpreter) evalSet(e *ast.Expr) (Value, error) {
	obj, err := in.evalExpr(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, runtimeErrorf(e.Name.Line, "Only instances have fields.")
	}
	v, err := in.evalExpr(e.AssignValue)
	if err != nil {
		return nil, err
	}
	inst.Set(e.Name.Lexeme, v)
	return v, nil
}

func (in *Interpreter) evalSuper(e *ast.Expr) (Value, error) {
	d := in.depths[e.ID]
	superVal, _ := in.env.Ancestor(d).Get("super")
	super := superVal.(*Class)

	// `this` is always bound one environment closer to the call site than
	// `super`, by construction of execClass's method-closure environment.
	thisVal, _ := in.env.Ancestor(d - 1).Get("this")
	this := thisVal.(*Instance)

	method, ok := super.FindMethod(e.Name.Lexeme)
	if !ok {
		return nil, runtimeErrorf(e.Name.Line, "Undefined property '%s'.", e.Name.Lexeme)
	}
	return method.Bind(this), nil
}
