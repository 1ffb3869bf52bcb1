package interp

import (
	"fmt"

	"github.com/mna/lox/lang/ast"
)

// Function is a user-defined Lox function or method: a reference to its
// declaration, the environment captured at the point the `fun` (or method)
// was reached, and whether it is the special `init` method of a class.
type Function struct {
	Decl          *ast.Stmt
	Closure       *Environment
	IsInitializer bool
}

var _ Callable = (*Function)(nil)

// Arity returns the number of declared parameters.
func (f *Function) Arity() int { return len(f.Decl.Params) }

// String renders the function's display form, `<fn NAME>`.
func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme)
}

// Call runs the function body in a fresh environment parented by the
// function's closure, with each parameter bound to the corresponding
// argument. A Return signal supplies the result; falling off the end of
// the body yields nil. An initializer always yields `this`, regardless of
// what the body returned (the resolver statically rejects a value-carrying
// return inside init, so the fall-through/signal distinction never
// matters there).
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewChild(f.Closure)
	for i, p := range f.Decl.Params {
		env.Define(p.Lexeme, args[i])
	}

	err := in.executeBlock(f.Decl.Body, env)
	ret, isReturn := err.(controlReturn)
	if err != nil && !isReturn {
		return nil, err
	}
	if f.IsInitializer {
		this, _ := f.Closure.Get("this")
		return this, nil
	}
	if isReturn {
		return ret.Value, nil
	}
	return nil, nil
}

// Bind returns a new Function whose closure extends f's closure with `this`
// bound to inst, used to produce a bound method when a Get expression
// resolves to a method.
func (f *Function) Bind(inst *Instance) *Function {
	env := NewChild(f.Closure)
	env.Define("this", inst)
	return &Function{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}
