// Package resolver implements the static scope-resolution pass: a single
// walk of the parsed AST that, for every variable-referencing expression,
// computes the number of enclosing lexical scopes between its use and its
// binding, and validates the handful of static rules (return/break/this/
// super placement, self-inheriting classes, duplicate local declarations)
// that don't need a full evaluation to check.
package resolver

import (
	"github.com/mna/lox/internal/diag"
	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/token"
)

// Depths maps an expression id to the number of environment hops between
// its use and its binding. An expression absent from the map refers to a
// global.
type Depths map[ast.ExprID]int

type functionKind int8

const (
	fnNone functionKind = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classKind int8

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// Resolve walks stmts (the output of a successful parse) and returns the
// resolution depths for every variable-referencing expression, or a
// diag.List if any static rule was violated.
func Resolve(stmts []*ast.Stmt) (Depths, error) {
	r := &resolver{depths: make(Depths)}
	r.resolveStmts(stmts)
	return r.depths, r.errs.Err()
}

type scope map[string]bool

type resolver struct {
	scopes      []scope
	depths      Depths
	errs        diag.List
	currentFn   functionKind
	currentCls  classKind
	loopDepth   int
}

func (r *resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }
func (r *resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	sc := r.scopes[len(r.scopes)-1]
	if _, ok := sc[name.Lexeme]; ok {
		r.errs.AddError(diag.AtError(name.Line, name.Lexeme, "Variable already declared in this scope."))
	}
	sc[name.Lexeme] = false
}

func (r *resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *resolver) resolveLocal(id ast.ExprID, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.depths[id] = len(r.scopes) - 1 - i
			return
		}
	}
	// unresolved: treated as a global, left out of the map.
}

func (r *resolver) resolveStmts(stmts []*ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s *ast.Stmt) {
	switch s.Kind {
	case ast.StmtExpression:
		r.resolveExpr(s.Expr)
	case ast.StmtPrint:
		r.resolveExpr(s.Expr)
	case ast.StmtVar:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)
	case ast.StmtBlock:
		r.beginScope()
		r.resolveStmts(s.Body)
		r.endScope()
	case ast.StmtIf:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}
	case ast.StmtWhile:
		r.resolveExpr(s.Cond)
		r.loopDepth++
		r.resolveStmt(s.WhileBody())
		r.loopDepth--
	case ast.StmtFunction:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)
	case ast.StmtReturn:
		if r.currentFn == fnNone {
			r.errs.AddError(diag.AtError(s.Line, "return", "Can't return from top-level code."))
		}
		if s.Expr != nil {
			if r.currentFn == fnInitializer {
				r.errs.AddError(diag.AtError(s.Line, "return", "Can't return a value from an initializer."))
			}
			r.resolveExpr(s.Expr)
		}
	case ast.StmtBreak:
		if r.loopDepth == 0 {
			r.errs.AddError(diag.AtError(s.Line, "break", "Can't break outside of a loop."))
		}
	case ast.StmtClass:
		r.resolveClass(s)
	}
}

func (r *resolver) resolveClass(s *ast.Stmt) {
	enclosingCls := r.currentCls
	r.currentCls = classClass
	defer func() { r.currentCls = enclosingCls }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.errs.AddError(diag.AtError(s.Superclass.Line, s.Superclass.Name.Lexeme, "A class can't inherit from itself."))
		}
		r.currentCls = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	defer r.endScope()

	for _, m := range s.Methods {
		kind := fnMethod
		if m.Name.Lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(m, kind)
	}
}

func (r *resolver) resolveFunction(s *ast.Stmt, kind functionKind) {
	enclosingFn := r.currentFn
	enclosingLoop := r.loopDepth
	r.currentFn = kind
	r.loopDepth = 0
	defer func() {
		r.currentFn = enclosingFn
		r.loopDepth = enclosingLoop
	}()

	r.beginScope()
	defer r.endScope()
	for _, p := range s.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(s.Body)
}

func (r *resolver) resolveExpr(e *ast.Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.ExprLiteral:
	case ast.ExprGrouping:
		r.resolveExpr(e.Inner)
	case ast.ExprUnary:
		r.resolveExpr(e.Inner)
	case ast.ExprBinary, ast.ExprLogical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case ast.ExprTernary:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case ast.ExprVariable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.errs.AddError(diag.AtError(e.Name.Line, e.Name.Lexeme, "Can't read local variable in its own initializer."))
			}
		}
		r.resolveLocal(e.ID, e.Name)
	case ast.ExprAssign:
		r.resolveExpr(e.AssignValue)
		r.resolveLocal(e.ID, e.Name)
	case ast.ExprCall:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case ast.ExprGet:
		r.resolveExpr(e.Object)
	case ast.ExprSet:
		r.resolveExpr(e.AssignValue)
		r.resolveExpr(e.Object)
	case ast.ExprThis:
		if r.currentCls == classNone {
			r.errs.AddError(diag.AtError(e.Name.Line, "this", "Can't use 'this' outside of a class."))
			return
		}
		r.resolveLocal(e.ID, e.Name)
	case ast.ExprSuper:
		switch r.currentCls {
		case classNone:
			r.errs.AddError(diag.AtError(e.Line, "super", "Can't use 'super' outside of a class."))
		case classClass:
			r.errs.AddError(diag.AtError(e.Line, "super", "Can't use 'super' in a class with no superclass."))
		}
		r.resolveLocal(e.ID, token.Token{Lexeme: "super", Line: e.Line})
	}
}
