// Package ast defines the Lox abstract syntax tree as two tagged-union node
// types (Expr and Stmt), each allocated from an Arena that assigns every
// node a stable integer identity. The resolver uses that identity, not the
// node's address, as the key into its depth map: arena ids remain stable
// across the whole run, unlike pointers under a moving collector, and make
// the resolver's side table a plain map[ExprID]int instead of needing the
// AST to carry mutable annotation fields.
package ast

import "github.com/mna/lox/lang/token"

// ExprKind identifies which case of the Expr union is populated.
type ExprKind int8

//nolint:revive
const (
	ExprLiteral ExprKind = iota
	ExprGrouping
	ExprUnary
	ExprBinary
	ExprLogical
	ExprTernary
	ExprVariable
	ExprAssign
	ExprCall
	ExprGet
	ExprSet
	ExprThis
	ExprSuper
)

// ExprID is the stable arena index of an Expr, used as the resolver's depth
// map key.
type ExprID int

// Expr is a tagged union over every Lox expression form. Only the fields
// relevant to Kind are populated; see the comment on each field for which
// kind(s) use it.
type Expr struct {
	ID   ExprID
	Kind ExprKind
	Line int

	Value any // ExprLiteral: the literal value (nil, bool, float64, string)

	Inner *Expr // ExprGrouping, ExprUnary: the sole operand

	Left, Right *Expr      // ExprBinary, ExprLogical: operands
	Operator    token.Kind // ExprUnary, ExprBinary, ExprLogical: the operator

	Cond, Then, Else *Expr // ExprTernary

	Name token.Token // ExprVariable, ExprAssign, ExprThis, ExprSuper (method name)

	AssignValue *Expr // ExprAssign, ExprSet: the right-hand side

	Callee    *Expr // ExprCall
	Args      []*Expr
	ParenLine int

	Object *Expr // ExprGet, ExprSet
}

// StmtKind identifies which case of the Stmt union is populated.
type StmtKind int8

//nolint:revive
const (
	StmtExpression StmtKind = iota
	StmtPrint
	StmtVar
	StmtBlock
	StmtIf
	StmtWhile
	StmtFunction
	StmtReturn
	StmtBreak
	StmtClass
)

// StmtID is the stable arena index of a Stmt.
type StmtID int

// Stmt is a tagged union over every Lox statement form.
type Stmt struct {
	ID   StmtID
	Kind StmtKind
	Line int

	Expr *Expr // StmtExpression, StmtPrint, StmtReturn (value, may be nil)

	Name    token.Token // StmtVar, StmtFunction, StmtClass
	Init    *Expr       // StmtVar: initializer, may be nil
	Params  []token.Token
	Body    []*Stmt // StmtFunction: function body; StmtBlock: block contents

	Cond      *Expr // StmtIf, StmtWhile
	ThenBranch *Stmt // StmtIf
	ElseBranch *Stmt // StmtIf, may be nil

	Superclass *Expr   // StmtClass: ExprVariable naming the superclass, or nil
	Methods    []*Stmt // StmtClass: StmtFunction nodes
}

// Arena owns every Expr and Stmt node created during a single parse. Nodes
// are allocated as pointers so that growing the arena's backing slices never
// invalidates a node's address or its id.
type Arena struct {
	exprs []*Expr
	stmts []*Stmt
}

// NewArena returns an empty Arena.
func NewArena() *Arena { return &Arena{} }

func (a *Arena) newExpr(e *Expr) *Expr {
	e.ID = ExprID(len(a.exprs))
	a.exprs = append(a.exprs, e)
	return e
}

func (a *Arena) newStmt(s *Stmt) *Stmt {
	s.ID = StmtID(len(a.stmts))
	a.stmts = append(a.stmts, s)
	return s
}

// ExprCount returns the number of expression nodes allocated so far.
func (a *Arena) ExprCount() int { return len(a.exprs) }

// Literal allocates a literal expression node.
func (a *Arena) Literal(value any, line int) *Expr {
	return a.newExpr(&Expr{Kind: ExprLiteral, Value: value, Line: line})
}

// Grouping allocates a parenthesized-expression node.
func (a *Arena) Grouping(inner *Expr, line int) *Expr {
	return a.newExpr(&Expr{Kind: ExprGrouping, Inner: inner, Line: line})
}

// Unary allocates a unary-operator node.
func (a *Arena) Unary(op token.Kind, inner *Expr, line int) *Expr {
	return a.newExpr(&Expr{Kind: ExprUnary, Operator: op, Inner: inner, Line: line})
}

// Binary allocates a binary-operator node.
func (a *Arena) Binary(left *Expr, op token.Kind, right *Expr, line int) *Expr {
	return a.newExpr(&Expr{Kind: ExprBinary, Left: left, Operator: op, Right: right, Line: line})
}

// Logical allocates a short-circuiting and/or node.
func (a *Arena) Logical(left *Expr, op token.Kind, right *Expr, line int) *Expr {
	return a.newExpr(&Expr{Kind: ExprLogical, Left: left, Operator: op, Right: right, Line: line})
}

// Ternary allocates a `cond ? then : else` node.
func (a *Arena) Ternary(cond, then, els *Expr, line int) *Expr {
	return a.newExpr(&Expr{Kind: ExprTernary, Cond: cond, Then: then, Else: els, Line: line})
}

// Variable allocates a variable-reference node.
func (a *Arena) Variable(name token.Token) *Expr {
	return a.newExpr(&Expr{Kind: ExprVariable, Name: name, Line: name.Line})
}

// Assign allocates a variable-assignment node.
func (a *Arena) Assign(name token.Token, value *Expr) *Expr {
	return a.newExpr(&Expr{Kind: ExprAssign, Name: name, AssignValue: value, Line: name.Line})
}

// Call allocates a function/method-call node. parenLine is the line of the
// closing paren, used to attribute arity-mismatch runtime errors.
func (a *Arena) Call(callee *Expr, args []*Expr, parenLine int) *Expr {
	return a.newExpr(&Expr{Kind: ExprCall, Callee: callee, Args: args, ParenLine: parenLine, Line: callee.Line})
}

// Get allocates a property-read node.
func (a *Arena) Get(object *Expr, name token.Token) *Expr {
	return a.newExpr(&Expr{Kind: ExprGet, Object: object, Name: name, Line: name.Line})
}

// Set allocates a property-write node.
func (a *Arena) Set(object *Expr, name token.Token, value *Expr) *Expr {
	return a.newExpr(&Expr{Kind: ExprSet, Object: object, Name: name, AssignValue: value, Line: name.Line})
}

// This allocates a `this` reference node.
func (a *Arena) This(name token.Token) *Expr {
	return a.newExpr(&Expr{Kind: ExprThis, Name: name, Line: name.Line})
}

// Super allocates a `super.method` reference node. name is the method
// identifier token.
func (a *Arena) Super(keywordLine int, name token.Token) *Expr {
	return a.newExpr(&Expr{Kind: ExprSuper, Name: name, Line: keywordLine})
}

// ExpressionStmt allocates an expression-statement node.
func (a *Arena) ExpressionStmt(e *Expr) *Stmt {
	return a.newStmt(&Stmt{Kind: StmtExpression, Expr: e, Line: e.Line})
}

// PrintStmt allocates a print-statement node.
func (a *Arena) PrintStmt(e *Expr, line int) *Stmt {
	return a.newStmt(&Stmt{Kind: StmtPrint, Expr: e, Line: line})
}

// VarStmt allocates a variable-declaration node. init may be nil.
func (a *Arena) VarStmt(name token.Token, init *Expr) *Stmt {
	return a.newStmt(&Stmt{Kind: StmtVar, Name: name, Init: init, Line: name.Line})
}

// BlockStmt allocates a block-statement node.
func (a *Arena) BlockStmt(stmts []*Stmt, line int) *Stmt {
	return a.newStmt(&Stmt{Kind: StmtBlock, Body: stmts, Line: line})
}

// IfStmt allocates an if-statement node. elseBranch may be nil.
func (a *Arena) IfStmt(cond *Expr, thenBranch, elseBranch *Stmt, line int) *Stmt {
	return a.newStmt(&Stmt{Kind: StmtIf, Cond: cond, ThenBranch: thenBranch, ElseBranch: elseBranch, Line: line})
}

// WhileStmt allocates a while-statement node.
func (a *Arena) WhileStmt(cond *Expr, body *Stmt, line int) *Stmt {
	return a.newStmt(&Stmt{Kind: StmtWhile, Cond: cond, ThenBranch: body, Line: line})
}

// FunctionStmt allocates a function-declaration node (also used for method
// bodies inside a class declaration).
func (a *Arena) FunctionStmt(name token.Token, params []token.Token, body []*Stmt) *Stmt {
	return a.newStmt(&Stmt{Kind: StmtFunction, Name: name, Params: params, Body: body, Line: name.Line})
}

// ReturnStmt allocates a return-statement node. value may be nil.
func (a *Arena) ReturnStmt(value *Expr, line int) *Stmt {
	return a.newStmt(&Stmt{Kind: StmtReturn, Expr: value, Line: line})
}

// BreakStmt allocates a break-statement node.
func (a *Arena) BreakStmt(line int) *Stmt {
	return a.newStmt(&Stmt{Kind: StmtBreak, Line: line})
}

// ClassStmt allocates a class-declaration node. superclass may be nil.
func (a *Arena) ClassStmt(name token.Token, superclass *Expr, methods []*Stmt) *Stmt {
	return a.newStmt(&Stmt{Kind: StmtClass, Name: name, Superclass: superclass, Methods: methods, Line: name.Line})
}

// WhileBody returns the body statement of a while loop (helper kept distinct
// from ThenBranch's if-statement meaning for callers reading generically).
func (s *Stmt) WhileBody() *Stmt { return s.ThenBranch }
