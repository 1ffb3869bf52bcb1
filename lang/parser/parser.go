// Package parser implements the recursive-descent parser that turns a Lox
// token stream into the ast.Arena-owned statement list forming a program.
package parser

import (
	"github.com/mna/lox/internal/diag"
	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/scanner"
	"github.com/mna/lox/lang/token"
)

// maxArgs is the parser-enforced limit on call arguments and function
// parameters, matching the donor language's historical 254 (rather than 255)
// bound so that adding the implicit receiver never overflows a byte-sized
// arity counter.
const maxArgs = 254

// errParseMode is panicked by expect/error helpers on an unrecoverable parse
// error within the current statement; declaration recovers it and
// synchronizes to the next statement boundary, mirroring the donor parser's
// errPanicMode recovery idiom (lang/parser/parser.go).
type errParseMode struct{}

// ParseProgram scans and parses the full source text of a program (the
// `run` pipeline stage). The returned error, if non-nil, is a diag.List, and
// the statement list is then nil.
func ParseProgram(src string) (*ast.Arena, []*ast.Stmt, error) {
	toks, scanErrs := scanner.Scan(src)
	var p parser
	p.init(toks)
	p.errs = append(p.errs, scanErrs...)
	stmts := p.parseProgram()
	p.errs.Sort()
	if err := p.errs.Err(); err != nil {
		return p.arena, nil, err
	}
	return p.arena, stmts, nil
}

// ParseExpression scans and parses a single expression (the `parse` and
// `evaluate` pipeline stages). The returned error, if non-nil, is a
// diag.List.
func ParseExpression(src string) (*ast.Arena, *ast.Expr, error) {
	toks, scanErrs := scanner.Scan(src)
	var p parser
	p.init(toks)
	p.errs = append(p.errs, scanErrs...)
	expr := p.expressionTopLevel()
	p.errs.Sort()
	return p.arena, expr, p.errs.Err()
}

type parser struct {
	toks  []token.Token
	pos   int
	arena *ast.Arena
	errs  diag.List
}

func (p *parser) init(toks []token.Token) {
	p.toks = toks
	p.pos = 0
	p.arena = ast.NewArena()
}

func (p *parser) peek() token.Token { return p.toks[p.pos] }
func (p *parser) previous() token.Token {
	return p.toks[p.pos-1]
}
func (p *parser) atEnd() bool { return p.peek().Kind == token.EOF }

func (p *parser) advance() token.Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *parser) check(k token.Kind) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Kind == k
}

func (p *parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it has kind k, else reports msg at
// the current token's location and panics errParseMode.
func (p *parser) expect(k token.Kind, msg string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	p.errorAtCurrent(msg)
	panic(errParseMode{})
}

func (p *parser) errorAtCurrent(msg string) {
	tok := p.peek()
	where := tok.Lexeme
	if tok.Kind == token.EOF {
		where = "end"
	}
	p.errs.AddError(diag.AtError(tok.Line, where, msg))
}

func (p *parser) errorAt(tok token.Token, msg string) {
	where := tok.Lexeme
	if tok.Kind == token.EOF {
		where = "end"
	}
	p.errs.AddError(diag.AtError(tok.Line, where, msg))
}

// synchronize discards tokens until it reaches a likely statement boundary,
// so that a single file can report more than one syntax error per parse.
func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}
		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN, token.BREAK:
			return
		}
		p.advance()
	}
}

func (p *parser) parseProgram() []*ast.Stmt {
	var stmts []*ast.Stmt
	for !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (p *parser) expressionTopLevel() (expr *ast.Expr) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(errParseMode); ok {
				expr = nil
				return
			}
			panic(r)
		}
	}()
	return p.expression()
}

func (p *parser) declaration() (stmt *ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(errParseMode); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *parser) classDeclaration() *ast.Stmt {
	name := p.expect(token.IDENTIFIER, "Expect class name.")

	var superclass *ast.Expr
	if p.match(token.LESS) {
		p.expect(token.IDENTIFIER, "Expect superclass name.")
		superclass = p.arena.Variable(p.previous())
	}

	p.expect(token.LEFT_BRACE, "Expect '{' before class body.")
	var methods []*ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.atEnd() {
		methods = append(methods, p.function("method"))
	}
	p.expect(token.RIGHT_BRACE, "Expect '}' after class body.")

	return p.arena.ClassStmt(name, superclass, methods)
}

func (p *parser) function(kind string) *ast.Stmt {
	name := p.expect(token.IDENTIFIER, "Expect "+kind+" name.")
	p.expect(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.errorAtCurrent("Can't have more than 254 parameters.")
			}
			params = append(params, p.expect(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RIGHT_PAREN, "Expect ')' after parameters.")

	p.expect(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.block()
	return p.arena.FunctionStmt(name, params, body)
}

func (p *parser) varDeclaration() *ast.Stmt {
	name := p.expect(token.IDENTIFIER, "Expect variable name.")

	var init *ast.Expr
	if p.match(token.EQUAL) {
		init = p.expression()
	}
	p.expect(token.SEMICOLON, "Expect ';' after variable declaration.")
	return p.arena.VarStmt(name, init)
}

func (p *parser) statement() *ast.Stmt {
	switch {
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.BREAK):
		return p.breakStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LEFT_BRACE):
		line := p.previous().Line
		return p.arena.BlockStmt(p.block(), line)
	default:
		return p.expressionStatement()
	}
}

func (p *parser) block() []*ast.Stmt {
	var stmts []*ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(token.RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

// forStatement desugars the three-clause for loop to a block wrapping a
// while loop, per the donor language's historical jlox desugaring: the
// resolver and interpreter never see a dedicated For node.
func (p *parser) forStatement() *ast.Stmt {
	line := p.previous().Line
	p.expect(token.LEFT_PAREN, "Expect '(' after 'for'.")

	var initializer *ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var cond *ast.Expr
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.expect(token.SEMICOLON, "Expect ';' after loop condition.")

	var incr *ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		incr = p.expression()
	}
	p.expect(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if incr != nil {
		body = p.arena.BlockStmt([]*ast.Stmt{body, p.arena.ExpressionStmt(incr)}, line)
	}
	if cond == nil {
		cond = p.arena.Literal(true, line)
	}
	body = p.arena.WhileStmt(cond, body, line)
	if initializer != nil {
		body = p.arena.BlockStmt([]*ast.Stmt{initializer, body}, line)
	}
	return body
}

func (p *parser) ifStatement() *ast.Stmt {
	line := p.previous().Line
	p.expect(token.LEFT_PAREN, "Expect '(' after 'if'.")
	cond := p.expression()
	p.expect(token.RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch *ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return p.arena.IfStmt(cond, thenBranch, elseBranch, line)
}

func (p *parser) printStatement() *ast.Stmt {
	line := p.previous().Line
	value := p.expression()
	p.expect(token.SEMICOLON, "Expect ';' after value.")
	return p.arena.PrintStmt(value, line)
}

func (p *parser) returnStatement() *ast.Stmt {
	line := p.previous().Line
	var value *ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.expect(token.SEMICOLON, "Expect ';' after return value.")
	return p.arena.ReturnStmt(value, line)
}

func (p *parser) breakStatement() *ast.Stmt {
	line := p.previous().Line
	p.expect(token.SEMICOLON, "Expect ';' after 'break'.")
	return p.arena.BreakStmt(line)
}

func (p *parser) whileStatement() *ast.Stmt {
	line := p.previous().Line
	p.expect(token.LEFT_PAREN, "Expect '(' after 'while'.")
	cond := p.expression()
	p.expect(token.RIGHT_PAREN, "Expect ')' after condition.")
	body := p.statement()
	return p.arena.WhileStmt(cond, body, line)
}

func (p *parser) expressionStatement() *ast.Stmt {
	expr := p.expression()
	p.expect(token.SEMICOLON, "Expect ';' after expression.")
	return p.arena.ExpressionStmt(expr)
}

func (p *parser) expression() *ast.Expr {
	return p.assignment()
}

// assignment handles `target = value`, validating that target is a valid
// assignment target (Variable or Get) rather than accepting any expression,
// per the donor language's historical single-token-lookahead assignment
// check (it parses the left side as a full expression, then inspects its
// shape once it sees '=').
func (p *parser) assignment() *ast.Expr {
	expr := p.ternary()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch expr.Kind {
		case ast.ExprVariable:
			return p.arena.Assign(expr.Name, value)
		case ast.ExprGet:
			return p.arena.Set(expr.Object, expr.Name, value)
		}
		p.errorAt(equals, "Invalid assignment target.")
		return expr
	}
	return expr
}

// ternary parses the supplemented `cond ? then : else` conditional
// operator, slotted between assignment and logic_or per SPEC_FULL.md.
func (p *parser) ternary() *ast.Expr {
	expr := p.or()
	if p.match(token.QUESTION) {
		line := p.previous().Line
		then := p.expression()
		p.expect(token.COLON, "Expect ':' after then branch of conditional expression.")
		els := p.ternary()
		return p.arena.Ternary(expr, then, els, line)
	}
	return expr
}

func (p *parser) or() *ast.Expr {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = p.arena.Logical(expr, op.Kind, right, op.Line)
	}
	return expr
}

func (p *parser) and() *ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = p.arena.Logical(expr, op.Kind, right, op.Line)
	}
	return expr
}

func (p *parser) equality() *ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = p.arena.Binary(expr, op.Kind, right, op.Line)
	}
	return expr
}

func (p *parser) comparison() *ast.Expr {
	expr := p.term()
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		op := p.previous()
		right := p.term()
		expr = p.arena.Binary(expr, op.Kind, right, op.Line)
	}
	return expr
}

func (p *parser) term() *ast.Expr {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		op := p.previous()
		right := p.factor()
		expr = p.arena.Binary(expr, op.Kind, right, op.Line)
	}
	return expr
}

func (p *parser) factor() *ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		op := p.previous()
		right := p.unary()
		expr = p.arena.Binary(expr, op.Kind, right, op.Line)
	}
	return expr
}

func (p *parser) unary() *ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return p.arena.Unary(op.Kind, right, op.Line)
	}
	return p.call()
}

func (p *parser) call() *ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.expect(token.IDENTIFIER, "Expect property name after '.'.")
			expr = p.arena.Get(expr, name)
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee *ast.Expr) *ast.Expr {
	var args []*ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				p.errorAtCurrent("Can't have more than 254 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.expect(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return p.arena.Call(callee, args, paren.Line)
}

func (p *parser) primary() *ast.Expr {
	tok := p.peek()
	switch {
	case p.match(token.FALSE):
		return p.arena.Literal(false, tok.Line)
	case p.match(token.TRUE):
		return p.arena.Literal(true, tok.Line)
	case p.match(token.NIL):
		return p.arena.Literal(nil, tok.Line)
	case p.match(token.NUMBER):
		return p.arena.Literal(p.previous().Number, tok.Line)
	case p.match(token.STRING):
		return p.arena.Literal(p.previous().Literal, tok.Line)
	case p.match(token.SUPER):
		keyword := p.previous()
		p.expect(token.DOT, "Expect '.' after 'super'.")
		method := p.expect(token.IDENTIFIER, "Expect superclass method name.")
		return p.arena.Super(keyword.Line, method)
	case p.match(token.THIS):
		return p.arena.This(tok)
	case p.match(token.IDENTIFIER):
		return p.arena.Variable(tok)
	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		p.expect(token.RIGHT_PAREN, "Expect ')' after expression.")
		return p.arena.Grouping(expr, tok.Line)
	}

	p.errorAtCurrent("Expect expression.")
	panic(errParseMode{})
}
