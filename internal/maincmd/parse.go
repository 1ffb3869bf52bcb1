package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/lox/internal/diag"
	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/parser"
)

// Parse implements the `parse` CLI command: scan and parse a single
// expression and print its parenthesized S-expression form.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	_, expr, err := parser.ParseExpression(string(src))
	if err != nil {
		printParseErr(stdio, err)
		return err
	}
	fmt.Fprintln(stdio.Stdout, ast.Print(expr))
	return nil
}

func printParseErr(stdio mainer.Stdio, err error) {
	if errs, ok := err.(diag.List); ok {
		errs.PrintTo(stdio.Stderr)
		return
	}
	fmt.Fprintln(stdio.Stderr, err)
}
