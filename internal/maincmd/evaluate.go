package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/lox/lang/interp"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/resolver"
)

// Evaluate implements the `evaluate` CLI command: scan, parse and evaluate
// a single expression, printing its stringified value.
func (c *Cmd) Evaluate(ctx context.Context, stdio mainer.Stdio, args []string) error {
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

	// A bare expression has no statement context, so there is nothing for
	// the resolver to walk; every variable reference in it is necessarily
	// global (there is no enclosing scope to bind a local).
	in := interp.New(stdio.Stdout, resolver.Depths{})
	v, err := in.Evaluate(expr)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	fmt.Fprintln(stdio.Stdout, interp.Stringify(v))
	return nil
}
