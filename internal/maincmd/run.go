package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/lox/internal/config"
	"github.com/mna/lox/lang/interp"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/resolver"
)

// Run implements the `run` CLI command: scan, parse, resolve and execute a
// full program.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	_, stmts, err := parser.ParseProgram(string(src))
	if err != nil {
		printParseErr(stdio, err)
		return err
	}

	depths, err := resolver.Resolve(stmts)
	if err != nil {
		printParseErr(stdio, err)
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	in := interp.New(stdio.Stdout, depths)
	if cfg.Trace {
		in.Trace = stdio.Stderr
	}

	if err := in.Run(ctx, stmts); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
