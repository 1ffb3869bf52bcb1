package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/lox/lang/scanner"
)

// Tokenize implements the `tokenize` CLI command: scan the named file and
// print one line per token as `KIND LEXEME LITERAL`, followed by a final
// `EOF  null` line.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	toks, errs := scanner.Scan(string(src))
	for _, tok := range toks {
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", tok.Kind.UpperName(), tok.Lexeme, tok.Stringify())
	}
	if len(errs) > 0 {
		errs.Sort()
		errs.PrintTo(stdio.Stderr)
		return errs.Err()
	}
	return nil
}
