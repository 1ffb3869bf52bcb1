// Package diag implements the accumulated-diagnostics type shared by the
// scanner, parser and resolver, adapted from the type-alias-to-ErrorList
// trick used for go/scanner-style error lists: collect every error found in
// a pass instead of aborting on the first one, then report them together,
// sorted by line.
package diag

import (
	"cmp"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"
)

// Error is a single line-tagged diagnostic. Where, when non-empty, names the
// offending token for a "[line N] Error at 'where': msg" rendering.
type Error struct {
	Line  int
	Where string
	Msg   string
}

// Error renders the diagnostic using Lox's "[line N] Error: msg" format, or
// "[line N] Error at 'where': msg" when Where is non-empty.
func (e Error) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Where, e.Msg)
}

// AtError renders a diagnostic with a location fragment, used by the parser
// to name the offending token.
func AtError(line int, where, msg string) Error {
	return Error{Line: line, Where: where, Msg: msg}
}

// List accumulates diagnostics across a single scan, parse or resolve pass.
// The zero value is ready to use.
type List []Error

// Add appends a new diagnostic.
func (l *List) Add(line int, msg string) {
	*l = append(*l, Error{Line: line, Msg: msg})
}

// AddError appends an already-built Error.
func (l *List) AddError(e Error) {
	*l = append(*l, e)
}

// Len reports the number of accumulated diagnostics.
func (l List) Len() int { return len(l) }

// Sort orders the diagnostics by line, stably, so multi-source-of-error
// passes (e.g. a parser that both scans and parses) report in source order.
func (l List) Sort() {
	slices.SortStableFunc(l, func(a, b Error) int { return cmp.Compare(a.Line, b.Line) })
}

// Err returns nil if the list is empty, or the list itself as an error
// otherwise (List implements error).
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Error implements the error interface, joining every diagnostic on its own
// line.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var sb strings.Builder
	for i, e := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// PrintTo writes every diagnostic to w, one per line.
func (l List) PrintTo(w io.Writer) {
	for _, e := range l {
		fmt.Fprintln(w, e.Error())
	}
}
