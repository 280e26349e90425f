// Package pattern implements the tokenizer, AST, and parser for §6's
// anchored ASCII-subset regex grammar:
//
//	pattern := alt
//	alt      := concat ('|' concat)*
//	concat   := quant*
//	quant    := atom ('*' | '+' | '?')?
//	atom     := literal | '(' alt ')' | '[' class ']'
//	class    := '^'? item+
//	item     := char | char '-' char
//
// Metacharacters are `| * + ? ( ) [ ] - ^ \`; `\` escapes the next
// character. Counted repetition (`{n}`, `{n,m}`) and lookaround/
// backreferences are explicitly out of scope (spec.md §9 Open Questions)
// and all surface as UnsupportedConstruct.
//
// The tokenizer is a rune-by-rune scanner in the style of
// ha1tch-tsqlparser's lexer.Lexer: a read position, a peek, and
// line/column tracking for error messages — adapted here to a much
// smaller alphabet of metacharacters.
package pattern

import (
	"errors"
	"fmt"
)

// ErrPatternSyntax indicates malformed input: unbalanced groups/classes,
// a dangling quantifier, an empty character class, or a trailing escape.
var ErrPatternSyntax = errors.New("pattern: syntax error")

// ErrUnsupportedConstruct indicates a construct the engine will never
// support: counted repetition ({n}, {n,m}), lookaround ((?=...), (?!...)),
// or backreferences (\1, \2, ...).
var ErrUnsupportedConstruct = errors.New("pattern: unsupported construct")

// SyntaxError carries the offending position alongside the sentinel so
// callers get a precise diagnostic while still being able to
// errors.Is(err, ErrPatternSyntax).
type SyntaxError struct {
	Pattern string
	Pos     int
	Reason  string
	Kind    error // ErrPatternSyntax or ErrUnsupportedConstruct
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern: %s at position %d in %q", e.Reason, e.Pos, e.Pattern)
}

func (e *SyntaxError) Unwrap() error {
	return e.Kind
}
