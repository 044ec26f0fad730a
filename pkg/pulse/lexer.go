package pulse

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// PulseLexer defines the lexical structure for pulse tables and the
// arithmetic expressions inside them.
var PulseLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run to the end of the line
	{Name: "Comment", Pattern: `#[^\n]*`},

	// Whitespace
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Keywords
	{Name: "KwPulse", Pattern: `\bpulse\b`},
	{Name: "KwLinear", Pattern: `\blinear\b`},

	// The entry separator must be lexed before Minus
	{Name: "Arrow", Pattern: `->`},

	// Operators
	{Name: "Plus", Pattern: `\+`},
	{Name: "Minus", Pattern: `-`},
	{Name: "Star", Pattern: `\*`},
	{Name: "Slash", Pattern: `/`},

	// Grouping
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},

	// Numbers are unsigned; a sign is a unary operator in the grammar
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?`},

	// Identifiers (must come after keywords)
	{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z0-9_]*`},
})
