package pulse

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser parses pulse-table definitions.
type Parser struct {
	template *participle.Parser[TemplateFile]
	expr     *participle.Parser[Expr]
}

// NewParser creates a new pulse-table parser instance.
func NewParser() (*Parser, error) {
	template, err := participle.Build[TemplateFile](
		participle.Lexer(PulseLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build template parser: %w", err)
	}
	expr, err := participle.Build[Expr](
		participle.Lexer(PulseLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build expression parser: %w", err)
	}
	return &Parser{template: template, expr: expr}, nil
}

// Parse parses a pulse table from a reader.
func (p *Parser) Parse(r io.Reader) (*Template, error) {
	file, err := p.template.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return templateFromFile(file)
}

// ParseString parses a pulse table from a string.
func (p *Parser) ParseString(input string) (*Template, error) {
	file, err := p.template.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return templateFromFile(file)
}

// ParseFile parses a pulse table from a file path.
func (p *Parser) ParseFile(filename string) (*Template, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// ParseExpr parses a bare arithmetic expression.
func (p *Parser) ParseExpr(input string) (*Expr, error) {
	expr, err := p.expr.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return expr, nil
}

func templateFromFile(file *TemplateFile) (*Template, error) {
	if len(file.Entries) < 2 {
		return nil, fmt.Errorf("pulse: template %q needs at least 2 entries, got %d", file.Name, len(file.Entries))
	}
	t := &Template{Name: file.Name}
	for _, e := range file.Entries {
		interp := InterpHold
		if e.Linear {
			interp = InterpLinear
		}
		t.Entries = append(t.Entries, Entry{Time: e.Time, Value: e.Value, Interp: interp})
	}
	return t, nil
}

// ParseTemplate parses a single pulse-table definition from source text.
func ParseTemplate(src string) (*Template, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return p.ParseString(src)
}
