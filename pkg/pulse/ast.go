package pulse

import "fmt"

// TemplateFile represents a parsed pulse-table definition.
type TemplateFile struct {
	Name    string       `parser:"KwPulse @Ident"`
	Entries []*EntryNode `parser:"LBrace @@+ RBrace"`
}

// EntryNode is one line of a pulse table: a time expression, the value the
// waveform takes at that time, and an optional linear interpolation marker.
type EntryNode struct {
	Time   *Expr `parser:"@@"`
	Value  *Expr `parser:"Arrow @@"`
	Linear bool  `parser:"@KwLinear?"`
}

// Expr is an arithmetic expression over named variables with the usual
// precedence: unary minus binds tightest, then * and /, then + and -.
type Expr struct {
	Left *Term     `parser:"@@"`
	Rest []*OpTerm `parser:"@@*"`
}

// OpTerm is an additive continuation of an expression.
type OpTerm struct {
	Op   string `parser:"@(Plus | Minus)"`
	Term *Term  `parser:"@@"`
}

// Term is a product of factors.
type Term struct {
	Left *Factor     `parser:"@@"`
	Rest []*OpFactor `parser:"@@*"`
}

// OpFactor is a multiplicative continuation of a term.
type OpFactor struct {
	Op     string  `parser:"@(Star | Slash)"`
	Factor *Factor `parser:"@@"`
}

// Factor is a negation, a literal, a variable or a parenthesized
// subexpression.
type Factor struct {
	Neg   *Factor  `parser:"  Minus @@"`
	Num   *float64 `parser:"| @Number"`
	Var   *string  `parser:"| @Ident"`
	Group *Expr    `parser:"| LParen @@ RParen"`
}

// Eval evaluates the expression against the given variable values. A
// variable missing from vars is reported by name.
func (e *Expr) Eval(vars map[string]float64) (float64, error) {
	v, err := e.Left.eval(vars)
	if err != nil {
		return 0, err
	}
	for _, t := range e.Rest {
		r, err := t.Term.eval(vars)
		if err != nil {
			return 0, err
		}
		if t.Op == "+" {
			v += r
		} else {
			v -= r
		}
	}
	return v, nil
}

func (t *Term) eval(vars map[string]float64) (float64, error) {
	v, err := t.Left.eval(vars)
	if err != nil {
		return 0, err
	}
	for _, f := range t.Rest {
		r, err := f.Factor.eval(vars)
		if err != nil {
			return 0, err
		}
		if f.Op == "*" {
			v *= r
		} else {
			v /= r
		}
	}
	return v, nil
}

func (f *Factor) eval(vars map[string]float64) (float64, error) {
	switch {
	case f.Neg != nil:
		v, err := f.Neg.eval(vars)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case f.Num != nil:
		return *f.Num, nil
	case f.Var != nil:
		v, ok := vars[*f.Var]
		if !ok {
			return 0, fmt.Errorf("pulse: unknown variable %q", *f.Var)
		}
		return v, nil
	default:
		return f.Group.Eval(vars)
	}
}
