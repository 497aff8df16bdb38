package guard

import (
	"fmt"
	"strings"

	"github.com/teranos/kodiakgen/errors"
)

// Depends is a registry depends expression such as
// "(VK_KHR_get_physical_device_properties2,VK_VERSION_1_1)+VK_KHR_surface",
// kept as written. It renders token by token: every identifier becomes
// defined(<identifier>), ',' becomes " || ", '+' becomes " && ", and
// parentheses and spacing are copied. Generated files key their #if and
// #endif lines on this text, so the source grouping is never rewritten.
type Depends string

func (d Depends) String() string {
	var sb strings.Builder
	src := string(d)
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case isIdentByte(c):
			start := i
			for i < len(src) && isIdentByte(src[i]) {
				i++
			}
			sb.WriteString("defined(")
			sb.WriteString(src[start:i])
			sb.WriteString(")")
			continue
		case c == ',':
			sb.WriteString(" || ")
		case c == '+':
			sb.WriteString(" && ")
		default:
			sb.WriteByte(c)
		}
		i++
	}
	return sb.String()
}

// TopLevelOr reports whether the expression has a ',' outside parentheses.
func (d Depends) TopLevelOr() bool {
	depth := 0
	for i := 0; i < len(d); i++ {
		switch d[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// operand renders d as an operand of && or ||: one extra pair of
// parentheses when it has a top-level ','.
func (d Depends) operand() string {
	if d.TopLevelOr() {
		return "(" + d.String() + ")"
	}
	return d.String()
}

// ParseDepends checks the syntax of a registry depends expression and
// returns it as a Depends.
//
// ',' is OR and '+' is AND. Identifiers are any run of [A-Za-z0-9_] and are
// not checked against known versions or extensions. An empty or blank input
// returns a nil expression.
func ParseDepends(src string) (Expr, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}

	p := &dependsParser{src: src}
	if _, err := p.parseOr(); err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	return Depends(src), nil
}

// Requirement builds the guard of an extension requirement block:
// defined(ext) && defined(feature)... && defined(extension)... && depends.
func Requirement(extension string, features, extensions []string, depends Expr) Expr {
	terms := make([]Expr, 0, 2+len(features)+len(extensions))
	terms = append(terms, Atom(extension))
	for _, f := range features {
		terms = append(terms, Atom(f))
	}
	for _, e := range extensions {
		terms = append(terms, Atom(e))
	}
	terms = append(terms, depends)
	return Conj(terms...)
}

type dependsParser struct {
	src string
	pos int
}

func (p *dependsParser) parseOr() (Expr, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	terms := []Expr{first}
	for p.accept(',') {
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, next)
	}
	return Disj(terms...), nil
}

func (p *dependsParser) parseAnd() (Expr, error) {
	first, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	terms := []Expr{first}
	for p.accept('+') {
		next, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		terms = append(terms, next)
	}
	return Conj(terms...), nil
}

func (p *dependsParser) parseFactor() (Expr, error) {
	p.skipSpace()
	if p.pos == len(p.src) {
		return nil, p.errorf("unexpected end of expression")
	}

	if p.src[p.pos] == '(' {
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.accept(')') {
			return nil, p.errorf("missing ')'")
		}
		return inner, nil
	}

	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	return Atom(p.src[start:p.pos]), nil
}

func (p *dependsParser) accept(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *dependsParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *dependsParser) errorf(format string, args ...interface{}) error {
	return errors.Wrapf(errors.ErrInvalidRequest, "depends expression %q at offset %d: %s",
		p.src, p.pos, fmt.Sprintf(format, args...))
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
