/*
 * parse.go, part of govdw.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * Govdw is developed at the laboratory for instruction in Swedish, Department of Chemistry,
 * University of Helsinki, Finland.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package smirks

import (
	"errors"
	"fmt"
	"strings"

	chem "github.com/rmera/govdw"
)

var (
	// ErrSyntax is returned for malformed patterns.
	ErrSyntax = errors.New("smirks: syntax error")
	// ErrUnsupported is returned for valid SMIRKS features this package doesn't handle:
	// ring closures, aromaticity, ring membership, chirality, recursive and disconnected patterns.
	ErrUnsupported = errors.New("smirks: unsupported feature")
)

// characters that can be part of a bond expression. All bond expressions match any bond.
const bondChars = "-=#:~@!;,&/\\"

// organic subset atoms that can be written without brackets, two-letter symbols first.
var organicSubset = []string{"Cl", "Br", "B", "C", "N", "O", "P", "S", "F", "I"}

type parser struct {
	s   string
	pos int
	p   *Pattern
}

func (ps *parser) errorf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %q at position %d: %s", sentinel, ps.s, ps.pos, fmt.Sprintf(format, args...))
}

func (ps *parser) peek() byte {
	if ps.pos >= len(ps.s) {
		return 0
	}
	return ps.s[ps.pos]
}

// number reads an unsigned integer, if there is one.
func (ps *parser) number() (int, bool) {
	n, start := 0, ps.pos
	for ps.pos < len(ps.s) && ps.s[ps.pos] >= '0' && ps.s[ps.pos] <= '9' {
		n = n*10 + int(ps.s[ps.pos]-'0')
		ps.pos++
	}
	return n, ps.pos > start
}

// Parse compiles a SMIRKS pattern. Atoms tagged with map indexes (:1, :2...) are the
// ones a match reports. If no atom is tagged, the first one is.
func Parse(s string) (*Pattern, error) {
	ps := &parser{s: strings.TrimSpace(s), p: &Pattern{src: strings.TrimSpace(s)}}
	if err := ps.parseChain(); err != nil {
		return nil, err
	}
	if err := ps.p.index(); err != nil {
		return nil, err
	}
	return ps.p, nil
}

// MustParse is like Parse but panics on error. It is meant for patterns known at compile time.
func MustParse(s string) *Pattern {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (ps *parser) parseChain() error {
	prev := -1
	var branches []int
	pendingBond := false
	for ps.pos < len(ps.s) {
		c := ps.s[ps.pos]
		switch {
		case c == '(':
			if prev < 0 || pendingBond {
				return ps.errorf(ErrSyntax, "branch without a previous atom")
			}
			branches = append(branches, prev)
			ps.pos++
		case c == ')':
			if len(branches) == 0 || pendingBond {
				return ps.errorf(ErrSyntax, "unexpected ')'")
			}
			prev = branches[len(branches)-1]
			branches = branches[:len(branches)-1]
			ps.pos++
		case strings.IndexByte(bondChars, c) >= 0:
			if prev < 0 || pendingBond {
				return ps.errorf(ErrSyntax, "bond without a previous atom")
			}
			for ps.pos < len(ps.s) && strings.IndexByte(bondChars, ps.s[ps.pos]) >= 0 {
				ps.pos++
			}
			pendingBond = true
		case c >= '0' && c <= '9', c == '%':
			return ps.errorf(ErrUnsupported, "ring closures")
		case c == '.':
			return ps.errorf(ErrUnsupported, "disconnected patterns")
		default:
			idx, err := ps.parseAtom()
			if err != nil {
				return err
			}
			if prev >= 0 {
				ps.p.addBond(prev, idx)
			}
			prev = idx
			pendingBond = false
		}
	}
	switch {
	case len(ps.p.atoms) == 0:
		return ps.errorf(ErrSyntax, "empty pattern")
	case len(branches) > 0:
		return ps.errorf(ErrSyntax, "unclosed branch")
	case pendingBond:
		return ps.errorf(ErrSyntax, "bond without a following atom")
	}
	return nil
}

func (ps *parser) parseAtom() (int, error) {
	c := ps.s[ps.pos]
	switch {
	case c == '[':
		return ps.parseBracket()
	case c == '*':
		ps.pos++
		return ps.p.addAtom(primitive{kind: anyAtom}, 0), nil
	case c >= 'a' && c <= 'z':
		return 0, ps.errorf(ErrUnsupported, "aromatic atoms")
	}
	for _, sym := range organicSubset {
		if strings.HasPrefix(ps.s[ps.pos:], sym) {
			ps.pos += len(sym)
			return ps.p.addAtom(primitive{kind: atomicNum, value: chem.AtomicNumber(sym)}, 0), nil
		}
	}
	return 0, ps.errorf(ErrSyntax, "unexpected character %q", c)
}

func (ps *parser) parseBracket() (int, error) {
	ps.pos++ // [
	start := ps.pos
	e, err := ps.parseLowAnd(start)
	if err != nil {
		return 0, err
	}
	mapIdx := 0
	if ps.peek() == ':' {
		ps.pos++
		n, ok := ps.number()
		if !ok || n == 0 {
			return 0, ps.errorf(ErrSyntax, "bad map index")
		}
		mapIdx = n
	}
	if ps.peek() != ']' {
		return 0, ps.errorf(ErrSyntax, "expected ']'")
	}
	ps.pos++
	return ps.p.addAtom(e, mapIdx), nil
}

// Operator precedence, from loosest: ';', ',', '&' or implicit, '!'.
func (ps *parser) parseLowAnd(start int) (atomExpr, error) {
	e, err := ps.parseOr(start)
	if err != nil {
		return nil, err
	}
	terms := andExpr{e}
	for ps.peek() == ';' {
		ps.pos++
		e, err := ps.parseOr(start)
		if err != nil {
			return nil, err
		}
		terms = append(terms, e)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return terms, nil
}

func (ps *parser) parseOr(start int) (atomExpr, error) {
	e, err := ps.parseHighAnd(start)
	if err != nil {
		return nil, err
	}
	terms := orExpr{e}
	for ps.peek() == ',' {
		ps.pos++
		e, err := ps.parseHighAnd(start)
		if err != nil {
			return nil, err
		}
		terms = append(terms, e)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return terms, nil
}

func (ps *parser) parseHighAnd(start int) (atomExpr, error) {
	e, err := ps.parseUnary(start)
	if err != nil {
		return nil, err
	}
	terms := andExpr{e}
	for {
		c := ps.peek()
		if c == '&' {
			ps.pos++
		} else if c == 0 || strings.IndexByte(";,:]", c) >= 0 {
			break
		}
		e, err := ps.parseUnary(start)
		if err != nil {
			return nil, err
		}
		terms = append(terms, e)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return terms, nil
}

func (ps *parser) parseUnary(start int) (atomExpr, error) {
	if ps.peek() == '!' {
		ps.pos++
		e, err := ps.parseUnary(start)
		if err != nil {
			return nil, err
		}
		return notExpr{e}, nil
	}
	return ps.parsePrimitive(ps.pos == start)
}

// parsePrimitive reads one atomic primitive. A bare H is the element only
// when it opens the bracket, as in [H] or [H+]. Elsewhere it is a hydrogen count.
func (ps *parser) parsePrimitive(first bool) (atomExpr, error) {
	c := ps.peek()
	switch {
	case c == 0:
		return nil, ps.errorf(ErrSyntax, "unterminated bracket atom")
	case c == '*':
		ps.pos++
		return primitive{kind: anyAtom}, nil
	case c == '#':
		ps.pos++
		n, ok := ps.number()
		if !ok {
			return nil, ps.errorf(ErrSyntax, "atomic number expected after '#'")
		}
		return primitive{kind: atomicNum, value: n}, nil
	case c == 'H' && first:
		ps.pos++
		return primitive{kind: atomicNum, value: 1}, nil
	case c == 'X' || c == 'D' || c == 'H':
		ps.pos++
		n, ok := ps.number()
		if !ok {
			n = 1
		}
		kinds := map[byte]primKind{'X': connectivity, 'D': degree, 'H': hcount}
		return primitive{kind: kinds[c], value: n}, nil
	case c == '+' || c == '-':
		ps.pos++
		sign := 1
		if c == '-' {
			sign = -1
		}
		n, ok := ps.number()
		if !ok {
			n = 1
			for ps.peek() == c {
				n++
				ps.pos++
			}
		}
		return primitive{kind: charge, value: sign * n}, nil
	case c == '$':
		return nil, ps.errorf(ErrUnsupported, "recursive patterns")
	case c == '@':
		return nil, ps.errorf(ErrUnsupported, "chirality")
	case c == 'R' || c == 'A':
		return nil, ps.errorf(ErrUnsupported, "ring membership and aromaticity primitives")
	case c >= 'a' && c <= 'z':
		return nil, ps.errorf(ErrUnsupported, "aromatic, ring and valence primitives")
	case c >= 'A' && c <= 'Z':
		if ps.pos+1 < len(ps.s) {
			two := ps.s[ps.pos : ps.pos+2]
			if chem.IsElement(two) {
				ps.pos += 2
				return primitive{kind: atomicNum, value: chem.AtomicNumber(two)}, nil
			}
		}
		one := string(c)
		if chem.IsElement(one) {
			ps.pos++
			return primitive{kind: atomicNum, value: chem.AtomicNumber(one)}, nil
		}
		return nil, ps.errorf(ErrSyntax, "unknown element")
	}
	return nil, ps.errorf(ErrSyntax, "unexpected character %q", c)
}
