// ABOUTME: Recursive descent parser turning license expression tokens into an Expr tree.
// ABOUTME: AND binds tighter than OR; nested operators of the same kind are flattened.
package license

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned by Parse for a blank expression.
var ErrEmpty = errors.New("license expression is empty")

type parser struct {
	tokens []Token
	pos    int
}

// Parse parses a license expression such as
// "(MIT OR Apache-2.0) AND OFL-1.1 AND LicenseRef-UFL-1.0".
func Parse(input string) (Expr, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmpty
	}

	tokens, err := Lex(input)
	if err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}

	p := &parser{tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected %v (%q) at col %d", tok.Type, tok.Value, tok.Col)
	}
	return expr, nil
}

// MustParse is like Parse but panics on error. Intended for literals.
func MustParse(input string) Expr {
	e, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

func (p *parser) expect(typ TokenType) (Token, error) {
	tok := p.current()
	if tok.Type != typ {
		return tok, fmt.Errorf("expected %v but got %v (%q) at col %d", typ, tok.Type, tok.Value, tok.Col)
	}
	p.advance()
	return tok, nil
}

// parseOr parses: and ('OR' and)*
func (p *parser) parseOr() (Expr, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	terms := flatten(nil, first, false)

	for p.current().Type == TokenOr {
		p.advance()
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = flatten(terms, next, false)
	}

	if len(terms) == 1 {
		return terms[0], nil
	}
	return &Or{Terms: terms}, nil
}

// parseAnd parses: primary ('AND' primary)*
func (p *parser) parseAnd() (Expr, error) {
	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	terms := flatten(nil, first, true)

	for p.current().Type == TokenAnd {
		p.advance()
		next, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		terms = flatten(terms, next, true)
	}

	if len(terms) == 1 {
		return terms[0], nil
	}
	return &And{Terms: terms}, nil
}

// parsePrimary parses: '(' or ')' | ref
func (p *parser) parsePrimary() (Expr, error) {
	tok := p.current()
	switch tok.Type {
	case TokenLParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case TokenIdentifier:
		return p.parseRef()
	default:
		return nil, fmt.Errorf("expected license identifier but got %v (%q) at col %d", tok.Type, tok.Value, tok.Col)
	}
}

// parseRef parses: IDENT ['+'] ['WITH' IDENT]
func (p *parser) parseRef() (Expr, error) {
	id := p.advance()
	if err := checkID(id); err != nil {
		return nil, err
	}

	ref := &Ref{ID: id.Value}
	if p.current().Type == TokenPlus {
		p.advance()
		ref.OrLater = true
	}
	if p.current().Type == TokenWith {
		p.advance()
		exc, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, fmt.Errorf("expected exception after WITH: %w", err)
		}
		if err := checkID(exc); err != nil {
			return nil, err
		}
		ref.Exception = exc.Value
	}
	return ref, nil
}

// checkID rejects identifiers that cannot be SPDX ids or LicenseRef-s.
func checkID(tok Token) error {
	v := tok.Value
	if v[0] == '-' || v[0] == '.' || strings.HasSuffix(v, "-") {
		return fmt.Errorf("malformed license identifier %q at col %d", v, tok.Col)
	}
	return nil
}

// flatten appends e to terms, splicing in its children when e is the same
// operator kind, so "A AND (B AND C)" becomes a single three-term And.
func flatten(terms []Expr, e Expr, conj bool) []Expr {
	if conj {
		if a, ok := e.(*And); ok {
			return append(terms, a.Terms...)
		}
		return append(terms, e)
	}
	if o, ok := e.(*Or); ok {
		return append(terms, o.Terms...)
	}
	return append(terms, e)
}
