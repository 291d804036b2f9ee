// ABOUTME: Tokenizer for SPDX-style license expressions such as "(MIT OR Apache-2.0) AND OFL-1.1".
// ABOUTME: Emits identifiers, the AND/OR/WITH operators, parentheses and the "+" suffix with column info.
package license

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenEOF        TokenType = iota
	TokenIdentifier           // license or exception id
	TokenAnd                  // AND
	TokenOr                   // OR
	TokenWith                 // WITH
	TokenLParen               // (
	TokenRParen               // )
	TokenPlus                 // + (or-later suffix)
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenWith:
		return "WITH"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenPlus:
		return "PLUS"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// Token is a single lexical token with its 1-based starting column.
type Token struct {
	Type  TokenType
	Value string
	Col   int
}

type lexer struct {
	input  []rune
	pos    int
	tokens []Token
}

// Lex tokenizes a license expression.
func Lex(input string) ([]Token, error) {
	l := &lexer{input: []rune(input)}
	if err := l.scan(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) scan() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]

		if unicode.IsSpace(ch) {
			l.pos++
			continue
		}

		switch {
		case ch == '(':
			l.emit(TokenLParen, "(", l.pos)
			l.pos++
		case ch == ')':
			l.emit(TokenRParen, ")", l.pos)
			l.pos++
		case ch == '+':
			l.emit(TokenPlus, "+", l.pos)
			l.pos++
		case isIDChar(ch):
			l.lexWord()
		default:
			return fmt.Errorf("unexpected character %q at col %d", string(ch), l.pos+1)
		}
	}

	l.emit(TokenEOF, "", l.pos)
	return nil
}

func (l *lexer) emit(typ TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Col: pos + 1})
}

// lexWord reads an identifier or operator keyword. Operators are upper
// case only; "and" is an identifier like any other.
func (l *lexer) lexWord() {
	start := l.pos
	var sb strings.Builder
	for l.pos < len(l.input) && isIDChar(l.input[l.pos]) {
		sb.WriteRune(l.input[l.pos])
		l.pos++
	}

	word := sb.String()
	switch word {
	case "AND":
		l.emit(TokenAnd, word, start)
	case "OR":
		l.emit(TokenOr, word, start)
	case "WITH":
		l.emit(TokenWith, word, start)
	default:
		l.emit(TokenIdentifier, word, start)
	}
}

// isIDChar reports whether ch may appear in an SPDX identifier
// (letters, digits, '-', '.', and ':' for DocumentRef prefixes).
func isIDChar(ch rune) bool {
	if ch > unicode.MaxASCII {
		return false
	}
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '-' || ch == '.' || ch == ':'
}
