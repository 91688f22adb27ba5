/*
lexer.go - Tokenizer for payroll formula expressions

PURPOSE:
  Splits a formula string into a flat token stream for the parser.
  The token set is deliberately closed: named variables, decimal
  literals (with an optional percent suffix for exemption limits, e.g.
  "25%" meaning 0.25), the four arithmetic operators, and parentheses.
  Anything else is a ParseError with the offending position - formulas
  are configuration, not code, and must never execute arbitrarily.

TOKEN GRAMMAR:
  ident   = [A-Z][A-Z0-9_]*          e.g. SALARIO_DIARIO
  number  = digits [ "." digits ] [ "%" ]
  symbol  = "+" | "-" | "*" | "/" | "(" | ")"

SEE ALSO:
  - parser.go: Consumes the token stream
*/
package formula

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TOKENS
// =============================================================================

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenNumber
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLParen
	tokenRParen
	tokenEOF
)

type token struct {
	Kind tokenKind
	Text string
	Pos  int // byte offset in the source formula

	// For tokenNumber only.
	Value decimal.Decimal
}

func (k tokenKind) describe() string {
	switch k {
	case tokenIdent:
		return "identifier"
	case tokenNumber:
		return "number"
	case tokenPlus:
		return "'+'"
	case tokenMinus:
		return "'-'"
	case tokenStar:
		return "'*'"
	case tokenSlash:
		return "'/'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return "end of formula"
	}
}

// =============================================================================
// LEXER
// =============================================================================

func lex(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '+':
			tokens = append(tokens, token{Kind: tokenPlus, Text: "+", Pos: i})
			i++
		case c == '-':
			tokens = append(tokens, token{Kind: tokenMinus, Text: "-", Pos: i})
			i++
		case c == '*':
			tokens = append(tokens, token{Kind: tokenStar, Text: "*", Pos: i})
			i++
		case c == '/':
			tokens = append(tokens, token{Kind: tokenSlash, Text: "/", Pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{Kind: tokenLParen, Text: "(", Pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{Kind: tokenRParen, Text: ")", Pos: i})
			i++

		case c >= 'A' && c <= 'Z':
			start := i
			for i < len(src) && isIdentChar(src[i]) {
				i++
			}
			tokens = append(tokens, token{Kind: tokenIdent, Text: src[start:i], Pos: start})

		case c >= '0' && c <= '9':
			start := i
			sawDot := false
			for i < len(src) {
				if src[i] >= '0' && src[i] <= '9' {
					i++
					continue
				}
				if src[i] == '.' && !sawDot {
					sawDot = true
					i++
					continue
				}
				break
			}
			text := src[start:i]
			if text[len(text)-1] == '.' {
				return nil, &ParseError{Pos: start, Msg: "malformed number " + text}
			}
			value, err := decimal.NewFromString(text)
			if err != nil {
				return nil, &ParseError{Pos: start, Msg: "malformed number " + text}
			}
			// Percent suffix: "25%" is the limit notation for 0.25.
			if i < len(src) && src[i] == '%' {
				i++
				text = src[start:i]
				value = value.Div(decimal.NewFromInt(100))
			}
			tokens = append(tokens, token{Kind: tokenNumber, Text: text, Pos: start, Value: value})

		default:
			return nil, &ParseError{Pos: i, Msg: "unexpected character " + string(c)}
		}
	}
	tokens = append(tokens, token{Kind: tokenEOF, Pos: len(src)})
	return tokens, nil
}

func isIdentChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
