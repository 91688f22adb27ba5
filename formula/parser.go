/*
parser.go - Recursive-descent parser producing a formula AST

PURPOSE:
  Turns the token stream into a small abstract syntax tree. Parsing is
  separated from evaluation so that syntax errors surface with exact
  positions before any arithmetic runs, and so the same tree serves both
  Evaluate and Preview.

GRAMMAR (standard precedence, '*' '/' bind tighter than '+' '-'):
  expr   = term   { ("+" | "-") term }
  term   = factor { ("*" | "/") factor }
  factor = number | ident | "(" expr ")" | "-" factor

SEE ALSO:
  - lexer.go: Token definitions
  - eval.go: Tree evaluation
*/
package formula

// =============================================================================
// AST
// =============================================================================

type node interface {
	// variables appends every identifier referenced under this node.
	variables(into *[]string)
}

type numberNode struct {
	tok token
}

type variableNode struct {
	tok token
}

type unaryNode struct {
	op    token
	child node
}

type binaryNode struct {
	op          token
	left, right node
}

func (n *numberNode) variables(into *[]string)   {}
func (n *variableNode) variables(into *[]string) { *into = append(*into, n.tok.Text) }
func (n *unaryNode) variables(into *[]string)    { n.child.variables(into) }
func (n *binaryNode) variables(into *[]string) {
	n.left.variables(into)
	n.right.variables(into)
}

// =============================================================================
// PARSER
// =============================================================================

type parser struct {
	tokens []token
	pos    int
}

// parse builds the AST for a formula string.
func parse(src string) (node, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.expr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != tokenEOF {
		return nil, &ParseError{Pos: tok.Pos, Msg: "unexpected " + tok.Kind.describe()}
	}
	return root, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.Kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Kind != tokenPlus && tok.Kind != tokenMinus {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tok, left: left, right: right}
	}
}

func (p *parser) term() (node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Kind != tokenStar && tok.Kind != tokenSlash {
			return left, nil
		}
		p.next()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tok, left: left, right: right}
	}
}

func (p *parser) factor() (node, error) {
	tok := p.next()
	switch tok.Kind {
	case tokenNumber:
		return &numberNode{tok: tok}, nil
	case tokenIdent:
		return &variableNode{tok: tok}, nil
	case tokenMinus:
		child, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: tok, child: child}, nil
	case tokenLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.Kind != tokenRParen {
			return nil, &ParseError{Pos: closing.Pos, Msg: "unbalanced parenthesis: expected ')'"}
		}
		return inner, nil
	case tokenEOF:
		return nil, &ParseError{Pos: tok.Pos, Msg: "unexpected end of formula"}
	default:
		return nil, &ParseError{Pos: tok.Pos, Msg: "unexpected " + tok.Kind.describe()}
	}
}
