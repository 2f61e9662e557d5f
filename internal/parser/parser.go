package parser

import (
	"fmt"

	"loopsafe/internal/ast"
)

type ParseError struct {
	Message  string
	Position Position
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

type Parser struct {
	filename string
	tokens   []Token
	current  int
	errors   []ParseError

	// set while parsing a for-loop iterable or an if condition, where
	// "Name {" opens the body instead of a struct literal
	noStructLiteral bool
}

// NewParser drops regular comments, except the ones leading the unit, which
// become part of the tree.
func NewParser(filename string, tokens []Token) *Parser {
	filtered := make([]Token, 0, len(tokens))
	leading := true
	for _, tok := range tokens {
		switch tok.Type {
		case CONTRACT, MODULE:
			leading = false
		case COMMENT, BLOCK_COMMENT:
			if !leading {
				continue
			}
		}
		filtered = append(filtered, tok)
	}
	return &Parser{filename: filename, tokens: filtered}
}

func (p *Parser) Errors() []ParseError {
	return p.errors
}

// ParseContract parses a single contract or module unit.
func (p *Parser) ParseContract() *ast.Contract {
	var leading []ast.ContractItem
	for p.check(COMMENT) || p.check(BLOCK_COMMENT) || p.check(DOC_COMMENT) {
		tok := p.advance()
		leading = append(leading, &ast.Comment{
			Pos:    p.makePos(tok),
			EndPos: p.makeEndPos(tok),
			Text:   tok.Lexeme,
		})
	}

	if !p.check(CONTRACT) && !p.check(MODULE) {
		p.errorAtCurrent("expected 'contract' or 'module' declaration")
		return nil
	}

	start := p.advance()
	kind := ast.ContractUnit
	if start.Type == MODULE {
		kind = ast.ModuleUnit
	}

	name, ok := p.consumeIdent(fmt.Sprintf("expected %s name", kind))
	if !ok {
		return nil
	}

	p.consume(LEFT_BRACE, fmt.Sprintf("expected '{' after %s name", kind))

	var items []ast.ContractItem
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		if item := p.parseContractItem(); item != nil {
			items = append(items, item)
		}
	}

	end := p.consume(RIGHT_BRACE, fmt.Sprintf("expected '}' to close %s", kind))
	if !p.isAtEnd() {
		p.errorAtCurrent(fmt.Sprintf("unexpected tokens after %s body; only one unit per file", kind))
	}

	return &ast.Contract{
		Pos:             p.makePos(start),
		EndPos:          p.makeEndPos(end),
		LeadingComments: leading,
		Kind:            kind,
		Name:            name,
		Items:           items,
	}
}

func (p *Parser) parseContractItem() ast.ContractItem {
	var doc *ast.DocComment
	for p.check(DOC_COMMENT) {
		tok := p.advance()
		doc = &ast.DocComment{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Text: tok.Lexeme}
	}

	var attr *ast.Attribute
	if p.check(POUND) {
		attr = p.parseAttribute()
	}

	switch {
	case p.check(USE):
		return p.parseUse()
	case p.check(CONST):
		return p.parseConst()
	case p.check(STRUCT):
		if s := p.parseStruct(attr); s != nil {
			s.DocComment = doc
			return s
		}
		return nil
	case p.check(FN), p.check(EXT):
		if f := p.parseFunction(attr); f != nil {
			f.DocComment = doc
			return f
		}
		return nil
	}

	if doc != nil && attr == nil && (p.check(RIGHT_BRACE) || p.isAtEnd()) {
		return doc
	}

	tok := p.peek()
	p.errorAtCurrent(fmt.Sprintf("unexpected %q; expected use, const, struct or fn", tok.Lexeme))
	p.synchronize()
	return &ast.BadContractItem{
		Bad: ast.BadNode{
			Pos:     p.makePos(tok),
			EndPos:  p.makeEndPos(tok),
			Message: "unexpected token: " + tok.Lexeme,
		},
	}
}

// parseAttribute parses "#[name]"
func (p *Parser) parseAttribute() *ast.Attribute {
	start := p.consume(POUND, "expected '#'")
	p.consume(LEFT_BRACKET, "expected '[' after '#'")
	name, _ := p.consumeIdent("expected attribute name")
	end := p.consume(RIGHT_BRACKET, "expected ']' to close attribute")
	return &ast.Attribute{
		Pos:    p.makePos(start),
		EndPos: p.makeEndPos(end),
		Name:   name.Value,
	}
}
