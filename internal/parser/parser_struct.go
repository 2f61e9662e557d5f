package parser

import "loopsafe/internal/ast"

func (p *Parser) parseStruct(attr *ast.Attribute) *ast.Struct {
	startToken := p.consume(STRUCT, "expected 'struct' keyword")

	// Parse struct name
	name, ok := p.consumeIdent("expected struct name")
	if !ok {
		p.synchronize()
		return nil
	}

	// Parse struct body
	fields := p.parseStructBody()
	endToken := p.previous() // Set by parseStructBody

	pos := p.makePos(startToken)
	if attr != nil {
		pos = attr.Pos
	}

	return &ast.Struct{
		Pos:       pos,
		EndPos:    p.makeEndPos(endToken),
		Attribute: attr,
		Name:      name,
		Fields:    fields,
	}
}

// parseStructBody parses the struct body between { and }
func (p *Parser) parseStructBody() []*ast.StructField {
	p.consume(LEFT_BRACE, "expected '{' to start struct body")
	var fields []*ast.StructField

	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		if p.match(DOC_COMMENT) {
			continue
		}

		field := p.parseStructField()
		if field != nil {
			fields = append(fields, field)
		} else {
			p.synchronizeUntil(COMMA, RIGHT_BRACE)
			p.match(COMMA)
		}
	}

	p.consume(RIGHT_BRACE, "expected '}' to close struct body")
	return fields
}

// parseStructField parses a single field: name: Type,
func (p *Parser) parseStructField() *ast.StructField {
	name, ok := p.consumeIdent("expected field name")
	if !ok {
		return nil
	}

	p.consume(COLON, "expected ':' after field name")
	typ := p.parseType()

	// The last field may omit its trailing comma
	end := p.previous()
	if !p.check(RIGHT_BRACE) {
		end = p.consume(COMMA, "expected ',' after struct field")
	}

	return &ast.StructField{
		Pos:          name.Pos,
		EndPos:       p.makeEndPos(end),
		Name:         name,
		VariableType: typ,
	}
}
