package parser

import "loopsafe/internal/ast"

// parseUse parses "use lib1;"
func (p *Parser) parseUse() ast.ContractItem {
	startToken := p.consume(USE, "expected 'use' keyword")

	module, ok := p.consumeIdent("expected module name in use statement")
	if !ok {
		p.synchronize()
		return nil
	}
	if p.check(DOUBLE_COLON) {
		p.errorAtCurrent("use imports a whole module; refer to its items as " + module.Value + "::name")
		p.synchronize()
		return nil
	}

	end := p.consume(SEMICOLON, "expected ';' after use statement")
	return &ast.Use{
		Pos:    p.makePos(startToken),
		EndPos: p.makeEndPos(end),
		Module: module,
	}
}

// parseConst parses "const NAME: Type = expr;"
func (p *Parser) parseConst() ast.ContractItem {
	startToken := p.consume(CONST, "expected 'const' keyword")

	name, ok := p.consumeIdent("expected constant name")
	if !ok {
		p.synchronize()
		return nil
	}

	if !p.match(COLON) {
		p.errorAtCurrent("constant '" + name.Value + "' requires a type annotation")
		p.synchronize()
		return nil
	}
	typ := p.parseType()

	p.consume(EQUAL, "expected '=' in constant declaration")
	value := p.parseExpr()
	end := p.consume(SEMICOLON, "expected ';' after constant declaration")

	return &ast.ConstDecl{
		Pos:    p.makePos(startToken),
		EndPos: p.makeEndPos(end),
		Name:   name,
		Type:   typ,
		Value:  value,
	}
}
