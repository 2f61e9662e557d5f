package parser

import "loopsafe/internal/ast"

func (p *Parser) parseFunction(attr *ast.Attribute) *ast.Function {
	var startToken Token
	external := false
	if p.check(EXT) {
		startToken = p.advance()
		external = true
		p.consume(FN, "expected 'fn' after 'ext'")
	} else {
		startToken = p.consume(FN, "expected 'fn' keyword")
	}

	// Parse function name
	name, ok := p.consumeIdent("expected function name")
	if !ok {
		p.synchronize()
		return nil
	}

	params := p.parseFunctionParameters()

	var returnType *ast.VariableType
	if p.match(ARROW) {
		returnType = p.parseType()
	}

	body := p.parseFunctionBlock()
	if body == nil {
		p.synchronize()
		return nil
	}

	return &ast.Function{
		Pos:       p.makePos(startToken),
		EndPos:    body.EndPos,
		Attribute: attr,
		External:  external,
		Name:      name,
		Params:    params,
		Return:    returnType,
		Body:      body,
	}
}

// parseFunctionParameters parses the parameter list in parentheses
func (p *Parser) parseFunctionParameters() []*ast.FunctionParam {
	p.consume(LEFT_PAREN, "expected '(' after function name")
	var params []*ast.FunctionParam

	for !p.check(RIGHT_PAREN) && !p.isAtEnd() {
		paramName, ok := p.consumeIdent("expected parameter name")
		if !ok {
			break
		}

		p.consume(COLON, "expected ':' after parameter name")
		paramType := p.parseType()

		params = append(params, &ast.FunctionParam{
			Pos:    paramName.Pos,
			EndPos: paramType.EndPos,
			Name:   paramName,
			Type:   paramType,
		})

		if !p.match(COMMA) {
			break
		}
	}

	p.consume(RIGHT_PAREN, "expected ')' after parameter list")
	return params
}

// parseFunctionBlock parses a braced block of statements with an optional tail expression.
func (p *Parser) parseFunctionBlock() *ast.FunctionBlock {
	if !p.check(LEFT_BRACE) {
		p.errorAtCurrent("expected '{' to start block")
		return nil
	}
	start := p.advance()

	// struct literals are allowed again inside braces
	saved := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = saved }()

	var items []ast.FunctionBlockItem
	var tail *ast.ExprStmt

	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		switch p.peek().Type {
		case DOC_COMMENT:
			p.advance()
			continue
		case RETURN:
			items = append(items, p.parseReturnStmt())
			continue
		case LET:
			if stmt := p.parseLetStmt(); stmt != nil {
				items = append(items, stmt)
			}
			continue
		case ASSERT:
			items = append(items, p.parseAssertStmt())
			continue
		case IF:
			if stmt := p.parseIfStmt(); stmt != nil {
				items = append(items, stmt)
			}
			continue
		case FOR:
			if stmt := p.parseForStmt(); stmt != nil {
				items = append(items, stmt)
			}
			continue
		case BREAK, CONTINUE:
			items = append(items, p.parseJumpStmt())
			continue
		case LEFT_BRACE:
			if block := p.parseFunctionBlock(); block != nil {
				items = append(items, block)
			}
			continue
		}

		expr := p.parseExpr()

		if _, bad := expr.(*ast.BadExpr); bad {
			p.synchronize()
			continue
		}

		if isAssignable(expr) && isAssignOperator(p.peek()) {
			opTok := p.advance()
			value := p.parseExpr()
			semi := p.consume(SEMICOLON, "expected ';' after assignment")

			items = append(items, &ast.AssignStmt{
				Pos:      expr.NodePos(),
				EndPos:   p.makeEndPos(semi),
				Target:   expr,
				Operator: assignOpFromToken(opTok),
				Value:    value,
			})
			continue
		}

		if p.match(SEMICOLON) {
			items = append(items, &ast.ExprStmt{
				Pos:       expr.NodePos(),
				EndPos:    p.makeEndPos(p.previous()),
				Expr:      expr,
				Semicolon: true,
			})
		} else if p.check(RIGHT_BRACE) {
			tail = &ast.ExprStmt{
				Pos:       expr.NodePos(),
				EndPos:    expr.NodeEndPos(),
				Expr:      expr,
				Semicolon: false,
			}
			break
		} else {
			semi := p.consume(SEMICOLON, "expected ';' or '}' after expression")
			items = append(items, &ast.ExprStmt{
				Pos:       expr.NodePos(),
				EndPos:    p.makeEndPos(semi),
				Expr:      expr,
				Semicolon: true,
			})
		}
	}

	end := p.consume(RIGHT_BRACE, "expected '}' to close block")
	return &ast.FunctionBlock{
		Pos:      p.makePos(start),
		EndPos:   p.makeEndPos(end),
		Items:    items,
		TailExpr: tail,
	}
}

func (p *Parser) parseLetStmt() *ast.LetStmt {
	start := p.consume(LET, "expected 'let'")
	mut := p.match(MUT)
	name, ok := p.consumeIdent("expected variable name after 'let'")
	if !ok {
		p.synchronize()
		return nil
	}

	var typ *ast.VariableType
	if p.match(COLON) {
		typ = p.parseType()
	}

	p.consume(EQUAL, "expected '=' in let statement")
	expr := p.parseExpr()
	semi := p.consume(SEMICOLON, "expected ';' after let statement")

	return &ast.LetStmt{
		Pos:    p.makePos(start),
		EndPos: p.makeEndPos(semi),
		Mut:    mut,
		Name:   name,
		Type:   typ,
		Expr:   expr,
	}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.consume(RETURN, "expected 'return'")
	var value ast.Expr
	if !p.check(SEMICOLON) {
		value = p.parseExpr()
	}
	end := p.consume(SEMICOLON, "expected ';' after return statement")

	return &ast.ReturnStmt{
		Pos:    p.makePos(start),
		EndPos: p.makeEndPos(end),
		Value:  value,
	}
}

func (p *Parser) parseAssertStmt() *ast.AssertStmt {
	start := p.consume(ASSERT, "expected 'assert'")
	p.consume(BANG, "expected '!' after 'assert'")
	p.consume(LEFT_PAREN, "expected '(' after 'assert!'")

	var args []ast.Expr
	for {
		args = append(args, p.parseExpr())
		if !p.match(COMMA) {
			break
		}
	}

	p.consume(RIGHT_PAREN, "expected ')' to close assert arguments")
	end := p.consume(SEMICOLON, "expected ';' after assert statement")

	return &ast.AssertStmt{
		Pos:    p.makePos(start),
		EndPos: p.makeEndPos(end),
		Args:   args,
	}
}

// parseIfStmt parses "if cond { ... } [else if ... | else { ... }]"
func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.consume(IF, "expected 'if'")
	cond := p.parseExprNoStruct()

	then := p.parseFunctionBlock()
	if then == nil {
		p.synchronize()
		return nil
	}

	stmt := &ast.IfStmt{
		Pos:    p.makePos(start),
		EndPos: then.EndPos,
		Cond:   cond,
		Then:   then,
	}

	if p.match(ELSE) {
		if p.check(IF) {
			if elseIf := p.parseIfStmt(); elseIf != nil {
				stmt.Else = elseIf
				stmt.EndPos = elseIf.EndPos
			}
		} else if block := p.parseFunctionBlock(); block != nil {
			stmt.Else = block
			stmt.EndPos = block.EndPos
		}
	}

	return stmt
}

// parseForStmt parses "for name: Type in iterable { ... }"
func (p *Parser) parseForStmt() *ast.ForStmt {
	start := p.consume(FOR, "expected 'for'")

	name, ok := p.consumeIdent("expected loop variable name after 'for'")
	if !ok {
		p.synchronize()
		return nil
	}

	if !p.match(COLON) {
		p.errorAtCurrent("loop variable '" + name.Value + "' requires an explicit type annotation")
		p.synchronize()
		return nil
	}
	typ := p.parseType()

	p.consume(IN, "expected 'in' after loop variable type")
	iter := p.parseExprNoStruct()

	body := p.parseFunctionBlock()
	if body == nil {
		p.synchronize()
		return nil
	}

	return &ast.ForStmt{
		Pos:    p.makePos(start),
		EndPos: body.EndPos,
		Var:    name,
		Type:   typ,
		Iter:   iter,
		Body:   body,
	}
}

func (p *Parser) parseJumpStmt() ast.FunctionBlockItem {
	tok := p.advance()
	end := p.consume(SEMICOLON, "expected ';' after '"+tok.Lexeme+"'")
	if tok.Type == BREAK {
		return &ast.BreakStmt{Pos: p.makePos(tok), EndPos: p.makeEndPos(end)}
	}
	return &ast.ContinueStmt{Pos: p.makePos(tok), EndPos: p.makeEndPos(end)}
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parsePrattExpr(0)
}

// parseExprNoStruct parses an expression that is followed by a block.
func (p *Parser) parseExprNoStruct() ast.Expr {
	saved := p.noStructLiteral
	p.noStructLiteral = true
	defer func() { p.noStructLiteral = saved }()
	return p.parsePrattExpr(0)
}

func isAssignable(expr ast.Expr) bool {
	switch expr.(type) {
	case *ast.IdentExpr, *ast.FieldAccessExpr, *ast.IndexExpr:
		return true
	default:
		return false
	}
}

func isAssignOperator(tok Token) bool {
	switch tok.Type {
	case EQUAL, PLUS_EQUAL, MINUS_EQUAL, STAR_EQUAL, SLASH_EQUAL, PERCENT_EQUAL:
		return true
	default:
		return false
	}
}

func assignOpFromToken(tok Token) ast.AssignType {
	switch tok.Type {
	case EQUAL:
		return ast.ASSIGN
	case PLUS_EQUAL:
		return ast.PLUS_ASSIGN
	case MINUS_EQUAL:
		return ast.MINUS_ASSIGN
	case STAR_EQUAL:
		return ast.STAR_ASSIGN
	case SLASH_EQUAL:
		return ast.SLASH_ASSIGN
	case PERCENT_EQUAL:
		return ast.PERCENT_ASSIGN
	default:
		return ast.ASSIGN
	}
}
