package parser

import (
	"unicode"
	"unicode/utf8"

	"loopsafe/internal/ast"
)

var binaryPrecedence = map[TokenType]int{
	OR:          1,
	AND:         2,
	EQUAL_EQUAL: 3, BANG_EQUAL: 3,
	LESS: 4, LESS_EQUAL: 4, GREATER: 4, GREATER_EQUAL: 4,
	PIPE:      5,
	AMPERSAND: 6,
	PLUS:      7, MINUS: 7,
	STAR: 8, SLASH: 8, PERCENT: 8,
}

func (p *Parser) parsePrattExpr(minPrec int) ast.Expr {
	expr := p.parsePrefixExpr()

	for {
		tok := p.peek()
		prec, ok := binaryPrecedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}

		p.advance()
		right := p.parsePrattExpr(prec + 1)

		expr = &ast.BinaryExpr{
			Pos:    expr.NodePos(),
			EndPos: right.NodeEndPos(),
			Op:     tok.Lexeme,
			Left:   expr,
			Right:  right,
		}
	}

	return expr
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	if p.match(MINUS, BANG) {
		op := p.previous()
		value := p.parsePrefixExpr()
		return &ast.UnaryExpr{
			Pos:    p.makePos(op),
			EndPos: value.NodeEndPos(),
			Op:     op.Lexeme,
			Value:  value,
		}
	}

	return p.parsePostfixExpr(p.parsePrimaryExpr())
}

func (p *Parser) parsePostfixExpr(expr ast.Expr) ast.Expr {
	for {
		if p.match(DOT) {
			field := p.consume(IDENTIFIER, "expected field name after '.'")
			expr = &ast.FieldAccessExpr{
				Pos:    expr.NodePos(),
				EndPos: p.makeEndPos(field),
				Target: expr,
				Field:  field.Lexeme,
			}
		} else if p.check(LEFT_PAREN) {
			p.advance()
			args := p.parseExprList(RIGHT_PAREN)
			end := p.consume(RIGHT_PAREN, "expected ')' after arguments")
			expr = &ast.CallExpr{
				Pos:    expr.NodePos(),
				EndPos: p.makeEndPos(end),
				Callee: expr,
				Args:   args,
			}
		} else if p.check(LEFT_BRACKET) {
			p.advance()
			index := p.parseNested()
			end := p.consume(RIGHT_BRACKET, "expected ']' after index")
			expr = &ast.IndexExpr{
				Pos:    expr.NodePos(),
				EndPos: p.makeEndPos(end),
				Target: expr,
				Index:  index,
			}
		} else {
			break
		}
	}

	return expr
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	switch {
	case p.match(NUMBER, HEX_NUMBER, STRING, BYTES, TRUE, FALSE):
		tok := p.previous()
		return &ast.LiteralExpr{
			Pos:    p.makePos(tok),
			EndPos: p.makeEndPos(tok),
			Kind:   literalKind(tok.Type),
			Value:  tok.Lexeme,
		}

	case p.match(IDENTIFIER):
		return p.parseNameExpr(p.previous())

	case p.match(LEFT_BRACKET):
		l := p.previous()
		saved := p.noStructLiteral
		p.noStructLiteral = false
		elements := p.parseExprList(RIGHT_BRACKET)
		p.noStructLiteral = saved
		r := p.consume(RIGHT_BRACKET, "expected ']' after list elements")
		return &ast.ListExpr{
			Pos:      p.makePos(l),
			EndPos:   p.makeEndPos(r),
			Elements: elements,
		}

	case p.match(IF):
		return p.parseIfExpr(p.previous())

	case p.match(LEFT_PAREN):
		return p.parseParenExpr(p.previous())
	}

	tok := p.peek()
	p.errorAtCurrent("unexpected token in expression")
	bad := &ast.BadExpr{
		Bad: ast.BadNode{
			Pos:     p.makePos(tok),
			EndPos:  p.makeEndPos(tok),
			Message: "unexpected token in expression: " + tok.Lexeme,
		},
	}
	if !p.check(RIGHT_BRACE) {
		p.advance()
	}
	return bad
}

// parseNameExpr parses a name, a module path "a::b", or a struct literal.
func (p *Parser) parseNameExpr(start Token) ast.Expr {
	parts := []ast.Ident{p.makeIdent(start)}
	for p.match(DOUBLE_COLON) {
		next := p.consume(IDENTIFIER, "expected identifier after '::'")
		parts = append(parts, p.makeIdent(next))
	}

	path := &ast.CalleePath{
		Pos:    parts[0].Pos,
		EndPos: parts[len(parts)-1].EndPos,
		Parts:  parts,
	}

	last := parts[len(parts)-1].Value
	if p.check(LEFT_BRACE) && !p.noStructLiteral && isTypeName(last) {
		p.advance()
		return p.parseStructLiteralExpr(path)
	}

	if len(path.Parts) == 1 {
		return &ast.IdentExpr{
			Pos:    path.Pos,
			EndPos: path.EndPos,
			Name:   path.Parts[0].Value,
		}
	}

	return path
}

// parseIfExpr parses "if cond { a } else { b }" in expression position
func (p *Parser) parseIfExpr(start Token) ast.Expr {
	cond := p.parseExprNoStruct()

	p.consume(LEFT_BRACE, "expected '{' after if condition")
	then := p.parseNested()
	p.consume(RIGHT_BRACE, "expected '}' after if branch")

	p.consume(ELSE, "conditional expression requires an 'else' branch")

	var elseExpr ast.Expr
	if p.match(IF) {
		elseExpr = p.parseIfExpr(p.previous())
	} else {
		p.consume(LEFT_BRACE, "expected '{' after 'else'")
		elseExpr = p.parseNested()
		p.consume(RIGHT_BRACE, "expected '}' after else branch")
	}

	return &ast.IfExpr{
		Pos:    p.makePos(start),
		EndPos: p.makeEndPos(p.previous()),
		Cond:   cond,
		Then:   then,
		Else:   elseExpr,
	}
}

func (p *Parser) parseParenExpr(l Token) ast.Expr {
	saved := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = saved }()

	if p.check(RIGHT_PAREN) {
		r := p.advance()
		return &ast.TupleExpr{
			Pos:      p.makePos(l),
			EndPos:   p.makeEndPos(r),
			Elements: []ast.Expr{},
		}
	}

	first := p.parsePrattExpr(0)

	// Distinguish between tuple (a, b) and parenthesized expression (a)
	if p.match(COMMA) {
		elements := []ast.Expr{first}
		if !p.check(RIGHT_PAREN) {
			elements = append(elements, p.parseExprList(RIGHT_PAREN)...)
		}

		r := p.consume(RIGHT_PAREN, "expected ')' after tuple elements")
		return &ast.TupleExpr{
			Pos:      p.makePos(l),
			EndPos:   p.makeEndPos(r),
			Elements: elements,
		}
	}

	r := p.consume(RIGHT_PAREN, "expected ')'")
	return &ast.ParenExpr{
		Pos:    p.makePos(l),
		EndPos: p.makeEndPos(r),
		Value:  first,
	}
}

// parseNested parses an expression inside delimiters, where struct literals are unambiguous.
func (p *Parser) parseNested() ast.Expr {
	saved := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = saved }()
	return p.parsePrattExpr(0)
}

// parseExprList parses comma-separated expressions up to (not including) the closing token.
// A trailing comma is allowed.
func (p *Parser) parseExprList(closing TokenType) []ast.Expr {
	var args []ast.Expr
	for !p.check(closing) && !p.isAtEnd() {
		args = append(args, p.parseNested())
		if !p.match(COMMA) {
			break
		}
	}
	return args
}

// parseType parses "Name", "mod::Name", "Name<T, 5>" and array suffixes "T[N]".
func (p *Parser) parseType() *ast.VariableType {
	if !p.match(IDENTIFIER) {
		tok := p.peek()
		p.errorAtCurrent("expected type identifier")
		bad := &ast.VariableType{
			Pos:    p.makePos(tok),
			EndPos: p.makeEndPos(tok),
			Name:   ast.Ident{Value: "error"},
		}
		if !p.check(RIGHT_BRACE) {
			p.advance()
		}
		return bad
	}

	name := p.makeIdent(p.previous())
	typ := &ast.VariableType{
		Pos:    name.Pos,
		EndPos: name.EndPos,
		Name:   name,
	}

	if p.match(DOUBLE_COLON) {
		module := name
		typ.Module = &module
		next, _ := p.consumeIdent("expected type name after '::'")
		typ.Name = next
		typ.EndPos = next.EndPos
	}

	if p.match(LESS) {
		for !p.check(GREATER) && !p.isAtEnd() {
			if p.match(NUMBER, HEX_NUMBER) {
				tok := p.previous()
				typ.Generics = append(typ.Generics, &ast.VariableType{
					Pos:    p.makePos(tok),
					EndPos: p.makeEndPos(tok),
					Size:   tok.Lexeme,
				})
			} else {
				typ.Generics = append(typ.Generics, p.parseType())
			}
			if !p.match(COMMA) {
				break
			}
		}
		closing := p.consume(GREATER, "expected '>' after generic parameters")
		typ.EndPos = p.makeEndPos(closing)
	}

	for p.check(LEFT_BRACKET) {
		p.advance()
		size := p.consume(NUMBER, "expected array length")
		end := p.consume(RIGHT_BRACKET, "expected ']' after array length")
		typ = &ast.VariableType{
			Pos:    typ.Pos,
			EndPos: p.makeEndPos(end),
			Elem:   typ,
			Len:    size.Lexeme,
		}
	}

	return typ
}

func (p *Parser) parseStructLiteralExpr(path *ast.CalleePath) ast.Expr {
	var fields []ast.StructLiteralField

	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		if !p.check(IDENTIFIER) {
			p.errorAtCurrent("expected field name")
			p.synchronizeUntil(COMMA, RIGHT_BRACE)
			if p.match(COMMA) {
				continue
			}
			break
		}

		nameIdent := p.makeIdent(p.advance())

		// Support shorthand syntax: `name,`
		if !p.match(COLON) {
			fields = append(fields, ast.StructLiteralField{
				Pos:    nameIdent.Pos,
				EndPos: nameIdent.EndPos,
				Name:   nameIdent,
				Value: &ast.IdentExpr{
					Pos:    nameIdent.Pos,
					EndPos: nameIdent.EndPos,
					Name:   nameIdent.Value,
				},
			})
			if !p.match(COMMA) {
				break
			}
			continue
		}

		expr := p.parseNested()
		fields = append(fields, ast.StructLiteralField{
			Pos:    nameIdent.Pos,
			EndPos: expr.NodeEndPos(),
			Name:   nameIdent,
			Value:  expr,
		})

		if !p.match(COMMA) {
			break
		}
	}

	end := p.consume(RIGHT_BRACE, "expected '}' after struct literal")
	name := path.Parts[len(path.Parts)-1].Value

	return &ast.StructLiteralExpr{
		Pos:    path.Pos,
		EndPos: p.makeEndPos(end),
		Name:   name,
		Type:   path,
		Fields: fields,
	}
}

func (p *Parser) synchronizeUntil(stopTokens ...TokenType) {
	stop := make(map[TokenType]struct{})
	for _, t := range stopTokens {
		stop[t] = struct{}{}
	}

	for !p.isAtEnd() {
		if _, ok := stop[p.peek().Type]; ok {
			return
		}
		p.advance()
	}
}

func literalKind(tt TokenType) ast.LiteralKind {
	switch tt {
	case HEX_NUMBER:
		return ast.HexLiteral
	case STRING:
		return ast.StringLiteral
	case BYTES:
		return ast.BytesLiteral
	case TRUE, FALSE:
		return ast.BoolLiteral
	default:
		return ast.IntLiteral
	}
}

// isTypeName reports whether name follows the UpperCamel convention for struct names.
func isTypeName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
