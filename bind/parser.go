/*
Copyright (C) 2023  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package bind

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a lexing or parsing failure together with the byte
// offset inside the "${...}" body (or, for Parse itself, inside the
// whole source string) where it occurred.
type ParseError struct {
	Message string
	Pos     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bind: %s at offset %d", e.Message, e.Pos)
}

func parseFloatStrict(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}

// Parser is a recursive-descent, precedence-climbing parser over the
// token stream of one "${...}" body. It compiles directly into an
// Assembler as it descends; there is no intermediate expression tree.
type Parser struct {
	tokens []token
	pos    int
	asm    *Assembler
}

func (p *Parser) peek() token { return p.tokens[p.pos] }

func (p *Parser) advance() token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expectOp(op string) error {
	t := p.peek()
	if t.kind != tokOp || t.text != op {
		return &ParseError{Message: "expected '" + op + "'", Pos: t.col}
	}
	p.advance()
	return nil
}

func (p *Parser) expectKind(k tokenKind, what string) error {
	t := p.peek()
	if t.kind != k {
		return &ParseError{Message: "expected " + what, Pos: t.col}
	}
	p.advance()
	return nil
}

// parseExpr is the grammar's entry point: the ternary level, which in
// turn recurses down through every binding-precedence level to primary.
func (p *Parser) parseExpr() error { return p.parseTernary() }

func (p *Parser) parseTernary() error {
	if err := p.parseNullC(); err != nil {
		return err
	}
	if p.peek().kind == tokQuestion {
		p.advance()
		ifIdx := p.asm.popJumpIfFalse()
		if err := p.parseExpr(); err != nil {
			return err
		}
		if err := p.expectKind(tokColon, "':'"); err != nil {
			return err
		}
		elseIdx := p.asm.jump()
		p.asm.patch(ifIdx)
		if err := p.parseExpr(); err != nil {
			return err
		}
		p.asm.patch(elseIdx)
	}
	return nil
}

func (p *Parser) parseNullC() error {
	if err := p.parseOr(); err != nil {
		return err
	}
	var jumps []int32
	for p.peek().kind == tokOp && p.peek().text == "??" {
		p.advance()
		jumps = append(jumps, p.asm.jumpIfNotNullOrPop())
		if err := p.parseOr(); err != nil {
			return err
		}
	}
	for _, idx := range jumps {
		p.asm.patch(idx)
	}
	return nil
}

func (p *Parser) parseOr() error {
	if err := p.parseAnd(); err != nil {
		return err
	}
	var jumps []int32
	for p.peek().kind == tokOp && p.peek().text == "||" {
		p.advance()
		jumps = append(jumps, p.asm.jumpIfTrueOrPop())
		if err := p.parseAnd(); err != nil {
			return err
		}
	}
	for _, idx := range jumps {
		p.asm.patch(idx)
	}
	return nil
}

func (p *Parser) parseAnd() error {
	if err := p.parseEquality(); err != nil {
		return err
	}
	var jumps []int32
	for p.peek().kind == tokOp && p.peek().text == "&&" {
		p.advance()
		jumps = append(jumps, p.asm.jumpIfFalseOrPop())
		if err := p.parseEquality(); err != nil {
			return err
		}
	}
	for _, idx := range jumps {
		p.asm.patch(idx)
	}
	return nil
}

func isOpText(t token, texts ...string) bool {
	if t.kind != tokOp {
		return false
	}
	for _, s := range texts {
		if t.text == s {
			return true
		}
	}
	return false
}

func (p *Parser) parseEquality() error {
	if err := p.parseComparison(); err != nil {
		return err
	}
	for isOpText(p.peek(), "==", "!=") {
		op := p.advance().text
		if err := p.parseComparison(); err != nil {
			return err
		}
		p.asm.binary(op)
	}
	return nil
}

func (p *Parser) parseComparison() error {
	if err := p.parseAdditive(); err != nil {
		return err
	}
	for isOpText(p.peek(), "<", ">", "<=", ">=") {
		op := p.advance().text
		if err := p.parseAdditive(); err != nil {
			return err
		}
		p.asm.binary(op)
	}
	return nil
}

func (p *Parser) parseAdditive() error {
	if err := p.parseMultiplicative(); err != nil {
		return err
	}
	for isOpText(p.peek(), "+", "-") {
		op := p.advance().text
		if err := p.parseMultiplicative(); err != nil {
			return err
		}
		p.asm.binary(op)
	}
	return nil
}

func (p *Parser) parseMultiplicative() error {
	if err := p.parseUnary(); err != nil {
		return err
	}
	for isOpText(p.peek(), "*", "/", "%") {
		op := p.advance().text
		if err := p.parseUnary(); err != nil {
			return err
		}
		p.asm.binary(op)
	}
	return nil
}

func (p *Parser) parseUnary() error {
	if isOpText(p.peek(), "+", "-", "!") {
		op := p.advance().text
		if err := p.parseUnary(); err != nil {
			return err
		}
		p.asm.unary(op)
		return nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() error {
	if err := p.parsePrimary(); err != nil {
		return err
	}
	for {
		switch p.peek().kind {
		case tokDot:
			p.advance()
			t := p.peek()
			if t.kind != tokIdent {
				return &ParseError{Message: "expected attribute name", Pos: t.col}
			}
			p.advance()
			p.asm.loadAttribute(t.text)
		case tokLBracket:
			p.advance()
			if err := p.parseExpr(); err != nil {
				return err
			}
			if err := p.expectKind(tokRBracket, "']'"); err != nil {
				return err
			}
			p.asm.arrayAccess()
		case tokLParen:
			p.advance()
			var argCount int32
			if p.peek().kind != tokRParen {
				for {
					if err := p.parseExpr(); err != nil {
						return err
					}
					argCount++
					if p.peek().kind == tokComma {
						p.advance()
						continue
					}
					break
				}
			}
			if err := p.expectKind(tokRParen, "')'"); err != nil {
				return err
			}
			p.asm.callFunction(argCount)
		default:
			return nil
		}
	}
}

func (p *Parser) parsePrimary() error {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.advance()
		if fitsOperand(t.num) {
			p.asm.loadImmediate(int32(t.num))
		} else {
			p.asm.loadOperand(NewNumber(t.num))
		}
		return nil

	case tokDimension:
		p.advance()
		p.asm.loadOperand(NewDimension(ParseDimension(t.text, false, p.asm.ctx.Metrics())))
		return nil

	case tokString:
		p.advance()
		p.asm.loadOperand(NewString(t.text))
		return nil

	case tokIdent:
		p.advance()
		switch t.text {
		case "true":
			p.asm.loadConstant(ConstantTrue)
		case "false":
			p.asm.loadConstant(ConstantFalse)
		case "null":
			p.asm.loadConstant(ConstantNull)
		case "auto":
			p.asm.loadOperand(NewDimension(AutoDimension()))
		default:
			p.asm.loadGlobal(t.text)
		}
		return nil

	case tokLParen:
		p.advance()
		if err := p.parseExpr(); err != nil {
			return err
		}
		return p.expectKind(tokRParen, "')'")

	case tokLBracket:
		p.advance()
		p.asm.loadConstant(ConstantEmptyArray)
		if p.peek().kind != tokRBracket {
			for {
				if err := p.parseExpr(); err != nil {
					return err
				}
				p.asm.appendArray()
				if p.peek().kind == tokComma {
					p.advance()
					continue
				}
				break
			}
		}
		return p.expectKind(tokRBracket, "']'")

	case tokLBrace:
		p.advance()
		p.asm.loadConstant(ConstantEmptyMap)
		if p.peek().kind != tokRBrace {
			for {
				key, err := p.parseMapKey()
				if err != nil {
					return err
				}
				p.asm.loadOperand(NewString(key))
				if err := p.expectKind(tokColon, "':'"); err != nil {
					return err
				}
				if err := p.parseExpr(); err != nil {
					return err
				}
				p.asm.appendMap()
				if p.peek().kind == tokComma {
					p.advance()
					continue
				}
				break
			}
		}
		return p.expectKind(tokRBrace, "'}'")

	default:
		return &ParseError{Message: "unexpected token", Pos: t.col}
	}
}

func (p *Parser) parseMapKey() (string, error) {
	t := p.peek()
	switch t.kind {
	case tokIdent:
		p.advance()
		return t.text, nil
	case tokString:
		p.advance()
		return t.text, nil
	default:
		return "", &ParseError{Message: "expected map key", Pos: t.col}
	}
}

// Parse compiles src, the full attribute value as authored (which may or
// may not contain any "${...}" expression), against ctx. A value with no
// "${" at all short-circuits to a plain string Object without touching
// the lexer or assembler at all, mirroring the original
// ByteCodeAssembler::parse's "value.find(\"${\") == npos" fast path.
// Otherwise the literal spans and embedded expressions are compiled into
// a single bytecode program that merges them back together at
// evaluation time via MERGE_STRING, unless the whole value is exactly
// one "${...}" span, in which case its raw typed result is returned
// unconverted.
//
// Parsing never fails outwardly: the first lex/parse failure aborts
// compilation, logs a diagnostic on ctx's session, and src is returned
// verbatim as a String Object, matching the "no user-observable error
// codes" propagation policy for this subsystem.
func Parse(ctx *Context, src string) Object {
	if !strings.Contains(src, "${") {
		return NewString(src)
	}

	asm := newAssembler(ctx)
	var segments int
	i := 0
	for i < len(src) {
		idx := strings.Index(src[i:], "${")
		if idx < 0 {
			if src[i:] != "" {
				asm.loadOperand(NewString(src[i:]))
				segments++
			}
			break
		}
		if idx > 0 {
			asm.loadOperand(NewString(src[i : i+idx]))
			segments++
		}

		exprStart := i + idx + 2
		depth := 1
		j := exprStart
		for j < len(src) && depth > 0 {
			switch src[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth > 0 {
				j++
			}
		}
		if depth != 0 {
			return abortParse(ctx, src, &ParseError{Message: "unterminated \"${\"", Pos: exprStart})
		}

		tokens, err := lex(src[exprStart:j])
		if err != nil {
			return abortParse(ctx, src, err)
		}
		p := &Parser{tokens: tokens, asm: asm}
		if err := p.parseExpr(); err != nil {
			return abortParse(ctx, src, err)
		}
		if p.peek().kind != tokEOF {
			return abortParse(ctx, src, &ParseError{Message: "unexpected trailing tokens", Pos: exprStart + p.peek().col})
		}
		segments++
		i = j + 1
	}

	if segments != 1 {
		asm.mergeString(segments)
	}

	if asm.overflow {
		return abortParse(ctx, src, &ParseError{Message: "expression exceeds the 24-bit instruction operand range", Pos: 0})
	}

	code := asm.retrieve(ctx)
	return code.Simplify()
}

// abortParse implements the "first failure aborts compilation" policy:
// it logs err on ctx's session, attributed to src, and returns src
// unconverted as the caller's result.
func abortParse(ctx *Context, src string, err error) Object {
	if ctx != nil && ctx.Session() != nil {
		ctx.Session().Logf(src, "%s", err.Error())
	}
	return NewString(src)
}
