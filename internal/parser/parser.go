// Package parser builds an AST by walking a token.Stream from the end of
// the source toward the beginning. Because the stream reads right to
// left, a construct's last conventional token (its closing brace, its
// final operand) is recognized first; the parser works outward from
// there, recursing toward what would be the start of the construct in
// ordinary left-to-right reading.
package parser

import (
	"github.com/oeed/stop/internal/ast"
	"github.com/oeed/stop/internal/locator"
	"github.com/oeed/stop/internal/token"
)

// Parser holds the token stream being consumed into a syntax tree.
type Parser struct {
	s *token.Stream
}

// New wraps source in a fresh Parser.
func New(source string) *Parser {
	return &Parser{s: token.New(source)}
}

// Parse consumes the entire stream and returns the program's top-level
// statements, in source (conventional forward) order.
func Parse(source string) ([]ast.Statement, error) {
	p := New(source)
	var statements []ast.Statement
	for {
		stmt, ok, err := p.tryStatementOpt()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func (p *Parser) tryStatementOpt() (ast.Statement, bool, error) {
	if conditional, ok, err := p.tryConditionalOpt(); err != nil || ok {
		return conditional, ok, err
	}
	if function, ok, err := p.tryFunctionOpt(); err != nil || ok {
		return function, ok, err
	}
	if while, ok, err := p.tryWhileOpt(); err != nil || ok {
		return while, ok, err
	}
	if ret, ok, err := p.tryReturnOpt(); err != nil || ok {
		return ret, ok, err
	}

	p.s.SkipNoop()
	if p.s.IsEmpty() {
		return nil, false, nil
	}
	if !p.canStartExpression() {
		return nil, false, ast.ErrMissingExpression(p.s.Location())
	}
	at := p.s.Location()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, false, err
	}
	return &ast.ExpressionStatement{Expression: expr, At: at}, true, nil
}

// parseBlock matches `{ statements... }`, recognizing the closing brace
// first since it is the rightmost character of the construct.
func (p *Parser) parseBlock() (ast.Block, error) {
	if _, err := p.s.TryGrammar(token.RBrace); err != nil {
		return ast.Block{}, err
	}
	at := p.s.Location()
	var statements []ast.Statement
	for {
		if _, err := p.s.TryGrammar(token.LBrace); err == nil {
			break
		}
		stmt, ok, err := p.tryStatementOpt()
		if err != nil {
			return ast.Block{}, err
		}
		if !ok {
			if _, err := p.s.TryGrammar(token.LBrace); err != nil {
				return ast.Block{}, err
			}
			break
		}
		// Source is laid out so that scanning right to left recovers
		// statements in their conventional forward order directly.
		statements = append(statements, stmt)
	}
	return ast.Block{Statements: statements, At: at}, nil
}

func (p *Parser) tryConditionalOpt() (ast.Statement, bool, error) {
	if _, err := p.s.TryKeyword(token.If); err != nil {
		return nil, false, nil
	}
	at := p.s.Location()
	cond, err := p.parseConditionalTail(at)
	if err != nil {
		return nil, false, err
	}
	return cond, true, nil
}

// parseConditionalTail parses the condition, true-block, and optional
// else/else-if tail of a conditional whose leading `if` keyword has
// already been consumed by the caller.
func (p *Parser) parseConditionalTail(at locator.Offset) (*ast.Conditional, error) {
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	arm := ast.ConditionalArm{Condition: cond, Body: body}

	if _, err := p.s.TryKeyword(token.Else); err != nil {
		return &ast.Conditional{Arms: []ast.ConditionalArm{arm}, At: at}, nil
	}
	if _, err := p.s.TryKeyword(token.If); err == nil {
		rest, err := p.parseConditionalTail(at)
		if err != nil {
			return nil, err
		}
		rest.Arms = append([]ast.ConditionalArm{arm}, rest.Arms...)
		return rest, nil
	}
	elseBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Conditional{Arms: []ast.ConditionalArm{arm, {Body: elseBody}}, At: at}, nil
}

func (p *Parser) tryFunctionOpt() (ast.Statement, bool, error) {
	if _, err := p.s.TryKeyword(token.Fn); err != nil {
		return nil, false, nil
	}
	at := p.s.Location()
	name, err := p.parseIdentifierName()
	if err != nil {
		return nil, false, err
	}
	if _, err := p.s.TryGrammar(token.RParen); err != nil {
		return nil, false, err
	}
	var params []string
	for {
		if _, err := p.s.TryGrammar(token.LParen); err == nil {
			break
		}
		param, err := p.parseIdentifierName()
		if err != nil {
			return nil, false, err
		}
		params = append(params, param)
		if _, err := p.s.TryGrammar(token.Comma); err != nil {
			if _, err := p.s.TryGrammar(token.LParen); err != nil {
				return nil, false, err
			}
			break
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, false, err
	}
	return &ast.Function{Name: name, Parameters: params, Body: body, At: at}, true, nil
}

func (p *Parser) tryWhileOpt() (ast.Statement, bool, error) {
	if _, err := p.s.TryKeyword(token.While); err != nil {
		return nil, false, nil
	}
	at := p.s.Location()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, false, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, false, err
	}
	return &ast.While{Condition: cond, Body: body, At: at}, true, nil
}

func (p *Parser) tryReturnOpt() (ast.Statement, bool, error) {
	if _, err := p.s.TryKeyword(token.Return); err != nil {
		return nil, false, nil
	}
	at := p.s.Location()
	value, err := p.parseExpression()
	if err != nil {
		return nil, false, err
	}
	return &ast.Return{Value: value, At: at}, true, nil
}

func (p *Parser) parseIdentifierName() (string, error) {
	name, ok, err := p.s.TryIdentifierOpt()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ast.ErrMissingIdentifier(p.s.Location())
	}
	return name, nil
}

// canStartExpression peeks (without consuming anything but trailing
// whitespace/comments) whether an expression could begin at the cursor.
// It only needs to recognize the shapes a primary expression can start
// with; parseExpression itself never consumes on mismatch, so it would
// be safe to just attempt it and swallow MissingExpression, except that
// attempting it can consume structural tokens (a closing bracket, say)
// before failing deeper in a composite literal. Checking first keeps a
// failed deeper parse a real, reported error instead of a silent rollback.
func (p *Parser) canStartExpression() bool {
	p.s.SkipNoop()
	c, ok := p.s.PeekChar()
	if !ok {
		return false
	}
	switch c {
	case ')', '}', ']', '"':
		return true
	default:
		return isIdentifierByte(c) || (c >= '0' && c <= '9')
	}
}

func isIdentifierByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

// parseExpression recognizes one expression, mirroring the grammar's
// right-to-left construction: the rightmost primary is read first, and
// an optional operator to its left (the next token in reverse) then
// recurses for the left-hand operand.
func (p *Parser) parseExpression() (ast.Expression, error) {
	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for _, op := range token.Operators() {
		if _, err := p.s.TryOperator(op); err == nil {
			left, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &ast.Operation{Op: astOp(op), Left: left, Right: right, At: p.s.Location()}, nil
		}
	}
	return right, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	if _, err := p.s.TryKeyword(token.True); err == nil {
		return &ast.Bool{Value: true, At: p.s.Location()}, nil
	}
	if _, err := p.s.TryKeyword(token.False); err == nil {
		return &ast.Bool{Value: false, At: p.s.Location()}, nil
	}
	if str, ok, err := p.s.TryStringOpt(); err != nil {
		return nil, err
	} else if ok {
		return &ast.String{Value: str, At: p.s.Location()}, nil
	}
	if num, ok, err := p.s.TryNumberOpt(); err != nil {
		return nil, err
	} else if ok {
		return &ast.Number{Value: num, At: p.s.Location()}, nil
	}
	if _, err := p.s.TryGrammar(token.RParen); err == nil {
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.s.TryGrammar(token.LParen); err != nil {
			return nil, err
		}
		return &ast.Brackets{Inner: inner, At: p.s.Location()}, nil
	}
	if _, err := p.s.TryGrammar(token.RBrace); err == nil {
		return p.parseMapTail()
	}
	if _, err := p.s.TryGrammar(token.RBracket); err == nil {
		return p.parseListTail()
	}
	if name, ok, err := p.s.TryIdentifierOpt(); err != nil {
		return nil, err
	} else if ok {
		return p.parseIdentifierTail(name)
	}
	return nil, ast.ErrMissingExpression(p.s.Location())
}

func (p *Parser) parseMapTail() (ast.Expression, error) {
	var entries []ast.MapEntry
	seen := map[string]bool{}
	for {
		if _, err := p.s.TryGrammar(token.LBrace); err == nil {
			break
		}
		var key string
		if str, ok, err := p.s.TryStringOpt(); err != nil {
			return nil, err
		} else if ok {
			key = str
		} else {
			name, err := p.parseIdentifierName()
			if err != nil {
				return nil, err
			}
			key = name
		}
		if seen[key] {
			return nil, ast.ErrDuplicateKey(p.s.Location(), key)
		}
		if _, err := p.s.TryGrammar(token.Colon); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		seen[key] = true
		entries = append(entries, ast.MapEntry{Key: key, Value: value})
		if _, err := p.s.TryGrammar(token.Comma); err != nil {
			if _, err := p.s.TryGrammar(token.LBrace); err != nil {
				return nil, err
			}
			break
		}
	}
	return &ast.Map{Entries: entries, At: p.s.Location()}, nil
}

func (p *Parser) parseListTail() (ast.Expression, error) {
	var elements []ast.Expression
	for {
		if _, err := p.s.TryGrammar(token.LBracket); err == nil {
			break
		}
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
		if _, err := p.s.TryGrammar(token.Comma); err != nil {
			if _, err := p.s.TryGrammar(token.LBracket); err != nil {
				return nil, err
			}
			break
		}
	}
	return &ast.List{Elements: elements, At: p.s.Location()}, nil
}

func (p *Parser) parseIdentifierTail(name string) (ast.Expression, error) {
	if _, err := p.s.TryGrammar(token.RParen); err == nil {
		var args []ast.Expression
		for {
			if _, err := p.s.TryGrammar(token.LParen); err == nil {
				break
			}
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if _, err := p.s.TryGrammar(token.Comma); err != nil {
				if _, err := p.s.TryGrammar(token.LParen); err != nil {
					return nil, err
				}
				break
			}
		}
		return &ast.Call{
			Function:  &ast.Identifier{Name: name, At: p.s.Location()},
			Arguments: args,
			At:        p.s.Location(),
		}, nil
	}
	if _, err := p.s.TryGrammar(token.RBracket); err == nil {
		var indices []ast.Expression
		first, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		indices = append(indices, first)
		for {
			if _, err := p.s.TryGrammar(token.LBracket); err != nil {
				return nil, err
			}
			if _, err := p.s.TryGrammar(token.RBracket); err != nil {
				break
			}
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			indices = append(indices, idx)
		}
		return &ast.Index{
			Indexed: &ast.Identifier{Name: name, At: p.s.Location()},
			Indices: indices,
			At:      p.s.Location(),
		}, nil
	}
	return &ast.Identifier{Name: name, At: p.s.Location()}, nil
}

func astOp(op token.Operator) ast.Op {
	switch op {
	case token.Eq:
		return ast.OpEq
	case token.Div:
		return ast.OpDiv
	case token.Mul:
		return ast.OpMul
	case token.Add:
		return ast.OpAdd
	case token.Sub:
		return ast.OpSub
	case token.Mod:
		return ast.OpMod
	case token.Lte:
		return ast.OpLte
	case token.Gte:
		return ast.OpGte
	case token.Lt:
		return ast.OpLt
	case token.Gt:
		return ast.OpGt
	case token.And:
		return ast.OpAnd
	case token.Or:
		return ast.OpOr
	case token.Assign:
		return ast.OpAssign
	default:
		return ast.OpAssign
	}
}
