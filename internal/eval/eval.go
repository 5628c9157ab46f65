// Package eval tree-walks a parsed program against a scope stack,
// producing the runtime values and errors described by the value
// package.
package eval

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/oeed/stop/internal/ast"
	"github.com/oeed/stop/internal/scope"
	"github.com/oeed/stop/internal/value"
)

// Evaluator walks a program's AST against a single scope stack, logging
// each statement it executes, other than `return`, at debug level.
type Evaluator struct {
	Scope  *scope.Stack
	Logger zerolog.Logger
}

// New builds an Evaluator whose global scope is seeded by seed (the
// standard builtins in production use).
func New(seed func(*scope.Scope), logger zerolog.Logger) *Evaluator {
	return &Evaluator{Scope: scope.New(seed), Logger: logger}
}

// flow distinguishes a block falling off its end (End) from a `return`
// unwinding it early (Early); both carry the resulting value.
type flowKind int

const (
	flowEnd flowKind = iota
	flowEarly
)

type flow struct {
	kind  flowKind
	value value.Value
}

// Run evaluates the top-level program statements in order, treating a
// top-level `return` as simply ending the program early.
func (e *Evaluator) Run(program []ast.Statement) error {
	_, err := e.evalBlock(program)
	return err
}

func (e *Evaluator) evalBlock(statements []ast.Statement) (flow, error) {
	var last value.Value = value.Nil
	for _, stmt := range statements {
		f, err := e.evalStatement(stmt)
		if err != nil {
			return flow{}, err
		}
		if f.kind == flowEarly {
			return f, nil
		}
		last = f.value
	}
	return flow{kind: flowEnd, value: last}, nil
}

func (e *Evaluator) evalStatement(stmt ast.Statement) (flow, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		e.Logger.Debug().Str("kind", "expression").Msg("eval statement")
		v, err := e.evalExpr(s.Expression)
		if err != nil {
			return flow{}, err
		}
		return flow{kind: flowEnd, value: v}, nil

	case *ast.Function:
		e.Logger.Debug().Str("kind", "function").Str("name", s.Name).Msg("eval statement")
		e.Scope.Set(s.Name, value.NewFunction(&value.Function{
			Name:       s.Name,
			Parameters: s.Parameters,
			Body:       s.Body,
		}))
		return flow{kind: flowEnd, value: value.Nil}, nil

	case *ast.While:
		e.Logger.Debug().Str("kind", "while").Msg("eval statement")
		for {
			cond, err := e.evalExpr(s.Condition)
			if err != nil {
				return flow{}, err
			}
			ok, err := cond.AsBool(s.Condition.Location())
			if err != nil {
				return flow{}, err
			}
			if !ok {
				break
			}
			f, err := e.evalBlock(s.Body.Statements)
			if err != nil {
				return flow{}, err
			}
			if f.kind == flowEarly {
				return f, nil
			}
		}
		return flow{kind: flowEnd, value: value.Nil}, nil

	case *ast.Conditional:
		e.Logger.Debug().Str("kind", "conditional").Msg("eval statement")
		for _, arm := range s.Arms {
			if arm.Condition == nil {
				return e.evalBlock(arm.Body.Statements)
			}
			cond, err := e.evalExpr(arm.Condition)
			if err != nil {
				return flow{}, err
			}
			ok, err := cond.AsBool(arm.Condition.Location())
			if err != nil {
				return flow{}, err
			}
			if ok {
				return e.evalBlock(arm.Body.Statements)
			}
		}
		return flow{kind: flowEnd, value: value.Nil}, nil

	case *ast.Return:
		v, err := e.evalExpr(s.Value)
		if err != nil {
			return flow{}, err
		}
		return flow{kind: flowEarly, value: v}, nil

	default:
		return flow{}, value.NewInvalidExpression("statement", stmt.Location())
	}
}

func (e *Evaluator) evalExpr(expr ast.Expression) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.Bool:
		return value.NewBool(n.Value), nil
	case *ast.Number:
		return value.NewNumber(n.Value), nil
	case *ast.String:
		return value.NewString(n.Value), nil
	case *ast.Brackets:
		return e.evalExpr(n.Inner)
	case *ast.Identifier:
		v, err := e.Scope.Get(n.Name, n.At)
		if err != nil {
			return value.Value{}, err
		}
		return v.Clone(), nil
	case *ast.List:
		items := make([]value.Value, len(n.Elements))
		for i, elemExpr := range n.Elements {
			v, err := e.evalExpr(elemExpr)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}
		return value.NewList(items), nil
	case *ast.Map:
		m := make(map[string]value.Value, len(n.Entries))
		for _, entry := range n.Entries {
			v, err := e.evalExpr(entry.Value)
			if err != nil {
				return value.Value{}, err
			}
			m[entry.Key] = v
		}
		return value.NewMap(m), nil
	case *ast.Index:
		return e.evalIndex(n)
	case *ast.Call:
		return e.evalCall(n)
	case *ast.Operation:
		return e.evalOperation(n)
	default:
		return value.Value{}, value.NewInvalidExpression("expression", expr.Location())
	}
}

func (e *Evaluator) evalIndex(n *ast.Index) (value.Value, error) {
	ident, ok := n.Indexed.(*ast.Identifier)
	if !ok {
		return value.Value{}, value.NewInvalidExpression("identifier", n.Indexed.Location())
	}
	current, err := e.Scope.Get(ident.Name, ident.At)
	if err != nil {
		return value.Value{}, err
	}
	for _, idxExpr := range n.Indices {
		idx, err := e.evalExpr(idxExpr)
		if err != nil {
			return value.Value{}, err
		}
		current, err = current.GetAtIndex(idx, n.At)
		if err != nil {
			return value.Value{}, err
		}
	}
	return current.Clone(), nil
}

func (e *Evaluator) evalCall(n *ast.Call) (value.Value, error) {
	ident, ok := n.Function.(*ast.Identifier)
	if !ok {
		return value.Value{}, value.NewInvalidExpression("identifier", n.Function.Location())
	}
	callee, err := e.Scope.Get(ident.Name, n.At)
	if err != nil {
		return value.Value{}, err
	}

	switch callee.Kind {
	case value.KindFunction:
		fn := callee.Function
		if len(n.Arguments) != len(fn.Parameters) {
			return value.Value{}, value.NewIncorrectArgumentCount(fn.Name, len(fn.Parameters), len(n.Arguments), n.At)
		}
		args := make([]value.Value, len(n.Arguments))
		for i, argExpr := range n.Arguments {
			v, err := e.evalExpr(argExpr)
			if err != nil {
				return value.Value{}, err
			}
			args[i] = v
		}
		e.Scope.Push()
		for i, param := range fn.Parameters {
			e.Scope.Set(param, args[i])
		}
		f, err := e.evalBlock(fn.Body.Statements)
		e.Scope.Pop()
		if err != nil {
			return value.Value{}, err
		}
		return f.value, nil

	case value.KindNativeFunction:
		args := make([]value.Value, len(n.Arguments))
		for i, argExpr := range n.Arguments {
			v, err := e.evalExpr(argExpr)
			if err != nil {
				return value.Value{}, err
			}
			args[i] = v
		}
		return callee.Native(args)

	default:
		return value.Value{}, value.NewInvalidType("function", n.At)
	}
}

// evalOperation evaluates a binary expression. The left operand is
// always evaluated first (it was parsed second, further from the
// cursor's starting point, but is the forward-reading left-hand side).
// For Assign, the right operand's *shape* (not its value) determines
// the assignment target: an Identifier rebinds a variable, an Index
// writes through a traversed container.
func (e *Evaluator) evalOperation(n *ast.Operation) (value.Value, error) {
	if n.Op == ast.OpAssign {
		return e.evalAssign(n)
	}

	left, err := e.evalExpr(n.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := e.evalExpr(n.Right)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case ast.OpEq:
		return value.NewBool(value.Equal(left, right)), nil
	case ast.OpDiv:
		l, err := left.AsNumber(n.Left.Location())
		if err != nil {
			return value.Value{}, err
		}
		r, err := right.AsNumber(n.Right.Location())
		if err != nil {
			return value.Value{}, err
		}
		return value.NewNumber(l / r), nil
	case ast.OpMul:
		l, err := left.AsNumber(n.Left.Location())
		if err != nil {
			return value.Value{}, err
		}
		r, err := right.AsNumber(n.Right.Location())
		if err != nil {
			return value.Value{}, err
		}
		return value.NewNumber(l * r), nil
	case ast.OpAdd:
		l, err := left.AsNumber(n.Left.Location())
		if err != nil {
			return value.Value{}, err
		}
		r, err := right.AsNumber(n.Right.Location())
		if err != nil {
			return value.Value{}, err
		}
		return value.NewNumber(l + r), nil
	case ast.OpSub:
		l, err := left.AsNumber(n.Left.Location())
		if err != nil {
			return value.Value{}, err
		}
		r, err := right.AsNumber(n.Right.Location())
		if err != nil {
			return value.Value{}, err
		}
		return value.NewNumber(l - r), nil
	case ast.OpMod:
		l, err := left.AsNumber(n.Left.Location())
		if err != nil {
			return value.Value{}, err
		}
		r, err := right.AsNumber(n.Right.Location())
		if err != nil {
			return value.Value{}, err
		}
		return value.NewNumber(math.Mod(l, r)), nil
	case ast.OpLte:
		l, err := left.AsNumber(n.Left.Location())
		if err != nil {
			return value.Value{}, err
		}
		r, err := right.AsNumber(n.Right.Location())
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBool(l <= r), nil
	case ast.OpGte:
		l, err := left.AsNumber(n.Left.Location())
		if err != nil {
			return value.Value{}, err
		}
		r, err := right.AsNumber(n.Right.Location())
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBool(l >= r), nil
	case ast.OpLt:
		l, err := left.AsNumber(n.Left.Location())
		if err != nil {
			return value.Value{}, err
		}
		r, err := right.AsNumber(n.Right.Location())
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBool(l < r), nil
	case ast.OpGt:
		l, err := left.AsNumber(n.Left.Location())
		if err != nil {
			return value.Value{}, err
		}
		r, err := right.AsNumber(n.Right.Location())
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBool(l > r), nil
	case ast.OpAnd:
		l, err := left.AsBool(n.Left.Location())
		if err != nil {
			return value.Value{}, err
		}
		r, err := right.AsBool(n.Right.Location())
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBool(l && r), nil
	case ast.OpOr:
		l, err := left.AsBool(n.Left.Location())
		if err != nil {
			return value.Value{}, err
		}
		r, err := right.AsBool(n.Right.Location())
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBool(l || r), nil
	default:
		return value.Value{}, value.NewInvalidExpression("operator", n.At)
	}
}

func (e *Evaluator) evalAssign(n *ast.Operation) (value.Value, error) {
	val, err := e.evalExpr(n.Left)
	if err != nil {
		return value.Value{}, err
	}

	switch target := n.Right.(type) {
	case *ast.Identifier:
		e.Scope.Set(target.Name, val)
		return value.Nil, nil

	case *ast.Index:
		ident, ok := target.Indexed.(*ast.Identifier)
		if !ok {
			return value.Value{}, value.NewInvalidExpression("identifier", target.Indexed.Location())
		}
		container, err := e.Scope.Get(ident.Name, ident.At)
		if err != nil {
			return value.Value{}, err
		}
		indexValues := make([]value.Value, len(target.Indices))
		for i, idxExpr := range target.Indices {
			v, err := e.evalExpr(idxExpr)
			if err != nil {
				return value.Value{}, err
			}
			indexValues[i] = v
		}
		cur := container
		for i, idx := range indexValues {
			if i == len(indexValues)-1 {
				if err := cur.SetAtIndex(idx, val, target.At); err != nil {
					return value.Value{}, err
				}
				break
			}
			next, err := cur.GetAtIndex(idx, target.At)
			if err != nil {
				return value.Value{}, err
			}
			cur = next
		}
		return value.Nil, nil

	default:
		return value.Value{}, value.NewInvalidExpression("identifier", n.Right.Location())
	}
}

