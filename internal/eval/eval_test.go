package eval_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/oeed/stop/internal/ast"
	"github.com/oeed/stop/internal/eval"
	"github.com/oeed/stop/internal/locator"
	"github.com/oeed/stop/internal/parser"
	"github.com/oeed/stop/internal/value"
)

func newEvaluator() *eval.Evaluator {
	return eval.New(nil, zerolog.Nop())
}

// Map entries and assignment targets read "value = target" in forward
// text, so "10 - 3 = result" assigns result := 10 - 3. Arithmetic itself
// needs no such mirroring: operands are evaluated left-to-right exactly
// as the forward-reading Open Question resolution requires.
func TestRunArithmeticAssignsForwardReadingResult(t *testing.T) {
	stmts, err := parser.Parse(`10 - 3 = result`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	e := newEvaluator()
	if err := e.Run(stmts); err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	got, err := e.Scope.Get("result", locator.EOF())
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if got.Num != 7 {
		t.Fatalf("expected result=7, got %v", got.Num)
	}
}

func TestRunConditionalElseBranch(t *testing.T) {
	stmts, err := parser.Parse(`{ 2 = result } else { 1 = result } false if`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	e := newEvaluator()
	if err := e.Run(stmts); err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	got, err := e.Scope.Get("result", locator.EOF())
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if got.Num != 2 {
		t.Fatalf("expected the else branch (result=2), got %v", got.Num)
	}
}

func TestRunUnknownVariableError(t *testing.T) {
	stmts, err := parser.Parse(`missing_var`)
	require.NoError(t, err)

	e := newEvaluator()
	err = e.Run(stmts)

	var runtimeErr *value.RuntimeError
	require.ErrorAs(t, err, &runtimeErr)
	require.Equal(t, value.UnknownVariable, runtimeErr.Kind)
}

// countdown(n) is built directly as AST nodes rather than source text:
// a reversed-text rendering of a recursive call nested inside a
// conditional nested inside a function body is hard to typo-proof by
// hand, and the tree itself is what evalStatement/evalBlock actually
// walk regardless of how it was produced.
//
//	fn countdown(n) {
//	  if n <= 0 {
//	    return 0
//	  }
//	  return countdown(n - 1)
//	}
//	result = countdown(3)
func TestRunFunctionRecursionWithEarlyReturn(t *testing.T) {
	nRef := &ast.Identifier{Name: "n"}
	countdownDecl := &ast.Function{
		Name:       "countdown",
		Parameters: []string{"n"},
		Body: ast.Block{
			Statements: []ast.Statement{
				&ast.Conditional{
					Arms: []ast.ConditionalArm{
						{
							Condition: &ast.Operation{Op: ast.OpLte, Left: nRef, Right: &ast.Number{Value: 0}},
							Body: ast.Block{
								Statements: []ast.Statement{
									&ast.Return{Value: &ast.Number{Value: 0}},
								},
							},
						},
					},
				},
				&ast.Return{
					Value: &ast.Call{
						Function: &ast.Identifier{Name: "countdown"},
						Arguments: []ast.Expression{
							&ast.Operation{Op: ast.OpSub, Left: nRef, Right: &ast.Number{Value: 1}},
						},
					},
				},
			},
		},
	}
	assignResult := &ast.ExpressionStatement{
		Expression: &ast.Operation{
			Op: ast.OpAssign,
			Left: &ast.Call{
				Function:  &ast.Identifier{Name: "countdown"},
				Arguments: []ast.Expression{&ast.Number{Value: 3}},
			},
			Right: &ast.Identifier{Name: "result"},
		},
	}

	e := newEvaluator()
	if err := e.Run([]ast.Statement{countdownDecl, assignResult}); err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	got, err := e.Scope.Get("result", locator.EOF())
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if got.Num != 0 {
		t.Fatalf("expected countdown(3)=0 via early return, got %v", got.Num)
	}
}

// A while loop plus indexed assignment, again built directly as
// AST: this exercises the same Go-reference-semantics aliasing that
// scope_test.go's TestGetAliasesListForInPlaceMutation checks at the
// value/scope layer, here driven through the evaluator's loop and
// assignment handling instead.
//
//	i = 0
//	while i < 3 {
//	  xs[i] = i
//	  i = i + 1
//	}
func TestRunWhileLoopIndexedAssignment(t *testing.T) {
	e := newEvaluator()
	e.Scope.Set("xs", value.NewList([]value.Value{value.NewNumber(0), value.NewNumber(0), value.NewNumber(0)}))
	e.Scope.Set("i", value.NewNumber(0))

	loop := &ast.While{
		Condition: &ast.Operation{Op: ast.OpLt, Left: &ast.Identifier{Name: "i"}, Right: &ast.Number{Value: 3}},
		Body: ast.Block{
			Statements: []ast.Statement{
				&ast.ExpressionStatement{Expression: &ast.Operation{
					Op:   ast.OpAssign,
					Left: &ast.Identifier{Name: "i"},
					Right: &ast.Index{
						Indexed: &ast.Identifier{Name: "xs"},
						Indices: []ast.Expression{&ast.Identifier{Name: "i"}},
					},
				}},
				&ast.ExpressionStatement{Expression: &ast.Operation{
					Op:    ast.OpAssign,
					Left:  &ast.Operation{Op: ast.OpAdd, Left: &ast.Identifier{Name: "i"}, Right: &ast.Number{Value: 1}},
					Right: &ast.Identifier{Name: "i"},
				}},
			},
		},
	}

	if err := e.Run([]ast.Statement{loop}); err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}

	xs, err := e.Scope.Get("xs", locator.EOF())
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	want := []float64{0, 1, 2}
	for i, w := range want {
		if xs.List[i].Num != w {
			t.Fatalf("xs[%d]: expected %v, got %v", i, w, xs.List[i].Num)
		}
	}

	idx, err := e.Scope.Get("i", locator.EOF())
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if idx.Num != 3 {
		t.Fatalf("expected loop counter to end at 3, got %v", idx.Num)
	}
}
