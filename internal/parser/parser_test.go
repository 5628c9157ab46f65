package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/oeed/stop/internal/ast"
	"github.com/oeed/stop/internal/locator"
	"github.com/oeed/stop/internal/parser"
)

// ignoreOffsets drops every node's At field from the comparison: the
// expected trees below are built without caring what byte each node
// started at, only their shape.
var ignoreOffsets = cmpopts.IgnoreTypes(locator.Offset{})

func TestParseBoolLiteral(t *testing.T) {
	stmts, err := parser.Parse("true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exprStmt, ok := stmts[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected expression statement, got %T", stmts[0])
	}
	b, ok := exprStmt.Expression.(*ast.Bool)
	if !ok || b.Value != true {
		t.Fatalf("expected Bool(true), got %#v", exprStmt.Expression)
	}
}

func TestParseOperatorExpression(t *testing.T) {
	stmts, err := parser.Parse(`"hello" <= 99`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exprStmt := stmts[0].(*ast.ExpressionStatement)
	op, ok := exprStmt.Expression.(*ast.Operation)
	if !ok {
		t.Fatalf("expected Operation, got %#v", exprStmt.Expression)
	}
	if op.Op != ast.OpLte {
		t.Fatalf("expected Lte, got %v", op.Op)
	}
	left, ok := op.Left.(*ast.String)
	if !ok || left.Value != "hello" {
		t.Fatalf("expected left String(hello), got %#v", op.Left)
	}
	right, ok := op.Right.(*ast.Number)
	if !ok || right.Value != 99 {
		t.Fatalf("expected right Number(99), got %#v", op.Right)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	source := "{ 1 } (2arg, 1arg) func_name fn"
	stmts, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn, ok := stmts[0].(*ast.Function)
	if !ok {
		t.Fatalf("expected Function, got %#v", stmts[0])
	}
	if fn.Name != "func_name" {
		t.Fatalf("expected name func_name, got %q", fn.Name)
	}
	if len(fn.Parameters) != 2 || fn.Parameters[0] != "1arg" || fn.Parameters[1] != "2arg" {
		t.Fatalf("unexpected parameters: %#v", fn.Parameters)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected single body statement, got %d", len(fn.Body.Statements))
	}
}

func TestParseWhileLoop(t *testing.T) {
	source := "{ 1 } true while"
	stmts, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	while, ok := stmts[0].(*ast.While)
	if !ok {
		t.Fatalf("expected While, got %#v", stmts[0])
	}
	if _, ok := while.Condition.(*ast.Bool); !ok {
		t.Fatalf("expected bool condition, got %#v", while.Condition)
	}
}

func TestParseConditionalWithElse(t *testing.T) {
	source := "{ 2 } else { 1 } true if"
	stmts, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cond, ok := stmts[0].(*ast.Conditional)
	if !ok {
		t.Fatalf("expected Conditional, got %#v", stmts[0])
	}
	if len(cond.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(cond.Arms))
	}
	if cond.Arms[1].Condition != nil {
		t.Fatalf("expected else arm to have nil condition")
	}
}

func TestParseMultipleStatementsPreservesOrder(t *testing.T) {
	source := "3 2 1"
	stmts, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	for i, want := range []float64{1, 2, 3} {
		n := stmts[i].(*ast.ExpressionStatement).Expression.(*ast.Number)
		if n.Value != want {
			t.Fatalf("statement %d: expected %v, got %v", i, want, n.Value)
		}
	}
}

func TestParseMissingExpressionError(t *testing.T) {
	_, err := parser.Parse("+")
	if err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseConditionalTreeShape(t *testing.T) {
	source := "{ 2 } else { 1 } true if"
	stmts, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ast.Statement{
		&ast.Conditional{
			Arms: []ast.ConditionalArm{
				{
					Condition: &ast.Bool{Value: true},
					Body:      ast.Block{Statements: []ast.Statement{&ast.ExpressionStatement{Expression: &ast.Number{Value: 1}}}},
				},
				{
					Condition: nil,
					Body:      ast.Block{Statements: []ast.Statement{&ast.ExpressionStatement{Expression: &ast.Number{Value: 2}}}},
				},
			},
		},
	}

	if diff := cmp.Diff(want, stmts, ignoreOffsets); diff != "" {
		t.Fatalf("unexpected AST shape (-want +got):\n%s", diff)
	}
}

func TestParseDuplicateMapKeyError(t *testing.T) {
	// Map entries read "value : key" in forward text (the key is the
	// rightmost token of each entry), so both entries below key to "a".
	_, err := parser.Parse(`{1: a, 2: a}`)
	if err == nil {
		t.Fatalf("expected duplicate key error")
	}
}
