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

import "testing"

func TestParseLiteralWithoutExpressionShortCircuits(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	v := Parse(ctx, "plain text")
	if !v.IsString() || v.AsString() != "plain text" {
		t.Errorf("Parse(plain text) = %s, want String<plain text>", v.DebugString())
	}
}

func TestParseArithmeticWithDimensions(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("x", NewDimension(AbsoluteDimension(10)), false)
	ctx.Declare("y", NewDimension(AbsoluteDimension(20)), false)

	if got := evalValue(t, ctx, "${x + y == 30dp}"); !got.Truthy() {
		t.Errorf("x + y == 30dp = %s, want true", got.DebugString())
	}
	if got := evalValue(t, ctx, "${100 / x}"); !got.IsNaN() {
		t.Errorf("100 / x = %s, want NaN", got.DebugString())
	}
	if got := evalValue(t, ctx, "${y / 2}"); !got.IsAbsoluteDimension() || got.Dimension().Value != 10 {
		t.Errorf("y / 2 = %s, want 10dp", got.DebugString())
	}
}

func TestParseShortCircuitAnd(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("a", NewNumber(1), false)
	ctx.Declare("b", NewNumber(0), false)

	got := evalValue(t, ctx, "${a && b}")
	if got.AsNumber() != 0 {
		t.Errorf("a && b = %s, want 0", got.DebugString())
	}
}

func TestParseShortCircuitAndSkipsRightOperand(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	calls := 0
	ctx.Declare("sideEffect", NewCallable(&testFuncCallable{
		pure: false,
		fn:   func(args []Object) Object { calls++; return True },
	}), false)

	got := evalValue(t, ctx, "${false && sideEffect()}")
	if got.Truthy() {
		t.Errorf("false && sideEffect() = %s, want false", got.DebugString())
	}
	if calls != 0 {
		t.Errorf("sideEffect() was called %d times, want 0 (short-circuited)", calls)
	}
}

func TestParseShortCircuitOrEvaluatesRightOnlyWhenLeftFalsy(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	calls := 0
	ctx.Declare("sideEffect", NewCallable(&testFuncCallable{
		pure: false,
		fn:   func(args []Object) Object { calls++; return NewNumber(7) },
	}), false)

	got := evalValue(t, ctx, "${true || sideEffect()}")
	if got.AsNumber() != 1 {
		t.Errorf("true || sideEffect() = %s, want true", got.DebugString())
	}
	if calls != 0 {
		t.Errorf("sideEffect() was called %d times, want 0", calls)
	}
}

func TestParseNullCoalescing(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	if got := evalValue(t, ctx, "${null ?? 5}"); got.AsNumber() != 5 {
		t.Errorf("null ?? 5 = %s, want 5", got.DebugString())
	}
	if got := evalValue(t, ctx, "${3 ?? 5}"); got.AsNumber() != 3 {
		t.Errorf("3 ?? 5 = %s, want 3", got.DebugString())
	}
}

func TestParseTernaryFoldsToSingleInstruction(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	code := compileBody(t, ctx, "true ? 2 : 3")
	Optimize(code)
	if len(code.Instructions) != 1 || code.Instructions[0].Op != OpLoadImmediate || code.Instructions[0].Operand != 2 {
		t.Fatalf("optimized ternary = %v, want single LOAD_IMMEDIATE 2", code.Instructions)
	}
	if got := code.Eval(); got.AsNumber() != 2 {
		t.Errorf("eval = %s, want 2", got.DebugString())
	}
}

func TestParseKnownArrayLiteralPathNeedsNoBoundSymbol(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("FixedArray", NewArray([]Object{NewNumber(10), NewNumber(20), NewNumber(30)}), false)

	code := compileBody(t, ctx, "FixedArray[2]")
	Optimize(code)
	for _, inst := range code.Instructions {
		if inst.Op == OpLoadBoundSymbol {
			t.Fatalf("optimized FixedArray[2] still references a bound symbol: %v", code.Instructions)
		}
	}
	if got := code.Eval(); got.AsNumber() != 30 {
		t.Errorf("eval = %s, want 30", got.DebugString())
	}
}

func TestParseReactiveDependencyMutationIsObserved(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("TestArray", NewArray([]Object{NewNumber(1), NewNumber(2), NewNumber(3)}), true)

	code := compileBody(t, ctx, "TestArray[0]")
	if got := code.Eval(); got.AsNumber() != 1 {
		t.Fatalf("initial eval = %s, want 1", got.DebugString())
	}

	arr := NewArray([]Object{NewNumber(42), NewNumber(2), NewNumber(3)})
	if !ctx.Set("TestArray", arr) {
		t.Fatal("Set(TestArray) reported failure")
	}

	if got := code.Eval(); got.AsNumber() != 42 {
		t.Errorf("eval after mutation = %s, want 42", got.DebugString())
	}
}

func TestParseStringInterpolation(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("a", NewNumber(1), false)

	v := Parse(ctx, "_${a}_${'#${2}#'}")
	if v.IsCallable() {
		t.Fatalf("interpolation of constant pieces should fold entirely, got %s", v.DebugString())
	}
	if !v.IsString() || v.AsString() != "_1_#2#" {
		t.Errorf("interpolation = %s, want String<_1_#2#>", v.DebugString())
	}
}

func TestParseStringInterpolationWithMutableSymbolKeepsMergeStringOnlyAtRuntime(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("a", NewNumber(1), true)

	got := evalValue(t, ctx, "_${a}_")
	if !got.IsString() || got.AsString() != "_1_" {
		t.Errorf("interpolation = %s, want String<_1_>", got.DebugString())
	}
}

func TestParseMalformedExpressionDegradesToLiteralAndLogsDiagnostic(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	const src = "broken: ${1 +}"

	v := Parse(ctx, src)
	if !v.IsString() || v.AsString() != src {
		t.Fatalf("Parse(%q) = %s, want the source returned verbatim as a String Object", src, v.DebugString())
	}

	diags := ctx.Session().Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("Diagnostics() = %v, want exactly one parse-failure diagnostic", diags)
	}
	if diags[0].Source != src {
		t.Errorf("diagnostic source = %q, want %q", diags[0].Source, src)
	}
}

func TestParseUnterminatedExpressionDegradesToLiteral(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	const src = "oops ${1 + 2"

	v := Parse(ctx, src)
	if !v.IsString() || v.AsString() != src {
		t.Fatalf("Parse(%q) = %s, want the source returned verbatim", src, v.DebugString())
	}
	if len(ctx.Session().Diagnostics()) == 0 {
		t.Error("expected an unterminated-expression diagnostic to be logged")
	}
}

func TestParseOperandOverflowIsReported(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	asm := newAssembler(ctx)
	asm.checkOperand(MaxOperand + 1)
	if !asm.overflow {
		t.Fatal("checkOperand did not flag an out-of-range operand")
	}
}

func TestParseTrivialInstructionFastPath(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	if got := evalValue(t, ctx, "${3}"); got.AsNumber() != 3 {
		t.Errorf("${3} = %s, want 3", got.DebugString())
	}
	if got := evalValue(t, ctx, "${null}"); !got.IsNull() {
		t.Errorf("${null} = %s, want Null", got.DebugString())
	}
}

// testFuncCallable is a minimal Callable used to observe whether an
// expression actually invoked its right-hand side.
type testFuncCallable struct {
	pure bool
	fn   func(args []Object) Object
}

func (c *testFuncCallable) Pure() bool               { return c.pure }
func (c *testFuncCallable) Call(args []Object) Object { return c.fn(args) }
