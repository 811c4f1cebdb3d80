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

// semanticCorpus mirrors spec's "optimizer semantic preservation" corpus:
// arithmetic, comparisons, ternaries, field/index access, pure calls.
var semanticCorpus = []string{
	"1 + 2 * 3",
	"(1 + 2) * 3",
	"10dp + 5",
	"1 < 2",
	"1 >= 2",
	"true ? 1 : 2",
	"false ? 1 : 2",
	"[1, 2, 3][1]",
	"{a: 1, b: 2}.a",
	"Math.min(3, 1, 2)",
	"a + a + a",
	"a ? b : c",
}

func TestOptimizerPreservesSemantics(t *testing.T) {
	for _, src := range semanticCorpus {
		t.Run(src, func(t *testing.T) {
			ctx := NewRootContext(ViewportMetrics{})
			RegisterBuiltins(ctx)
			ctx.Declare("a", NewNumber(2), true)
			ctx.Declare("b", NewNumber(10), true)
			ctx.Declare("c", NewNumber(20), true)

			unoptimized := compileBody(t, ctx, src)
			before := unoptimized.Eval()

			optimized := compileBody(t, ctx, src)
			Optimize(optimized)
			after := optimized.Eval()

			if !Equal(before, after) {
				t.Errorf("%s: unoptimized=%s optimized=%s", src, before.DebugString(), after.DebugString())
			}
		})
	}
}

func TestOptimizerDeadCodeRemovalTernaryNesting(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("a", NewBool(true), true)

	code := compileBody(t, ctx, "a?(1!=2? 10:3):4")
	Optimize(code)

	if got := code.Eval(); got.AsNumber() != 10 {
		t.Errorf("a=true: eval = %s, want 10", got.DebugString())
	}

	ctx.Set("a", NewBool(false))
	if got := code.Eval(); got.AsNumber() != 4 {
		t.Errorf("a=false: eval = %s, want 4", got.DebugString())
	}
}

func TestOptimizerOperandDeduplication(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("a", NewNumber(3), true)

	code := compileBody(t, ctx, "a+a+a")
	Optimize(code)

	count := 0
	for _, d := range code.Data {
		if d.IsBoundSymbol() && d.BoundSymbol().Name() == "a" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("data pool has %d entries for symbol a, want 1", count)
	}
	if got := code.Eval(); got.AsNumber() != 9 {
		t.Errorf("eval = %s, want 9", got.DebugString())
	}
}

func TestOptimizeIsNoOpOnEmptyProgram(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	code := NewBytecode(ctx)
	Optimize(code)
	if code.IsOptimized() {
		t.Error("Optimize should leave a zero-instruction program unoptimized, matching the original's guard")
	}
}
