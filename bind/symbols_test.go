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

func TestExtractSymbolsSimpleBoundSymbol(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("a", NewNumber(1), true)

	code := compileBody(t, ctx, "a + 1")
	symbols := code.Symbols()
	if len(symbols) != 1 || symbols[0] != "a" {
		t.Fatalf("Symbols() = %v, want [a]", symbols)
	}
}

func TestExtractSymbolsDeadBranchIsPruned(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("a", NewNumber(1), true)

	code := compileBody(t, ctx, "false ? a : 10")
	symbols := code.Symbols()
	if len(symbols) != 0 {
		t.Fatalf("Symbols() = %v, want empty (dead branch referencing a was pruned)", symbols)
	}
	if got := code.Eval(); got.AsNumber() != 10 {
		t.Errorf("eval = %s, want 10", got.DebugString())
	}
}

func TestExtractSymbolsDeduplicatesRepeatedReferences(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("a", NewNumber(1), true)

	code := compileBody(t, ctx, "a + a")
	symbols := code.Symbols()
	if len(symbols) != 1 || symbols[0] != "a" {
		t.Fatalf("Symbols() = %v, want a single deduplicated [a]", symbols)
	}
}

func TestExtractSymbolsMathMinCorpusExample(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	RegisterBuiltins(ctx)
	ctx.Declare("a", NewNumber(3), true)
	ctx.Declare("b", NewNumber(1), true)

	code := compileBody(t, ctx, "Math.min(a, b)")
	symbols := code.Symbols()
	found := map[string]bool{}
	for _, s := range symbols {
		found[s] = true
	}
	if !found["a"] || !found["b"] {
		t.Fatalf("Symbols() = %v, want both a and b", symbols)
	}
}
