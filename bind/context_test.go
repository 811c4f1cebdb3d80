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

func TestContextFindWalksParentChain(t *testing.T) {
	root := NewRootContext(ViewportMetrics{})
	root.Declare("fromRoot", NewNumber(1), false)
	child := root.NewChildContext()
	child.Declare("fromChild", NewNumber(2), false)

	if !child.Find("fromRoot").Found {
		t.Error("child should resolve a binding declared on its parent")
	}
	if !child.Find("fromChild").Found {
		t.Error("child should resolve its own binding")
	}
	if root.Find("fromChild").Found {
		t.Error("parent should not see a binding declared only on its child")
	}
}

func TestContextSetOnImmutableBindingIsNoOp(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("x", NewNumber(1), false)

	if ctx.Set("x", NewNumber(2)) {
		t.Error("Set on an immutable binding should report false")
	}
	if got := ctx.Find("x").Value; got.AsNumber() != 1 {
		t.Errorf("x = %v, want unchanged 1", got.AsNumber())
	}
}

func TestContextSetOnUnknownNameIsNoOp(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	if ctx.Set("doesNotExist", NewNumber(1)) {
		t.Error("Set on an undeclared name should report false")
	}
}

func TestContextSetEqualValueIsNoOpButReportsSuccess(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("x", NewNumber(5), true)
	gen := ctx.generation()

	if !ctx.Set("x", NewNumber(5)) {
		t.Error("Set to an equal value should report true")
	}
	if ctx.generation() != gen {
		t.Error("generation should not bump when the value did not actually change")
	}
}

func TestContextSetChangedValueBumpsGeneration(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("x", NewNumber(5), true)
	gen := ctx.generation()

	if !ctx.Set("x", NewNumber(6)) {
		t.Error("Set to a new value should report true")
	}
	if ctx.generation() == gen {
		t.Error("generation should bump when the value actually changed")
	}
}

func TestContextSetNotifiesInvalidator(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("x", NewNumber(1), true)

	var notified []string
	ctx.WithInvalidator(&testInvalidator{onDirty: func(c *Context, path string) {
		notified = append(notified, path)
	}})

	ctx.Set("x", NewNumber(2))
	if len(notified) != 1 || notified[0] != "x" {
		t.Errorf("notified = %v, want [x]", notified)
	}

	// No notification when the value doesn't actually change.
	ctx.Set("x", NewNumber(2))
	if len(notified) != 1 {
		t.Errorf("notified = %v, want still [x] after a redundant Set", notified)
	}
}

func TestContextReleaseExpiresBoundSymbols(t *testing.T) {
	ctx := NewRootContext(ViewportMetrics{})
	ctx.Declare("x", NewNumber(1), true)
	sym := NewBoundSymbol(ctx, "x")

	if sym.Empty() {
		t.Error("Empty() should be false while the context is alive and the value is non-empty")
	}
	if got := sym.Eval(); got.AsNumber() != 1 {
		t.Errorf("Eval() = %v, want 1", got.AsNumber())
	}

	ctx.Release()

	if !sym.Empty() {
		t.Error("Empty() should be true once the owning context is released")
	}
	if sym.Truthy() {
		t.Error("Truthy() should be false once the owning context is released")
	}
	if got := sym.Eval(); !got.IsNull() {
		t.Errorf("Eval() after release = %s, want Null", got.DebugString())
	}
}

type testInvalidator struct {
	onDirty func(ctx *Context, path string)
}

func (i *testInvalidator) Subscribe(code *Bytecode, paths []string) SubscriptionID { return 0 }
func (i *testInvalidator) MarkDirty(ctx *Context, path string)                     { i.onDirty(ctx, path) }
func (i *testInvalidator) Unsubscribe(id SubscriptionID)                          {}
