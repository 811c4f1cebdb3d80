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

import "fmt"

// BoundSymbol names a mutable binding in a Context without holding a
// strong reference to it. If the owning context is released before this
// symbol is evaluated, Empty/Truthy/Eval fall back to their defaults
// instead of panicking or observing a dangling context, mirroring the
// original's std::weak_ptr<Context> eval/empty/truthy contract.
type BoundSymbol struct {
	ctx  *Context
	gen  uint64
	name string
}

// NewBoundSymbol captures ctx (not outer, the exact context that owns
// the binding) and that context's generation counter at bind time.
func NewBoundSymbol(ctx *Context, name string) *BoundSymbol {
	return &BoundSymbol{ctx: ctx, gen: ctx.generation(), name: name}
}

func (b *BoundSymbol) Name() string { return b.name }

func (b *BoundSymbol) alive() bool {
	return !b.ctx.isReleased()
}

// Empty reports whether the bound value is absent. It defaults to true
// (same as an expired weak_ptr) once the owning context is released.
func (b *BoundSymbol) Empty() bool {
	if !b.alive() {
		return true
	}
	return b.ctx.Find(b.name).Value.Empty()
}

// Truthy evaluates the bound value's truthiness, defaulting to false on
// an expired context.
func (b *BoundSymbol) Truthy() bool {
	if !b.alive() {
		return false
	}
	return b.ctx.Find(b.name).Value.Truthy()
}

// Eval resolves the current value of the binding, defaulting to Null on
// an expired context — this is what BC_OPCODE_LOAD_BOUND_SYMBOL calls.
func (b *BoundSymbol) Eval() Object {
	if !b.alive() {
		return Null
	}
	res := b.ctx.Find(b.name)
	if !res.Found {
		return Null
	}
	return res.Value
}

// Equal implements structural identity: same owning context and same
// name, mirroring the original's operator== (which double-checks via
// owner_before before comparing names).
func (b *BoundSymbol) Equal(other *BoundSymbol) bool {
	return b.ctx == other.ctx && b.name == other.name
}

// Less orders bound symbols by name, then by context identity, matching
// the original's operator< used when bound symbols are stored in
// ordered containers (e.g. a dependency set).
func (b *BoundSymbol) Less(other *BoundSymbol) bool {
	if b.name != other.name {
		return b.name < other.name
	}
	return fmt.Sprintf("%p", b.ctx) < fmt.Sprintf("%p", other.ctx)
}

func (b *BoundSymbol) DebugString() string {
	return fmt.Sprintf("BoundSymbol<%s>", b.name)
}
