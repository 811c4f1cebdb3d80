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

// Invalidator is the collaborator boundary between this package and
// whatever owns the component tree that bytecode bindings live inside.
// It is never implemented in this repository's core; bind/inspector is
// the only concrete consumer, subscribing purely to observe traffic for
// the devtools view rather than to actually drive re-layout.
//
// A host subscribes a compiled Bytecode to its dependency set (usually
// Bytecode.Symbols()) once and attaches the Invalidator with
// Context.WithInvalidator; Context.Set then calls MarkDirty itself
// whenever it changes a mutable binding's value. The host re-runs
// Bytecode.Eval (or Bytecode.Simplify, if it wants to fold
// bound symbols down to cached constants again) at its own pace rather
// than synchronously inside the Set call.
type Invalidator interface {
	// Subscribe registers interest in a set of dependency paths (as
	// returned by Bytecode.Symbols) on behalf of code, returning a
	// token that Unsubscribe later accepts.
	Subscribe(code *Bytecode, paths []string) SubscriptionID

	// MarkDirty notifies the invalidator that ctx's binding named path
	// was mutated via Context.Set, so every subscriber whose dependency
	// set contains path should be considered stale.
	MarkDirty(ctx *Context, path string)

	Unsubscribe(id SubscriptionID)
}

// SubscriptionID identifies one Invalidator.Subscribe call.
type SubscriptionID uint64

// NotifyMutation is the single hook Context.Set is expected to drive: a
// host wires a non-nil Invalidator in through WithInvalidator and this
// function forwards every successful mutation to it. It is a free
// function rather than a Context method so that a nil Invalidator (the
// common case for one-shot Eval-only use, e.g. in tests) costs nothing
// beyond a nil check.
func NotifyMutation(inv Invalidator, ctx *Context, path string) {
	if inv == nil {
		return
	}
	inv.MarkDirty(ctx, path)
}
