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

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ViewportMetrics carries the ambient configuration that dimension
// resolution and the "vh"/"vw" units need. It is supplied once, at root
// context construction, rather than threaded through every call or read
// from the environment mid-evaluation.
type ViewportMetrics struct {
	WidthPixels  float64
	HeightPixels float64
}

// binding is a single named, possibly-mutable value held by a Context.
type binding struct {
	value   Object
	mutable bool
}

// Context is a hierarchical, parent-chained lexical scope for bound
// symbols, mirroring the teacher's Env{Vars, Outer} parent-chain lookup.
// Every Context carries a UUID so trace events emitted by different
// contexts (e.g. in the dev inspector) can be correlated, a released
// flag that BoundSymbol checks to detect that a context has been
// released (Go has no weak-pointer primitive to lean on here), and a
// generation counter that Set bumps whenever it changes a value.
type Context struct {
	ID       uuid.UUID
	mu       sync.RWMutex
	vars     map[string]*binding
	outer    *Context
	metrics  ViewportMetrics
	gen      atomic.Uint64
	released atomic.Bool
	inv      Invalidator
	session  *Session
}

// WithInvalidator attaches the host's dependency-invalidation
// collaborator (see reactive.go) to this context. A nil Invalidator
// (the zero value) makes Set a no-op beyond the mutation itself, which
// is the common case for tests and one-shot evaluation.
func (c *Context) WithInvalidator(inv Invalidator) *Context {
	c.inv = inv
	return c
}

// WithSession attaches the diagnostics sink that Parse logs parse
// failures to. A nil Session, the default a root context is never left
// with, makes those diagnostics silently swallowed instead of logged.
// Evaluator warnings (a non-callable in call position, a final stack
// depth above one) go to the standard logger, not to the Session, and an
// unknown identifier is not logged at all.
func (c *Context) WithSession(s *Session) *Context {
	c.session = s
	return c
}

// Session returns the diagnostics sink in effect for this context,
// inherited from the root if not overridden.
func (c *Context) Session() *Session { return c.session }

// NewRootContext creates a top-level Context with no parent and its own
// Session for diagnostics.
func NewRootContext(metrics ViewportMetrics) *Context {
	return &Context{
		ID:      uuid.New(),
		vars:    make(map[string]*binding),
		metrics: metrics,
		session: NewSession(),
	}
}

// NewChildContext creates a Context whose lookups fall back to outer
// when a name isn't found locally.
func (c *Context) NewChildContext() *Context {
	return &Context{
		ID:      uuid.New(),
		vars:    make(map[string]*binding),
		outer:   c,
		metrics: c.metrics,
		session: c.session,
	}
}

// Metrics returns the viewport metrics in effect for this context,
// inherited from the root if not overridden.
func (c *Context) Metrics() ViewportMetrics { return c.metrics }

// Declare binds name to value in this context. mutable controls whether
// the assembler will compile references to name as a constant (immutable)
// or as a BoundSymbol requiring runtime lookup (mutable).
func (c *Context) Declare(name string, value Object, mutable bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars[name] = &binding{value: value, mutable: mutable}
}

// Set updates an existing mutable binding's value and bumps the
// generation counter, which is how dependents observe "this changed".
// A write to a name that doesn't exist, or that exists but is
// immutable, is a no-op that reports false; setting a mutable binding
// to a value that already compares equal is also a no-op, but reports
// true, since the write was accepted, just redundant.
func (c *Context) Set(name string, value Object) bool {
	c.mu.Lock()
	b, ok := c.vars[name]
	if !ok || !b.mutable {
		c.mu.Unlock()
		return false
	}
	if Equal(b.value, value) {
		c.mu.Unlock()
		return true
	}
	b.value = value
	c.mu.Unlock()
	c.gen.Add(1)
	NotifyMutation(c.inv, c, name)
	return true
}

// FindResult describes where a name resolved to, mirroring the
// original's ContextPtr+Object pair returned from Context::find.
type FindResult struct {
	Context *Context
	Value   Object
	Mutable bool
	Found   bool
}

// Find walks the parent chain looking for name, returning the context
// that owns it (not necessarily c).
func (c *Context) Find(name string) FindResult {
	for ctx := c; ctx != nil; ctx = ctx.outer {
		ctx.mu.RLock()
		b, ok := ctx.vars[name]
		ctx.mu.RUnlock()
		if ok {
			return FindResult{Context: ctx, Value: b.value, Mutable: b.mutable, Found: true}
		}
	}
	return FindResult{}
}

// generation returns the current generation counter. BoundSymbol records
// it at bind time; liveness is tracked separately by the released flag.
func (c *Context) generation() uint64 { return c.gen.Load() }

// Release marks the context as expired. Any BoundSymbol that captured
// this context before Release was called will see it as gone, the same
// way the original's std::weak_ptr<Context> silently expires when the
// owning shared_ptr is destroyed.
func (c *Context) Release() {
	c.released.Store(true)
}

func (c *Context) isReleased() bool {
	if c == nil {
		return true
	}
	return c.released.Load()
}
