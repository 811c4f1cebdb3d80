/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

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

// Package orderedmap implements the insertion-ordered, copy-on-write map
// that backs the expression language's Map value type. Reads never block
// writes and writes never block reads: every mutation rebuilds and swaps
// a fresh snapshot, the way NonLockingReadMap does for memcp's row
// storage, but keyed by string attribute name instead of a generic
// ordered key.
package orderedmap

import (
	"sync/atomic"

	"github.com/google/btree"
)

// btreeThreshold is the map size at or above which a secondary btree index is
// maintained for lookups. Below it, the linear scan over the
// insertion-ordered slice is faster than building and walking a tree.
const btreeThreshold = 32

type entry struct {
	key   string
	value any
}

type indexEntry struct {
	key string
	pos int
}

func (a indexEntry) Less(b btree.Item) bool { return a.key < b.(indexEntry).key }

type snapshot struct {
	entries []entry
	index   *btree.BTree // nil below btreeThreshold
}

// Map is an insertion-ordered string-keyed map. The zero value is not
// usable; construct one with New.
type Map struct {
	p atomic.Pointer[snapshot]
}

// New returns an empty Map.
func New() *Map {
	m := &Map{}
	m.p.Store(&snapshot{})
	return m
}

// NewFromPairs builds a Map from key/value pairs in insertion order; a
// later duplicate key overwrites the earlier value but keeps the key's
// original slot (matching a single Set-per-key history).
func NewFromPairs(pairs [][2]any) *Map {
	m := New()
	for _, p := range pairs {
		m.Set(p[0].(string), p[1])
	}
	return m
}

func buildIndex(entries []entry) *btree.BTree {
	if len(entries) < btreeThreshold {
		return nil
	}
	t := btree.New(32)
	for i, e := range entries {
		t.ReplaceOrInsert(indexEntry{key: e.key, pos: i})
	}
	return t
}

// Get returns the value stored under key, if any.
func (m *Map) Get(key string) (any, bool) {
	snap := m.p.Load()
	if snap.index != nil {
		item := snap.index.Get(indexEntry{key: key})
		if item == nil {
			return nil, false
		}
		return snap.entries[item.(indexEntry).pos].value, true
	}
	for _, e := range snap.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// Set stores value under key, appending a new slot if key is new or
// overwriting the existing slot's value if key already exists. The slot
// keeps its position, as the original ordered map treats re-assignment
// as an update, not a move to the end.
func (m *Map) Set(key string, value any) {
	for {
		old := m.p.Load()
		next := make([]entry, len(old.entries))
		copy(next, old.entries)

		found := false
		for i := range next {
			if next[i].key == key {
				next[i].value = value
				found = true
				break
			}
		}
		if !found {
			next = append(next, entry{key: key, value: value})
		}

		newSnap := &snapshot{entries: next, index: buildIndex(next)}
		if m.p.CompareAndSwap(old, newSnap) {
			return
		}
	}
}

// Len returns the number of key/value pairs currently stored.
func (m *Map) Len() int {
	return len(m.p.Load().entries)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	snap := m.p.Load()
	keys := make([]string, len(snap.entries))
	for i, e := range snap.entries {
		keys[i] = e.key
	}
	return keys
}

// Range calls fn for every key/value pair in insertion order, stopping
// early if fn returns false.
func (m *Map) Range(fn func(key string, value any) bool) {
	for _, e := range m.p.Load().entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}
