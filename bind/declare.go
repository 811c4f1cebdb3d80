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
	"log"
	"strings"
)

// Declaration documents and registers one builtin callable, in the same
// shape the teacher's scm/declare.go uses for its own function registry
// (name, description, arity bounds, typed parameter docs, and the
// implementation itself).
type Declaration struct {
	Name         string
	Desc         string
	MinParameter int
	MaxParameter int
	Params       []DeclarationParameter
	Pure         bool
	Fn           func(args []Object) Object
}

type DeclarationParameter struct {
	Name string
	Type string // any | string | number | boolean | dimension | array | map
	Desc string
}

var declarations = make(map[string]*Declaration)

type declaredCallable struct {
	def *Declaration
}

func (c *declaredCallable) Pure() bool { return c.def.Pure }

func (c *declaredCallable) Call(args []Object) Object {
	if len(args) < c.def.MinParameter || len(args) > c.def.MaxParameter {
		log.Printf("bind: %s expects %d-%d arguments, got %d", c.def.Name, c.def.MinParameter, c.def.MaxParameter, len(args))
		return Null
	}
	return c.def.Fn(args)
}

// Declare registers def in the global documentation registry (read back
// through Declarations) and binds it into ctx. A dotted
// name ("Math.min") is split into a namespace and a leaf: the namespace
// is an immutable map-valued binding (created once, reused by every
// later Declare into the same namespace) and the leaf is set as one of
// its entries, so "${Math.min(a,b)}" resolves through ordinary
// attribute access rather than needing dots in identifier syntax. A
// name with no dot binds directly, mirroring scm.Declare's dual
// registration into declarations and env.Vars.
func Declare(ctx *Context, def *Declaration) {
	declarations[def.Name] = def
	callable := NewCallable(&declaredCallable{def: def})

	namespace, leaf := splitNamespace(def.Name)
	if namespace == "" {
		ctx.Declare(def.Name, callable, false)
		return
	}

	res := ctx.Find(namespace)
	ns := res.Value
	if !res.Found || !ns.IsMap() {
		ns = EmptyMutableMap()
		ctx.Declare(namespace, ns, false)
	}
	ns.MutableMapSet(leaf, callable)
}

func splitNamespace(name string) (namespace, leaf string) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+1:]
}

// Declarations returns every registered builtin with its documentation.
func Declarations() map[string]*Declaration {
	return declarations
}
