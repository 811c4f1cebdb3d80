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
	"math"
	"math/rand"
)

// RegisterBuiltins declares the core arithmetic/array callables into
// ctx. A host calls this once on its root context before parsing any
// expression that references Math.* or Array.*.
func RegisterBuiltins(ctx *Context) {
	Declare(ctx, &Declaration{
		Name: "Math.min", Desc: "smallest of its arguments",
		MinParameter: 1, MaxParameter: 255, Pure: true,
		Params: []DeclarationParameter{{Name: "values", Type: "number", Desc: "one or more numbers"}},
		Fn: func(args []Object) Object {
			m := args[0].AsNumber()
			for _, a := range args[1:] {
				if v := a.AsNumber(); v < m {
					m = v
				}
			}
			return NewNumber(m)
		},
	})

	Declare(ctx, &Declaration{
		Name: "Math.max", Desc: "largest of its arguments",
		MinParameter: 1, MaxParameter: 255, Pure: true,
		Params: []DeclarationParameter{{Name: "values", Type: "number", Desc: "one or more numbers"}},
		Fn: func(args []Object) Object {
			m := args[0].AsNumber()
			for _, a := range args[1:] {
				if v := a.AsNumber(); v > m {
					m = v
				}
			}
			return NewNumber(m)
		},
	})

	Declare(ctx, &Declaration{
		Name: "Math.round", Desc: "rounds to the nearest integer",
		MinParameter: 1, MaxParameter: 1, Pure: true,
		Params: []DeclarationParameter{{Name: "value", Type: "number", Desc: "value to round"}},
		Fn:     func(args []Object) Object { return NewNumber(math.Round(args[0].AsNumber())) },
	})

	Declare(ctx, &Declaration{
		Name: "Math.floor", Desc: "rounds toward negative infinity",
		MinParameter: 1, MaxParameter: 1, Pure: true,
		Params: []DeclarationParameter{{Name: "value", Type: "number", Desc: "value to round"}},
		Fn:     func(args []Object) Object { return NewNumber(math.Floor(args[0].AsNumber())) },
	})

	Declare(ctx, &Declaration{
		Name: "Math.ceil", Desc: "rounds toward positive infinity",
		MinParameter: 1, MaxParameter: 1, Pure: true,
		Params: []DeclarationParameter{{Name: "value", Type: "number", Desc: "value to round"}},
		Fn:     func(args []Object) Object { return NewNumber(math.Ceil(args[0].AsNumber())) },
	})

	Declare(ctx, &Declaration{
		Name: "Math.abs", Desc: "absolute value",
		MinParameter: 1, MaxParameter: 1, Pure: true,
		Params: []DeclarationParameter{{Name: "value", Type: "number", Desc: "value"}},
		Fn:     func(args []Object) Object { return NewNumber(math.Abs(args[0].AsNumber())) },
	})

	// Math.random is the canonical impure builtin: it must never be
	// constant-folded even though it takes no arguments, which is
	// exactly what checkFunction's f.IsPure() guard in the optimizer
	// exists to prevent.
	Declare(ctx, &Declaration{
		Name: "Math.random", Desc: "pseudo-random number in [0, 1)",
		MinParameter: 0, MaxParameter: 0, Pure: false,
		Fn: func(args []Object) Object { return NewNumber(rand.Float64()) },
	})

	Declare(ctx, &Declaration{
		Name: "Array.slice", Desc: "extracts a contiguous sub-array",
		MinParameter: 2, MaxParameter: 3, Pure: true,
		Params: []DeclarationParameter{
			{Name: "array", Type: "array", Desc: "source array"},
			{Name: "start", Type: "number", Desc: "start index, inclusive"},
			{Name: "end", Type: "number", Desc: "end index, exclusive; defaults to array length"},
		},
		Fn: func(args []Object) Object {
			if !args[0].IsArray() {
				return Null
			}
			items := args[0].Array()
			start := clampIndex(args[1].AsNumber(), len(items))
			end := len(items)
			if len(args) == 3 {
				end = clampIndex(args[2].AsNumber(), len(items))
			}
			if start > end {
				start = end
			}
			return NewArray(items[start:end])
		},
	})
}

func clampIndex(v float64, length int) int {
	i := int(math.Round(v))
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}
