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
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	stringCollator = collate.New(language.Und)
	upperCaser     = cases.Upper(language.Und)
	lowerCaser     = cases.Lower(language.Und)
)

// RegisterStringBuiltins declares the locale-aware String.* callables.
// Kept separate from RegisterBuiltins so a host that never needs text
// comparison/case-folding (e.g. a headless numeric-only embedding) can
// skip pulling in collation tables.
func RegisterStringBuiltins(ctx *Context) {
	Declare(ctx, &Declaration{
		Name: "String.compare", Desc: "locale-aware three-way string comparison",
		MinParameter: 2, MaxParameter: 2, Pure: true,
		Params: []DeclarationParameter{
			{Name: "a", Type: "string", Desc: "left operand"},
			{Name: "b", Type: "string", Desc: "right operand"},
		},
		Fn: func(args []Object) Object {
			return NewNumber(float64(stringCollator.CompareString(args[0].AsString(), args[1].AsString())))
		},
	})

	Declare(ctx, &Declaration{
		Name: "String.toUpperCase", Desc: "locale-aware uppercasing",
		MinParameter: 1, MaxParameter: 1, Pure: true,
		Params: []DeclarationParameter{{Name: "value", Type: "string", Desc: "source string"}},
		Fn:     func(args []Object) Object { return NewString(upperCaser.String(args[0].AsString())) },
	})

	Declare(ctx, &Declaration{
		Name: "String.toLowerCase", Desc: "locale-aware lowercasing",
		MinParameter: 1, MaxParameter: 1, Pure: true,
		Params: []DeclarationParameter{{Name: "value", Type: "string", Desc: "source string"}},
		Fn:     func(args []Object) Object { return NewString(lowerCaser.String(args[0].AsString())) },
	})
}
