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

// Package bind implements the expression core of a declarative UI
// engine's data-binding language: parsing "${...}" expressions, compiling
// them to a small stack bytecode, optimizing and evaluating that bytecode,
// and extracting the set of bound symbols an expression depends on.
package bind

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bindcore/exprengine/bind/orderedmap"
)

// Tag identifies the dynamic type carried by an Object.
type Tag uint8

const (
	TagNull Tag = iota
	TagBoolean
	TagNumber
	TagString
	TagDimension
	TagColor
	TagArray
	TagMap
	TagBoundSymbol
	TagCallable
)

func (t Tag) String() string {
	switch t {
	case TagNull:
		return "null"
	case TagBoolean:
		return "boolean"
	case TagNumber:
		return "number"
	case TagString:
		return "string"
	case TagDimension:
		return "dimension"
	case TagColor:
		return "color"
	case TagArray:
		return "array"
	case TagMap:
		return "map"
	case TagBoundSymbol:
		return "boundSymbol"
	case TagCallable:
		return "callable"
	default:
		return "unknown"
	}
}

// Callable is a pure or impure function reachable from the expression
// language's function-call syntax.
type Callable interface {
	Call(args []Object) Object
	// Pure reports whether this callable has no side effects and always
	// returns the same result for the same arguments, making it eligible
	// for constant folding by the optimizer.
	Pure() bool
}

// Object is the single value type that flows through the parser,
// assembler, optimizer and evaluator. Its zero value is Null.
type Object struct {
	tag    Tag
	num    float64
	str    string
	dim    Dimension
	arr    *[]Object
	m      *orderedmap.Map
	bound  *BoundSymbol
	call   Callable
}

// Null is the canonical empty value.
var Null = Object{tag: TagNull}

// True and False are the canonical boolean values.
var (
	True  = Object{tag: TagBoolean, num: 1}
	False = Object{tag: TagBoolean, num: 0}
)

// NaN represents an arithmetic failure (e.g. subtracting a string from a
// boolean). It compares unequal to itself, as IEEE-754 NaN does.
var NaN = Object{tag: TagNumber, num: math.NaN()}

func NewBool(b bool) Object {
	if b {
		return True
	}
	return False
}

func NewNumber(v float64) Object { return Object{tag: TagNumber, num: v} }

func NewString(s string) Object { return Object{tag: TagString, str: s} }

func NewDimension(d Dimension) Object { return Object{tag: TagDimension, dim: d} }

// NewColor wraps a packed 32-bit RGBA value, stored one byte per channel
// as 0xRRGGBBAA, matching the original's Color representation.
func NewColor(rgba uint32) Object { return Object{tag: TagColor, num: float64(rgba)} }

func NewArray(items []Object) Object {
	a := append([]Object(nil), items...)
	return Object{tag: TagArray, arr: &a}
}

func EmptyMutableArray() Object {
	a := make([]Object, 0)
	return Object{tag: TagArray, arr: &a}
}

func NewMap(m *orderedmap.Map) Object { return Object{tag: TagMap, m: m} }

func EmptyMutableMap() Object { return Object{tag: TagMap, m: orderedmap.New()} }

func NewBoundSymbolObject(b *BoundSymbol) Object { return Object{tag: TagBoundSymbol, bound: b} }

func NewCallable(c Callable) Object { return Object{tag: TagCallable, call: c} }

func (o Object) Tag() Tag        { return o.tag }
func (o Object) IsNull() bool    { return o.tag == TagNull }
func (o Object) IsBoolean() bool { return o.tag == TagBoolean }
func (o Object) IsNumber() bool  { return o.tag == TagNumber }
func (o Object) IsString() bool  { return o.tag == TagString }
func (o Object) IsColor() bool   { return o.tag == TagColor }
func (o Object) IsArray() bool   { return o.tag == TagArray }
func (o Object) IsMap() bool     { return o.tag == TagMap }
func (o Object) IsCallable() bool { return o.tag == TagCallable }
func (o Object) IsBoundSymbol() bool { return o.tag == TagBoundSymbol }

func (o Object) IsNaN() bool { return o.tag == TagNumber && math.IsNaN(o.num) }

func (o Object) IsAbsoluteDimension() bool {
	return o.tag == TagDimension && o.dim.Kind == DimensionAbsolute
}

func (o Object) IsRelativeDimension() bool {
	return o.tag == TagDimension && o.dim.Kind == DimensionRelative
}

func (o Object) IsAutoDimension() bool {
	return o.tag == TagDimension && o.dim.Kind == DimensionAuto
}

func (o Object) IsNonAutoDimension() bool {
	return o.tag == TagDimension && o.dim.Kind != DimensionAuto
}

func (o Object) IsPure() bool {
	if o.tag != TagCallable {
		return false
	}
	return o.call.Pure()
}

func (o Object) IsFunction() bool { return o.tag == TagCallable }

// AsNumber returns the numeric interpretation of the object, following
// the same coercions the evaluator's arithmetic uses.
func (o Object) AsNumber() float64 {
	switch o.tag {
	case TagNumber:
		return o.num
	case TagBoolean:
		return o.num
	case TagDimension:
		return o.dim.Value
	case TagString:
		v, err := strconv.ParseFloat(strings.TrimSpace(o.str), 64)
		if err != nil {
			return math.NaN()
		}
		return v
	case TagNull:
		return 0
	default:
		return math.NaN()
	}
}

// AsString renders the object the way the language's implicit string
// coercion (used by "+" fallthrough and string interpolation) does.
func (o Object) AsString() string {
	switch o.tag {
	case TagNull:
		return ""
	case TagBoolean:
		if o.num != 0 {
			return "true"
		}
		return "false"
	case TagNumber:
		return formatNumber(o.num)
	case TagString:
		return o.str
	case TagDimension:
		return o.dim.String()
	case TagColor:
		return fmt.Sprintf("#%08x", o.AsColor())
	case TagArray:
		parts := make([]string, len(*o.arr))
		for i, v := range *o.arr {
			parts[i] = v.AsString()
		}
		return strings.Join(parts, ", ")
	case TagMap:
		return "[object Map]"
	case TagBoundSymbol:
		return o.bound.Eval().AsString()
	case TagCallable:
		return "[function]"
	default:
		return ""
	}
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Truthy implements the language's truthiness contract for every tag.
func (o Object) Truthy() bool {
	switch o.tag {
	case TagNull:
		return false
	case TagBoolean:
		return o.num != 0
	case TagNumber:
		return o.num != 0 && !math.IsNaN(o.num)
	case TagString:
		return o.str != ""
	case TagDimension:
		return o.dim.Value != 0
	case TagColor:
		return o.num != 0
	case TagArray:
		return len(*o.arr) != 0
	case TagMap:
		return o.m.Len() != 0
	case TagBoundSymbol:
		return o.bound.Truthy()
	case TagCallable:
		return true
	default:
		return false
	}
}

// Empty mirrors the original's notion of an "empty" value, used by
// BoundSymbol.Empty while the owning context is still alive.
func (o Object) Empty() bool {
	switch o.tag {
	case TagNull:
		return true
	case TagString:
		return o.str == ""
	case TagArray:
		return len(*o.arr) == 0
	case TagMap:
		return o.m == nil || o.m.Len() == 0
	default:
		return false
	}
}

func (o Object) Len() Object {
	switch o.tag {
	case TagArray:
		return NewNumber(float64(len(*o.arr)))
	case TagString:
		return NewNumber(float64(len([]rune(o.str))))
	case TagMap:
		return NewNumber(float64(o.m.Len()))
	default:
		return Null
	}
}

// Array returns the backing slice for an Array object. Panics if the
// object is not an array; callers must check IsArray first.
func (o Object) Array() []Object {
	return *o.arr
}

// MutableArrayAppend appends v to the array in place (the APPEND_ARRAY
// mutation, matching the original's getMutableArray contract) and
// returns the same array object.
func (o Object) MutableArrayAppend(v Object) Object {
	*o.arr = append(*o.arr, v)
	return o
}

func (o Object) Map() *orderedmap.Map { return o.m }

func (o Object) MutableMapSet(key string, v Object) Object {
	o.m.Set(key, v)
	return o
}

func (o Object) Get(key string) Object {
	switch o.tag {
	case TagMap:
		v, ok := o.m.Get(key)
		if !ok {
			return Null
		}
		return v.(Object)
	default:
		return Null
	}
}

func (o Object) BoundSymbol() *BoundSymbol { return o.bound }

func (o Object) Callable() Callable { return o.call }

func (o Object) Dimension() Dimension { return o.dim }

// AsColor returns the packed 0xRRGGBBAA value. Callers must check IsColor
// first; any other tag returns 0.
func (o Object) AsColor() uint32 {
	if o.tag != TagColor {
		return 0
	}
	return uint32(o.num)
}

// DebugString produces a type-tagged rendering used by disassembly
// tooling, ported from the original's Object::toDebugString.
func (o Object) DebugString() string {
	switch o.tag {
	case TagNull:
		return "null"
	case TagBoolean:
		return fmt.Sprintf("Boolean<%v>", o.Truthy())
	case TagNumber:
		return fmt.Sprintf("Number<%s>", formatNumber(o.num))
	case TagString:
		return fmt.Sprintf("String<%q>", o.str)
	case TagDimension:
		return fmt.Sprintf("Dimension<%s>", o.dim.String())
	case TagColor:
		return fmt.Sprintf("Color<#%08x>", o.AsColor())
	case TagArray:
		return fmt.Sprintf("Array<%d>", len(*o.arr))
	case TagMap:
		return fmt.Sprintf("Map<%d>", o.m.Len())
	case TagBoundSymbol:
		return o.bound.DebugString()
	case TagCallable:
		return "Callable<>"
	default:
		return "?"
	}
}

// Eval returns the object itself unless it is a BoundSymbol, in which
// case it resolves through the bound context. This is the one place a
// plain Object reaches back into the reactive layer, used by
// BC_OPCODE_LOAD_BOUND_SYMBOL.
func (o Object) Eval() Object {
	if o.tag == TagBoundSymbol {
		return o.bound.Eval()
	}
	return o
}
