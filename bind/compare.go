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

import "math"

func numCompare(a, b float64) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func strCompare(a, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

// ObjectCompare implements the three-way comparison used by CompareOp.
// Mismatched, non-coercible operand pairs fall through to -1 rather than
// an error — this is a deliberate port of the original's
// Compare(Object,Object), not an oversight: it resolves this repository's
// Open Question about comparing e.g. an Absolute Dimension against a
// Relative one by treating the mismatch as "less than".
func ObjectCompare(a, b Object) int {
	if a.IsNumber() {
		if b.IsNumber() {
			return numCompare(a.AsNumber(), b.AsNumber())
		}
		if b.IsAbsoluteDimension() || b.IsRelativeDimension() {
			return numCompare(a.AsNumber(), b.Dimension().Value)
		}
	}

	if a.IsAbsoluteDimension() {
		if b.IsNumber() {
			return numCompare(a.Dimension().Value, b.AsNumber())
		}
		if b.IsAbsoluteDimension() {
			return numCompare(a.Dimension().Value, b.Dimension().Value)
		}
	}

	if a.IsRelativeDimension() {
		if b.IsNumber() {
			return numCompare(a.Dimension().Value, b.AsNumber())
		}
		if b.IsRelativeDimension() {
			return numCompare(a.Dimension().Value, b.Dimension().Value)
		}
	}

	if a.IsString() && b.IsString() {
		return strCompare(a.AsString(), b.AsString())
	}

	if a.IsBoolean() && b.IsBoolean() && a.Truthy() == b.Truthy() {
		return 0
	}

	if a.IsNull() && b.IsNull() {
		return 0
	}

	if a.IsAutoDimension() && b.IsAutoDimension() {
		return 0
	}

	if a.IsColor() && b.IsColor() && a.AsColor() == b.AsColor() {
		return 0
	}

	return -1
}

func CalculateUnaryPlus(a Object) Object {
	if a.IsNumber() || a.IsNonAutoDimension() {
		return a
	}
	return NaN
}

func CalculateUnaryMinus(a Object) Object {
	if a.IsNumber() {
		return NewNumber(-a.AsNumber())
	}
	if a.IsAbsoluteDimension() {
		return NewDimension(AbsoluteDimension(-a.Dimension().Value))
	}
	if a.IsRelativeDimension() {
		return NewDimension(RelativeDimension(-a.Dimension().Value))
	}
	return NaN
}

func CalculateUnaryNot(a Object) Object { return NewBool(!a.Truthy()) }

func CalculateMultiply(a, b Object) Object {
	if a.IsNumber() {
		if b.IsNumber() {
			return NewNumber(a.AsNumber() * b.AsNumber())
		}
		if b.IsAbsoluteDimension() {
			return NewDimension(AbsoluteDimension(a.AsNumber() * b.Dimension().Value))
		}
		if b.IsRelativeDimension() {
			return NewDimension(RelativeDimension(a.AsNumber() * b.Dimension().Value))
		}
	} else if b.IsNumber() {
		if a.IsAbsoluteDimension() {
			return NewDimension(AbsoluteDimension(a.Dimension().Value * b.AsNumber()))
		}
		if a.IsRelativeDimension() {
			return NewDimension(RelativeDimension(a.Dimension().Value * b.AsNumber()))
		}
	}
	return NaN
}

func CalculateDivide(a, b Object) Object {
	if b.IsNumber() {
		if a.IsNumber() {
			return NewNumber(a.AsNumber() / b.AsNumber())
		}
		if a.IsAbsoluteDimension() {
			return NewDimension(AbsoluteDimension(a.Dimension().Value / b.AsNumber()))
		}
		if a.IsRelativeDimension() {
			return NewDimension(RelativeDimension(a.Dimension().Value / b.AsNumber()))
		}
	}
	if a.IsAbsoluteDimension() && b.IsAbsoluteDimension() {
		return NewNumber(a.Dimension().Value / b.Dimension().Value)
	}
	if a.IsRelativeDimension() && b.IsRelativeDimension() {
		return NewNumber(a.Dimension().Value / b.Dimension().Value)
	}
	return NaN
}

func CalculateRemainder(a, b Object) Object {
	if b.IsNumber() {
		if a.IsNumber() {
			return NewNumber(math.Mod(a.AsNumber(), b.AsNumber()))
		}
		if a.IsAbsoluteDimension() {
			return NewDimension(AbsoluteDimension(math.Mod(a.Dimension().Value, b.AsNumber())))
		}
		if a.IsRelativeDimension() {
			return NewDimension(RelativeDimension(math.Mod(a.Dimension().Value, b.AsNumber())))
		}
	}
	if a.IsAbsoluteDimension() && b.IsAbsoluteDimension() {
		return NewNumber(math.Mod(a.Dimension().Value, b.Dimension().Value))
	}
	if a.IsRelativeDimension() && b.IsRelativeDimension() {
		return NewNumber(math.Mod(a.Dimension().Value, b.Dimension().Value))
	}
	return NaN
}

// CalculateAdd falls through to string concatenation for any operand
// pair that isn't number/dimension-compatible — unlike Subtract, which
// falls through to NaN. This asymmetry is load-bearing (it's how string
// interpolation composes literal text with numeric results) and is
// preserved exactly as the original has it.
func CalculateAdd(a, b Object) Object {
	if a.IsNumber() {
		if b.IsNumber() {
			return NewNumber(a.AsNumber() + b.AsNumber())
		}
		if b.IsAbsoluteDimension() {
			return NewDimension(AbsoluteDimension(a.AsNumber() + b.Dimension().Value))
		}
		if b.IsRelativeDimension() {
			return NewDimension(RelativeDimension(a.AsNumber() + b.Dimension().Value))
		}
	}
	if a.IsAbsoluteDimension() {
		if b.IsNumber() {
			return NewDimension(AbsoluteDimension(a.Dimension().Value + b.AsNumber()))
		}
		if b.IsAbsoluteDimension() {
			return NewDimension(AbsoluteDimension(a.Dimension().Value + b.Dimension().Value))
		}
	}
	if a.IsRelativeDimension() {
		if b.IsNumber() {
			return NewDimension(RelativeDimension(a.Dimension().Value + b.AsNumber()))
		}
		if b.IsRelativeDimension() {
			return NewDimension(RelativeDimension(a.Dimension().Value + b.Dimension().Value))
		}
	}
	return NewString(a.AsString() + b.AsString())
}

func CalculateSubtract(a, b Object) Object {
	if a.IsNumber() {
		if b.IsNumber() {
			return NewNumber(a.AsNumber() - b.AsNumber())
		}
		if b.IsAbsoluteDimension() {
			return NewDimension(AbsoluteDimension(a.AsNumber() - b.Dimension().Value))
		}
		if b.IsRelativeDimension() {
			return NewDimension(RelativeDimension(a.AsNumber() - b.Dimension().Value))
		}
	}
	if a.IsAbsoluteDimension() {
		if b.IsNumber() {
			return NewDimension(AbsoluteDimension(a.Dimension().Value - b.AsNumber()))
		}
		if b.IsAbsoluteDimension() {
			return NewDimension(AbsoluteDimension(a.Dimension().Value - b.Dimension().Value))
		}
	}
	if a.IsRelativeDimension() {
		if b.IsNumber() {
			return NewDimension(RelativeDimension(a.Dimension().Value - b.AsNumber()))
		}
		if b.IsRelativeDimension() {
			return NewDimension(RelativeDimension(a.Dimension().Value - b.Dimension().Value))
		}
	}
	return NaN
}

// CalcFieldAccess implements "A.B" attribute access: Map lookup by
// string key, or an Array's synthetic "length" property. Anything else
// is Null, never an error.
func CalcFieldAccess(a, b Object) Object {
	if a.IsMap() && b.IsString() {
		return a.Get(b.AsString())
	}
	if a.IsArray() && b.IsString() && b.AsString() == "length" {
		return a.Len()
	}
	return Null
}

// CalcArrayAccess implements "A[B]": on a Map this is identical to field
// access (string keys only); on an Array, a string "length" key or a
// numeric index. A negative index receives a single wraparound
// (index += len), not a true modulo — an out-of-range result after that
// one adjustment is Null, matching the original exactly.
func CalcArrayAccess(a, b Object) Object {
	if a.IsMap() && b.IsString() {
		return a.Get(b.AsString())
	}
	if a.IsArray() {
		if b.IsString() && b.AsString() == "length" {
			return a.Len()
		}
		if b.IsNumber() {
			items := a.Array()
			length := int64(len(items))
			index := int64(math.Round(b.AsNumber()))
			if index < 0 {
				index += length
			}
			if index < 0 || index >= length {
				return Null
			}
			return items[index]
		}
	}
	return Null
}

// MergeOp is the string-merge reduction MERGE_STRING folds over its
// operands, right to left. An empty-string operand on either side is the
// merge identity, so that pure text/expression interpolation avoids
// double "asString" coercion of an empty literal.
func MergeOp(a, b Object) Object {
	if a.IsString() && a.AsString() == "" {
		return b
	}
	if b.IsString() && b.AsString() == "" {
		return a
	}
	return NewString(a.AsString() + b.AsString())
}

// Equal implements loose value equality for Go callers (Context.Set's
// redundant-write check, the optimizer's operand deduplication); the
// language's "==" goes through CompareOp instead. Null equals any falsy
// value, arrays compare element by element, and maps are never equal.
// Grounded on the teacher's tagged-Scmer Equal, adapted to this value
// model's tag set.
func Equal(a, b Object) bool {
	if a.IsNull() && b.IsNull() {
		return true
	}
	if a.IsNull() {
		return !b.Truthy()
	}
	if b.IsNull() {
		return !a.Truthy()
	}
	if a.Tag() == b.Tag() {
		switch a.Tag() {
		case TagBoolean:
			return a.Truthy() == b.Truthy()
		case TagNumber:
			return a.AsNumber() == b.AsNumber()
		case TagString:
			return a.AsString() == b.AsString()
		case TagColor:
			return a.AsColor() == b.AsColor()
		case TagArray:
			av, bv := a.Array(), b.Array()
			if len(av) != len(bv) {
				return false
			}
			for i := range av {
				if !Equal(av[i], bv[i]) {
					return false
				}
			}
			return true
		}
	}
	return ObjectCompare(a, b) == 0
}
