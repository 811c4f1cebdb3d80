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

// ExtractSymbols performs a single linear scan over already-optimized
// bytecode, accumulating dependency paths rooted at each
// LOAD_BOUND_SYMBOL. A literal ATTRIBUTE_ACCESS or ARRAY_ACCESS extends
// the path in progress by appending the segment followed by "/", with no
// separator between the symbol name and its first segment (so
// "TestArray[0]" yields "TestArray0/"); anything else (including an ARRAY_ACCESS whose
// index isn't a compile-time literal) flushes the accumulated path and
// starts over. This is a deliberately coarse approximation — a computed
// array index terminates tracking rather than attempting to enumerate
// every value it might take — matching the original's symbols().
func ExtractSymbols(code *Bytecode) []string {
	var result []string
	seen := make(map[string]bool)

	emit := func(path string) {
		if path != "" && !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	var path string
	var operand Object
	hasOperand := false

	for _, cmd := range code.Instructions {
		switch cmd.Op {
		case OpLoadData:
			operand = code.Data[cmd.Operand]
			hasOperand = true

		case OpLoadImmediate:
			operand = NewNumber(float64(cmd.Operand))
			hasOperand = true

		case OpLoadBoundSymbol:
			if path != "" {
				emit(path)
			}
			path = code.Data[cmd.Operand].BoundSymbol().Name()
			operand = Null
			hasOperand = false

		case OpAttributeAccess:
			if path != "" {
				path += code.Data[cmd.Operand].AsString() + "/"
			}
			operand = Null
			hasOperand = false

		case OpArrayAccess:
			if path != "" {
				if hasOperand && (operand.IsString() || operand.IsNumber()) {
					path += operand.AsString() + "/"
				} else {
					emit(path)
					path = ""
				}
			}
			operand = Null
			hasOperand = false

		default:
			if path != "" {
				emit(path)
				path = ""
			}
			operand = Null
			hasOperand = false
		}
	}

	if path != "" {
		emit(path)
	}

	return result
}
