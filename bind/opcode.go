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

//go:generate go run ../tools/opcodegen -type Opcode -output opcode_string.go

// Opcode identifies a single bytecode instruction. The list grows over
// time; do not depend on instruction order, only on value stability
// within one compiled Bytecode (it is never persisted across versions).
type Opcode uint8

const (
	OpNop Opcode = iota
	OpCallFunction     // TOS = TOS_n(TOS_(n-1), ..., TOS) where n = operand
	OpLoadConstant     // TOS = constant(operand)
	OpLoadImmediate    // TOS = operand
	OpLoadData         // TOS = data[operand]
	OpLoadBoundSymbol  // TOS = data[operand].Eval()
	OpAttributeAccess  // TOS = TOS.(data[operand])
	OpArrayAccess      // TOS = TOS_1[TOS]
	OpUnaryPlus        // TOS = +TOS
	OpUnaryMinus       // TOS = -TOS
	OpUnaryNot         // TOS = !TOS
	OpBinaryMultiply   // TOS = TOS_1 * TOS
	OpBinaryDivide     // TOS = TOS_1 / TOS
	OpBinaryRemainder  // TOS = TOS_1 % TOS
	OpBinaryAdd        // TOS = TOS_1 + TOS
	OpBinarySubtract   // TOS = TOS_1 - TOS
	OpCompare          // TOS = Compare(Comparison(operand), TOS_1, TOS)
	OpJump             // pc += operand + 1
	OpJumpIfFalseOrPop // if !TOS.Truthy(): pc += operand + 1; else pop
	OpJumpIfTrueOrPop  // if TOS.Truthy(): pc += operand + 1; else pop
	OpJumpIfNotNullOrPop
	OpPopJumpIfFalse // pop; if !popped.Truthy(): pc += operand + 1
	OpMergeString    // TOS = TOS_n +* ... +* TOS where n = operand - 1
	OpAppendArray    // TOS = TOS_1.append(TOS)
	OpAppendMap      // TOS = TOS_2.append(TOS_1, TOS)
)

// Comparison is the sub-operand of OpCompare.
type Comparison uint8

const (
	CompareLess Comparison = iota
	CompareLessOrEqual
	CompareEqual
	CompareNotEqual
	CompareGreater
	CompareGreaterOrEqual
)

// Constant enumerates values that are cheap enough to inline as an
// operand rather than allocate a data-pool slot for.
type Constant int32

const (
	ConstantNull Constant = iota
	ConstantFalse
	ConstantTrue
	ConstantEmptyString
	ConstantEmptyArray
	ConstantEmptyMap
)

func constantObject(c Constant) Object {
	switch c {
	case ConstantNull:
		return Null
	case ConstantFalse:
		return False
	case ConstantTrue:
		return True
	case ConstantEmptyString:
		return NewString("")
	case ConstantEmptyArray:
		return EmptyMutableArray()
	case ConstantEmptyMap:
		return EmptyMutableMap()
	default:
		return Null
	}
}

// MaxOperand and MinOperand bound the signed 24-bit operand field of an
// Instruction, matching the 4-byte {opcode:8, operand:24} packing of the
// original's ByteCodeInstruction.
const (
	MaxOperand int32 = 1<<23 - 1
	MinOperand int32 = -(1 << 23)
)

func fitsOperand(v float64) bool {
	i := int32(v)
	return float64(i) == v && i <= MaxOperand && i >= MinOperand
}

// Instruction is a single fixed-width bytecode command.
type Instruction struct {
	Op      Opcode
	Operand int32
}

// Compare applies comparison to the ordering produced by ObjectCompare,
// returning the boolean result of e.g. "a < b". A NaN operand on either
// side makes every comparison false except !=, matching the original's
// CompareOp's NaN short-circuit.
func CompareOp(comparison Comparison, a, b Object) bool {
	if a.IsNaN() || b.IsNaN() {
		return comparison == CompareNotEqual
	}
	value := ObjectCompare(a, b)
	switch comparison {
	case CompareLess:
		return value == -1
	case CompareLessOrEqual:
		return value != 1
	case CompareEqual:
		return value == 0
	case CompareNotEqual:
		return value != 0
	case CompareGreater:
		return value == 1
	case CompareGreaterOrEqual:
		return value != -1
	default:
		return value == 0
	}
}
