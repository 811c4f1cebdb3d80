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

// basicBlock tracks one peephole-optimizer basic block: where it starts
// in the rewritten output, how many instructions it holds, and how many
// jumps still target it once dead code has been stripped.
type basicBlock struct {
	entry       int
	count       int
	jumpEntries int
}

// findBasicBlocks locates every instruction offset that a jump can land
// on, so the optimizer can track which spans of rewritten code are
// reachable. Ported from findBasicBlocks in the original optimizer.
func findBasicBlocks(instructions []Instruction) (order []int, blocks map[int]*basicBlock) {
	blocks = make(map[int]*basicBlock)
	blocks[0] = &basicBlock{}
	n := len(instructions)
	blocks[n] = &basicBlock{entry: n}

	for pc, cmd := range instructions {
		switch cmd.Op {
		case OpJump, OpJumpIfFalseOrPop, OpJumpIfTrueOrPop, OpJumpIfNotNullOrPop, OpPopJumpIfFalse:
			entry := pc + int(cmd.Operand) + 1
			if entry >= 0 && entry < n {
				if _, ok := blocks[entry]; !ok {
					blocks[entry] = &basicBlock{}
				}
			}
		}
	}

	order = make([]int, 0, len(blocks))
	for k := range blocks {
		order = append(order, k)
	}
	sortInts(order)
	return order, blocks
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

// Optimize runs the five-step peephole optimization pass over code in
// place: constant folding and dead-code elimination within basic blocks
// (simplifyOperations), then dead basic block removal and jump-offset
// fixup (also part of simplifyOperations), then operand-pool
// deduplication (simplifyOperands). A zero-instruction program is left
// untouched, matching ByteCodeOptimizer::optimize's guard.
func Optimize(code *Bytecode) {
	if len(code.Instructions) == 0 {
		return
	}
	simplifyOperations(code)
	simplifyOperands(code)
	code.optimized = true
}

// simplifyOperands deduplicates the data pool after simplifyOperations
// has finished rewriting instructions: any LOAD_DATA / ATTRIBUTE_ACCESS /
// LOAD_BOUND_SYMBOL operand that already exists earlier in the new pool
// is repointed at that earlier slot instead of getting its own.
func simplifyOperands(code *Bytecode) {
	var operands []Object

	findOrAppend := func(v Object) int32 {
		for i, existing := range operands {
			if sameOperand(existing, v) {
				return int32(i)
			}
		}
		operands = append(operands, v)
		return int32(len(operands) - 1)
	}

	for i, cmd := range code.Instructions {
		switch cmd.Op {
		case OpLoadData, OpAttributeAccess, OpLoadBoundSymbol:
			code.Instructions[i].Operand = findOrAppend(code.Data[cmd.Operand])
		}
	}

	code.Data = operands
}

// sameOperand compares two pooled operands for the purpose of
// deduplication. Bound symbols compare by identity/name (Equal), and
// scalars by value; arrays and maps are never deduplicated since the
// original likewise relies on Object's own equality, which for
// reference-typed values is identity.
func sameOperand(a, b Object) bool {
	if a.Tag() != b.Tag() {
		return false
	}
	switch a.Tag() {
	case TagBoundSymbol:
		return a.BoundSymbol().Equal(b.BoundSymbol())
	case TagArray, TagMap, TagCallable:
		return false
	default:
		return Equal(a, b)
	}
}

type unaryFn func(Object) Object
type binaryFn func(a, b Object) Object

// simplifyOperations is the main peephole loop: it walks the original
// instruction stream once, rewriting it into `output`, folding constant
// expressions as it goes via a small shadow stack of "how many constants
// are currently on top of output" (out_constants), and tracking basic
// block liveness so dead blocks can be stripped afterward. Ported from
// ByteCodeOptimizer::simplifyOperations.
func simplifyOperations(code *Bytecode) {
	instructions := code.Instructions
	operands := append([]Object(nil), code.Data...)

	_, blocks := findBasicBlocks(instructions)
	blockOrder := sortedKeys(blocks)
	bbIdx := 0

	var output []Instruction
	outConstants := 0
	programLength := len(instructions)
	blockHasEnded := false

	getValueOffsetFromEnd := func(offset int) Object {
		idx := len(output) + offset
		cmd := output[idx]
		switch cmd.Op {
		case OpLoadConstant:
			return constantObject(Constant(cmd.Operand))
		case OpLoadImmediate:
			return NewNumber(float64(cmd.Operand))
		case OpLoadData:
			return operands[cmd.Operand]
		default:
			panic("bind: illegal constant-folding offset")
		}
	}

	storeLoadInstruction := func(popCount int, value Object) {
		outConstants -= popCount
		for ; popCount > 0; popCount-- {
			output = output[:len(output)-1]
		}

		switch {
		case value.IsNull():
			output[len(output)-1] = Instruction{OpLoadConstant, int32(ConstantNull)}
		case value.IsBoolean():
			c := ConstantFalse
			if value.Truthy() {
				c = ConstantTrue
			}
			output[len(output)-1] = Instruction{OpLoadConstant, int32(c)}
		case value.IsNumber() && fitsOperand(value.AsNumber()):
			output[len(output)-1] = Instruction{OpLoadImmediate, int32(value.AsNumber())}
		default:
			operands = append(operands, value)
			output[len(output)-1] = Instruction{OpLoadData, int32(len(operands) - 1)}
		}
	}

	checkUnary := func(pc int, fn unaryFn) {
		if outConstants < 1 {
			output = append(output, instructions[pc])
			outConstants = 0
		} else {
			storeLoadInstruction(0, fn(getValueOffsetFromEnd(-1)))
		}
	}

	checkBinary := func(pc int, fn binaryFn) {
		if outConstants < 2 {
			output = append(output, instructions[pc])
			outConstants = 0
		} else {
			storeLoadInstruction(1, fn(getValueOffsetFromEnd(-2), getValueOffsetFromEnd(-1)))
		}
	}

	checkCompare := func(pc int, cmp Comparison) {
		if outConstants < 2 {
			output = append(output, instructions[pc])
			outConstants = 0
		} else {
			storeLoadInstruction(1, NewBool(CompareOp(cmp, getValueOffsetFromEnd(-2), getValueOffsetFromEnd(-1))))
		}
	}

	checkJumpIfOrPop := func(pc int, f func(Object) bool) {
		cmd := instructions[pc]
		bbKey := pc + int(cmd.Operand) + 1

		if outConstants < 1 {
			output = append(output, Instruction{cmd.Op, int32(bbKey)})
			ensureBlock(blocks, bbKey).jumpEntries++
		} else {
			value := getValueOffsetFromEnd(-1)
			if f(value) {
				output = append(output, Instruction{OpJump, int32(bbKey)})
				ensureBlock(blocks, bbKey).jumpEntries++
				outConstants = 0
				blockHasEnded = true
			} else {
				output = output[:len(output)-1]
				outConstants--
			}
		}
	}

	checkFunction := func(pc int) {
		cmd := instructions[pc]
		itemCount := int(cmd.Operand) + 1
		if outConstants >= itemCount {
			offset := -itemCount
			f := getValueOffsetFromEnd(offset)
			offset++
			if f.IsFunction() && f.IsPure() {
				args := make([]Object, cmd.Operand)
				for i := 0; i < int(cmd.Operand); i++ {
					args[i] = getValueOffsetFromEnd(offset)
					offset++
				}
				storeLoadInstruction(itemCount-1, f.Callable().Call(args))
				return
			}
		}
		output = append(output, cmd)
		outConstants = 0
	}

	for pc := 0; pc <= programLength; pc++ {
		if bbIdx+1 < len(blockOrder) && blockOrder[bbIdx+1] == pc {
			cur := blocks[blockOrder[bbIdx]]
			cur.count = len(output) - cur.entry
			bbIdx++
			blocks[blockOrder[bbIdx]].entry = len(output)
			outConstants = 0
			blockHasEnded = false
		}

		if pc == programLength {
			break
		}
		if blockHasEnded {
			continue
		}

		cmd := instructions[pc]
		switch cmd.Op {
		case OpNop:
		case OpCallFunction:
			checkFunction(pc)
		case OpLoadConstant, OpLoadImmediate, OpLoadData:
			output = append(output, cmd)
			outConstants++
		case OpLoadBoundSymbol:
			output = append(output, cmd)
			outConstants = 0
		case OpAttributeAccess:
			if outConstants > 0 {
				operands = append(operands, CalcFieldAccess(getValueOffsetFromEnd(-1), operands[cmd.Operand]))
				output[len(output)-1] = Instruction{OpLoadData, int32(len(operands) - 1)}
			} else {
				output = append(output, cmd)
				outConstants = 0
			}
		case OpArrayAccess:
			checkBinary(pc, CalcArrayAccess)
		case OpUnaryPlus:
			checkUnary(pc, CalculateUnaryPlus)
		case OpUnaryMinus:
			checkUnary(pc, CalculateUnaryMinus)
		case OpUnaryNot:
			checkUnary(pc, CalculateUnaryNot)
		case OpBinaryMultiply:
			checkBinary(pc, CalculateMultiply)
		case OpBinaryDivide:
			checkBinary(pc, CalculateDivide)
		case OpBinaryRemainder:
			checkBinary(pc, CalculateRemainder)
		case OpBinaryAdd:
			checkBinary(pc, CalculateAdd)
		case OpBinarySubtract:
			checkBinary(pc, CalculateSubtract)
		case OpCompare:
			checkCompare(pc, Comparison(cmd.Operand))
		case OpJump:
			target := pc + int(cmd.Operand) + 1
			output = append(output, Instruction{OpJump, int32(target)})
			ensureBlock(blocks, target).jumpEntries++
			outConstants = 0
			blockHasEnded = true
		case OpJumpIfFalseOrPop:
			checkJumpIfOrPop(pc, func(o Object) bool { return !o.Truthy() })
		case OpJumpIfTrueOrPop:
			checkJumpIfOrPop(pc, func(o Object) bool { return o.Truthy() })
		case OpJumpIfNotNullOrPop:
			checkJumpIfOrPop(pc, func(o Object) bool { return !o.IsNull() })
		case OpPopJumpIfFalse:
			if outConstants > 0 {
				if !getValueOffsetFromEnd(-1).Truthy() {
					output = output[:len(output)-1]
					target := pc + int(cmd.Operand) + 1
					output = append(output, Instruction{OpJump, int32(target)})
					ensureBlock(blocks, target).jumpEntries++
					outConstants = 0
					blockHasEnded = true
				} else {
					output = output[:len(output)-1]
					outConstants--
				}
			} else {
				target := pc + int(cmd.Operand) + 1
				output = append(output, Instruction{OpPopJumpIfFalse, int32(target)})
				ensureBlock(blocks, target).jumpEntries++
				outConstants = 0
			}
		case OpMergeString:
			if outConstants < int(cmd.Operand) {
				output = append(output, cmd)
				outConstants = 0
			} else {
				result := getValueOffsetFromEnd(-1)
				for i := 2; i <= int(cmd.Operand); i++ {
					result = MergeOp(getValueOffsetFromEnd(-i), result)
				}
				storeLoadInstruction(int(cmd.Operand)-1, result)
			}
		case OpAppendArray, OpAppendMap:
			output = append(output, cmd)
			outConstants = 0
		}
	}

	// Dead code removal: strip blocks nothing jumps to, and collapse a
	// trailing unconditional JUMP that lands on the very next block.
	stripped := 0
	for _, key := range blockOrder {
		blk := blocks[key]
		blk.entry -= stripped

		fallInto := true
		pc := blk.entry - 1
		if pc >= 0 {
			cmd := output[pc]
			if cmd.Op == OpJump {
				fallInto = int(cmd.Operand) == key
				if fallInto {
					output = append(output[:pc], output[pc+1:]...)
					stripped++
					blk.entry--
					for i := indexOf(blockOrder, key) - 1; i >= 0; i-- {
						prev := blocks[blockOrder[i]]
						if prev.entry <= pc {
							blocks[blockOrder[i+1]].count--
							break
						}
						prev.entry--
					}
				}
			}
		}

		if !fallInto && blk.jumpEntries == 0 {
			stripped += blk.count
			output = append(output[:blk.entry], output[blk.entry+blk.count:]...)
			blk.count = 0
		}
	}

	for pc := range output {
		cmd := &output[pc]
		switch cmd.Op {
		case OpJump, OpJumpIfFalseOrPop, OpJumpIfTrueOrPop, OpJumpIfNotNullOrPop, OpPopJumpIfFalse:
			cmd.Operand = int32(blocks[int(cmd.Operand)].entry - pc - 1)
		}
	}

	code.Instructions = output
	code.Data = operands
}

func ensureBlock(blocks map[int]*basicBlock, key int) *basicBlock {
	b, ok := blocks[key]
	if !ok {
		b = &basicBlock{}
		blocks[key] = b
	}
	return b
}

func sortedKeys(m map[int]*basicBlock) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortInts(keys)
	return keys
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}
