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

// Assembler builds a Bytecode directly while the parser walks tokens,
// with no intermediate expression tree, the same single-pass design the
// original ByteCodeAssembler uses. The original drives this through an
// explicit operator-value stack because its grammar actions fire as a
// PEG parser matches, without knowing the surrounding precedence
// structure; a hand-written recursive-descent parser already carries
// that structure on Go's call stack, so Assembler here is reduced to a
// thin emit/patch layer and the precedence climbing lives in parser.go.
type Assembler struct {
	ctx          *Context
	instructions []Instruction
	data         []Object

	// overflow records the first operand that didn't fit the signed
	// 24-bit field, so Parse can raise a diagnostic at assembly time
	// instead of silently wrapping a jump offset or data-pool index.
	overflow bool
}

func newAssembler(ctx *Context) *Assembler {
	return &Assembler{ctx: ctx}
}

func (a *Assembler) retrieve(ctx *Context) *Bytecode {
	return &Bytecode{ctx: ctx, Instructions: a.instructions, Data: a.data}
}

// mark returns the index the next emitted instruction will occupy,
// used as a jump-patch anchor by the caller.
func (a *Assembler) mark() int32 { return int32(len(a.instructions)) }

func (a *Assembler) checkOperand(v int32) int32 {
	if v > MaxOperand || v < MinOperand {
		a.overflow = true
	}
	return v
}

func (a *Assembler) emit(op Opcode, operand int32) int32 {
	idx := a.mark()
	a.instructions = append(a.instructions, Instruction{Op: op, Operand: a.checkOperand(operand)})
	return idx
}

// patch rewrites a previously emitted jump's operand to land just past
// the current end of the instruction stream, using the same relative
// encoding Advance expects: pc += operand + 1 after the jump itself.
func (a *Assembler) patch(idx int32) {
	a.instructions[idx].Operand = a.checkOperand(a.mark() - idx - 1)
}

func (a *Assembler) loadOperand(value Object) {
	idx := int32(len(a.data))
	a.data = append(a.data, value)
	a.emit(OpLoadData, idx)
}

func (a *Assembler) loadConstant(c Constant) { a.emit(OpLoadConstant, int32(c)) }

func (a *Assembler) loadImmediate(v int32) { a.emit(OpLoadImmediate, v) }

// loadGlobal compiles a reference to a context-level name: an immutable
// binding is inlined as a data-pool constant, a mutable one compiles to
// LOAD_BOUND_SYMBOL, and an unresolved name loads NULL, never an error.
func (a *Assembler) loadGlobal(name string) {
	res := a.ctx.Find(name)
	if !res.Found {
		a.loadConstant(ConstantNull)
		return
	}
	if !res.Mutable {
		a.loadOperand(res.Value)
		return
	}
	idx := int32(len(a.data))
	a.data = append(a.data, NewBoundSymbolObject(NewBoundSymbol(res.Context, name)))
	a.emit(OpLoadBoundSymbol, idx)
}

func (a *Assembler) loadAttribute(name string) {
	idx := int32(len(a.data))
	a.data = append(a.data, NewString(name))
	a.emit(OpAttributeAccess, idx)
}

func (a *Assembler) arrayAccess() { a.emit(OpArrayAccess, 0) }

func (a *Assembler) unary(op string) {
	switch op {
	case "+":
		a.emit(OpUnaryPlus, 0)
	case "-":
		a.emit(OpUnaryMinus, 0)
	case "!":
		a.emit(OpUnaryNot, 0)
	}
}

type binaryOperatorInfo struct {
	command Opcode
	value   int32
}

var binaryOperators = map[string]binaryOperatorInfo{
	"*":  {OpBinaryMultiply, 0},
	"/":  {OpBinaryDivide, 0},
	"%":  {OpBinaryRemainder, 0},
	"+":  {OpBinaryAdd, 0},
	"-":  {OpBinarySubtract, 0},
	"<":  {OpCompare, int32(CompareLess)},
	">":  {OpCompare, int32(CompareGreater)},
	"<=": {OpCompare, int32(CompareLessOrEqual)},
	">=": {OpCompare, int32(CompareGreaterOrEqual)},
	"==": {OpCompare, int32(CompareEqual)},
	"!=": {OpCompare, int32(CompareNotEqual)},
}

// binary emits the instruction for a binary operator; both operands
// must already have been pushed by the caller in left-to-right order.
func (a *Assembler) binary(op string) {
	info := binaryOperators[op]
	a.emit(info.command, info.value)
}

// jumpIfFalseOrPop/jumpIfTrueOrPop/jumpIfNotNullOrPop each emit a
// placeholder jump used for short-circuit evaluation and return its
// index; the caller patches it with patch() once the right-hand operand
// has been fully parsed.
func (a *Assembler) jumpIfFalseOrPop() int32   { return a.emit(OpJumpIfFalseOrPop, 0) }
func (a *Assembler) jumpIfTrueOrPop() int32    { return a.emit(OpJumpIfTrueOrPop, 0) }
func (a *Assembler) jumpIfNotNullOrPop() int32 { return a.emit(OpJumpIfNotNullOrPop, 0) }

// popJumpIfFalse/jump back the ternary operator: the condition is
// consumed outright (unlike the *OrPop variants), and an unconditional
// jump skips the else-branch once the then-branch has run.
func (a *Assembler) popJumpIfFalse() int32 { return a.emit(OpPopJumpIfFalse, 0) }
func (a *Assembler) jump() int32           { return a.emit(OpJump, 0) }

func (a *Assembler) appendArray() { a.emit(OpAppendArray, 0) }

func (a *Assembler) appendMap() { a.emit(OpAppendMap, 0) }

func (a *Assembler) callFunction(argCount int32) { a.emit(OpCallFunction, argCount) }

// mergeString folds count already-pushed operands right to left via
// MergeOp; a single literal segment needs no merge at all, and zero
// segments (an empty "${}"-free literal) fold to the empty-string
// constant instead of leaving the stack empty.
func (a *Assembler) mergeString(count int) {
	switch {
	case count == 0:
		a.loadConstant(ConstantEmptyString)
	case count > 1:
		a.emit(OpMergeString, int32(count))
	}
}
