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
	"fmt"
	"io"
)

// Bytecode holds one compiled "${...}" expression: its instruction
// stream, its data pool of non-inlineable operands, and a weak reference
// to the context it was compiled against.
type Bytecode struct {
	ctx          *Context
	Instructions []Instruction
	Data         []Object
	optimized    bool
}

// NewBytecode creates an empty, unoptimized Bytecode bound to ctx.
func NewBytecode(ctx *Context) *Bytecode {
	return &Bytecode{ctx: ctx}
}

func (b *Bytecode) Context() *Context { return b.ctx }

func (b *Bytecode) IsOptimized() bool { return b.optimized }

// Eval runs this bytecode to completion against its bound context and
// returns the result. A zero-instruction program evaluates to Null; a
// single LOAD_* instruction is evaluated directly without spinning up
// the full stack machine, mirroring the original's ByteCode::eval fast
// path for trivial expressions like "${3}" or "${null}".
func (b *Bytecode) Eval() Object {
	if len(b.Instructions) == 0 {
		return Null
	}
	if len(b.Instructions) == 1 {
		switch inst := b.Instructions[0]; inst.Op {
		case OpLoadConstant:
			return constantObject(Constant(inst.Operand))
		case OpLoadImmediate:
			return NewNumber(float64(inst.Operand))
		case OpLoadData:
			return b.Data[inst.Operand]
		case OpLoadBoundSymbol:
			return b.Data[inst.Operand].Eval()
		}
	}
	ev := NewEvaluator(b)
	ev.Advance()
	return ev.Result()
}

// Simplify optimizes the bytecode and, if it reduces to a single
// constant-bearing instruction, returns that constant directly instead
// of the Bytecode wrapper — matching ByteCode::simplify's contract that
// a fully-constant expression need not carry its bytecode shell at all.
func (b *Bytecode) Simplify() Object {
	Optimize(b)
	if len(b.Instructions) == 1 {
		switch inst := b.Instructions[0]; inst.Op {
		case OpLoadConstant:
			return constantObject(Constant(inst.Operand))
		case OpLoadImmediate:
			return NewNumber(float64(inst.Operand))
		case OpLoadData:
			return b.Data[inst.Operand]
		}
	}
	return NewBytecodeObject(b)
}

// Symbols extracts the set of mutable-binding dependency paths this
// expression reads, optimizing the bytecode first as a side effect (the
// original does the same — symbol extraction is the one place callers
// are guaranteed to have run the optimizer before execution).
func (b *Bytecode) Symbols() []string {
	if !b.optimized {
		Optimize(b)
	}
	return ExtractSymbols(b)
}

// InstructionAsString formats one disassembled instruction line.
func (b *Bytecode) InstructionAsString(pc int) string {
	inst := b.Instructions[pc]
	switch inst.Op {
	case OpLoadConstant:
		return fmt.Sprintf("%4d: %-24s %d (%s)", pc, inst.Op, inst.Operand, constantObject(Constant(inst.Operand)).DebugString())
	case OpLoadData, OpLoadBoundSymbol, OpAttributeAccess:
		if int(inst.Operand) < len(b.Data) {
			return fmt.Sprintf("%4d: %-24s %d (%s)", pc, inst.Op, inst.Operand, b.Data[inst.Operand].DebugString())
		}
		return fmt.Sprintf("%4d: %-24s %d", pc, inst.Op, inst.Operand)
	case OpJump, OpJumpIfFalseOrPop, OpJumpIfTrueOrPop, OpJumpIfNotNullOrPop, OpPopJumpIfFalse:
		return fmt.Sprintf("%4d: %-24s %+d -> %d", pc, inst.Op, inst.Operand, pc+int(inst.Operand)+1)
	default:
		return fmt.Sprintf("%4d: %-24s %d", pc, inst.Op, inst.Operand)
	}
}

// Dump writes a human-readable disassembly listing to w.
func (b *Bytecode) Dump(w io.Writer) {
	for pc := range b.Instructions {
		fmt.Fprintln(w, b.InstructionAsString(pc))
	}
}

func (b *Bytecode) InstructionCount() int { return len(b.Instructions) }

// bytecodeCallable lets a compiled-but-not-fully-constant expression
// live inside an Object as an opaque Callable with zero arguments, so
// it can be stored in a Context binding and re-evaluated lazily. Used by
// NewBytecodeObject.
type bytecodeCallable struct {
	code *Bytecode
}

func (c *bytecodeCallable) Call(args []Object) Object { return c.code.Eval() }
func (c *bytecodeCallable) Pure() bool                { return false }

// NewBytecodeObject wraps a compiled expression as an Object so it can
// be threaded through the same value channels as any other result.
func NewBytecodeObject(b *Bytecode) Object {
	return NewCallable(&bytecodeCallable{code: b})
}
