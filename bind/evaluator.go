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

import "log"

// Evaluator is a one-shot stack machine that executes a single Bytecode
// against its bound context. Create one with NewEvaluator, call Advance
// once, then read Result.
type Evaluator struct {
	code       *Bytecode
	stack      []Object
	pc         int
	done       bool
	isConstant bool
}

func NewEvaluator(code *Bytecode) *Evaluator {
	return &Evaluator{code: code, isConstant: true}
}

// IsConstant reports whether every value this evaluator produced came
// from constants and pure functions — false as soon as a bound symbol is
// loaded or an impure function is called.
func (e *Evaluator) IsConstant() bool { return e.isConstant }

func (e *Evaluator) pop() Object {
	n := len(e.stack) - 1
	v := e.stack[n]
	e.stack = e.stack[:n]
	return v
}

func (e *Evaluator) push(v Object) { e.stack = append(e.stack, v) }

// Advance runs the program to completion. Ported line for line from
// ByteCodeEvaluator::advance, including the exact pop order for binary
// operators (b then a, since a was pushed first).
func (e *Evaluator) Advance() {
	instructions := e.code.Instructions
	data := e.code.Data

	for ; e.pc < len(instructions); e.pc++ {
		cmd := instructions[e.pc]
		switch cmd.Op {
		case OpNop:

		case OpCallFunction:
			argCount := int(cmd.Operand)
			args := make([]Object, argCount)
			for argCount > 0 {
				argCount--
				args[argCount] = e.pop()
			}
			f := e.pop()
			if f.IsCallable() {
				if !f.IsPure() {
					e.isConstant = false
				}
				e.push(f.Callable().Call(args))
			} else {
				log.Printf("bind: invalid function at pc=%d", e.pc)
				e.push(Null)
			}

		case OpLoadConstant:
			e.push(constantObject(Constant(cmd.Operand)))

		case OpLoadImmediate:
			e.push(NewNumber(float64(cmd.Operand)))

		case OpLoadData:
			e.push(data[cmd.Operand])

		case OpLoadBoundSymbol:
			e.push(data[cmd.Operand].Eval())
			e.isConstant = false

		case OpAttributeAccess:
			e.push(CalcFieldAccess(e.pop(), data[cmd.Operand]))

		case OpArrayAccess:
			b := e.pop()
			a := e.pop()
			e.push(CalcArrayAccess(a, b))

		case OpUnaryPlus:
			e.push(CalculateUnaryPlus(e.pop()))

		case OpUnaryMinus:
			e.push(CalculateUnaryMinus(e.pop()))

		case OpUnaryNot:
			e.push(CalculateUnaryNot(e.pop()))

		case OpBinaryMultiply:
			b, a := e.pop(), e.pop()
			e.push(CalculateMultiply(a, b))

		case OpBinaryDivide:
			b, a := e.pop(), e.pop()
			e.push(CalculateDivide(a, b))

		case OpBinaryRemainder:
			b, a := e.pop(), e.pop()
			e.push(CalculateRemainder(a, b))

		case OpBinaryAdd:
			b, a := e.pop(), e.pop()
			e.push(CalculateAdd(a, b))

		case OpBinarySubtract:
			b, a := e.pop(), e.pop()
			e.push(CalculateSubtract(a, b))

		case OpCompare:
			b, a := e.pop(), e.pop()
			e.push(NewBool(CompareOp(Comparison(cmd.Operand), a, b)))

		case OpJump:
			e.pc += int(cmd.Operand)

		case OpJumpIfFalseOrPop:
			if !e.stack[len(e.stack)-1].Truthy() {
				e.pc += int(cmd.Operand)
			} else {
				e.pop()
			}

		case OpJumpIfTrueOrPop:
			if e.stack[len(e.stack)-1].Truthy() {
				e.pc += int(cmd.Operand)
			} else {
				e.pop()
			}

		case OpJumpIfNotNullOrPop:
			if !e.stack[len(e.stack)-1].IsNull() {
				e.pc += int(cmd.Operand)
			} else {
				e.pop()
			}

		case OpPopJumpIfFalse:
			if !e.pop().Truthy() {
				e.pc += int(cmd.Operand)
			}

		case OpMergeString:
			result := e.pop()
			for i := 1; i < int(cmd.Operand); i++ {
				result = MergeOp(e.pop(), result)
			}
			e.push(result)

		case OpAppendArray:
			b := e.pop()
			a := e.pop()
			e.push(a.MutableArrayAppend(b))

		case OpAppendMap:
			c := e.pop()
			b := e.pop()
			a := e.pop()
			e.push(a.MutableMapSet(b.AsString(), c))
		}
	}

	e.done = true
}

// Result returns the top of the stack once Advance has run to
// completion. A stack depth greater than one is logged (it indicates a
// malformed program that left garbage behind) but the top value is still
// returned, matching getResult's log-but-continue behavior.
func (e *Evaluator) Result() Object {
	if !e.done {
		panic("bind: Result called before Advance completed")
	}
	switch len(e.stack) {
	case 0:
		return Null
	case 1:
		return e.stack[0]
	default:
		log.Printf("bind: expected no items on stack, found %d instead", len(e.stack))
		return e.stack[len(e.stack)-1]
	}
}
