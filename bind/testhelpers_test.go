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

import "testing"

// compileBody lexes and parses the body of a single "${...}" expression
// (braces already stripped) without the literal/embedded-expression
// splitting Parse does for a full attribute value, returning the raw,
// unoptimized Bytecode so a test can inspect instructions before and
// after Optimize separately.
func compileBody(t *testing.T, ctx *Context, src string) *Bytecode {
	t.Helper()
	tokens, err := lex(src)
	if err != nil {
		t.Fatalf("lex(%q): %v", src, err)
	}
	asm := newAssembler(ctx)
	p := &Parser{tokens: tokens, asm: asm}
	if err := p.parseExpr(); err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	if p.peek().kind != tokEOF {
		t.Fatalf("trailing tokens after %q at col %d", src, p.peek().col)
	}
	return asm.retrieve(ctx)
}

// evalValue resolves whatever Parse returned: a plain constant, or a
// wrapped Bytecode callable for anything that didn't fully fold.
func evalValue(t *testing.T, ctx *Context, src string) Object {
	t.Helper()
	v := Parse(ctx, src)
	if v.IsCallable() {
		return v.Callable().Call(nil)
	}
	return v
}
