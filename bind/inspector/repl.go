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

// Package inspector provides ambient developer tooling around the bind
// expression core: a readline REPL for compiling and evaluating
// "${...}" expressions by hand, and a websocket trace stream for a
// connected devtools client. Neither is on the evaluation core's hot
// path.
package inspector

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/chzyer/readline"

	"github.com/bindcore/exprengine/bind"
)

const (
	newPrompt    = "\033[32mbind>\033[0m "
	resultPrompt = "\033[31m=\033[0m "
)

// REPL reads "${...}"-or-bare expressions from stdin, compiles and
// evaluates each against ctx, and prints the result's debug rendering
// (no disassembly is printed), in the same read-eval-print shape as the teacher's
// scm.Repl. trace may be nil; when set, every line read is wrapped in a
// Chrome-trace-format duration event.
func REPL(ctx *bind.Context, trace *bind.Tracefile) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newPrompt,
		HistoryFile:       ".bind-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		evalLine(l.Stdout(), ctx, line, trace)
	}
}

func evalLine(out io.Writer, ctx *bind.Context, line string, trace *bind.Tracefile) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(out, "panic:", r, string(debug.Stack()))
		}
	}()

	var value bind.Object
	run := func() {
		value = bind.Parse(ctx, line)
		if value.IsCallable() {
			value = value.Callable().Call(nil)
		}
	}
	if trace != nil {
		trace.Duration(line, "eval", run)
	} else {
		run()
	}
	fmt.Fprintln(out, resultPrompt+value.DebugString())
}
