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
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Tracefile writes Chrome-trace-format JSON events for compile/eval
// activity, ported from the teacher's scm/trace.go. bind/inspector's
// TraceServer is a separate sink: it pushes its own compile/eval/dirty
// events over a websocket and does not read these.
type Tracefile struct {
	isFirst bool
	file    io.WriteCloser
	mu      sync.Mutex
}

var traceStart = time.Now()

func NewTracefile(file io.WriteCloser) *Tracefile {
	file.Write([]byte("["))
	return &Tracefile{file: file, isFirst: true}
}

func (t *Tracefile) Close() {
	t.file.Write([]byte("]"))
	t.file.Close()
}

// Duration wraps f with a begin/end event pair named name, categorized
// under cat ("parse", "eval", "optimize").
func (t *Tracefile) Duration(name, cat string, f func()) {
	t.event(name, cat, "B")
	defer t.event(name, cat, "E")
	f()
}

func (t *Tracefile) event(name, cat, typ string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isFirst {
		t.isFirst = false
	} else {
		t.file.Write([]byte(",\n"))
	}
	b, _ := json.Marshal(struct {
		Name string `json:"name"`
		Cat  string `json:"cat"`
		Ph   string `json:"ph"`
		TS   int64  `json:"ts"`
		PID  int    `json:"pid"`
		TID  int    `json:"tid"`
	}{
		Name: name,
		Cat:  cat,
		Ph:   typ,
		TS:   time.Since(traceStart).Microseconds(),
	})
	t.file.Write(b)
}
