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
	"bytes"
	"encoding/json"
	"testing"
)

type traceTestBuffer struct{ *bytes.Buffer }

func (traceTestBuffer) Close() error { return nil }

func TestTracefileDurationWritesBeginAndEndEvents(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTracefile(traceTestBuffer{&buf})

	ran := false
	tf.Duration("compile x", "compile", func() { ran = true })
	tf.Close()

	if !ran {
		t.Fatal("Duration did not invoke f")
	}

	var events []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &events); err != nil {
		t.Fatalf("trace output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (begin+end)", len(events))
	}
	if events[0]["ph"] != "B" || events[1]["ph"] != "E" {
		t.Errorf("events = %+v, want [B, E]", events)
	}
	for _, e := range events {
		if e["name"] != "compile x" || e["cat"] != "compile" {
			t.Errorf("event = %+v, want name=%q cat=%q", e, "compile x", "compile")
		}
	}
}

func TestTracefileMultipleDurationsAreCommaSeparated(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTracefile(traceTestBuffer{&buf})

	tf.Duration("a", "eval", func() {})
	tf.Duration("b", "eval", func() {})
	tf.Close()

	var events []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &events); err != nil {
		t.Fatalf("trace output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	names := []any{events[0]["name"], events[2]["name"]}
	if names[0] != "a" || names[1] != "b" {
		t.Errorf("event names = %+v, want [a, b] for first event of each pair", names)
	}
}
