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
	"log"
	"sync"

	"github.com/google/uuid"
)

// Diagnostic is one parse or evaluate warning collected during a
// Session, independent of process-wide log output.
type Diagnostic struct {
	Message string
	Source  string
}

// Session accumulates diagnostics for one compile/evaluate unit of
// work (typically one document or one devtools connection) and mirrors
// every diagnostic to the standard logger, the same two-tier behavior
// scm/session.go's mutex-guarded map gives the teacher's SQL sessions
// plus the teacher's own bare `log.Printf` calls elsewhere.
type Session struct {
	ID uuid.UUID

	mu          sync.Mutex
	diagnostics []Diagnostic
}

func NewSession() *Session {
	return &Session{ID: uuid.New()}
}

// Logf records a diagnostic attributed to source (e.g. a file name or
// "${...}" literal) and writes it to the process log.
func (s *Session) Logf(source, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.mu.Lock()
	s.diagnostics = append(s.diagnostics, Diagnostic{Message: msg, Source: source})
	s.mu.Unlock()
	log.Printf("bind[%s]: %s: %s", s.ID, source, msg)
}

// Diagnostics returns a snapshot of every diagnostic recorded so far.
func (s *Session) Diagnostics() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Diagnostic(nil), s.diagnostics...)
}
