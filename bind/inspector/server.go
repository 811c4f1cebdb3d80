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

package inspector

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/bindcore/exprengine/bind"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type traceEvent struct {
	Type string `json:"type"` // compile | eval | dirty
	Name string `json:"name"`
}

// TraceServer accepts websocket connections and fans compile/eval/dirty
// events out to every connected devtools client, grounded on the
// teacher's own gorilla/websocket wiring in scm/network.go's
// HTTPServe/HttpServer pair.
type TraceServer struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	nextSub atomic.Uint64
}

func NewTraceServer() *TraceServer {
	return &TraceServer{clients: make(map[*websocket.Conn]struct{})}
}

func (s *TraceServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *TraceServer) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *TraceServer) broadcast(ev traceEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if conn.WriteMessage(websocket.TextMessage, b) != nil {
			go s.drop(conn)
		}
	}
}

// Compile and Eval let a host fire devtools events around parse and
// evaluate calls without this package needing to wrap bind.Parse/Eval
// itself.
func (s *TraceServer) Compile(name string) { s.broadcast(traceEvent{Type: "compile", Name: name}) }
func (s *TraceServer) Eval(name string)    { s.broadcast(traceEvent{Type: "eval", Name: name}) }

// TraceServer also implements bind.Invalidator so a host can wire it
// straight into Context.WithInvalidator and get "dirty" events for free,
// without maintaining a separate dependency index of its own; the
// inspector only observes traffic; it does not drive re-evaluation.
func (s *TraceServer) Subscribe(code *bind.Bytecode, paths []string) bind.SubscriptionID {
	return bind.SubscriptionID(s.nextSub.Add(1))
}

func (s *TraceServer) MarkDirty(ctx *bind.Context, path string) {
	s.broadcast(traceEvent{Type: "dirty", Name: path})
}

func (s *TraceServer) Unsubscribe(id bind.SubscriptionID) {}
