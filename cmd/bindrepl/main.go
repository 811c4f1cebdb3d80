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

// Command bindrepl wires the expression core and its devtools inspector
// together, mirroring the teacher's own thin root main.go + scm.Repl
// pairing.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/dc0d/onexit"

	"github.com/bindcore/exprengine/bind"
	"github.com/bindcore/exprengine/bind/inspector"
)

func main() {
	tracePort := flag.String("trace-addr", "", "if set, serve the websocket trace stream on this address (e.g. :8089)")
	traceFilePath := flag.String("trace-file", "", "if set, write a Chrome-trace-format JSON file of every compile/eval")
	flag.Parse()

	ctx := bind.NewRootContext(bind.ViewportMetrics{WidthPixels: 1920, HeightPixels: 1080})
	bind.RegisterBuiltins(ctx)
	bind.RegisterStringBuiltins(ctx)

	trace := inspector.NewTraceServer()
	ctx.WithInvalidator(trace)

	onexit.Register(func() {
		ctx.Release()
	})

	if *tracePort != "" {
		mux := http.NewServeMux()
		mux.Handle("/trace", trace)
		server := &http.Server{Addr: *tracePort, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Println("bindrepl: trace server:", err)
			}
		}()
		onexit.Register(func() { server.Close() })
		log.Println("bindrepl: trace stream on ws://" + *tracePort + "/trace")
	}

	var tracefile *bind.Tracefile
	if *traceFilePath != "" {
		f, err := os.Create(*traceFilePath)
		if err != nil {
			log.Println("bindrepl: trace file:", err)
		} else {
			tracefile = bind.NewTracefile(f)
			onexit.Register(func() { tracefile.Close() })
			log.Println("bindrepl: writing trace events to " + *traceFilePath)
		}
	}

	if err := inspector.REPL(ctx, tracefile); err != nil {
		log.Println("bindrepl:", err)
		os.Exit(1)
	}
}
