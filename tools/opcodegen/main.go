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

// opcodegen regenerates bind/opcode_string.go's Opcode.String() method
// from the `Opcode` iota block declared in bind/opcode.go, the same way
// the teacher's tools/jitgen walks Go source with golang.org/x/tools
// rather than hand-editing generated code.
//
// Usage:
//
//	go run ./tools/opcodegen -type Opcode -output bind/opcode_string.go
package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"os"

	"golang.org/x/tools/go/packages"
)

func main() {
	var typeName, output string
	for i := 1; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "-type":
			i++
			typeName = os.Args[i]
		case "-output":
			i++
			output = os.Args[i]
		}
	}
	if typeName == "" || output == "" {
		fmt.Fprintln(os.Stderr, "usage: opcodegen -type Opcode -output bind/opcode_string.go")
		os.Exit(1)
	}

	cfg := &packages.Config{Mode: packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo}
	pkgs, err := packages.Load(cfg, "github.com/bindcore/exprengine/bind")
	if err != nil {
		fmt.Fprintln(os.Stderr, "opcodegen:", err)
		os.Exit(1)
	}

	var names []string
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				spec, ok := n.(*ast.ValueSpec)
				if !ok || len(spec.Names) == 0 {
					return true
				}
				tv, ok := pkg.TypesInfo.Types[spec.Names[0]]
				if !ok || tv.Type == nil || tv.Type.String() != "github.com/bindcore/exprengine/bind."+typeName {
					return true
				}
				for _, id := range spec.Names {
					names = append(names, id.Name)
				}
				return true
			})
		}
	}
	if len(names) == 0 {
		fmt.Fprintf(os.Stderr, "opcodegen: no constants of type %s found\n", typeName)
		os.Exit(1)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by opcodegen -type %s. DO NOT EDIT.\n\n", typeName)
	fmt.Fprintln(&buf, "package bind")
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "func (i %s) String() string {\n\tswitch i {\n", typeName)
	for _, name := range names {
		fmt.Fprintf(&buf, "\tcase %s:\n\t\treturn %q\n", name, trimPrefix(name, typeName))
	}
	fmt.Fprintln(&buf, "\tdefault:")
	fmt.Fprintf(&buf, "\t\treturn %q\n\t}\n}\n", "unknown "+typeName)

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		fmt.Fprintln(os.Stderr, "opcodegen: gofmt:", err)
		os.Exit(1)
	}
	if err := os.WriteFile(output, formatted, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "opcodegen:", err)
		os.Exit(1)
	}
}

func trimPrefix(name, typePrefix string) string {
	prefix := "Op"
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return name
}
