/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"log"
	"os"
	"text/template"

	"github.com/andreas-jonsson/petbridge/emulator/memory"
	"github.com/andreas-jonsson/petbridge/emulator/rom"
	"github.com/spf13/afero"
)

func main() {
	dir := flag.String("roms", "roms", "Directory containing the ROM images.")
	file := flag.String("out", "-", "Save the generated output to file.")
	pkg := flag.String("package", "main", "Package name of the generated output.")
	flag.Parse()

	images, err := rom.Load(afero.NewOsFs(), *dir, rom.Standard)
	if err != nil {
		log.Fatal(err)
	}

	src, err := generate(*pkg, images)
	if err != nil {
		log.Fatal(err)
	}

	if *file == "-" {
		os.Stdout.Write(src)
		return
	}
	if err := afero.WriteFile(afero.NewOsFs(), *file, src, 0644); err != nil {
		log.Fatal(err)
	}
	log.Printf("Generated %s with %d images", *file, len(images))
}

func generate(pkg string, images []rom.Image) ([]byte, error) {
	tmpl := template.Must(template.New("roms").Funcs(template.FuncMap{"bytes": byteList, "hex": hexAddress}).Parse(content))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]interface{}{"pkg": pkg, "images": images}); err != nil {
		return nil, err
	}
	return format.Source(buf.Bytes())
}

func hexAddress(a memory.Address) string {
	return fmt.Sprintf("0x%04X", uint16(a))
}

func byteList(data []byte) string {
	var buf bytes.Buffer
	for i, b := range data {
		if i%16 == 0 {
			buf.WriteString("\n\t\t\t")
		}
		fmt.Fprintf(&buf, "0x%02X, ", b)
	}
	return buf.String()
}

var content = `// Code generated by romgen. DO NOT EDIT.

//go:build tinygo
// +build tinygo

package {{.pkg}}

import "github.com/andreas-jonsson/petbridge/emulator/rom"

func init() {
	images = []rom.Image{
{{- range .images}}
		{
			Name: {{printf "%q" .Name}},
			Base: {{hex .Base}},
			Data: []byte{ {{- bytes .Data}}
			},
		},
{{- end}}
	}
}
`
