// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

//go:build ignore

// Generate a deterministic wiki-style corpus and its archive under
// testdata/, for benchmarking and for inspecting realistic rank
// streams:
//
//	go run gentestdata.go -size 100000
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/b-riemann/rfg"
)

var (
	sizeFlag = flag.Int("size", 100000, "approximate corpus size in bytes")
	dirFlag  = flag.String("dir", "testdata", "output directory")
)

var words = strings.Fields(`the of and a to in is was he for it with as his on be
at by i this had not are but from or have an they which one you were her all she
there would their we him been has when who will more no if out so said what up its
about into than them can only other new some could time these two may then do first
any my now such like our over man me even most made after also did many before must
through back years where much your way well down should because each just those
people mr how too little state good very make world still own see men work long get
here between both life being under never day same another know while last might us
great old year off come since against go came right used take three`)

func sentence(src *rand.Rand) string {
	n := 5 + src.Intn(12)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[src.Intn(len(words))]
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func main() {
	flag.Parse()
	src := rand.New(rand.NewSource(42))

	out := &strings.Builder{}
	out.WriteString("<mediawiki>")
	for page := 0; out.Len() < *sizeFlag; page++ {
		fmt.Fprintf(out, "<page><title>Article %d</title><text>", page)
		for i := 0; i < 8; i++ {
			out.WriteString(sentence(src))
			out.WriteByte(' ')
		}
		out.WriteString("</text></page>")
	}
	out.WriteString("</mediawiki>")
	corpus := []byte(out.String())

	if err := os.MkdirAll(*dirFlag, 0o755); err != nil {
		log.Fatal(err)
	}
	corpusFile := filepath.Join(*dirFlag, "corpus.xml")
	if err := os.WriteFile(corpusFile, corpus, 0o644); err != nil {
		log.Fatal(err)
	}

	archive, err := rfg.Compress(context.Background(), corpus)
	if err != nil {
		log.Fatal(err)
	}
	archiveFile := filepath.Join(*dirFlag, "corpus.rfg")
	if err := os.WriteFile(archiveFile, archive, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%v: %v bytes\n%v: %v bytes (%.1f%%)\n",
		corpusFile, len(corpus), archiveFile, len(archive),
		100*float64(len(archive))/float64(len(corpus)))
}
