// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"cloudeng.io/cmdutil"
	"cloudeng.io/errors"
	"github.com/b-riemann/rfg"
)

func inspectFile(ctx context.Context, name string) error {
	rd, _, readerCleanup, err := openFileOrURL(ctx, name)
	if err != nil {
		return err
	}
	defer readerCleanup(ctx)

	archive, err := io.ReadAll(rd)
	if err != nil {
		return err
	}
	info, err := rfg.Stat(archive)
	if err != nil {
		return err
	}

	fmt.Printf("=== %v ===\n", name)
	fmt.Printf("control chars        : xml-end 0x%02x, upper 0x%02x\n", info.Control.XMLEnd, info.Control.Upper)
	fmt.Printf("coding tree          : %v bytes, %v leaves, depth %v\n", info.TreeBytes, info.Tree.Leaves(), info.Tree.Depth())
	fmt.Printf("rank stream          : %v bits in %v bytes\n", info.DataBits, info.DataBytes)

	symbols, err := info.Symbols(archive)
	if err != nil {
		return err
	}
	ranks := rfg.DecodeNullRuns(symbols)
	fmt.Printf("decoded              : %v symbols, %v ranks\n", len(symbols), len(ranks))
	fmt.Printf("unused rank values   : %v\n", len(rfg.UnusedSymbols(ranks)))

	printTopSymbols(symbols, 10)
	return nil
}

func printTopSymbols(symbols []uint16, n int) {
	counts := map[uint16]int{}
	for _, s := range symbols {
		counts[s]++
	}
	type entry struct {
		sym   uint16
		count int
	}
	entries := make([]entry, 0, len(counts))
	for s, c := range counts {
		entries = append(entries, entry{s, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].sym < entries[j].sym
	})
	if len(entries) < n {
		n = len(entries)
	}
	fmt.Printf("top symbols          :")
	for _, e := range entries[:n] {
		if e.sym < 256 {
			fmt.Printf(" %d:%d", e.sym, e.count)
		} else {
			fmt.Printf(" z%d:%d", int(e.sym)-255, e.count)
		}
	}
	fmt.Println()
}

func inspect(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	cmdutil.HandleSignals(cancel, os.Interrupt)
	errs := errors.M{}
	for _, arg := range args {
		errs.Append(inspectFile(ctx, arg))
	}
	return errs.Err()
}
