// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
	"cloudeng.io/errors"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/b-riemann/rfg"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/crypto/ssh/terminal"
)

type compressFlags struct {
	ProgressBar bool   `subcmd:"progress,true,display a progress bar"`
	OutputFile  string `subcmd:"output,,'output file or s3 path, omit for stdout'"`
	XMLEnd      int    `subcmd:"xml-end,-1,'byte value for the closing-tag control character; must be set together with --upper; -1 for both picks the smallest unused symbol'"`
	Upper       int    `subcmd:"upper,-1,'byte value for the capitalization control character; must be set together with --xml-end; -1 for both picks the next unused symbol'"`
}

type decompressFlags struct {
	ProgressBar bool   `subcmd:"progress,true,display a progress bar"`
	OutputFile  string `subcmd:"output,,'output file or s3 path, omit for stdout'"`
}

type noFlags struct{}

var cmdSet *subcmd.CommandSet

func init() {
	compressCmd := subcmd.NewCommand("compress",
		subcmd.MustRegisterFlagStruct(&compressFlags{}, nil, nil),
		compress, subcmd.ExactlyNumArguments(1))
	compressCmd.Document(`compress a file with the rotund rank transform. Files may be local, on S3 or a URL.`)

	decompressCmd := subcmd.NewCommand("decompress",
		subcmd.MustRegisterFlagStruct(&decompressFlags{}, nil, nil),
		decompress, subcmd.ExactlyNumArguments(1))
	decompressCmd.Document(`decompress an rfg archive.`)

	inspectCmd := subcmd.NewCommand("inspect",
		subcmd.MustRegisterFlagStruct(&noFlags{}, nil, nil),
		inspect, subcmd.AtLeastNArguments(1))
	inspectCmd.Document(`print the header, coding tree and symbol statistics of rfg archives.`)

	cmdSet = subcmd.NewCommandSet(compressCmd, decompressCmd, inspectCmd)
	cmdSet.Document(`compress, decompress and inspect rfg archives. Files may be local, on S3 or a URL.`)

	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

func progressBar(ctx context.Context, progressBarWr io.Writer, ch chan rfg.Progress) {
	// The total is only known once the preprocessor has run, so the bar
	// is created from the first update.
	var bar *progressbar.ProgressBar
	last := 0
	for {
		select {
		case p, ok := <-ch:
			if !ok {
				if bar != nil {
					fmt.Fprintf(progressBarWr, "\n")
				}
				return
			}
			if bar == nil {
				bar = progressbar.NewOptions64(int64(p.Total),
					progressbar.OptionSetBytes64(int64(p.Total)),
					progressbar.OptionSetWriter(progressBarWr),
					progressbar.OptionSetPredictTime(true))
				bar.RenderBlank()
			}
			bar.Add(p.Done - last)
			last = p.Done
		case <-ctx.Done():
			return
		}
	}
}

func openFileOrURL(ctx context.Context, name string) (io.Reader, int64, func(context.Context) error, error) {
	if strings.HasPrefix(name, "http") {
		resp, err := http.Get(name)
		if err != nil {
			return nil, 0, nil, err
		}
		return resp.Body,
			resp.ContentLength,
			func(context.Context) error {
				resp.Body.Close()
				return nil
			},
			err
	}
	info, err := file.Stat(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	file, err := file.Open(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	return file.Reader(ctx), info.Size(), file.Close, nil
}

func createFile(ctx context.Context, name string) (io.Writer, func(context.Context) error, error) {
	if len(name) == 0 {
		return os.Stdout,
			func(context.Context) error {
				return nil
			},
			nil
	}
	file, err := file.Create(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	return file.Writer(ctx), file.Close, nil
}

func main() {
	cmdSet.MustDispatch(context.Background())
}

// run reads the whole input, applies transform and writes the result,
// rendering progress updates if requested. The rotund stages operate on
// fully materialized buffers, hence no streaming.
func run(ctx context.Context, input, output string, wantBar bool,
	transform func(context.Context, []byte, ...rfg.Option) ([]byte, error),
	opts ...rfg.Option) error {

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cmdutil.HandleSignals(cancel, os.Interrupt)

	rd, _, readerCleanup, err := openFileOrURL(ctx, input)
	if err != nil {
		return err
	}
	defer readerCleanup(ctx)

	data, err := io.ReadAll(rd)
	if err != nil {
		return err
	}

	isTTY := terminal.IsTerminal(int(os.Stdout.Fd()))
	var (
		progressBarWg sync.WaitGroup
		progressBarCh chan rfg.Progress
	)
	if wantBar && (len(output) > 0 || !isTTY) {
		progressBarCh = make(chan rfg.Progress, 64)
		opts = append(opts, rfg.SendUpdates(progressBarCh))
		progressBarWr := os.Stdout
		if !isTTY {
			progressBarWr = os.Stderr
		}
		progressBarWg.Add(1)
		go func() {
			progressBar(ctx, progressBarWr, progressBarCh)
			progressBarWg.Done()
		}()
	}

	transformed, err := transform(ctx, data, opts...)
	if progressBarCh != nil {
		close(progressBarCh)
		progressBarWg.Wait()
	}
	if err != nil {
		return err
	}

	wr, writerCleanup, err := createFile(ctx, output)
	if err != nil {
		return err
	}
	errs := &errors.M{}
	_, err = wr.Write(transformed)
	errs.Append(err)
	errs.Append(writerCleanup(ctx))
	return errs.Err()
}

func compress(ctx context.Context, values interface{}, args []string) error {
	cl := values.(*compressFlags)
	var opts []rfg.Option
	if cl.XMLEnd >= 0 || cl.Upper >= 0 {
		if cl.XMLEnd < 0 || cl.XMLEnd > 255 || cl.Upper < 0 || cl.Upper > 255 {
			return fmt.Errorf("control characters must both be byte values: xml-end %v, upper %v", cl.XMLEnd, cl.Upper)
		}
		opts = append(opts, rfg.WithControlChars(rfg.ControlChars{
			XMLEnd: byte(cl.XMLEnd),
			Upper:  byte(cl.Upper),
		}))
	}
	return run(ctx, args[0], cl.OutputFile, cl.ProgressBar, rfg.Compress, opts...)
}

func decompress(ctx context.Context, values interface{}, args []string) error {
	cl := values.(*decompressFlags)
	return run(ctx, args[0], cl.OutputFile, cl.ProgressBar, rfg.Decompress)
}
