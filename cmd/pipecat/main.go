// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command pipecat copies standard input to standard output through one
// device of a pipe registry, then reports the device state.
//
//	pipecat -buffer 64 -dev 1 -stats < in > out
//
// PIPE_DEVICES, PIPE_BUFFER and PIPE_MEMORY_LIMIT override the defaults;
// flags override the environment.
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"code.hybscloud.com/pipe"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
)

const (
	colorHeader = "\x1b[1;36m"
	colorReset  = "\x1b[0m"
)

func main() {
	cfg := pipe.DefaultConfig()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		fatalError("environment: %s", err)
	}

	var (
		dev     int
		chunk   int
		stats   bool
		verbose bool
		colors  = isatty.IsTerminal(os.Stderr.Fd())
	)
	flag.IntVar(&cfg.Devices, "devices", cfg.Devices, "number of pipe devices")
	flag.IntVar(&cfg.BufferSize, "buffer", cfg.BufferSize, "ring capacity per device in bytes")
	flag.IntVar(&cfg.MemoryLimit, "memlimit", cfg.MemoryLimit, "total ring memory limit in bytes (0 = unlimited)")
	flag.IntVar(&dev, "dev", 0, "device index to copy through")
	flag.IntVar(&chunk, "chunk", 512, "read size in bytes")
	flag.BoolVar(&stats, "stats", false, "dump device state to stderr when done")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.BoolFunc("colors", "force colored dump", func(string) error { colors = true; return nil })
	flag.BoolFunc("nocolors", "disable colored dump", func(string) error { colors = false; return nil })
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	reg, err := pipe.NewRegistry(cfg, pipe.WithLogger(logger))
	if err != nil {
		fatalError("registry: %s", err)
	}
	p, err := reg.Device(dev)
	if err != nil {
		fatalError("%s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := pipe.NewMailbox(64)
	copyErr := copyThrough(ctx, p, os.Stdin, os.Stdout, chunk, events)

	if stats {
		var stderr io.Writer = os.Stderr
		if colors {
			stderr = colorable.NewColorableStderr()
		}
		if err := dumpRegistry(stderr, reg, colors); err != nil {
			logger.Error("dump failed", "err", err)
		}
		logger.Info("notifications", "received", drain(events), "dropped", events.Dropped())
	}
	if err := reg.Close(); err != nil {
		logger.Error("close", "err", err)
	}
	if copyErr != nil && !errors.Is(copyErr, context.Canceled) {
		fatalError("%s", copyErr)
	}
}

// copyThrough pumps src into a write handle and a read handle into dst,
// concurrently. When src is exhausted the reader is interrupted and
// drains what is left without blocking.
func copyThrough(ctx context.Context, p *pipe.Pipe, src io.Reader, dst io.Writer, chunk int, events pipe.Target) error {
	w, err := p.Open(pipe.ModeWrite, true)
	if err != nil {
		return err
	}
	defer w.Close()
	r, err := p.Open(pipe.ModeRead, true)
	if err != nil {
		return err
	}
	defer r.Close()
	if _, err := r.Subscribe(events); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	rctx, writerDone := context.WithCancel(gctx)
	defer writerDone()

	g.Go(func() error {
		defer writerDone()
		buf := make([]byte, chunk)
		for {
			n, rerr := src.Read(buf)
			for off := 0; off < n; {
				m, err := w.WriteContext(gctx, buf[off:n])
				if err != nil {
					return err
				}
				off += m
			}
			if rerr == io.EOF {
				return nil
			}
			if rerr != nil {
				return rerr
			}
		}
	})

	g.Go(func() error {
		out := bufio.NewWriter(dst)
		defer out.Flush()
		buf := make([]byte, chunk)
		for {
			n, err := r.ReadContext(rctx, buf)
			if err == nil {
				if _, werr := out.Write(buf[:n]); werr != nil {
					return werr
				}
				continue
			}
			if !pipe.IsInterrupted(err) || gctx.Err() != nil {
				return err
			}
			// Writer finished: drain the rest without waiting.
			if err := r.SetBlocking(false); err != nil {
				return err
			}
			for {
				n, err := r.Read(buf)
				if pipe.IsWouldBlock(err) {
					return nil
				}
				if err != nil {
					return err
				}
				if _, werr := out.Write(buf[:n]); werr != nil {
					return werr
				}
			}
		}
	})
	return g.Wait()
}

func dumpRegistry(w io.Writer, reg *pipe.Registry, colors bool) error {
	var buf bytes.Buffer
	if err := reg.Dump(&buf); err != nil {
		return err
	}
	if !colors {
		_, err := buf.WriteTo(w)
		return err
	}
	for _, line := range strings.SplitAfter(buf.String(), "\n") {
		if strings.HasPrefix(line, "Device ") {
			line = colorHeader + strings.TrimSuffix(line, "\n") + colorReset + "\n"
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

func drain(m *pipe.Mailbox) int {
	n := 0
	for {
		if _, err := m.Recv(); err != nil {
			return n
		}
		n++
	}
}

func fatalError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "pipecat: "+format+"\n", args...)
	os.Exit(1)
}
