// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

// Command recall is the CLI for the recursive research agent.
//
// Usage:
//
//	recall query "what happened to silicon valley bank" --config recall.yaml
//	recall serve --config recall.yaml --port 8080
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// CLI defines the command-line interface.
type CLI struct {
	Query QueryCmd `cmd:"" help:"Run a single research query and print the result."`
	Serve ServeCmd `cmd:"" help:"Start the HTTP API server."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)."`
	LogFormat string `help:"Log format (text or json)."`
}

func main() {
	cli := CLI{}
	kctx := kong.Parse(&cli,
		kong.Name("recall"),
		kong.Description("recall - recursive research agent"),
		kong.UsageOnError(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	err := kctx.Run(ctx, &cli)
	kctx.FatalIfErrorf(err)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
