package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// version is stamped on exported spans.
var version = "dev"

func main() {
	// Minimal logger until the configured one replaces it.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command line in args, writing command output to outW.
func run(outW io.Writer, args []string) error {
	root := newRootCmd(outW)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}
