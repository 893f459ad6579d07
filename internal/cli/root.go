// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vcopy/internal/copier"
	"vcopy/pkg/progress"
)

// rootOpts holds the flags of the copy command.
type rootOpts struct {
	Quiet     bool
	ChunkSize string
	Interval  time.Duration
	Width     int
	Config    string
}

// Execute runs the CLI with the given version string.
func Execute(version string) error {
	ctx, cancel := signalContext(context.Background())
	defer cancel()

	root := newRootCmd(ctx, version)
	if err := root.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func newRootCmd(ctx context.Context, version string) *cobra.Command {
	ro := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "vcopy SOURCE... DEST",
		Short: "Copy files with a live transfer-rate display",
		Long: `vcopy copies one or more files (or standard input, given "-") to a
destination, showing throughput, ETA and a progress bar on stderr. The
display adapts to the terminal width and disappears entirely when stderr
is not a terminal.`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfigDefaults(cmd, ro)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := args[:len(args)-1]
			dest := args[len(args)-1]

			chunk, err := copier.ParseSize(ro.ChunkSize)
			if err != nil {
				return fmt.Errorf("--chunk-size: %w", err)
			}

			opts := copier.Options{
				ChunkSize: chunk,
				Interval:  ro.Interval,
			}
			if !ro.Quiet {
				switch {
				case ro.Width > 0:
					// A forced width also forces the display on, useful
					// when stderr is redirected but progress is wanted.
					opts.Display = os.Stderr
					w := ro.Width
					opts.Width = func() int { return w }
				case term.IsTerminal(int(os.Stderr.Fd())):
					opts.Display = os.Stderr
					opts.Width = stderrWidth
				}
			}

			return copier.Copy(ctx, sources, dest, opts)
		},
	}

	cmd.Flags().BoolVarP(&ro.Quiet, "quiet", "q", false, "Suppress the progress display")
	cmd.Flags().StringVar(&ro.ChunkSize, "chunk-size", "128KiB", "Read/write chunk size (e.g. 64KiB, 1MiB)")
	cmd.Flags().DurationVar(&ro.Interval, "interval", copier.DefaultInterval, "Sampling and redraw cadence")
	cmd.Flags().IntVar(&ro.Width, "width", 0, "Force the display width (0 = detect from terminal)")
	cmd.Flags().StringVar(&ro.Config, "config", "", "Path to config file (JSON or YAML)")

	cmd.AddCommand(newVersionCmd(version))
	cmd.AddCommand(newConfigCmd())
	cmd.SetHelpCommand(&cobra.Command{Use: "help", Hidden: true})

	return cmd
}

// stderrWidth queries the terminal backing stderr, falling back to the
// default when the size cannot be determined.
func stderrWidth() int {
	w, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || w <= 0 {
		return progress.DefaultTermWidth
	}
	return w
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
