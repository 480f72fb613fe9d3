// Package cli provides the command-line interface for pylv.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// exitCode is set by the view command when a non-fatal-at-startup failure
// (an I/O error mid-stream) should still produce a non-zero exit.
var exitCode = 0

// Execute runs the root command and returns the process exit code:
// 0 on normal completion or clean interrupt, 1 on an I/O failure while
// streaming, 2 on selection or configuration errors.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return exitCode
}

// ViewOptions holds the command-line options for the viewer.
type ViewOptions struct {
	Follow      bool
	List        bool
	Level       string
	Gap         time.Duration
	IdleTimeout time.Duration
	Backlog     int
	RunDir      string
	ConfigPath  string
	NoColor     bool
	NoPager     bool

	// out overrides the destination for rendered text (tests only).
	out io.Writer
}

// NewRootCommand creates the root cobra command. The root command is the
// viewer itself; the only subcommand is version.
func NewRootCommand() *cobra.Command {
	opts := &ViewOptions{}

	cmd := &cobra.Command{
		Use:   "pylv [path | token...]",
		Short: "Pretty-print NSO python-VM logs",
		Long: `pylv reformats NSO python-VM log output into aligned, colorized,
human-readable text. Multi-line messages are grouped into single records and
timestamps are converted from UTC to local time.

The input is either an explicit log file path, one or more substring tokens
matched against the files in $NSO_RUN_DIR/logs/ncs-python-vm-*, or a log
piped on stdin.

Examples:
  pylv device-manager            # batch: view the matching log in a pager
  pylv -f svc upgrade            # follow: tail the log matching both tokens
  pylv /var/log/ncs-python-vm-x.log
  cat some.log | pylv

Exit codes:
  0 - Normal completion or clean interrupt
  1 - I/O failure while reading the log
  2 - Selection or configuration error`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Follow, "follow", "f", false, "Tail the log continuously instead of paging it")
	cmd.Flags().BoolVar(&opts.List, "list", false, "List matching log files instead of viewing one")
	cmd.Flags().StringVarP(&opts.Level, "level", "l", "", "Hide records below this severity (trace|debug|info|warn|error)")
	cmd.Flags().DurationVar(&opts.Gap, "gap", 0, "Time-gap separator threshold (default 30s)")
	cmd.Flags().DurationVar(&opts.IdleTimeout, "idle-timeout", 0, "Follow-mode silence after which a multi-line message is considered complete (default 200ms)")
	cmd.Flags().IntVar(&opts.Backlog, "backlog", 100, "Trailing lines shown when follow mode starts")
	cmd.Flags().StringVar(&opts.RunDir, "run-dir", "", "NSO run directory (default $NSO_RUN_DIR)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (default $PYLV_CONFIG, then ~/.pylv.yaml)")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable colorized output")
	cmd.Flags().BoolVar(&opts.NoPager, "no-pager", false, "Write batch output directly instead of paging")

	cmd.AddCommand(NewVersionCommand())

	return cmd
}
