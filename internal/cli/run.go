package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mkarlsen/pylv/pkg/config"
	"github.com/mkarlsen/pylv/pkg/format"
	"github.com/mkarlsen/pylv/pkg/record"
	"github.com/mkarlsen/pylv/pkg/selector"
	"github.com/mkarlsen/pylv/pkg/stream"
	"github.com/mkarlsen/pylv/pkg/tail"
)

// runView is the root command body: resolve the input, wire the pipeline,
// and run it until the stream ends or the user interrupts.
func runView(cmd *cobra.Command, args []string, opts *ViewOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	mergeFlags(cmd, opts, cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if opts.List {
		return listCandidates(cmd.OutOrStdout(), cfg.RunDir, args)
	}

	src, batch, err := resolveSource(args, opts, cfg)
	if err != nil {
		return err
	}

	// Output destination: batch output on a terminal goes through the pager.
	out := opts.out
	var pager *format.Pager
	if out == nil {
		out = os.Stdout
		if batch && !cfg.NoPager && isatty.IsTerminal(os.Stdout.Fd()) {
			pager, err = format.StartPager()
			if err != nil {
				return err
			}
			out = pager
		}
	}

	err = runPipeline(ctx, src, out, batch, cfg)

	if pager != nil {
		if cerr := pager.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("pager: %w", cerr)
		}
	}
	return err
}

// runPipeline connects a line source to the record loop and formatter.
func runPipeline(ctx context.Context, src tail.Source, out io.Writer, batch bool, cfg *config.Config) error {
	layout := format.FollowLayout()
	if batch {
		layout = format.BatchLayout()
	}

	color := !cfg.NoColor && isatty.IsTerminal(os.Stdout.Fd())
	formatter := format.NewFormatter(out, layout,
		format.WithColor(color),
		format.WithGap(format.NewGapTracker(cfg.GapThreshold.Std(), nil)),
		format.WithDiag(func(f string, args ...any) {
			fmt.Fprintf(os.Stderr, "pylv: "+f+"\n", args...)
		}),
	)

	loopOpts := stream.Options{
		Follow:      !batch,
		IdleTimeout: cfg.IdleTimeout.Std(),
		Keep:        severityFilter(cfg.MinLevel),
		OnAnomaly: func(l record.RawLine) {
			fmt.Fprintf(os.Stderr, "pylv: skipping unrecognized line %d: %s\n", l.Num, l.Text)
		},
	}
	loop := stream.New(loopOpts, formatter.Render)

	// A derived context lets a render failure (pager closed early) unblock
	// the source goroutine.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan record.RawLine, 256)
	errCh := make(chan error, 1)
	go func() {
		errCh <- src.Run(runCtx, lines)
		close(lines)
	}()

	renderErr := loop.Run(runCtx, lines)
	cancel()
	srcErr := <-errCh

	if renderErr != nil {
		if errors.Is(renderErr, syscall.EPIPE) {
			return nil // the user quit the pager
		}
		return fmt.Errorf("rendering: %w", renderErr)
	}
	if srcErr != nil && !errors.Is(srcErr, context.Canceled) {
		// The pending record was already flushed by the loop; report the
		// read failure and exit non-zero without a startup-style error.
		fmt.Fprintf(os.Stderr, "pylv: %v\n", srcErr)
		exitCode = 1
	}
	return nil
}

// loadConfig loads the config file selected by flags or environment.
func loadConfig(opts *ViewOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	return config.LoadDefault()
}

// mergeFlags folds explicitly set command-line flags into the config.
// Flags win over the config file, which wins over built-in defaults.
func mergeFlags(cmd *cobra.Command, opts *ViewOptions, cfg *config.Config) {
	if cmd.Flags().Changed("run-dir") {
		cfg.RunDir = opts.RunDir
	}
	if cmd.Flags().Changed("gap") {
		cfg.GapThreshold = config.Duration(opts.Gap)
	}
	if cmd.Flags().Changed("idle-timeout") {
		cfg.IdleTimeout = config.Duration(opts.IdleTimeout)
	}
	if cmd.Flags().Changed("backlog") {
		cfg.Backlog = opts.Backlog
	}
	if cmd.Flags().Changed("level") {
		cfg.MinLevel = opts.Level
	}
	if opts.NoColor {
		cfg.NoColor = true
	}
	if opts.NoPager {
		cfg.NoPager = true
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = config.Duration(config.DefaultIdleTimeout)
	}
	if cfg.GapThreshold <= 0 {
		cfg.GapThreshold = config.Duration(config.DefaultGapThreshold)
	}
}

// resolveSource maps the positional arguments to a line source.
// An argument naming an existing file is used directly; otherwise the
// arguments are substring tokens for the selector. With no arguments, a
// non-terminal stdin is read in batch mode.
func resolveSource(args []string, opts *ViewOptions, cfg *config.Config) (tail.Source, bool, error) {
	var path string

	switch {
	case len(args) == 1 && isFile(args[0]):
		path = args[0]

	case len(args) > 0:
		runDir, err := requireRunDir(cfg)
		if err != nil {
			return nil, false, err
		}
		path, err = selector.Resolve(runDir, args)
		if err != nil {
			return nil, false, err
		}

	case !isatty.IsTerminal(os.Stdin.Fd()):
		if opts.Follow {
			return nil, false, errors.New("--follow requires a log file, not stdin")
		}
		return tail.NewBatchSource(os.Stdin, "stdin"), true, nil

	default:
		return nil, false, errors.New("no input: give a log file path or substring tokens, or pipe a log on stdin")
	}

	if opts.Follow {
		return tail.NewFollowSource(path, cfg.Backlog), false, nil
	}

	f, err := os.Open(path) // #nosec G304 -- user-selected log path is expected
	if err != nil {
		return nil, false, fmt.Errorf("opening %s: %w", path, err)
	}
	return tail.NewBatchSource(f, path), true, nil
}

// listCandidates prints the log files matching the tokens, one per line.
func listCandidates(w io.Writer, runDirCfg string, tokens []string) error {
	runDir, err := requireRunDir(&config.Config{RunDir: runDirCfg})
	if err != nil {
		return err
	}
	candidates, err := selector.Candidates(runDir, tokens)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("%w: %v", selector.ErrNoMatch, tokens)
	}
	for _, c := range candidates {
		fmt.Fprintln(w, filepath.Base(c))
	}
	return nil
}

func requireRunDir(cfg *config.Config) (string, error) {
	if cfg.RunDir != "" {
		return cfg.RunDir, nil
	}
	return "", fmt.Errorf("NSO run directory unknown: set $%s, run_dir in the config file, or --run-dir", config.EnvRunDir)
}

// severityFilter builds the optional record predicate for --level.
// Config validation guarantees the level parses.
func severityFilter(level string) func(*record.Record) bool {
	if level == "" {
		return nil
	}
	minSev, ok := record.ParseSeverity(level)
	if !ok {
		return nil
	}
	return func(r *record.Record) bool {
		return r.Header.Severity >= minSev
	}
}

// isFile reports whether path names an existing regular file.
func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
