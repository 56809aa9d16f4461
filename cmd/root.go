// Package cmd contains all CLI commands for the gy binary.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cmdconfig "github.com/klytics/gy/cmd/config"
	"github.com/klytics/gy/cmd/completion"
	"github.com/klytics/gy/cmd/inspect"
	"github.com/klytics/gy/cmd/months"
	"github.com/klytics/gy/cmd/version"
	"github.com/klytics/gy/internal/config"
	"github.com/klytics/gy/internal/formats/xlsx"
	"github.com/klytics/gy/internal/output"
	"github.com/klytics/gy/internal/prompt"
	"github.com/klytics/gy/internal/reconcile"
	"github.com/klytics/gy/internal/runner"
)

// options holds the root command flags.
type options struct {
	month      string
	mode       string
	output     string
	jsonOutput bool
	verbose    bool
	noColor    bool
}

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "gy [from.xlsx] [to.xlsx]",
		Short: "Fill monthly bonus and score columns into a payroll summary",
		Long: `gy reads a source workbook (sheet 1: performance scores, sheet 2: monthly
output values) and a summary workbook, matches employees by ID, and writes
the bonus and score columns of the summary's first sheet to a new file.

Missing paths and the month are asked for interactively.`,
		Args:          cobra.MaximumNArgs(2),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}
	rootCmd.SetVersionTemplate("gy {{.Version}}\n")

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable ANSI color output")

	rootCmd.Flags().StringVar(&opts.month, "month", "", "Month to fill, e.g. 3, 3月 or E:3月 (prompted when empty)")
	rootCmd.Flags().StringVar(&opts.mode, "mode", "", "Row addressing: literal | corrected (default from config)")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default from config)")

	rootCmd.RegisterFlagCompletionFunc("month", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, m := range reconcile.Months() {
			names = append(names, m.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	rootCmd.RegisterFlagCompletionFunc("mode", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(reconcile.ModeLiteral), string(reconcile.ModeCorrected)}, cobra.ShellCompDirectiveNoFileComp
	})

	// Register subcommands
	rootCmd.AddCommand(inspect.NewCommand())
	rootCmd.AddCommand(months.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if !cfg.Color {
		color.NoColor = true
	}
	if opts.mode != "" {
		cfg.Mode = opts.mode
	}
	if opts.output == "" {
		opts.output = cfg.Output
	}

	engineOpts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}

	req := runner.Request{Output: opts.output}
	if len(args) > 0 {
		req.From = args[0]
	}
	if len(args) > 1 {
		req.To = args[1]
	}
	if opts.month != "" {
		m, err := reconcile.ParseMonth(opts.month)
		if err != nil {
			return err
		}
		req.Month = &m
	}

	ask := prompt.NewLazy()
	defer ask.Close()

	log := output.NewLogger(cmd.ErrOrStderr(), opts.verbose)
	r := runner.New(reconcile.New(engineOpts), ask, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if !opts.jsonOutput {
		fmt.Fprintln(cmd.OutOrStdout(), "Start...")
	}
	res, err := r.Run(ctx, req)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		return output.PrintJSON(cmd.OutOrStdout(), "gy", res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d cells, %s, %s mode)\n", res.Output, res.Changed, res.Month, res.Mode)
	return nil
}

// userErrors are reported with a short localized line and exit code 1.
var userErrors = []error{
	xlsx.ErrInvalidFileType,
	prompt.ErrEmptyPath,
}

// badInput are caller mistakes that keep their full message but still exit 1.
var badInput = []error{
	xlsx.ErrFileNotFound,
	xlsx.ErrMissingSheet,
	reconcile.ErrInvalidMonth,
	reconcile.ErrInvalidMode,
	prompt.ErrAborted,
	context.Canceled,
}

// classify maps an error to the message shown to the user and an exit code.
func classify(err error) (string, int) {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return target.Error(), output.ExitUserError
		}
	}
	for _, target := range badInput {
		if errors.Is(err, target) {
			return err.Error(), output.ExitUserError
		}
	}
	return err.Error(), output.ExitSystemError
}

// report prints err the way the user asked for and returns the exit code.
func report(stdout, stderr io.Writer, err error, jsonOutput bool) int {
	msg, code := classify(err)
	if jsonOutput {
		output.PrintJSONError(stdout, "gy", err, code)
		return code
	}
	if code == output.ExitUserError {
		output.NewLogger(stderr, false).Errorf("%s", msg)
		return code
	}
	fmt.Fprintf(stderr, "Error: %s\n", msg)
	return code
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		jsonFlag, _ := rootCmd.PersistentFlags().GetBool("json")
		os.Exit(report(os.Stdout, os.Stderr, err, jsonFlag))
	}
}
