package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexshd/coinbound"
)

type selfTestOptions struct {
	File        string
	Concurrency int
}

// NewSelfTestCommand creates the selftest command.
func NewSelfTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &selfTestOptions{}

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Check the bound against reference scenarios",
		Long: `Evaluate the reference scenarios, or those in a YAML file, and report
pass/fail per scenario followed by a summary line.

Exits 0 when every scenario passes and 1 otherwise.

Scenario file format:

  scenarios:
    - name: twelve-coins-unknown
      m: 1
      n: 12
      k: 1
      known_type: false
      expected: 3
    - name: zero-scales
      m: 1
      n: 12
      k: 0
      expect_error: true`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelfTest(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "YAML scenario file (default: built-in reference table)")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "scenarios evaluated at once (0 = GOMAXPROCS)")

	return cmd
}

func runSelfTest(rootOpts *RootOptions, opts *selfTestOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(cmd.ErrOrStderr(), rootOpts.Verbose)

	scenarios := coinbound.DefaultScenarios()
	if opts.File != "" {
		loaded, err := coinbound.LoadScenarios(opts.File)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeLoadFailed, err, map[string]string{"file": opts.File})
		}
		scenarios = loaded
		logger.Debug("scenarios loaded", "file", opts.File, "count", len(scenarios))
	}

	cfg := coinbound.DefaultHarnessConfig()
	cfg.Bound = rootOpts.BoundConfig()
	if opts.Concurrency > 0 {
		cfg.Concurrency = opts.Concurrency
	}

	report, err := coinbound.RunScenarios(cmd.Context(), scenarios, cfg, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err, nil)
	}

	if rootOpts.Format == "json" {
		return outputSelfTestJSON(formatter, report)
	}
	return outputSelfTestText(formatter, report)
}

func outputSelfTestJSON(f *OutputFormatter, report coinbound.Report) error {
	resp := CLIResponse{Status: "ok", Data: report}
	if !report.OK() {
		resp.Status = "error"
		resp.Error = &CLIError{Code: ErrCodeTestFailed, Message: report.Summary()}
	}
	if err := f.encode(resp); err != nil {
		return err
	}
	if !report.OK() {
		return NewExitError(ExitFailure, report.Summary())
	}
	return nil
}

func outputSelfTestText(f *OutputFormatter, report coinbound.Report) error {
	w := f.Writer
	for _, r := range report.Results {
		fmt.Fprintln(w, formatScenarioResult(r))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, report.Summary())

	if !report.OK() {
		return NewExitError(ExitFailure, report.Summary())
	}
	return nil
}

func formatScenarioResult(r coinbound.ScenarioResult) string {
	var b strings.Builder
	if r.Passed {
		b.WriteString("✓ ")
	} else {
		b.WriteString("✗ ")
	}
	fmt.Fprintf(&b, "%s: %s → ", r.Scenario.Name, r.Scenario.Params())

	switch {
	case r.Err != "" && r.Scenario.ExpectError && r.Passed:
		b.WriteString("rejected")
	case r.Err != "" && !r.Scenario.ExpectError:
		fmt.Fprintf(&b, "error: %s (expected %d)", r.Err, r.Scenario.Expected)
	case r.Scenario.ExpectError:
		fmt.Fprintf(&b, "%d (expected rejection)", r.Got)
	case r.Passed:
		fmt.Fprintf(&b, "%d", r.Got)
	default:
		fmt.Fprintf(&b, "%d (expected %d)", r.Got, r.Scenario.Expected)
	}
	return b.String()
}
