package cli

import (
	"fmt"
	"math"
	"slices"

	"github.com/spf13/cobra"

	"github.com/alexshd/coinbound"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose         bool
	Format          string  // "json" | "text"
	Tolerance       float64 // Rounding band, see coinbound.BoundConfig
	NoExactTieBreak bool
}

// BoundConfig returns the bound policy selected by the global flags.
func (o *RootOptions) BoundConfig() coinbound.BoundConfig {
	return coinbound.BoundConfig{
		Tolerance:     o.Tolerance,
		ExactTieBreak: !o.NoExactTieBreak,
	}
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the coinbound CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	defaults := coinbound.DefaultBoundConfig()

	cmd := &cobra.Command{
		Use:   "coinbound",
		Short: "Information bound for counterfeit-coin weighing",
		Long: `coinbound computes the minimum number of balance-scale rounds needed to
identify m counterfeit coins among n, weighing on k scales in parallel.

Each scale reports one of three outcomes, so a round distinguishes 3^k
cases. The bound is the least w with 3^(k·w) >= C(n, m), times 2^m when
the counterfeits' direction (lighter or heavier) is unknown.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if !slices.Contains(ValidFormats, opts.Format) {
				// Unknown formats fall back to text.
				formatter.Format = "text"
				return formatter.Fail(ExitCommandError, ErrCodeInvalidArgument,
					fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil)
			}
			if opts.Tolerance < 0 || math.IsNaN(opts.Tolerance) {
				return formatter.Fail(ExitCommandError, ErrCodeInvalidArgument,
					fmt.Errorf("invalid tolerance %g: must not be negative", opts.Tolerance),
					map[string]float64{"default": defaults.Tolerance})
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().Float64Var(&opts.Tolerance, "tolerance", defaults.Tolerance,
		"relative band around integers treated as exact (0 = raw ceiling)")
	cmd.PersistentFlags().BoolVar(&opts.NoExactTieBreak, "no-exact-tiebreak", false,
		"snap ratios inside the band to the nearest integer instead of counting exactly")

	// Add subcommands
	cmd.AddCommand(NewBoundCommand(opts))
	cmd.AddCommand(NewSelfTestCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewScalesCommand(opts))

	return cmd
}

// coinFlags are the inputs shared by bound, sweep and scales.
type coinFlags struct {
	Coins       int  `json:"n"`
	Counterfeit int  `json:"m"`
	Known       bool `json:"known"`
}

func (c *coinFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&c.Coins, "coins", "n", 0, "total number of coins")
	cmd.Flags().IntVarP(&c.Counterfeit, "counterfeit", "m", 1, "number of counterfeit coins")
	cmd.Flags().BoolVar(&c.Known, "known", false, "deviation direction known in advance")
	_ = cmd.MarkFlagRequired("coins")
}

func direction(known bool) string {
	if known {
		return "known"
	}
	return "unknown"
}
