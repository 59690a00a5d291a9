package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexshd/coinbound"
)

// BoundResult is the output of the bound command.
type BoundResult struct {
	M             int     `json:"m"`
	N             int     `json:"n"`
	K             int     `json:"k"`
	Direction     string  `json:"direction"`
	Rounds        int     `json:"rounds"`
	Ratio         float64 `json:"ratio"`
	LogHypotheses float64 `json:"log_hypotheses"`
	ExactRounds   *int    `json:"exact_rounds,omitempty"`

	verbose bool
}

func (r BoundResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", r.Rounds)
	if r.verbose {
		fmt.Fprintf(&b, "\n  m=%d n=%d k=%d direction=%s", r.M, r.N, r.K, r.Direction)
		fmt.Fprintf(&b, "\n  ln H=%.6f ratio=%.9f", r.LogHypotheses, r.Ratio)
	}
	if r.ExactRounds != nil {
		fmt.Fprintf(&b, "\n  exact=%d", *r.ExactRounds)
	}
	return b.String()
}

type boundOptions struct {
	coinFlags
	Scales int
	Exact  bool
}

// NewBoundCommand creates the bound command.
func NewBoundCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &boundOptions{}

	cmd := &cobra.Command{
		Use:   "bound",
		Short: "Minimum weighing rounds for one configuration",
		Long: `Print the minimum number of weighing rounds for m counterfeit coins
among n, using k scales per round.

With --exact the bound is recomputed with integer arithmetic and the
command fails if the two disagree.`,
		Example:       "  coinbound bound --coins 12 --counterfeit 1 --scales 1",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBound(rootOpts, opts, cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVarP(&opts.Scales, "scales", "k", 1, "scales used in parallel per round")
	cmd.Flags().BoolVar(&opts.Exact, "exact", false, "cross-check with exact integer counting")

	return cmd
}

func runBound(rootOpts *RootOptions, opts *boundOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(cmd.ErrOrStderr(), rootOpts.Verbose)

	p := coinbound.Params{M: opts.Counterfeit, N: opts.Coins, K: opts.Scales, KnownType: opts.Known}
	b, err := coinbound.Compute(p, rootOpts.BoundConfig())
	if err != nil {
		return formatter.Fail(ExitCommandError, errorCode(err), err, p)
	}
	logger.Debug("bound computed",
		"params", p.String(),
		"ratio", b.Ratio,
		"rounds", b.Rounds,
		"exact_tiebreak", b.Exact)

	result := BoundResult{
		M:             p.M,
		N:             p.N,
		K:             p.K,
		Direction:     direction(p.KnownType),
		Rounds:        b.Rounds,
		Ratio:         b.Ratio,
		LogHypotheses: b.LogHypotheses,
		verbose:       rootOpts.Verbose,
	}

	if opts.Exact {
		exact, err := coinbound.ExactMinWeighings(p.M, p.N, p.K, p.KnownType)
		if err != nil {
			return formatter.Fail(ExitCommandError, errorCode(err), err, result)
		}
		result.ExactRounds = &exact
		if exact != b.Rounds {
			logger.Warn("exact and log-space bounds disagree",
				"params", p.String(), "log_space", b.Rounds, "exact", exact)
			return formatter.Fail(ExitFailure, ErrCodeMismatch,
				fmt.Errorf("%s: log-space bound %d, exact bound %d", p, b.Rounds, exact), result)
		}
	}

	return formatter.Success(result)
}
