package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexshd/coinbound"
)

// SweepResult is the output of the sweep command.
type SweepResult struct {
	M         int                  `json:"m"`
	N         int                  `json:"n"`
	Direction string               `json:"direction"`
	Rows      []coinbound.SweepRow `json:"rows"`
}

func (r SweepResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "m=%d n=%d direction=%s\n", r.M, r.N, r.Direction)
	fmt.Fprintf(&b, "%-6s %-7s %s\n", "k", "rounds", "ratio")
	for i, row := range r.Rows {
		fmt.Fprintf(&b, "%-6d %-7d %.4f", row.K, row.Rounds, row.Ratio)
		if i < len(r.Rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

type sweepOptions struct {
	coinFlags
	From int `json:"from"`
	To   int `json:"to"`
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &sweepOptions{}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Tabulate the bound over a range of scale counts",
		Long: `Print the minimum number of rounds for every scale count k in
[--from, --to]. Rounds never increase down the table.`,
		Example:       "  coinbound sweep --coins 20 --counterfeit 2 --from 1 --to 4",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(rootOpts, opts, cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVar(&opts.From, "from", 1, "first scale count")
	cmd.Flags().IntVar(&opts.To, "to", 8, "last scale count")

	return cmd
}

func runSweep(rootOpts *RootOptions, opts *sweepOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(cmd.ErrOrStderr(), rootOpts.Verbose)

	rows, err := coinbound.SweepScales(opts.Counterfeit, opts.Coins, opts.Known, opts.From, opts.To, rootOpts.BoundConfig())
	if err != nil {
		return formatter.Fail(ExitCommandError, errorCode(err), err, *opts)
	}
	logger.Debug("sweep computed", "m", opts.Counterfeit, "n", opts.Coins, "rows", len(rows))

	return formatter.Success(SweepResult{
		M:         opts.Counterfeit,
		N:         opts.Coins,
		Direction: direction(opts.Known),
		Rows:      rows,
	})
}
