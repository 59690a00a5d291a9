package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexshd/coinbound"
)

// ScalesResult is the output of the scales command.
type ScalesResult struct {
	M         int    `json:"m"`
	N         int    `json:"n"`
	Rounds    int    `json:"rounds"`
	Direction string `json:"direction"`
	Scales    int    `json:"scales"`
}

func (r ScalesResult) String() string {
	return fmt.Sprint(r.Scales)
}

type scalesOptions struct {
	coinFlags
	Rounds int `json:"rounds"`
}

// NewScalesCommand creates the scales command.
func NewScalesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &scalesOptions{}

	cmd := &cobra.Command{
		Use:           "scales",
		Short:         "Fewest scales that fit a round budget",
		Long:          `Print the fewest scales k for which the bound is at most --rounds.`,
		Example:       "  coinbound scales --coins 20 --counterfeit 2 --rounds 3",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScales(rootOpts, opts, cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVarP(&opts.Rounds, "rounds", "w", 1, "round budget")

	return cmd
}

func runScales(rootOpts *RootOptions, opts *scalesOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	k, err := coinbound.MinScales(opts.Counterfeit, opts.Coins, opts.Rounds, opts.Known, rootOpts.BoundConfig())
	if err != nil {
		return formatter.Fail(ExitCommandError, errorCode(err), err, *opts)
	}

	return formatter.Success(ScalesResult{
		M:         opts.Counterfeit,
		N:         opts.Coins,
		Rounds:    opts.Rounds,
		Direction: direction(opts.Known),
		Scales:    k,
	})
}
