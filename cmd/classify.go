package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lsgap/core"
	"github.com/katalvlaran/lsgap/gapsolve"
)

func newClassifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "classify",
		Short:   "Label the internal edges of every scaffold and print the tallies",
		Example: "  lsgap classify -i scaffolds.yaml --tentative",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tentative, err := cmd.Flags().GetBool("tentative")
			if err != nil {
				return err
			}
			return a.classify(cmd, tentative)
		},
	}

	cmd.Flags().Bool("tentative", false, "use tentative labels instead of definitive ones")

	return cmd
}

var classifyColumns = []core.EdgeStatus{
	core.StatusTrusted,
	core.StatusTentativeTrusted,
	core.StatusTentativeUntrusted,
	core.StatusUntrusted,
	core.StatusLargeVariance,
	core.StatusInterScaffold,
}

func (a *app) classify(cmd *cobra.Command, tentative bool) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}
	log := cfg.Logger(cmd.ErrOrStderr())

	g, _, err := loadGraph(cmd, cfg.Input)
	if err != nil {
		return err
	}
	opts, err := cfg.Options(log)
	if err != nil {
		return err
	}
	e, err := gapsolve.NewEstimator(g, opts...)
	if err != nil {
		return err
	}

	p := gapsolve.MarkParams{
		Threshold:       cfg.Estimate.ChiSquareThreshold,
		MaxVariance:     markingVariance(cfg.Estimate),
		MarkTrusted:     !tentative,
		MarkUntrusted:   !tentative,
		OperateOnMerged: true,
	}

	return writeOutput(cmd, "", func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprint(tw, "scaffold\tinternal\tconfirmed")
		for _, st := range classifyColumns {
			fmt.Fprintf(tw, "\t%s", st)
		}
		fmt.Fprintln(tw)

		for _, s := range g.Scaffolds() {
			if s.Dead {
				continue
			}
			sum, err := e.MarkInternalEdgeStatus(s.ID, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%d\t%d", s.ID, sum.Internal, sum.Confirmed)
			for _, st := range classifyColumns {
				fmt.Fprintf(tw, "\t%d", sum.Labels[st])
			}
			fmt.Fprintln(tw)
		}
		return tw.Flush()
	})
}
