package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lsgap/config"
	"github.com/katalvlaran/lsgap/core"
	"github.com/katalvlaran/lsgap/gapsolve"
	"github.com/katalvlaran/lsgap/overlap"
	"github.com/katalvlaran/lsgap/scaffoldio"
)

var errNoInput = errors.New("no input graph: pass --input or set input in the settings file")

func newEstimateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Re-estimate the gaps of every scaffold in a graph",
		Long: `Label the internal edges of each scaffold, split scaffolds whose
trusted edges do not connect them, solve the least-squares system
for every gap and write the new contig positions as YAML.`,
		Example: "  lsgap estimate -i scaffolds.yaml -o gaps.yaml --backend gonum",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.estimate(cmd)
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", "", "output file (default stdout)")
	f.Bool("mark-edges", true, "relabel internal edges before each solve")
	f.Bool("force-non-overlaps", true, "force unconfirmed negative gaps to the minimum gap")
	f.Bool("check-connectivity", true, "split scaffolds not connected by trusted edges")
	f.Bool("require-two-edge", false, "also split at trusted bridges")
	f.Bool("use-guides", false, "scale the large-variance cutoff for guide edges")
	f.Bool("abort-on-singular", false, "fail the run on a singular system")
	f.BoolP("verbose", "v", false, "log every solve and placement")
	f.String("backend", "native", "band solver backend: native or gonum")
	f.String("pushgateway", "", "Prometheus Pushgateway URL")

	for key, flag := range map[string]string{
		"output":                      "output",
		"estimate.mark-edges":         "mark-edges",
		"estimate.force-non-overlaps": "force-non-overlaps",
		"estimate.check-connectivity": "check-connectivity",
		"estimate.require-two-edge":   "require-two-edge",
		"estimate.use-guides":         "use-guides",
		"estimate.abort-on-singular":  "abort-on-singular",
		"estimate.verbose":            "verbose",
		"estimate.backend":            "backend",
		"metrics.pushgateway":         "pushgateway",
	} {
		a.bindFlag(cmd, key, flag)
	}

	return cmd
}

func (a *app) estimate(cmd *cobra.Command) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}
	log := cfg.Logger(cmd.ErrOrStderr())

	g, table, err := loadGraph(cmd, cfg.Input)
	if err != nil {
		return err
	}
	opts, err := cfg.Options(log)
	if err != nil {
		return err
	}
	e, err := gapsolve.NewEstimator(g, append(opts, gapsolve.WithOverlapDetector(table))...)
	if err != nil {
		return err
	}

	rep, err := e.EstimateAll(cmd.Context())
	if err != nil {
		return err
	}
	log.Info("estimation finished",
		"run_id", rep.RunID,
		"processed", rep.Processed,
		"splits", rep.Splits,
		"restarts", rep.Restarts,
		"failed", rep.Failed)

	if err := writeOutput(cmd, cfg.Output, func(w io.Writer) error {
		return scaffoldio.WriteResult(w, g, rep)
	}); err != nil {
		return err
	}

	if cfg.Metrics.Pushgateway != "" {
		if err := pushMetrics(cfg.Metrics.Pushgateway, cfg.Metrics.Job, rep.RunID); err != nil {
			log.Warn("metrics not pushed", "error", err)
		}
	}

	return nil
}

// loadGraph reads the input graph named by path; "-" reads the command's
// input stream.
func loadGraph(cmd *cobra.Command, path string) (*core.Graph, *overlap.Table, error) {
	var r io.Reader
	switch path {
	case "":
		return nil, nil, errNoInput
	case "-":
		r = cmd.InOrStdin()
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		r = f
	}

	g, table, err := scaffoldio.Load(r)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, table, nil
}

// writeOutput runs write against the file at path, or the command's
// output stream when path is empty.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// markingVariance is the large-variance cutoff the estimator applies.
func markingVariance(e config.EstimateConfig) float64 {
	if e.UseGuides {
		return e.MaxEdgeVariance * e.GuideVarianceFactor
	}
	return e.MaxEdgeVariance
}
