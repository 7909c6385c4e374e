package commands

// Chart commands
// Read json-data, run the converter with the gg renderer and report the result

import (
	"fmt"

	apperr "activity-charts/internal/errors"
	"activity-charts/internal/features/charts"
	"activity-charts/internal/features/convert"
	"activity-charts/internal/infra/fs"
	"activity-charts/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newChartCmd(name, short string, mode convert.Mode, s *session) *cobra.Command {
	return &cobra.Command{
		Use:   name + " " + argsUsage,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE:  s.runChart(mode),
	}
}

func (s *session) runChart(mode convert.Mode) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := log.RunLogger(s.runID)
		out := args[1]

		data, err := fs.ReadInput(args[0], cmd.InOrStdin())
		if err != nil {
			return apperr.Wrap(apperr.CodeMalformedInput, err, "read json-data")
		}
		log.LogJSON(data, "Input payload")

		res, err := convert.Run(data, out, convert.Options{
			Mode:     mode,
			Policy:   s.cfg.Tree.Policy(),
			Layout:   s.cfg.Tree.LayoutOptions(),
			Title:    s.cfg.Chart.Title,
			Renderer: charts.New(s.cfg.Chart),
			RunID:    s.runID,
		})
		if err != nil {
			log.LogError("Chart generation failed",
				zap.String("run_id", s.runID),
				zap.String("code", string(apperr.GetCode(err))),
				zap.Error(err))
			return err
		}

		logger.Info("Chart saved",
			zap.String("result", res.String()),
			zap.Int64("duration_ms", res.Duration.Milliseconds()))
		fmt.Fprintf(cmd.OutOrStdout(), "Chart saved as %s\n", res.Path)
		return nil
	}
}
