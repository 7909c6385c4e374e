package commands

// Root command for Cobra CLI
// Converts the two positional arguments into a chart, auto-detecting the form
// Registers the pie and sunburst subcommands that force a chart kind

import (
	"activity-charts/internal/config"
	"activity-charts/internal/features/convert"
	"activity-charts/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const argsUsage = "<json-data> <output-file-path>"

// session holds what PersistentPreRunE prepared for the command being run.
type session struct {
	cfg   *config.Config
	runID string
}

// NewRootCmd builds the full command tree. Each call returns fresh flag
// state, so tests can execute it repeatedly.
func NewRootCmd() *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "chartgen " + argsUsage,
		Short: "Render activity data as a pie or sunburst PNG chart",
		Long: `chartgen turns a JSON document into a PNG chart.

A flat object of label/value pairs becomes a pie chart:
  chartgen '{"Work": 30, "Sleep": 70}' pie.png

An object with a "nodes" list of {id, parent_id, name, duration} becomes a
sunburst chart with one ring per tree level:
  chartgen @activities.json sunburst.png

json-data may be the document itself, @path to read a file, or - for stdin.`,
		Version:       "1.0.0",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd)
		},
		RunE: s.runChart(convert.ModeAuto),
	}
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newChartCmd("pie", "Force a pie chart of the top-level entries", convert.ModePie, s))
	rootCmd.AddCommand(newChartCmd("sunburst", "Force a sunburst chart, one ring per tree level", convert.ModeSunburst, s))
	return rootCmd
}

func Execute() error {
	defer log.Sync()
	return NewRootCmd().Execute()
}

func (s *session) setup(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(config.WithConfigFile(configFile), config.WithFlags(cmd.Flags()))
	if err != nil {
		return err
	}
	if err := log.Setup(log.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level, Console: cfg.Log.Console}); err != nil {
		return err
	}

	s.cfg = cfg
	s.runID = log.NewRunID()
	log.RunLogger(s.runID).Debug("Configuration loaded",
		zap.String("command", cmd.Name()),
		zap.Stringer("config", cfg))
	return nil
}
