package cmd

import (
	"github.com/spf13/cobra"

	"github.com/greggh/lust-next-sub011/internal/controller"
	m "github.com/greggh/lust-next-sub011/internal/model"
)

var collectTraceFlag string
var collectOutFlag string

// collectCmd represents the collect command.
var collectCmd = newCollectCmd()

func newCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect --trace FILE [paths...]",
		Short: "Turn one worker's line trace into a coverage file",
		Long: `Replay the line events a test worker recorded and aggregate them against
the code maps of the selected files. The result is written as
coverage-<worker>.json into the output directory, ready for merge.

A trace without a final stop event marks the worker as partial.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := workflow.GetSources(parsePaths(args)...)
			if err != nil {
				return err
			}

			res, err := workflow.Collect(cmd.Context(), sources, m.Path(collectTraceFlag), m.Path(collectOutFlag))
			if err != nil {
				return err
			}

			log.Info("worker coverage stored", "worker", res.Worker, "events", res.Events, "complete", res.Complete, "path", res.Output)

			return display(res.Data)
		},
	}
	cmd.Flags().StringVarP(&collectTraceFlag, "trace", "t", "", "trace file written by the test runtime")
	cmd.Flags().StringVarP(&collectOutFlag, "out", "o", ".lustcov", "directory receiving the worker coverage file")
	_ = cmd.MarkFlagRequired("trace")

	return cmd
}

// display shows data in report mode and waits for the user.
func display(data *m.CoverageData) error {
	if err := ui.Start(controller.WithReportMode()); err != nil {
		return err
	}

	if err := ui.DisplayCoverage(data, cfg.Threshold, nil); err != nil {
		ui.Close()
		return err
	}

	ui.Wait()

	return nil
}

func init() {
	rootCmd.AddCommand(collectCmd)
}
