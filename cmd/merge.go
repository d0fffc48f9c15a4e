package cmd

import (
	"github.com/spf13/cobra"

	"github.com/greggh/lust-next-sub011/internal/controller"
	m "github.com/greggh/lust-next-sub011/internal/model"
)

var mergeDirFlag string
var mergeOutFlag string
var mergeCheckFlag bool

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge the coverage files of parallel workers",
		Long: `Load every coverage-*.json file in a directory and merge them. A line keeps
the best state any worker reached. Files written by workers that did not
finish are handled by the partial_policy setting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := workflow.Merge(cmd.Context(), m.Path(mergeDirFlag), m.Path(mergeOutFlag))
			if err != nil {
				return err
			}

			if err := ui.Start(controller.WithReportMode()); err != nil {
				return err
			}

			ui.DisplayMerge(controller.MergeInfo{
				Workers:   res.Workers,
				Partial:   res.Partial,
				Discarded: res.Discarded,
				Output:    res.Output,
			})

			if err := ui.DisplayCoverage(res.Data, cfg.Threshold, nil); err != nil {
				ui.Close()
				return err
			}

			ui.Wait()

			if mergeCheckFlag {
				return workflow.CheckThreshold(res.Data)
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&mergeDirFlag, "dir", "d", ".lustcov", "directory holding the worker coverage files")
	cmd.Flags().StringVarP(&mergeOutFlag, "out", "o", "", "file receiving the merged coverage")
	cmd.Flags().BoolVar(&mergeCheckFlag, "check", false, "fail when total coverage is below the threshold")

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
