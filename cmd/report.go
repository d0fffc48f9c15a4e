package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

var reportCheckFlag bool

// reportCmd represents the report command.
var reportCmd = newReportCmd()

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Show a stored coverage file",
		Long:  "Show a worker or merged coverage file, optionally failing below the threshold.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := workflow.Report(m.Path(args[0]))
			if err != nil {
				return err
			}

			if err := display(data); err != nil {
				return err
			}

			if reportCheckFlag {
				return workflow.CheckThreshold(data)
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&reportCheckFlag, "check", false, "fail when total coverage is below the threshold")

	return cmd
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
