package cmd

import (
	"github.com/spf13/cobra"

	"github.com/greggh/lust-next-sub011/internal/controller"
)

var analyzeLinesFlag bool

// analyzeCmd represents the analyze command.
var analyzeCmd = newAnalyzeCmd()

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Show the executable lines and functions of Lua files",
		Long: `Parse the selected Lua files and report, per file, how many lines are
executable, how many functions and blocks were found, and whether the file
had to be excluded (syntax error, resource limit, unreadable).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := workflow.GetSources(parsePaths(args)...)
			if err != nil {
				return err
			}

			maps, err := workflow.BuildCodeMaps(cmd.Context(), sources)

			if err := ui.Start(controller.WithAnalyzeMode()); err != nil {
				return err
			}

			if err := ui.DisplayCodeMaps(maps, analyzeLinesFlag, err); err != nil {
				ui.Close()
				return err
			}

			ui.Wait()

			return nil
		},
	}
	cmd.Flags().BoolVarP(&analyzeLinesFlag, "lines", "l", false, "print each file with its executable lines marked")

	return cmd
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
