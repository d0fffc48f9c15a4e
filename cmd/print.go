package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greggh/lust-next-sub011/internal/adapter"
	"github.com/greggh/lust-next-sub011/internal/domain"
	m "github.com/greggh/lust-next-sub011/internal/model"
)

var printIndentFlag string

// printCmd represents the print command.
var printCmd = newPrintCmd()

func newPrintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print FILE",
		Short: "Parse a Lua file and print it back in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := luaFileAdapter
			if cmd.Flags().Changed("indent") {
				files = adapter.NewLocalLuaFileAdapter(printIndentFlag)
			}

			out, err := files.Format(m.Path(args[0]), domain.ParseOptions(cfg)...)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)

			return err
		},
	}
	cmd.Flags().StringVar(&printIndentFlag, "indent", "  ", "indentation unit")

	return cmd
}

func init() {
	rootCmd.AddCommand(printCmd)
}
