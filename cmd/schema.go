package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

// schemaCmd represents the schema command.
var schemaCmd = newSchemaCmd()

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of coverage files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := wireSchema()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return err
		},
	}
}

func wireSchema() ([]byte, error) {
	r := &jsonschema.Reflector{DoNotReference: true, RequiredFromJSONSchemaTags: true}

	s := r.Reflect(&m.WireCoverage{})
	s.Title = "lustcov coverage file"
	s.Description = "Coverage written by one worker, or merged from several. Version " + m.WireVersion + "."

	return json.MarshalIndent(s, "", "  ")
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
