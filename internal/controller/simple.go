package controller

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd  *cobra.Command
	mode StartMode
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(options ...StartOption) error {
	s.mode = newStartConfig(options).mode
	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {

}

// Wait returns immediately; plain output needs no user interaction.
func (s *SimpleUI) Wait() {

}

// DisplayCodeMaps prints one row per analyzed file and, with showLines,
// the annotated source of each valid file.
func (s *SimpleUI) DisplayCodeMaps(maps []*m.CodeMap, showLines bool, err error) error {
	if err != nil {
		s.printf("analysis error: %v\n", err)
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Lines", "Functions", "Blocks", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})

	lines, functions, blocks, excluded := 0, 0, 0, 0

	for _, cm := range maps {
		if !cm.Valid {
			excluded++

			table.Append([]string{string(cm.Path), "-", "-", "-", "excluded: " + m.ErrorKind(cm.Err)})

			continue
		}

		lines += len(cm.ExecutableLines)
		functions += len(cm.Functions)
		blocks += len(cm.Blocks)

		table.Append([]string{
			string(cm.Path),
			fmt.Sprintf("%d", len(cm.ExecutableLines)),
			fmt.Sprintf("%d", len(cm.Functions)),
			fmt.Sprintf("%d", len(cm.Blocks)),
			"ok",
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(maps)),
		fmt.Sprintf("%d", lines),
		fmt.Sprintf("%d", functions),
		fmt.Sprintf("%d", blocks),
		fmt.Sprintf("%d excluded", excluded),
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	if !showLines {
		return nil
	}

	for _, cm := range maps {
		if !cm.Valid {
			s.printf("\n%s\n%s", cm.Path, snippet(cm))
			continue
		}

		s.printf("\n%s\n", cm.Path)

		for _, line := range annotate(cm) {
			s.printf("%s\n", line)
		}
	}

	return nil
}

// DisplayCoverage prints the per-file line coverage and the totals.
func (s *SimpleUI) DisplayCoverage(data *m.CoverageData, threshold float64, err error) error {
	if err != nil {
		s.printf("coverage error: %v\n", err)
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Lines", "Covered", "Executed", "Missing", "Cover"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
	})

	for _, path := range data.Paths() {
		f := data.Files[path]
		if f.Excluded {
			table.Append([]string{string(path), "-", "-", "-", "excluded: " + f.ErrKind, "-"})
			continue
		}

		table.Append([]string{
			string(path),
			fmt.Sprintf("%d", f.TotalExecutable),
			fmt.Sprintf("%d", f.CoveredCount),
			fmt.Sprintf("%d", f.ExecutedOnlyCount),
			lineRanges(linesIn(f, m.NotCovered)),
			formatPercent(f.Percentage()),
		})
	}

	sum := data.Summary()

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", sum.Files),
		fmt.Sprintf("%d", sum.TotalExecutable),
		fmt.Sprintf("%d", sum.Covered),
		fmt.Sprintf("%d", sum.ExecutedOnly),
		fmt.Sprintf("%d excluded", sum.ExcludedFiles),
		"",
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	if sum.FunctionsTotal > 0 {
		s.printf("Functions: %d/%d executed, %d covered\n", sum.FunctionsExecuted, sum.FunctionsTotal, sum.FunctionsCovered)
	}

	if sum.BlocksTotal > 0 {
		s.printf("Blocks: %d/%d executed\n", sum.BlocksExecuted, sum.BlocksTotal)
	}

	status := "PASS"
	if !sum.MeetsThreshold(threshold) {
		status = "FAIL"
	}

	s.printf("Coverage %s (threshold %s) %s\n", formatPercent(sum.Percentage()), formatPercent(threshold), status)

	return nil
}

// DisplayMerge prints the outcome of a merge.
func (s *SimpleUI) DisplayMerge(info MergeInfo) {
	s.printf("Merged %d worker file(s): %d partial, %d discarded\n", info.Workers, info.Partial, info.Discarded)

	if info.Output != "" {
		s.printf("Wrote %s\n", info.Output)
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
