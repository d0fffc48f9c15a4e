package controller

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	program *tea.Program
	started bool
	done    chan struct{}
	err     error
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output, done: make(chan struct{})}
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(options ...StartOption) error {
	if t.started {
		return nil
	}

	model := newReportModel(newStartConfig(options).mode)
	model.width, model.height = terminalSize(t.output)

	return t.startWithModel(model)
}

func (t *TUI) startWithModel(model tea.Model) error {
	t.program = tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	t.started = true

	go func() {
		defer close(t.done)

		_, t.err = t.program.Run()
	}()

	return nil
}

func (t *TUI) ensureStarted() {
	if !t.started {
		_ = t.Start()
	}
}

func (t *TUI) send(msg tea.Msg) {
	if !t.started || t.program == nil {
		return
	}

	t.program.Send(msg)
}

// Wait blocks until the user quits the program.
func (t *TUI) Wait() {
	if !t.started {
		return
	}

	<-t.done
}

// Close stops the program and waits for it to exit.
func (t *TUI) Close() {
	if !t.started || t.program == nil {
		return
	}

	t.program.Quit()
	<-t.done
}

// Err returns the error the program exited with, if any.
func (t *TUI) Err() error {
	return t.err
}

// DisplayCodeMaps shows the analyzed files.
func (t *TUI) DisplayCodeMaps(maps []*m.CodeMap, _ bool, err error) error {
	if err != nil {
		_, _ = fmt.Fprintf(t.output, "analysis error: %v\n", err)

		return err
	}

	t.ensureStarted()
	t.send(newCodeMapsMsg(maps))

	return nil
}

// DisplayCoverage shows the coverage of each file.
func (t *TUI) DisplayCoverage(data *m.CoverageData, threshold float64, err error) error {
	if err != nil {
		_, _ = fmt.Fprintf(t.output, "coverage error: %v\n", err)

		return err
	}

	t.ensureStarted()
	t.send(newCoverageMsg(data, threshold))

	return nil
}

// DisplayMerge adds the merge outcome to the summary.
func (t *TUI) DisplayMerge(info MergeInfo) {
	t.ensureStarted()
	t.send(mergeMsg{info: info})
}

func terminalSize(w io.Writer) (width, height int) {
	width, height = 80, 24

	f, ok := w.(*os.File)
	if !ok {
		return width, height
	}

	if cw, ch, err := term.GetSize(f.Fd()); err == nil {
		width, height = cw, ch
	}

	return width, height
}
