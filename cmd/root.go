// Package cmd provides the root command and CLI setup for lustcov.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/greggh/lust-next-sub011/internal/adapter"
	"github.com/greggh/lust-next-sub011/internal/controller"
	"github.com/greggh/lust-next-sub011/internal/domain"
	"github.com/greggh/lust-next-sub011/internal/logger"
	m "github.com/greggh/lust-next-sub011/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var coverageStore adapter.CoverageStore
var traceReader adapter.TraceReader
var configLoader adapter.ConfigLoader
var luaFileAdapter adapter.LuaFileAdapter

// newWorkflow and newUI build the per-run collaborators once the config is
// known. Tests replace them.
var newWorkflow func(cfg m.Config, log *logger.Logger) domain.Workflow
var newUI func(cmd *cobra.Command) controller.UI

var cfg m.Config
var log *logger.Logger
var workflow domain.Workflow
var ui controller.UI

func init() {
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	coverageStore = adapter.NewLocalCoverageStore(0)
	traceReader = adapter.NewLocalTraceReader()
	configLoader = adapter.NewLocalConfigLoader()
	luaFileAdapter = adapter.NewLocalLuaFileAdapter("")

	newWorkflow = func(cfg m.Config, log *logger.Logger) domain.Workflow {
		return domain.NewWorkflow(cfg, fsAdapter, coverageStore, traceReader, log)
	}
	newUI = func(cmd *cobra.Command) controller.UI {
		return controller.NewUI(cmd, !plainFlag && controller.IsTTY(os.Stdout))
	}
}

var configFlag string
var logLevelFlag string
var plainFlag bool
var thresholdFlag float64
var trackBlocksFlag bool
var keywordsFlag bool
var partialPolicyFlag string
var includeFlags []string
var excludeFlags []string
var workersFlag int

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lustcov",
		Short: "Line coverage for Lua test suites",
		Long: `lustcov computes line coverage for Lua code run under a test framework.

It parses each Lua file to find its executable lines, replays the line
events recorded by the test runtime, and classifies every executable line
as not covered, executed, or covered (executed and verified by an
assertion). Results from parallel workers are stored as JSON and merged.

Paths follow the Go convention:
  - ...           recursively scan the current directory
  - ./src/...     recursively scan src
  - ./lib a.lua   scan a directory (not recursive) and a single file`,
		SilenceUsage:      true,
		PersistentPreRunE: configure,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "config file (.lustcov.yaml or .lustcov.toml); searched in the working directory when unset")
	flags.StringVar(&logLevelFlag, "log-level", "warn", "log level: error, warn, info or debug")
	flags.BoolVar(&plainFlag, "plain", false, "plain text output even on a terminal")
	flags.Float64Var(&thresholdFlag, "threshold", 0, "minimum total coverage percentage")
	flags.BoolVar(&trackBlocksFlag, "track-blocks", false, "record statement blocks")
	flags.BoolVar(&keywordsFlag, "keywords", true, "count control-flow keyword lines (if, end, else, ...) as executable")
	flags.StringVar(&partialPolicyFlag, "partial-policy", "", "what to do with coverage from unfinished workers: discard or merge")
	flags.StringArrayVar(&includeFlags, "include", nil, "glob of files to include (can be repeated)")
	flags.StringArrayVarP(&excludeFlags, "exclude", "x", nil, "glob of files to exclude (can be repeated)")
	flags.IntVarP(&workersFlag, "parallel", "p", 0, "number of files analyzed in parallel (default GOMAXPROCS)")

	return cmd
}

// configure loads the config, applies flag overrides and builds the
// workflow and UI for the command about to run.
func configure(cmd *cobra.Command, _ []string) error {
	if !logger.Level.SetByName(logLevelFlag) {
		return fmt.Errorf("unknown log level %q", logLevelFlag)
	}

	log = logger.New()

	path := configFlag
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = configLoader.FindConfig(wd)
		}
	}

	loaded, err := configLoader.Load(path)
	if err != nil {
		return err
	}

	if path != "" {
		log.Debug("config loaded", "path", path)
	}

	if err := applyFlags(cmd, &loaded); err != nil {
		return err
	}

	cfg = loaded
	workflow = newWorkflow(cfg, log)
	ui = newUI(cmd)

	return nil
}

func applyFlags(cmd *cobra.Command, c *m.Config) error {
	flags := cmd.Flags()

	if flags.Changed("threshold") {
		c.Threshold = thresholdFlag
	}

	if flags.Changed("track-blocks") {
		c.TrackBlocks = trackBlocksFlag
	}

	if flags.Changed("keywords") {
		c.ControlFlowKeywordsExecutable = keywordsFlag
	}

	if flags.Changed("partial-policy") {
		c.PartialPolicy = m.PartialPolicy(partialPolicyFlag)
	}

	if flags.Changed("include") {
		c.Include = includeFlags
	}

	if flags.Changed("exclude") {
		c.Exclude = excludeFlags
	}

	if flags.Changed("parallel") {
		c.Workers = workersFlag
	}

	return c.Validate()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{"..."}
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
