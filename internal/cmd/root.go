// Package cmd contains the covreport CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is the current version of covreport
var Version = "0.1.0"

var (
	execInputs  []string
	outputDir   string
	groupLabel  string
	configPath  string
	sourceRoots []string
	verbose     bool
)

// rootCmd is the single covreport command: it loads execution data,
// analyzes each project and writes the HTML report.
var rootCmd = &cobra.Command{
	Use:   "covreport --in <exec-data> [--in <exec-data> ...] <srcDir>:<binDir> [<srcDir>:<binDir> ...]",
	Short: "Aggregate coverage execution data into a browsable HTML report",
	Long: `covreport reads recorded coverage execution data, matches it against the
instrumented units of one or more projects, and writes a static,
navigable HTML report: an index page, one page per project, and one
page per source file with line-level coverage markup.

Execution data inputs (--in, repeatable) are either text cover profiles
written by 'go test -coverprofile' or GOCOVERDIR directories written by
binaries built with 'go build -cover'. Multiple inputs merge additively:
a unit recorded in several inputs never loses hits.

Each positional argument names one project as <sourceDir>:<binaryDir>.
The binary directory is scanned recursively for instrumented units;
units with no recorded execution appear in the report at 0% rather than
being hidden. Source pages are resolved by probing <sourceDir>/src and
<sourceDir>/src_gen (configurable) for each unit's relative path; a
missing source degrades that file to counters-only display.

Examples:
  # One project, one profile
  covreport --in coverage.out myproj:myproj/src

  # Two projects, merged data from a test run and a GOCOVERDIR
  covreport --in unit.out --in ./covdata \
      core:core/src tools:tools/src --out report

  # Custom group label and source roots
  covreport --in coverage.out --group "Release 1.2" \
      --source-root src --source-root gen myproj:myproj/src`,
	Version:       Version,
	Args:          requireProjectArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runReport,
}

// requireProjectArgs enforces the positional project specifications.
// Configuration errors print the usage text to stderr before any work
// happens; SilenceUsage only suppresses it for later runtime failures.
func requireProjectArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
		return err
	}
	return nil
}

// Execute runs the CLI. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringArrayVarP(&execInputs, "in", "i", nil, "execution-data input: cover profile file or GOCOVERDIR directory (repeatable)")
	rootCmd.Flags().StringVarP(&outputDir, "out", "o", "coverage", "report output directory")
	rootCmd.Flags().StringVarP(&groupLabel, "group", "g", "", "report group label (default from config)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config file (default: "+defaultConfigHint+")")
	rootCmd.Flags().StringArrayVar(&sourceRoots, "source-root", nil, "source-root probe list override (repeatable, ordered)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose progress output")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
		return err
	})

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
}

// dumpFlags prints every flag the user set, for --verbose runs.
func dumpFlags(cmd *cobra.Command) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		fmt.Fprintf(os.Stderr, "flag --%s=%s\n", f.Name, f.Value.String())
	})
}
