package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hargabyte/covreport/internal/analyze"
	"github.com/hargabyte/covreport/internal/config"
	"github.com/hargabyte/covreport/internal/execdata"
	"github.com/hargabyte/covreport/internal/report"
	"github.com/hargabyte/covreport/internal/source"
)

var defaultConfigHint = config.ConfigFileName

// runReport sequences the whole run: parse configuration eagerly, load
// every execution-data input in order, analyze each project in order,
// then assemble one combined report. The first failure aborts the
// remaining steps.
func runReport(cmd *cobra.Command, args []string) error {
	if verbose {
		dumpFlags(cmd)
	}

	if len(execInputs) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
		return errors.New("at least one --in execution-data input is required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// All configuration errors surface before any I/O happens.
	projects, err := analyze.ParseProjectSpecs(args)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
		return err
	}

	group := cfg.Report.Group
	if groupLabel != "" {
		group = groupLabel
	}
	roots := cfg.Source.Roots
	if len(sourceRoots) > 0 {
		roots = sourceRoots
	}

	store := execdata.NewStore()
	sessions := &execdata.SessionLog{}
	loader := execdata.NewLoader(store, sessions)
	for _, in := range execInputs {
		fmt.Fprintf(os.Stderr, "Loading '%s'... ", in)
		if err := loader.Load(in); err != nil {
			fmt.Fprintln(os.Stderr, "FAILED")
			return err
		}
		fmt.Fprintln(os.Stderr, "OK")
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "loaded %d sessions, %d recorded units (mode %s)\n",
			sessions.Len(), store.Len(), store.Mode())
	}

	analyzer := analyze.NewAnalyzer(store, cfg.Source.Exclude)
	var reports []report.ProjectReport
	for _, p := range projects {
		fmt.Fprintf(os.Stderr, "Analyzing project '%s'... ", p.SrcDir)
		bundle, err := analyzer.AnalyzeProject(p.BinDir, p.Name())
		if err != nil {
			fmt.Fprintln(os.Stderr, "FAILED")
			return err
		}
		fmt.Fprintln(os.Stderr, "OK")
		reports = append(reports, report.ProjectReport{
			Bundle:  bundle,
			Sources: source.NewLocator(p.SrcDir, roots...),
		})
	}

	fmt.Fprintf(os.Stderr, "Creating HTML report... ")
	writer := &report.Writer{OutputDir: outputDir, Group: group, TabWidth: cfg.Report.TabWidth}
	if err := writer.Write(sessions.Sessions(), reports); err != nil {
		fmt.Fprintln(os.Stderr, "FAILED")
		return err
	}
	fmt.Fprintln(os.Stderr, "OK")
	return nil
}
