// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"
	"github.com/thelfer/tfel-sub019/inp"
	"github.com/thelfer/tfel-sub019/msolid"
	"github.com/thelfer/tfel-sub019/mtest"
	"github.com/thelfer/tfel-sub019/out"
)

// command line flags
var (
	verbose     int
	outputFile  string
	residFile   string
	summaryFile string
	pngFile     string
	showFig     bool
	width       int
	height      int
	skip        int
)

// styles of the report
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466")).Padding(0, 1)
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	rootCmd := &cobra.Command{
		Use:           "mtest",
		Short:         "material point test driver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run [file.yaml]",
		Short: "run a material point test",
		Args:  cobra.ExactArgs(1),
		RunE:  runTest,
	}
	runCmd.Flags().IntVarP(&verbose, "verbose", "v", 0, "verbose level (0 to 4)")
	runCmd.Flags().StringVar(&outputFile, "output", "", "output file; overrides the input file")
	runCmd.Flags().StringVar(&residFile, "residual", "", "residual file; overrides the input file")
	runCmd.Flags().StringVar(&summaryFile, "summary", "", "summary file (json); overrides the input file")

	plotCmd := &cobra.Command{
		Use:   "plot [file.res] [x] [y]",
		Short: "plot two columns of an output file",
		Args:  cobra.ExactArgs(3),
		RunE:  plotResults,
	}
	plotCmd.Flags().StringVar(&pngFile, "png", "", "saves the figure; e.g. /tmp/sxx.png")
	plotCmd.Flags().BoolVar(&showFig, "show", false, "shows the figure")
	plotCmd.Flags().IntVar(&width, "width", 70, "width of the terminal chart")
	plotCmd.Flags().IntVar(&height, "height", 15, "height of the terminal chart")

	residCmd := &cobra.Command{
		Use:   "resid [summary.json]",
		Short: "plot the convergence of the Newton iterations of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotResiduals,
	}
	residCmd.Flags().IntVar(&skip, "skip", 0, "number of initial resolutions to skip")
	residCmd.Flags().StringVar(&pngFile, "png", "", "saves the figure; e.g. /tmp/resid.png")
	residCmd.Flags().BoolVar(&showFig, "show", false, "shows the figure")
	residCmd.Flags().IntVar(&width, "width", 70, "width of the terminal chart")
	residCmd.Flags().IntVar(&height, "height", 15, "height of the terminal chart")

	behavioursCmd := &cobra.Command{
		Use:   "behaviours",
		Short: "list available behaviours",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range msolid.Available() {
				io.Pf("%s\n", name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, plotCmd, residCmd, behavioursCmd)
	if err := rootCmd.Execute(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}

// runTest loads, runs and reports a test
func runTest(cmd *cobra.Command, args []string) (err error) {

	// input
	cfg, err := inp.Load(args[0])
	if err != nil {
		return
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if outputFile != "" {
		cfg.Output.File, _ = filepath.Abs(outputFile)
	}
	if residFile != "" {
		cfg.Output.Residual, _ = filepath.Abs(residFile)
	}
	if summaryFile != "" {
		cfg.Output.Summary, _ = filepath.Abs(summaryFile)
	}

	// run
	m, err := cfg.Build()
	if err != nil {
		return
	}
	res, err := m.Execute()
	if err != nil {
		return
	}
	io.Pf("%s\n", report(cfg, m.Summary, res))

	// summary
	if fn := cfg.Output.Summary; fn != "" {
		if !filepath.IsAbs(fn) {
			fn = filepath.Join(cfg.Dir, fn)
		}
		if err = m.Summary.Save(fn, "json", cfg.Verbose > 0); err != nil {
			return
		}
	}
	if !res.Success {
		return chk.Err("at least one test failed")
	}
	return
}

// report formats the statistics and the outcome of the tests
func report(cfg *inp.Config, sum *mtest.Summary, res mtest.TestResult) string {
	var b strings.Builder
	line := func(label, format string, args ...interface{}) {
		b.WriteString(labelStyle.Render(io.Sf("%-14s", label)))
		b.WriteString(valueStyle.Render(io.Sf(format, args...)))
		b.WriteString("\n")
	}
	title := cfg.Desc
	if title == "" {
		title = sum.Behaviour
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	line("behaviour", "%s", sum.Behaviour)
	line("hypothesis", "%s", sum.Hypothesis)
	line("periods", "%d", sum.Periods)
	line("iterations", "%d", sum.Iterations)
	line("sub steps", "%d", sum.SubSteps)
	if sum.TangentError > 0 {
		line("tangent error", "%g", sum.TangentError)
	}
	for _, r := range res.Details {
		if r.Success {
			b.WriteString(okStyle.Render("OK   ") + r.Name + "\n")
			continue
		}
		b.WriteString(failStyle.Render("FAIL ") + r.Name + "\n")
		b.WriteString("     " + r.Message + "\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// plotResults draws two columns of an output file
func plotResults(cmd *cobra.Command, args []string) (err error) {
	res, err := out.ReadResults(args[0])
	if err != nil {
		return
	}
	x, y := args[1], args[2]
	chart, err := out.Terminal(res, x, y, width, height)
	if err != nil {
		return
	}
	io.Pf("%s\n", chart)
	if pngFile == "" && !showFig {
		return
	}
	var fig out.Figure
	fig.Splot(filepath.Base(args[0]))
	if err = fig.Plot(res, x, y, strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])), nil); err != nil {
		return
	}
	draw(&fig)
	return
}

// plotResiduals draws the convergence curves saved in a summary
func plotResiduals(cmd *cobra.Command, args []string) (err error) {
	sum, err := mtest.ReadSummary(args[0], "json")
	if err != nil {
		return
	}
	chart, err := out.TerminalResiduals(sum, skip, width, height)
	if err != nil {
		return
	}
	io.Pf("%s\n", chart)
	if pngFile == "" && !showFig {
		return
	}
	var fig out.Figure
	if err = fig.PlotResiduals(sum, skip); err != nil {
		return
	}
	draw(&fig)
	return
}

// draw saves or shows a figure according to the flags
func draw(fig *out.Figure) {
	dirout, fnkey := "", ""
	if pngFile != "" {
		fnkey = filepath.Base(pngFile)
		dirout, fnkey = filepath.Dir(pngFile), strings.TrimSuffix(fnkey, filepath.Ext(fnkey))
	}
	fig.Draw(dirout, fnkey, showFig)
}
