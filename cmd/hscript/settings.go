package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hscript/internal/diag"
	"hscript/internal/diagfmt"
	"hscript/internal/driver"
	"hscript/internal/source"
	"hscript/internal/version"
)

// settings собирает глобальные флаги и манифест проекта в одном месте.
type settings struct {
	manifest    *projectManifest
	opts        driver.Options
	logger      *slog.Logger
	color       bool
	quiet       bool
	timings     bool
	diagFormat  string
	minSeverity diag.Severity
	pathMode    diagfmt.PathMode
	args        []string
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	diagFormat, err := flags.GetString("diag-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	pathModeFlag, err := flags.GetString("path-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	minSeverityFlag, err := flags.GetString("min-severity")
	if err != nil {
		return nil, fmt.Errorf("failed to get min-severity flag: %w", err)
	}

	s := &settings{
		quiet:      quiet,
		timings:    timings,
		diagFormat: strings.ToLower(diagFormat),
		args:       os.Args[1:],
	}
	switch s.diagFormat {
	case "pretty", "short", "json", "sarif":
	default:
		return nil, fmt.Errorf("unsupported diag-format %q (must be pretty, short, json or sarif)", diagFormat)
	}
	mode, ok := diagfmt.ParsePathMode(pathModeFlag)
	if !ok {
		return nil, fmt.Errorf("unsupported path-mode %q", pathModeFlag)
	}
	s.pathMode = mode
	if s.minSeverity, err = diag.ParseSeverity(minSeverityFlag); err != nil {
		return nil, err
	}

	switch strings.ToLower(colorFlag) {
	case "on":
		s.color = true
	case "off":
		s.color = false
	case "auto":
		s.color = isTerminal(os.Stderr)
	default:
		return nil, fmt.Errorf("unsupported color mode %q (must be auto, on or off)", colorFlag)
	}

	manifest, _, err := loadProjectManifest(".")
	if err != nil {
		return nil, err
	}
	s.manifest = manifest

	if logLevel == "" && manifest != nil {
		logLevel = manifest.Config.LogLevel
	}
	level, err := parseLogLevel(logLevel)
	if err != nil {
		return nil, err
	}
	s.logger = newLogger(level)

	manifest.applyTo(&s.opts)
	s.opts.MaxDiagnostics = maxDiagnostics
	s.opts.Logger = s.logger
	if manifest != nil {
		s.logger.Debug("using project manifest", "path", manifest.Path)
	}
	return s, nil
}

// printDiagnostics выводит bag в выбранном формате: pretty/short в stderr,
// json/sarif в stdout, чтобы их можно было перенаправить в файл.
func (s *settings) printDiagnostics(bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	bag.Dedup()
	bag.DropBelow(s.minSeverity)
	switch s.diagFormat {
	case "short":
		if err := diag.FormatShortDiagnostics(os.Stderr, fs, bag.Items()); err != nil {
			return err
		}
		s.status(os.Stderr, "%s\n", diagSummary(bag))
		return nil
	case "json":
		return diagfmt.JSON(os.Stdout, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         s.pathMode,
			IncludeNotes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(os.Stdout, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "hscript",
			ToolVersion:    version.Version,
			InvocationArgs: s.args,
		})
	default:
		diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
			Color:     s.color,
			Context:   2,
			PathMode:  s.pathMode,
			ShowNotes: true,
		})
		s.status(os.Stderr, "%s\n", diagSummary(bag))
		return nil
	}
}

// diagSummary: итоговая строка под pretty/short выводом.
func diagSummary(bag *diag.Bag) string {
	sum := fmt.Sprintf("%d error(s), %d warning(s), %d info", bag.Count(diag.SevError), bag.Count(diag.SevWarning), bag.Count(diag.SevInfo))
	if n := bag.Dropped(); n > 0 {
		sum += fmt.Sprintf("; %d more not shown (raise --max-diagnostics)", n)
	}
	return sum
}

// status пишет служебное сообщение, если не задан --quiet.
func (s *settings) status(w io.Writer, format string, args ...any) {
	if s.quiet {
		return
	}
	fmt.Fprintf(w, format, args...)
}
