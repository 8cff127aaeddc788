package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hscript/internal/cond"
	"hscript/internal/driver"
	"hscript/internal/observ"
)

var renderCmd = &cobra.Command{
	Use:   "render [file|directory]",
	Short: "Expand directives and render templates",
	Long: `Render a template to stdout (or --out), or every non-partial template of a directory into an output directory.
Without arguments the [build] section of hscript.toml is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	addRenderFlags(renderCmd)
	renderCmd.Flags().StringP("out", "o", "", "output file (for a file) or directory (for a directory)")
	renderCmd.Flags().Bool("no-cache", false, "disable the render cache")
	renderCmd.Flags().String("ui", "auto", "progress view for directories (auto|on|off)")
}

// addRenderFlags регистрирует флаги, общие для render и check.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("var", nil, "condition variable name=value (repeatable)")
	cmd.Flags().StringArray("include-dir", nil, "extra directory searched by #include (repeatable)")
	cmd.Flags().String("indent", "", "indent unit; enables line-per-tag output")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directories (0=auto)")
}

func applyRenderFlags(cmd *cobra.Command, s *settings) error {
	vars, err := cmd.Flags().GetStringArray("var")
	if err != nil {
		return fmt.Errorf("failed to get var flag: %w", err)
	}
	if len(vars) > 0 && s.opts.Vars == nil {
		s.opts.Vars = make(cond.Vars, len(vars))
	}
	for _, kv := range vars {
		name, value, err := cond.ParseAssignment(kv)
		if err != nil {
			return err
		}
		s.opts.Vars[name] = value
	}
	dirs, err := cmd.Flags().GetStringArray("include-dir")
	if err != nil {
		return fmt.Errorf("failed to get include-dir flag: %w", err)
	}
	s.opts.IncludeDirs = append(s.opts.IncludeDirs, dirs...)
	if cmd.Flags().Changed("indent") {
		indent, err := cmd.Flags().GetString("indent")
		if err != nil {
			return fmt.Errorf("failed to get indent flag: %w", err)
		}
		s.opts.Indent = indent
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	s.opts.Jobs = jobs
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := applyRenderFlags(cmd, s); err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if !noCache && s.manifest.cacheEnabled() {
		cache, err := driver.OpenDiskCache("hscript")
		if err != nil {
			s.logger.Warn("render cache disabled", "err", err)
		} else {
			s.opts.Cache = cache
		}
	}

	var target string
	switch {
	case len(args) == 1:
		target = args[0]
	case s.manifest != nil:
		target = s.manifest.srcDir()
		if outPath == "" {
			outPath = s.manifest.outDir()
		}
	default:
		return fmt.Errorf("no template given and no %s found", manifestName)
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", target, err)
	}
	if st.IsDir() {
		uiFlag, err := cmd.Flags().GetString("ui")
		if err != nil {
			return fmt.Errorf("failed to get ui flag: %w", err)
		}
		mode, err := readUIMode(uiFlag)
		if err != nil {
			return err
		}
		return renderDirectory(cmd, s, target, outPath, mode.showProgress(s.progressEnv()))
	}

	res, err := driver.Render(cmd.Context(), target, s.opts)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if err := s.printDiagnostics(res.Bag, res.FileSet); err != nil {
		return err
	}
	if s.timings {
		printTimings(os.Stderr, res.Timing)
	}
	if res.Output == nil {
		return fmt.Errorf("render reported errors")
	}
	if outPath == "" {
		_, err = os.Stdout.Write(res.Output)
		if err == nil && s.opts.Indent == "" {
			_, err = fmt.Fprintln(os.Stdout)
		}
		return err
	}
	if err := driver.WriteOutput(outPath, res.Output); err != nil {
		return fmt.Errorf("failed to write %q: %w", outPath, err)
	}
	s.status(os.Stderr, "rendered %s -> %s\n", target, outPath)
	return nil
}

func renderDirectory(cmd *cobra.Command, s *settings, dir, outDir string, useTUI bool) error {
	if outDir == "" {
		return fmt.Errorf("rendering a directory requires --out")
	}
	var (
		results []driver.RenderResult
		err     error
	)
	if useTUI {
		results, err = runRenderDirWithUI(cmd.Context(), "rendering "+dir, dir, outDir, s.opts)
	} else {
		results, err = driver.RenderDir(cmd.Context(), dir, outDir, s.opts)
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	reports := make([]observ.Report, 0, len(results))
	failed, cached := 0, 0
	for _, res := range results {
		if err := s.printDiagnostics(res.Bag, res.FileSet); err != nil {
			return err
		}
		if res.Output == nil {
			failed++
		}
		if res.Cached {
			cached++
		}
		reports = append(reports, res.Timing)
	}
	if s.timings {
		printTimings(os.Stderr, reports...)
	}
	s.status(os.Stderr, "rendered %d of %d templates into %s (%d from cache)\n", len(results)-failed, len(results), outDir, cached)
	if failed > 0 {
		return fmt.Errorf("%d template(s) failed to render", failed)
	}
	return nil
}
