package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hscript/internal/ast"
	"hscript/internal/diag"
	"hscript/internal/diagfmt"
	"hscript/internal/driver"
	"hscript/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file|directory>",
	Short: "Parse templates and print the syntax tree",
	Long:  `Parse a template (or every template in a directory) and print its syntax tree. Directives are not expanded.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|yaml|tree)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers for directory parsing (0=auto)")
}

func runParse(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "json", "yaml", "tree":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json, yaml or tree)", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	s.opts.Jobs = jobs

	target := args[0]
	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", target, err)
	}

	if st.IsDir() {
		fs, results, err := driver.ParseDir(cmd.Context(), target, s.opts)
		if err != nil {
			return fmt.Errorf("parse failed: %w", err)
		}
		hasErrors := false
		for i, res := range results {
			if res.Bag.HasErrors() {
				hasErrors = true
			}
			if err := s.printDiagnostics(res.Bag, fs); err != nil {
				return err
			}
			if res.Program == nil {
				continue
			}
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintf(os.Stdout, "== %s ==\n", res.Path)
			if err := writeProgram(os.Stdout, format, res.Program, fs); err != nil {
				return err
			}
		}
		if hasErrors {
			return fmt.Errorf("parse reported errors")
		}
		return nil
	}

	result, err := driver.Parse(target, s.opts)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if err := s.printDiagnostics(result.Bag, result.FileSet); err != nil {
		return err
	}
	if result.Program != nil {
		if err := writeProgram(os.Stdout, format, result.Program, result.FileSet); err != nil {
			return err
		}
	}
	if s.timings {
		printTimings(os.Stderr, result.Timing)
	}
	if result.Bag.HasErrors() {
		return fmt.Errorf("parse reported errors")
	}
	return nil
}

func writeProgram(w io.Writer, format string, prog *ast.Program, fs *source.FileSet) error {
	switch format {
	case "json":
		return diagfmt.FormatProgramJSON(w, prog)
	case "yaml":
		return diagfmt.FormatProgramYAML(w, prog)
	case "tree":
		return diagfmt.FormatProgramTree(w, prog, fs)
	default:
		return diagfmt.FormatProgramPretty(w, prog, fs)
	}
}

// bagErrors считает результаты с ошибками.
func bagErrors(bags ...*diag.Bag) int {
	n := 0
	for _, b := range bags {
		if b != nil && b.HasErrors() {
			n++
		}
	}
	return n
}
