package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hscript/internal/diag"
	"hscript/internal/driver"
	"hscript/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [file|directory]",
	Short: "Verify that rendering is stable under a re-parse",
	Long:  `Render templates, parse the output again and render it once more. Any difference between the two renders is reported with a diff.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	addRenderFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := applyRenderFlags(cmd, s); err != nil {
		return err
	}

	var target string
	switch {
	case len(args) == 1:
		target = args[0]
	case s.manifest != nil:
		target = s.manifest.srcDir()
	default:
		return fmt.Errorf("no template given and no %s found", manifestName)
	}
	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", target, err)
	}

	var results []driver.CheckResult
	if st.IsDir() {
		results, err = driver.CheckDir(cmd.Context(), target, s.opts)
	} else {
		var res *driver.CheckResult
		res, err = driver.Check(cmd.Context(), target, s.opts)
		if res != nil {
			results = append(results, *res)
		}
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	reports := make([]observ.Report, 0, len(results))
	bags := make([]*diag.Bag, 0, len(results))
	unstable := 0
	for i := range results {
		res := &results[i]
		if err := s.printDiagnostics(res.Bag, res.FileSet); err != nil {
			return err
		}
		if res.Diff != "" {
			unstable++
			fmt.Fprintf(os.Stdout, "== %s ==\n%s", res.Path, res.Diff)
		}
		bags = append(bags, res.Bag)
		reports = append(reports, res.Timing)
	}
	if s.timings {
		printTimings(os.Stderr, reports...)
	}
	failed := bagErrors(bags...)
	if failed == 0 && unstable == 0 {
		s.status(os.Stderr, "checked %d template(s): ok\n", len(results))
		return nil
	}
	return fmt.Errorf("check failed for %d template(s)", max(failed, unstable))
}
