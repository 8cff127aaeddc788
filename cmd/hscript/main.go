package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hscript/internal/prof"
	"hscript/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "hscript",
	Short:         "hscript markup template toolchain",
	Long:          `hscript parses, expands and renders markup templates with #include and #if directives`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return startProfiling(cmd)
	},
}

var profSession *prof.Session

// main initializes the CLI by setting the command version, registering subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error); default from hscript.toml or warn")
	rootCmd.PersistentFlags().String("diag-format", "pretty", "diagnostics format (pretty|short|json|sarif)")
	rootCmd.PersistentFlags().String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")
	rootCmd.PersistentFlags().String("path-mode", "auto", "path display in diagnostics (auto|absolute|relative|basename)")

	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("trace-out", "", "write a runtime trace to file")

	err := rootCmd.Execute()
	if stopErr := profSession.Stop(); stopErr != nil {
		fmt.Fprintf(os.Stderr, "profiling: %v\n", stopErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func startProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPUPath, err = flags.GetString("cpuprofile"); err != nil {
		return err
	}
	if opts.MemPath, err = flags.GetString("memprofile"); err != nil {
		return err
	}
	if opts.TracePath, err = flags.GetString("trace-out"); err != nil {
		return err
	}
	profSession, err = prof.Start(opts)
	if err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом (включая mintty/cygwin)
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) || isatty.IsCygwinTerminal(f.Fd())
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
}

// newLogger пишет в stderr, чтобы stdout оставался для вывода команд.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
