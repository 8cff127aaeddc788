package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hscript/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the render cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the render cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := driver.OpenDiskCache("hscript")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached render",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := driver.OpenDiskCache("hscript")
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clear %q: %w", cache.Dir(), err)
		}
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			_, _ = fmt.Fprintf(os.Stdout, "removed %s\n", cache.Dir())
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}
