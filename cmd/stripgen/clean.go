package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stripgen/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the stripgen disk cache",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	dir, err := driver.CacheDir("stripgen")
	if err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "cache directory not found")
		}
		return nil
	}
	cache, err := driver.OpenDiskCache(dir)
	if err != nil {
		return err
	}
	if err := cache.Clear(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", dir, err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
	}
	return nil
}
