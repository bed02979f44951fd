package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	rewrittenColor = color.New(color.FgGreen)
	copiedColor    = color.New(color.Faint)
	cachedColor    = color.New(color.FgBlue)
	changedColor   = color.New(color.FgYellow)
	errorColor     = color.New(color.FgRed, color.Bold)
)

func parseColorMode(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "", nil
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// setupColor applies --color to fatih/color globally.
func setupColor(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	enabled, err := parseColorMode(value)
	if err != nil {
		return err
	}
	color.NoColor = !enabled
	return nil
}
