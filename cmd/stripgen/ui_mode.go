package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the value of --ui.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	m := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI reports whether to draw the progress view. In auto mode it is
// drawn only for text output on a terminal without --quiet.
func shouldUseTUI(mode uiMode, format outputFormat, quiet bool) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return format == formatText && !quiet && isTerminal(os.Stdout)
}
