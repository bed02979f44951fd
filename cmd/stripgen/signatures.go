package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"stripgen/internal/normalize"
	"stripgen/internal/project"
)

var signaturesFormat string

var signaturesCmd = &cobra.Command{
	Use:   "signatures",
	Short: "List known generator signatures",
	Long: `List the built-in signatures and those declared in stripgen.toml.
Signatures selected by [strip].generators are marked with *.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := parseOutputFormat(signaturesFormat)
		if err != nil {
			return err
		}
		manifest, _, err := loadProjectManifest("")
		if err != nil {
			return err
		}
		rows, err := collectSignatureRows(manifest)
		if err != nil {
			return err
		}
		if format == formatJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}
		renderSignatureTable(cmd.OutOrStdout(), rows)
		return nil
	},
}

func init() {
	signaturesCmd.Flags().StringVar(&signaturesFormat, "format", "text", "output format (text|json)")
}

type signatureRow struct {
	Name     string   `json:"name"`
	Source   string   `json:"source"`
	Selected bool     `json:"selected"`
	Marker   string   `json:"marker"`
	Detect   string   `json:"detect"`
	Strip    []string `json:"strip"`
}

func collectSignatureRows(manifest *project.Manifest) ([]signatureRow, error) {
	reg, err := manifest.Registry()
	if err != nil {
		return nil, err
	}
	selected, err := manifest.Signatures()
	if err != nil {
		return nil, err
	}
	// Registry и Signatures строят разные реестры, сравниваем по имени
	chosen := make(map[string]bool, len(selected))
	for _, sig := range selected {
		chosen[strings.ToLower(sig.Name)] = true
	}
	builtin := normalize.Builtin()

	rows := make([]signatureRow, 0, reg.Len())
	for _, sig := range reg.All() {
		spec := sig.Spec()
		source := "manifest"
		if _, ok := builtin.Lookup(spec.Name); ok {
			source = "builtin"
		}
		rows = append(rows, signatureRow{
			Name:     spec.Name,
			Source:   source,
			Selected: chosen[strings.ToLower(spec.Name)],
			Marker:   spec.Marker,
			Detect:   spec.Detect,
			Strip:    append([]string{}, spec.Strip...),
		})
	}
	return rows, nil
}

// renderSignatureTable prints rows as aligned columns. Markers are truncated
// to keep one row per line.
func renderSignatureTable(out io.Writer, rows []signatureRow) {
	const markerWidth = 60
	header := []string{"NAME", "SOURCE", "STRIP", "MARKER"}
	table := [][]string{header}
	for _, row := range rows {
		name := row.Name
		if row.Selected {
			name = "* " + name
		} else {
			name = "  " + name
		}
		table = append(table, []string{
			name,
			row.Source,
			fmt.Sprintf("%d", len(row.Strip)),
			runewidth.Truncate(row.Marker, markerWidth, "..."),
		})
	}

	widths := make([]int, len(header))
	for _, cols := range table {
		for i, col := range cols {
			widths[i] = max(widths[i], runewidth.StringWidth(col))
		}
	}
	for _, cols := range table {
		var b strings.Builder
		for i, col := range cols {
			if i == len(cols)-1 {
				b.WriteString(col)
				break
			}
			b.WriteString(runewidth.FillRight(col, widths[i]+2))
		}
		fmt.Fprintln(out, strings.TrimRight(b.String(), " "))
	}
}
