package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/sweeper/internal/minesweeper/application"
	"github.com/zjrosen/sweeper/internal/ui/styles"
)

var (
	presetsFormat string
	presetsThemes bool
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List board presets",
	Long:  `Display the board presets available at the mode prompt, including built-in and user-defined presets.`,
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

func init() {
	presetsCmd.Flags().StringVarP(&presetsFormat, "format", "f", "table", "output format: table, json or yaml")
	presetsCmd.Flags().BoolVar(&presetsThemes, "themes", false, "list theme presets instead")
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if presetsThemes {
		printThemes(out)
		return nil
	}

	catalog := application.CatalogFromConfig(cfg)
	switch normalizeFormat(presetsFormat) {
	case "json":
		return encodeJSON(out, catalog.Presets())
	case "yaml":
		return encodeYAML(out, catalog.Presets())
	case "table", "":
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", presetsFormat)
	}

	builtin := make(map[string]bool)
	for _, p := range application.BuiltinPresets() {
		builtin[p.Name] = true
	}
	var builtins, custom []application.Preset
	for _, p := range catalog.Presets() {
		if builtin[p.Name] {
			builtins = append(builtins, p)
		} else {
			custom = append(custom, p)
		}
	}
	def := catalog.Default()

	_, _ = fmt.Fprintln(out, "Built-in Presets:")
	printPresets(out, builtins, def)
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, "Custom Presets:")
	if len(custom) == 0 {
		_, _ = fmt.Fprintln(out, "  (none, add them under presets: in the config file)")
	} else {
		printPresets(out, custom, def)
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Press Enter at the mode prompt to play the default (*).")
	return nil
}

func printPresets(out io.Writer, presets []application.Preset, def application.Preset) {
	maxLen := maxNameLen(presets)
	for _, p := range presets {
		marker := " "
		if p.Name == def.Name {
			marker = "*"
		}
		key := p.Key
		if key == "" {
			key = "-"
		}
		_, _ = fmt.Fprintf(out, " %s%-*s  [%s]  %dx%d, %d mines\n", marker, maxLen, p.Name, key, p.Rows, p.Columns, p.Mines)
	}
}

func printThemes(out io.Writer) {
	names := styles.PresetNames()
	maxLen := 0
	for _, name := range names {
		maxLen = max(maxLen, len(name))
	}
	_, _ = fmt.Fprintln(out, "Theme Presets:")
	for _, name := range names {
		_, _ = fmt.Fprintf(out, "  %-*s  %s\n", maxLen, name, styles.Presets[name].Description)
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Select one with theme.preset in the config file.")
}

// maxNameLen returns the length of the longest preset name in the slice.
func maxNameLen(presets []application.Preset) int {
	maxLen := 0
	for _, p := range presets {
		maxLen = max(maxLen, len(p.Name))
	}
	return maxLen
}

func encodeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func normalizeFormat(f string) string {
	return strings.ToLower(strings.TrimSpace(f))
}
