package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/sweeper/internal/rules"
)

var (
	rulesWidth int
	rulesStyle string
	rulesRaw   bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show how to play",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if rulesRaw {
			_, err := fmt.Fprint(cmd.OutOrStdout(), rules.Markdown())
			return err
		}
		out, err := rules.Render(rulesWidth, rulesStyle)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rulesCmd.Flags().IntVarP(&rulesWidth, "width", "w", 80, "wrap width")
	rulesCmd.Flags().StringVar(&rulesStyle, "style", "", "glamour style (dark, light, notty, ...); detected when empty")
	rulesCmd.Flags().BoolVar(&rulesRaw, "raw", false, "print the markdown source")
	rootCmd.AddCommand(rulesCmd)
}
