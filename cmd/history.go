package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	historydomain "github.com/zjrosen/sweeper/internal/history/domain"
	"github.com/zjrosen/sweeper/internal/infrastructure/sqlite"
)

var (
	historyOutcome string
	historyPreset  string
	historyLimit   int
	historyFormat  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished games",
	Long:  `List finished games from the history database, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show win, loss and abandon counts",
	Args:  cobra.NoArgs,
	RunE:  runHistoryStats,
}

func init() {
	historyCmd.Flags().StringVar(&historyOutcome, "outcome", "", "only games with this outcome: won, lost or abandoned")
	historyCmd.Flags().StringVar(&historyPreset, "preset", "", "only games played on this preset")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of games (0 for all)")
	historyCmd.PersistentFlags().StringVarP(&historyFormat, "format", "f", "table", "output format: table, json or yaml")
	historyCmd.AddCommand(historyStatsCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistoryRepository() (historydomain.Repository, func(), error) {
	db, err := sqlite.NewDB(cfg.HistoryPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	return db.HistoryRepository(), func() { _ = db.Close() }, nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	outcome := historydomain.Outcome(historyOutcome)
	if outcome != "" && !outcome.Valid() {
		return fmt.Errorf("unknown outcome %q (want won, lost or abandoned)", historyOutcome)
	}

	repo, closeDB, err := openHistoryRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	records, err := repo.List(historydomain.ListFilter{
		Outcome: outcome,
		Preset:  historyPreset,
		Limit:   historyLimit,
	})
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	out := cmd.OutOrStdout()
	switch normalizeFormat(historyFormat) {
	case "json":
		if records == nil {
			records = []*historydomain.Record{}
		}
		return encodeJSON(out, records)
	case "yaml":
		return encodeYAML(out, records)
	case "table", "":
		printRecords(out, records)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", historyFormat)
	}
}

func printRecords(out io.Writer, records []*historydomain.Record) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(out, "No finished games yet.")
		return
	}
	_, _ = fmt.Fprintf(out, "%-16s  %-12s  %-7s  %-9s  %6s  %9s\n", "ENDED", "PRESET", "BOARD", "OUTCOME", "OPENED", "CONTINUES")
	for _, r := range records {
		preset := r.Preset
		if preset == "" {
			preset = "custom"
		}
		board := fmt.Sprintf("%dx%d", r.Rows, r.Columns)
		_, _ = fmt.Fprintf(out, "%-16s  %-12s  %-7s  %-9s  %6d  %9d\n",
			r.EndedAt.Local().Format("2006-01-02 15:04"), preset, board, r.Outcome, r.OpenedCells, r.Continues)
	}
}

func runHistoryStats(cmd *cobra.Command, _ []string) error {
	repo, closeDB, err := openHistoryRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	counts, err := repo.CountByOutcome()
	if err != nil {
		return fmt.Errorf("counting history: %w", err)
	}

	out := cmd.OutOrStdout()
	switch normalizeFormat(historyFormat) {
	case "json":
		return encodeJSON(out, counts)
	case "yaml":
		return encodeYAML(out, counts)
	case "table", "":
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", historyFormat)
	}

	won := counts[historydomain.OutcomeWon]
	lost := counts[historydomain.OutcomeLost]
	abandoned := counts[historydomain.OutcomeAbandoned]
	total := won + lost + abandoned
	_, _ = fmt.Fprintf(out, "Games:      %d\n", total)
	_, _ = fmt.Fprintf(out, "Won:        %d\n", won)
	_, _ = fmt.Fprintf(out, "Lost:       %d\n", lost)
	_, _ = fmt.Fprintf(out, "Abandoned:  %d\n", abandoned)
	if total > 0 {
		_, _ = fmt.Fprintf(out, "Win rate:   %.0f%%\n", 100*float64(won)/float64(total))
	}
	return nil
}

func encodeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
