package main

import (
	"encoding/json"
	"fmt"

	"github.com/newthinker/chartsight/internal/logger"
	"github.com/spf13/cobra"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show persisted signal history",
	Long:  "Print the stored signal history, newest first",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print the history as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	hist, err := newHistory(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	signals := hist.All()

	if historyJSON {
		out, err := json.MarshalIndent(signals, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(signals) == 0 {
		fmt.Println("No signals recorded yet")
		return nil
	}

	fmt.Printf("=== CHARTSIGHT History (%d signals) ===\n", len(signals))
	for i, sig := range signals {
		fmt.Printf("%2d. [%s] %-4s %3.0f%%  %s / %s\n",
			i+1,
			sig.Timestamp.Format("2006-01-02 15:04:05"),
			sig.Type,
			sig.Confidence,
			sig.Timeframe,
			sig.Validity,
		)
	}
	return nil
}
