package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/newthinker/chartsight/internal/core"
	"github.com/newthinker/chartsight/internal/logger"
	"github.com/spf13/cobra"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [image]",
	Short: "Analyze a chart screenshot",
	Long:  "Run one analysis on a chart screenshot and print the resulting signal",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the signal as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	a, err := buildApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	if err := a.LoadImageFile(args[0]); err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	sig, err := a.Analyze(cmd.Context())
	if err != nil {
		var cerr *core.Error
		if errors.As(err, &cerr) {
			return fmt.Errorf("analysis failed: %s", cerr.Message)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		out, err := json.MarshalIndent(sig, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printSignal(*sig)
	return nil
}

func printSignal(sig core.Signal) {
	fmt.Println("=== CHARTSIGHT Signal ===")
	fmt.Printf("Type:       %s\n", sig.Type)
	fmt.Printf("Confidence: %.0f%%\n", sig.Confidence)
	fmt.Printf("Timeframe:  %s\n", sig.Timeframe)
	fmt.Printf("Validity:   %s\n", sig.Validity)
	fmt.Printf("Time:       %s\n", sig.Timestamp.Format("15:04:05"))
	fmt.Printf("Reasoning:  %s\n", sig.Reasoning)
}
