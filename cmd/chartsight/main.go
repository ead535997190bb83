package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "chartsight",
	Short: "CHARTSIGHT - AI chart screenshot analysis",
	Long: `CHARTSIGHT analyzes trading chart screenshots with a multimodal AI
model and produces structured BUY/SELL signals with confidence,
timeframe, validity and reasoning, keeping a bounded local history.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
