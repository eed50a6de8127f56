// Command rowopenctl drives a DRAM row-open prefetch scheduler outside
// of any particular simulator, either by replaying a trace file or by
// serving a live scheduler behind an HTTP statistics endpoint.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("rowopenctl: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rowopenctl",
		Short: "Drive a DRAM row-open prefetch scheduler",
	}

	root.PersistentFlags().String("envfile", ".env", "dotenv file loaded into the process environment (not read for scheduler settings)")
	root.PersistentFlags().Int("capacity", 126, "queue capacity")
	root.PersistentFlags().Uint64("slack", 1, "issuable slack cycles past ready")
	root.PersistentFlags().Float64("density-weight", 0.6, "row-fullness score weight")
	root.PersistentFlags().Float64("confidence-weight", 0.4, "mean-confidence score weight")
	root.PersistentFlags().Uint32("max-confidence", 16, "confidence normalisation denominator")
	root.PersistentFlags().Int("row-buffer-size", 128, "row-buffer normalisation denominator")

	root.AddCommand(newReplayCmd(), newServeCmd())
	return root
}

// loadEnv loads envFile if present; a missing file is not an error since
// command-line flags alone are a valid configuration source.
func loadEnv(envFile string) {
	if envFile == "" {
		return
	}
	if _, err := os.Stat(envFile); err != nil {
		return
	}
	if err := godotenv.Load(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "rowopenctl: failed to load %s: %v\n", envFile, err)
	}
}
