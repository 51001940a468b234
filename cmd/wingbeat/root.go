package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wingbeat",
	Short: "Tornado swarm prompt processor",
	Long: `Wingbeat runs prompts and decomposed models through a swarm of
tornadoes. Work is cut into subgraph fragments, swept up and carried by
tornadoes, spun against each other to find compatible pairs, and finally
released and reassembled into an output.

Core capabilities:
- Fragments prompts and distributes them round-robin across tornadoes
- Decomposes layered models layer-wise, per attention head, or token-wise
- Pushes tokenized input through toy transformer layers on the swarm
- Persists submitted prompts and outputs for the status command`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inferCmd)
	rootCmd.AddCommand(swarmCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
