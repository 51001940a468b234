package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wingbeat/wingbeat/internal/config"
	"github.com/wingbeat/wingbeat/internal/inbox"
	"github.com/wingbeat/wingbeat/internal/processor"
	"github.com/wingbeat/wingbeat/internal/swarm"
)

var (
	watchSeed  int64
	watchSteps int
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory for prompt files",
	Long: `Watch a directory's .wingbeat/inbox for dropped prompt files.

Each *.txt file dropped into the inbox is read, sent through the swarm,
and its collected output printed. The watch loop runs until interrupted
or until a stop signal file appears under .wingbeat/signals.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Int64Var(&watchSeed, "seed", 0, "Random seed (0 for time-based)")
	watchCmd.Flags().IntVar(&watchSteps, "steps", 5, "Simulation steps a prompt spins before collection")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	in, err := inbox.NewPromptInbox(root)
	if err != nil {
		return fmt.Errorf("open inbox: %w", err)
	}
	defer in.Close()

	rng := newRand(watchSeed, cfg)
	sw := swarm.NewSwarm(rng)
	p := processor.New(sw, rng)

	fmt.Printf("%s watching %s (drop *.txt files to submit prompts)\n",
		color.CyanString("▸"), in.InboxDir())

	// Pick up anything dropped before the watcher started.
	if err := in.Scan(); err != nil {
		return fmt.Errorf("scan inbox: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Swarm.TickInterval)
	defer ticker.Stop()

	// Prompts spin for watchSteps ticks before being collected.
	spinning := make(map[uuid.UUID]int)
	dt := cfg.Swarm.TickInterval.Seconds()

	for {
		select {
		case <-sigCh:
			fmt.Printf("\n%s interrupted\n", color.YellowString("▸"))
			return nil
		case prompt := <-in.Prompts():
			id := p.SendPrompt(prompt)
			spinning[id] = 0
			fmt.Printf("%s prompt %s: %s\n", color.CyanString("▸"), id.String()[:8], truncate(prompt, 60))
		case <-ticker.C:
			if in.ShouldStop() {
				fmt.Printf("%s stop signal received\n", color.YellowString("▸"))
				return nil
			}
			in.Scan()
			if len(spinning) == 0 {
				continue
			}
			p.ProcessStep(dt)
			for id, steps := range spinning {
				spinning[id] = steps + 1
				if spinning[id] < watchSteps {
					continue
				}
				output, err := p.Collect(id)
				if err != nil {
					fmt.Fprintf(os.Stderr, "collect %s: %v\n", id.String()[:8], err)
				} else {
					fmt.Printf("%s %s: %s\n", color.GreenString("✓"), id.String()[:8], truncate(output, 60))
				}
				p.Remove(id)
				delete(spinning, id)
			}
		}
	}
}
