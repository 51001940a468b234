package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wingbeat/wingbeat/internal/config"
	"github.com/wingbeat/wingbeat/internal/dispatch"
	"github.com/wingbeat/wingbeat/internal/processor"
	"github.com/wingbeat/wingbeat/internal/state"
	"github.com/wingbeat/wingbeat/internal/swarm"
)

var (
	runSteps   int
	runSeed    int64
	runNoStore bool
	runVerbose bool
)

var runCmd = &cobra.Command{
	Use:   "run <prompt>",
	Short: "Send a prompt through the tornado swarm",
	Long: `Send a prompt through the tornado swarm and print the collected output.

The prompt is fragmented into 1-3 word pieces, each piece becomes a
subgraph swept into a tornado, and the swarm is stepped until the
fragments have spun against each other. The assembled output is then
collected and printed.

Submitted prompts are persisted so 'wingbeat status' can list them;
use --no-store to skip persistence.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPrompt,
}

func init() {
	runCmd.Flags().IntVar(&runSteps, "steps", 5, "Number of simulation steps before collecting")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "Random seed (0 for time-based)")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "Do not persist the prompt to the database")
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "Print swarm events as they happen")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	prompt := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rng := newRand(runSeed, cfg)
	emitter := swarm.NewEventEmitter(256)
	defer emitter.Close()

	sw := swarm.NewSwarm(rng, swarm.WithEmitter(emitter))

	opts := []processor.Option{processor.WithEmitter(emitter)}
	if !runNoStore {
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		opts = append(opts, processor.WithStore(db))
	}
	if cfg.Logging.Debug {
		cwd, _ := os.Getwd()
		logger := swarm.NewDebugLoggerForDir(cwd)
		defer logger.Close()
		swarm.SetLogger(logger)
		opts = append(opts, processor.WithLogger(logger))
	}

	p := processor.New(sw, rng, opts...)

	id := p.SendPrompt(prompt)
	fmt.Printf("%s prompt %s sent into %d tornadoes\n",
		color.CyanString("▸"), id.String()[:8], sw.Len())

	dispatchToNodes(cfg, id.String(), prompt)

	dt := cfg.Swarm.TickInterval.Seconds()
	for i := 0; i < runSteps; i++ {
		connections := p.ProcessStep(dt)
		if runVerbose {
			fmt.Printf("  step %d: %d subgraph connections\n", i+1, connections)
		}
		drainEvents(emitter, runVerbose)
	}

	output, err := p.Collect(id)
	if err != nil {
		return fmt.Errorf("collect output: %w", err)
	}
	drainEvents(emitter, runVerbose)

	fmt.Printf("%s %s\n", color.GreenString("✓"), output)
	return nil
}

// newRand builds the simulation's random source, preferring the flag seed,
// then the configured seed, then the clock.
func newRand(flagSeed int64, cfg *config.Config) *rand.Rand {
	seed := flagSeed
	if seed == 0 {
		seed = cfg.Swarm.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// openStore opens the prompt database at the configured or default path.
func openStore(cfg *config.Config) (*state.DB, error) {
	dbPath := cfg.Storage.DBPath
	if dbPath == "" {
		dbPath = state.DefaultDBPath()
	}
	db, err := state.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// dispatchToNodes forwards the prompt to any configured remote nodes.
// Nodes are configured as "id=url" pairs; failures are reported but never
// abort the local run.
func dispatchToNodes(cfg *config.Config, taskID, prompt string) {
	if len(cfg.Dispatch.Nodes) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal dispatch payload: %v\n", err)
		return
	}
	msg := dispatch.TaskMessage{TaskID: taskID, Payload: payload}

	d := dispatch.NewDispatcher()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dispatch.Timeout)
	defer cancel()

	for _, entry := range cfg.Dispatch.Nodes {
		nodeID, endpoint, ok := strings.Cut(entry, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "skipping malformed node entry %q (want id=url)\n", entry)
			continue
		}
		node := dispatch.Node{ID: nodeID, Endpoint: endpoint}
		if err := d.DispatchTask(ctx, node, msg); err != nil {
			fmt.Fprintf(os.Stderr, "dispatch to %s failed: %v\n", nodeID, err)
			continue
		}
		fmt.Printf("%s dispatched to node %s\n", color.CyanString("▸"), nodeID)
	}
}

// drainEvents empties the emitter's queue, optionally printing each event.
func drainEvents(emitter *swarm.EventEmitter, verbose bool) {
	for {
		select {
		case ev := <-emitter.Events():
			if verbose {
				fmt.Printf("  %s %s\n", color.YellowString(string(ev.Type)), ev.Message)
			}
		default:
			return
		}
	}
}
