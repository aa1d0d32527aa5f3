package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/clusterscheduler/pkg/log"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clusterplan",
	Short: "Run one scheduling pass over a YAML fixture and print the resulting transition graph",
	Long: `clusterplan loads a cluster snapshot (nodes, resources, colocations,
status, recurring templates) from a YAML fixture and runs it through a
single scheduler.Pass call, printing the resulting actions and ordering
edges.

It exists for local development and debugging a scheduling decision in
isolation, not as an operator-facing tool.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	rootCmd.Flags().StringP("fixture", "f", "", "path to the YAML fixture (required)")
	rootCmd.Flags().Bool("verbose", false, "print unrunnable and optional actions too")
	rootCmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.MarkFlagRequired("fixture")
}

func runPlan(cmd *cobra.Command, args []string) error {
	fixturePath, _ := cmd.Flags().GetString("fixture")
	verbose, _ := cmd.Flags().GetBool("verbose")
	logLevel, _ := cmd.Flags().GetString("log-level")

	log.Init(log.Config{Level: log.Level(logLevel), JSONOutput: false})

	f, err := loadFixture(fixturePath)
	if err != nil {
		return err
	}

	graph := runPass(f.toSchedulerInput())
	printGraph(graph, verbose)
	return nil
}

func printGraph(graph *types.TransitionGraph, verbose bool) {
	fmt.Printf("Transition graph %s (effective_time=%d)\n", graph.ID, graph.EffectiveTime)
	fmt.Println()

	shown := 0
	fmt.Printf("%-4s %-20s %-16s %-12s %-8s %-8s %-8s %s\n",
		"ID", "RESOURCE", "NODE", "TASK", "INTERVAL", "RUNNABLE", "OPTIONAL", "REASON")
	for _, a := range graph.Actions {
		if !verbose && (!a.Runnable || a.Optional) {
			continue
		}
		fmt.Printf("%-4d %-20s %-16s %-12s %-8d %-8t %-8t %s\n",
			a.ID, a.ResourceID, a.NodeID, a.Task, a.Interval, a.Runnable, a.Optional, a.Reason)
		shown++
	}
	if shown == 0 {
		fmt.Println("(no actions)")
	}

	if len(graph.Orderings) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Orderings:")
	for _, o := range graph.Orderings {
		fmt.Printf("  %d -> %d  kind=%s  first_implies_then=%t  unrunnable_first_blocks=%t\n",
			o.FirstActionID, o.ThenActionID, orderKindString(o.Kind),
			o.Flags.FirstImpliesThen, o.Flags.UnrunnableFirstBlocks)
	}
}

func orderKindString(k types.OrderKind) string {
	switch k {
	case types.OrderMandatory:
		return "mandatory"
	case types.OrderOptional:
		return "optional"
	case types.OrderSerialize:
		return "serialize"
	default:
		return "unknown"
	}
}
