package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge-base statistics",
	Long: `Shows the server-computed aggregate counters for the bot. Counters
are never derived from the local cache.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Reprocess every document server-side",
	Long: `Asks the server to rebuild the bot's index from scratch. The command
returns once the request is accepted; run 'kbsync stats' to observe the
effects.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reindexCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	stats, err := knowledgeService.LoadStats(context.Background(), bot)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	cmd.Printf("Knowledge base for bot %s:\n\n", bot)
	cmd.Printf("  Documents:   %d total (%d ready, %d processing, %d failed)\n",
		stats.TotalDocuments, stats.DocumentsReady, stats.DocumentsProcessing, stats.DocumentsFailed)
	cmd.Printf("  Chunks:      %d\n", stats.TotalChunks)
	cmd.Printf("  Notes:       %d\n", stats.TotalNotes)
	if stats.HasInstructions {
		cmd.Printf("  Instruction: set\n")
	} else {
		cmd.Printf("  Instruction: not set\n")
	}

	return nil
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	if err := knowledgeService.Reindex(context.Background(), bot); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	cmd.Println("Reindex requested.")
	return nil
}
