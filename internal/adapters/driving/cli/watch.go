package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow processing documents until they settle",
	Long: `Polls the server at a fixed interval while any of the bot's documents
is still processing, patching statuses into the cache as they change.
Returns when every document reaches ready or failed, or on Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil || processingWatcher == nil {
		return errors.New("watcher not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	// Prime the cache so the watcher sees the current processing set.
	docs, err := knowledgeService.LoadDocuments(context.Background(), bot)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	processing := 0
	for i := range docs {
		if !docs[i].Status.Terminal() {
			processing++
		}
	}
	if processing == 0 {
		cmd.Println("Nothing is processing.")
		return nil
	}

	cmd.Printf("Watching %d processing document(s). Ctrl-C to stop.\n", processing)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := processingWatcher.Watch(ctx, bot); err != nil {
		if errors.Is(err, context.Canceled) {
			cmd.Println("\nStopped.")
			return nil
		}
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Println("All documents settled.")
	for _, doc := range knowledgeService.Documents(bot) {
		cmd.Printf("  %s  %-10s %s\n", doc.ID, doc.Status, doc.Filename)
	}
	return nil
}
