package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tidewater-labs/kbsync/internal/adapters/driving/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Watch a directory and upload files as they change",
	Long: `Watches a local directory and uploads new or modified files to the
bot's knowledge base. Files are uploaded after they stop changing for a
short settle period, so editor write bursts produce one upload.

Only supported file types (pdf, txt, md, docx, csv, json, html) are
picked up.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var ingestSettle time.Duration

func init() {
	ingestCmd.Flags().DurationVar(&ingestSettle, "settle", ingest.DefaultSettleDelay, "quiet period before a changed file is uploaded")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	watcher := ingest.NewWatcher(knowledgeService, bot, ingestSettle)
	watcher.OnUpload = func(_, docID string) {
		cmd.Printf("Uploaded: %s\n", docID)
	}

	cmd.Printf("Watching %s. Ctrl-C to stop.\n", args[0])

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watcher.Run(ctx, args[0]); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("ingest watch failed: %w", err)
	}

	cmd.Println("\nStopped.")
	return nil
}
