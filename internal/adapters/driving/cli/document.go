package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage knowledge-base documents",
	Long:  `List, upload, delete, retry, and inspect knowledge-base documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a document",
	Long: `Uploads a file to the bot's knowledge base. The server assigns the
document ID and starts ingestion; use 'kbsync watch' to follow progress.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentUpload,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentRetryCmd = &cobra.Command{
	Use:   "retry [doc-id]",
	Short: "Retry a failed document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRetry,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Show chunk previews for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var documentListJSON bool

func init() {
	documentListCmd.Flags().BoolVar(&documentListJSON, "json", false, "output as JSON")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentUploadCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentRetryCmd)
	documentCmd.AddCommand(documentChunksCmd)
	rootCmd.AddCommand(documentCmd)
}

// requireBot fails with a usage hint when no bot is selected.
func requireBot() (string, error) {
	bot := botID()
	if bot == "" {
		return "", errors.New("no bot selected: pass --bot or set api.default_bot")
	}
	return bot, nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	docs, err := knowledgeService.LoadDocuments(context.Background(), bot)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentListJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Printf("No documents found for bot: %s\n", bot)
		return nil
	}

	cmd.Printf("Documents for bot %s:\n\n", bot)
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File:    %s (%s)\n", docs[i].Filename, formatSize(docs[i].FileSize))
		cmd.Printf("    Status:  %s\n", formatStatus(docs[i]))
		cmd.Printf("    Uploaded: %s\n", docs[i].UploadedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentUpload(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	cmd.Printf("Uploading %s...\n", filepath.Base(path))

	docID, err := knowledgeService.UploadDocument(context.Background(), bot, filepath.Base(path), info.Size(), f)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Printf("Uploaded as %s. Ingestion runs server-side; 'kbsync watch' follows progress.\n", docID)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	docID := args[0]
	if err := knowledgeService.DeleteDocument(context.Background(), bot, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", docID)
	return nil
}

func runDocumentRetry(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	docID := args[0]
	if err := knowledgeService.RetryDocument(context.Background(), bot, docID); err != nil {
		return fmt.Errorf("failed to retry document: %w", err)
	}

	cmd.Printf("Document %s re-queued for processing.\n", docID)
	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	docID := args[0]
	chunks, err := knowledgeService.LoadChunks(context.Background(), bot, docID)
	if err != nil {
		return fmt.Errorf("failed to load chunks: %w", err)
	}

	if len(chunks) == 0 {
		cmd.Printf("No chunks for document: %s\n", docID)
		return nil
	}

	for i := range chunks {
		cmd.Printf("[%d] %s\n", chunks[i].Index, truncate(chunks[i].Content, 200))
	}
	cmd.Printf("\nTotal: %d chunks\n", len(chunks))
	return nil
}

// formatStatus renders the status with chunk count for ready documents.
func formatStatus(doc domain.Document) string {
	if doc.Status == domain.StatusReady {
		return fmt.Sprintf("%s (%d chunks)", doc.Status, doc.ChunkCount)
	}
	return string(doc.Status)
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
