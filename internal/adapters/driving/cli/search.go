package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base",
	Long: `Searches documents and notes. Results are server-ranked; the client
never re-orders or filters them.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	results, err := knowledgeService.Search(context.Background(), bot, args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Title
		if title == "" {
			title = results[i].ID
		}

		if results[i].Score != nil {
			cmd.Printf("  [%d] %s (%s, %.2f)\n", i+1, title, results[i].Type, *results[i].Score)
		} else {
			cmd.Printf("  [%d] %s (%s)\n", i+1, title, results[i].Type)
		}
		if results[i].Source != nil && *results[i].Source != "" {
			cmd.Printf("      Source: %s\n", *results[i].Source)
		}
		if results[i].Content != "" {
			cmd.Printf("      %s\n", truncate(results[i].Content, 160))
		}
		cmd.Println()
	}

	return nil
}
