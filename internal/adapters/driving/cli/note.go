package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tidewater-labs/kbsync/internal/core/domain"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage knowledge-base notes",
	Long:  `List, create, update, and delete freeform notes.`,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long: `Lists notes, optionally filtered server-side by tags and free text.
Filtering always happens on the server; the local cache is replaced with
whatever the server returns.`,
	Args: cobra.NoArgs,
	RunE: runNoteList,
}

var noteAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteAdd,
}

var noteUpdateCmd = &cobra.Command{
	Use:   "update [note-id]",
	Short: "Update a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteUpdate,
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete [note-id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteDelete,
}

var noteTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List known tags",
	Args:  cobra.NoArgs,
	RunE:  runNoteTags,
}

var (
	noteFilterTags   []string
	noteFilterSearch string
	noteListJSON     bool
	noteContent      string
	noteTitle        string
	noteTags         []string
)

func init() {
	noteListCmd.Flags().StringSliceVarP(&noteFilterTags, "tag", "t", nil, "filter by tag (repeatable)")
	noteListCmd.Flags().StringVarP(&noteFilterSearch, "search", "s", "", "free-text filter")
	noteListCmd.Flags().BoolVar(&noteListJSON, "json", false, "output as JSON")

	noteAddCmd.Flags().StringVarP(&noteContent, "content", "c", "", "note content")
	noteAddCmd.Flags().StringSliceVarP(&noteTags, "tag", "t", nil, "tag to attach (repeatable)")

	noteUpdateCmd.Flags().StringVar(&noteTitle, "title", "", "new title")
	noteUpdateCmd.Flags().StringVarP(&noteContent, "content", "c", "", "new content")
	noteUpdateCmd.Flags().StringSliceVarP(&noteTags, "tag", "t", nil, "replacement tags (repeatable)")

	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteUpdateCmd)
	noteCmd.AddCommand(noteDeleteCmd)
	noteCmd.AddCommand(noteTagsCmd)
	rootCmd.AddCommand(noteCmd)
}

func runNoteList(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	filter := domain.NoteFilter{Tags: noteFilterTags, Search: noteFilterSearch}
	notes, err := knowledgeService.LoadNotes(context.Background(), bot, filter)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if noteListJSON {
		data, err := json.MarshalIndent(notes, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal notes: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(notes) == 0 {
		cmd.Println("No notes found.")
		return nil
	}

	for i := range notes {
		cmd.Printf("  %s  %s\n", notes[i].ID, notes[i].Title)
		if len(notes[i].Tags) > 0 {
			cmd.Printf("      Tags: %s\n", strings.Join(notes[i].Tags, ", "))
		}
		cmd.Printf("      %s\n", truncate(notes[i].Content, 120))
		cmd.Println()
	}

	cmd.Printf("Total: %d notes\n", len(notes))
	return nil
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	draft := domain.NoteDraft{
		Title:   args[0],
		Content: noteContent,
		Tags:    noteTags,
	}

	note, err := knowledgeService.CreateNote(context.Background(), bot, draft)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	cmd.Printf("Note created: %s\n", note.ID)
	return nil
}

func runNoteUpdate(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	draft := domain.NoteDraft{
		Title:   noteTitle,
		Content: noteContent,
		Tags:    noteTags,
	}

	note, err := knowledgeService.UpdateNote(context.Background(), bot, args[0], draft)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	cmd.Printf("Note updated: %s\n", note.ID)
	return nil
}

func runNoteDelete(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	if err := knowledgeService.DeleteNote(context.Background(), bot, args[0]); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	cmd.Printf("Note %s deleted.\n", args[0])
	return nil
}

func runNoteTags(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	// Tags refresh is best-effort; show whatever the cache holds after.
	knowledgeService.ReloadTags(context.Background(), bot)

	tags := knowledgeService.Tags(bot)
	if len(tags) == 0 {
		cmd.Println("No tags.")
		return nil
	}
	for _, tag := range tags {
		cmd.Printf("  %s\n", tag)
	}
	return nil
}
