package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var instructionCmd = &cobra.Command{
	Use:   "instruction",
	Short: "Manage the bot's custom instruction",
	Long: `Shows, sets, or clears the single custom-instruction blob the bot
carries. Clearing leaves an empty instruction in place rather than
deleting it.`,
}

var instructionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current instruction",
	Args:  cobra.NoArgs,
	RunE:  runInstructionShow,
}

var instructionSetCmd = &cobra.Command{
	Use:   "set [text]",
	Short: "Set the instruction",
	Long: `Sets the instruction from the argument, or from a file with --file.
The server answers with the canonical stored form, which replaces the
cached value.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstructionSet,
}

var instructionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the instruction",
	Args:  cobra.NoArgs,
	RunE:  runInstructionClear,
}

var instructionFile string

func init() {
	instructionSetCmd.Flags().StringVarP(&instructionFile, "file", "f", "", "read instruction text from file")

	instructionCmd.AddCommand(instructionShowCmd)
	instructionCmd.AddCommand(instructionSetCmd)
	instructionCmd.AddCommand(instructionClearCmd)
	rootCmd.AddCommand(instructionCmd)
}

func runInstructionShow(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	ins, err := knowledgeService.LoadInstruction(context.Background(), bot)
	if err != nil {
		return fmt.Errorf("failed to load instruction: %w", err)
	}

	if !ins.IsSet() {
		cmd.Println("No instruction set.")
		return nil
	}

	cmd.Println(ins.Content)
	if ins.UpdatedAt != nil {
		cmd.Printf("\nLast updated: %s\n", ins.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runInstructionSet(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	var content string
	switch {
	case instructionFile != "":
		data, err := os.ReadFile(instructionFile)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		content = string(data)
	case len(args) == 1:
		content = args[0]
	default:
		return errors.New("provide instruction text or --file")
	}

	ins, err := knowledgeService.SaveInstruction(context.Background(), bot, content)
	if err != nil {
		return fmt.Errorf("failed to save instruction: %w", err)
	}

	cmd.Printf("Instruction saved (%d characters).\n", len(ins.Content))
	return nil
}

func runInstructionClear(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	bot, err := requireBot()
	if err != nil {
		return err
	}

	if err := knowledgeService.ClearInstruction(context.Background(), bot); err != nil {
		return fmt.Errorf("failed to clear instruction: %w", err)
	}

	cmd.Println("Instruction cleared.")
	return nil
}
