// Package cli implements the kbsync command-line interface using cobra.
//
// Commands talk to the core through the driving ports only. Services are
// injected once at startup via SetServices; every command guards against a
// nil service so partial wiring fails loudly instead of panicking.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tidewater-labs/kbsync/internal/core/ports/driven"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driving"
	"github.com/tidewater-labs/kbsync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected at startup.
var (
	knowledgeService  driving.KnowledgeService
	processingWatcher driving.ProcessingWatcher
	configStore       driven.ConfigStore
)

var (
	flagBot     string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "kbsync",
	Short: "Client-side sync for chatbot knowledge bases",
	Long: `kbsync keeps a local cache of a chatbot's knowledge base in step with
the remote service: documents, notes, custom instructions, and search.

Most commands operate on one bot, selected with --bot or the
api.default_bot config key.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagBot, "bot", "b", "", "bot ID to operate on")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
}

// SetServices injects the core services into the command tree.
func SetServices(svc driving.KnowledgeService, watcher driving.ProcessingWatcher, cfg driven.ConfigStore) {
	knowledgeService = svc
	processingWatcher = watcher
	configStore = cfg
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// botID resolves the bot to operate on: the --bot flag first, then the
// api.default_bot config key.
func botID() string {
	if flagBot != "" {
		return flagBot
	}
	if configStore != nil {
		return configStore.GetString("api.default_bot")
	}
	return ""
}
