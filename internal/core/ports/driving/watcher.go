package driving

import "context"

// ProcessingWatcher re-fetches documents stuck in the processing state at a
// fixed interval until every document for the bot reaches a terminal
// status. There is no backoff and no tick cap; the watch ends only when the
// processing set becomes empty or the context is cancelled.
type ProcessingWatcher interface {
	// Watch blocks, polling until no document for the bot is processing
	// or ctx is cancelled. Returns ctx.Err() on cancellation, nil when
	// the processing set drained.
	Watch(ctx context.Context, botID string) error

	// Start launches Watch in the background. Starting an already-watched
	// bot is a no-op and returns false.
	Start(ctx context.Context, botID string) bool

	// Stop cancels the background watch for a bot, if any.
	Stop(botID string)

	// Watching reports whether a background watch is active for the bot.
	Watching(botID string) bool

	// StopAll cancels every background watch and waits for them to exit.
	StopAll()
}
