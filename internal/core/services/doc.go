// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Store is the single writer for all cached knowledge-base state;
// the Watcher and SearchSession layer time-driven behaviour on top of it.
package services
