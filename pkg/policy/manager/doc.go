// Package manager coordinates the lifecycle of Neroli's table-backed
// components.
//
// # Overview
//
// A Bundle groups one consistent generation of the regulatory table
// repository, the physiological rule repository, the compliance
// validator built over the former, and the retrieval engine built over
// the latter. The Manager builds bundles from the configured table
// files and serves the current one to callers.
//
// # Hot Reload
//
// Repositories load their table file once and never re-read it, so
// reloading is build-new-and-swap: the manager constructs a complete
// fresh bundle from disk and replaces the current one atomically.
// Callers that grabbed the old bundle finish their work against a
// consistent snapshot; new callers see the new generation. A reload
// that fails (malformed table) keeps the previous bundle serving and
// records the error in Status.
//
// Rebuilding also resets per-instance retrieval state: an engine that
// permanently downgraded to keyword matching gets a fresh chance at
// vector mode with the next generation.
//
// # Watching
//
//	mgr, _ := manager.NewManager(cfg, logger)
//	if err := mgr.Load(); err != nil {
//		return err
//	}
//	go mgr.Watch(ctx) // blocks until ctx is cancelled
//
//	report := mgr.Bundle().Validator.Validate(ingredients, category)
//
// The watcher registers the table files' parent directories with
// fsnotify and debounces event bursts, so editors that write via
// temp-file-and-rename trigger exactly one reload.
package manager
