package ports

import "context"

// Watcher observes notebook files for content changes in watch mode.
// Implementations coalesce bursts of events and suppress writes that
// do not change file content.
type Watcher interface {
	// Watch begins watching the given files and invokes onChange with
	// the batch of changed paths. It returns once watching is
	// established; events are delivered until ctx is done or Stop is
	// called.
	Watch(ctx context.Context, paths []string, onChange func(changed []string)) error

	// Stop stops the watcher and releases its resources.
	Stop() error
}
