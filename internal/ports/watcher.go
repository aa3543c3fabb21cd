package ports

import "context"

// TreeWatcher reports changes under a directory tree
type TreeWatcher interface {
	// Watch blocks until ctx is done, calling changed after each settled burst
	// of changes. Calls are never concurrent.
	Watch(ctx context.Context, root string, changed func(ctx context.Context)) error
}
