package command

import "context"

type Client interface {
	// HandleUpdates runs the long-polling update loop until ctx is done.
	HandleUpdates(ctx context.Context) error
}
