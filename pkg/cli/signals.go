package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a child context that is cancelled on SIGINT
// or SIGTERM. The returned stop function releases the signal registration;
// a second signal after stop terminates the process with the default
// behavior.
func SetupSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
