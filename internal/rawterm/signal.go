package rawterm

import (
	"os"
	"os/signal"
	"syscall"
)

// Restorer is a ByteSource that changes terminal state and can put it back.
type Restorer interface {
	Restore() error
}

// WatchSignals listens for SIGINT and SIGTERM for as long as src may hold
// the terminal in raw mode. On a signal the terminal is restored first, then
// onSignal runs; onSignal is expected to end the process. Sources that never
// touch the terminal are not watched. The returned func stops the watch.
func WatchSignals(src ByteSource, onSignal func(os.Signal)) (stop func()) {
	r, ok := src.(Restorer)
	if !ok {
		return func() {}
	}
	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			_ = r.Restore()
			onSignal(sig)
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
