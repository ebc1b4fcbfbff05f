//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package rawterm

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Terminal reads one byte at a time with ICANON and ECHO cleared. The
// previous attributes are captured before and restored after every byte, so
// the terminal is never left in raw mode between reads.
type Terminal struct {
	f   *os.File
	fd  int
	buf [1]byte

	mu    sync.Mutex
	saved *unix.Termios // non-nil while raw mode is held
}

func openTerminal(f *os.File) ByteSource {
	return &Terminal{f: f, fd: int(f.Fd())}
}

func (t *Terminal) ReadByte() (b byte, err error) {
	old, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return 0, fmt.Errorf("%w: get attributes: %v", ErrTerminal, err)
	}
	raw := *old
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	t.mu.Lock()
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &raw); err != nil {
		t.mu.Unlock()
		return 0, fmt.Errorf("%w: set raw mode: %v", ErrTerminal, err)
	}
	t.saved = old
	t.mu.Unlock()
	defer func() {
		if rerr := t.Restore(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	n, err := t.f.Read(t.buf[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: empty read", ErrTerminal)
	}
	return t.buf[0], nil
}

// Restore puts back the attributes captured by a ReadByte that is still in
// progress. It is a no-op when raw mode is not held, so it is safe to call
// from a signal handler while another goroutine is blocked reading.
func (t *Terminal) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saved == nil {
		return nil
	}
	old := t.saved
	t.saved = nil
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, old); err != nil {
		return fmt.Errorf("%w: restore attributes: %v", ErrTerminal, err)
	}
	return nil
}
