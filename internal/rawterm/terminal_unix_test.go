//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package rawterm

import (
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type readResult struct {
	b   byte
	err error
}

func openPty(t *testing.T) (ptmx, tty *os.File) {
	t.Helper()
	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = tty.Close()
		_ = ptmx.Close()
	})
	return ptmx, tty
}

// isCooked reports whether ICANON and ECHO are both set on f.
func isCooked(t *testing.T, f *os.File) bool {
	attrs, err := unix.IoctlGetTermios(int(f.Fd()), ioctlGetTermios)
	if err != nil {
		t.Errorf("get attributes: %v", err)
		return false
	}
	l := uint64(attrs.Lflag)
	return l&uint64(unix.ICANON) != 0 && l&uint64(unix.ECHO) != 0
}

// readAsync starts a ReadByte and waits until raw mode is in place.
func readAsync(t *testing.T, term *Terminal, tty *os.File) <-chan readResult {
	t.Helper()
	done := make(chan readResult, 1)
	go func() {
		b, err := term.ReadByte()
		done <- readResult{b: b, err: err}
	}()
	require.Eventually(t, func() bool { return !isCooked(t, tty) }, 5*time.Second, 5*time.Millisecond)
	return done
}

func waitRead(t *testing.T, done <-chan readResult) readResult {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("ReadByte did not return")
		return readResult{}
	}
}

func TestTerminalReadByteRestoresAttributes(t *testing.T) {
	ptmx, tty := openPty(t)
	require.True(t, isCooked(t, tty))
	term := openTerminal(tty).(*Terminal)

	done := readAsync(t, term, tty)
	_, err := ptmx.Write([]byte("x"))
	require.NoError(t, err)

	r := waitRead(t, done)
	require.NoError(t, r.err)
	assert.Equal(t, byte('x'), r.b)
	assert.True(t, isCooked(t, tty), "ICANON and ECHO must be set again after ReadByte")
}

func TestTerminalRestoreWhileBlocked(t *testing.T) {
	ptmx, tty := openPty(t)
	term := openTerminal(tty).(*Terminal)

	done := readAsync(t, term, tty)
	require.NoError(t, term.Restore())
	assert.True(t, isCooked(t, tty))

	_, err := ptmx.Write([]byte("y\n"))
	require.NoError(t, err)
	r := waitRead(t, done)
	require.NoError(t, r.err)
	assert.Equal(t, byte('y'), r.b)
	assert.True(t, isCooked(t, tty))
	assert.NoError(t, term.Restore())
}

func TestWatchSignalsRestoresBeforeHandler(t *testing.T) {
	ptmx, tty := openPty(t)
	term := openTerminal(tty).(*Terminal)

	type seen struct {
		sig    os.Signal
		cooked bool
	}
	got := make(chan seen, 1)
	stop := WatchSignals(term, func(sig os.Signal) {
		got <- seen{sig: sig, cooked: isCooked(t, tty)}
	})
	defer stop()

	done := readAsync(t, term, tty)
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case s := <-got:
		assert.Equal(t, os.Interrupt, s.sig)
		assert.True(t, s.cooked, "terminal must be restored before the handler runs")
	case <-time.After(5 * time.Second):
		t.Fatal("signal handler did not run")
	}

	_, err := ptmx.Write([]byte("z\n"))
	require.NoError(t, err)
	r := waitRead(t, done)
	require.NoError(t, r.err)
	assert.True(t, isCooked(t, tty))
}

func TestWatchSignalsSkipsPlainInput(t *testing.T) {
	stop := WatchSignals(NewPlain(strings.NewReader("")), func(os.Signal) {
		t.Fatal("plain input is never watched")
	})
	stop()
}
