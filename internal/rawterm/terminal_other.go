//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package rawterm

import "os"

// Raw mode is not wired on this platform; Open falls back to Plain.
func openTerminal(*os.File) ByteSource { return nil }
