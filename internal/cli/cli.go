package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/pplanner/pplanner/internal/cmdtrie"
	"github.com/pplanner/pplanner/internal/conz"
	"github.com/pplanner/pplanner/internal/logging"
	"github.com/pplanner/pplanner/internal/rawterm"
	"github.com/pplanner/pplanner/internal/store"
	"github.com/pplanner/pplanner/internal/wizard"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitNotFound = 3
	ExitConflict = 4
	ExitInternal = 10

	ExitInterrupted = 130
	ExitTerminated  = 143
)

type GlobalFlags struct {
	Root    string
	Debug   bool
	NoColor bool
}

type streams struct {
	in      rawterm.ByteSource
	out     io.Writer
	errOut  io.Writer
	profile func(mode string, noColor bool) termenv.Profile
}

// Run is the process entry point. While it runs, SIGINT and SIGTERM put the
// terminal back into its original mode before the process exits.
func Run(args []string) int {
	in := rawterm.Open(os.Stdin)
	stop := rawterm.WatchSignals(in, func(sig os.Signal) {
		fmt.Fprintln(os.Stdout)
		os.Exit(signalExitCode(sig))
	})
	defer stop()
	return run(args, streams{
		in:     in,
		out:    os.Stdout,
		errOut: os.Stderr,
		profile: func(mode string, noColor bool) termenv.Profile {
			return conz.Profile(os.Stdout, mode, noColor)
		},
	})
}

func signalExitCode(sig os.Signal) int {
	if sig == syscall.SIGTERM {
		return ExitTerminated
	}
	return ExitInterrupted
}

func run(args []string, st streams) int {
	code := ExitOK
	root := newRootCmd(st, &code)
	root.SetArgs(args)
	root.SetOut(st.out)
	root.SetErr(st.errOut)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(st.errOut, "pplanner:", err)
		return ExitUsage
	}
	return code
}

func newRootCmd(st streams, code *int) *cobra.Command {
	gf := GlobalFlags{}
	cmd := &cobra.Command{
		Use:   "pplanner [command words...] [: answers, ...]",
		Short: "pplanner: a ascii cli time management tool",
		Long: `pplanner manages points (appointments), todos and deadlines.

Without arguments it starts an interactive prompt; type "help" there.
With arguments the words are run as one command, for example:

  pplanner ls todos
  pplanner mk todo : buy milk, 3, todo`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*code = execute(cmd.Context(), gf, st, args)
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.PersistentFlags().StringVar(&gf.Root, "root", store.DefaultRoot(), "Store root (default: ~/.pplanner or PPLANNER_ROOT)")
	cmd.PersistentFlags().BoolVar(&gf.Debug, "debug", false, "Log dispatch details to stderr")
	cmd.PersistentFlags().BoolVar(&gf.NoColor, "no-color", false, "Disable colored output")
	return cmd
}

func execute(ctx context.Context, gf GlobalFlags, st streams, args []string) (code int) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logging.NewNop()
	if gf.Debug {
		log = logging.NewWriter(st.errOut, slog.LevelDebug)
	}

	ws, err := store.Open(ctx, gf.Root)
	if err != nil {
		fmt.Fprintln(st.errOut, "pplanner:", err)
		return ExitInternal
	}
	defer ws.Close()
	log.Debug("store opened", "root", ws.Root, "backend", ws.BackendName())

	defer func() {
		if r := recover(); r != nil {
			log.Error("fatal", "panic", r)
			fmt.Fprintln(st.errOut, "pplanner: fatal:", r)
			code = ExitInternal
		}
	}()

	out := conz.New(st.out, st.profile(ws.Config().Color, gf.NoColor))
	s := NewSession(ws, st.in, out, log)

	if len(args) == 0 {
		if err := s.Loop(ctx); err != nil {
			log.Error("session ended", "error", err)
			fmt.Fprintln(st.errOut, "pplanner:", err)
			code = ExitInternal
		}
	} else {
		code = exitCode(s.Dispatch(ctx, strings.Join(args, " ")))
	}

	if err := s.Close(ctx); err != nil {
		return ExitInternal
	}
	return code
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, cmdtrie.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, store.ErrConflict):
		return ExitConflict
	case errors.Is(err, store.ErrInvalid), errors.Is(err, wizard.ErrInvalid), errors.Is(err, wizard.ErrAborted):
		return ExitUsage
	default:
		return ExitInternal
	}
}
