package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"library-lending/config"
	"library-lending/library"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// app carries what every command needs once the store is open.
type app struct {
	cfg *config.Config
	log *slog.Logger
	mgr *library.LibraryManager

	in  io.Reader
	out io.Writer
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	var (
		file     string
		backend  string
		loanDays int
		logLevel string
	)

	root := &cobra.Command{
		Use:   "library",
		Short: "Track lending of library books",
		Long: `library keeps a catalog of books and who has borrowed them.
Run it without a command for the interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("file") {
				cfg.File = file
			}
			if flags.Changed("backend") {
				cfg.Backend = backend
			}
			if flags.Changed("loan-days") {
				cfg.LoanDays = loanDays
			}
			if flags.Changed("log-level") {
				if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
					return fmt.Errorf("--log-level: %w", err)
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.open(cfg)
		},
		RunE: a.withStore(func(cmd *cobra.Command, args []string) error {
			return a.runMenu()
		}),
	}
	root.SetIn(in)
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&file, "file", "", "path of the library store (default library.json, or library.db for sqlite)")
	pf.StringVar(&backend, "backend", config.BackendJSON, "store backend: json or sqlite")
	pf.IntVar(&loanDays, "loan-days", library.DefaultLoanDays, "default loan period in days")
	pf.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newListCmd(a),
		newBorrowCmd(a),
		newReturnCmd(a),
		newAddCmd(a),
		newSearchCmd(a),
		newOverdueCmd(a),
	)
	return root
}

func (a *app) open(cfg *config.Config) error {
	a.cfg = cfg
	a.log = cfg.NewLogger()

	store, err := cfg.OpenStore()
	if err != nil {
		return err
	}

	mgr, err := library.NewLibraryManager(store,
		library.WithLogger(a.log),
		library.WithLoanDays(cfg.LoanDays),
	)
	if err != nil {
		store.Close()
		a.log.Error("cannot open library", slog.String("path", cfg.StorePath()), slog.Any("error", err))
		return err
	}
	a.mgr = mgr
	return nil
}

// withStore closes the store once fn returns, whether or not it failed.
func (a *app) withStore(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if cerr := a.close(); err == nil {
			err = cerr
		}
		return err
	}
}

func (a *app) close() error {
	if a.mgr == nil {
		return nil
	}
	err := a.mgr.Close()
	a.mgr = nil
	return err
}

// interactive reports whether prompts should be shown: only when input
// comes from a terminal.
func (a *app) interactive() bool {
	f, ok := a.in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
