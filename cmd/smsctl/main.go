// smsctl sends, receives, lists and deletes SMS messages through
// ModemManager and keeps a local JSON log of message activity.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"smsctl/internal/config"
	"smsctl/internal/executil"
	"smsctl/internal/modem"
	"smsctl/internal/sms"
	"smsctl/internal/smslog"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2

	msgUnrecognized = "Unrecognized command or incorrect number of arguments. Use --help for usage info."
	msgDeleteUsage  = "--delete requires indices. Use --list to see available messages."
	msgNoModem      = "Please ensure ModemManager service is running and a device is connected."

	serveDefault = "-"
)

const longHelp = `SMS Manager Usage:
  smsctl <phone_number> "<message>"   # Send an SMS
  smsctl                              # Check for new SMS and show log
  smsctl --list                       # List all SMS on the modem with indices
  smsctl --delete <indices>           # Delete SMS from modem
  smsctl --serve[=addr]               # Serve modem and log status over HTTP (read-only)
    Examples:
      --delete 0        (deletes message at index 0)
      --delete 1,3,5    (deletes messages at indices 1, 3, and 5)
      --delete 2-4      (deletes messages at indices 2, 3, and 4)
      --delete 0,2-4    (deletes messages at indices 0, 2, 3, and 4)`

// cliError carries an exit code and the message shown to the user.
type cliError struct {
	code int
	msg  string
	err  error
}

func (e *cliError) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	}
	return e.msg + ": " + e.err.Error()
}

func (e *cliError) Unwrap() error { return e.err }

func usageError(msg string) error {
	return &cliError{code: exitUsage, msg: msg}
}

type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg *config.Config
	log zerolog.Logger

	configPath string
	logFile    string
	list       bool
	deleteSpec string
	serveAddr  string

	newProvider func(cfg *config.Config, log zerolog.Logger) (modem.Provider, error)
	checker     modem.ServiceChecker
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:      stdout,
		stderr:      stderr,
		log:         zerolog.Nop(),
		newProvider: defaultProvider,
		checker:     modem.SystemdChecker{},
	}
}

func defaultProvider(cfg *config.Config, log zerolog.Logger) (modem.Provider, error) {
	runner := executil.NewReal(cfg.ExecTimeout, log)
	mm := modem.NewMMCLI(cfg.MMCLI, runner)
	if cfg.Backend == config.BackendDBus {
		return modem.NewDBus(mm)
	}
	return mm, nil
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "smsctl [phone_number message]",
		Short:         "Send, receive, list and delete SMS through ModemManager",
		Long:          longHelp,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.run,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	f := cmd.Flags()
	// flags end at the phone number so message text may start with "-"
	f.SetInterspersed(false)
	f.BoolVar(&a.list, "list", false, "list all SMS on the modem with indices")
	f.StringVar(&a.deleteSpec, "delete", "", "delete SMS at the given indices (e.g. 0,2-4)")
	f.StringVar(&a.serveAddr, "serve", "", "serve a read-only HTTP view (default address from config)")
	f.Lookup("serve").NoOptDefVal = serveDefault
	f.StringVar(&a.configPath, "config", "", "YAML config file (env SMSCTL_CONFIG)")
	f.StringVar(&a.logFile, "log-file", "", "JSON message log (default sms.json)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		if strings.Contains(err.Error(), "delete") && strings.Contains(err.Error(), "needs an argument") {
			return usageError(msgDeleteUsage)
		}
		return usageError(msgUnrecognized)
	})
	return cmd
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	deleteSet := cmd.Flags().Changed("delete")
	serveSet := cmd.Flags().Changed("serve")

	modes := 0
	for _, set := range []bool{a.list, deleteSet, serveSet} {
		if set {
			modes++
		}
	}
	if modes > 1 || (modes == 1 && len(args) > 0) || (modes == 0 && len(args) != 0 && len(args) != 2) {
		return usageError(msgUnrecognized)
	}
	if deleteSet && strings.TrimSpace(a.deleteSpec) == "" {
		return usageError(msgDeleteUsage)
	}

	if err := a.setup(); err != nil {
		return &cliError{code: exitError, msg: "configuration error", err: err}
	}

	provider, err := a.newProvider(a.cfg, a.log)
	if err != nil {
		return &cliError{code: exitError, msg: "could not reach ModemManager", err: err}
	}

	store := smslog.NewJSONFile(a.cfg.LogFile, a.log)
	mgr := sms.NewManager(provider, store, a.stdout, a.log)
	mgr.LogName = a.cfg.LogFile
	mgr.Numbers = sms.NumberRule{CountryCode: a.cfg.CountryCode, LocalLength: a.cfg.LocalNumberLength}
	mgr.PreviewLength = a.cfg.PreviewLength

	disc := &modem.Discoverer{Provider: provider, Log: a.log.With().Str("component", "modem").Logger()}
	if a.cfg.CheckService && a.checker != nil {
		disc.Checker = a.checker
		disc.Unit = a.cfg.ServiceName
	}

	if serveSet {
		addr := a.serveAddr
		if addr == serveDefault {
			addr = a.cfg.ListenAddr
		}
		return a.serve(addr, mgr, disc)
	}

	ctx := cmd.Context()
	md, err := disc.Discover(ctx)
	if err != nil {
		if errors.Is(err, modem.ErrModemNotFound) {
			return &cliError{code: exitError, msg: fmt.Sprintf("%s. %s", capitalize(err.Error()), msgNoModem)}
		}
		return &cliError{code: exitError, msg: "modem discovery failed", err: err}
	}

	switch {
	case a.list:
		mgr.List(ctx, md)
		return nil
	case deleteSet:
		mgr.Delete(ctx, md, a.deleteSpec)
		return nil
	case len(args) == 2:
		if _, err := mgr.Send(ctx, md, args[0], args[1]); err != nil {
			return &cliError{code: exitError, err: err}
		}
		return nil
	default:
		return a.passive(ctx, mgr, md)
	}
}

func (a *app) passive(ctx context.Context, mgr *sms.Manager, md *modem.Modem) error {
	_, recvErr := mgr.Receive(ctx, md)
	showErr := mgr.ShowLog(a.cfg.DisplayCount)
	if err := errors.Join(recvErr, showErr); err != nil {
		return &cliError{code: exitError, err: err}
	}
	return nil
}

// setup loads configuration and builds the diagnostic logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}
	a.cfg = cfg

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: a.stderr}).
		With().Timestamp().Logger().Level(level)
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newApp(stdout, stderr).command()
	cmd.SetArgs(args)
	return exitCode(cmd.Execute(), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		// without a message the operation has already reported on stdout
		if ce.msg != "" {
			fmt.Fprintf(stderr, "Error: %s\n", ce.Error())
		}
		return ce.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitError
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
