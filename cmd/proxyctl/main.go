package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/client"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/console"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/environment"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/inflight"
	ll "gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/logger"
)

//nolint:gochecknoglobals
var version = "unknown"

// Options are the global proxyctl options.
type Options struct {
	API     string        `long:"api" env:"PROXYCTL_API" description:"Admin API base URL" default:"http://127.0.0.1:8080"`
	Timeout time.Duration `long:"timeout" env:"PROXYCTL_TIMEOUT" description:"Request timeout" default:"30s"`
	Output  string        `short:"o" long:"output" env:"PROXYCTL_OUTPUT" description:"Output format" choice:"table" choice:"json" choice:"yaml" default:"table"` //nolint:staticcheck,lll
	Verbose bool          `short:"v" long:"verbose" description:"Log requests to stderr"`
}

// app is the state shared by all commands.
type app struct {
	opts    Options
	client  *client.Client
	console *console.Console
	out     *printer
}

//nolint:gochecknoglobals
var cli = &app{}

func main() {
	parser := flags.NewParser(&cli.opts, flags.Default)
	parser.Name = "proxyctl"
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if command == nil {
			return nil
		}
		if err := cli.init(); err != nil {
			return err
		}
		return command.Execute(args)
	}

	if err := register(parser); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

func (a *app) init() error {
	logger := zap.NewNop()
	if a.opts.Verbose {
		l, err := ll.New(version, environment.Local, "debug")
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		logger = l
	}

	a.client = client.New(a.opts.API, client.WithTimeout(a.opts.Timeout))
	a.console = console.New(a.client, a.client, inflight.New(), logger)
	a.out = newPrinter(os.Stdout, a.opts.Output)
	return nil
}

// describe renders an error the way an operator should see it.
func describe(err error) string {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return errs.Message(err)
}
