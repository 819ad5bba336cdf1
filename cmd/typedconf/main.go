// Command typedconf loads an INI file, infers the type of every value and
// prints the resulting typed tables.
//
//	typedconf [flags] [file]
//
// Without a file argument the path is taken from --config, the
// TYPEDCONF_CONFIG environment variable, typedconf.{conf,ini,cfg} in the
// working directory or XDG config directories, and finally test.conf.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/typedconf"
	"github.com/lixenwraith/typedconf/internal/logging"
)

// DefaultFile is loaded when no path is given or discovered
const DefaultFile = "test.conf"

const appName = "typedconf"

type options struct {
	file          string
	format        typedconf.Format
	output        string
	logLevel      string
	watch         bool
	require       []string
	caseSensitive bool
	inline        bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	opts, exit, err := parseArgs(args, stdout, stderr)
	if exit >= 0 {
		return exit
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 2
	}

	logger, err := logging.New(opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "%s: failed to initialize logger: %v\n", appName, err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	loaderOpts := typedconf.DefaultLoaderOptions()
	loaderOpts.CaseSensitive = opts.caseSensitive
	loaderOpts.InlineComments = opts.inline

	builder := typedconf.NewBuilder().
		WithArgs(nil).
		WithFile(opts.file).
		WithFileDiscovery(discoveryOptions()).
		WithFallbackFile(DefaultFile).
		WithLoaderOptions(loaderOpts).
		WithLogger(logger)
	if len(opts.require) > 0 {
		builder.WithValidator(typedconf.Require(opts.require...))
	}

	tc, err := builder.Build()
	if err != nil {
		logger.Error("failed to load configuration", zap.String("path", builder.Path()), zap.Error(err))
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}

	if opts.output != "" {
		err = tc.Save(opts.output, opts.format)
	} else {
		err = tc.Dump(stdout, opts.format)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}

	if !opts.watch {
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watch(ctx, builder.Path(), loaderOpts, opts.format, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}
	return 0
}

// parseArgs returns exit >= 0 when kingpin already handled the invocation (--help)
func parseArgs(args []string, stdout, stderr io.Writer) (opts options, exit int, err error) {
	exit = -1

	app := kingpin.New(appName, "Load an INI file and print its values partitioned by inferred type.")
	app.UsageWriter(stdout)
	app.ErrorWriter(stderr)
	app.Terminate(func(code int) { exit = code })

	file := app.Arg("file", "INI file to load").String()
	config := app.Flag("config", "INI file to load (alternative to the positional argument)").Short('c').String()
	format := app.Flag("format", "Output format: text, toml, yaml or json").Short('f').Default(string(typedconf.FormatText)).Enum("text", "toml", "yaml", "json")
	output := app.Flag("output", "Write the typed tables to this file instead of stdout").Short('o').String()
	logLevel := app.Flag("log-level", "Log level for diagnostics on stderr").Default("warn").Enum("debug", "info", "warn", "error")
	watch := app.Flag("watch", "Keep running and print the configuration again whenever the file changes").Short('w').Bool()
	require := app.Flag("require", "Fail unless the key is present (repeatable)").Short('r').Strings()
	caseSensitive := app.Flag("case-sensitive", "Keep the case of keys and section names").Bool()
	inline := app.Flag("inline-comments", "Strip ';' and '#' comments that follow a value").Bool()

	if _, err = app.Parse(args); err != nil || exit >= 0 {
		return opts, exit, err
	}

	opts.file = *file
	if opts.file == "" {
		opts.file = *config
	}
	opts.format, err = typedconf.ParseFormat(*format)
	opts.output = *output
	opts.logLevel = *logLevel
	opts.watch = *watch
	opts.require = *require
	opts.caseSensitive = *caseSensitive
	opts.inline = *inline
	return opts, exit, err
}

func discoveryOptions() typedconf.FileDiscoveryOptions {
	opts := typedconf.DefaultDiscoveryOptions(appName)
	// kingpin owns the command line
	opts.CLIFlag = ""
	return opts
}

// watch prints the configuration after every successful reload until ctx is done
func watch(ctx context.Context, path string, loaderOpts typedconf.LoaderOptions, format typedconf.Format, stdout io.Writer, logger *zap.Logger) error {
	watchOpts := typedconf.DefaultWatchOptions()
	watchOpts.Loader = loaderOpts
	watchOpts.Logger = logger

	w, err := typedconf.NewWatcher(path, watchOpts)
	if err != nil {
		return err
	}

	changes := w.Subscribe()
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	logger.Info("watching for changes", zap.String("path", w.Path()))

	for change := range changes {
		if change.Err != nil {
			logger.Warn("configuration reload failed", zap.Error(change.Err))
			continue
		}
		logger.Info("configuration changed", zap.Strings("keys", change.Keys))
		if err := change.Config.Dump(stdout, format); err != nil {
			return err
		}
	}

	return <-done
}
