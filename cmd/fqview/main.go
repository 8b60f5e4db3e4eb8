package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/AlexGokan/fqview/internal/config"
	"github.com/AlexGokan/fqview/internal/fastq"
	"github.com/AlexGokan/fqview/internal/render"
	"github.com/AlexGokan/fqview/internal/tui"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

func main() {
	os.Exit(run(os.Stdout, os.Args[1:]))
}

func run(stdout io.Writer, args []string) int {
	var (
		numRecords  int
		wrap        int
		noSeqColor  bool
		legend      bool
		rawQuality  bool
		noColor     bool
		interactive bool
		configPath  string
		verbose     bool
		showVersion bool
	)

	fs := flag.NewFlagSet("fqview", flag.ContinueOnError)
	fs.IntVar(&numRecords, "n", 0, "maximum records to render, 0 renders all")
	fs.IntVar(&numRecords, "num-records", 0, "maximum records to render, 0 renders all")
	fs.IntVar(&wrap, "wrap", 0, "wrap sequence and quality lines at this width, 0 disables")
	fs.BoolVar(&noSeqColor, "no-seq-color", false, "disable nucleotide coloring, keep quality colors")
	fs.BoolVar(&legend, "legend", false, "print the quality score legend before the records")
	fs.BoolVar(&rawQuality, "raw-quality", false, "print raw quality characters beneath the blocks")
	fs.BoolVar(&noColor, "no-color", false, "disable all color and styling")
	fs.BoolVar(&interactive, "i", false, "browse records interactively")
	fs.BoolVar(&interactive, "interactive", false, "browse records interactively")
	fs.StringVar(&configPath, "config", "", "path to config.json (optional)")
	fs.BoolVar(&verbose, "v", false, "enable verbose (debug) logging")
	fs.BoolVar(&verbose, "verbose", false, "enable verbose (debug) logging")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: fqview [flags] <reads.fastq | reads.fastq.gz>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintln(stdout, "fqview", version)
		return 0
	}

	// load config (optional file)
	cfg, cfgErr := config.LoadConfig(configPath)
	if cfg == nil {
		cfg = &config.Config{}
	}

	logger, closeLog := newLogger(cfg, verbose)
	defer closeLog()
	if cfgErr != nil {
		logger.Error("cannot parse config", "path", configPath, "err", cfgErr)
		return 1
	}

	// merge CLI flags into config (flags override config when provided)
	if numRecords != 0 {
		cfg.NumRecords = numRecords
	}
	if wrap != 0 {
		cfg.Wrap = wrap
	}
	if noSeqColor {
		cfg.NoSeqColor = true
	}
	if legend {
		cfg.Legend = true
	}
	if rawQuality {
		cfg.RawQuality = true
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(fs.Output(), "fqview: exactly one input file is required")
		fs.Usage()
		return 2
	}
	path := fs.Arg(0)

	color := !noColor && os.Getenv("NO_COLOR") == ""
	opts := render.Options{
		NumRecords: cfg.NumRecords,
		Wrap:       cfg.Wrap,
		SeqColor:   !cfg.NoSeqColor,
		Color:      color,
		Legend:     cfg.Legend,
		RawQuality: cfg.RawQuality,
	}
	logger.Debug("loaded config", "path", path, "num_records", cfg.NumRecords, "wrap", cfg.Wrap,
		"no_seq_color", cfg.NoSeqColor, "legend", cfg.Legend, "raw_quality", cfg.RawQuality, "color", color)

	if interactive {
		records, err := fastq.ReadFile(path, cfg.NumRecords)
		if err != nil {
			logInputError(logger, path, err)
			return 1
		}
		logger.Debug("loaded records", "path", path, "records", len(records))
		if err := tui.Run(path, records, opts); err != nil {
			logger.Error("interactive browser failed", "err", err)
			return 1
		}
		return 0
	}

	in, err := fastq.Open(path)
	if err != nil {
		logInputError(logger, path, err)
		return 1
	}
	defer in.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		in.Close()
		os.Exit(130)
	}()

	n, err := render.Render(stdout, fastq.NewReader(in), opts)
	if err != nil {
		logInputError(logger, path, err)
		return 1
	}
	logger.Debug("rendered records", "path", path, "records", n)
	return 0
}

// newLogger builds the stderr logger, teeing into cfg.LogFile when set.
// The returned func closes the log file at exit.
func newLogger(cfg *config.Config, verbose bool) (*log.Logger, func()) {
	var out io.Writer = os.Stderr
	closeLog := func() {}
	logFileOpen := false
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			// write to both stderr and file so running interactively still shows logs
			out = io.MultiWriter(os.Stderr, f)
			closeLog = func() { _ = f.Close() }
			logFileOpen = true
		}
	}

	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true, Prefix: "fqview"})

	// apply log level from flags/config (flags override config)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		switch strings.ToLower(cfg.LogLevel) {
		case "debug":
			logger.SetLevel(log.DebugLevel)
		case "info":
			logger.SetLevel(log.InfoLevel)
		// quiet by default: stdout is the document, stderr should stay clear
		case "warn", "warning", "":
			logger.SetLevel(log.WarnLevel)
		case "error":
			logger.SetLevel(log.ErrorLevel)
		default:
			logger.SetLevel(log.WarnLevel)
			logger.Warn("unknown log_level in config, defaulting to warn", "provided", cfg.LogLevel)
		}
	}

	if cfg.LogFile != "" && !logFileOpen {
		logger.Warn("log_file specified but could not be opened; logging to stderr only", "path", cfg.LogFile)
	}
	return logger, closeLog
}

func logInputError(logger *log.Logger, path string, err error) {
	var ferr *fastq.FormatError
	if errors.As(err, &ferr) {
		logger.Error("malformed input", "path", path, "record", ferr.Record, "err", ferr.Err)
		return
	}
	logger.Error("cannot read input", "path", path, "err", err)
}
