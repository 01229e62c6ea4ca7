package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mmynk/consoleatm/internal/auth"
	"github.com/mmynk/consoleatm/internal/config"
	"github.com/mmynk/consoleatm/internal/console"
	"github.com/mmynk/consoleatm/internal/events"
	"github.com/mmynk/consoleatm/internal/events/kafka"
	"github.com/mmynk/consoleatm/internal/ledger"
	"github.com/mmynk/consoleatm/internal/metrics"
	"github.com/mmynk/consoleatm/internal/middleware"
	"github.com/mmynk/consoleatm/internal/models"
	"github.com/mmynk/consoleatm/internal/session"
	"github.com/mmynk/consoleatm/internal/storage"
	"github.com/mmynk/consoleatm/internal/storage/sqlite"
	"github.com/mmynk/consoleatm/pkg/logging"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "hash-pin":
			os.Exit(hashPIN())
		case "journal":
			os.Exit(journal(os.Args[2:]))
		}
	}
	os.Exit(run())
}

// hashPIN reads one PIN from stdin and prints its bcrypt hash for seed files.
func hashPIN() int {
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		fmt.Fprintln(os.Stderr, "no PIN on stdin")
		return 1
	}
	hashed, err := auth.HashPIN(strings.TrimSpace(scanner.Text()))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(hashed)
	return 0
}

func run() int {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	logger := logging.Setup(cfg.LogLevel)

	seed, err := cfg.LoadSeed()
	if err != nil {
		logger.Error("Failed to load seed accounts", "error", err)
		return 1
	}

	var opts []ledger.Option
	if cfg.HashedPINs {
		opts = append(opts, ledger.WithCredentialMatcher(auth.BcryptMatch))
	}
	book, err := ledger.New(seed, opts...)
	if err != nil {
		logger.Error("Failed to initialize ledger", "error", err)
		return 1
	}
	logger.Info("Ledger initialized", "accounts", len(book.IDs()), "hashed_pins", cfg.HashedPINs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Debug("Press Ctrl+C twice to quit while a prompt is waiting")

	dispatcher := events.NewDispatcher(logger, events.NewLogListener(logger))

	if cfg.JournalPath != "" {
		journal, err := sqlite.New(cfg.JournalPath)
		if err != nil {
			logger.Error("Failed to initialize journal", "error", err)
			return 1
		}
		defer journal.Close()
		dispatcher.Subscribe(journal)
		logger.Info("Journal initialized", "database", cfg.JournalPath)
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		dispatcher.Subscribe(publisher)
		logger.Info("Kafka publisher initialized", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	metricsDone := make(chan error, 1)
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	if cfg.MetricsAddr != "" {
		collector := metrics.NewCollector()
		dispatcher.Subscribe(collector)
		go func() {
			metricsDone <- metrics.Serve(metricsCtx, cfg.MetricsAddr, collector, logger)
		}()
	} else {
		metricsDone <- nil
	}

	go releaseOnSignal(ctx, stop, os.Stdin)

	ctl := session.New(book, auth.NewPINAuthenticator(book), dispatcher, logger)
	shellErr := console.New(os.Stdin, os.Stdout, middleware.Logging(ctl, logger)).Run(ctx)

	stopMetrics()
	if err := <-metricsDone; err != nil {
		logger.Error("Metrics server failed", "error", err)
	}

	if shellErr != nil && ctx.Err() == nil {
		logger.Error("Console failed", "error", shellErr)
		return 1
	}
	logger.Info("Session ended", "session_id", ctl.ID(), "state", ctl.State())
	return 0
}

// releaseOnSignal waits for the first signal, restores default signal
// handling so a second Ctrl+C kills the process, and closes in. Closing stdin
// does not interrupt a read already blocked on a terminal.
func releaseOnSignal(ctx context.Context, stop context.CancelFunc, in io.Closer) {
	<-ctx.Done()
	stop()
	in.Close()
}

// journal prints recorded events as JSON lines.
func journal(args []string) int {
	fs := flag.NewFlagSet("journal", flag.ContinueOnError)
	envFile := fs.String("env", ".env", "optional dotenv file")
	var filter storage.EventFilter
	fs.StringVar(&filter.SessionID, "session", "", "only events of this session")
	fs.StringVar(&filter.AccountID, "account", "", "only events involving this account")
	kind := fs.String("kind", "", "only events of this kind")
	fs.IntVar(&filter.Limit, "limit", 0, "maximum number of events")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	filter.Kind = models.EventKind(*kind)

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if cfg.JournalPath == "" {
		fmt.Fprintln(os.Stderr, "ATM_JOURNAL_PATH is not set")
		return 2
	}

	store, err := sqlite.New(cfg.JournalPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer store.Close()

	if err := printEvents(context.Background(), store, filter, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printEvents(ctx context.Context, j storage.Journal, filter storage.EventFilter, w io.Writer) error {
	recorded, err := j.ListEvents(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	enc := json.NewEncoder(w)
	for _, e := range recorded {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}
