package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ltemon/internal/app"
	"ltemon/internal/bus"
	"ltemon/internal/config"
	"ltemon/internal/connectors"
	"ltemon/internal/domain"
	"ltemon/internal/logging"
	"ltemon/internal/notifications"
	"ltemon/internal/persistence"
	"ltemon/internal/radio"
	"ltemon/internal/server"
	"ltemon/internal/transport"
)

const retentionSweepInterval = time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("run ltemon", "error", err)
		os.Exit(1)
	}
}

func run() error {
	connector := flag.String("connector", "", "connector type (ip, serial); overrides config")
	host := flag.String("host", "", "ip/hostname of the modem-side feeder; overrides config")
	serialPort := flag.String("serial-port", "", "serial device path; overrides config")
	listenFor := flag.Duration("listen-for", 0, "exit after this duration, e.g. 30s (0 = run until interrupt)")
	once := flag.Bool("once", false, "wait for a single record, print its quality, then exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, err := app.ResolvePaths()
	if err != nil {
		return fmt.Errorf("resolve paths: %w", err)
	}
	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlagOverrides(&cfg, *connector, *host, *serialPort)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logMgr := logging.NewManager()
	if err := logMgr.Configure(cfg.Logging, paths.LogFile); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer func() {
		if closeErr := logMgr.Close(); closeErr != nil {
			slog.Warn("close log manager", "error", closeErr)
		}
	}()
	logger := logMgr.Logger("main")
	logger.Info("starting ltemon", "version", app.BuildVersionWithDate(), "target", connectionTarget(cfg.Connection))

	db, err := persistence.Open(ctx, paths.DBFile)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("close sqlite", "error", closeErr)
		}
	}()
	repo := persistence.NewMeasurementRepo(db)

	b := bus.New(logMgr.Logger("bus"))
	defer b.Close()

	store := domain.NewSignalStore()
	store.Start(ctx, b)

	writer := persistence.NewWriterQueue(logMgr.Logger("persistence"), 256)
	writer.Start(ctx)
	domain.StartPersistenceProjection(ctx, b, writer, repo)
	go runRetentionSweeper(ctx, logger, repo, cfg.Storage.HistoryDays)

	tr, err := buildTransport(cfg.Connection)
	if err != nil {
		return err
	}
	radioSvc := radio.NewService(logMgr.Logger("radio"), b, tr)

	if *once {
		sub := b.Subscribe(connectors.TopicSignalUpdate)
		defer b.Unsubscribe(sub, connectors.TopicSignalUpdate)
		radioSvc.Start(ctx)

		return printFirstMeasurement(ctx, sub)
	}
	radioSvc.Start(ctx)

	if cfg.Server.Enabled {
		srv := server.New(logMgr.Logger("server"), b, store, repo, cfg.Server.Listen)
		srv.Start(ctx)
	}

	if cfg.Alerts.Enabled {
		sender := notifications.NewBeeepSender(logMgr.Logger("notifications"))
		alerts := app.NewAlertService(b, func() config.AppConfig { return cfg }, sender, logMgr.Logger("alerts"))
		alerts.Start(ctx)
	}

	if *listenFor > 0 {
		logger.Info("listen mode", "duration", *listenFor)
		select {
		case <-ctx.Done():
		case <-time.After(*listenFor):
		}

		return nil
	}

	logger.Info("monitoring until interrupt")
	<-ctx.Done()

	return nil
}

func printFirstMeasurement(ctx context.Context, sub bus.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-sub:
			m, ok := msg.(domain.Measurement)
			if !ok {
				continue
			}
			fmt.Printf("%s level=%d (%s) asu=%d\n",
				m.Signal, m.Signal.Level(), m.Signal.Level(), m.Signal.AsuLevel())

			return nil
		}
	}
}

func applyFlagOverrides(cfg *config.AppConfig, connector, host, serialPort string) {
	if c := strings.TrimSpace(connector); c != "" {
		cfg.Connection.Connector = config.ConnectorType(c)
	}
	if h := strings.TrimSpace(host); h != "" {
		cfg.Connection.Host = h
	}
	if p := strings.TrimSpace(serialPort); p != "" {
		cfg.Connection.SerialPort = p
	}
}

func buildTransport(cfg config.ConnectionConfig) (transport.Transport, error) {
	switch cfg.Connector {
	case config.ConnectorIP:
		return transport.NewIPTransport(cfg.Host, cfg.Port), nil
	case config.ConnectorSerial:
		return transport.NewSerialTransport(cfg.SerialPort, cfg.SerialBaud), nil
	default:
		return nil, fmt.Errorf("unknown connector: %s", cfg.Connector)
	}
}

func connectionTarget(cfg config.ConnectionConfig) string {
	switch cfg.Connector {
	case config.ConnectorSerial:
		return fmt.Sprintf("%s@%d", cfg.SerialPort, cfg.SerialBaud)
	default:
		return cfg.Host
	}
}

func runRetentionSweeper(ctx context.Context, logger *slog.Logger, repo domain.MeasurementRepository, historyDays int) {
	if historyDays <= 0 {
		return
	}

	ticker := time.NewTicker(retentionSweepInterval)
	defer ticker.Stop()

	for {
		cutoff := time.Now().AddDate(0, 0, -historyDays)
		deleted, err := repo.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			logger.Warn("history sweep failed", "error", err)
		} else if deleted > 0 {
			logger.Info("trimmed measurement history", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
