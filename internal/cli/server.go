package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/trueeth/cw20-reflection/internal/config"
	"github.com/trueeth/cw20-reflection/internal/core/engine"
	"github.com/trueeth/cw20-reflection/internal/core/treasury"
	"github.com/trueeth/cw20-reflection/internal/rpc"
	"github.com/trueeth/cw20-reflection/internal/storage/eventindex"
	"github.com/trueeth/cw20-reflection/internal/storage/kv"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the reflectd daemon",
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.RunE = runServer
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.Node.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := kv.Open(cfg.Storage.Backend, cfg.Node.DataDir)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer db.Close()
	log.WithFields(logrus.Fields{
		"backend":  cfg.Storage.Backend,
		"data_dir": cfg.Node.DataDir,
	}).Info("state store opened")

	var sinks []engine.EventSink

	var index *eventindex.Index
	if cfg.Index.Enabled {
		dsn := cfg.Index.DSN
		if dsn == "" && cfg.Index.Backend == eventindex.BackendSQLite {
			dsn = cfg.Node.DataDir + "/events.db"
		}
		index, err = eventindex.Open(ctx, eventindex.Config{
			Backend:         cfg.Index.Backend,
			DSN:             dsn,
			MaxOpenConns:    cfg.Index.MaxOpenConns,
			MaxIdleConns:    cfg.Index.MaxIdleConns,
			ConnMaxLifetime: cfg.Index.ConnMaxLifetime,
		})
		if err != nil {
			return fmt.Errorf("open event index: %w", err)
		}
		defer index.Close()
		sinks = append(sinks, index)
		log.WithField("backend", cfg.Index.Backend).Info("event index opened")
	}

	var feed *rpc.Feed
	if cfg.RPC.EnableWS {
		feed = rpc.NewFeed(log)
		defer feed.Close()
		sinks = append(sinks, feed)
	}

	pairs, balances := buildVenueQueriers(cfg.Treasury, log)

	eng := engine.New(engine.Options{
		DB:                 db,
		Pairs:              pairs,
		Balances:           balances,
		Dispatcher:         engine.NewLogDispatcher(log),
		Sinks:              sinks,
		MinLiquifyInterval: cfg.Treasury.MinLiquifyInterval,
		Logger:             log,
	})

	server := rpc.NewServer(eng, feed, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.RPC.ListenAddr).Info("rpc server listening")
		return server.ListenAndServe(ctx, cfg.RPC.ListenAddr)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("reflectd stopped")
	return nil
}

func buildVenueQueriers(cfg config.TreasuryConfig, log *logrus.Logger) (treasury.PairQuerier, treasury.BalanceQuerier) {
	if cfg.VenueEndpoint == "" {
		log.Warn("no venue gateway configured, pair bindings and liquify planning disabled")
		return treasury.UnavailableQuerier{}, treasury.UnavailableBalances{}
	}
	client := treasury.NewHTTPPairQuerier(cfg.VenueEndpoint)
	cached, err := treasury.NewCachedPairQuerier(client, cfg.PairCacheSize)
	if err != nil {
		// only reachable with a non-positive cache size, which
		// validation already rejects
		log.WithError(err).Warn("pair cache disabled")
		return client, client
	}
	return cached, client
}

func newLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	log.SetLevel(level)
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}
