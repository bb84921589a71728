package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/akashipov/feeservice/internal/arguments"
	"github.com/akashipov/feeservice/internal/pkg/middleware/logger"
	"github.com/akashipov/feeservice/internal/server"
	"github.com/akashipov/feeservice/internal/storage"
	"github.com/akashipov/feeservice/internal/storage/cache"
	"github.com/akashipov/feeservice/internal/storage/memory"
	"github.com/akashipov/feeservice/internal/storage/postgres"
	"github.com/akashipov/feeservice/internal/subscriber"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

func SignalWorker(done chan struct{}, log *zap.SugaredLogger) {
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigint
	log.Infof("Signal: %v", sig)
	close(done)
}

func openStore(ctx context.Context, cfg *arguments.Config, log *zap.SugaredLogger) (storage.Store, error) {
	if cfg.PostgresDSN == "" {
		log.Warnln("Postgres DSN is empty, fee specifications are kept in memory")
		return memory.New(), nil
	}
	w, err := postgres.NewSqlWorker(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	err = w.CreateDefaultTables(ctx)
	if err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := arguments.ParseArgsServer(os.Args[1:])
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(2)
	}
	log, err := logger.GetLogger(cfg.LogLevel)
	if err != nil {
		fmt.Println("Log creation problem " + err.Error())
		os.Exit(1)
	}
	defer log.Sync()
	log.Infow("Configuration",
		"http", cfg.HPServer,
		"nats", cfg.NatsURL,
		"nats_subject", cfg.NatsSubject,
		"cache_size", cfg.CacheSize,
		"cache_ttl", cfg.CacheTimeLimit,
	)

	ctx := context.Background()
	base, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Errorln(err.Error())
		return
	}
	store := cache.New(base, cfg.CacheSize, cfg.CacheTimeLimit, log)
	defer store.Close()

	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			log.Errorln(err.Error())
			return
		}
		defer func() {
			nc.Drain()
			log.Infoln("Subscription was closed!")
		}()
		sub := &subscriber.Subscriber{Store: store, Log: log, Timeout: 5 * time.Second}
		_, err = sub.Subscribe(nc, cfg.NatsSubject)
		if err != nil {
			log.Errorln(err.Error())
			return
		}
	}

	srv, err := server.NewServer(cfg.HPServer, store, log)
	if err != nil {
		log.Errorln(err.Error())
		return
	}
	done := make(chan struct{})
	go SignalWorker(done, log)
	var w sync.WaitGroup
	w.Add(1)
	go srv.RunServer(done, &w)
	w.Wait()
}
