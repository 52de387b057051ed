package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Werneck0live/pipeline-empresas/internal/admin"
	"github.com/Werneck0live/pipeline-empresas/internal/broker"
	"github.com/Werneck0live/pipeline-empresas/internal/config"
	"github.com/Werneck0live/pipeline-empresas/internal/db"
	"github.com/Werneck0live/pipeline-empresas/internal/duediligence"
	"github.com/Werneck0live/pipeline-empresas/internal/events"
	"github.com/Werneck0live/pipeline-empresas/internal/gateway"
	"github.com/Werneck0live/pipeline-empresas/internal/handlers"
	"github.com/Werneck0live/pipeline-empresas/internal/inefficiency"
	"github.com/Werneck0live/pipeline-empresas/internal/localstore"
	"github.com/Werneck0live/pipeline-empresas/internal/middleware"
	"github.com/Werneck0live/pipeline-empresas/internal/repository"
)

// cmd/api/main.go
func main() {
	cfg := config.Load() // .env

	// Logger JSON "global" - permite usar slog.Info/slog.Error/Warn em qualquer lugar
	log := config.InitLogger(cfg.LogLevel, cfg.LogFormat).With("svc", "api")

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: seed")
	flag.Parse()

	log.Info("starting", "port", cfg.Port, "mongo_db", cfg.MongoDB, "local_store_only", cfg.LocalStoreOnly)

	// publisher (Rabbit); sem Rabbit os eventos só vão para o log
	var pub events.Publisher
	if p, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue); err != nil {
		log.Warn("rabbitmq_unavailable", "err", err)
	} else {
		pub = p
		defer func() { _ = p.Close() }()
	}
	notifier := events.NewNotifier(pub, log)

	gw, closeStores, err := openStores(cfg, notifier, log)
	if err != nil {
		log.Error("store_init_error", "err", err)
		os.Exit(1)
	}
	defer closeStores()

	if *task != "" {
		switch *task {
		case "seed":
			if err := admin.SeedCompanies(context.Background(), gw, log); err != nil {
				log.Error("seed_failed", "err", err)
				os.Exit(1)
			}
			log.Info("seed_done", "store", gw.Mode())
			return // encerra o processo sem subir HTTP
		default:
			log.Error("unknown_admin_task", "task", *task)
			os.Exit(2)
		}
	}

	v := handlers.NewValidator()
	companies := handlers.NewCompanyHandler(gw, notifier, v)
	rank := handlers.NewRankingHandler(gw, v)
	dd := handlers.NewDueDiligenceHandler(duediligence.NewTracker(gw, log), notifier, v)
	ineff := handlers.NewInefficiencyHandler(inefficiency.NewService(gw, log), notifier, v)
	exp := handlers.NewExportHandler(gw)
	companies.Timeout, rank.Timeout, dd.Timeout, ineff.Timeout, exp.Timeout =
		cfg.RequestTimeout, cfg.RequestTimeout, cfg.RequestTimeout, cfg.RequestTimeout, cfg.RequestTimeout

	router := &handlers.Router{
		Companies:    companies,
		Ranking:      rank,
		DueDiligence: dd,
		Inefficiency: ineff,
		Export:       exp,
		Status:       gw,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Logging(log, router.Mux()),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// start server
	go func() {
		log.Info("api_listen", "addr", srv.Addr, "store", gw.Mode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful_shutdown_error", "err", err)
	}
	log.Info("stopped")
}

// openStores sobe o store local (sempre) e o Mongo (se não estiver em modo
// local). Mongo fora do ar na partida não derruba a API: o gateway fica no local.
func openStores(cfg *config.Config, n *events.Notifier, log *slog.Logger) (*gateway.Gateway, func(), error) {
	gdb, err := db.OpenSQLite(cfg.LocalStorePath)
	if err != nil {
		return nil, nil, err
	}
	local, err := localstore.New(gdb)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}}

	var primary gateway.Store
	if !cfg.LocalStoreOnly {
		client, err := db.NewMongoClient(cfg.MongoURI)
		if err != nil {
			log.Warn("mongo_unavailable_using_local_store", "err", err)
		} else {
			closers = append(closers, func() { _ = client.Disconnect(context.Background()) })
			store := repository.NewStore(client.Database(cfg.MongoDB))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := store.EnsureIndexes(ctx); err != nil {
				log.Warn("mongo_ensure_indexes_error", "err", err)
			}
			cancel()
			primary = store
		}
	}

	gw := gateway.New(primary, local, gateway.Options{
		Cooldown:   cfg.BreakerCooldown,
		LocalOnly:  cfg.LocalStoreOnly,
		OnFallback: n.Fallback,
		Permanent:  []error{repository.ErrDuplicateCNPJ, repository.ErrDuplicateEntry},
		Logger:     log,
	})
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return gw, closeAll, nil
}
