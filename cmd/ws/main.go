package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Werneck0live/pipeline-empresas/internal/broker"
	"github.com/Werneck0live/pipeline-empresas/internal/config"
	"github.com/Werneck0live/pipeline-empresas/internal/middleware"
	"github.com/Werneck0live/pipeline-empresas/internal/utils"
	"github.com/Werneck0live/pipeline-empresas/internal/ws"
)

// cmd/ws/main.go: consome os eventos do pipeline e repassa aos clientes websocket.
func main() {
	cfg := config.LoadWSConfig()
	log := config.InitLogger(cfg.LogLevel, cfg.LogFormat).With("svc", "ws")

	hub := ws.NewHub(log)
	go hub.Run()

	consumer, err := broker.NewConsumer(cfg.RabbitURI, cfg.RabbitQueue, "ws-consumer", cfg.ConsumerPrefetch)
	if err != nil {
		log.Error("rabbit_consumer_start_error", "err", err)
		os.Exit(1)
	}
	defer func() { _ = consumer.Close() }()
	log.Info("rabbit_consumer_started", "queue", cfg.RabbitQueue, "prefetch", cfg.ConsumerPrefetch)

	// roteia pela empresa gravada no header da mensagem
	go func() {
		for d := range consumer.Deliveries {
			hub.Broadcast(broker.CompanyID(d), d.Body)
		}
		log.Warn("deliveries_channel_closed")
	}()

	mux := http.NewServeMux()
	mux.Handle("/ws", ws.NewHandler(hub, log))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "clients": hub.Len()})
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           middleware.Logging(log, mux),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		log.Info("ws_listen", "addr", cfg.Addr)
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
	hub.Stop()
	log.Info("stopped")
}
